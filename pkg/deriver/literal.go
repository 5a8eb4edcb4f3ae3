package deriver

import (
	"crypto/rand"
	"fmt"
	"io"
)

const (
	passwordPrefix  = "P1!q"
	passwordLength  = 12
	passwordCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	// largest multiple of len(passwordCharset) not above 256
	charsetLimit = 256 - 256%len(passwordCharset)
)

// GeneratedPassword fills an empty password property with a random value
// that satisfies Ranger's complexity rules. A value already present is kept.
type GeneratedPassword struct{}

func (GeneratedPassword) Kind() Kind { return KindLiteral }

func (GeneratedPassword) Components() []string { return nil }

func (GeneratedPassword) Derive(in Input) (Patch, error) {
	if in.Value != "" {
		return nil, fmt.Errorf("password already set: %w", ErrNotApplicable)
	}
	r := in.Random
	if r == nil {
		r = rand.Reader
	}
	s, err := randomString(r, passwordLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate password: %w", err)
	}
	v := passwordPrefix + s
	return func(p *ConfigProperty) {
		p.Value = v
		p.RecommendedValue = v
		p.RetypedPassword = v
	}, nil
}

// randomString draws n characters from passwordCharset. Bytes at or above
// charsetLimit are discarded so every character is equally likely.
func randomString(r io.Reader, n int) (string, error) {
	out := make([]byte, 0, n)
	buf := make([]byte, n)
	for len(out) < n {
		if _, err := io.ReadFull(r, buf[:n-len(out)]); err != nil {
			return "", err
		}
		for _, b := range buf[:n-len(out)] {
			if int(b) >= charsetLimit {
				continue
			}
			out = append(out, passwordCharset[int(b)%len(passwordCharset)])
		}
	}
	return string(out), nil
}
