package deriver

import (
	"regexp"
)

// Substitution replaces one capture group of the first match of Pattern.
// Group 0 replaces the whole match.
type Substitution struct {
	Pattern *regexp.Regexp
	Group   int
}

var (
	// host in "host:port"
	hostWithPort = Substitution{Pattern: regexp.MustCompile(`([\w|.]*):`), Group: 1}
	// host in "scheme://host:port"
	hostWithPrefix = Substitution{Pattern: regexp.MustCompile(`://([\w|.]*):`), Group: 1}
	// literal localhost
	localhostHost = Substitution{Pattern: regexp.MustCompile(`localhost`)}
	// first line of the value
	wholeValue = Substitution{Pattern: regexp.MustCompile(`(.*)`)}
	// hive.metastore.uris entry of a comma separated property list
	metastoreURIsEntry = Substitution{Pattern: regexp.MustCompile(`(hive\.metastore\.uris=)([^,]+)`), Group: 2}

	portPattern = regexp.MustCompile(`\w*:(\d+)`)
)

// Replace returns src with the group of the first match replaced by with.
// src is returned unchanged when the pattern or group does not match.
func (s Substitution) Replace(src, with string) string {
	loc := s.Pattern.FindStringSubmatchIndex(src)
	if loc == nil {
		return src
	}
	start, end := loc[2*s.Group], loc[2*s.Group+1]
	if start < 0 {
		return src
	}
	return src[:start] + with + src[end:]
}

// SetRecommendedValue applies s to the recommended value of p, or to the
// empty string when there is none, and stores the result as recommended
// value and value.
func SetRecommendedValue(p *ConfigProperty, s Substitution, with string) {
	setBoth(s.Replace(p.RecommendedValue, with))(p)
}

// extractPort returns the first port of a "host:port" reference.
func extractPort(ref string) (string, error) {
	if ref == "" {
		return "", ErrPortNotFound
	}
	m := portPattern.FindStringSubmatch(ref)
	if m == nil || m[1] == "" {
		return "", ErrPortNotFound
	}
	return m[1], nil
}
