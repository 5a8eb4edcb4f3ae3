package deriver

import (
	"errors"

	"github.com/apache/ambari-config-initializer/pkg/topology"
)

var (
	// ErrPortNotFound is returned when a reference value carries no port.
	ErrPortNotFound = errors.New("no port found in reference value")

	// ErrDependencyMissing is returned when a required dependency is empty.
	ErrDependencyMissing = errors.New("required dependency value is empty")

	// ErrNotApplicable is returned when the property shape does not fit the rule.
	ErrNotApplicable = errors.New("rule does not apply to property")

	// ErrDuplicateRule is returned by Register for an existing name/filename pair.
	ErrDuplicateRule = errors.New("rule already registered")
)

// IsMissingComponent reports whether err wraps a topology.MissingComponentError.
func IsMissingComponent(err error) bool {
	var mce *topology.MissingComponentError
	return errors.As(err, &mce)
}

func missing(components ...string) error {
	return &topology.MissingComponentError{Components: components}
}
