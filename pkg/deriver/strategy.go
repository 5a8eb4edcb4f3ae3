package deriver

import (
	"io"

	"github.com/apache/ambari-config-initializer/pkg/topology"
)

// Kind tags the family a strategy belongs to.
type Kind int

const (
	KindHostSubstitute Kind = iota
	KindHostList
	KindMountUnion
	KindLiteral
)

func (k Kind) String() string {
	switch k {
	case KindHostSubstitute:
		return "host-substitute"
	case KindHostList:
		return "host-list"
	case KindMountUnion:
		return "mount-union"
	case KindLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

// Input is the read-only view a strategy derives from.
type Input struct {
	Name     string
	Filename string
	// Template is the stack default the value is derived from.
	Template string
	Value    string
	Options  []Option

	Topology     *topology.Topology
	Dependencies Dependencies

	// Random feeds generated literals.
	Random io.Reader
}

// Strategy computes a property patch from an Input. Implementations must not
// mutate the Input or the topology.
type Strategy interface {
	Kind() Kind
	// Components lists the topology components the strategy reads.
	Components() []string
	Derive(in Input) (Patch, error)
}
