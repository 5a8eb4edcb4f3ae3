package deriver

import (
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/apache/ambari-config-initializer/pkg/topology"
)

// Status is the result of deriving one property.
type Status string

const (
	StatusApplied Status = "applied"
	StatusSkipped Status = "skipped"
	StatusUnknown Status = "unknown"
)

// Outcome records what happened to one property.
type Outcome struct {
	Name     string `yaml:"name" json:"name"`
	Filename string `yaml:"filename,omitempty" json:"filename,omitempty"`
	Kind     string `yaml:"kind,omitempty" json:"kind,omitempty"`
	Status   Status `yaml:"status" json:"status"`
	Reason   string `yaml:"reason,omitempty" json:"reason,omitempty"`

	Err error `yaml:"-" json:"-"`
}

// Deriver computes recommended values for configuration properties.
type Deriver struct {
	registry *Registry
	logger   *logrus.Logger
	random   io.Reader
}

// NewDeriver returns a deriver over registry. A nil registry selects
// DefaultRegistry and a nil logger a discarding one.
func NewDeriver(registry *Registry, logger *logrus.Logger) *Deriver {
	if registry == nil {
		registry = DefaultRegistry()
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Deriver{
		registry: registry,
		logger:   logger,
	}
}

// SetRandomSource replaces the source used for generated values.
func (d *Deriver) SetRandomSource(r io.Reader) {
	d.random = r
}

// Registry returns the registry the deriver dispatches on.
func (d *Deriver) Registry() *Registry {
	return d.registry
}

// DeriveInitialValue updates p from topo and deps. Properties without a rule
// and rules whose inputs are missing leave p unchanged.
func (d *Deriver) DeriveInitialValue(p *ConfigProperty, topo *topology.Topology, deps Dependencies) Outcome {
	out := Outcome{Name: p.Name, Filename: p.Filename}
	rule, ok := d.registry.Lookup(p.Name, p.Filename)
	if !ok {
		out.Status = StatusUnknown
		return out
	}
	out.Kind = rule.Strategy.Kind().String()

	fields := logrus.Fields{"property": p.Name, "rule": out.Kind}
	if p.Filename != "" {
		fields["filename"] = p.Filename
	}
	log := d.logger.WithFields(fields)

	in := Input{
		Name:         p.Name,
		Filename:     p.Filename,
		Template:     p.Template(),
		Value:        p.Value,
		Options:      p.Options,
		Topology:     topo,
		Dependencies: deps,
		Random:       d.random,
	}
	patch, err := rule.Strategy.Derive(in)
	if err != nil {
		out.Status = StatusSkipped
		out.Reason = err.Error()
		out.Err = err
		if IsMissingComponent(err) || errors.Is(err, ErrPortNotFound) ||
			errors.Is(err, ErrDependencyMissing) || errors.Is(err, ErrNotApplicable) {
			log.Debugf("Skipping derivation: %v", err)
		} else {
			log.Warnf("Derivation failed: %v", err)
		}
		return out
	}

	p.captureDefault()
	patch(p)
	out.Status = StatusApplied
	log.Debugf("Derived value %q", p.RecommendedValue)
	return out
}

// DeriveAll derives every property in order and returns one outcome each.
func (d *Deriver) DeriveAll(props []*ConfigProperty, topo *topology.Topology, deps Dependencies) []Outcome {
	outcomes := make([]Outcome, 0, len(props))
	applied := 0
	for _, p := range props {
		o := d.DeriveInitialValue(p, topo, deps)
		if o.Status == StatusApplied {
			applied++
		}
		outcomes = append(outcomes, o)
	}
	d.logger.Infof("Derived %d of %d properties", applied, len(props))
	return outcomes
}
