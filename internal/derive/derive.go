package derive

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/apache/ambari-config-initializer/pkg/deriver"
	"github.com/apache/ambari-config-initializer/pkg/siteconfig"
	"github.com/apache/ambari-config-initializer/pkg/topology"
)

// Summary counts outcomes by status.
type Summary struct {
	Applied int `yaml:"applied" json:"applied"`
	Skipped int `yaml:"skipped" json:"skipped"`
	Unknown int `yaml:"unknown" json:"unknown"`
}

// Report is the result of one derivation run.
type Report struct {
	RunID      string                    `yaml:"run_id" json:"run_id"`
	Properties []*deriver.ConfigProperty `yaml:"properties" json:"properties"`
	Outcomes   []deriver.Outcome         `yaml:"outcomes" json:"outcomes"`
	Summary    Summary                   `yaml:"summary" json:"summary"`
}

// Document returns the derived properties as a property file, keeping the
// dependencies they were derived with.
func (r *Report) Document(deps deriver.Dependencies) *siteconfig.Document {
	return &siteconfig.Document{Dependencies: deps, Properties: r.Properties}
}

type Runner struct {
	deriver *deriver.Deriver
	logger  *logrus.Logger
}

func NewRunner(d *deriver.Deriver, logger *logrus.Logger) *Runner {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.InfoLevel)
	}
	if d == nil {
		d = deriver.NewDeriver(nil, logger)
	}
	return &Runner{deriver: d, logger: logger}
}

// Run derives every property of doc over topo. With dryRun the properties of
// doc are left untouched and the report holds derived copies.
func (r *Runner) Run(topo *topology.Topology, doc *siteconfig.Document, dryRun bool) *Report {
	runID := uuid.NewString()
	log := r.logger.WithField("run_id", runID)

	props := doc.Properties
	if dryRun {
		props = make([]*deriver.ConfigProperty, len(doc.Properties))
		for i, p := range doc.Properties {
			props[i] = p.Clone()
		}
	}

	deps := deriver.CollectDependencies(doc.Dependencies, props)
	log.Infof("Deriving %d properties over %d hosts", len(props), len(topo.HostNames()))

	report := &Report{
		RunID:      runID,
		Properties: props,
		Outcomes:   r.deriver.DeriveAll(props, topo, deps),
	}
	for _, o := range report.Outcomes {
		switch o.Status {
		case deriver.StatusApplied:
			report.Summary.Applied++
		case deriver.StatusSkipped:
			report.Summary.Skipped++
			log.WithField("property", o.Name).Infof("Skipped: %s", o.Reason)
		default:
			report.Summary.Unknown++
		}
	}
	log.Infof("Run finished: %d applied, %d skipped, %d without rule",
		report.Summary.Applied, report.Summary.Skipped, report.Summary.Unknown)
	return report
}
