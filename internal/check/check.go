package check

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/apache/ambari-config-initializer/pkg/deriver"
	"github.com/apache/ambari-config-initializer/pkg/topology"
)

const (
	statusReady   = "可派生"
	statusSkipped = "跳过"
	statusNoRule  = "无规则"
)

// Result 单条规则或属性的检查结果
type Result struct {
	Name       string
	Filename   string
	Kind       string
	Components []string
	Status     string
	Detail     string
}

type Checker struct {
	topology *topology.Topology
	registry *deriver.Registry
	logger   *logrus.Logger
	out      io.Writer
	results  []*Result
	warnings []string
}

func NewChecker(topo *topology.Topology, registry *deriver.Registry, logger *logrus.Logger) *Checker {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.InfoLevel)
	}
	if registry == nil {
		registry = deriver.DefaultRegistry()
	}
	return &Checker{
		topology: topo,
		registry: registry,
		logger:   logger,
		out:      os.Stdout,
	}
}

func (c *Checker) SetOutput(w io.Writer) {
	c.out = w
}

func (c *Checker) Results() []*Result { return c.results }

func (c *Checker) Warnings() []string { return c.warnings }

// Run 检查拓扑，并对每个属性试派生；props 为空时按注册表检查组件是否齐全
func (c *Checker) Run(props []*deriver.ConfigProperty, deps deriver.Dependencies) error {
	c.logger.Info("Starting topology check...")
	c.results = nil
	c.warnings = c.checkInventory()

	if len(props) == 0 {
		c.checkRules()
	} else {
		c.checkProperties(props, deps)
	}

	c.printResults()

	ready := 0
	for _, r := range c.results {
		if r.Status == statusReady {
			ready++
		}
	}
	if ready == 0 && len(c.results) > 0 {
		return fmt.Errorf("no rule can be applied to this topology")
	}
	return nil
}

// checkInventory 没有磁盘信息的主机按无挂载点处理，目录类属性会回落到默认值
func (c *Checker) checkInventory() []string {
	var warnings []string
	for _, host := range c.topology.HostNames() {
		if len(c.topology.MountPoints(host)) == 0 {
			warnings = append(warnings, fmt.Sprintf("主机 %s 没有磁盘信息，目录类属性将使用默认路径", host))
		}
	}
	return warnings
}

func (c *Checker) checkRules() {
	for _, rule := range c.registry.Rules() {
		r := &Result{
			Name:       rule.Name,
			Filename:   rule.Filename,
			Kind:       rule.Strategy.Kind().String(),
			Components: rule.Strategy.Components(),
			Status:     statusReady,
		}
		if len(r.Components) > 0 {
			var present []string
			for _, comp := range r.Components {
				if c.topology.HasComponent(comp) {
					present = append(present, comp)
				}
			}
			if len(present) == 0 {
				r.Status = statusSkipped
				r.Detail = (&topology.MissingComponentError{Components: r.Components}).Error()
			} else {
				r.Detail = "组件所在主机: " + strings.Join(c.hostsOf(present), ",")
			}
		}
		c.results = append(c.results, r)
	}
}

func (c *Checker) hostsOf(components []string) []string {
	hosts, err := c.topology.ComponentHosts(components...)
	if err != nil {
		return nil
	}
	var unique []string
	seen := make(map[string]bool)
	for _, h := range hosts {
		if !seen[h] {
			seen[h] = true
			unique = append(unique, h)
		}
	}
	return unique
}

func (c *Checker) checkProperties(props []*deriver.ConfigProperty, deps deriver.Dependencies) {
	clones := make([]*deriver.ConfigProperty, len(props))
	for i, p := range props {
		clones[i] = p.Clone()
	}
	deps = deriver.CollectDependencies(deps, clones)

	d := deriver.NewDeriver(c.registry, c.logger)
	for _, p := range clones {
		o := d.DeriveInitialValue(p, c.topology, deps)
		r := &Result{Name: o.Name, Filename: o.Filename, Kind: o.Kind}
		if rule, ok := c.registry.Lookup(p.Name, p.Filename); ok {
			r.Components = rule.Strategy.Components()
		}
		switch o.Status {
		case deriver.StatusApplied:
			r.Status = statusReady
			r.Detail = p.RecommendedValue
		case deriver.StatusSkipped:
			r.Status = statusSkipped
			r.Detail = o.Reason
		default:
			r.Status = statusNoRule
		}
		c.results = append(c.results, r)
	}
}

// printResults 为每条规则打印一个纵向的信息块
func (c *Checker) printResults() {
	fmt.Fprintln(c.out, "\n"+strings.Repeat("=", 80))
	fmt.Fprintln(c.out, "                    配置派生检查结果")
	fmt.Fprintln(c.out, strings.Repeat("=", 80))

	counts := make(map[string]int)
	for i, r := range c.results {
		if i > 0 {
			fmt.Fprintln(c.out)
		}
		counts[r.Status]++

		statusIcon := "✓"
		if r.Status == statusSkipped {
			statusIcon = "✗"
		} else if r.Status == statusNoRule {
			statusIcon = "-"
		}

		name := r.Name
		if r.Filename != "" {
			name = fmt.Sprintf("%s (%s)", r.Name, r.Filename)
		}
		fmt.Fprintf(c.out, "┌─ #%d %s %s %s\n", i+1, statusIcon, r.Status, name)
		if r.Kind != "" {
			fmt.Fprintf(c.out, "│  类型        : %s\n", r.Kind)
		}
		if len(r.Components) > 0 {
			fmt.Fprintf(c.out, "│  组件        : %s\n", strings.Join(r.Components, ","))
		}
		if r.Detail != "" {
			fmt.Fprintf(c.out, "│  结果        : %s\n", strings.ReplaceAll(strings.TrimRight(r.Detail, "\n"), "\n", "\\n"))
		}
		fmt.Fprintln(c.out, "└"+strings.Repeat("─", 50))
	}

	fmt.Fprintln(c.out, strings.Repeat("=", 80))
	fmt.Fprintf(c.out, "检查总结: %d 项可派生, %d 项跳过, %d 项无规则\n",
		counts[statusReady], counts[statusSkipped], counts[statusNoRule])
	fmt.Fprintln(c.out, strings.Repeat("=", 80))

	if len(c.warnings) > 0 {
		fmt.Fprintf(c.out, "\n⚠️  发现以下问题:\n")
		for i, warning := range c.warnings {
			fmt.Fprintf(c.out, "  %d. %s\n", i+1, warning)
		}
	}
	fmt.Fprintln(c.out)
}
