package deriver

import (
	"fmt"
	"sort"
)

// Rule binds a property name, optionally restricted to one site file, to a
// strategy.
type Rule struct {
	Name     string
	Filename string
	Strategy Strategy
}

// Registry resolves properties to rules. It is not safe to Register
// concurrently with Lookup; build it fully before sharing.
type Registry struct {
	rules map[string][]Rule
}

// NewRegistry returns a registry holding rules. It panics on duplicates,
// which only a programming error in a static table can produce.
func NewRegistry(rules ...Rule) *Registry {
	r := &Registry{rules: make(map[string][]Rule)}
	for _, rule := range rules {
		if err := r.Register(rule); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds rule. A rule for the same name and filename must not exist.
func (r *Registry) Register(rule Rule) error {
	if rule.Name == "" || rule.Strategy == nil {
		return fmt.Errorf("rule needs a name and a strategy")
	}
	for _, existing := range r.rules[rule.Name] {
		if existing.Filename == rule.Filename {
			return fmt.Errorf("%s (%s): %w", rule.Name, rule.Filename, ErrDuplicateRule)
		}
	}
	r.rules[rule.Name] = append(r.rules[rule.Name], rule)
	return nil
}

// Lookup returns the rule for name in filename. A rule qualified with the
// filename wins over an unqualified one. A qualified rule never matches
// another file.
func (r *Registry) Lookup(name, filename string) (Rule, bool) {
	var fallback *Rule
	for i, rule := range r.rules[name] {
		if rule.Filename == "" {
			fallback = &r.rules[name][i]
			continue
		}
		if rule.Filename == filename {
			return rule, true
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return Rule{}, false
}

// Known reports whether any rule exists for name.
func (r *Registry) Known(name string) bool {
	return len(r.rules[name]) > 0
}

// Rules returns every rule sorted by name then filename.
func (r *Registry) Rules() []Rule {
	var out []Rule
	for _, rules := range r.rules {
		out = append(out, rules...)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Filename < out[j].Filename
	})
	return out
}

// Len returns the number of rules.
func (r *Registry) Len() int {
	n := 0
	for _, rules := range r.rules {
		n += len(rules)
	}
	return n
}
