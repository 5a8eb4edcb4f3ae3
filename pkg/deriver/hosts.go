package deriver

import (
	"strings"
)

// HostSubstitute binds a property to the host of a master component. With a
// nil Substitution the host replaces the whole value.
type HostSubstitute struct {
	Component    string
	Substitution *Substitution
}

func (s HostSubstitute) Kind() Kind { return KindHostSubstitute }

func (s HostSubstitute) Components() []string { return []string{s.Component} }

func (s HostSubstitute) Derive(in Input) (Patch, error) {
	host, err := in.Topology.MasterHost(s.Component)
	if err != nil {
		return nil, err
	}
	if s.Substitution == nil {
		return setBoth(host), nil
	}
	return setBoth(s.Substitution.Replace(in.Template, host)), nil
}

// ListFormat selects how a host list is rendered.
type ListFormat int

const (
	// ListComma renders "h1,h2" with duplicates removed.
	ListComma ListFormat = iota
	// ListLiteral renders "['h1','h2']" as Storm expects.
	ListLiteral
)

// HostList sets a property to the hosts of a set of master components.
type HostList struct {
	Masters []string
	Format  ListFormat
}

func (s HostList) Kind() Kind { return KindHostList }

func (s HostList) Components() []string { return s.Masters }

func (s HostList) Derive(in Input) (Patch, error) {
	hosts := in.Topology.MasterHosts(s.Masters...)
	if len(hosts) == 0 {
		return nil, missing(s.Masters...)
	}
	return setBoth(formatHosts(hosts, s.Format)), nil
}

func formatHosts(hosts []string, format ListFormat) string {
	switch format {
	case ListLiteral:
		quoted := make([]string, len(hosts))
		for i, h := range hosts {
			quoted[i] = "'" + h + "'"
		}
		return "[" + strings.Join(quoted, ",") + "]"
	default:
		return strings.Join(unique(hosts), ",")
	}
}

// RangerHost sets RANGER_HOST, hiding the property when Ranger is absent.
type RangerHost struct{}

func (RangerHost) Kind() Kind { return KindHostSubstitute }

func (RangerHost) Components() []string { return []string{"RANGER_ADMIN"} }

func (RangerHost) Derive(in Input) (Patch, error) {
	host, err := in.Topology.MasterHost("RANGER_ADMIN")
	if err != nil {
		return func(p *ConfigProperty) {
			p.Hidden = true
			p.Optional = true
		}, nil
	}
	return setBoth(host), nil
}

func unique(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, s := range list {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
