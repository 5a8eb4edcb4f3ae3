package topology

import (
	"fmt"
	"strings"
)

// MasterComponentHost binds one master component instance to a host.
type MasterComponentHost struct {
	Component string `yaml:"component" json:"component"`
	HostName  string `yaml:"host" json:"host"`
}

// SlaveComponentHost lists every host running a slave component.
type SlaveComponentHost struct {
	ComponentName string   `yaml:"component" json:"component"`
	Hosts         []string `yaml:"hosts" json:"hosts"`
}

// MountPoint is one entry of a host's disk inventory.
type MountPoint struct {
	Path string `yaml:"mountpoint" json:"mountpoint"`
	Type string `yaml:"type,omitempty" json:"type,omitempty"`
	// Available is nil when the agent did not report free space.
	Available *uint64 `yaml:"available,omitempty" json:"available,omitempty"`
}

// HostInventory maps host name to its mount points.
type HostInventory map[string][]MountPoint

// MergeMissing copies entries of other for hosts not present in inv.
func (inv HostInventory) MergeMissing(other HostInventory) {
	for host, mounts := range other {
		if _, ok := inv[host]; !ok {
			inv[host] = mounts
		}
	}
}

// Topology is a snapshot of component placement and disk inventory.
type Topology struct {
	Masters []MasterComponentHost `yaml:"masters" json:"masters"`
	Slaves  []SlaveComponentHost  `yaml:"slaves" json:"slaves"`
	Hosts   HostInventory         `yaml:"hosts" json:"hosts"`
}

// MissingComponentError reports that none of the components has a host.
type MissingComponentError struct {
	Components []string
}

func (e *MissingComponentError) Error() string {
	return fmt.Sprintf("no host assigned to component %s", strings.Join(e.Components, " or "))
}

// MasterHost returns the host of the first master entry for component.
func (t *Topology) MasterHost(component string) (string, error) {
	if t != nil {
		for _, m := range t.Masters {
			if m.Component == component && m.HostName != "" {
				return m.HostName, nil
			}
		}
	}
	return "", &MissingComponentError{Components: []string{component}}
}

// MasterHosts returns the hosts of all master entries whose component is in
// components, in topology order.
func (t *Topology) MasterHosts(components ...string) []string {
	if t == nil {
		return nil
	}
	var hosts []string
	for _, m := range t.Masters {
		if contains(components, m.Component) && m.HostName != "" {
			hosts = append(hosts, m.HostName)
		}
	}
	return hosts
}

// SlaveHosts returns the hosts of the first slave group matching one of
// components. Order of components sets preference.
func (t *Topology) SlaveHosts(components ...string) []string {
	if t == nil {
		return nil
	}
	for _, c := range components {
		for _, s := range t.Slaves {
			if s.ComponentName == c {
				return append([]string(nil), s.Hosts...)
			}
		}
	}
	return nil
}

// ComponentHosts returns master hosts followed by slave hosts for components.
// A MissingComponentError is returned when the list is empty.
func (t *Topology) ComponentHosts(components ...string) ([]string, error) {
	hosts := append(t.MasterHosts(components...), t.SlaveHosts(components...)...)
	if len(hosts) == 0 {
		return nil, &MissingComponentError{Components: components}
	}
	return hosts, nil
}

// SlaveFirstHosts is ComponentHosts with slave hosts ahead of master hosts.
func (t *Topology) SlaveFirstHosts(components ...string) ([]string, error) {
	hosts := append(t.SlaveHosts(components...), t.MasterHosts(components...)...)
	if len(hosts) == 0 {
		return nil, &MissingComponentError{Components: components}
	}
	return hosts, nil
}

// HasComponent reports whether any master or slave entry hosts component.
func (t *Topology) HasComponent(component string) bool {
	return len(t.MasterHosts(component)) > 0 || len(t.SlaveHosts(component)) > 0
}

// MountPoints returns the inventory of host, nil when unknown.
func (t *Topology) MountPoints(host string) []MountPoint {
	if t == nil || t.Hosts == nil {
		return nil
	}
	return t.Hosts[host]
}

// HostNames returns every host referenced by a component assignment, deduplicated.
func (t *Topology) HostNames() []string {
	if t == nil {
		return nil
	}
	var names []string
	for _, m := range t.Masters {
		names = appendUnique(names, m.HostName)
	}
	for _, s := range t.Slaves {
		for _, h := range s.Hosts {
			names = appendUnique(names, h)
		}
	}
	return names
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func appendUnique(list []string, s string) []string {
	if s == "" || contains(list, s) {
		return list
	}
	return append(list, s)
}
