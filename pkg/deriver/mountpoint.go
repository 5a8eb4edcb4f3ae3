package deriver

import (
	"regexp"
	"strings"

	"github.com/apache/ambari-config-initializer/pkg/topology"
)

// MountMode selects how many mount points a directory property receives.
type MountMode int

const (
	// FirstMountOnly uses the first usable mount point.
	FirstMountOnly MountMode = iota
	// AllMounts uses every usable mount point, newline separated.
	AllMounts
)

// WinReplacer selects the rewrite applied to Windows drive mount points.
type WinReplacer int

const (
	// WinDefault yields "c:\dir\sub".
	WinDefault WinReplacer = iota
	// WinFileURL yields "file:///c:/dir/sub".
	WinFileURL
	// WinDoubleSlashes yields "c:\\dir\\sub".
	WinDoubleSlashes
)

const rootMount = "/"

var (
	winDrive = regexp.MustCompile(`^([a-z]):\\?$`)

	excludedMounts = map[string]struct{}{
		"/":                {},
		"/home":            {},
		"/etc/resolv.conf": {},
		"/etc/hostname":    {},
		"/etc/hosts":       {},
	}
	excludedPrefixes = []string{"/boot", "/mnt", "/tmp"}
	excludedFsTypes  = map[string]struct{}{
		"devtmpfs": {},
		"tmpfs":    {},
		"vboxsf":   {},
		"CDFS":     {},
	}
)

// MountUnion allocates directories across the disks of every host running
// one of Hosting. Master hosts are read before slave hosts unless
// SlavesFirst is set.
type MountUnion struct {
	Hosting     []string
	Mode        MountMode
	Win         WinReplacer
	SlavesFirst bool
}

func (s MountUnion) Kind() Kind { return KindMountUnion }

func (s MountUnion) Components() []string { return s.Hosting }

func (s MountUnion) Derive(in Input) (Patch, error) {
	hosts, err := s.hosts(in.Topology)
	if err != nil {
		return nil, err
	}
	mounts := UnionMountPoints(in.Topology, hosts)
	if s.Mode == FirstMountOnly {
		return setBoth(s.single(mounts[0].Path, in.Template)), nil
	}
	var b strings.Builder
	for _, m := range mounts {
		if m.Path == rootMount {
			b.WriteString(in.Template + "\n")
			continue
		}
		b.WriteString(s.onMount(m.Path, in.Template))
	}
	return setBoth(b.String()), nil
}

func (s MountUnion) hosts(topo *topology.Topology) ([]string, error) {
	if s.SlavesFirst {
		return topo.SlaveFirstHosts(s.Hosting...)
	}
	return topo.ComponentHosts(s.Hosting...)
}

func (s MountUnion) single(mount, dir string) string {
	if mount == rootMount {
		return dir
	}
	if winDrive.MatchString(strings.ToLower(mount)) {
		return winPath(s.Win, mount, dir)
	}
	return mount + dir
}

func (s MountUnion) onMount(mount, dir string) string {
	if winDrive.MatchString(strings.ToLower(mount)) {
		return winPath(s.Win, mount, dir)
	}
	return mount + dir + "\n"
}

func winPath(r WinReplacer, mount, dir string) string {
	mp := strings.ToLower(mount)
	switch r {
	case WinFileURL:
		return winDrive.ReplaceAllString(mp, "file:///${1}:") + dir + "\n"
	case WinDoubleSlashes:
		return winDrive.ReplaceAllString(mp, "${1}:") + strings.ReplaceAll(dir, "/", `\\`) + "\n"
	default:
		return winDrive.ReplaceAllString(mp, "${1}:") + strings.ReplaceAll(dir, "/", `\`) + "\n"
	}
}

// UsableMountPoint reports whether m may hold service data.
func UsableMountPoint(m topology.MountPoint) bool {
	if m.Available != nil && *m.Available == 0 {
		return false
	}
	if _, ok := excludedMounts[m.Path]; ok {
		return false
	}
	if m.Path == "" {
		return false
	}
	for _, prefix := range excludedPrefixes {
		if strings.HasPrefix(m.Path, prefix) {
			return false
		}
	}
	_, excluded := excludedFsTypes[m.Type]
	return !excluded
}

// UnionMountPoints returns the usable mount points of hosts, deduplicated by
// path with the first occurrence kept. It never returns an empty slice: a
// synthetic root mount stands in when nothing is usable.
func UnionMountPoints(topo *topology.Topology, hosts []string) []topology.MountPoint {
	var all []topology.MountPoint
	seen := make(map[string]struct{})
	for _, host := range hosts {
		for _, m := range topo.MountPoints(host) {
			if !UsableMountPoint(m) {
				continue
			}
			if _, ok := seen[m.Path]; ok {
				continue
			}
			seen[m.Path] = struct{}{}
			all = append(all, m)
		}
	}
	if len(all) == 0 {
		all = append(all, topology.MountPoint{Path: rootMount})
	}
	return all
}
