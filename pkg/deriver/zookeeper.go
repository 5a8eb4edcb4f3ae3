package deriver

import (
	"fmt"
	"strings"
)

const zooKeeperServer = "ZOOKEEPER_SERVER"

// ZooKeeperQuorum rebuilds a "host:port,..." quorum over every ZooKeeper
// server, keeping the port found in the template.
type ZooKeeperQuorum struct{}

func (ZooKeeperQuorum) Kind() Kind { return KindHostList }

func (ZooKeeperQuorum) Components() []string { return []string{zooKeeperServer} }

func (ZooKeeperQuorum) Derive(in Input) (Patch, error) {
	port, err := extractPort(in.Template)
	if err != nil {
		return nil, err
	}
	hosts := in.Topology.MasterHosts(zooKeeperServer)
	if len(hosts) == 0 {
		return nil, missing(zooKeeperServer)
	}
	return setBoth(wholeValue.Replace(in.Template, joinHostPort(hosts, port))), nil
}

// YarnZooKeeperAddress builds yarn.resourcemanager.zk-address from the
// ZooKeeper client port dependency.
type YarnZooKeeperAddress struct{}

func (YarnZooKeeperAddress) Kind() Kind { return KindHostList }

func (YarnZooKeeperAddress) Components() []string { return []string{zooKeeperServer} }

func (YarnZooKeeperAddress) Derive(in Input) (Patch, error) {
	port := in.Dependencies.ZooKeeperClientPort
	if port == "" {
		return nil, fmt.Errorf("zookeeper client port: %w", ErrDependencyMissing)
	}
	hosts := in.Topology.MasterHosts(zooKeeperServer)
	if len(hosts) == 0 {
		return nil, missing(zooKeeperServer)
	}
	return setBoth(joinHostPort(hosts, port)), nil
}

// HBaseZooKeeperQuorum lists ZooKeeper hosts without ports.
type HBaseZooKeeperQuorum struct{}

func (HBaseZooKeeperQuorum) Kind() Kind { return KindHostList }

func (HBaseZooKeeperQuorum) Components() []string { return []string{zooKeeperServer} }

func (HBaseZooKeeperQuorum) Derive(in Input) (Patch, error) {
	hosts := in.Topology.MasterHosts(zooKeeperServer)
	if len(hosts) == 0 {
		return nil, missing(zooKeeperServer)
	}
	return setBoth(wholeValue.Replace(in.Template, strings.Join(hosts, ","))), nil
}

func joinHostPort(hosts []string, port string) string {
	parts := make([]string, len(hosts))
	for i, h := range hosts {
		parts[i] = h + ":" + port
	}
	return strings.Join(parts, ",")
}
