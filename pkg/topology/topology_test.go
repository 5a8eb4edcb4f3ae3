package topology

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTopology() *Topology {
	return &Topology{
		Masters: []MasterComponentHost{
			{Component: "NAMENODE", HostName: "h0"},
			{Component: "ZOOKEEPER_SERVER", HostName: "h0"},
			{Component: "ZOOKEEPER_SERVER", HostName: "h1"},
			{Component: "NIMBUS", HostName: "h2"},
		},
		Slaves: []SlaveComponentHost{
			{ComponentName: "DATANODE", Hosts: []string{"h0", "h1"}},
			{ComponentName: "NODEMANAGER", Hosts: []string{"h3"}},
		},
	}
}

func TestMasterHost(t *testing.T) {
	topo := sampleTopology()

	host, err := topo.MasterHost("NAMENODE")
	require.NoError(t, err)
	assert.Equal(t, "h0", host)

	_, err = topo.MasterHost("RESOURCEMANAGER")
	var missing *MissingComponentError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"RESOURCEMANAGER"}, missing.Components)
	assert.EqualError(t, err, "no host assigned to component RESOURCEMANAGER")
}

func TestNilTopology(t *testing.T) {
	var topo *Topology
	_, err := topo.MasterHost("NAMENODE")
	assert.Error(t, err)
	assert.Empty(t, topo.MasterHosts("NAMENODE"))
	assert.Empty(t, topo.SlaveHosts("DATANODE"))
	assert.Nil(t, topo.MountPoints("h0"))
}

func TestSlaveHostsPreference(t *testing.T) {
	topo := sampleTopology()
	assert.Equal(t, []string{"h3"}, topo.SlaveHosts("TASKTRACKER", "NODEMANAGER"))

	topo.Slaves = append(topo.Slaves, SlaveComponentHost{ComponentName: "TASKTRACKER", Hosts: []string{"h9"}})
	assert.Equal(t, []string{"h9"}, topo.SlaveHosts("TASKTRACKER", "NODEMANAGER"))
}

func TestComponentHosts(t *testing.T) {
	topo := sampleTopology()

	hosts, err := topo.ComponentHosts("NIMBUS", "DATANODE")
	require.NoError(t, err)
	assert.Equal(t, []string{"h2", "h0", "h1"}, hosts)

	_, err = topo.ComponentHosts("SUPERVISOR")
	assert.ErrorContains(t, err, "SUPERVISOR")
}

func TestSlaveFirstHosts(t *testing.T) {
	topo := sampleTopology()

	hosts, err := topo.SlaveFirstHosts("NIMBUS", "DATANODE")
	require.NoError(t, err)
	assert.Equal(t, []string{"h0", "h1", "h2"}, hosts)

	_, err = topo.SlaveFirstHosts("SUPERVISOR")
	assert.ErrorContains(t, err, "SUPERVISOR")
}

func TestHostNames(t *testing.T) {
	assert.Equal(t, []string{"h0", "h1", "h2", "h3"}, sampleTopology().HostNames())
}

func TestMergeMissing(t *testing.T) {
	inv := HostInventory{"h0": {{Path: "/data"}}}
	inv.MergeMissing(HostInventory{
		"h0": {{Path: "/other"}},
		"h1": {{Path: "/grid/0"}},
	})
	assert.Equal(t, "/data", inv["h0"][0].Path)
	assert.Equal(t, "/grid/0", inv["h1"][0].Path)
}
