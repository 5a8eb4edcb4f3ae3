package check

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apache/ambari-config-initializer/pkg/deriver"
	"github.com/apache/ambari-config-initializer/pkg/topology"
)

func newTopology() *topology.Topology {
	return &topology.Topology{
		Masters: []topology.MasterComponentHost{
			{Component: "NAMENODE", HostName: "h0"},
		},
		Slaves: []topology.SlaveComponentHost{
			{ComponentName: "DATANODE", Hosts: []string{"h0", "h1"}},
		},
		Hosts: topology.HostInventory{
			"h0": {{Path: "/grid/0"}},
		},
	}
}

func TestCheckRules(t *testing.T) {
	registry := deriver.NewRegistry(
		deriver.Rule{Name: "fs.defaultFS", Strategy: deriver.HostSubstitute{Component: "NAMENODE"}},
		deriver.Rule{Name: "dfs.datanode.data.dir", Strategy: deriver.MountUnion{Hosting: []string{"DATANODE"}, Mode: deriver.AllMounts}},
		deriver.Rule{Name: "yarn.resourcemanager.hostname", Strategy: deriver.HostSubstitute{Component: "RESOURCEMANAGER"}},
	)

	var out bytes.Buffer
	c := NewChecker(newTopology(), registry, nil)
	c.SetOutput(&out)
	require.NoError(t, c.Run(nil, deriver.Dependencies{}))

	results := c.Results()
	require.Len(t, results, 3)
	assert.Equal(t, "dfs.datanode.data.dir", results[0].Name)
	assert.Equal(t, statusReady, results[0].Status)
	assert.Equal(t, "组件所在主机: h0,h1", results[0].Detail)
	assert.Equal(t, statusReady, results[1].Status)
	assert.Equal(t, statusSkipped, results[2].Status)
	assert.Contains(t, results[2].Detail, "RESOURCEMANAGER")

	require.Len(t, c.Warnings(), 1)
	assert.Contains(t, c.Warnings()[0], "h1")
	assert.Contains(t, out.String(), "检查总结: 2 项可派生, 1 项跳过, 0 项无规则")
}

func TestCheckProperties(t *testing.T) {
	props := []*deriver.ConfigProperty{
		{Name: "fs.defaultFS", RecommendedValue: "hdfs://localhost:8020"},
		{Name: "dfs.datanode.data.dir", RecommendedValue: "/hadoop/hdfs/data"},
		{Name: "dfs.replication", RecommendedValue: "3"},
	}

	var out bytes.Buffer
	c := NewChecker(newTopology(), nil, nil)
	c.SetOutput(&out)
	require.NoError(t, c.Run(props, deriver.Dependencies{}))

	results := c.Results()
	require.Len(t, results, 3)
	assert.Equal(t, "hdfs://h0:8020", results[0].Detail)
	assert.Equal(t, []string{"NAMENODE"}, results[0].Components)
	assert.Equal(t, "/grid/0/hadoop/hdfs/data\n", results[1].Detail)
	assert.Equal(t, statusNoRule, results[2].Status)

	// 检查不修改输入
	assert.Equal(t, "hdfs://localhost:8020", props[0].RecommendedValue)
	assert.Contains(t, out.String(), `/grid/0/hadoop/hdfs/data`)
}

func TestCheckNothingApplies(t *testing.T) {
	c := NewChecker(&topology.Topology{}, deriver.NewRegistry(
		deriver.Rule{Name: "nimbus.host", Strategy: deriver.HostSubstitute{Component: "NIMBUS"}},
	), nil)
	c.SetOutput(&bytes.Buffer{})
	assert.Error(t, c.Run(nil, deriver.Dependencies{}))
}
