package deriver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry(
		Rule{Name: "quorum", Strategy: ZooKeeperQuorum{}},
		Rule{Name: "quorum", Filename: "hbase-site.xml", Strategy: HBaseZooKeeperQuorum{}},
		Rule{Name: "only.qualified", Filename: "core-site.xml", Strategy: plainHost("NAMENODE")},
	)

	rule, ok := r.Lookup("quorum", "hbase-site.xml")
	require.True(t, ok)
	assert.IsType(t, HBaseZooKeeperQuorum{}, rule.Strategy)

	rule, ok = r.Lookup("quorum", "zoo.cfg")
	require.True(t, ok)
	assert.IsType(t, ZooKeeperQuorum{}, rule.Strategy)

	_, ok = r.Lookup("only.qualified", "hdfs-site.xml")
	assert.False(t, ok)
	_, ok = r.Lookup("only.qualified", "core-site.xml")
	assert.True(t, ok)

	_, ok = r.Lookup("missing", "")
	assert.False(t, ok)
	assert.Equal(t, 3, r.Len())
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Rule{Name: "a", Strategy: plainHost("NAMENODE")}))
	require.NoError(t, r.Register(Rule{Name: "a", Filename: "x.xml", Strategy: plainHost("NAMENODE")}))

	err := r.Register(Rule{Name: "a", Strategy: plainHost("NIMBUS")})
	assert.True(t, errors.Is(err, ErrDuplicateRule))
	assert.Error(t, r.Register(Rule{Name: "b"}))
	assert.Error(t, r.Register(Rule{Strategy: plainHost("NIMBUS")}))
	assert.True(t, r.Known("a"))
	assert.False(t, r.Known("b"))

	assert.Panics(t, func() {
		NewRegistry(Rule{Name: "a", Strategy: RangerHost{}}, Rule{Name: "a", Strategy: RangerHost{}})
	})
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Same(t, r, DefaultRegistry())
	assert.Equal(t, len(StackRules()), r.Len())

	rules := r.Rules()
	for i := 1; i < len(rules); i++ {
		assert.LessOrEqual(t, rules[i-1].Name, rules[i].Name)
	}
	for _, name := range []string{
		"fs.defaultFS",
		"zookeeper.connect",
		"hbase.zookeeper.quorum",
		"dfs.datanode.data.dir",
		"templeton.hive.properties",
		"ranger_admin_password",
		"storm.local.dir",
	} {
		assert.True(t, r.Known(name), name)
	}
	for _, rule := range rules {
		assert.NotEmpty(t, rule.Strategy.Kind().String(), rule.Name)
		assert.NotEqual(t, "unknown", rule.Strategy.Kind().String(), rule.Name)
	}
}

func TestSubstitutionReplace(t *testing.T) {
	cases := []struct {
		s        Substitution
		src      string
		expected string
	}{
		{hostWithPort, "localhost:8020", "h0:8020"},
		{hostWithPort, "0.0.0.0:50070", "h0:50070"},
		{hostWithPort, "a:1,b:2", "h0:1,b:2"},
		{hostWithPort, "no-port", "no-port"},
		{hostWithPrefix, "hdfs://localhost:8020", "hdfs://h0:8020"},
		{hostWithPrefix, "localhost:8020", "localhost:8020"},
		{localhostHost, "tcp://localhost:61616", "tcp://h0:61616"},
		{wholeValue, "anything", "h0"},
		{wholeValue, "", "h0"},
		{metastoreURIsEntry, "a=b,hive.metastore.uris=thrift://x:1,c=d", "a=b,hive.metastore.uris=h0,c=d"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.expected, tc.s.Replace(tc.src, "h0"), tc.src)
	}
}

func TestExtractPort(t *testing.T) {
	port, err := extractPort("zk0:2181")
	require.NoError(t, err)
	assert.Equal(t, "2181", port)

	port, err = extractPort("thrift://h0:9083,thrift://h1:9084")
	require.NoError(t, err)
	assert.Equal(t, "9083", port)

	_, err = extractPort("localhost")
	assert.ErrorIs(t, err, ErrPortNotFound)
	_, err = extractPort("")
	assert.ErrorIs(t, err, ErrPortNotFound)
}
