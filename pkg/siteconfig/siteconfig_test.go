package siteconfig

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apache/ambari-config-initializer/pkg/deriver"
)

const sampleYAML = `
dependencies:
  hive_metastore_uris: thrift://localhost:9083
  zookeeper_client_port: "2181"
properties:
  - name: fs.defaultFS
    filename: core-site.xml
    value: hdfs://localhost:8020
    recommended_value: hdfs://localhost:8020
  - name: hbase.zookeeper.quorum
    filename: hbase-site.xml
    recommended_value: localhost
  - name: hive_database
    filename: hive-env.xml
    value: New MySQL Database
    options:
      - display_name: New MySQL Database
      - display_name: Existing MySQL Database
`

func TestParseYAML(t *testing.T) {
	doc, err := Parse([]byte(sampleYAML), FormatYAML)
	require.NoError(t, err)
	require.Len(t, doc.Properties, 3)
	assert.Equal(t, "thrift://localhost:9083", doc.Dependencies.HiveMetastoreURIs)
	assert.Equal(t, "2181", doc.Dependencies.ZooKeeperClientPort)
	assert.Equal(t, "hbase-site.xml", doc.Properties[1].Filename)
	assert.Equal(t, "localhost", doc.Properties[1].RecommendedValue)
	require.Len(t, doc.Properties[2].Options, 2)
	assert.Equal(t, "Existing MySQL Database", doc.Properties[2].Options[1].DisplayName)
}

func TestParseJSON(t *testing.T) {
	data := `{"dependencies":{"zookeeperClientPort":"2182"},
"properties":[{"name":"zookeeper.connect","filename":"kafka-broker.xml","recommendedValue":"localhost:2181"}]}`
	doc, err := Parse([]byte(data), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "2182", doc.Dependencies.ZooKeeperClientPort)
	require.Len(t, doc.Properties, 1)
	assert.Equal(t, "localhost:2181", doc.Properties[0].RecommendedValue)
}

func TestParseRejectsUnnamedProperty(t *testing.T) {
	_, err := Parse([]byte("properties:\n  - value: x\n"), FormatYAML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "property[0]: name is required")

	_, err = Parse([]byte("<configuration/>"), FormatXML)
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	for in, expected := range map[string]Format{"": FormatYAML, "YML": FormatYAML, "json": FormatJSON, " xml ": FormatXML} {
		f, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, expected, f)
	}
	_, err := ParseFormat("toml")
	assert.Error(t, err)

	assert.Equal(t, FormatJSON, FormatOf("props.JSON"))
	assert.Equal(t, FormatXML, FormatOf("/etc/hadoop/core-site.xml"))
	assert.Equal(t, FormatYAML, FormatOf("props.yaml"))
}

func TestEncodeRoundTrip(t *testing.T) {
	doc, err := Parse([]byte(sampleYAML), FormatYAML)
	require.NoError(t, err)

	for _, format := range []Format{FormatYAML, FormatJSON} {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, doc, format))
		again, err := Parse(buf.Bytes(), format)
		require.NoError(t, err, format)
		assert.Equal(t, doc, again, format)
	}

	assert.Error(t, Encode(&bytes.Buffer{}, doc, FormatXML))
}

func TestSiteXML(t *testing.T) {
	props := []*deriver.ConfigProperty{
		{Name: "fs.defaultFS", Filename: "core-site.xml", Value: "hdfs://h0:8020"},
		{Name: "dfs.datanode.data.dir", Filename: "hdfs-site.xml", Value: "/data1/hadoop/hdfs/data\n/data2/hadoop/hdfs/data\n"},
		{Name: "hadoop.registry.zk.quorum", Filename: "core-site.xml", Value: "h0:2181,h1:2181"},
	}
	dir := t.TempDir()
	paths, err := WriteSiteXML(dir, props)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "core-site.xml"),
		filepath.Join(dir, "hdfs-site.xml"),
	}, paths)

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), xmlHeader))
	assert.Contains(t, string(data), "<name>fs.defaultFS</name>")

	doc, err := Load(paths[0])
	require.NoError(t, err)
	require.Len(t, doc.Properties, 2)
	assert.Equal(t, "core-site.xml", doc.Properties[0].Filename)
	assert.Equal(t, "hdfs://h0:8020", doc.Properties[0].Value)
	assert.Equal(t, "hadoop.registry.zk.quorum", doc.Properties[1].Name)

	doc, err = Load(paths[1])
	require.NoError(t, err)
	assert.Equal(t, props[1].Value, doc.Properties[0].RecommendedValue)
}

func TestWriteSiteXMLNeedsFilename(t *testing.T) {
	_, err := WriteSiteXML(t.TempDir(), []*deriver.ConfigProperty{{Name: "orphan"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "orphan")
}

func TestSaveAndLoad(t *testing.T) {
	doc, err := Parse([]byte(sampleYAML), FormatYAML)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, Save(path, doc, FormatJSON))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)
}
