package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, s *APIServer, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w, resp
}

func TestHealthz(t *testing.T) {
	w, resp := do(t, NewAPIServer(":0", nil, nil), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(200), resp["code"])
	assert.Equal(t, "ok", resp["message"])
}

func TestListRules(t *testing.T) {
	w, resp := do(t, NewAPIServer(":0", nil, nil), http.MethodGet, "/api/v1/rules", "")
	require.Equal(t, http.StatusOK, w.Code)

	rules, ok := resp["data"].([]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, rules)

	found := false
	for _, r := range rules {
		rule := r.(map[string]interface{})
		if rule["name"] == "hbase.zookeeper.quorum" {
			found = true
			assert.Equal(t, "hbase-site.xml", rule["filename"])
			assert.Equal(t, "host-list", rule["kind"])
		}
	}
	assert.True(t, found)
}

func TestDerive(t *testing.T) {
	body := `{
  "topology": {
    "masters": [
      {"component": "ZOOKEEPER_SERVER", "host": "zk1"},
      {"component": "ZOOKEEPER_SERVER", "host": "zk2"},
      {"component": "ZOOKEEPER_SERVER", "host": "zk3"}
    ],
    "slaves": [{"component": "DATANODE", "hosts": ["h1"]}],
    "hosts": {"h1": [{"mountpoint": "/"}, {"mountpoint": "/data1"}, {"mountpoint": "/data2"}]}
  },
  "properties": [
    {"name": "zookeeper.connect", "recommendedValue": "zk0:2181"},
    {"name": "dfs.datanode.data.dir", "recommendedValue": "/hadoop/hdfs/data"},
    {"name": "fs.defaultFS", "recommendedValue": "hdfs://localhost:8020"}
  ]
}`
	w, resp := do(t, NewAPIServer(":0", nil, nil), http.MethodPost, "/api/v1/derive", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := resp["data"].(map[string]interface{})
	assert.NotEmpty(t, data["run_id"])

	props := data["properties"].([]interface{})
	require.Len(t, props, 3)
	assert.Equal(t, "zk1:2181,zk2:2181,zk3:2181", props[0].(map[string]interface{})["recommendedValue"])
	assert.Equal(t, "/data1/hadoop/hdfs/data\n/data2/hadoop/hdfs/data\n", props[1].(map[string]interface{})["value"])
	assert.Equal(t, "hdfs://localhost:8020", props[2].(map[string]interface{})["recommendedValue"])

	outcomes := data["outcomes"].([]interface{})
	require.Len(t, outcomes, 3)
	assert.Equal(t, "skipped", outcomes[2].(map[string]interface{})["status"])
}

func TestDeriveBadRequest(t *testing.T) {
	s := NewAPIServer(":0", nil, nil)
	cases := []struct {
		body    string
		message string
	}{
		{`{not json`, "input is not valid"},
		{`{"properties": []}`, "topology is required"},
		{`{"topology": {}, "properties": [{"value": "x"}]}`, "property[0]: name is required"},
	}
	for _, tc := range cases {
		w, resp := do(t, s, http.MethodPost, "/api/v1/derive", tc.body)
		assert.Equal(t, http.StatusBadRequest, w.Code, tc.body)
		assert.Contains(t, resp["message"], tc.message)
	}
}
