package search

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCluster answers the handful of endpoints the client uses.
type fakeCluster struct {
	mu       sync.Mutex
	exists   bool
	created  string
	searched map[string]interface{}
	bulk     []string
	hits     string
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	body, _ := io.ReadAll(r.Body)

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/":
		io.WriteString(w, `{"name":"node-1","cluster_name":"test","version":{"number":"8.19.1","build_flavor":"default"},"tagline":"You Know, for Search"}`)
	case r.Method == http.MethodHead && r.URL.Path == "/products":
		if !f.exists {
			w.WriteHeader(http.StatusNotFound)
		}
	case r.Method == http.MethodPut && r.URL.Path == "/products":
		f.created = string(body)
		f.exists = true
		io.WriteString(w, `{"acknowledged":true,"index":"products"}`)
	case strings.HasSuffix(r.URL.Path, "/_search"):
		_ = json.Unmarshal(body, &f.searched)
		if f.hits == "" {
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"error":{"type":"index_not_found_exception"},"status":404}`)
			return
		}
		io.WriteString(w, f.hits)
	case r.URL.Path == "/_bulk":
		sc := bufio.NewScanner(strings.NewReader(string(body)))
		for sc.Scan() {
			if line := strings.TrimSpace(sc.Text()); line != "" {
				f.bulk = append(f.bulk, line)
			}
		}
		io.WriteString(w, `{"took":1,"errors":false,"items":[]}`)
	default:
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error":"unexpected"}`)
	}
}

func newTestClient(t *testing.T, cluster *fakeCluster) *Client {
	t.Helper()
	srv := httptest.NewServer(cluster)
	t.Cleanup(srv.Close)

	c, err := NewClient(&Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return c
}

func TestSearch_ParsesHits(t *testing.T) {
	cluster := &fakeCluster{hits: `{"took":2,"hits":{"total":{"value":37,"relation":"eq"},"hits":[{"_index":"products","_id":"12","_score":2.1},{"_index":"products","_id":"7","_score":1.4}]}}`}
	c := newTestClient(t, cluster)

	res, err := c.Search(context.Background(), "products", map[string]interface{}{
		"query": map[string]interface{}{"match_all": map[string]interface{}{}},
	})
	require.NoError(t, err)

	assert.Equal(t, 37, res.Total)
	assert.Equal(t, []string{"12", "7"}, res.IDs)
	assert.Contains(t, cluster.searched, "query")
}

func TestSearch_NoHits(t *testing.T) {
	c := newTestClient(t, &fakeCluster{hits: `{"hits":{"total":{"value":0,"relation":"eq"},"hits":[]}}`})

	res, err := c.Search(context.Background(), "products", map[string]interface{}{})
	require.NoError(t, err)
	assert.Zero(t, res.Total)
	assert.Empty(t, res.IDs)
}

func TestSearch_ErrorStatus(t *testing.T) {
	c := newTestClient(t, &fakeCluster{})

	_, err := c.Search(context.Background(), "missing", map[string]interface{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestEnsureIndex_CreatesOnce(t *testing.T) {
	cluster := &fakeCluster{}
	c := newTestClient(t, cluster)

	require.NoError(t, c.EnsureIndex(context.Background(), "products", `{"mappings":{}}`))
	assert.Equal(t, `{"mappings":{}}`, cluster.created)

	cluster.created = ""
	require.NoError(t, c.EnsureIndex(context.Background(), "products", `{"mappings":{}}`))
	assert.Empty(t, cluster.created)
}

func TestBulkIndex(t *testing.T) {
	cluster := &fakeCluster{}
	c := newTestClient(t, cluster)

	err := c.BulkIndex(context.Background(), "products", []Document{
		{ID: "1", Body: map[string]interface{}{"sku": "ABC-123"}},
		{ID: "2", Body: map[string]interface{}{"sku": "XYZ-9"}},
	})
	require.NoError(t, err)

	require.Len(t, cluster.bulk, 4)
	assert.JSONEq(t, `{"index":{"_index":"products","_id":"1"}}`, cluster.bulk[0])
	assert.JSONEq(t, `{"sku":"ABC-123"}`, cluster.bulk[1])
	assert.JSONEq(t, `{"index":{"_index":"products","_id":"2"}}`, cluster.bulk[2])
}

func TestBulkIndex_Empty(t *testing.T) {
	cluster := &fakeCluster{}
	c := newTestClient(t, cluster)

	require.NoError(t, c.BulkIndex(context.Background(), "products", nil))
	assert.Empty(t, cluster.bulk)
}
