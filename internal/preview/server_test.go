package preview_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scalskit/scals"
	"github.com/scalskit/scals/internal/preview"
	"github.com/scalskit/scals/pkg/document"
	"github.com/scalskit/scals/pkg/observability"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	doc, err := document.Parse([]byte(`{
		"version": "1.0.0",
		"state": {"count": 0},
		"actions": {
			"increment": {"type": "setState", "path": "count", "value": "${count} + 1"}
		},
		"root": {"kind": "text", "id": "display", "content": "${count}"}
	}`))
	require.NoError(t, err)

	srv := preview.NewServer()
	eng, err := scals.New(doc, scals.WithUpdateHandler(srv.UpdateHandler))
	require.NoError(t, err)
	t.Cleanup(eng.Close)
	srv.AttachEngine(eng)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, out any) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestServer_Health(t *testing.T) {
	ts := newTestServer(t)
	var body map[string]string
	getJSON(t, ts.URL+"/healthz", &body)
	assert.Equal(t, "ok", body["status"])
}

func TestServer_TreeReflectsStateWrites(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/state", "application/json",
		strings.NewReader(`{"path": "count", "value": 7}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tree struct {
		Root struct {
			Content string `json:"content"`
		} `json:"root"`
	}
	getJSON(t, ts.URL+"/tree", &tree)
	assert.Equal(t, "7", tree.Root.Content)
}

func TestServer_ActionInvocation(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/actions/increment", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body["requestId"])

	// The action runs asynchronously; poll the tree until it lands.
	assert.Eventually(t, func() bool {
		var tree struct {
			Root struct {
				Content string `json:"content"`
			} `json:"root"`
		}
		getJSON(t, ts.URL+"/tree", &tree)
		return tree.Root.Content == "1"
	}, time.Second, 10*time.Millisecond)
}

func TestServer_UnknownAction(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Post(ts.URL+"/actions/nope", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_BadStateWrite(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Post(ts.URL+"/state", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_MetricsExposeEngineSeries(t *testing.T) {
	// The /metrics endpoint serves the default registry, so an engine
	// instrumented against prometheus.DefaultRegisterer (the serve
	// command's wiring) shows up there.
	doc, err := document.Parse([]byte(`{
		"version": "1.0.0",
		"state": {"count": 0},
		"root": {"kind": "text", "id": "display", "content": "${count}"}
	}`))
	require.NoError(t, err)

	srv := preview.NewServer()
	eng, err := scals.New(doc,
		scals.WithMetrics(observability.New(prometheus.DefaultRegisterer)),
		scals.WithUpdateHandler(srv.UpdateHandler),
	)
	require.NoError(t, err)
	t.Cleanup(eng.Close)
	srv.AttachEngine(eng)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "scals_resolve_pass_duration_seconds")
	assert.Contains(t, string(body), "scals_nodes_resolved_total")
}
