package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c4-modeller/engine/internal/diagram"
)

func TestMiddlewareUsesPattern(t *testing.T) {
	m := New()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/entities/{type}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	ts := httptest.NewServer(m.Middleware(mux))
	defer ts.Close()

	for _, p := range []string{"/api/entities/system", "/api/entities/person", "/nowhere"} {
		resp, err := http.Get(ts.URL + p)
		require.NoError(t, err)
		resp.Body.Close()
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "GET /api/entities/{type}", "418")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestObservers(t *testing.T) {
	m := New()

	s := diagram.EmptySnapshot(diagram.Metadata{Name: "m"})
	s.Systems = []diagram.Entity{{ID: "a"}, {ID: "b"}}
	m.ObserveModel(&s)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Entities.WithLabelValues("system")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Entities.WithLabelValues("person")))

	m.ObserveExport("plantuml")
	m.ObserveImport("json", nil)
	m.ObserveImport("json", errors.New("bad"))
	m.ObserveAutosave(nil)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExportsTotal.WithLabelValues("plantuml")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ImportsTotal.WithLabelValues("json", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AutosavesTotal.WithLabelValues("success")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveExport("json")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `c4model_exports_total{format="json"} 1`)
}
