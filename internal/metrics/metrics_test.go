package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagecraft/internal/converter"
	"pagecraft/internal/renderer"
)

func TestObserveConversion(t *testing.T) {
	m := New()
	m.ObserveConversion(converter.Report{
		Sections: []converter.SectionReport{{Confidence: converter.ConfidenceExact}},
		Verbatim: 2,
	})
	m.ObserveConversion(converter.Report{Truncated: true})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.conversions.WithLabelValues(string(converter.ConfidenceExact))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.truncated))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.verbatim))
}

func TestObserveRender(t *testing.T) {
	m := New()
	m.ObserveRender(renderer.ModePreview, 3*time.Millisecond, []renderer.SkippedModule{
		{ID: "a", Type: "slider"}, {ID: "b", Type: "slider"}, {ID: "c", Type: "map"},
	})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.skipped.WithLabelValues("slider")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.skipped.WithLabelValues("map")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.renderDuration))
}

func TestObserveCache(t *testing.T) {
	m := New()
	m.ObserveCache("l1", true)
	m.ObserveCache("l1", false)
	m.ObserveCache("l1", false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("l1", "hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("l1", "miss")))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveConversion(converter.Report{})
		m.ObserveRender(renderer.ModePublished, time.Second, nil)
		m.ObserveCache("l2", true)
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveCache("l2", true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `pagecraft_render_cache_lookups_total{level="l2",result="hit"} 1`))
	assert.Contains(t, body, "go_goroutines")
}
