package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go-dreamjob-backend/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGinMiddlewareRecordsRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := metrics.New()

	r := gin.New()
	r.Use(m.GinMiddleware())
	r.GET("/v1/candidates/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	for _, path := range []string{"/v1/candidates/1", "/v1/candidates/2", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	m.ObserveUpload(2048)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `dreamjob_http_requests_total{method="GET",path="/v1/candidates/:id",status="200"} 2`)
	assert.Contains(t, body, `dreamjob_http_requests_total{method="GET",path="unmatched",status="404"} 1`)
	assert.Contains(t, body, "dreamjob_files_upload_bytes_count 1")
	assert.NotContains(t, body, "/v1/candidates/1\"")
}

func TestObserveUploadOnNilMetrics(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() { m.ObserveUpload(10) })
}
