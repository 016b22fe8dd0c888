package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"booking-api/domain"
	"booking-api/repositories"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestCORS_Preflight(t *testing.T) {
	router := gin.New()
	router.Use(CORS())
	router.GET("/api/listings", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/listings", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	router := gin.New()
	router.Use(RequestLogger(zap.New(core)))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "request", entries[0].Message)
	assert.Equal(t, int64(200), entries[0].ContextMap()["status"])
	assert.Equal(t, "request rejected", entries[1].Message)
}

func TestMetrics_ExposesRouteLabels(t *testing.T) {
	metrics := NewMetrics()
	router := gin.New()
	router.Use(metrics.Middleware())
	router.GET("/api/listings/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/listings/123", nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.True(t, strings.Contains(body, `booking_http_requests_total{method="GET",route="/api/listings/:id",status="200"} 1`), body)
	assert.Contains(t, body, "booking_http_request_duration_seconds")
}

func newAmenityCategory(name string) *domain.AmenityCategory {
	category := &domain.AmenityCategory{CategoryName: name}
	category.MarkCreated(time.Now().UTC())
	return category
}

// Test: lo pendiente se guarda solo si la respuesta fue exitosa
func TestChangeScope(t *testing.T) {
	dc, err := repositories.NewFileContext(t.TempDir())
	require.NoError(t, err)

	router := gin.New()
	router.Use(ChangeScope(dc, zap.NewNop()))
	router.POST("/ok", func(c *gin.Context) {
		require.NoError(t, dc.AmenityCategories().Add(c.Request.Context(), newAmenityCategory("Kitchen")))
		c.Status(http.StatusCreated)
	})
	router.POST("/fail", func(c *gin.Context) {
		require.NoError(t, dc.AmenityCategories().Add(c.Request.Context(), newAmenityCategory("Safety")))
		c.Status(http.StatusBadRequest)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/ok", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/fail", nil))

	rows, err := dc.AmenityCategories().Query(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Kitchen", rows[0].CategoryName)
}
