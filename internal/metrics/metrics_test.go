package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestGinMiddleware_RecordsRoutePattern(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/flights/:code", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/flights/:code", "200"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/flights/F100", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/flights/:code", "200")))
}

func TestSetSeatsAvailable_ClampsNegative(t *testing.T) {
	SetSeatsAvailable("F100", -3)
	assert.Equal(t, float64(0), testutil.ToFloat64(seatsAvailable.WithLabelValues("F100")))

	SetSeatsAvailable("F100", 7)
	assert.Equal(t, float64(7), testutil.ToFloat64(seatsAvailable.WithLabelValues("F100")))
}

func TestRegister_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}
