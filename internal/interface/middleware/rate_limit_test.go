package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRemainingAfterClampsAtZero(t *testing.T) {
	assert.Equal(t, 4, remainingAfter(5, 1))
	assert.Equal(t, 0, remainingAfter(5, 5))
	// requests past the limit keep incrementing the window counter
	assert.Equal(t, 0, remainingAfter(5, 6))
	assert.Equal(t, 0, remainingAfter(5, 120))
}

func TestRateLimitNoopWithoutRedis(t *testing.T) {
	r := gin.New()
	r.GET("/ping", RateLimit(nil, 5, time.Minute, KeyByIP(), nil), func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
}

func TestToInt(t *testing.T) {
	assert.Equal(t, 3, toInt(int64(3)))
	assert.Equal(t, 3, toInt(3))
	assert.Equal(t, 3, toInt("3"))
	assert.Equal(t, 0, toInt(nil))
}
