package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter(t *testing.T) {
	t.Run("allows up to burst then rejects", func(t *testing.T) {
		rl := NewRateLimiter(0.001, 2)
		mw := rl.Middleware()

		codes := make([]int, 0, 3)
		for i := 0; i < 3; i++ {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/login", nil)
			c.Request.RemoteAddr = "10.0.0.1:1234"

			mw(c)
			if c.IsAborted() {
				codes = append(codes, w.Code)
			} else {
				codes = append(codes, http.StatusOK)
			}
		}

		assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	})

	t.Run("limits are per client IP", func(t *testing.T) {
		rl := NewRateLimiter(0.001, 1)
		mw := rl.Middleware()

		first := httptest.NewRecorder()
		c1, _ := gin.CreateTestContext(first)
		c1.Request = httptest.NewRequest(http.MethodPost, "/login", nil)
		c1.Request.RemoteAddr = "10.0.0.1:1234"
		mw(c1)
		assert.False(t, c1.IsAborted())

		// Other clients get their own bucket.
		second := httptest.NewRecorder()
		c2, _ := gin.CreateTestContext(second)
		c2.Request = httptest.NewRequest(http.MethodPost, "/login", nil)
		c2.Request.RemoteAddr = "10.0.0.2:1234"
		mw(c2)
		assert.False(t, c2.IsAborted())

		third := httptest.NewRecorder()
		c3, _ := gin.CreateTestContext(third)
		c3.Request = httptest.NewRequest(http.MethodPost, "/login", nil)
		c3.Request.RemoteAddr = "10.0.0.1:1234"
		mw(c3)
		assert.True(t, c3.IsAborted())
	})
}
