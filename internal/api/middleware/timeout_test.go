package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRequestTimeout_ZeroDurationPassesThrough(t *testing.T) {
	r := gin.New()
	r.Use(RequestTimeout(0))
	r.GET("/session", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}

func TestRequestTimeout_RequestCompletesBeforeTimeout(t *testing.T) {
	r := gin.New()
	r.Use(RequestTimeout(5 * time.Second))
	r.GET("/session", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}

func TestRequestTimeout_SlowHandlerGets504(t *testing.T) {
	r := gin.New()
	r.Use(RequestTimeout(20 * time.Millisecond))
	r.GET("/session", func(c *gin.Context) {
		select {
		case <-c.Request.Context().Done():
			// Handler honors the deadline and writes nothing.
		case <-time.After(time.Second):
			c.String(http.StatusOK, "too late")
		}
	})

	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusGatewayTimeout {
		t.Errorf("expected status 504, got %d", w.Code)
	}
}
