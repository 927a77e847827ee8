package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/cppla/homelab/store"
	"github.com/cppla/homelab/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type recordingCounter struct {
	pages []string
	err   error
}

func (r *recordingCounter) Track(_ context.Context, page string) error {
	r.pages = append(r.pages, page)
	return r.err
}

func TestTrackVisit(t *testing.T) {
	counter := &recordingCounter{}
	r := gin.New()
	r.Any("/home", TrackVisit(counter, "home"), func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, method := range []string{"GET", "POST", "GET"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(method, "/home", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status %d", method, w.Code)
		}
	}
	if len(counter.pages) != 2 {
		t.Errorf("expected only GETs counted, got %v", counter.pages)
	}
}

func TestTrackVisit_ErrorsDoNotFailRequest(t *testing.T) {
	for _, err := range []error{store.ErrNotFound, errors.New("db down")} {
		counter := &recordingCounter{err: err}
		r := gin.New()
		r.GET("/about", TrackVisit(counter, "about"), func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/about", nil))
		if w.Code != http.StatusOK {
			t.Errorf("tracking error %v should not fail the request, got %d", err, w.Code)
		}
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(utils.RequestIDKey)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	generated := w.Header().Get(RequestIDHeader)
	if generated == "" || w.Body.String() != generated {
		t.Errorf("expected generated id in header and context, header=%q body=%q", generated, w.Body.String())
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "trace-1")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != "trace-1" {
		t.Errorf("expected caller id kept, got %q", got)
	}
}

func TestRateLimitMiddleware_PerIP(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(4)) // burst of 2
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(ip string) int {
		req := httptest.NewRequest("POST", "/", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < 2; i++ {
		if code := send("10.0.0.1"); code != http.StatusOK {
			t.Fatalf("request %d: status %d", i, code)
		}
	}
	if code := send("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Errorf("expected 429 after burst, got %d", code)
	}
	if code := send("10.0.0.2"); code != http.StatusOK {
		t.Errorf("other client should have its own bucket, got %d", code)
	}
}
