package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newMWRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	return r
}

func TestRequestID_GeneratedWhenAbsent(t *testing.T) {
	r := newMWRouter(RequestID())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	if rid := w.Header().Get("X-Request-ID"); rid == "" {
		t.Fatalf("expected a generated request id header")
	}
}

func TestRequestID_PropagatesIncoming(t *testing.T) {
	r := newMWRouter(RequestID())
	var seen string
	r.GET("/x", func(c *gin.Context) {
		v, _ := c.Get("requestID")
		seen, _ = v.(string)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "rid-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Header().Get("X-Request-ID") != "rid-123" || seen != "rid-123" {
		t.Fatalf("incoming request id must be reused, header=%q ctx=%q",
			w.Header().Get("X-Request-ID"), seen)
	}
}

func TestRecovery_PanicBecomesJSON500(t *testing.T) {
	r := newMWRouter(RequestID(), Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"code":"internal_error"`) || !strings.Contains(body, `"request_id"`) {
		t.Fatalf("expected error envelope, got %s", body)
	}
	if strings.Contains(body, "kaboom") {
		t.Fatalf("panic value must not leak to the client: %s", body)
	}
}

func TestScrub_PhonesAndUUIDs(t *testing.T) {
	in := "phone=+49 170 1234567&child=3e9c2f0a-4f4a-4a41-9d5e-0b8f9a2d1c77"
	out := scrub(in)

	if strings.Contains(out, "1234567") {
		t.Fatalf("phone must be scrubbed: %q", out)
	}
	if strings.Contains(out, "3e9c2f0a") {
		t.Fatalf("uuid must be scrubbed: %q", out)
	}
	if !strings.Contains(out, "[redacted:phone]") || !strings.Contains(out, "[redacted:id]") {
		t.Fatalf("expected redaction markers: %q", out)
	}
}

func TestScrubHeaders_MasksSensitive(t *testing.T) {
	h := http.Header{}
	h.Set("Authorization", "Bearer secret-token")
	h.Set("Cookie", "kitadesk_session=abc")
	h.Set("Accept", "application/json")

	out := ScrubHeaders(h)
	if out["Authorization"] != "[REDACTED]" || out["Cookie"] != "[REDACTED]" {
		t.Fatalf("sensitive headers must be masked: %v", out)
	}
	if out["Accept"] != "application/json" {
		t.Fatalf("plain headers must pass through: %v", out)
	}
}

func TestLoggerFrom_FallbackNeverNil(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if LoggerFrom(c) == nil {
		t.Fatalf("LoggerFrom must never return nil")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 4); got != "abcd…" {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := truncate("abc", 4); got != "abc" {
		t.Fatalf("short strings must pass through: %q", got)
	}
}
