package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	mw := AuthMiddleware("secret-key", nil, NewSuspiciousActivityDetector())
	handler := mw(okHandler())

	tests := []struct {
		name       string
		path       string
		key        string
		wantStatus int
	}{
		{name: "valid key", path: "/api/v1/inventory", key: "secret-key", wantStatus: http.StatusOK},
		{name: "missing key", path: "/api/v1/inventory", wantStatus: http.StatusUnauthorized},
		{name: "wrong key", path: "/api/v1/inventory", key: "wrong", wantStatus: http.StatusUnauthorized},
		{name: "healthz bypasses auth", path: "/healthz", wantStatus: http.StatusOK},
		{name: "readyz bypasses auth", path: "/readyz", wantStatus: http.StatusOK},
		{name: "metrics bypasses auth", path: "/metrics", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.key != "" {
				req.Header.Set(HeaderAPIKey, tt.key)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	handler := SecurityHeadersMiddleware()(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, HeaderValueNoSniff, rec.Header().Get(HeaderContentType))
	assert.Equal(t, HeaderValueSameOrigin, rec.Header().Get(HeaderFrameOptions))
	assert.Equal(t, HeaderValueXSSBlock, rec.Header().Get(HeaderXSSProtection))
	assert.Equal(t, HeaderValueReferrerStrictOrigin, rec.Header().Get(HeaderReferrerPolicy))
}

func TestRequestSizeLimitMiddleware(t *testing.T) {
	var readErr error
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	})
	handler := RequestSizeLimitMiddleware(8)(inner)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory/add", strings.NewReader("this body is longer than eight bytes"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Error(t, readErr)

	readErr = nil
	req = httptest.NewRequest(http.MethodPost, "/api/v1/inventory/add", strings.NewReader("tiny"))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.NoError(t, readErr)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExtractIPWithoutProxy(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:4711"
	// Forwarded headers are ignored unless the peer is a trusted proxy.
	req.Header.Set(HeaderForwardedFor, "198.51.100.99")

	assert.Equal(t, "203.0.113.7", extractIP(req, nil))
}

func TestExtractIPTrustedProxy(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:4711"
	req.Header.Set(HeaderForwardedFor, "198.51.100.99")

	assert.Equal(t, "198.51.100.99", extractIP(req, []string{"10.0.0.1"}))
}

func TestSuspiciousActivityDetectorRateLimit(t *testing.T) {
	detector := NewSuspiciousActivityDetector()

	for i := 0; i < 1000; i++ {
		assert.True(t, detector.RecordRequest("192.0.2.1"))
	}
	assert.False(t, detector.RecordRequest("192.0.2.1"))

	// Other IPs are unaffected.
	assert.True(t, detector.RecordRequest("192.0.2.2"))
}
