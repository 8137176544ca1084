package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"timecard/internal/domain/auth"
)

func TestRateLimitUsesUserKeyBeforeIPFallback(t *testing.T) {
	limited := RateLimit(1, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	user := auth.UserContext{TenantID: "tenant-1", UserID: "user-1"}

	first := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/clock-in", nil)
	first = first.WithContext(WithUser(first.Context(), user))
	first.RemoteAddr = "198.51.100.11:2222"
	firstRec := httptest.NewRecorder()
	limited.ServeHTTP(firstRec, first)
	if firstRec.Code != http.StatusNoContent {
		t.Fatalf("expected first request to pass, got %d", firstRec.Code)
	}

	second := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/clock-in", nil)
	second = second.WithContext(WithUser(second.Context(), user))
	second.RemoteAddr = "198.51.100.12:3333"
	secondRec := httptest.NewRecorder()
	limited.ServeHTTP(secondRec, second)
	if secondRec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled by user key, got %d", secondRec.Code)
	}
}

func TestLoginRateLimitKeysOnEmployeeID(t *testing.T) {
	limited := LoginRateLimit(8, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	send := func(remoteAddr, body string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		return rec.Code
	}

	// Limit is baseLimit/4 = 2 per key. Same employee id from rotating
	// IPs must still be throttled.
	if code := send("203.0.113.1:1111", `{"employeeId":"1001","password":"x"}`); code != http.StatusNoContent {
		t.Fatalf("first attempt should pass, got %d", code)
	}
	if code := send("203.0.113.2:2222", `{"employeeId":"1001","password":"x"}`); code != http.StatusNoContent {
		t.Fatalf("second attempt should pass, got %d", code)
	}
	if code := send("203.0.113.3:3333", `{"employeeId":"1001","password":"x"}`); code != http.StatusTooManyRequests {
		t.Fatalf("third attempt for same employee must be throttled, got %d", code)
	}

	if code := send("203.0.113.4:4444", `{"employeeId":"9999","password":"x"}`); code != http.StatusNoContent {
		t.Fatalf("different employee should pass, got %d", code)
	}
}
