// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestLoginProtection(t *testing.T, maxAttempts int, lockout, window time.Duration) *LoginProtection {
	t.Helper()
	lp := NewLoginProtection(LoginProtectionConfig{
		IPRateLimit:       10,
		IPBurst:           100,
		MaxFailedAttempts: maxAttempts,
		LockoutDuration:   lockout,
		AttemptWindow:     window,
	})
	t.Cleanup(lp.Stop)
	return lp
}

func TestNewLoginProtection_Defaults(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{})
	defer lp.Stop()

	if lp.maxFailedAttempts != 5 {
		t.Errorf("maxFailedAttempts = %d, want 5", lp.maxFailedAttempts)
	}
	if lp.lockoutDuration != 15*time.Minute {
		t.Errorf("lockoutDuration = %v, want 15m", lp.lockoutDuration)
	}
	if lp.attemptWindow != 15*time.Minute {
		t.Errorf("attemptWindow = %v, want 15m", lp.attemptWindow)
	}
}

func TestLoginProtection_LocksAfterMaxAttempts(t *testing.T) {
	lp := newTestLoginProtection(t, 3, 200*time.Millisecond, time.Minute)

	for i := range 2 {
		if locked, _ := lp.RecordFailedAttempt("pastor"); locked {
			t.Fatalf("attempt %d should not lock", i+1)
		}
	}
	if got := lp.RemainingAttempts("pastor"); got != 1 {
		t.Errorf("RemainingAttempts() = %d, want 1", got)
	}

	locked, d := lp.RecordFailedAttempt("pastor")
	if !locked || d <= 0 {
		t.Fatalf("third attempt should lock, got locked=%v d=%v", locked, d)
	}
	if locked, remaining := lp.IsLocked("pastor"); !locked || remaining <= 0 {
		t.Error("login should be locked")
	}
	if locked, _ := lp.IsLocked("secretary"); locked {
		t.Error("other logins are unaffected")
	}

	time.Sleep(250 * time.Millisecond)
	if locked, _ := lp.IsLocked("pastor"); locked {
		t.Error("lock should expire")
	}
}

func TestLoginProtection_UnknownNamesCounted(t *testing.T) {
	lp := newTestLoginProtection(t, 2, time.Minute, time.Minute)

	lp.RecordFailedAttempt("admin")
	if locked, _ := lp.RecordFailedAttempt("admin"); !locked {
		t.Error("attempts on names that are not staff logins should also lock")
	}
}

func TestLoginProtection_SuccessClears(t *testing.T) {
	lp := newTestLoginProtection(t, 3, time.Minute, time.Minute)

	lp.RecordFailedAttempt("assistant")
	lp.RecordFailedAttempt("assistant")
	lp.RecordSuccessfulLogin("assistant")

	if got := lp.RemainingAttempts("assistant"); got != 3 {
		t.Errorf("RemainingAttempts() = %d, want 3", got)
	}
}

func TestLoginProtection_ExponentialBackoff(t *testing.T) {
	lp := newTestLoginProtection(t, 2, 50*time.Millisecond, time.Minute)

	lp.RecordFailedAttempt("pastor")
	_, first := lp.RecordFailedAttempt("pastor")
	time.Sleep(first + 10*time.Millisecond)

	lp.RecordFailedAttempt("pastor")
	_, second := lp.RecordFailedAttempt("pastor")

	if second != 2*first {
		t.Errorf("second lockout = %v; want %v", second, 2*first)
	}
}

func TestLoginProtection_WindowReset(t *testing.T) {
	lp := newTestLoginProtection(t, 5, time.Minute, 50*time.Millisecond)

	lp.RecordFailedAttempt("pastor")
	if got := lp.RemainingAttempts("pastor"); got != 4 {
		t.Errorf("RemainingAttempts() = %d, want 4", got)
	}

	time.Sleep(80 * time.Millisecond)
	if got := lp.RemainingAttempts("pastor"); got != 5 {
		t.Errorf("RemainingAttempts() after window = %d, want 5", got)
	}
}

func TestLoginProtection_SweepStaleEntries(t *testing.T) {
	lp := newTestLoginProtection(t, 5, time.Millisecond, 10*time.Millisecond)

	lp.RecordFailedAttempt("pastor")
	time.Sleep(20 * time.Millisecond)
	lp.sweepStaleEntries()

	lp.attemptsMu.RLock()
	n := len(lp.failedAttempts)
	lp.attemptsMu.RUnlock()
	if n != 0 {
		t.Errorf("stale entries left = %d; want 0", n)
	}
}

func TestLoginProtection_Middleware(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{IPRateLimit: 0.001, IPBurst: 2})
	defer lp.Stop()

	wrapped := lp.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "192.0.2.10:5555"
		rec := httptest.NewRecorder()
		wrapped.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := post(); code != http.StatusOK {
		t.Errorf("first POST = %d; want 200", code)
	}
	if code := post(); code != http.StatusOK {
		t.Errorf("second POST = %d; want 200", code)
	}
	if code := post(); code != http.StatusTooManyRequests {
		t.Errorf("third POST = %d; want 429", code)
	}

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET is not rate limited, got %d", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		remoteAddr string
		want       string
	}{
		{"192.168.1.1:12345", "192.168.1.1"},
		{"[2001:db8::1]:443", "2001:db8::1"},
		{"10.0.0.5", "10.0.0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.remoteAddr, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLimiterCache(t *testing.T) {
	lc := newLimiterCache[string](1, 1)

	if lc.get("a") != lc.get("a") {
		t.Error("same key should return the same limiter")
	}
	lc.get("b")
	lc.get("c")

	if lc.clearIfExceeds(5) {
		t.Error("cache under the limit should not be cleared")
	}
	if !lc.clearIfExceeds(2) {
		t.Error("cache over the limit should be cleared")
	}
	if lc.len() != 0 {
		t.Errorf("len() = %d after clear; want 0", lc.len())
	}
}
