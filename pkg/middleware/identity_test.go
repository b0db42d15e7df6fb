package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIdentityInjectsUser(t *testing.T) {
	var captured string
	handler := Identity()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = UserID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations", nil)
	req.Header.Set(UserHeader, "alice")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if captured != "alice" {
		t.Errorf("expected alice, got %q", captured)
	}
}

func TestIdentityTrimsWhitespace(t *testing.T) {
	var captured string
	handler := Identity()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = UserID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(UserHeader, "  bob  ")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if captured != "bob" {
		t.Errorf("expected bob, got %q", captured)
	}
}

func TestIdentityAbsentHeaderIsAnonymous(t *testing.T) {
	var captured string
	handler := Identity()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = UserID(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if captured != "" {
		t.Errorf("expected anonymous, got %q", captured)
	}
}
