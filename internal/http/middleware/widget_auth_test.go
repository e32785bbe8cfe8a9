package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWidgetSecretValid(t *testing.T) {
	mw := WidgetSecret("topsecret")
	req := httptest.NewRequest(http.MethodPost, "/message", nil)
	req.Header.Set(WidgetSecretHeader, "topsecret")
	rec := httptest.NewRecorder()

	called := false
	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})).ServeHTTP(rec, req)

	if !called {
		t.Fatalf("expected handler to be called")
	}
}

func TestWidgetSecretWrong(t *testing.T) {
	mw := WidgetSecret("topsecret")
	req := httptest.NewRequest(http.MethodPost, "/message", nil)
	req.Header.Set(WidgetSecretHeader, "guess")
	rec := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler should not run")
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestWidgetSecretMissingHeader(t *testing.T) {
	mw := WidgetSecret("topsecret")
	req := httptest.NewRequest(http.MethodPost, "/message", nil)
	rec := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler should not run")
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestWidgetSecretDisabled(t *testing.T) {
	mw := WidgetSecret("")
	req := httptest.NewRequest(http.MethodPost, "/message", nil)
	rec := httptest.NewRecorder()

	called := false
	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})).ServeHTTP(rec, req)

	if !called {
		t.Fatalf("expected handler to be called when no secret configured")
	}
}
