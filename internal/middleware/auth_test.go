package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/roma-kitchen/api/internal/auth"
	"github.com/roma-kitchen/api/internal/middleware"
)

const testSecret = "test-secret"

func protectedHandler(t *testing.T, wantCategory string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			t.Error("claims missing from context")
		} else if wantCategory != "" && claims.Category != wantCategory {
			t.Errorf("category: got %q, want %q", claims.Category, wantCategory)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func doAuthed(handler http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestAuthenticate_ValidToken(t *testing.T) {
	token, err := auth.GenerateToken(testSecret, "basic")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	h := middleware.Authenticate(testSecret)(protectedHandler(t, "basic"))
	rr := doAuthed(h, token)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	h := middleware.Authenticate(testSecret)(protectedHandler(t, ""))
	rr := doAuthed(h, "")

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	h := middleware.Authenticate(testSecret)(protectedHandler(t, ""))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Token abc")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthenticate_WrongSecret(t *testing.T) {
	token, err := auth.GenerateToken("other-secret", "basic")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	h := middleware.Authenticate(testSecret)(protectedHandler(t, ""))
	rr := doAuthed(h, token)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestRequireCategory_Allows(t *testing.T) {
	token, err := auth.GenerateToken(testSecret, "admin")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	h := middleware.Authenticate(testSecret)(
		middleware.RequireCategory("admin")(protectedHandler(t, "admin")))
	rr := doAuthed(h, token)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
}

func TestRequireCategory_Forbids(t *testing.T) {
	token, err := auth.GenerateToken(testSecret, "basic")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	h := middleware.Authenticate(testSecret)(
		middleware.RequireCategory("admin")(protectedHandler(t, "")))
	rr := doAuthed(h, token)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusForbidden)
	}
}

func TestRequireCategory_WithoutAuthenticate(t *testing.T) {
	h := middleware.RequireCategory("admin")(protectedHandler(t, ""))
	rr := doAuthed(h, "")

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}
