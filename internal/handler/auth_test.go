package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/roma-kitchen/api/internal/auth"
	"github.com/roma-kitchen/api/internal/database"
	"github.com/roma-kitchen/api/internal/handler"
)

const testJWTSecret = "test-jwt-secret"

// --- Mock store ---

type mockAuthStore struct {
	variables map[string]string
}

func (m *mockAuthStore) GetConfigVariable(_ context.Context, name string) (database.ConfigVariable, error) {
	v, ok := m.variables[name]
	if !ok {
		return database.ConfigVariable{}, pgx.ErrNoRows
	}
	return database.ConfigVariable{Name: name, Value: v}, nil
}

func setupAuthRouter(store *mockAuthStore) *chi.Mux {
	h := handler.NewAuthHandler(store, testJWTSecret)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// --- Tests ---

func TestCheckSecret_BasicMatch(t *testing.T) {
	store := &mockAuthStore{variables: map[string]string{"basic_secret": "roma123"}}
	router := setupAuthRouter(store)

	rr := doRequest(t, router, "POST", "/auth/check", map[string]interface{}{
		"category": "basic",
		"secret":   "roma123",
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	resp := decodeObj(t, rr)
	if resp["success"] != true {
		t.Errorf("success: got %v, want true", resp["success"])
	}
	if resp["category"] != "basic" {
		t.Errorf("category: got %v, want basic", resp["category"])
	}

	token, ok := resp["token"].(string)
	if !ok || token == "" {
		t.Fatal("token should be returned")
	}
	claims, err := auth.ValidateToken(testJWTSecret, token)
	if err != nil {
		t.Fatalf("returned token invalid: %v", err)
	}
	if claims.Category != "basic" {
		t.Errorf("token category: got %q, want basic", claims.Category)
	}
}

func TestCheckSecret_AdminMatch(t *testing.T) {
	store := &mockAuthStore{variables: map[string]string{"admin_secret": "romaadmin123"}}
	router := setupAuthRouter(store)

	rr := doRequest(t, router, "POST", "/auth/check", map[string]interface{}{
		"category": "admin",
		"secret":   "romaadmin123",
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
}

func TestCheckSecret_WrongSecret(t *testing.T) {
	store := &mockAuthStore{variables: map[string]string{"admin_secret": "romaadmin123"}}
	router := setupAuthRouter(store)

	rr := doRequest(t, router, "POST", "/auth/check", map[string]interface{}{
		"category": "admin",
		"secret":   "wrong",
	})

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusUnauthorized, rr.Body.String())
	}
	resp := decodeObj(t, rr)
	if resp["error"] != "incorrect secret" {
		t.Errorf("error: got %v, want 'incorrect secret'", resp["error"])
	}
}

func TestCheckSecret_NoStoredSecret(t *testing.T) {
	store := &mockAuthStore{variables: map[string]string{}}
	router := setupAuthRouter(store)

	rr := doRequest(t, router, "POST", "/auth/check", map[string]interface{}{
		"category": "basic",
		"secret":   "anything",
	})

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusNotFound, rr.Body.String())
	}
	resp := decodeObj(t, rr)
	if resp["error"] != "no stored secret for category 'basic'" {
		t.Errorf("error: got %v", resp["error"])
	}
}

func TestCheckSecret_UnknownCategory(t *testing.T) {
	store := &mockAuthStore{variables: map[string]string{}}
	router := setupAuthRouter(store)

	rr := doRequest(t, router, "POST", "/auth/check", map[string]interface{}{
		"category": "superuser",
		"secret":   "anything",
	})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusBadRequest, rr.Body.String())
	}
}

func TestCheckSecret_EmptySecret(t *testing.T) {
	store := &mockAuthStore{variables: map[string]string{"basic_secret": "roma123"}}
	router := setupAuthRouter(store)

	rr := doRequest(t, router, "POST", "/auth/check", map[string]interface{}{
		"category": "basic",
		"secret":   "",
	})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusBadRequest, rr.Body.String())
	}
}

func TestCheckSecret_InvalidBody(t *testing.T) {
	store := &mockAuthStore{variables: map[string]string{}}
	router := setupAuthRouter(store)

	rr := doRequest(t, router, "POST", "/auth/check", "not json")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusBadRequest, rr.Body.String())
	}
}
