package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/roma-kitchen/api/internal/auth"
	"github.com/roma-kitchen/api/internal/database"
	"github.com/roma-kitchen/api/internal/enum"
)

// AuthStore defines the database methods needed by the secret check.
// Satisfied by *database.Queries; narrow interface for testability.
type AuthStore interface {
	GetConfigVariable(ctx context.Context, name string) (database.ConfigVariable, error)
}

// AuthHandler handles the shared-secret access check.
type AuthHandler struct {
	store     AuthStore
	jwtSecret string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(store AuthStore, jwtSecret string) *AuthHandler {
	return &AuthHandler{store: store, jwtSecret: jwtSecret}
}

// RegisterRoutes registers auth endpoints on the given Chi router.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/check", h.CheckSecret)
}

// --- Request / Response types ---

type checkSecretRequest struct {
	Category string `json:"category"`
	Secret   string `json:"secret"`
}

type checkSecretResponse struct {
	Success  bool   `json:"success"`
	Category string `json:"category"`
	Token    string `json:"token"`
}

// --- Handlers ---

// CheckSecret compares the candidate against the stored secret for the
// category. This is a plain stored-string comparison, not a credential
// system: secrets live in config_variables and gate UI areas only.
// A match also returns a bearer token for the token-guarded admin routes.
func (h *AuthHandler) CheckSecret(w http.ResponseWriter, r *http.Request) {
	var req checkSecretRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Secret == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "secret is required"})
		return
	}

	var variableName string
	switch req.Category {
	case enum.SecretCategoryBasic:
		variableName = enum.SecretVariableBasic
	case enum.SecretCategoryAdmin:
		variableName = enum.SecretVariableAdmin
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "category must be basic or admin"})
		return
	}

	variable, err := h.store.GetConfigVariable(r.Context(), variableName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no stored secret for category '" + req.Category + "'"})
			return
		}
		log.Printf("ERROR: get secret variable: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if req.Secret != variable.Value {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "incorrect secret"})
		return
	}

	token, err := auth.GenerateToken(h.jwtSecret, req.Category)
	if err != nil {
		log.Printf("ERROR: generate token: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, checkSecretResponse{
		Success:  true,
		Category: req.Category,
		Token:    token,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
