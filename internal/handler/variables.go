package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/roma-kitchen/api/internal/database"
)

// VariableStore defines the database methods needed by config variable handlers.
type VariableStore interface {
	GetConfigVariable(ctx context.Context, name string) (database.ConfigVariable, error)
	ListConfigVariables(ctx context.Context) ([]database.ConfigVariable, error)
	CreateConfigVariable(ctx context.Context, arg database.CreateConfigVariableParams) (database.ConfigVariable, error)
	UpdateConfigVariable(ctx context.Context, arg database.UpdateConfigVariableParams) (database.ConfigVariable, error)
	DeleteConfigVariable(ctx context.Context, name string) (database.ConfigVariable, error)
}

// VariableHandler handles config variable CRUD endpoints. Mutations are
// expected to sit behind the admin token middleware.
type VariableHandler struct {
	store VariableStore
}

// NewVariableHandler creates a new VariableHandler.
func NewVariableHandler(store VariableStore) *VariableHandler {
	return &VariableHandler{store: store}
}

// RegisterReadRoutes registers the read-only variable endpoints.
func (h *VariableHandler) RegisterReadRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{name}", h.Get)
}

// RegisterWriteRoutes registers the mutating variable endpoints.
func (h *VariableHandler) RegisterWriteRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Put("/{name}", h.Update)
	r.Delete("/{name}", h.Delete)
}

// --- Request / Response types ---

type createVariableRequest struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type updateVariableRequest struct {
	Value string `json:"value"`
}

type variableResponse struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func toVariableResponse(v database.ConfigVariable) variableResponse {
	return variableResponse{Name: v.Name, Value: v.Value}
}

// --- Handlers ---

func (h *VariableHandler) List(w http.ResponseWriter, r *http.Request) {
	variables, err := h.store.ListConfigVariables(r.Context())
	if err != nil {
		log.Printf("ERROR: list config variables: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]variableResponse, len(variables))
	for i, v := range variables {
		resp[i] = toVariableResponse(v)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *VariableHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	variable, err := h.store.GetConfigVariable(r.Context(), name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "config variable not found"})
			return
		}
		log.Printf("ERROR: get config variable: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toVariableResponse(variable))
}

func (h *VariableHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createVariableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	variable, err := h.store.CreateConfigVariable(r.Context(), database.CreateConfigVariableParams{
		Name:  req.Name,
		Value: req.Value,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "config variable already exists with this name"})
			return
		}
		log.Printf("ERROR: create config variable: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toVariableResponse(variable))
}

func (h *VariableHandler) Update(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req updateVariableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	variable, err := h.store.UpdateConfigVariable(r.Context(), database.UpdateConfigVariableParams{
		Name:  name,
		Value: req.Value,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "config variable not found"})
			return
		}
		log.Printf("ERROR: update config variable: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toVariableResponse(variable))
}

func (h *VariableHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	variable, err := h.store.DeleteConfigVariable(r.Context(), name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "config variable not found"})
			return
		}
		log.Printf("ERROR: delete config variable: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toVariableResponse(variable))
}
