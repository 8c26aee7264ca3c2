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
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/roma-kitchen/api/internal/database"
)

// ItemStore defines the database methods needed by catalog item handlers.
type ItemStore interface {
	GetCatalogItem(ctx context.Context, code string) (database.CatalogItem, error)
	ListCatalogItems(ctx context.Context) ([]database.CatalogItem, error)
	CreateCatalogItem(ctx context.Context, arg database.CreateCatalogItemParams) (database.CatalogItem, error)
	UpdateCatalogItem(ctx context.Context, arg database.UpdateCatalogItemParams) (database.CatalogItem, error)
	DeleteCatalogItem(ctx context.Context, code string) (database.CatalogItem, error)
}

// ItemHandler handles catalog item CRUD endpoints.
type ItemHandler struct {
	store ItemStore
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(store ItemStore) *ItemHandler {
	return &ItemHandler{store: store}
}

// RegisterRoutes registers catalog item CRUD endpoints on the given Chi router.
func (h *ItemHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Route("/{code}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
	})
}

// --- Request / Response types ---

type createItemRequest struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

type updateItemRequest struct {
	Name  *string `json:"name"`
	Price *string `json:"price"`
}

type itemResponse struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

func toItemResponse(i database.CatalogItem) itemResponse {
	return itemResponse{
		Code:  i.Code,
		Name:  i.Name,
		Price: numericToString(i.Price),
	}
}

// --- Handlers ---

func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListCatalogItems(r.Context())
	if err != nil {
		log.Printf("ERROR: list catalog items: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]itemResponse, len(items))
	for i, item := range items {
		resp[i] = toItemResponse(item)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	item, err := h.store.GetCatalogItem(r.Context(), code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "catalog item not found"})
			return
		}
		log.Printf("ERROR: get catalog item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toItemResponse(item))
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Code == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "code is required"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	price, err := parseMoney(req.Price)
	if err != nil || !price.IsPositive() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "price must be a positive amount"})
		return
	}

	item, err := h.store.CreateCatalogItem(r.Context(), database.CreateCatalogItemParams{
		Code:  req.Code,
		Name:  req.Name,
		Price: decimalToNumeric(price),
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "catalog item already exists with this code"})
			return
		}
		log.Printf("ERROR: create catalog item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toItemResponse(item))
}

func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name != nil && *req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name cannot be empty"})
		return
	}
	var price pgtype.Numeric
	if req.Price != nil {
		parsed, err := parseMoney(*req.Price)
		if err != nil || !parsed.IsPositive() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "price must be a positive amount"})
			return
		}
		price = decimalToNumeric(parsed)
	}

	item, err := h.store.UpdateCatalogItem(r.Context(), database.UpdateCatalogItemParams{
		Code:  code,
		Name:  ptrToText(req.Name),
		Price: price,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "catalog item not found"})
			return
		}
		log.Printf("ERROR: update catalog item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toItemResponse(item))
}

func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	item, err := h.store.DeleteCatalogItem(r.Context(), code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "catalog item not found"})
			return
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "catalog item is referenced by order lines"})
			return
		}
		log.Printf("ERROR: delete catalog item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toItemResponse(item))
}
