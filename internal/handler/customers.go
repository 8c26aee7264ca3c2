package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/roma-kitchen/api/internal/database"
)

// CustomerStore defines the database methods needed by customer handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type CustomerStore interface {
	GetCustomer(ctx context.Context, phone string) (database.Customer, error)
	ListCustomers(ctx context.Context) ([]database.Customer, error)
	CreateCustomer(ctx context.Context, arg database.CreateCustomerParams) (database.Customer, error)
	UpdateCustomer(ctx context.Context, arg database.UpdateCustomerParams) (database.Customer, error)
	DeleteCustomer(ctx context.Context, phone string) (database.Customer, error)
	GetZone(ctx context.Context, id int32) (database.Zone, error)
	ListZones(ctx context.Context) ([]database.Zone, error)
}

// CustomerHandler handles customer CRUD endpoints.
type CustomerHandler struct {
	store CustomerStore
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(store CustomerStore) *CustomerHandler {
	return &CustomerHandler{store: store}
}

// RegisterRoutes registers customer CRUD endpoints on the given Chi router.
// Expected to be mounted at /customers. Customers are keyed by phone.
func (h *CustomerHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Route("/{phone}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
	})
}

// --- Request / Response types ---

type createCustomerRequest struct {
	Phone   string `json:"phone"`
	Name    string `json:"name"`
	TaxID   string `json:"tax_id"`
	Address string `json:"address"`
	ZoneID  int32  `json:"zone_id"`
}

// updateCustomerRequest carries partial updates; nil fields are left alone.
type updateCustomerRequest struct {
	Name    *string `json:"name"`
	TaxID   *string `json:"tax_id"`
	Address *string `json:"address"`
	ZoneID  *int32  `json:"zone_id"`
}

type customerResponse struct {
	Phone     string        `json:"phone"`
	Name      string        `json:"name"`
	TaxID     *string       `json:"tax_id"`
	Address   string        `json:"address"`
	ZoneID    int32         `json:"zone_id"`
	Zone      *zoneResponse `json:"zone,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func toCustomerResponse(c database.Customer) customerResponse {
	resp := customerResponse{
		Phone:     c.Phone,
		Name:      c.Name,
		Address:   c.Address,
		ZoneID:    c.ZoneID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.TaxID.Valid {
		resp.TaxID = &c.TaxID.String
	}
	return resp
}

// --- Handlers ---

// List returns all customers, each with its default zone attached.
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.store.ListCustomers(r.Context())
	if err != nil {
		log.Printf("ERROR: list customers: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	zones, err := h.store.ListZones(r.Context())
	if err != nil {
		log.Printf("ERROR: list zones: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	zonesByID := make(map[int32]database.Zone, len(zones))
	for _, z := range zones {
		zonesByID[z.ID] = z
	}

	resp := make([]customerResponse, len(customers))
	for i, c := range customers {
		resp[i] = toCustomerResponse(c)
		if z, ok := zonesByID[c.ZoneID]; ok {
			zr := toZoneResponse(z)
			resp[i].Zone = &zr
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single customer by phone, with its default zone attached.
// A NotFound here drives the caller's registration redirect, so the 404
// body stays distinct from validation failures.
func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")
	if !isValidPhone(phone) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "phone must be 8 or 9 digits"})
		return
	}

	customer, err := h.store.GetCustomer(r.Context(), phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "customer not found"})
			return
		}
		log.Printf("ERROR: get customer: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := toCustomerResponse(customer)
	if zone, err := h.store.GetZone(r.Context(), customer.ZoneID); err == nil {
		zr := toZoneResponse(zone)
		resp.Zone = &zr
	}

	writeJSON(w, http.StatusOK, resp)
}

// Create registers a new customer keyed by phone.
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if !isValidPhone(req.Phone) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "phone must be 8 or 9 digits"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if req.Address == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "address is required"})
		return
	}
	if req.ZoneID == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "zone_id is required"})
		return
	}
	if req.TaxID != "" && !isValidTaxID(req.TaxID) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "tax_id must be 11 digits"})
		return
	}

	var taxID pgtype.Text
	if req.TaxID != "" {
		taxID = pgtype.Text{String: req.TaxID, Valid: true}
	}

	customer, err := h.store.CreateCustomer(r.Context(), database.CreateCustomerParams{
		Phone:   req.Phone,
		Name:    req.Name,
		TaxID:   taxID,
		Address: req.Address,
		ZoneID:  req.ZoneID,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				writeJSON(w, http.StatusConflict, map[string]string{"error": "customer already exists with this phone"})
				return
			case "23503":
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "zone not found"})
				return
			}
		}
		log.Printf("ERROR: create customer: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := toCustomerResponse(customer)
	if zone, err := h.store.GetZone(r.Context(), customer.ZoneID); err == nil {
		zr := toZoneResponse(zone)
		resp.Zone = &zr
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Update applies a partial update to an existing customer.
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")
	if !isValidPhone(phone) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "phone must be 8 or 9 digits"})
		return
	}

	var req updateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name != nil && *req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name cannot be empty"})
		return
	}
	if req.Address != nil && *req.Address == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "address cannot be empty"})
		return
	}
	if req.TaxID != nil && *req.TaxID != "" && !isValidTaxID(*req.TaxID) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "tax_id must be 11 digits"})
		return
	}

	customer, err := h.store.UpdateCustomer(r.Context(), database.UpdateCustomerParams{
		Phone:   phone,
		Name:    ptrToText(req.Name),
		TaxID:   ptrToText(req.TaxID),
		Address: ptrToText(req.Address),
		ZoneID:  ptrToInt4(req.ZoneID),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "customer not found"})
			return
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "zone not found"})
			return
		}
		log.Printf("ERROR: update customer: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := toCustomerResponse(customer)
	if zone, err := h.store.GetZone(r.Context(), customer.ZoneID); err == nil {
		zr := toZoneResponse(zone)
		resp.Zone = &zr
	}

	writeJSON(w, http.StatusOK, resp)
}

// Delete removes a customer and returns the deleted record.
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")
	if !isValidPhone(phone) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "phone must be 8 or 9 digits"})
		return
	}

	customer, err := h.store.DeleteCustomer(r.Context(), phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "customer not found"})
			return
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "customer has existing orders"})
			return
		}
		log.Printf("ERROR: delete customer: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toCustomerResponse(customer))
}

// --- Helpers ---

func isValidPhone(s string) bool {
	if len(s) != 8 && len(s) != 9 {
		return false
	}
	return allDigits(s)
}

func isValidTaxID(s string) bool {
	return len(s) == 11 && allDigits(s)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func ptrToText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func ptrToInt4(v *int32) pgtype.Int4 {
	if v == nil {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: *v, Valid: true}
}
