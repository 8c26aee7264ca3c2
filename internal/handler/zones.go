package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/roma-kitchen/api/internal/database"
	"github.com/shopspring/decimal"
)

// ZoneStore defines the database methods needed by zone handlers.
type ZoneStore interface {
	GetZone(ctx context.Context, id int32) (database.Zone, error)
	ListZones(ctx context.Context) ([]database.Zone, error)
	CreateZone(ctx context.Context, arg database.CreateZoneParams) (database.Zone, error)
	UpdateZone(ctx context.Context, arg database.UpdateZoneParams) (database.Zone, error)
	DeleteZone(ctx context.Context, id int32) (database.Zone, error)
}

// ZoneHandler handles delivery zone CRUD endpoints.
type ZoneHandler struct {
	store ZoneStore
}

// NewZoneHandler creates a new ZoneHandler.
func NewZoneHandler(store ZoneStore) *ZoneHandler {
	return &ZoneHandler{store: store}
}

// RegisterRoutes registers zone CRUD endpoints on the given Chi router.
func (h *ZoneHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
	})
}

// --- Request / Response types ---

type createZoneRequest struct {
	Neighborhood string `json:"neighborhood"`
	DeliveryFee  string `json:"delivery_fee"`
}

type updateZoneRequest struct {
	Neighborhood *string `json:"neighborhood"`
	DeliveryFee  *string `json:"delivery_fee"`
}

type zoneResponse struct {
	ID           int32  `json:"id"`
	Neighborhood string `json:"neighborhood"`
	DeliveryFee  string `json:"delivery_fee"`
}

func toZoneResponse(z database.Zone) zoneResponse {
	return zoneResponse{
		ID:           z.ID,
		Neighborhood: z.Neighborhood,
		DeliveryFee:  numericToString(z.DeliveryFee),
	}
}

// --- Handlers ---

func (h *ZoneHandler) List(w http.ResponseWriter, r *http.Request) {
	zones, err := h.store.ListZones(r.Context())
	if err != nil {
		log.Printf("ERROR: list zones: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]zoneResponse, len(zones))
	for i, z := range zones {
		resp[i] = toZoneResponse(z)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *ZoneHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid zone id"})
		return
	}

	zone, err := h.store.GetZone(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "zone not found"})
			return
		}
		log.Printf("ERROR: get zone: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toZoneResponse(zone))
}

func (h *ZoneHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createZoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Neighborhood == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "neighborhood is required"})
		return
	}
	fee, err := parseMoney(req.DeliveryFee)
	if err != nil || fee.IsNegative() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "delivery_fee must be a non-negative amount"})
		return
	}

	zone, err := h.store.CreateZone(r.Context(), database.CreateZoneParams{
		Neighborhood: req.Neighborhood,
		DeliveryFee:  decimalToNumeric(fee),
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "zone already exists with this neighborhood"})
			return
		}
		log.Printf("ERROR: create zone: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toZoneResponse(zone))
}

func (h *ZoneHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid zone id"})
		return
	}

	var req updateZoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Neighborhood != nil && *req.Neighborhood == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "neighborhood cannot be empty"})
		return
	}
	var fee pgtype.Numeric
	if req.DeliveryFee != nil {
		parsed, err := parseMoney(*req.DeliveryFee)
		if err != nil || parsed.IsNegative() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "delivery_fee must be a non-negative amount"})
			return
		}
		fee = decimalToNumeric(parsed)
	}

	zone, err := h.store.UpdateZone(r.Context(), database.UpdateZoneParams{
		ID:           id,
		Neighborhood: ptrToText(req.Neighborhood),
		DeliveryFee:  fee,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "zone not found"})
			return
		}
		log.Printf("ERROR: update zone: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toZoneResponse(zone))
}

func (h *ZoneHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid zone id"})
		return
	}

	zone, err := h.store.DeleteZone(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "zone not found"})
			return
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "zone is referenced by customers or orders"})
			return
		}
		log.Printf("ERROR: delete zone: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toZoneResponse(zone))
}

// --- Helpers ---

func parseIDParam(r *http.Request) (int32, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(id), nil
}

func parseMoney(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Decimal{}, errors.New("empty amount")
	}
	return decimal.NewFromString(s)
}

// numericToString renders a NUMERIC column as a fixed two-decimal string.
func numericToString(n pgtype.Numeric) string {
	if !n.Valid {
		return "0.00"
	}
	d := decimal.NewFromBigInt(n.Int, n.Exp)
	return d.StringFixed(2)
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}
