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
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/roma-kitchen/api/internal/cart"
	"github.com/roma-kitchen/api/internal/database"
	"github.com/roma-kitchen/api/internal/service"
	"github.com/roma-kitchen/api/internal/ws"
	"github.com/shopspring/decimal"
)

// OrderServicer is the transactional order workflow surface consumed by the
// handlers. Satisfied by *service.OrderService.
type OrderServicer interface {
	CreateOrder(ctx context.Context, req service.CreateOrderRequest) (*service.OrderDetail, error)
	UpdateOrder(ctx context.Context, req service.UpdateOrderRequest) (*service.OrderDetail, error)
	DeleteOrder(ctx context.Context, id int32) (*service.OrderDetail, error)
	GetOrder(ctx context.Context, id int32) (*service.OrderDetail, error)
}

// OrderListStore covers the non-transactional reads used by listing and
// quoting. Satisfied by *database.Queries.
type OrderListStore interface {
	ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error)
	GetCatalogItem(ctx context.Context, code string) (database.CatalogItem, error)
	GetZone(ctx context.Context, id int32) (database.Zone, error)
}

// OrderEvents receives order change events for fan-out to connected clients.
type OrderEvents interface {
	Broadcast(event ws.Event)
}

// OrderHandler handles order endpoints.
type OrderHandler struct {
	svc    OrderServicer
	store  OrderListStore
	events OrderEvents
}

// NewOrderHandler creates a new OrderHandler. events may be nil when no
// feed is attached.
func NewOrderHandler(svc OrderServicer, store OrderListStore, events OrderEvents) *OrderHandler {
	return &OrderHandler{svc: svc, store: store, events: events}
}

// RegisterRoutes registers order endpoints on the given Chi router.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Post("/quote", h.Quote)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
	})
}

// --- Request / Response types ---

type orderLineRequest struct {
	ItemCode string `json:"item_code"`
	Quantity int32  `json:"quantity"`
	Notes    string `json:"notes"`
}

type createOrderRequest struct {
	CustomerPhone   string             `json:"customer_phone"`
	DeliveryAddress string             `json:"delivery_address"`
	ZoneID          int32              `json:"zone_id"`
	Shift           string             `json:"shift"`
	PaymentMethod   string             `json:"payment_method"`
	Status          string             `json:"status"`
	PlacedAt        *time.Time         `json:"placed_at"`
	Notes           string             `json:"notes"`
	Lines           []orderLineRequest `json:"lines"`
}

type updateOrderRequest struct {
	Status          *string            `json:"status"`
	Shift           *string            `json:"shift"`
	PaymentMethod   *string            `json:"payment_method"`
	DeliveryAddress *string            `json:"delivery_address"`
	Notes           *string            `json:"notes"`
	ZoneID          *int32             `json:"zone_id"`
	PlacedAt        *time.Time         `json:"placed_at"`
	Lines           []orderLineRequest `json:"lines"`
}

type orderResponse struct {
	ID              int32     `json:"id"`
	Status          string    `json:"status"`
	CustomerPhone   string    `json:"customer_phone"`
	PlacedAt        time.Time `json:"placed_at"`
	ZoneID          int32     `json:"zone_id"`
	Notes           *string   `json:"notes"`
	Shift           string    `json:"shift"`
	PaymentMethod   string    `json:"payment_method"`
	DeliveryAddress string    `json:"delivery_address"`
}

type orderLineResponse struct {
	ItemCode  string  `json:"item_code"`
	ItemName  string  `json:"item_name"`
	ItemPrice string  `json:"item_price"`
	Quantity  int32   `json:"quantity"`
	Notes     *string `json:"notes"`
	LineTotal string  `json:"line_total"`
}

type orderDetailResponse struct {
	orderResponse
	Customer    customerResponse    `json:"customer"`
	Zone        zoneResponse        `json:"zone"`
	Lines       []orderLineResponse `json:"lines"`
	Subtotal    string              `json:"subtotal"`
	DeliveryFee string              `json:"delivery_fee"`
	Total       string              `json:"total"`
}

func toOrderResponse(o database.Order) orderResponse {
	resp := orderResponse{
		ID:              o.ID,
		Status:          o.Status,
		CustomerPhone:   o.CustomerPhone,
		PlacedAt:        o.PlacedAt,
		ZoneID:          o.ZoneID,
		Shift:           o.Shift,
		PaymentMethod:   o.PaymentMethod,
		DeliveryAddress: o.DeliveryAddress,
	}
	if o.Notes.Valid {
		resp.Notes = &o.Notes.String
	}
	return resp
}

// toOrderDetailResponse assembles the full order view. Totals are computed
// from the joined line prices and the zone's delivery fee, never stored.
func toOrderDetailResponse(d *service.OrderDetail) orderDetailResponse {
	c := cart.Cart{}.SelectZone(numericToDecimal(d.Zone.DeliveryFee))

	lines := make([]orderLineResponse, len(d.Lines))
	for i, l := range d.Lines {
		price := numericToDecimal(l.ItemPrice)
		lines[i] = orderLineResponse{
			ItemCode:  l.ItemCode,
			ItemName:  l.ItemName,
			ItemPrice: price.StringFixed(2),
			Quantity:  l.Quantity,
			LineTotal: price.Mul(decimal.NewFromInt32(l.Quantity)).StringFixed(2),
		}
		if l.Notes.Valid {
			lines[i].Notes = &l.Notes.String
		}
		c.Lines = append(c.Lines, cart.Line{
			Code:     l.ItemCode,
			Name:     l.ItemName,
			Price:    price,
			Quantity: l.Quantity,
		})
	}

	return orderDetailResponse{
		orderResponse: toOrderResponse(d.Order),
		Customer:      toCustomerResponse(d.Customer),
		Zone:          toZoneResponse(d.Zone),
		Lines:         lines,
		Subtotal:      c.Subtotal().StringFixed(2),
		DeliveryFee:   c.DeliveryFee.StringFixed(2),
		Total:         c.Total().StringFixed(2),
	}
}

// --- Handlers ---

// List returns orders matching the optional query filters:
// customer (name substring), status, shift, month (YYYY-MM) and
// order (newest|oldest, default newest).
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := database.ListOrdersParams{
		CustomerName: queryText(q.Get("customer")),
		Status:       queryText(q.Get("status")),
		Shift:        queryText(q.Get("shift")),
		OldestFirst:  q.Get("order") == "oldest",
	}

	if month := q.Get("month"); month != "" {
		from, err := time.Parse("2006-01", month)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "month must be in YYYY-MM format"})
			return
		}
		until := from.AddDate(0, 1, 0).Add(-time.Nanosecond)
		params.PlacedFrom = pgtype.Timestamptz{Time: from, Valid: true}
		params.PlacedUntil = pgtype.Timestamptz{Time: until, Valid: true}
	}

	orders, err := h.store.ListOrders(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: list orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order id"})
		return
	}

	detail, err := h.svc.GetOrder(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, "get order", err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderDetailResponse(detail))
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	svcReq := service.CreateOrderRequest{
		CustomerPhone:   req.CustomerPhone,
		DeliveryAddress: req.DeliveryAddress,
		ZoneID:          req.ZoneID,
		Shift:           req.Shift,
		PaymentMethod:   req.PaymentMethod,
		Status:          req.Status,
		Notes:           req.Notes,
		Lines:           toLineRequests(req.Lines),
	}
	if req.PlacedAt != nil {
		svcReq.PlacedAt = *req.PlacedAt
	}

	detail, err := h.svc.CreateOrder(r.Context(), svcReq)
	if err != nil {
		h.writeServiceError(w, "create order", err)
		return
	}

	resp := toOrderDetailResponse(detail)
	h.broadcast("order.created", resp)
	writeJSON(w, http.StatusCreated, resp)
}

func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order id"})
		return
	}

	var req updateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	detail, err := h.svc.UpdateOrder(r.Context(), service.UpdateOrderRequest{
		ID:              id,
		Status:          req.Status,
		Shift:           req.Shift,
		PaymentMethod:   req.PaymentMethod,
		DeliveryAddress: req.DeliveryAddress,
		Notes:           req.Notes,
		ZoneID:          req.ZoneID,
		PlacedAt:        req.PlacedAt,
		Lines:           toLineRequests(req.Lines),
	})
	if err != nil {
		h.writeServiceError(w, "update order", err)
		return
	}

	resp := toOrderDetailResponse(detail)
	h.broadcast("order.updated", resp)
	writeJSON(w, http.StatusOK, resp)
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order id"})
		return
	}

	detail, err := h.svc.DeleteOrder(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, "delete order", err)
		return
	}

	resp := toOrderDetailResponse(detail)
	h.broadcast("order.deleted", resp)
	writeJSON(w, http.StatusOK, resp)
}

// --- Quote ---

type quoteRequest struct {
	ZoneID int32              `json:"zone_id"`
	Lines  []orderLineRequest `json:"lines"`
}

type quoteResponse struct {
	Lines       []orderLineResponse `json:"lines"`
	Subtotal    string              `json:"subtotal"`
	DeliveryFee string              `json:"delivery_fee"`
	Total       string              `json:"total"`
}

// Quote prices a selection without persisting anything. Repeated item codes
// merge into one line; quantities out of range fall back to one, the same
// way line edits behave.
func (h *OrderHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if len(req.Lines) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "lines are required"})
		return
	}

	var c cart.Cart
	for _, line := range req.Lines {
		item, err := h.store.GetCatalogItem(r.Context(), line.ItemCode)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "catalog item not found: " + line.ItemCode})
				return
			}
			log.Printf("ERROR: quote: get item: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		c = c.Add(cart.Item{Code: item.Code, Name: item.Name, Price: numericToDecimal(item.Price)})
		if line.Quantity != 0 || line.Notes != "" {
			upd := cart.Update{}
			if line.Quantity != 0 {
				qty := line.Quantity
				upd.Quantity = &qty
			}
			if line.Notes != "" {
				notes := line.Notes
				upd.Notes = &notes
			}
			c = c.SetUpdate(item.Code, upd)
		}
	}

	if req.ZoneID != 0 {
		zone, err := h.store.GetZone(r.Context(), req.ZoneID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "zone not found"})
				return
			}
			log.Printf("ERROR: quote: get zone: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		c = c.SelectZone(numericToDecimal(zone.DeliveryFee))
	}

	lines := make([]orderLineResponse, len(c.Lines))
	for i, l := range c.Lines {
		lines[i] = orderLineResponse{
			ItemCode:  l.Code,
			ItemName:  l.Name,
			ItemPrice: l.Price.StringFixed(2),
			Quantity:  l.Quantity,
			LineTotal: l.Price.Mul(decimal.NewFromInt32(l.Quantity)).StringFixed(2),
		}
		if l.Notes != "" {
			notes := l.Notes
			lines[i].Notes = &notes
		}
	}

	writeJSON(w, http.StatusOK, quoteResponse{
		Lines:       lines,
		Subtotal:    c.Subtotal().StringFixed(2),
		DeliveryFee: c.DeliveryFee.StringFixed(2),
		Total:       c.Total().StringFixed(2),
	})
}

// --- Helpers ---

func toLineRequests(lines []orderLineRequest) []service.LineRequest {
	if len(lines) == 0 {
		return nil
	}
	out := make([]service.LineRequest, len(lines))
	for i, l := range lines {
		out[i] = service.LineRequest{ItemCode: l.ItemCode, Quantity: l.Quantity, Notes: l.Notes}
	}
	return out
}

func (h *OrderHandler) broadcast(eventType string, payload any) {
	if h.events == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ERROR: marshal %s event: %v", eventType, err)
		return
	}
	h.events.Broadcast(ws.Event{Type: eventType, Payload: data})
}

// writeServiceError maps order service errors onto HTTP statuses.
func (h *OrderHandler) writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrCustomerNotFound),
		errors.Is(err, service.ErrZoneNotFound),
		errors.Is(err, service.ErrItemNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case isOrderValidationError(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		log.Printf("ERROR: %s: %v", op, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func isOrderValidationError(err error) bool {
	for _, target := range []error{
		service.ErrPhoneRequired,
		service.ErrZoneRequired,
		service.ErrShiftRequired,
		service.ErrAddressRequired,
		service.ErrEmptyLines,
		service.ErrInvalidShift,
		service.ErrInvalidStatus,
		service.ErrInvalidPayment,
		service.ErrInvalidQuantity,
		service.ErrDuplicateLine,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func queryText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}
