package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/roma-kitchen/api/internal/database"
	"github.com/roma-kitchen/api/internal/enum"
)

// Errors returned by the order service.
var (
	ErrPhoneRequired    = errors.New("customer_phone is required")
	ErrZoneRequired     = errors.New("zone_id is required")
	ErrShiftRequired    = errors.New("shift is required")
	ErrAddressRequired  = errors.New("delivery_address is required")
	ErrEmptyLines       = errors.New("lines are required")
	ErrInvalidShift     = errors.New("invalid shift")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidPayment   = errors.New("invalid payment_method")
	ErrInvalidQuantity  = errors.New("quantity must be >= 1")
	ErrDuplicateLine    = errors.New("duplicate item code in lines")
	ErrOrderNotFound    = errors.New("order not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrZoneNotFound     = errors.New("zone not found")
	ErrItemNotFound     = errors.New("catalog item not found")
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods needed by the order workflows.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	GetCustomer(ctx context.Context, phone string) (database.Customer, error)
	GetZone(ctx context.Context, id int32) (database.Zone, error)
	GetOrder(ctx context.Context, id int32) (database.Order, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	CreateOrderLine(ctx context.Context, arg database.CreateOrderLineParams) (database.OrderLine, error)
	UpdateOrder(ctx context.Context, arg database.UpdateOrderParams) (database.Order, error)
	DeleteOrderLines(ctx context.Context, orderID int32) error
	DeleteOrder(ctx context.Context, id int32) (database.Order, error)
	ListOrderLines(ctx context.Context, orderID int32) ([]database.ListOrderLinesRow, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
// This allows the service to create store instances from transactions.
type NewOrderStore func(db database.DBTX) OrderStore

// LineRequest is one submitted order line.
type LineRequest struct {
	ItemCode string
	Quantity int32
	Notes    string
}

// CreateOrderRequest is the validated input for submitting an order.
type CreateOrderRequest struct {
	CustomerPhone   string
	DeliveryAddress string
	ZoneID          int32
	Shift           string
	PaymentMethod   string
	Status          string    // defaults to PENDING
	PlacedAt        time.Time // zero means now
	Notes           string
	Lines           []LineRequest
}

// UpdateOrderRequest carries partial scalar updates and an optional full
// line replacement. Nil fields are left unchanged.
type UpdateOrderRequest struct {
	ID              int32
	Status          *string
	Shift           *string
	PaymentMethod   *string
	DeliveryAddress *string
	Notes           *string
	ZoneID          *int32
	PlacedAt        *time.Time
	Lines           []LineRequest // non-empty replaces all existing lines
}

// OrderDetail is an order with its lines and related customer and zone
// eagerly attached.
type OrderDetail struct {
	Order    database.Order
	Lines    []database.ListOrderLinesRow
	Customer database.Customer
	Zone     database.Zone
}

// OrderService handles the transactional order workflows. Reads that need
// no transaction go through the base store.
type OrderService struct {
	pool     TxBeginner
	store    OrderStore
	newStore NewOrderStore
}

// NewOrderService creates a new OrderService.
func NewOrderService(pool TxBeginner, store OrderStore, newStore NewOrderStore) *OrderService {
	return &OrderService{pool: pool, store: store, newStore: newStore}
}

// CreateOrder validates the submission and inserts the order row plus one
// line per submitted item in a single transaction. The server computes no
// prices: line items are persisted exactly as submitted.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderDetail, error) {
	if req.CustomerPhone == "" {
		return nil, ErrPhoneRequired
	}
	if req.ZoneID == 0 {
		return nil, ErrZoneRequired
	}
	if req.Shift == "" {
		return nil, ErrShiftRequired
	}
	if req.DeliveryAddress == "" {
		return nil, ErrAddressRequired
	}
	if !isValidShift(req.Shift) {
		return nil, ErrInvalidShift
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = enum.PaymentMethodCash
	}
	if !isValidPaymentMethod(req.PaymentMethod) {
		return nil, ErrInvalidPayment
	}
	if req.Status == "" {
		req.Status = enum.OrderStatusPending
	}
	if !isValidStatus(req.Status) {
		return nil, ErrInvalidStatus
	}
	if err := validateLines(req.Lines); err != nil {
		return nil, err
	}

	placedAt := req.PlacedAt
	if placedAt.IsZero() {
		placedAt = time.Now()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.CreateOrder(ctx, database.CreateOrderParams{
		Status:          req.Status,
		CustomerPhone:   req.CustomerPhone,
		PlacedAt:        placedAt,
		ZoneID:          req.ZoneID,
		Notes:           textOrNull(req.Notes),
		Shift:           req.Shift,
		PaymentMethod:   req.PaymentMethod,
		DeliveryAddress: req.DeliveryAddress,
	})
	if err != nil {
		return nil, mapConstraintError(err, "create order")
	}

	for i, line := range req.Lines {
		_, err := store.CreateOrderLine(ctx, database.CreateOrderLineParams{
			OrderID:  order.ID,
			ItemCode: line.ItemCode,
			Quantity: line.Quantity,
			Notes:    textOrNull(line.Notes),
		})
		if err != nil {
			return nil, mapConstraintError(err, fmt.Sprintf("create line[%d]", i))
		}
	}

	// Read back inside the transaction so the response carries item detail.
	lines, err := store.ListOrderLines(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("list lines: %w", err)
	}

	customer, zone, err := fetchRelated(ctx, store, order)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &OrderDetail{Order: order, Lines: lines, Customer: customer, Zone: zone}, nil
}

// UpdateOrder applies the scalar updates and, when a non-empty line list is
// supplied, replaces all existing lines with it (delete-then-insert). All of
// it happens in one transaction; any failure leaves the order untouched.
func (s *OrderService) UpdateOrder(ctx context.Context, req UpdateOrderRequest) (*OrderDetail, error) {
	if req.Status != nil && !isValidStatus(*req.Status) {
		return nil, ErrInvalidStatus
	}
	if req.Shift != nil && !isValidShift(*req.Shift) {
		return nil, ErrInvalidShift
	}
	if req.PaymentMethod != nil && !isValidPaymentMethod(*req.PaymentMethod) {
		return nil, ErrInvalidPayment
	}
	if len(req.Lines) > 0 {
		if err := validateLines(req.Lines); err != nil {
			return nil, err
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.UpdateOrder(ctx, database.UpdateOrderParams{
		ID:              req.ID,
		Status:          ptrToText(req.Status),
		PlacedAt:        ptrToTimestamptz(req.PlacedAt),
		ZoneID:          ptrToInt4(req.ZoneID),
		Notes:           ptrToText(req.Notes),
		Shift:           ptrToText(req.Shift),
		PaymentMethod:   ptrToText(req.PaymentMethod),
		DeliveryAddress: ptrToText(req.DeliveryAddress),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, mapConstraintError(err, "update order")
	}

	if len(req.Lines) > 0 {
		if err := store.DeleteOrderLines(ctx, order.ID); err != nil {
			return nil, fmt.Errorf("delete lines: %w", err)
		}
		for i, line := range req.Lines {
			_, err := store.CreateOrderLine(ctx, database.CreateOrderLineParams{
				OrderID:  order.ID,
				ItemCode: line.ItemCode,
				Quantity: line.Quantity,
				Notes:    textOrNull(line.Notes),
			})
			if err != nil {
				return nil, mapConstraintError(err, fmt.Sprintf("create line[%d]", i))
			}
		}
	}

	lines, err := store.ListOrderLines(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("list lines: %w", err)
	}

	customer, zone, err := fetchRelated(ctx, store, order)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &OrderDetail{Order: order, Lines: lines, Customer: customer, Zone: zone}, nil
}

// DeleteOrder removes the order and all its lines in one transaction and
// returns the pre-deletion snapshot for confirmation display.
func (s *OrderService) DeleteOrder(ctx context.Context, id int32) (*OrderDetail, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	// Snapshot before deleting: lines are gone once the delete runs.
	order, err := store.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	lines, err := store.ListOrderLines(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list lines: %w", err)
	}

	customer, zone, err := fetchRelated(ctx, store, order)
	if err != nil {
		return nil, err
	}

	if err := store.DeleteOrderLines(ctx, id); err != nil {
		return nil, fmt.Errorf("delete lines: %w", err)
	}
	if _, err := store.DeleteOrder(ctx, id); err != nil {
		return nil, fmt.Errorf("delete order: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &OrderDetail{Order: order, Lines: lines, Customer: customer, Zone: zone}, nil
}

// GetOrder loads an order with lines, customer and zone eagerly attached.
func (s *OrderService) GetOrder(ctx context.Context, id int32) (*OrderDetail, error) {
	store := s.store
	order, err := store.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	lines, err := store.ListOrderLines(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list lines: %w", err)
	}

	customer, zone, err := fetchRelated(ctx, store, order)
	if err != nil {
		return nil, err
	}

	return &OrderDetail{Order: order, Lines: lines, Customer: customer, Zone: zone}, nil
}

// --- Helpers ---

func validateLines(lines []LineRequest) error {
	if len(lines) == 0 {
		return ErrEmptyLines
	}
	seen := make(map[string]bool, len(lines))
	for i, l := range lines {
		if l.ItemCode == "" {
			return fmt.Errorf("lines[%d]: %w", i, ErrItemNotFound)
		}
		if l.Quantity < 1 {
			return fmt.Errorf("lines[%d]: %w", i, ErrInvalidQuantity)
		}
		if seen[l.ItemCode] {
			return fmt.Errorf("lines[%d]: %w", i, ErrDuplicateLine)
		}
		seen[l.ItemCode] = true
	}
	return nil
}

func fetchRelated(ctx context.Context, store OrderStore, order database.Order) (database.Customer, database.Zone, error) {
	customer, err := store.GetCustomer(ctx, order.CustomerPhone)
	if err != nil {
		return database.Customer{}, database.Zone{}, fmt.Errorf("get customer: %w", err)
	}
	zone, err := store.GetZone(ctx, order.ZoneID)
	if err != nil {
		return database.Customer{}, database.Zone{}, fmt.Errorf("get zone: %w", err)
	}
	return customer, zone, nil
}

// mapConstraintError turns foreign-key and composite-key violations into
// domain errors callers can match on.
func mapConstraintError(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503": // foreign_key_violation
			switch pgErr.ConstraintName {
			case "orders_customer_phone_fkey":
				return ErrCustomerNotFound
			case "orders_zone_id_fkey", "customers_zone_id_fkey":
				return ErrZoneNotFound
			case "order_lines_item_code_fkey":
				return ErrItemNotFound
			}
		case "23505": // unique_violation on (order_id, item_code)
			if pgErr.ConstraintName == "order_lines_pkey" {
				return ErrDuplicateLine
			}
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isValidShift(s string) bool {
	switch s {
	case enum.ShiftLunch, enum.ShiftDinner:
		return true
	}
	return false
}

func isValidStatus(s string) bool {
	switch s {
	case enum.OrderStatusPending, enum.OrderStatusDelivered, enum.OrderStatusCancelled:
		return true
	}
	return false
}

func isValidPaymentMethod(s string) bool {
	switch s {
	case enum.PaymentMethodCash, enum.PaymentMethodCard, enum.PaymentMethodPix:
		return true
	}
	return false
}

func textOrNull(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
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

func ptrToTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}
