package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/roma-kitchen/api/internal/database"
	"github.com/roma-kitchen/api/internal/handler"
)

// --- Mock store ---

type mockItemStore struct {
	items   map[string]database.CatalogItem
	ordered map[string]bool // codes referenced by order lines
}

func newMockItemStore() *mockItemStore {
	return &mockItemStore{
		items:   make(map[string]database.CatalogItem),
		ordered: make(map[string]bool),
	}
}

func (m *mockItemStore) GetCatalogItem(_ context.Context, code string) (database.CatalogItem, error) {
	i, ok := m.items[code]
	if !ok {
		return database.CatalogItem{}, pgx.ErrNoRows
	}
	return i, nil
}

func (m *mockItemStore) ListCatalogItems(_ context.Context) ([]database.CatalogItem, error) {
	var result []database.CatalogItem
	for _, i := range m.items {
		result = append(result, i)
	}
	return result, nil
}

func (m *mockItemStore) CreateCatalogItem(_ context.Context, arg database.CreateCatalogItemParams) (database.CatalogItem, error) {
	if _, exists := m.items[arg.Code]; exists {
		return database.CatalogItem{}, &pgconn.PgError{Code: "23505"}
	}
	i := database.CatalogItem{Code: arg.Code, Name: arg.Name, Price: arg.Price}
	m.items[i.Code] = i
	return i, nil
}

func (m *mockItemStore) UpdateCatalogItem(_ context.Context, arg database.UpdateCatalogItemParams) (database.CatalogItem, error) {
	i, ok := m.items[arg.Code]
	if !ok {
		return database.CatalogItem{}, pgx.ErrNoRows
	}
	if arg.Name.Valid {
		i.Name = arg.Name.String
	}
	if arg.Price.Valid {
		i.Price = arg.Price
	}
	m.items[i.Code] = i
	return i, nil
}

func (m *mockItemStore) DeleteCatalogItem(_ context.Context, code string) (database.CatalogItem, error) {
	i, ok := m.items[code]
	if !ok {
		return database.CatalogItem{}, pgx.ErrNoRows
	}
	if m.ordered[code] {
		return database.CatalogItem{}, &pgconn.PgError{Code: "23503", ConstraintName: "order_lines_item_code_fkey"}
	}
	delete(m.items, code)
	return i, nil
}

func setupItemRouter(store *mockItemStore) *chi.Mux {
	h := handler.NewItemHandler(store)
	r := chi.NewRouter()
	r.Route("/items", h.RegisterRoutes)
	return r
}

// --- Tests ---

func TestItemCreate_HappyPath(t *testing.T) {
	store := newMockItemStore()
	router := setupItemRouter(store)

	rr := doRequest(t, router, "POST", "/items", map[string]interface{}{
		"code":  "MARMITA-M",
		"name":  "Marmita Media",
		"price": "22.00",
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	resp := decodeObj(t, rr)
	if resp["code"] != "MARMITA-M" {
		t.Errorf("code: got %v, want MARMITA-M", resp["code"])
	}
	if resp["price"] != "22.00" {
		t.Errorf("price: got %v, want 22.00", resp["price"])
	}
}

func TestItemCreate_NonPositivePrice(t *testing.T) {
	store := newMockItemStore()
	router := setupItemRouter(store)

	for _, price := range []string{"0.00", "-5.00", "abc", ""} {
		rr := doRequest(t, router, "POST", "/items", map[string]interface{}{
			"code":  "MARMITA-M",
			"name":  "Marmita Media",
			"price": price,
		})
		if rr.Code != http.StatusBadRequest {
			t.Errorf("price %q: status %d, want %d", price, rr.Code, http.StatusBadRequest)
		}
	}
}

func TestItemCreate_MissingCode(t *testing.T) {
	store := newMockItemStore()
	router := setupItemRouter(store)

	rr := doRequest(t, router, "POST", "/items", map[string]interface{}{
		"name":  "Marmita Media",
		"price": "22.00",
	})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusBadRequest, rr.Body.String())
	}
}

func TestItemCreate_DuplicateCode(t *testing.T) {
	store := newMockItemStore()
	router := setupItemRouter(store)

	body := map[string]interface{}{"code": "MARMITA-M", "name": "Marmita Media", "price": "22.00"}
	doRequest(t, router, "POST", "/items", body)
	rr := doRequest(t, router, "POST", "/items", body)

	if rr.Code != http.StatusConflict {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusConflict, rr.Body.String())
	}
}

func TestItemGet_NotFound(t *testing.T) {
	store := newMockItemStore()
	router := setupItemRouter(store)

	rr := doRequest(t, router, "GET", "/items/NOPE", nil)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusNotFound, rr.Body.String())
	}
}

func TestItemUpdate_PriceOnly(t *testing.T) {
	store := newMockItemStore()
	store.items["MARMITA-M"] = database.CatalogItem{Code: "MARMITA-M", Name: "Marmita Media", Price: testNumeric(t, "22.00")}
	router := setupItemRouter(store)

	rr := doRequest(t, router, "PUT", "/items/MARMITA-M", map[string]interface{}{
		"price": "24.00",
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	resp := decodeObj(t, rr)
	if resp["price"] != "24.00" {
		t.Errorf("price: got %v, want 24.00", resp["price"])
	}
	if resp["name"] != "Marmita Media" {
		t.Errorf("name changed: got %v, want Marmita Media", resp["name"])
	}
}

func TestItemDelete_Referenced(t *testing.T) {
	store := newMockItemStore()
	store.items["MARMITA-M"] = database.CatalogItem{Code: "MARMITA-M", Name: "Marmita Media", Price: testNumeric(t, "22.00")}
	store.ordered["MARMITA-M"] = true
	router := setupItemRouter(store)

	rr := doRequest(t, router, "DELETE", "/items/MARMITA-M", nil)

	if rr.Code != http.StatusConflict {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusConflict, rr.Body.String())
	}
}

func TestItemList(t *testing.T) {
	store := newMockItemStore()
	store.items["MARMITA-M"] = database.CatalogItem{Code: "MARMITA-M", Name: "Marmita Media", Price: testNumeric(t, "22.00")}
	store.items["REFRI-LATA"] = database.CatalogItem{Code: "REFRI-LATA", Name: "Refrigerante Lata", Price: testNumeric(t, "6.00")}
	router := setupItemRouter(store)

	rr := doRequest(t, router, "GET", "/items", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	resp := decodeList(t, rr)
	if len(resp) != 2 {
		t.Fatalf("items: got %d, want 2", len(resp))
	}
}
