package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/roma-kitchen/api/internal/config"
	"github.com/roma-kitchen/api/internal/database"
	"github.com/roma-kitchen/api/internal/enum"
	"github.com/roma-kitchen/api/internal/handler"
	mw "github.com/roma-kitchen/api/internal/middleware"
	"github.com/roma-kitchen/api/internal/service"
	"github.com/roma-kitchen/api/internal/ws"
)

// New creates a Chi router with all application routes wired up.
// Config variable mutations sit behind the admin token middleware;
// everything else is open to the desk clients on the local network.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:3000", // Next.js dev server
			"http://localhost:5173", // Vite dev server
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	// Secret check (public, issues tokens)
	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// WebSocket order feed (handles auth internally via query param)
	r.Get("/ws/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	// Zones
	zoneHandler := handler.NewZoneHandler(queries)
	r.Route("/zones", zoneHandler.RegisterRoutes)

	// Catalog items
	itemHandler := handler.NewItemHandler(queries)
	r.Route("/items", itemHandler.RegisterRoutes)

	// Customers
	customerHandler := handler.NewCustomerHandler(queries)
	r.Route("/customers", customerHandler.RegisterRoutes)

	// Orders
	newOrderStore := func(db database.DBTX) service.OrderStore {
		return database.New(db)
	}
	orderService := service.NewOrderService(pool, queries, newOrderStore)
	orderHandler := handler.NewOrderHandler(orderService, queries, hub)
	r.Route("/orders", orderHandler.RegisterRoutes)

	// Config variables: reads are open, writes need an admin token
	variableHandler := handler.NewVariableHandler(queries)
	r.Route("/variables", func(r chi.Router) {
		variableHandler.RegisterReadRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(mw.Authenticate(cfg.JWTSecret))
			r.Use(mw.RequireCategory(enum.SecretCategoryAdmin))
			variableHandler.RegisterWriteRoutes(r)
		})
	})

	return r
}
