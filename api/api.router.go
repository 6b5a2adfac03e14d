package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/itsatony/w4b_warehouse/server/hub/api/middleware"
	"github.com/itsatony/w4b_warehouse/server/hub/api/resources"
	_ "github.com/itsatony/w4b_warehouse/server/hub/docs"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/config"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/models"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/warehouse"
	"github.com/swaggo/swag"
	nuts "github.com/vaudience/go-nuts"
)

type Router struct {
	router    *mux.Router
	auth      *middleware.AuthMiddleware
	resources *resources.Resources
}

func NewRouter(svc *warehouse.Service, cfg *config.Config) *Router {
	r := &Router{
		router:    mux.NewRouter(),
		auth:      middleware.NewAuthMiddleware(svc.Auth),
		resources: resources.NewResources(svc, cfg),
	}

	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	api := r.router.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/health", r.resources.System.HealthCheck).Methods(http.MethodGet)
	api.HandleFunc("/metrics", r.resources.System.Metrics).Methods(http.MethodGet)
	api.HandleFunc("/docs/doc.json", serveDoc).Methods(http.MethodGet)
	api.HandleFunc("/auth/login", r.resources.Auth.Login).Methods(http.MethodPost)

	// Robots and the dashboard screen do not carry user tokens
	api.HandleFunc("/robots/data", r.resources.Robots.ReceiveData).Methods(http.MethodPost)
	api.HandleFunc("/ws/dashboard", r.resources.Live.Dashboard).Methods(http.MethodGet)
	api.HandleFunc("/dashboard/current", r.resources.Dashboard.Current).Methods(http.MethodGet)

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(r.auth.Authenticate)

	protected.HandleFunc("/auth/me", r.resources.Auth.Me).Methods(http.MethodGet)

	// Inventory
	inventory := protected.PathPrefix("/inventory").Subrouter()
	inventory.HandleFunc("/history", r.resources.Inventory.History).Methods(http.MethodGet)
	inventory.HandleFunc("/export", r.resources.Inventory.Export).Methods(http.MethodGet)
	inventory.Handle("/import",
		r.auth.RequireRoles(models.RoleAdmin, models.RoleOperator)(http.HandlerFunc(r.resources.Inventory.Import)),
	).Methods(http.MethodPost)

	// Products
	products := protected.PathPrefix("/products").Subrouter()
	products.HandleFunc("", r.resources.Products.ListProducts).Methods(http.MethodGet)
	products.HandleFunc("/{id}", r.resources.Products.GetProduct).Methods(http.MethodGet)
}

func serveDoc(w http.ResponseWriter, _ *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		nuts.L.Errorf("[API] failed to render api docs: %v", err)
		http.Error(w, "api docs unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(doc))
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
