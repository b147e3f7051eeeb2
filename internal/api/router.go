package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mcoot/mcregbot/internal/api/handler"
	"github.com/mcoot/mcregbot/internal/api/middleware"
	"github.com/mcoot/mcregbot/internal/api/response"
	"github.com/mcoot/mcregbot/internal/services/registration"
	"github.com/mcoot/mcregbot/internal/services/rotation"
	"github.com/mcoot/mcregbot/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger              *slog.Logger
	Token               string
	RequestTimeout      time.Duration
	RegistrationService *registration.Service
	RotationService     *rotation.Service
	Storage             storage.Storage
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	bindingHandler := handler.NewBindingHandler(cfg.RegistrationService, cfg.RotationService, cfg.Storage)

	requestTimeout := cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Binding routes (all require auth)
	bindings := api.PathPrefix("/bindings").Subrouter()
	bindings.Use(middleware.Auth(cfg.Token))
	bindings.Use(middleware.Timeout(requestTimeout))
	bindings.HandleFunc("", bindingHandler.Register).Methods(http.MethodPost)
	bindings.HandleFunc("/{identity}", bindingHandler.Get).Methods(http.MethodGet)
	bindings.HandleFunc("/{identity}/rotate", bindingHandler.Rotate).Methods(http.MethodPost)

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
