package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/mcregbot/internal/api/request"
	"github.com/mcoot/mcregbot/internal/api/response"
	"github.com/mcoot/mcregbot/internal/model"
	"github.com/mcoot/mcregbot/internal/services/registration"
	"github.com/mcoot/mcregbot/internal/services/rotation"
	"github.com/mcoot/mcregbot/internal/storage"
)

// BindingHandler handles binding endpoints
type BindingHandler struct {
	registration *registration.Service
	rotation     *rotation.Service
	storage      storage.Storage
}

// NewBindingHandler creates a new binding handler
func NewBindingHandler(registration *registration.Service, rotation *rotation.Service, storage storage.Storage) *BindingHandler {
	return &BindingHandler{
		registration: registration,
		rotation:     rotation,
		storage:      storage,
	}
}

// Register handles POST /api/v1/bindings
func (h *BindingHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	identity := strings.TrimSpace(req.Identity)
	if identity == "" {
		WriteError(w, NewInvalidRequestError("identity is required"))
		return
	}
	if req.PlayerName == "" {
		WriteError(w, NewInvalidRequestError("player_name is required"))
		return
	}

	binding, err := h.registration.Register(r.Context(), model.Identity(identity), req.PlayerName)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.BindingFromModel(binding, h.rotation.Cooldown()))
}

// Get handles GET /api/v1/bindings/{identity}
func (h *BindingHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity := model.Identity(mux.Vars(r)["identity"])

	binding, err := h.storage.GetBinding(r.Context(), identity)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.BindingFromModel(binding, h.rotation.Cooldown()))
}

// Rotate handles POST /api/v1/bindings/{identity}/rotate
func (h *BindingHandler) Rotate(w http.ResponseWriter, r *http.Request) {
	identity := model.Identity(mux.Vars(r)["identity"])

	var req request.RotateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerName == "" {
		WriteError(w, NewInvalidRequestError("player_name is required"))
		return
	}

	binding, err := h.rotation.Rotate(r.Context(), identity, req.PlayerName)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.BindingFromModel(binding, h.rotation.Cooldown()))
}
