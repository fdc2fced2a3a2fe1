package userhandler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ZainabRupawala2805/employee-management-system/internal/domain/auth"
	"github.com/ZainabRupawala2805/employee-management-system/internal/domain/users"
	"github.com/ZainabRupawala2805/employee-management-system/internal/transport/http/api"
	"github.com/ZainabRupawala2805/employee-management-system/internal/transport/http/middleware"
	"github.com/ZainabRupawala2805/employee-management-system/internal/transport/http/shared"
)

type Handler struct {
	Service *users.Service
}

func NewHandler(service *users.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/user", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.With(middleware.RequireRole(auth.RoleFounder)).Post("/register", h.handleRegister)
		r.With(middleware.RequireRole(auth.RoleFounder, auth.RoleManager)).Get("/get-all", h.handleList)
		r.Get("/get-by-id/{userID}", h.handleGet)
		r.Get("/balances/{userID}", h.handleBalances)
	})
}

type registerPayload struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Role     string   `json:"role"`
	ReportBy []string `json:"reportBy"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload registerPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	v.Required("email", payload.Email, "email is required")
	v.Required("password", payload.Password, "password is required")
	v.Required("role", payload.Role, "role is required")
	if v.Reject(w, reqID) {
		return
	}

	user, err := h.Service.Register(r.Context(), users.RegisterInput{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
		Role:     payload.Role,
		ReportBy: payload.ReportBy,
	})
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Created(w, user, reqID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	list, err := h.Service.List(r.Context())
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, list, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, err := h.Service.Get(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, user, reqID)
}

func (h *Handler) handleBalances(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	balances, err := h.Service.Balances(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, balances, reqID)
}
