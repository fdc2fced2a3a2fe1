package attendancehandler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ZainabRupawala2805/employee-management-system/internal/domain/attendance"
	"github.com/ZainabRupawala2805/employee-management-system/internal/domain/auth"
	"github.com/ZainabRupawala2805/employee-management-system/internal/domain/users"
	"github.com/ZainabRupawala2805/employee-management-system/internal/platform/metrics"
	"github.com/ZainabRupawala2805/employee-management-system/internal/transport/http/api"
	"github.com/ZainabRupawala2805/employee-management-system/internal/transport/http/middleware"
)

type Handler struct {
	Service *attendance.Service
	Users   *users.Service
	Metrics *metrics.Collector
}

func NewHandler(service *attendance.Service, userSvc *users.Service, collector *metrics.Collector) *Handler {
	return &Handler{Service: service, Users: userSvc, Metrics: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/check-in", h.handleCheckIn)
		r.Post("/check-out", h.handleCheckOut)
		r.Get("/get-by-userid/{userID}", h.handleGetByUser)
		r.With(middleware.RequireRole(auth.RoleFounder, auth.RoleManager)).Get("/get-all", h.handleGetAll)
		r.With(middleware.RequireRole(auth.RoleFounder, auth.RoleManager)).Patch("/update/{attendanceID}", h.handleUpdateStatus)
		r.With(middleware.RequireRole(auth.RoleFounder, auth.RoleManager)).Post("/approve-reject", h.handleDecide)
		r.With(middleware.RequireRole(auth.RoleFounder)).Delete("/delete/{attendanceID}", h.handleDelete)
	})
}

type markPayload struct {
	UserID   string `json:"userId"`
	IP       string `json:"ip"`
	Location string `json:"location"`
}

func (h *Handler) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload markPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	user, _ := middleware.GetUser(r.Context())
	if payload.UserID == "" {
		payload.UserID = user.UserID
	}

	rec, err := h.Service.CheckIn(r.Context(), attendance.MarkInput{
		UserID:   payload.UserID,
		IP:       payload.IP,
		Location: payload.Location,
	})
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	if h.Metrics != nil {
		h.Metrics.CheckIn()
	}
	api.Created(w, rec, reqID)
}

func (h *Handler) handleCheckOut(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload markPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	user, _ := middleware.GetUser(r.Context())
	if payload.UserID == "" {
		payload.UserID = user.UserID
	}

	rec, err := h.Service.CheckOut(r.Context(), attendance.MarkInput{
		UserID:   payload.UserID,
		IP:       payload.IP,
		Location: payload.Location,
	})
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, rec, reqID)
}

func (h *Handler) handleGetByUser(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	records, err := h.Service.AttendanceByUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, records, reqID)
}

func (h *Handler) handleGetAll(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var reportBy []string
	if user.Role != auth.RoleFounder {
		record, err := h.Users.Get(r.Context(), user.UserID)
		if err != nil {
			api.FromError(w, err, reqID)
			return
		}
		reportBy = record.ReportBy
	}

	summaries, err := h.Service.FilteredAttendance(r.Context(), user.Role, reportBy)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, summaries, reqID)
}

type statusPayload struct {
	Status string `json:"status"`
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload statusPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	user, _ := middleware.GetUser(r.Context())
	rec, err := h.Service.UpdateStatus(r.Context(), chi.URLParam(r, "attendanceID"), user.Role, payload.Status)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, rec, reqID)
}

type decidePayload struct {
	AttendanceID string `json:"attendanceId"`
	Action       string `json:"action"`
}

func (h *Handler) handleDecide(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload decidePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	user, _ := middleware.GetUser(r.Context())
	rec, err := h.Service.Decide(r.Context(), payload.AttendanceID, user.UserID, payload.Action)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, rec, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "attendanceID")); err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, map[string]string{"deleted": chi.URLParam(r, "attendanceID")}, reqID)
}
