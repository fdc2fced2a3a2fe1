package leavehandler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jung-kurt/gofpdf"

	"github.com/ZainabRupawala2805/employee-management-system/internal/domain/auth"
	"github.com/ZainabRupawala2805/employee-management-system/internal/domain/leave"
	"github.com/ZainabRupawala2805/employee-management-system/internal/domain/users"
	"github.com/ZainabRupawala2805/employee-management-system/internal/platform/email"
	"github.com/ZainabRupawala2805/employee-management-system/internal/platform/metrics"
	"github.com/ZainabRupawala2805/employee-management-system/internal/platform/storage"
	"github.com/ZainabRupawala2805/employee-management-system/internal/transport/http/api"
	"github.com/ZainabRupawala2805/employee-management-system/internal/transport/http/middleware"
	"github.com/ZainabRupawala2805/employee-management-system/internal/transport/http/shared"
)

const maxAttachmentBytes = 8 * 1024 * 1024

type Handler struct {
	Service *leave.Service
	Users   *users.Service
	Uploads *storage.Local
	Mailer  email.Mailer
	Metrics *metrics.Collector
}

func NewHandler(service *leave.Service, userSvc *users.Service, uploads *storage.Local, mailer email.Mailer, collector *metrics.Collector) *Handler {
	return &Handler{Service: service, Users: userSvc, Uploads: uploads, Mailer: mailer, Metrics: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/leave-request", h.handleCreate)
		r.Post("/update/{leaveID}", h.handleUpdate)
		r.With(middleware.RequireRole(auth.RoleFounder, auth.RoleManager)).Patch("/status/{leaveID}", h.handleUpdateStatus)
		r.Get("/get-by-id/{leaveID}", h.handleGetByID)
		r.Get("/get-by-userid/{userID}", h.handleGetByUser)
		r.With(middleware.RequireRole(auth.RoleFounder, auth.RoleManager)).Get("/get-filtered-leaves", h.handleFiltered)
		r.With(middleware.RequireRole(auth.RoleFounder, auth.RoleManager)).Get("/export.pdf", h.handleExportPDF)
	})
}

type createPayload struct {
	UserID       string            `json:"userId"`
	StartDate    string            `json:"startDate"`
	EndDate      string            `json:"endDate"`
	Reason       string            `json:"reason"`
	LeaveType    string            `json:"leaveType"`
	HalfDayDates map[string]string `json:"halfDayDates"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload createPayload
	var attachmentPath, attachmentName string

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxAttachmentBytes); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid multipart payload", reqID)
			return
		}
		payload.UserID = r.FormValue("userId")
		payload.StartDate = r.FormValue("startDate")
		payload.EndDate = r.FormValue("endDate")
		payload.Reason = r.FormValue("reason")
		payload.LeaveType = r.FormValue("leaveType")
		if raw := r.FormValue("halfDayDates"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &payload.HalfDayDates); err != nil {
				api.Fail(w, http.StatusBadRequest, "invalid_payload", "halfDayDates must be a JSON object", reqID)
				return
			}
		}

		file, header, err := r.FormFile("attachment")
		if err == nil {
			defer file.Close()
			path, saveErr := h.Uploads.Save(header.Filename, file)
			if saveErr != nil {
				api.Fail(w, http.StatusInternalServerError, "upload_failed", "failed to store attachment", reqID)
				return
			}
			attachmentPath = path
			attachmentName = header.Filename
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
			return
		}
	}

	user, _ := middleware.GetUser(r.Context())
	if payload.UserID == "" {
		payload.UserID = user.UserID
	}

	v := shared.NewValidator()
	v.Required("startDate", payload.StartDate, "startDate is required")
	v.Required("reason", payload.Reason, "reason is required")
	v.Required("leaveType", payload.LeaveType, "leaveType is required")
	if v.Reject(w, reqID) {
		return
	}

	start, ok := parseDateField(w, "startDate", payload.StartDate, reqID)
	if !ok {
		return
	}
	end, ok := parseDateField(w, "endDate", payload.EndDate, reqID)
	if !ok {
		return
	}

	overview, err := h.Service.CreateLeave(r.Context(), leave.CreateInput{
		UserID:         payload.UserID,
		StartDate:      start,
		EndDate:        end,
		Reason:         payload.Reason,
		LeaveType:      payload.LeaveType,
		HalfDayDates:   payload.HalfDayDates,
		Attachment:     attachmentPath,
		AttachmentName: attachmentName,
	})
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Created(w, overview, reqID)
}

type updatePayload struct {
	StartDate    *string           `json:"startDate"`
	EndDate      *string           `json:"endDate"`
	Reason       *string           `json:"reason"`
	LeaveType    *string           `json:"leaveType"`
	Status       *string           `json:"status"`
	HalfDayDates map[string]string `json:"halfDayDates"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	leaveID := chi.URLParam(r, "leaveID")

	var payload updatePayload
	var patch leave.Patch

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxAttachmentBytes); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid multipart payload", reqID)
			return
		}
		form := r.MultipartForm.Value
		strField := func(name string) *string {
			if values, ok := form[name]; ok && len(values) > 0 {
				return &values[0]
			}
			return nil
		}
		payload.StartDate = strField("startDate")
		payload.EndDate = strField("endDate")
		payload.Reason = strField("reason")
		payload.LeaveType = strField("leaveType")
		payload.Status = strField("status")
		if raw := strField("halfDayDates"); raw != nil && *raw != "" {
			if err := json.Unmarshal([]byte(*raw), &payload.HalfDayDates); err != nil {
				api.Fail(w, http.StatusBadRequest, "invalid_payload", "halfDayDates must be a JSON object", reqID)
				return
			}
		}

		file, header, err := r.FormFile("attachment")
		if err == nil {
			defer file.Close()
			path, saveErr := h.Uploads.Save(header.Filename, file)
			if saveErr != nil {
				api.Fail(w, http.StatusInternalServerError, "upload_failed", "failed to store attachment", reqID)
				return
			}
			patch.Attachment = &path
			patch.AttachmentName = &header.Filename
		}
	} else if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	patch.Reason = payload.Reason
	patch.LeaveType = payload.LeaveType
	patch.Status = payload.Status
	patch.HalfDayDates = payload.HalfDayDates
	if payload.StartDate != nil {
		start, ok := parseDateField(w, "startDate", *payload.StartDate, reqID)
		if !ok {
			return
		}
		patch.StartDate = &start
	}
	if payload.EndDate != nil {
		end, ok := parseDateField(w, "endDate", *payload.EndDate, reqID)
		if !ok {
			return
		}
		patch.EndDate = &end
	}

	user, _ := middleware.GetUser(r.Context())
	overview, err := h.Service.UpdateLeave(r.Context(), user.UserID, leaveID, patch)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, overview, reqID)
}

type statusPayload struct {
	Status string `json:"status"`
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	leaveID := chi.URLParam(r, "leaveID")

	var payload statusPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	req, err := h.Service.UpdateStatus(r.Context(), leaveID, payload.Status)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}

	if h.Metrics != nil {
		h.Metrics.LeaveDecision()
	}
	h.notifyDecision(r, req)

	api.Success(w, req, reqID)
}

func (h *Handler) notifyDecision(r *http.Request, req leave.Request) {
	if h.Mailer == nil || h.Users == nil {
		return
	}
	owner, err := h.Users.Get(r.Context(), req.UserID)
	if err != nil {
		slog.Warn("leave decision notification skipped", "err", err)
		return
	}
	subject := fmt.Sprintf("Leave request %s", strings.ToLower(req.Status))
	body := fmt.Sprintf("Hi %s,\n\nyour %s leave from %s to %s was %s.\n",
		owner.Name, req.LeaveType,
		req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02"),
		strings.ToLower(req.Status))
	if err := h.Mailer.Send(r.Context(), owner.Email, subject, body); err != nil {
		slog.Warn("leave decision email failed", "err", err)
	}
}

func (h *Handler) handleGetByID(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	req, err := h.Service.GetLeave(r.Context(), chi.URLParam(r, "leaveID"))
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, req, reqID)
}

func (h *Handler) handleGetByUser(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	overview, err := h.Service.LeavesByUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, overview, reqID)
}

func (h *Handler) handleFiltered(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	reportBy, err := h.reportsOf(r, user)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}

	leaves, err := h.Service.FilteredLeaves(r.Context(), user.Role, reportBy)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, leaves, reqID)
}

func (h *Handler) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	reportBy, err := h.reportsOf(r, user)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}

	leaves, err := h.Service.FilteredLeaves(r.Context(), user.Role, reportBy)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}

	sort.SliceStable(leaves, func(i, j int) bool {
		if leaves[i].UserName == leaves[j].UserName {
			return leaves[i].StartDate.After(leaves[j].StartDate)
		}
		return leaves[i].UserName < leaves[j].UserName
	})

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, "Leave Requests")
	pdf.Ln(12)

	headers := []string{"Employee", "Type", "Start", "End", "Days", "Status"}
	widths := []float64{70, 30, 35, 35, 25, 35}
	pdf.SetFont("Helvetica", "B", 10)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, req := range leaves {
		days, _ := leave.TotalDays(req.LeaveDetails).Float64()
		row := []string{
			req.UserName,
			req.LeaveType,
			req.StartDate.Format("2006-01-02"),
			req.EndDate.Format("2006-01-02"),
			fmt.Sprintf("%.1f", days),
			req.Status,
		}
		for i, cell := range row {
			pdf.CellFormat(widths[i], 8, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=leaves-%s.pdf", time.Now().UTC().Format("2006-01-02")))
	if err := pdf.Output(w); err != nil {
		slog.Warn("pdf export failed", "err", err, "requestId", reqID)
	}
}

// reportsOf resolves the requester's direct reports for scoped listings.
// The Founder never needs them.
func (h *Handler) reportsOf(r *http.Request, user auth.UserContext) ([]string, error) {
	if user.Role == auth.RoleFounder {
		return nil, nil
	}
	record, err := h.Users.Get(r.Context(), user.UserID)
	if err != nil {
		return nil, err
	}
	return record.ReportBy, nil
}

func parseDateField(w http.ResponseWriter, field, raw string, reqID string) (time.Time, bool) {
	parsed, err := shared.ParseDate(strings.TrimSpace(raw))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "validation_error", field+" must be a valid date", reqID)
		return time.Time{}, false
	}
	return parsed, true
}
