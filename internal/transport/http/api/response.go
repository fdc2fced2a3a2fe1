package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ZainabRupawala2805/employee-management-system/internal/domain/fault"
)

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     *Error `json:"error,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("write json failed", "err", err)
	}
}

func Success(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Created(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusCreated, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Fail(w http.ResponseWriter, status int, code, message, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Error: &Error{Code: code, Message: message}, RequestID: requestID})
}

func FailWithDetails(w http.ResponseWriter, status int, code, message string, details any, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Error: &Error{Code: code, Message: message, Details: details}, RequestID: requestID})
}

// FromError maps a domain error onto the wire. Validation problems are
// the client's fault, missing records are 404, refused business rules
// are 422, failed collaborators are 502.
func FromError(w http.ResponseWriter, err error, requestID string) {
	switch fault.KindOf(err) {
	case fault.KindValidation:
		Fail(w, http.StatusBadRequest, "validation_error", err.Error(), requestID)
	case fault.KindNotFound:
		Fail(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	case fault.KindBusinessRule:
		Fail(w, http.StatusUnprocessableEntity, "business_rule", err.Error(), requestID)
	case fault.KindUpstream:
		slog.Error("upstream failure", "err", err, "requestId", requestID)
		Fail(w, http.StatusBadGateway, "upstream_error", "upstream dependency failed", requestID)
	default:
		slog.Error("request failed", "err", err, "requestId", requestID)
		Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
	}
}
