package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"perfreview/internal/domain/evaluation"
)

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type Envelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
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

func SuccessMessage(w http.ResponseWriter, message string, data any, requestID string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Message: message, Data: data, RequestID: requestID})
}

func Fail(w http.ResponseWriter, status int, code, message, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Message: message, Error: &Error{Code: code, Message: message}, RequestID: requestID})
}

func FailWithDetails(w http.ResponseWriter, status int, code, message string, details any, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Message: message, Error: &Error{Code: code, Message: message, Details: details}, RequestID: requestID})
}

func FromError(w http.ResponseWriter, err error, requestID string) {
	status, code := StatusFor(evaluation.KindOf(err))
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "requestId", requestID, "err", err)
	}
	Fail(w, status, code, evaluation.MessageOf(err), requestID)
}

func StatusFor(kind evaluation.Kind) (int, string) {
	switch kind {
	case evaluation.KindNotFound:
		return http.StatusNotFound, "not_found"
	case evaluation.KindInvalidInput:
		return http.StatusBadRequest, "invalid_input"
	case evaluation.KindPermissionDenied:
		return http.StatusForbidden, "forbidden"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
