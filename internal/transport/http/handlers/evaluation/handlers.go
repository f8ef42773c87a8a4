package evaluationhandler

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"perfreview/internal/domain/directory"
	"perfreview/internal/domain/evaluation"
	"perfreview/internal/domain/report"
	"perfreview/internal/requestctx"
	"perfreview/internal/transport/http/api"
	"perfreview/internal/transport/http/middleware"
	"perfreview/internal/transport/http/shared"
)

const maxEvaluationIDLen = 64

type Handler struct {
	Service *evaluation.Service
	Report  report.Options
}

func NewHandler(service *evaluation.Service, reportOpts report.Options) *Handler {
	return &Handler{Service: service, Report: reportOpts}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/dashboard", h.handleDashboard)
		r.Route("/evaluations/{evaluationID}", func(r chi.Router) {
			r.Get("/", h.handleGetEvaluation)
			r.Put("/", h.handleSaveEvaluation)
			r.Get("/pdf", h.handleEvaluationPDF)
		})
	})
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	dashboard, err := h.Service.GetDashboard(r.Context(), user.Email)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, dashboard, middleware.GetRequestID(r.Context()))
}

func evaluationID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "evaluationID"))
	v := shared.NewValidator()
	v.Required("evaluationId", id, "is required")
	v.MaxLength("evaluationId", id, maxEvaluationIDLen)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return "", false
	}
	return id, true
}

func (h *Handler) handleGetEvaluation(w http.ResponseWriter, r *http.Request) {
	id, ok := evaluationID(w, r)
	if !ok {
		return
	}
	user, _ := middleware.GetUser(r.Context())
	ev, err := h.Service.GetEvaluation(r.Context(), id, user.Email)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, ev, middleware.GetRequestID(r.Context()))
}

var roleNames = []string{"evaluee", "eval1", "eval2", "eval3", "admin"}

func (h *Handler) handleSaveEvaluation(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id, ok := evaluationID(w, r)
	if !ok {
		return
	}
	v := shared.NewValidator()
	isSubmit := v.Bool("submit", r.URL.Query().Get("submit"))
	as := r.URL.Query().Get("as")
	v.Enum("as", as, roleNames, "must be one of "+strings.Join(roleNames, ", "))
	if v.Reject(w, requestID) {
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", requestID)
			return
		}
		api.Fail(w, http.StatusBadRequest, "invalid_body", "failed to read request body", requestID)
		return
	}
	payload, err := evaluation.DecodePayload(raw)
	if err != nil {
		api.FromError(w, err, requestID)
		return
	}
	payload.EvaluationID = strings.TrimSpace(payload.EvaluationID)
	if payload.EvaluationID == "" {
		payload.EvaluationID = id
	}
	if payload.EvaluationID != id {
		api.FromError(w, evaluation.Invalid(evaluation.ErrInvalidData, "evaluation id does not match the path"), requestID)
		return
	}

	user, _ := middleware.GetUser(r.Context())
	role, err := h.Service.ResolveRoleAs(r.Context(), user.Email, id, directory.ParseRole(as))
	if err != nil {
		api.FromError(w, err, requestID)
		return
	}
	if role == directory.RoleUnknown {
		requestctx.Logger(r.Context()).Warn("save rejected, caller has no role", "evaluationId", id, "email", user.Email)
		api.FromError(w, evaluation.Denied(evaluation.ErrNoRole, "you are not a participant of this evaluation"), requestID)
		return
	}

	res, err := h.Service.SaveEvaluation(r.Context(), role, isSubmit, payload)
	if err != nil {
		api.FromError(w, err, requestID)
		return
	}
	message := "saved"
	if res.Advanced {
		message = "submitted"
	}
	api.SuccessMessage(w, message, res, requestID)
}

func (h *Handler) handleEvaluationPDF(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id, ok := evaluationID(w, r)
	if !ok {
		return
	}
	user, _ := middleware.GetUser(r.Context())
	ev, err := h.Service.GetEvaluation(r.Context(), id, user.Email)
	if err != nil {
		api.FromError(w, err, requestID)
		return
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, ev, h.Report); err != nil {
		requestctx.Logger(r.Context()).Error("evaluation pdf render failed", "evaluationId", id, "err", err)
		api.Fail(w, http.StatusInternalServerError, "pdf_failed", "failed to render evaluation sheet", requestID)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="evaluation-`+safeFileName(id)+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func safeFileName(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, id)
}
