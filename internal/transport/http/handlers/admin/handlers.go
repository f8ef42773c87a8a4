package adminhandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"perfreview/internal/domain/evaluation"
	"perfreview/internal/transport/http/api"
	"perfreview/internal/transport/http/middleware"
	"perfreview/internal/transport/http/shared"
)

const (
	defaultPageSize = 100
	maxPageSize     = 500
)

type Handler struct {
	Service *evaluation.Service
	Admins  middleware.AdminChecker
	// RunReminders sends evaluator reminders immediately. Nil disables the route.
	RunReminders func(context.Context) (any, error)
	// Metrics returns a counter snapshot. Nil disables the route.
	Metrics func() map[string]any
}

func NewHandler(service *evaluation.Service, admins middleware.AdminChecker) *Handler {
	return &Handler{Service: service, Admins: admins}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAdmin(h.Admins))
		r.Get("/overview", h.handleOverview)
		r.Get("/stats", h.handleStats)
		r.Get("/employees", h.handleEmployees)
		r.Get("/employees/{employeeID}", h.handleEmployee)
		r.Get("/headers", h.handleHeaders)
		if h.Metrics != nil {
			r.Get("/metrics", h.handleMetrics)
		}
		if h.RunReminders != nil {
			r.Post("/reminders/run", h.handleRunReminders)
		}
	})
}

func (h *Handler) handleOverview(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.Overview(r.Context())
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	page := shared.Paginate(rows, shared.ParsePagination(r, defaultPageSize, maxPageSize))
	api.Success(w, page, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats(r.Context())
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, stats, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Service.Employees(r.Context())
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	page := shared.Paginate(employees, shared.ParsePagination(r, defaultPageSize, maxPageSize))
	api.Success(w, page, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleEmployee(w http.ResponseWriter, r *http.Request) {
	employee, err := h.Service.Employee(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, employee, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleHeaders(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Service.HeaderIndex(r.Context())
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, entries, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRunReminders(w http.ResponseWriter, r *http.Request) {
	summary, err := h.RunReminders(r.Context())
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Metrics(), middleware.GetRequestID(r.Context()))
}
