/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:     Unique ID per request for tracing
  2. RequestLogger: Structured request logging (httplog, ECS schema)
  3. Recoverer:     Panic recovery (500 instead of crash)
  4. CORS:          Cross-origin requests for the frontend

ROUTE GROUPS:
  /api/work-hours          Work-window hours between two timestamps
  /api/leave/*             Leave types, validation, review
  /api/overtime/*          Classification, limit check, review, ceiling alerts
  /api/employees/*         Employees and their leave, overtime, attendance, payroll
  /api/shifts/*            Shift schedule
  /api/holidays/*          Company holiday calendar
  /api/scenarios/*         Demo scenarios
  /*                       API index page

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler and shared helpers
  - cmd/server/main.go: Server startup
*/
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

// RouterOptions carries the HTTP concerns that come from configuration.
type RouterOptions struct {
	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:8080"}
	}
	logger := opts.Logger
	if logger == nil {
		logger = h.Logger
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/work-hours", h.ComputeWorkHours)

		r.Route("/leave", func(r chi.Router) {
			r.Get("/types", h.ListLeaveTypes)
			r.Post("/validate", h.ValidateLeave)
			r.Post("/requests/{id}/approve", h.ApproveLeave)
			r.Post("/requests/{id}/reject", h.RejectLeave)
		})

		r.Route("/overtime", func(r chi.Router) {
			r.Post("/classify", h.ClassifyOvertime)
			r.Post("/limit-check", h.CheckOvertimeLimit)
			r.Get("/alerts", h.ListCeilingAlerts)
			r.Get("/requests/pending", h.ListPendingOvertime)
			r.Post("/requests/{id}/approve", h.ApproveOvertime)
			r.Post("/requests/{id}/reject", h.RejectOvertime)
		})

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetEmployee)

				r.Get("/leave/balances", h.GetLeaveBalances)
				r.Put("/leave/balances", h.SetLeaveBalances)
				r.Get("/leave/requests", h.ListLeaveRequests)
				r.Post("/leave/requests", h.SubmitLeave)

				r.Get("/overtime/requests", h.ListOvertimeRequests)
				r.Post("/overtime/requests", h.SubmitOvertime)
				r.Get("/overtime/limit", h.GetOvertimeLimit)
				r.Get("/overtime/summary", h.GetOvertimeSummary)

				r.Get("/attendance", h.ListAttendance)
				r.Get("/attendance/stats", h.GetAttendanceStats)
				r.Put("/attendance/{date}", h.PutAttendanceDay)

				r.Get("/salary-config", h.GetSalaryConfig)
				r.Put("/salary-config", h.PutSalaryConfig)
				r.Get("/payroll", h.GetPayroll)
			})
		})

		r.Route("/shifts", func(r chi.Router) {
			r.Get("/", h.ListShifts)
			r.Post("/", h.CreateShift)
			r.Get("/stats", h.GetShiftStats)
			r.Delete("/{id}", h.DeleteShift)
		})

		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.ListHolidays)
			r.Post("/", h.CreateHoliday)
			r.Delete("/{id}", h.DeleteHoliday)
		})

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Attendance Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Attendance Engine API</h1>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/employees">/api/employees</a> - List employees</li>
<li><a href="/api/leave/types">/api/leave/types</a> - Leave types</li>
<li><a href="/api/overtime/alerts">/api/overtime/alerts</a> - Overtime ceiling alerts</li>
<li><a href="/api/scenarios">/api/scenarios</a> - List scenarios</li>
</ul>
</body>
</html>`))
	})

	return r
}
