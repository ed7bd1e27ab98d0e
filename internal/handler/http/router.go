package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/presence-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/time/rate"
)

type RouterOptions struct {
	AppName        string
	Env            string
	AllowedOrigins []string

	// Per-user request budget on authenticated routes.
	RateLimit rate.Limit
	RateBurst int
}

type Handlers struct {
	Attendance AttendanceHandler
	Payroll    PayrollHandler
	Dashboard  DashboardHandler
	Employee   EmployeeHandler
	Report     ReportHandler
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", opts.AppName),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// The live stream authenticates with a short-lived query token
		r.With(middleware.SSEAuth(JWTService), middleware.RequireManager).
			Get("/dashboard/live-stream", h.Dashboard.LiveStream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)
			r.Use(middleware.RateLimitByUser(opts.RateLimit, opts.RateBurst))
			r.Use(chiMiddleware.AllowContentEncoding("application/json"))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", h.Attendance.CheckIn)
				r.Post("/check-out", h.Attendance.CheckOut)
				r.Get("/today/{employeeID}", h.Attendance.GetToday)
				r.Get("/employee/{employeeID}", h.Attendance.GetHistory)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/", h.Attendance.List)
					r.Post("/manual", h.Attendance.ManualInsert)
					r.Put("/{id}/correct", h.Attendance.Correct)
					r.Get("/{id}/audit", h.Attendance.GetAuditTrail)
				})
			})

			r.Route("/salaries", func(r chi.Router) {
				r.Get("/employee/{employeeID}", h.Payroll.GetEmployeeSalaries)
				r.Get("/current/{employeeID}", h.Payroll.GetCurrentMonth)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/", h.Payroll.List)
					r.Post("/calculate", h.Payroll.Calculate)
					r.Put("/{id}/status", h.Payroll.UpdateStatus)
				})
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Use(middleware.RequireManager)
				r.Get("/stats", h.Dashboard.GetStats)
				r.Get("/attendance-report", h.Dashboard.GetAttendanceReport)
				r.Get("/live-status", h.Dashboard.GetLiveStatus)
				r.Post("/stream-token", h.Dashboard.GetStreamToken)
			})

			r.Route("/employees", func(r chi.Router) {
				r.With(middleware.RequireManager).Get("/", h.Employee.List)
				r.Get("/{id}", h.Employee.Get)
				r.Put("/{id}/face", h.Employee.RegisterFace)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Get("/export", h.Report.ExportEmployees)
					r.Get("/import/template", h.Report.ImportTemplate)
					r.Post("/import", h.Employee.Import)
					r.Put("/{id}", h.Employee.Update)
					r.Delete("/{id}", h.Employee.Deactivate)
				})
			})

			r.Route("/reports", func(r chi.Router) {
				r.With(middleware.RequireManager).Get("/attendance.{format}", h.Report.ExportAttendance)
				r.With(middleware.RequireAdmin).Get("/salaries.{format}", h.Report.ExportSalaries)
			})
		})
	})
	return r
}
