package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/presence-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/biometric"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/presence-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/presence-backend-go/internal/service/attendance"
	dashboardService "github.com/cmlabs-hris/presence-backend-go/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/presence-backend-go/internal/service/employee"
	payrollService "github.com/cmlabs-hris/presence-backend-go/internal/service/payroll"
	reportService "github.com/cmlabs-hris/presence-backend-go/internal/service/report"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.App.LogLevel),
	})).With(slog.String("app", cfg.App.Name)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns:        cfg.Database.MaxConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
	})
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	cal, err := calendar.NewFromName(cfg.App.Timezone)
	if err != nil {
		slog.Error("Invalid timezone", "timezone", cfg.App.Timezone, "error", err)
		os.Exit(1)
	}
	clock := calendar.SystemClock{}

	verifier, err := biometric.New(cfg.Biometric.Mode, cfg.Biometric.Threshold)
	if err != nil {
		slog.Error("Invalid biometric configuration", "error", err)
		os.Exit(1)
	}
	if cfg.Biometric.Mode == biometric.ModeAlwaysAccept {
		slog.Warn("Face verification is disabled, every check-in is accepted")
	}

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	salaryRepo := postgresql.NewPayrollRepository(db)
	auditRepo := postgresql.NewAuditRepository(db)
	transactor := postgresql.NewTransactor(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	hub := sse.NewHub()

	attendanceSvc := attendanceService.NewAttendanceService(
		attendanceRepo,
		employeeRepo,
		auditRepo,
		transactor,
		verifier,
		cal,
		clock,
		sse.NewAttendanceRelay(hub),
	)
	payrollSvc := payrollService.NewPayrollService(
		salaryRepo,
		attendanceRepo,
		employeeRepo,
		auditRepo,
		transactor,
		cal,
		clock,
	)
	dashboardSvc := dashboardService.NewDashboardService(attendanceRepo, employeeRepo, cal, clock, cfg.Attendance.LateHour)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, auditRepo, transactor)
	reportSvc := reportService.NewReportService(dashboardSvc, salaryRepo, employeeRepo)

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			AppName:        cfg.App.Name,
			Env:            cfg.App.Env,
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			RateLimit:      rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:      cfg.RateLimit.Burst,
		},
		JWTService,
		appHTTP.Handlers{
			Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
			Payroll:    appHTTP.NewPayrollHandler(payrollSvc),
			Dashboard:  appHTTP.NewDashboardHandler(dashboardSvc, JWTService, hub),
			Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
			Report:     appHTTP.NewReportHandler(reportSvc),
		},
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env, "timezone", cfg.App.Timezone)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
