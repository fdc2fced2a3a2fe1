package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ZainabRupawala2805/employee-management-system/internal/domain/attendance"
	"github.com/ZainabRupawala2805/employee-management-system/internal/domain/leave"
	"github.com/ZainabRupawala2805/employee-management-system/internal/domain/users"
	"github.com/ZainabRupawala2805/employee-management-system/internal/platform/cache"
	"github.com/ZainabRupawala2805/employee-management-system/internal/platform/config"
	"github.com/ZainabRupawala2805/employee-management-system/internal/platform/db"
	"github.com/ZainabRupawala2805/employee-management-system/internal/platform/email"
	"github.com/ZainabRupawala2805/employee-management-system/internal/platform/metrics"
	"github.com/ZainabRupawala2805/employee-management-system/internal/platform/storage"
	attendancehandler "github.com/ZainabRupawala2805/employee-management-system/internal/transport/http/handlers/attendance"
	authhandler "github.com/ZainabRupawala2805/employee-management-system/internal/transport/http/handlers/auth"
	leavehandler "github.com/ZainabRupawala2805/employee-management-system/internal/transport/http/handlers/leave"
	userhandler "github.com/ZainabRupawala2805/employee-management-system/internal/transport/http/handlers/users"
	"github.com/ZainabRupawala2805/employee-management-system/internal/transport/http/middleware"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		slog.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			slog.Error("migrations failed", "err", err)
			os.Exit(1)
		}
	}

	redisClient, err := cache.Open(ctx, cfg.RedisURL)
	if err != nil {
		slog.Error("redis connect failed", "err", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	uploads, err := storage.NewLocal(cfg.UploadDir)
	if err != nil {
		slog.Error("upload dir setup failed", "err", err)
		os.Exit(1)
	}

	collector := metrics.New()
	mailer := email.New(cfg)

	userStore := users.NewStore(pool)
	userSvc := users.NewService(userStore)

	leaveStore := leave.NewStore(pool)
	leaveSvc := leave.NewService(leaveStore, userStore)

	attendanceStore := attendance.NewStore(pool)
	attendanceSvc := attendance.NewService(attendanceStore, cfg.OfficeIP)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "Idempotency-Key"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.Idempotency(redisClient, cfg.IdempotencyTTL))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(collector.Snapshot())
		})
	}

	authhandler.NewHandler(userSvc, cfg.JWTSecret).RegisterRoutes(router)
	userhandler.NewHandler(userSvc).RegisterRoutes(router)
	leavehandler.NewHandler(leaveSvc, userSvc, uploads, mailer, collector).RegisterRoutes(router)
	attendancehandler.NewHandler(attendanceSvc, userSvc, collector).RegisterRoutes(router)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", cfg.Addr, "env", cfg.Environment)
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "err", err)
			os.Exit(1)
		}
	case sig := <-stop:
		slog.Info("shutting down", "signal", sig.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "err", err)
		}
	}
}
