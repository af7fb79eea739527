package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hiroki-koketsu/studysprint/internal/config"
	"github.com/hiroki-koketsu/studysprint/internal/handler"
	"github.com/hiroki-koketsu/studysprint/internal/idgen"
	"github.com/hiroki-koketsu/studysprint/internal/session"
	"github.com/hiroki-koketsu/studysprint/internal/telemetry"
	"github.com/hiroki-koketsu/studysprint/internal/view"
	"github.com/spf13/pflag"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
)

func main() {
	flags := pflag.NewFlagSet("studysprint", pflag.ContinueOnError)
	configPath := flags.String("config", os.Getenv("STUDYSPRINT_CONFIG"), "path to a YAML config file")
	port := flags.StringP("port", "p", "", "listen port (overrides SERVER_PORT)")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Create a basic logger for startup (before OTel is initialized)
	startupLogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load(*configPath)
	if err != nil {
		startupLogger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	if *port != "" {
		cfg.ServerPort = *port
	}

	startupLogger.Info("starting application",
		slog.String("service", cfg.ServiceName),
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("telemetry", cfg.TelemetryEnabled),
	)

	ctx := context.Background()

	logger := telemetry.NewLocalLogger(os.Stdout, cfg.ServiceName)
	if cfg.TelemetryEnabled {
		conn, err := telemetry.NewConn(cfg.OTLPEndpoint)
		if err != nil {
			startupLogger.Error("failed to connect to the OTLP collector", slog.Any("error", err))
			os.Exit(1)
		}
		// Deferred first so it runs after every provider has flushed.
		defer func() {
			if err := conn.Close(); err != nil {
				startupLogger.Error("failed to close OTLP connection", slog.Any("error", err))
			}
		}()

		tp, err := telemetry.InitTracerProvider(ctx, conn, cfg.ServiceName, cfg.Environment)
		if err != nil {
			startupLogger.Error("failed to initialize tracer provider", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := tp.Shutdown(ctx); err != nil {
				startupLogger.Error("failed to shutdown tracer provider", slog.Any("error", err))
			}
		}()

		mp, err := telemetry.InitMeterProvider(ctx, conn, cfg.ServiceName, cfg.Environment)
		if err != nil {
			startupLogger.Error("failed to initialize meter provider", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := mp.Shutdown(ctx); err != nil {
				startupLogger.Error("failed to shutdown meter provider", slog.Any("error", err))
			}
		}()

		// Initialized after the other providers for log-trace correlation
		lp, otelLogger, err := telemetry.InitLoggerProvider(ctx, conn, cfg.ServiceName, cfg.Environment)
		if err != nil {
			startupLogger.Error("failed to initialize logger provider", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := lp.Shutdown(ctx); err != nil {
				startupLogger.Error("failed to shutdown logger provider", slog.Any("error", err))
			}
		}()
		logger = otelLogger
	}

	ids := idgen.UUID{}
	sessions := session.NewManager(cfg.SessionTTL, session.WithCookieName(cfg.SessionCookie))

	// Without telemetry the global meter is a no-op.
	metrics, err := telemetry.NewMetrics(otel.Meter(cfg.ServiceName), sessions.TaskCount)
	if err != nil {
		logger.Error("failed to create metrics", slog.Any("error", err))
		os.Exit(1)
	}

	views, err := view.NewRenderer()
	if err != nil {
		logger.Error("failed to load templates", slog.Any("error", err))
		os.Exit(1)
	}

	deps := &handler.Deps{
		Sessions: sessions,
		IDs:      ids,
		Logger:   logger,
		Metrics:  metrics,
	}
	r := handler.NewRouter(handler.NewPageHandler(deps, views), handler.NewTaskHandler(deps))

	otelHandler := otelhttp.NewHandler(r, "http-server",
		otelhttp.WithFilter(func(r *http.Request) bool {
			// Skip tracing for health checks
			return r.URL.Path != "/health"
		}),
	)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      otelHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", slog.Any("error", err))
	}

	logger.Info("server stopped")
}
