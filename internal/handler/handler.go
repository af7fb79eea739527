package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/hiroki-koketsu/studysprint/internal/idgen"
	"github.com/hiroki-koketsu/studysprint/internal/model"
	"github.com/hiroki-koketsu/studysprint/internal/session"
	"github.com/hiroki-koketsu/studysprint/internal/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var tracer = otel.Tracer("github.com/hiroki-koketsu/studysprint/internal/handler")

// Deps are the collaborators shared by the page and API handlers.
type Deps struct {
	Sessions *session.Manager
	IDs      idgen.Generator
	Logger   *slog.Logger
	Metrics  *telemetry.Metrics
}

func (d *Deps) recordMetrics(ctx context.Context, method, route string, status int, start time.Time) {
	duration := time.Since(start).Seconds()

	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", status),
	)

	d.Metrics.RequestCounter.Add(ctx, 1, attrs)
	d.Metrics.RequestDuration.Record(ctx, duration, attrs)
}

func (d *Deps) recordValidation(ctx context.Context, errs model.FieldErrors) {
	for field := range errs {
		d.Metrics.ValidationFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("field", field)))
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
