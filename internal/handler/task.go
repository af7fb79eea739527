package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hiroki-koketsu/studysprint/internal/model"
	"github.com/hiroki-koketsu/studysprint/internal/repository"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TaskHandler handles JSON API requests for the caller's tasks.
type TaskHandler struct {
	*Deps
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(deps *Deps) *TaskHandler {
	return &TaskHandler{Deps: deps}
}

// Routes returns the chi router with task routes.
func (h *TaskHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Post("/{id}/toggle", h.Toggle)
	r.Delete("/{id}", h.Delete)

	return r
}

// List returns all tasks in insertion order.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	ctx, span := tracer.Start(ctx, "TaskHandler.List")
	defer span.End()

	tasks := h.Sessions.Load(ctx).List(ctx)

	span.SetAttributes(attribute.Int("task.count", len(tasks)))
	h.Logger.InfoContext(ctx, "tasks listed", slog.Int("count", len(tasks)))

	respondJSON(w, http.StatusOK, tasks)
	h.recordMetrics(ctx, "GET", "/api/v1/tasks", http.StatusOK, start)
}

// Create adds a new task.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	ctx, span := tracer.Start(ctx, "TaskHandler.Create")
	defer span.End()

	var req model.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.WarnContext(ctx, "invalid request body", slog.Any("error", err))
		respondError(w, http.StatusBadRequest, "invalid request body")
		h.recordMetrics(ctx, "POST", "/api/v1/tasks", http.StatusBadRequest, start)
		return
	}

	draft, errs := req.Validate()
	if errs != nil {
		h.Logger.WarnContext(ctx, "validation failed", slog.Any("error", errs))
		h.recordValidation(ctx, errs)
		respondJSON(w, http.StatusBadRequest, map[string]model.FieldErrors{"errors": errs})
		h.recordMetrics(ctx, "POST", "/api/v1/tasks", http.StatusBadRequest, start)
		return
	}

	task := draft.Task(h.IDs.NewID())
	h.Sessions.Update(ctx, func(repo *repository.TaskRepository) {
		repo.Add(ctx, task)
	})

	span.SetAttributes(attribute.String("task.id", task.ID))
	h.Logger.InfoContext(ctx, "task created", slog.String("id", task.ID))

	respondJSON(w, http.StatusCreated, task)
	h.recordMetrics(ctx, "POST", "/api/v1/tasks", http.StatusCreated, start)
}

// Toggle flips a task's done flag. Unknown ids are ignored.
func (h *TaskHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	id := chi.URLParam(r, "id")

	ctx, span := tracer.Start(ctx, "TaskHandler.Toggle",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()

	h.Sessions.Update(ctx, func(repo *repository.TaskRepository) {
		repo.Toggle(ctx, id)
	})
	h.Logger.InfoContext(ctx, "task toggled", slog.String("id", id))

	w.WriteHeader(http.StatusNoContent)
	h.recordMetrics(ctx, "POST", "/api/v1/tasks/{id}/toggle", http.StatusNoContent, start)
}

// Delete removes a task. Unknown ids are ignored.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	id := chi.URLParam(r, "id")

	ctx, span := tracer.Start(ctx, "TaskHandler.Delete",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()

	h.Sessions.Update(ctx, func(repo *repository.TaskRepository) {
		repo.Delete(ctx, id)
	})
	h.Logger.InfoContext(ctx, "task deleted", slog.String("id", id))

	w.WriteHeader(http.StatusNoContent)
	h.recordMetrics(ctx, "DELETE", "/api/v1/tasks/{id}", http.StatusNoContent, start)
}

// Stats returns aggregate statistics over the caller's tasks.
func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	ctx, span := tracer.Start(ctx, "TaskHandler.Stats")
	defer span.End()

	respondJSON(w, http.StatusOK, h.Sessions.Load(ctx).Summary(ctx))
	h.recordMetrics(ctx, "GET", "/api/v1/stats", http.StatusOK, start)
}

// Health returns a health check response.
func (h *TaskHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
