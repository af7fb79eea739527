package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hiroki-koketsu/studysprint/internal/model"
	"github.com/hiroki-koketsu/studysprint/internal/repository"
	"github.com/hiroki-koketsu/studysprint/internal/route"
	"github.com/hiroki-koketsu/studysprint/internal/view"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// PageHandler serves the HTML pages.
type PageHandler struct {
	*Deps
	views *view.Renderer
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(deps *Deps, views *view.Renderer) *PageHandler {
	return &PageHandler{Deps: deps, views: views}
}

// Landing renders the landing page.
func (h *PageHandler) Landing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	if err := h.views.Landing(w); err != nil {
		h.renderFailed(w, r, err)
		h.recordMetrics(ctx, "GET", route.PathLanding, http.StatusInternalServerError, start)
		return
	}
	h.recordMetrics(ctx, "GET", route.PathLanding, http.StatusOK, start)
}

// Tasks renders the task form with an empty input and the task list.
func (h *PageHandler) Tasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	ctx, span := tracer.Start(ctx, "PageHandler.Tasks")
	defer span.End()

	tasks := h.Sessions.Load(ctx).List(ctx)
	if err := h.views.Tasks(w, http.StatusOK, view.DefaultForm(), tasks); err != nil {
		h.renderFailed(w, r, err)
		h.recordMetrics(ctx, "GET", route.PathTasks, http.StatusInternalServerError, start)
		return
	}
	h.recordMetrics(ctx, "GET", route.PathTasks, http.StatusOK, start)
}

// Submit validates the task form. Invalid input is shown again with inline
// errors; valid input adds a task and redirects back to a fresh form.
func (h *PageHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	ctx, span := tracer.Start(ctx, "PageHandler.Submit")
	defer span.End()

	if err := r.ParseForm(); err != nil {
		h.Logger.WarnContext(ctx, "invalid form body", slog.Any("error", err))
		http.Error(w, "invalid form body", http.StatusBadRequest)
		h.recordMetrics(ctx, "POST", route.PathTasks, http.StatusBadRequest, start)
		return
	}

	form := view.FormState{
		Title:   r.PostForm.Get("title"),
		Minutes: r.PostForm.Get("minutes"),
	}

	draft, errs := model.Validate(form.Title, form.Minutes)
	if errs != nil {
		span.SetAttributes(attribute.Int("form.errors", len(errs)))
		h.Logger.InfoContext(ctx, "task form rejected", slog.Any("errors", errs))
		h.recordValidation(ctx, errs)

		form.Errors = errs
		if err := h.views.Tasks(w, http.StatusUnprocessableEntity, form, h.Sessions.Load(ctx).List(ctx)); err != nil {
			h.renderFailed(w, r, err)
		}
		h.recordMetrics(ctx, "POST", route.PathTasks, http.StatusUnprocessableEntity, start)
		return
	}

	task := draft.Task(h.IDs.NewID())
	h.Sessions.Update(ctx, func(repo *repository.TaskRepository) {
		repo.Add(ctx, task)
	})

	span.SetAttributes(attribute.String("task.id", task.ID))
	h.Logger.InfoContext(ctx, "task created", slog.String("id", task.ID), slog.Int("minutes", task.Minutes))

	http.Redirect(w, r, route.PathTasks, http.StatusSeeOther)
	h.recordMetrics(ctx, "POST", route.PathTasks, http.StatusSeeOther, start)
}

// Toggle flips a task's done flag and returns to the task page.
func (h *PageHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	id := chi.URLParam(r, "id")

	ctx, span := tracer.Start(ctx, "PageHandler.Toggle",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()

	h.Sessions.Update(ctx, func(repo *repository.TaskRepository) {
		repo.Toggle(ctx, id)
	})
	h.Logger.InfoContext(ctx, "task toggled", slog.String("id", id))

	http.Redirect(w, r, route.PathTasks, http.StatusSeeOther)
	h.recordMetrics(ctx, "POST", route.PathTasks+"/tasks/{id}/toggle", http.StatusSeeOther, start)
}

// Delete removes a task and returns to the task page.
func (h *PageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	id := chi.URLParam(r, "id")

	ctx, span := tracer.Start(ctx, "PageHandler.Delete",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()

	h.Sessions.Update(ctx, func(repo *repository.TaskRepository) {
		repo.Delete(ctx, id)
	})
	h.Logger.InfoContext(ctx, "task deleted", slog.String("id", id))

	http.Redirect(w, r, route.PathTasks, http.StatusSeeOther)
	h.recordMetrics(ctx, "POST", route.PathTasks+"/tasks/{id}/delete", http.StatusSeeOther, start)
}

// Stats renders the statistics of the caller's tasks.
func (h *PageHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	ctx, span := tracer.Start(ctx, "PageHandler.Stats")
	defer span.End()

	summary := h.Sessions.Load(ctx).Summary(ctx)
	if err := h.views.Stats(w, summary); err != nil {
		h.renderFailed(w, r, err)
		h.recordMetrics(ctx, "GET", route.PathStats, http.StatusInternalServerError, start)
		return
	}
	h.recordMetrics(ctx, "GET", route.PathStats, http.StatusOK, start)
}

// NotFound renders the fallback page for unmatched paths.
func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	if err := h.views.NotFound(w); err != nil {
		h.renderFailed(w, r, err)
	}
	h.recordMetrics(ctx, r.Method, "*", http.StatusNotFound, start)
}

func (h *PageHandler) renderFailed(w http.ResponseWriter, r *http.Request, err error) {
	h.Logger.ErrorContext(r.Context(), "failed to render page",
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
