package repository

import (
	"context"
	"sync"

	"github.com/hiroki-koketsu/studysprint/internal/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/hiroki-koketsu/studysprint/internal/repository")

// TaskRepository provides an ordered in-memory storage for tasks.
// Unknown ids are never an error: Toggle and Delete simply do nothing.
type TaskRepository struct {
	mu    sync.RWMutex
	tasks []model.Task
}

// NewTaskRepository creates a TaskRepository holding a copy of tasks.
func NewTaskRepository(tasks ...model.Task) *TaskRepository {
	r := &TaskRepository{}
	if len(tasks) > 0 {
		r.tasks = make([]model.Task, len(tasks))
		copy(r.tasks, tasks)
	}
	return r
}

// Add appends a task to the end of the collection.
func (r *TaskRepository) Add(ctx context.Context, task model.Task) {
	_, span := tracer.Start(ctx, "TaskRepository.Add",
		trace.WithAttributes(
			attribute.String("task.id", task.ID),
			attribute.Int("task.minutes", task.Minutes),
		),
	)
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks = append(r.tasks, task)
	span.SetAttributes(attribute.Int("task.count", len(r.tasks)))
}

// Toggle flips the done flag of the task with the given id.
func (r *TaskRepository) Toggle(ctx context.Context, id string) {
	_, span := tracer.Start(ctx, "TaskRepository.Toggle",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		span.SetAttributes(attribute.Bool("task.found", false))
		return
	}

	r.tasks[i] = r.tasks[i].Toggled()
	span.SetAttributes(
		attribute.Bool("task.found", true),
		attribute.Bool("task.done", r.tasks[i].Done),
	)
}

// Delete removes the task with the given id.
func (r *TaskRepository) Delete(ctx context.Context, id string) {
	_, span := tracer.Start(ctx, "TaskRepository.Delete",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		span.SetAttributes(attribute.Bool("task.found", false))
		return
	}

	// Build a fresh slice so copies handed out by List stay intact.
	next := make([]model.Task, 0, len(r.tasks)-1)
	next = append(next, r.tasks[:i]...)
	r.tasks = append(next, r.tasks[i+1:]...)
	span.SetAttributes(attribute.Bool("task.found", true))
}

// List returns a copy of all tasks in insertion order.
func (r *TaskRepository) List(ctx context.Context) []model.Task {
	_, span := tracer.Start(ctx, "TaskRepository.List")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]model.Task, len(r.tasks))
	copy(tasks, r.tasks)

	span.SetAttributes(attribute.Int("task.count", len(tasks)))
	return tasks
}

// Summary computes statistics over the current collection.
func (r *TaskRepository) Summary(ctx context.Context) model.Summary {
	ctx, span := tracer.Start(ctx, "TaskRepository.Summary")
	defer span.End()

	s := model.Summarize(r.List(ctx))
	span.SetAttributes(
		attribute.Int("summary.total", s.Total),
		attribute.Int("summary.done", s.Done),
	)
	return s
}

// Count returns the current number of tasks.
func (r *TaskRepository) Count() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.tasks))
}

func (r *TaskRepository) indexOf(id string) int {
	for i, t := range r.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
