package repository

import (
	"context"
	"os"
	"testing"

	"github.com/hiroki-koketsu/studysprint/internal/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// The package tracer binds to the first global provider only, so the
// recorder is installed once for the whole test binary.
var recorder = tracetest.NewSpanRecorder()

func TestMain(m *testing.M) {
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	os.Exit(m.Run())
}

func seed(t *testing.T, r *TaskRepository, tasks ...model.Task) {
	t.Helper()
	for _, task := range tasks {
		r.Add(context.Background(), task)
	}
}

func ids(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAddKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	r := NewTaskRepository()
	seed(t, r,
		model.Task{ID: "a", Title: "Read", Minutes: 30},
		model.Task{ID: "b", Title: "Read", Minutes: 30},
		model.Task{ID: "c", Title: "Write", Minutes: 10},
	)

	got := ids(r.List(ctx))
	if want := []string{"a", "b", "c"}; !equalIDs(got, want) {
		t.Errorf("List() ids = %v, want %v", got, want)
	}
	if r.Count() != 3 {
		t.Errorf("Count() = %d, want 3", r.Count())
	}
}

func TestToggleTwiceRestoresDone(t *testing.T) {
	ctx := context.Background()
	r := NewTaskRepository()
	seed(t, r, model.Task{ID: "a", Title: "Read", Minutes: 30})

	r.Toggle(ctx, "a")
	if !r.List(ctx)[0].Done {
		t.Fatalf("task should be done after one toggle")
	}
	r.Toggle(ctx, "a")
	if r.List(ctx)[0].Done {
		t.Fatalf("task should not be done after two toggles")
	}
}

func TestToggleUnknownIDIsNoop(t *testing.T) {
	ctx := context.Background()
	r := NewTaskRepository()
	seed(t, r,
		model.Task{ID: "a", Title: "Read", Minutes: 30},
		model.Task{ID: "b", Title: "Write", Minutes: 10, Done: true},
	)
	before := r.List(ctx)

	r.Toggle(ctx, "missing")

	after := r.List(ctx)
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("task %d changed: %+v -> %+v", i, before[i], after[i])
		}
	}
}

func TestDeleteRemovesExactlyOne(t *testing.T) {
	ctx := context.Background()
	r := NewTaskRepository()
	seed(t, r,
		model.Task{ID: "a", Title: "Read", Minutes: 30},
		model.Task{ID: "b", Title: "Read", Minutes: 30},
		model.Task{ID: "c", Title: "Read", Minutes: 30},
	)
	snapshot := r.List(ctx)

	r.Delete(ctx, "b")

	if got, want := ids(r.List(ctx)), []string{"a", "c"}; !equalIDs(got, want) {
		t.Errorf("List() ids = %v, want %v", got, want)
	}
	if got := ids(snapshot); !equalIDs(got, []string{"a", "b", "c"}) {
		t.Errorf("earlier List() result was modified: %v", got)
	}

	r.Delete(ctx, "missing")
	if r.Count() != 2 {
		t.Errorf("Count() after unknown delete = %d, want 2", r.Count())
	}
}

func TestListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	r := NewTaskRepository()
	seed(t, r, model.Task{ID: "a", Title: "Read", Minutes: 30})

	list := r.List(ctx)
	list[0].Done = true

	if r.List(ctx)[0].Done {
		t.Errorf("mutating the returned slice changed the repository")
	}
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	r := NewTaskRepository()
	seed(t, r,
		model.Task{ID: "a", Title: "Read", Minutes: 30},
		model.Task{ID: "b", Title: "Write", Minutes: 20},
		model.Task{ID: "c", Title: "Revise", Minutes: 50},
	)
	r.Toggle(ctx, "a")
	r.Toggle(ctx, "c")

	want := model.Summary{Total: 3, Done: 2, Minutes: 80}
	if got := r.Summary(ctx); got != want {
		t.Errorf("Summary() = %+v, want %+v", got, want)
	}
}

func TestToggleRecordsSpan(t *testing.T) {
	ctx := context.Background()
	r := NewTaskRepository()
	seed(t, r, model.Task{ID: "span-task", Title: "Read", Minutes: 30})

	r.Toggle(ctx, "span-task")
	r.Toggle(ctx, "span-missing")

	found := map[string]bool{}
	for _, s := range recorder.Ended() {
		if s.Name() != "TaskRepository.Toggle" {
			continue
		}
		var id string
		var ok, hasFound bool
		for _, kv := range s.Attributes() {
			switch kv.Key {
			case attribute.Key("task.id"):
				id = kv.Value.AsString()
			case attribute.Key("task.found"):
				ok, hasFound = kv.Value.AsBool(), true
			}
		}
		if hasFound {
			found[id] = ok
		}
	}

	if v, seen := found["span-task"]; !seen || !v {
		t.Errorf("expected a found=true span for span-task, got %v", found)
	}
	if v, seen := found["span-missing"]; !seen || v {
		t.Errorf("expected a found=false span for span-missing, got %v", found)
	}
}

func TestNewTaskRepositoryCopiesInitialTasks(t *testing.T) {
	ctx := context.Background()
	initial := []model.Task{
		{ID: "t1", Title: "Read", Minutes: 30},
		{ID: "t2", Title: "Write", Minutes: 45},
	}
	r := NewTaskRepository(initial...)

	r.Toggle(ctx, "t1")
	r.Add(ctx, model.Task{ID: "t3", Title: "Review", Minutes: 10})
	if initial[0].Done {
		t.Errorf("Toggle mutated the initial slice")
	}
	if got := r.Count(); got != 3 {
		t.Errorf("Count() = %d, want 3", got)
	}
}
