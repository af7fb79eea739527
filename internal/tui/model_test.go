package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hiroki-koketsu/studysprint/internal/idgen"
	"github.com/hiroki-koketsu/studysprint/internal/model"
	"github.com/hiroki-koketsu/studysprint/internal/repository"
	"github.com/hiroki-koketsu/studysprint/internal/route"
)

func newTestModel() (Model, *repository.TaskRepository) {
	repo := repository.NewTaskRepository()
	return New(repo, idgen.NewSequence("task"), nil), repo
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyTab       = tea.KeyMsg{Type: tea.KeyTab}
	keyEnter     = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc       = tea.KeyMsg{Type: tea.KeyEsc}
	keySpace     = tea.KeyMsg{Type: tea.KeySpace}
	keyBackspace = tea.KeyMsg{Type: tea.KeyBackspace}
)

// typeMinutes replaces the minutes field, which starts out as "25".
func typeMinutes(s string) []tea.Msg {
	return []tea.Msg{keyTab, keyBackspace, keyBackspace, keyBackspace, runes(s)}
}

func TestStartsOnLanding(t *testing.T) {
	m, _ := newTestModel()
	if m.page != route.Landing {
		t.Fatalf("initial page = %v, want Landing", m.page)
	}
	view := m.View()
	for _, want := range []string{"StudySprint", "• Add, check off and delete tasks", "Press 2 to open the app."} {
		if !strings.Contains(view, want) {
			t.Errorf("landing view missing %q:\n%s", want, view)
		}
	}
}

func TestNavigationKeys(t *testing.T) {
	m, _ := newTestModel()

	m = send(t, m, runes("3"))
	if m.page != route.Stats {
		t.Errorf("after 3 page = %v, want Stats", m.page)
	}
	m = send(t, m, runes("1"))
	if m.page != route.Landing {
		t.Errorf("after 1 page = %v, want Landing", m.page)
	}
	m = send(t, m, runes("2"))
	if m.page != route.Tasks || m.focus != focusTitle {
		t.Errorf("after 2 page = %v focus = %v, want Tasks with title focused", m.page, m.focus)
	}
}

func TestGotoPrompt(t *testing.T) {
	m, _ := newTestModel()

	m = send(t, m, runes(":"), runes("/nope"), keyEnter)
	if m.page != route.NotFound {
		t.Errorf("page = %v, want NotFound", m.page)
	}
	if !strings.Contains(m.View(), "Page not found.") {
		t.Errorf("not found view missing fallback text")
	}

	m = send(t, m, runes(":"), runes("/stats"), keyEnter)
	if m.page != route.Stats {
		t.Errorf("page = %v, want Stats", m.page)
	}

	m = send(t, m, runes(":"), runes("/app"), keyEsc)
	if m.page != route.Stats || m.prompting {
		t.Errorf("esc should cancel the prompt, page = %v prompting = %v", m.page, m.prompting)
	}
}

func TestEndToEnd(t *testing.T) {
	ctx := context.Background()
	m, repo := newTestModel()

	m = send(t, m, runes("2"), runes("Read"))
	m = send(t, m, typeMinutes("30")...)
	m = send(t, m, keyEnter)

	tasks := repo.List(ctx)
	want := model.Task{ID: "task-1", Title: "Read", Minutes: 30}
	if len(tasks) != 1 || tasks[0] != want {
		t.Fatalf("tasks = %+v, want [%+v]", tasks, want)
	}
	if m.title.Value() != "" || m.minutes.Value() != "25" || m.errs != nil {
		t.Errorf("form not reset: title=%q minutes=%q errs=%v", m.title.Value(), m.minutes.Value(), m.errs)
	}
	if !strings.Contains(m.View(), "Read – 30 min") {
		t.Errorf("task row missing from view:\n%s", m.View())
	}

	m = send(t, m, keyEsc, keySpace)
	if !repo.List(ctx)[0].Done {
		t.Fatalf("space should toggle the selected task")
	}

	m = send(t, m, runes("3"))
	view := m.View()
	for _, want := range []string{"Total tasks: 1", "Done: 1", "Done minutes: 30"} {
		if !strings.Contains(view, want) {
			t.Errorf("stats view missing %q:\n%s", want, view)
		}
	}

	m = send(t, m, runes("2"), keyEsc, runes("d"), runes("3"))
	if repo.Count() != 0 {
		t.Fatalf("d should delete the selected task")
	}
	if !strings.Contains(m.View(), "Total tasks: 0") {
		t.Errorf("stats should show no tasks:\n%s", m.View())
	}
}

func TestSubmitShowsValidationErrors(t *testing.T) {
	m, repo := newTestModel()

	m = send(t, m, runes("2"), keyEnter)
	if m.errs[model.FieldTitle] != model.MsgTitleRequired || m.errs[model.FieldMinutes] != "" {
		t.Errorf("errs = %v, want only the title error", m.errs)
	}

	m = send(t, m, typeMinutes("abc")...)
	m = send(t, m, keyEnter)
	if len(m.errs) != 2 {
		t.Errorf("errs = %v, want both errors", m.errs)
	}
	if repo.Count() != 0 {
		t.Errorf("invalid input reached the store")
	}
	view := m.View()
	if !strings.Contains(view, model.MsgTitleRequired) || !strings.Contains(view, model.MsgMinutesRange) {
		t.Errorf("errors not rendered:\n%s", view)
	}

	// Leaving the page discards the form.
	m = send(t, m, keyEsc, runes("1"), runes("2"))
	if m.errs != nil || m.minutes.Value() != "25" {
		t.Errorf("form state survived navigation: errs=%v minutes=%q", m.errs, m.minutes.Value())
	}
}

func TestListCursorAndDelete(t *testing.T) {
	ctx := context.Background()
	m, repo := newTestModel()
	m = send(t, m, runes("2"))
	for _, title := range []string{"A", "B", "C"} {
		m = send(t, m, runes(title), keyEnter)
	}
	if repo.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", repo.Count())
	}

	m = send(t, m, keyEsc, runes("j"), runes("j"), runes("j"))
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2 (clamped)", m.cursor)
	}

	m = send(t, m, runes("d"))
	if m.cursor != 1 {
		t.Errorf("cursor after deleting the last row = %d, want 1", m.cursor)
	}
	got := repo.List(ctx)
	if len(got) != 2 || got[0].Title != "A" || got[1].Title != "B" {
		t.Errorf("tasks = %+v, want A and B", got)
	}

	m = send(t, m, runes("k"), runes("k"), keySpace)
	if !repo.List(ctx)[0].Done || repo.List(ctx)[1].Done {
		t.Errorf("space should toggle only the first task")
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel()

	m = send(t, m, runes("2"), runes("q"))
	if m.title.Value() != "q" || m.page != route.Tasks {
		t.Fatalf("q inside the title field should type, got %q on %v", m.title.Value(), m.page)
	}

	m = send(t, m, keyEsc)
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("q in the list should quit")
	}
	if _, isQuit := cmd().(tea.QuitMsg); !isQuit {
		t.Errorf("expected tea.QuitMsg")
	}
}

func TestProgressBar(t *testing.T) {
	if got := progressBar(1, 2, 4); got != "[██░░] 1/2" {
		t.Errorf("progressBar(1, 2, 4) = %q", got)
	}
	if got := progressBar(0, 0, 4); got != "[░░░░] 0/1" {
		t.Errorf("progressBar(0, 0, 4) = %q", got)
	}
}

func TestFormDoesNotTruncateInput(t *testing.T) {
	ctx := context.Background()
	m, repo := newTestModel()

	m = send(t, m, runes("2"), runes("Read"))
	m = send(t, m, typeMinutes("2000")...)
	m = send(t, m, keyEnter)
	if m.minutes.Value() != "2000" {
		t.Errorf("minutes = %q, want 2000", m.minutes.Value())
	}
	if m.errs[model.FieldMinutes] != model.MsgMinutesRange || repo.Count() != 0 {
		t.Errorf("2000 minutes should be rejected, errs = %v", m.errs)
	}

	long := strings.Repeat("x", 250)
	m = send(t, m, keyEsc, runes("1"), runes("2"), runes(long), keyEnter)
	tasks := repo.List(ctx)
	if len(tasks) != 1 || tasks[0].Title != long {
		t.Errorf("long title was not stored in full: %d tasks", len(tasks))
	}
}
