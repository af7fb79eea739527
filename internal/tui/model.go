// Package tui is the terminal front end. The bubbletea model owns the only
// task repository of the process and handles one event at a time.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/hiroki-koketsu/studysprint/internal/content"
	"github.com/hiroki-koketsu/studysprint/internal/idgen"
	"github.com/hiroki-koketsu/studysprint/internal/model"
	"github.com/hiroki-koketsu/studysprint/internal/repository"
	"github.com/hiroki-koketsu/studysprint/internal/route"
	"github.com/hiroki-koketsu/studysprint/internal/telemetry"
)

type focus int

const (
	focusTitle focus = iota
	focusMinutes
	focusList
)

type keyMap struct {
	Quit    key.Binding
	Landing key.Binding
	Tasks   key.Binding
	Stats   key.Binding
	Goto    key.Binding
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	Delete  key.Binding
	Next    key.Binding
	Prev    key.Binding
	Submit  key.Binding
	Back    key.Binding
}

var keys = keyMap{
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Landing: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "landing")),
	Tasks:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "app")),
	Stats:   key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "stats")),
	Goto:    key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "go to path")),
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
	Delete:  key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
	Next:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
	Prev:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous field")),
	Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add")),
	Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "leave form")),
}

// Model is the bubbletea model of the terminal front end.
type Model struct {
	page   route.Page
	repo   *repository.TaskRepository
	ids    idgen.Generator
	logger *slog.Logger

	// Form state lives only while the task page is shown.
	title   textinput.Model
	minutes textinput.Model
	errs    model.FieldErrors
	focus   focus

	cursor int

	prompting bool
	prompt    textinput.Model
}

// New creates a model that starts on the landing page. A nil logger
// discards log output.
func New(repo *repository.TaskRepository, ids idgen.Generator, logger *slog.Logger) Model {
	if logger == nil {
		logger = telemetry.NewLocalLogger(nil, "studysprint-tui")
	}

	m := Model{
		page:   route.Landing,
		repo:   repo,
		ids:    ids,
		logger: logger,
	}

	m.title = textinput.New()
	m.title.Prompt = "> "
	m.title.Placeholder = "e.g. summarize chapter 3"

	m.minutes = textinput.New()
	m.minutes.Prompt = "> "

	m.prompt = textinput.New()
	m.prompt.Prompt = ":"
	m.prompt.Placeholder = "/app"

	m.resetForm()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.prompting {
		return m.updatePrompt(km)
	}
	if m.page == route.Tasks && m.focus != focusList {
		return m.updateForm(km)
	}

	switch {
	case key.Matches(km, keys.Quit):
		return m, tea.Quit
	case key.Matches(km, keys.Landing):
		return m.navigate(route.Landing)
	case key.Matches(km, keys.Tasks):
		return m.navigate(route.Tasks)
	case key.Matches(km, keys.Stats):
		return m.navigate(route.Stats)
	case key.Matches(km, keys.Goto):
		m.prompting = true
		m.prompt.SetValue("")
		return m, m.prompt.Focus()
	}

	if m.page == route.Tasks {
		return m.updateList(km)
	}
	return m, nil
}

// navigate switches pages. Leaving the task page discards the form.
func (m Model) navigate(page route.Page) (tea.Model, tea.Cmd) {
	if m.page == route.Tasks && page != route.Tasks {
		m.resetForm()
	}
	m.page = page
	m.logger.Debug("navigate", slog.String("page", page.Title()))

	if page == route.Tasks {
		return m, m.setFocus(focusTitle)
	}
	return m, nil
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.prompting = false
		m.prompt.Blur()
		return m, nil
	case "enter":
		m.prompting = false
		m.prompt.Blur()
		return m.navigate(route.Resolve(strings.TrimSpace(m.prompt.Value())))
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, keys.Back):
		return m, m.setFocus(focusList)
	case key.Matches(msg, keys.Next):
		return m, m.setFocus((m.focus + 1) % 3)
	case key.Matches(msg, keys.Prev):
		return m, m.setFocus((m.focus + 2) % 3)
	case key.Matches(msg, keys.Submit):
		return m.submit()
	}

	var cmd tea.Cmd
	if m.focus == focusTitle {
		m.title, cmd = m.title.Update(msg)
	} else {
		m.minutes, cmd = m.minutes.Update(msg)
	}
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	tasks := m.repo.List(ctx)

	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(tasks)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Toggle):
		if m.cursor < len(tasks) {
			m.repo.Toggle(ctx, tasks[m.cursor].ID)
		}
	case key.Matches(msg, keys.Delete):
		if m.cursor < len(tasks) {
			m.repo.Delete(ctx, tasks[m.cursor].ID)
			if m.cursor >= len(tasks)-1 && m.cursor > 0 {
				m.cursor--
			}
		}
	case key.Matches(msg, keys.Next):
		return m, m.setFocus(focusTitle)
	case key.Matches(msg, keys.Prev):
		return m, m.setFocus(focusMinutes)
	}
	return m, nil
}

// submit validates the form; on success the task is added and the form
// goes back to its defaults.
func (m Model) submit() (tea.Model, tea.Cmd) {
	draft, errs := model.Validate(m.title.Value(), m.minutes.Value())
	if errs != nil {
		m.errs = errs
		m.logger.Info("task form rejected", slog.Any("errors", errs))
		return m, nil
	}

	task := draft.Task(m.ids.NewID())
	m.repo.Add(context.Background(), task)
	m.logger.Info("task created", slog.String("id", task.ID), slog.Int("minutes", task.Minutes))

	m.resetForm()
	return m, m.setFocus(focusTitle)
}

func (m *Model) resetForm() {
	m.title.SetValue("")
	m.minutes.SetValue(strconv.Itoa(model.DefaultMinutes))
	m.minutes.CursorEnd()
	m.errs = nil
	m.focus = focusTitle
	m.title.Blur()
	m.minutes.Blur()
}

func (m *Model) setFocus(f focus) tea.Cmd {
	m.focus = f
	m.title.Blur()
	m.minutes.Blur()
	switch f {
	case focusTitle:
		return m.title.Focus()
	case focusMinutes:
		return m.minutes.Focus()
	}
	return nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.navView())
	b.WriteString("\n\n")

	switch m.page {
	case route.Landing:
		b.WriteString(m.landingView())
	case route.Tasks:
		b.WriteString(m.tasksView())
	case route.Stats:
		b.WriteString(m.statsView())
	default:
		b.WriteString("Page not found.\n")
		b.WriteString(mutedStyle.Render("Press 1 to go back to the start."))
	}

	b.WriteString("\n\n")
	if m.prompting {
		b.WriteString(m.prompt.View())
	} else {
		b.WriteString(helpStyle.Render(m.helpLine()))
	}
	return panelString(b.String())
}

func (m Model) navView() string {
	parts := make([]string, 0, len(route.Nav()))
	for i, p := range route.Nav() {
		label := fmt.Sprintf("%d %s", i+1, p.Title())
		if p == m.page {
			label = selectedStyle.Render(label)
		} else {
			label = accentStyle.Render(label)
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, "  ")
}

func (m Model) landingView() string {
	var lines []string
	for _, blk := range content.LandingBlocks() {
		switch blk.Kind {
		case content.Heading:
			lines = append(lines, titleStyle.Render(blk.Text), "")
		case content.ListItem:
			lines = append(lines, "• "+blk.Text)
		default:
			lines = append(lines, blk.Text)
		}
	}
	lines = append(lines, "", accentStyle.Render("Press 2 to open the app."))
	return strings.Join(lines, "\n")
}

func (m Model) tasksView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Tasks"))
	b.WriteString("\n\nTitle\n")
	b.WriteString(m.title.View())
	if msg := m.errs[model.FieldTitle]; msg != "" {
		b.WriteString("\n" + errorStyle.Render(msg))
	}
	b.WriteString("\nMinutes (1–200)\n")
	b.WriteString(m.minutes.View())
	if msg := m.errs[model.FieldMinutes]; msg != "" {
		b.WriteString("\n" + errorStyle.Render(msg))
	}
	b.WriteString("\n\n")

	tasks := m.repo.List(context.Background())
	if len(tasks) == 0 {
		b.WriteString(mutedStyle.Render("No tasks yet."))
		return b.String()
	}

	rows := make([]string, 0, len(tasks))
	for i, t := range tasks {
		prefix := "  "
		if m.focus == focusList && i == m.cursor {
			prefix = selectedStyle.Render("> ")
		}
		box := mutedStyle.Render(boxUnchecked)
		text := fmt.Sprintf("%s – %d min", t.Title, t.Minutes)
		if t.Done {
			box = successStyle.Render(boxChecked)
			text = doneStyle.Render(text)
		}
		rows = append(rows, prefix+box+" "+text)
	}
	b.WriteString(strings.Join(rows, "\n"))
	return b.String()
}

func (m Model) statsView() string {
	s := m.repo.Summary(context.Background())
	lines := []string{
		titleStyle.Render("Stats"),
		"",
		fmt.Sprintf("Total tasks: %d", s.Total),
		fmt.Sprintf("Done: %d", s.Done),
		fmt.Sprintf("Done minutes: %d", s.Minutes),
		"",
		mutedStyle.Render(progressBar(s.Done, s.Total, 28)),
	}
	return strings.Join(lines, "\n")
}

func (m Model) helpLine() string {
	var bindings []key.Binding
	switch {
	case m.page == route.Tasks && m.focus != focusList:
		bindings = []key.Binding{keys.Submit, keys.Next, keys.Back}
	case m.page == route.Tasks:
		bindings = []key.Binding{keys.Up, keys.Down, keys.Toggle, keys.Delete, keys.Next, keys.Landing, keys.Stats, keys.Goto, keys.Quit}
	default:
		bindings = []key.Binding{keys.Landing, keys.Tasks, keys.Stats, keys.Goto, keys.Quit}
	}

	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}
