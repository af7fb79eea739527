// Package view renders the HTML pages of the web front end.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/hiroki-koketsu/studysprint/internal/content"
	"github.com/hiroki-koketsu/studysprint/internal/model"
	"github.com/hiroki-koketsu/studysprint/internal/route"
)

//go:embed templates/*.html
var templateFS embed.FS

// FormState is the transient input of the task form.
type FormState struct {
	Title   string
	Minutes string
	Errors  model.FieldErrors
}

// DefaultForm returns the form as shown before any input.
func DefaultForm() FormState {
	return FormState{Minutes: strconv.Itoa(model.DefaultMinutes)}
}

type pageData struct {
	Title   string
	Nav     []route.Page
	Current route.Page

	Landing template.HTML
	Form    FormState
	Tasks   []model.Task
	Summary model.Summary
}

// Renderer executes the page templates.
type Renderer struct {
	pages   map[route.Page]*template.Template
	landing template.HTML
}

// NewRenderer parses the embedded templates and pre-renders the landing copy.
func NewRenderer() (*Renderer, error) {
	files := map[route.Page]string{
		route.Landing:  "templates/landing.html",
		route.Tasks:    "templates/tasks.html",
		route.Stats:    "templates/stats.html",
		route.NotFound: "templates/notfound.html",
	}

	r := &Renderer{pages: make(map[route.Page]*template.Template, len(files))}
	for page, file := range files {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		r.pages[page] = tmpl
	}

	landing, err := content.LandingHTML()
	if err != nil {
		return nil, err
	}
	r.landing = landing
	return r, nil
}

// Landing renders the landing page.
func (r *Renderer) Landing(w http.ResponseWriter) error {
	return r.render(w, http.StatusOK, pageData{Current: route.Landing, Landing: r.landing})
}

// Tasks renders the form and the task list. status is usually 200, or 422
// when the form is shown with validation errors.
func (r *Renderer) Tasks(w http.ResponseWriter, status int, form FormState, tasks []model.Task) error {
	return r.render(w, status, pageData{Current: route.Tasks, Form: form, Tasks: tasks})
}

// Stats renders the statistics page.
func (r *Renderer) Stats(w http.ResponseWriter, summary model.Summary) error {
	return r.render(w, http.StatusOK, pageData{Current: route.Stats, Summary: summary})
}

// NotFound renders the fallback page with status 404.
func (r *Renderer) NotFound(w http.ResponseWriter) error {
	return r.render(w, http.StatusNotFound, pageData{Current: route.NotFound})
}

func (r *Renderer) render(w http.ResponseWriter, status int, data pageData) error {
	data.Title = data.Current.Title()
	data.Nav = route.Nav()

	// Render into a buffer first so a template error never leaves a
	// half-written page behind.
	var buf bytes.Buffer
	if err := r.pages[data.Current].ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", data.Title, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
