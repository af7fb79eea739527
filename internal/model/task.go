package model

import (
	"sort"
	"strconv"
	"strings"
)

// Duration bounds for a task, in minutes.
const (
	MinMinutes     = 1
	MaxMinutes     = 200
	DefaultMinutes = 25
)

// Field names used as keys in FieldErrors.
const (
	FieldTitle   = "title"
	FieldMinutes = "minutes"
)

// Task represents a planned study task.
type Task struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Minutes int    `json:"minutes"`
	Done    bool   `json:"done"`
}

// Toggled returns a copy of the task with Done flipped.
func (t Task) Toggled() Task {
	t.Done = !t.Done
	return t
}

// Draft is a validated, normalized task payload that has no identifier yet.
type Draft struct {
	Title   string
	Minutes int
}

// Task turns the draft into a new, not yet done task.
func (d Draft) Task(id string) Task {
	return Task{
		ID:      id,
		Title:   d.Title,
		Minutes: d.Minutes,
		Done:    false,
	}
}

// FieldErrors maps a form field name to a human-readable message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "invalid task: " + strings.Join(parts, "; ")
}

// Validation messages shown next to the offending field.
const (
	MsgTitleRequired = "Title is required."
	MsgMinutesRange  = "Enter minutes between 1 and 200."
)

// Validate checks raw form input for a new task. Both fields are checked
// so that every problem is reported at once. On success the returned
// FieldErrors is nil.
func Validate(title, minutes string) (Draft, FieldErrors) {
	errs := FieldErrors{}

	title = strings.TrimSpace(title)
	if title == "" {
		errs[FieldTitle] = MsgTitleRequired
	}

	n, err := strconv.Atoi(strings.TrimSpace(minutes))
	if err != nil || n < MinMinutes || n > MaxMinutes {
		errs[FieldMinutes] = MsgMinutesRange
	}

	if len(errs) > 0 {
		return Draft{}, errs
	}
	return Draft{Title: title, Minutes: n}, nil
}

// Summary holds aggregate statistics over a task collection.
type Summary struct {
	Total   int `json:"total"`
	Done    int `json:"done"`
	Minutes int `json:"minutes"`
}

// Summarize counts tasks and sums the minutes of the ones that are done.
func Summarize(tasks []Task) Summary {
	s := Summary{Total: len(tasks)}
	for _, t := range tasks {
		if t.Done {
			s.Done++
			s.Minutes += t.Minutes
		}
	}
	return s
}
