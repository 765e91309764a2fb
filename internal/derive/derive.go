// Package derive computes view state from the task collection. Everything
// here is pure: inputs are never mutated and results are deterministic, so
// screens can recompute on every state change.
package derive

import (
	"sort"
	"strings"
	"time"

	"taskdeck/internal/model"
)

// Stats are the dashboard counters.
type Stats struct {
	Total      int `json:"total"`
	Done       int `json:"done"`
	InProgress int `json:"inProgress"`
	Overdue    int `json:"overdue"`
}

// ComputeStats counts tasks by status plus overdue tasks. A task is overdue
// when its due day is strictly before today's calendar day and it is not
// DONE; due-today is not overdue.
func ComputeStats(tasks []model.Task, now time.Time) Stats {
	st := Stats{Total: len(tasks)}
	today := truncateToDay(now)
	for _, t := range tasks {
		switch t.Status {
		case model.StatusDone:
			st.Done++
			continue
		case model.StatusInProgress:
			st.InProgress++
		}
		if due, ok := t.DueDay(now.Location()); ok && due.Before(today) {
			st.Overdue++
		}
	}
	return st
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StatusFilterAll matches every status.
const StatusFilterAll = "All"

const (
	SortByDueDate = "dueDate"
	SortByTitle   = "title"
)

// Query is the view-parameter set for filtered/sorted task lists.
type Query struct {
	StatusFilter string
	SearchText   string
	SortKey      string
}

// FilterAndSort applies the query to the tasks. A task is kept when the
// status filter is "All" or matches exactly, and the title contains the
// search text case-insensitively (empty search matches everything). The
// sort is stable; tasks without a parseable due date order after dated
// ones.
func FilterAndSort(tasks []model.Task, q Query) []model.Task {
	needle := strings.ToLower(strings.TrimSpace(q.SearchText))

	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if q.StatusFilter != "" && q.StatusFilter != StatusFilterAll && string(t.Status) != q.StatusFilter {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(t.Title), needle) {
			continue
		}
		out = append(out, t)
	}

	switch q.SortKey {
	case SortByDueDate:
		sort.SliceStable(out, func(i, j int) bool {
			di, iok := out[i].DueDay(time.UTC)
			dj, jok := out[j].DueDay(time.UTC)
			if iok != jok {
				return iok // dated tasks first
			}
			if !iok {
				return false
			}
			return di.Before(dj)
		})
	case SortByTitle:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Title < out[j].Title
		})
	}
	return out
}

// Recent returns the first n tasks in collection order (dashboard "Recent
// Tasks").
func Recent(tasks []model.Task, n int) []model.Task {
	if n > len(tasks) {
		n = len(tasks)
	}
	out := make([]model.Task, n)
	copy(out, tasks[:n])
	return out
}

// Severity is the semantic tag attached to a status badge. Rendering maps
// it to a color; other components may branch on it.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityNeutral Severity = "neutral"
)

// StatusLabel maps a status to its human label and severity tag.
func StatusLabel(s model.Status) (string, Severity) {
	switch s {
	case model.StatusDone:
		return "Done", SeveritySuccess
	case model.StatusInProgress:
		return "In Progress", SeverityWarning
	case model.StatusTodo:
		return "To Do", SeverityNeutral
	default:
		// Unknown statuses should not reach here (closed enumeration), but
		// render something sensible rather than panic.
		return titleCase(string(s)), SeverityNeutral
	}
}

func titleCase(s string) string {
	s = strings.ToLower(strings.ReplaceAll(s, "_", " "))
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
