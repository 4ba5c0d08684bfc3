// Package taskview selects which tasks a board view shows.
package taskview

import (
	"strings"

	apperrors "teamdesk/internal/errors"
	"teamdesk/internal/model"
)

// Kind is the view selector kind.
type Kind int

const (
	All Kind = iota
	Completed
	ByCategory
	Invoices
)

// Filter selects tasks for one board view. Category is only used with
// ByCategory.
type Filter struct {
	Kind     Kind
	Category model.Category
}

// Category returns a filter for open tasks in c.
func Category(c model.Category) Filter {
	return Filter{Kind: ByCategory, Category: c}
}

// ParseFilter reads a view selector: "all" (or empty), "completed",
// "invoices", or a category name such as "This Week".
func ParseFilter(raw string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "all":
		return Filter{Kind: All}, nil
	case "completed":
		return Filter{Kind: Completed}, nil
	case "invoices":
		return Filter{Kind: Invoices}, nil
	}
	for _, c := range model.Categories {
		if strings.EqualFold(string(c), strings.TrimSpace(raw)) {
			return Category(c), nil
		}
	}
	return Filter{}, apperrors.Validationf("unknown view %q", raw)
}

// Match reports whether t is visible under f.
func (f Filter) Match(t model.Task) bool {
	switch f.Kind {
	case All:
		return !t.Completed
	case Completed:
		return t.Completed
	case ByCategory:
		return t.Category == f.Category && !t.Completed
	default:
		return false
	}
}

// ListVisible returns the tasks visible under f, preserving input order.
// The Invoices view never yields tasks.
func ListVisible(tasks []model.Task, f Filter) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}
