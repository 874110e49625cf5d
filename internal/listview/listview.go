// Package listview filters and pages an in-memory record list. All records
// are fetched up front; nothing here talks to the network.
package listview

import (
	"strings"

	"github.com/ahmadqo/campus-console/internal/model"
)

// State is the per-page query and 1-based page number.
type State struct {
	Query string
	Page  int
}

// Page is one rendered slice of a filtered list.
type Page struct {
	Items      []model.Record `json:"items"`
	Query      string         `json:"query"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
	TotalItems int            `json:"total_items"`
}

// HasPrev and HasNext drive the pager links.
func (p Page) HasPrev() bool { return p.Page > 1 }
func (p Page) HasNext() bool { return p.Page < p.TotalPages }

// SetQuery changes the search text and jumps back to page 1.
func (s *State) SetQuery(q string) {
	s.Query = q
	s.Page = 1
}

// Apply filters, clamps the page against the filtered total and slices.
func (s *State) Apply(records []model.Record, fields []string, size int) Page {
	filtered := Filter(records, s.Query, fields)
	total := TotalPages(len(filtered), size)
	s.Page = Clamp(s.Page, total)

	return Page{
		Items:      Paginate(filtered, s.Page, size),
		Query:      s.Query,
		Page:       s.Page,
		PageSize:   size,
		TotalPages: total,
		TotalItems: len(filtered),
	}
}

// Filter keeps records where at least one of fields, string-coerced and
// lower-cased, contains the lower-cased query. An empty query returns
// records unchanged.
func Filter(records []model.Record, query string, fields []string) []model.Record {
	if query == "" {
		return records
	}
	q := strings.ToLower(query)

	out := make([]model.Record, 0, len(records))
	for _, rec := range records {
		for _, f := range fields {
			if strings.Contains(strings.ToLower(rec.String(f)), q) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

// Paginate returns records[(page-1)*size : page*size], bounded to the slice.
func Paginate(records []model.Record, page, size int) []model.Record {
	if size <= 0 || page < 1 {
		return []model.Record{}
	}
	start := (page - 1) * size
	if start >= len(records) {
		return []model.Record{}
	}
	end := start + size
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}

// TotalPages is max(1, ceil(n/size)).
func TotalPages(n, size int) int {
	if size <= 0 || n <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

// Clamp keeps page within [1, total].
func Clamp(page, total int) int {
	if total < 1 {
		total = 1
	}
	if page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}

// Remove returns records without the one whose idField equals id. The
// input slice is not modified.
func Remove(records []model.Record, idField, id string) []model.Record {
	out := make([]model.Record, 0, len(records))
	for _, rec := range records {
		if rec.ID(idField) != id {
			out = append(out, rec)
		}
	}
	return out
}
