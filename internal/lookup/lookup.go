// Package lookup loads secondary reference lists in parallel and turns
// them into id to label maps.
package lookup

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ahmadqo/campus-console/internal/logger"
	"github.com/ahmadqo/campus-console/internal/model"
)

// FetchFunc returns the records of one secondary resource.
type FetchFunc func(ctx context.Context) ([]model.Record, error)

// Source describes one reference list: where to fetch it and which fields
// carry the id and the human label.
type Source struct {
	Name       string
	IDField    string
	LabelField string
	Fetch      FetchFunc
}

// Map is an insertion-ordered id to label dictionary.
type Map struct {
	ids    []string
	labels map[string]string
}

// NewMap builds a map from records. Records without an id are skipped; the
// first record wins on duplicate ids. An empty label falls back to the id.
func NewMap(records []model.Record, idField, labelField string) *Map {
	m := &Map{labels: make(map[string]string, len(records))}
	for _, rec := range records {
		id := rec.ID(idField)
		if id == "" {
			continue
		}
		if _, dup := m.labels[id]; dup {
			continue
		}
		label := rec.String(labelField)
		if label == "" {
			label = id
		}
		m.ids = append(m.ids, id)
		m.labels[id] = label
	}
	return m
}

// Label resolves id to its label, or returns id unchanged when it does not
// resolve.
func (m *Map) Label(id string) string {
	if m == nil {
		return id
	}
	if label, ok := m.labels[id]; ok {
		return label
	}
	return id
}

func (m *Map) Has(id string) bool {
	if m == nil {
		return false
	}
	_, ok := m.labels[id]
	return ok
}

func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.ids)
}

// Options lists the entries in fetch order for a select.
func (m *Map) Options() []model.Option {
	if m == nil {
		return []model.Option{}
	}
	out := make([]model.Option, 0, len(m.ids))
	for _, id := range m.ids {
		out = append(out, model.Option{ID: id, Label: m.labels[id]})
	}
	return out
}

// Result holds every loaded source. A failed source has an empty map and
// its error in Errors.
type Result struct {
	Maps    map[string]*Map
	Records map[string][]model.Record
	Errors  map[string]error

	idFields map[string]string
}

// Map returns the named map; unknown names yield an empty map so callers
// fall back to raw ids.
func (r *Result) Map(name string) *Map {
	if m, ok := r.Maps[name]; ok {
		return m
	}
	return &Map{labels: map[string]string{}}
}

// Record returns the full cached record of a source by id.
func (r *Result) Record(source, id string) (model.Record, bool) {
	idField := r.idFields[source]
	for _, rec := range r.Records[source] {
		if rec.ID(idField) == id {
			return rec, true
		}
	}
	return nil, false
}

// Load fetches all sources at once. A failure in one source never cancels
// the others: errgroup is used only to join, and every goroutine returns
// nil.
func Load(ctx context.Context, sources ...Source) *Result {
	res := &Result{
		Maps:     make(map[string]*Map, len(sources)),
		Records:  make(map[string][]model.Record, len(sources)),
		Errors:   map[string]error{},
		idFields: make(map[string]string, len(sources)),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, src := range sources {
		src := src
		g.Go(func() error {
			records, err := src.Fetch(gctx)
			if err != nil {
				logger.Warn().Err(err).Str("source", src.Name).Msg("lookup degraded to empty list")
				records = []model.Record{}
			}

			m := NewMap(records, src.IDField, src.LabelField)

			mu.Lock()
			defer mu.Unlock()
			res.Maps[src.Name] = m
			res.Records[src.Name] = records
			res.idFields[src.Name] = src.IDField
			if err != nil {
				res.Errors[src.Name] = err
			}
			return nil
		})
	}
	_ = g.Wait()

	return res
}
