package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ahmadqo/campus-console/internal/apiclient"
	"github.com/ahmadqo/campus-console/internal/confirm"
	"github.com/ahmadqo/campus-console/internal/derive"
	"github.com/ahmadqo/campus-console/internal/form"
	"github.com/ahmadqo/campus-console/internal/listview"
	"github.com/ahmadqo/campus-console/internal/logger"
	"github.com/ahmadqo/campus-console/internal/lookup"
	"github.com/ahmadqo/campus-console/internal/model"
	"github.com/ahmadqo/campus-console/internal/resource"
	"github.com/ahmadqo/campus-console/internal/store"
)

// PageData is everything one list page renders: the full primary list, the
// current page of it and the secondary lookups.
type PageData struct {
	Def     *resource.Definition
	Records []model.Record
	Page    listview.Page
	Lookups *lookup.Result
	// Err is set when the primary list could not be fetched; Records is
	// then empty.
	Err          string
	LookupErrors map[string]string
	// Fallback holds lookup maps read from the local cache when the live
	// source failed, keyed by cache name.
	Fallback map[string]map[string]string
}

// Options returns the choices of a select field.
func (d *PageData) Options(field string) []model.Option {
	f, ok := d.Def.Field(field)
	if !ok {
		return nil
	}
	if f.Lookup != "" {
		return d.Lookups.Map(f.Lookup).Options()
	}
	out := make([]model.Option, 0, len(f.Options))
	for _, o := range f.Options {
		out = append(out, model.Option{ID: o, Label: o})
	}
	return out
}

// Cell renders a record's field for a table, resolving foreign keys.
func (d *PageData) Cell(rec model.Record, field string) string {
	v := rec.String(field)
	if f, ok := d.Def.Field(field); ok && f.Lookup != "" && d.Lookups != nil {
		return d.Lookups.Map(f.Lookup).Label(v)
	}
	return v
}

type ResourceService interface {
	Catalog() *resource.Catalog
	LoadPage(ctx context.Context, name string, state *listview.State) (*PageData, error)
	List(ctx context.Context, name string) ([]model.Record, error)
	Record(ctx context.Context, name, id string) (model.Record, error)
	NewDraft(ctx context.Context, name string, records []model.Record) (model.Record, error)
	Editor(name string, data *PageData) (*form.Editor, error)
	Save(ctx context.Context, name string, ed *form.Editor) error
	Delete(ctx context.Context, name, id string, records []model.Record) ([]model.Record, error)
}

// hooks customise one resource on top of the generic behaviour.
type hooks struct {
	derivations func(s *resourceService, data *PageData) map[string]form.Derivation
	afterLoad   func(ctx context.Context, s *resourceService, data *PageData)
	add         func(ctx context.Context, s *resourceService, def *resource.Definition, payload model.Record) error
	baseID      func(id string) string
}

type resourceService struct {
	catalog   *resource.Catalog
	client    *apiclient.Client
	cache     store.CacheStore
	validator *form.Validator
	hooks     map[string]*hooks
}

func NewResourceService(catalog *resource.Catalog, client *apiclient.Client, cache store.CacheStore, validator *form.Validator) ResourceService {
	return &resourceService{
		catalog:   catalog,
		client:    client,
		cache:     cache,
		validator: validator,
		hooks: map[string]*hooks{
			resource.Courses:       courseHooks,
			resource.Students:      studentHooks,
			resource.FeeStructures: feeStructureHooks,
			resource.ExamRoutines:  examRoutineHooks,
		},
	}
}

func (s *resourceService) Catalog() *resource.Catalog {
	return s.catalog
}

func (s *resourceService) resource(def *resource.Definition) *apiclient.Resource {
	return s.client.Resource(def.Name, def.Endpoints())
}

func (s *resourceService) definition(name string) (*resource.Definition, error) {
	def, err := s.catalog.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, name)
	}
	return def, nil
}

func (s *resourceService) hooksFor(name string) *hooks {
	if h, ok := s.hooks[name]; ok {
		return h
	}
	return &hooks{}
}

// LoadPage fetches the primary list and every lookup at once. A failed
// primary fetch degrades to an empty list with Err set; a failed lookup
// degrades to an empty map. The only error returned is an unknown name.
func (s *resourceService) LoadPage(ctx context.Context, name string, state *listview.State) (*PageData, error) {
	def, err := s.definition(name)
	if err != nil {
		return nil, err
	}

	var (
		records []model.Record
		listErr error
		lookups *lookup.Result
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, listErr = s.resource(def).List(gctx)
		return nil
	})
	g.Go(func() error {
		lookups = lookup.Load(gctx, s.lookupSources(def)...)
		return nil
	})
	_ = g.Wait()

	data := &PageData{
		Def:          def,
		Lookups:      lookups,
		LookupErrors: map[string]string{},
		Fallback:     map[string]map[string]string{},
	}
	if listErr != nil {
		logger.Warn().Err(listErr).Str("resource", name).Msg("list fetch failed")
		data.Err = apiclient.ErrorMessage(listErr, def.FetchFailed())
		records = []model.Record{}
	}
	data.Records = records
	for src, err := range lookups.Errors {
		data.LookupErrors[src] = err.Error()
	}

	if h := s.hooksFor(name); h.afterLoad != nil {
		h.afterLoad(ctx, s, data)
	}

	if state == nil {
		state = &listview.State{Page: 1}
	}
	data.Page = state.Apply(records, def.SearchFields(), def.PageSize)
	return data, nil
}

func (s *resourceService) lookupSources(def *resource.Definition) []lookup.Source {
	names := def.Lookups()
	sources := make([]lookup.Source, 0, len(names))
	for _, name := range names {
		target, err := s.catalog.Get(name)
		if err != nil {
			continue
		}
		sources = append(sources, lookup.Source{
			Name:       target.Name,
			IDField:    target.IDField,
			LabelField: target.LabelField,
			Fetch:      s.resource(target).List,
		})
	}
	return sources
}

func (s *resourceService) List(ctx context.Context, name string) ([]model.Record, error) {
	def, err := s.definition(name)
	if err != nil {
		return nil, err
	}
	return s.resource(def).List(ctx)
}

func (s *resourceService) Record(ctx context.Context, name, id string) (model.Record, error) {
	def, err := s.definition(name)
	if err != nil {
		return nil, err
	}
	return s.resource(def).Get(ctx, id)
}

// NewDraft builds the add template with the next id filled in. records is
// the already loaded list; nil fetches it, and a failed fetch starts the
// numbering at PREFIX_001.
func (s *resourceService) NewDraft(ctx context.Context, name string, records []model.Record) (model.Record, error) {
	def, err := s.definition(name)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records, err = s.resource(def).List(ctx)
		if err != nil {
			logger.Warn().Err(err).Str("resource", name).Msg("next id computed without existing ids")
		}
	}

	baseID := s.hooksFor(name).baseID
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		id := rec.ID(def.IDField)
		if baseID != nil {
			id = baseID(id)
		}
		ids = append(ids, id)
	}

	draft := def.Blank()
	draft[def.IDField] = derive.NextID(def.IDPrefix, ids)
	return draft, nil
}

// Editor returns a closed editor wired with the resource's validation rules
// and derivations over the loaded page.
func (s *resourceService) Editor(name string, data *PageData) (*form.Editor, error) {
	def, err := s.definition(name)
	if err != nil {
		return nil, err
	}
	var derivations map[string]form.Derivation
	if h := s.hooksFor(name); h.derivations != nil && data != nil {
		derivations = h.derivations(s, data)
	}
	return form.NewEditor(s.validator, def.Rules(), derivations, def.SaveFailed()), nil
}

func (s *resourceService) Save(ctx context.Context, name string, ed *form.Editor) error {
	def, err := s.definition(name)
	if err != nil {
		return err
	}
	return ed.Submit(ctx, &saver{s: s, def: def, add: s.hooksFor(name).add})
}

// Delete removes id on the backend and returns records without it. On
// failure records come back unchanged.
func (s *resourceService) Delete(ctx context.Context, name, id string, records []model.Record) ([]model.Record, error) {
	def, err := s.definition(name)
	if err != nil {
		return records, err
	}

	var guard confirm.Guard
	guard.Request(id, "")
	out, err := guard.Confirm(ctx, s.resource(def).Remove, records, def.IDField)
	if err != nil {
		logger.Warn().Err(err).Str("resource", name).Str("id", id).Msg("delete failed")
		return out, err
	}
	logger.Info().Str("resource", name).Str("id", id).Msg("record deleted")
	return out, nil
}

// saver adapts a resource client to form.Saver, sending only the declared
// fields.
type saver struct {
	s   *resourceService
	def *resource.Definition
	add func(ctx context.Context, s *resourceService, def *resource.Definition, payload model.Record) error
}

func (sv *saver) Add(ctx context.Context, draft model.Record) error {
	payload := sv.def.Payload(draft)
	if sv.add != nil {
		return sv.add(ctx, sv.s, sv.def, payload)
	}
	_, err := sv.s.resource(sv.def).Add(ctx, payload)
	return err
}

func (sv *saver) Update(ctx context.Context, id string, draft model.Record) error {
	_, err := sv.s.resource(sv.def).Update(ctx, id, sv.def.Payload(draft))
	return err
}
