// Package resource describes every backend entity the console manages:
// its id convention, endpoints, fields, validation and lookups.
package resource

import (
	"errors"
	"strings"

	"github.com/ahmadqo/campus-console/internal/apiclient"
	"github.com/ahmadqo/campus-console/internal/form"
	"github.com/ahmadqo/campus-console/internal/model"
)

var ErrUnknownResource = errors.New("unknown resource")

// Kind selects the input control for a field.
type Kind string

const (
	Text     Kind = "text"
	TextArea Kind = "textarea"
	Number   Kind = "number"
	Date     Kind = "date"
	Time     Kind = "time"
	Email    Kind = "email"
	Color    Kind = "color"
	Select   Kind = "select"
)

// Style is the backend's path convention for one resource.
type Style int

const (
	// REST: GET/POST base, GET/PUT/DELETE base/{id}
	REST Style = iota
	// Action: base/list, base/add, base/update/{id}, base/delete/{id}
	Action
)

// Field is one column of a record.
type Field struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Kind  Kind   `json:"kind"`
	// Lookup names the resource whose id to label map fills this select
	Lookup string `json:"lookup,omitempty"`
	// Options are the fixed choices of a Select without Lookup
	Options []string `json:"options,omitempty"`
	// Rules is a validator tag string such as "required,pin"
	Rules    string `json:"rules,omitempty"`
	Default  string `json:"default,omitempty"`
	Display  bool   `json:"display"`
	Search   bool   `json:"search"`
	ReadOnly bool   `json:"read_only"`
}

// Definition is one entity type.
type Definition struct {
	Name     string
	Title    string
	Singular string
	IDField  string
	IDPrefix string
	// LabelField is shown when another resource refers to this one
	LabelField string
	Style      Style
	Path       string
	PageSize   int
	Fields     []Field
}

// Endpoints builds the backend paths for the definition's style.
func (d *Definition) Endpoints() apiclient.Endpoints {
	if d.Style == Action {
		return apiclient.ActionEndpoints(d.Path)
	}
	return apiclient.RESTEndpoints(d.Path)
}

// Field returns the named field.
func (d *Definition) Field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// DisplayFields are the table columns.
func (d *Definition) DisplayFields() []Field {
	out := make([]Field, 0, len(d.Fields))
	for _, f := range d.Fields {
		if f.Display {
			out = append(out, f)
		}
	}
	return out
}

// SearchFields are the fields the free-text query matches against.
func (d *Definition) SearchFields() []string {
	out := make([]string, 0, len(d.Fields))
	for _, f := range d.Fields {
		if f.Search {
			out = append(out, f.Name)
		}
	}
	return out
}

// Lookups lists the distinct resources this definition's selects need.
func (d *Definition) Lookups() []string {
	seen := map[string]bool{}
	var out []string
	for _, f := range d.Fields {
		if f.Lookup != "" && !seen[f.Lookup] {
			seen[f.Lookup] = true
			out = append(out, f.Lookup)
		}
	}
	return out
}

// Rules returns the validation rules of every field that has any.
func (d *Definition) Rules() []form.Rule {
	out := make([]form.Rule, 0, len(d.Fields))
	for _, f := range d.Fields {
		if f.Rules != "" {
			out = append(out, form.Rule{Field: f.Name, Label: f.Label, Tags: f.Rules})
		}
	}
	return out
}

// Blank is the add template: every field present, defaults applied.
func (d *Definition) Blank() model.Record {
	rec := make(model.Record, len(d.Fields))
	for _, f := range d.Fields {
		rec[f.Name] = f.Default
	}
	return rec
}

// Payload keeps only the known fields of a draft, trimmed. Unknown keys
// the backend sent along (timestamps, joins) are not echoed back.
func (d *Definition) Payload(draft model.Record) model.Record {
	out := make(model.Record, len(d.Fields))
	for _, f := range d.Fields {
		v, ok := draft[f.Name]
		if !ok {
			continue
		}
		if s, isString := v.(string); isString {
			v = strings.TrimSpace(s)
		}
		out[f.Name] = v
	}
	return out
}

func (d *Definition) FetchFailed() string  { return "Failed to fetch " + strings.ToLower(d.Title) }
func (d *Definition) SaveFailed() string   { return "Failed to save " + strings.ToLower(d.Singular) }
func (d *Definition) DeleteFailed() string { return "Failed to delete " + strings.ToLower(d.Singular) }

// Catalog indexes definitions by name in menu order.
type Catalog struct {
	order []string
	defs  map[string]*Definition
}

func NewCatalog(defs ...*Definition) *Catalog {
	c := &Catalog{defs: make(map[string]*Definition, len(defs))}
	for _, d := range defs {
		c.order = append(c.order, d.Name)
		c.defs[d.Name] = d
	}
	return c
}

func (c *Catalog) Get(name string) (*Definition, error) {
	d, ok := c.defs[name]
	if !ok {
		return nil, ErrUnknownResource
	}
	return d, nil
}

func (c *Catalog) All() []*Definition {
	out := make([]*Definition, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.defs[name])
	}
	return out
}

// ApplyRoutes replaces each definition's base path with routeFor's answer,
// e.g. config.Config.RouteFor.
func (c *Catalog) ApplyRoutes(routeFor func(name, fallback string) string) {
	for _, d := range c.defs {
		d.Path = routeFor(d.Name, d.Path)
	}
}
