package handler

import (
	"net/http"
	"strings"

	"github.com/ahmadqo/campus-console/internal/model"
	"github.com/ahmadqo/campus-console/internal/resource"
)

const (
	prevPrefix   = "_prev_"
	touchedInput = "_touched"
)

// submission is one POST of the record editor. The page carries the draft
// as it was rendered in _prev_<field> inputs, so the fields the operator
// changed since then are the edits of this round trip.
type submission struct {
	mode    string
	id      string
	action  string
	prev    model.Record
	changes map[string]string
	order   []string
	touched []string
}

func parseSubmission(def *resource.Definition, r *http.Request) submission {
	s := submission{
		mode:    r.PostFormValue("_mode"),
		id:      strings.TrimSpace(r.PostFormValue("_id")),
		action:  r.PostFormValue("_action"),
		prev:    model.Record{},
		changes: map[string]string{},
	}

	for _, f := range def.Fields {
		prev := r.PostFormValue(prevPrefix + f.Name)
		s.prev[f.Name] = prev

		values, posted := r.PostForm[f.Name]
		if !posted || len(values) == 0 {
			continue
		}
		if cur := values[0]; cur != prev {
			s.changes[f.Name] = cur
			s.order = append(s.order, f.Name)
		}
	}

	for _, f := range strings.Split(r.PostFormValue(touchedInput), ",") {
		if f = strings.TrimSpace(f); f != "" {
			s.touched = append(s.touched, f)
		}
	}
	return s
}
