// Package form holds the add/edit editor: a draft record, user edits with
// derived defaults, validation and submission.
package form

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmadqo/campus-console/internal/apiclient"
	"github.com/ahmadqo/campus-console/internal/model"
)

// State of the editor modal.
type State int

const (
	Closed State = iota
	OpenAdd
	OpenEdit
	Submitting
)

func (s State) String() string {
	switch s {
	case OpenAdd:
		return "add"
	case OpenEdit:
		return "edit"
	case Submitting:
		return "submitting"
	default:
		return "closed"
	}
}

var (
	ErrNotOpen         = errors.New("editor is not open")
	ErrValidation      = errors.New("validation failed")
	ErrAlreadyInFlight = errors.New("submit already in progress")
)

// Derivation fills other fields from the value just chosen for one field.
// It returns the fields to set; an empty string value clears a field.
type Derivation func(ctx context.Context, value string, draft model.Record) (map[string]any, error)

// Saver is the create/update half of a resource client.
type Saver interface {
	Add(ctx context.Context, draft model.Record) error
	Update(ctx context.Context, id string, draft model.Record) error
}

// Editor is the modal state machine:
//
//	Closed -> OpenAdd|OpenEdit -> Submitting -> Closed
//	Submitting -> OpenAdd|OpenEdit on failure
type Editor struct {
	state     State
	openState State
	editID    string
	draft     model.Record
	touched   map[string]bool
	errMsg    string
	fieldErrs Errors

	derivations map[string]Derivation
	rules       []Rule
	validator   *Validator
	fallback    string
}

// NewEditor builds a closed editor. fallback is the message shown when a
// failed submit carries no server message.
func NewEditor(v *Validator, rules []Rule, derivations map[string]Derivation, fallback string) *Editor {
	if derivations == nil {
		derivations = map[string]Derivation{}
	}
	return &Editor{
		state:       Closed,
		validator:   v,
		rules:       rules,
		derivations: derivations,
		fallback:    fallback,
		touched:     map[string]bool{},
	}
}

func (e *Editor) State() State          { return e.state }
func (e *Editor) Draft() model.Record   { return e.draft }
func (e *Editor) EditID() string        { return e.editID }
func (e *Editor) Err() string           { return e.errMsg }
func (e *Editor) FieldErrors() Errors   { return e.fieldErrs }
func (e *Editor) IsOpen() bool          { return e.state == OpenAdd || e.state == OpenEdit }
func (e *Editor) Touched(f string) bool { return e.touched[f] }

// OpenAdd starts a new draft from a blank template.
func (e *Editor) OpenAdd(template model.Record) {
	e.reset()
	e.state, e.openState = OpenAdd, OpenAdd
	e.draft = template.Clone()
}

// OpenEdit starts a draft from an existing record.
func (e *Editor) OpenEdit(id string, rec model.Record) {
	e.reset()
	e.state, e.openState = OpenEdit, OpenEdit
	e.editID = id
	e.draft = rec.Clone()
}

// MarkTouched restores fields the user edited in an earlier round trip.
func (e *Editor) MarkTouched(fields ...string) {
	for _, f := range fields {
		if f != "" {
			e.touched[f] = true
		}
	}
}

// TouchedFields lists the user-edited fields.
func (e *Editor) TouchedFields() []string {
	out := make([]string, 0, len(e.touched))
	for f := range e.touched {
		out = append(out, f)
	}
	return out
}

// Set records one user edit and runs that field's derivation.
func (e *Editor) Set(ctx context.Context, field, value string) error {
	return e.Apply(ctx, map[string]string{field: value}, nil)
}

// Apply records user edits, then runs the derivation of each changed field
// in order. Every changed field is marked touched before any derivation
// runs, so derived values never overwrite something the user typed.
func (e *Editor) Apply(ctx context.Context, changes map[string]string, order []string) error {
	if !e.IsOpen() {
		return ErrNotOpen
	}

	for f, v := range changes {
		e.draft[f] = v
		e.touched[f] = true
	}

	if order == nil {
		order = make([]string, 0, len(changes))
		for f := range changes {
			order = append(order, f)
		}
	}

	var errs []error
	for _, f := range order {
		v, changed := changes[f]
		if !changed {
			continue
		}
		derive, ok := e.derivations[f]
		if !ok {
			continue
		}
		derived, err := derive(ctx, v, e.draft)
		if err != nil {
			errs = append(errs, fmt.Errorf("derive from %s: %w", f, err))
		}
		for target, val := range derived {
			if e.touched[target] {
				continue
			}
			e.draft[target] = val
		}
	}
	return errors.Join(errs...)
}

// Submit validates the draft and, when it passes, saves it. On success the
// editor closes and the draft is cleared; the caller refreshes the list.
// On failure the editor returns to its open state with Err set.
func (e *Editor) Submit(ctx context.Context, saver Saver) error {
	if e.state == Submitting {
		return ErrAlreadyInFlight
	}
	if !e.IsOpen() {
		return ErrNotOpen
	}

	e.errMsg = ""
	e.fieldErrs = nil
	e.state = Submitting

	if errs := e.validator.Validate(e.draft, e.rules); errs.HasErrors() {
		e.state = e.openState
		e.fieldErrs = errs
		e.errMsg = "Please correct the highlighted fields"
		return fmt.Errorf("%w: %s", ErrValidation, errs.Error())
	}

	var err error
	if e.openState == OpenAdd {
		err = saver.Add(ctx, e.draft)
	} else {
		err = saver.Update(ctx, e.editID, e.draft)
	}
	if err != nil {
		e.state = e.openState
		e.errMsg = apiclient.ErrorMessage(err, e.fallback)
		return err
	}

	e.reset()
	return nil
}

// Cancel discards the draft.
func (e *Editor) Cancel() {
	e.reset()
}

func (e *Editor) reset() {
	e.state = Closed
	e.openState = Closed
	e.editID = ""
	e.draft = nil
	e.errMsg = ""
	e.fieldErrs = nil
	e.touched = map[string]bool{}
}
