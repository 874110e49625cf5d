// Package confirm guards destructive calls behind an explicit confirmation
// step.
package confirm

import (
	"context"
	"errors"

	"github.com/ahmadqo/campus-console/internal/listview"
	"github.com/ahmadqo/campus-console/internal/model"
)

var ErrNothingPending = errors.New("no delete is pending confirmation")

// Target is the record awaiting confirmation.
type Target struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// RemoveFunc issues the delete call.
type RemoveFunc func(ctx context.Context, id string) error

// Guard holds at most one pending delete.
type Guard struct {
	pending *Target
}

// Request stores the target; nothing is sent to the backend.
func (g *Guard) Request(id, label string) {
	if label == "" {
		label = id
	}
	g.pending = &Target{ID: id, Label: label}
}

// Pending returns the target awaiting confirmation.
func (g *Guard) Pending() (Target, bool) {
	if g.pending == nil {
		return Target{}, false
	}
	return *g.pending, true
}

// Cancel clears the pending target with no network effect.
func (g *Guard) Cancel() {
	g.pending = nil
}

// Confirm issues the delete. On success it returns records without the
// target; on failure it returns records unchanged together with the error.
// Either way the pending state is cleared.
func (g *Guard) Confirm(ctx context.Context, remove RemoveFunc, records []model.Record, idField string) ([]model.Record, error) {
	if g.pending == nil {
		return records, ErrNothingPending
	}
	target := *g.pending
	g.pending = nil

	if err := remove(ctx, target.ID); err != nil {
		return records, err
	}
	return listview.Remove(records, idField, target.ID), nil
}
