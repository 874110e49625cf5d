package confirm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmadqo/campus-console/internal/apiclient"
	"github.com/ahmadqo/campus-console/internal/model"
)

func rooms() []model.Record {
	return []model.Record{
		{"roomid": "RM_001", "roomname": "Lab A"},
		{"roomid": "RM_002", "roomname": "Hall"},
	}
}

func TestGuard_CancelMakesNoCall(t *testing.T) {
	var g Guard
	g.Request("RM_001", "Lab A")

	target, ok := g.Pending()
	require.True(t, ok)
	assert.Equal(t, Target{ID: "RM_001", Label: "Lab A"}, target)

	g.Cancel()
	_, ok = g.Pending()
	assert.False(t, ok)

	calls := 0
	_, err := g.Confirm(context.Background(), func(context.Context, string) error {
		calls++
		return nil
	}, rooms(), "roomid")
	assert.ErrorIs(t, err, ErrNothingPending)
	assert.Zero(t, calls)
}

func TestGuard_ConfirmRemovesOnSuccess(t *testing.T) {
	var g Guard
	g.Request("RM_001", "")

	var removed []string
	list, err := g.Confirm(context.Background(), func(_ context.Context, id string) error {
		removed = append(removed, id)
		return nil
	}, rooms(), "roomid")

	require.NoError(t, err)
	assert.Equal(t, []string{"RM_001"}, removed)
	require.Len(t, list, 1)
	assert.Equal(t, "RM_002", list[0].ID("roomid"))
}

func TestGuard_FailureLeavesList(t *testing.T) {
	var g Guard
	g.Request("RM_002", "Hall")

	list, err := g.Confirm(context.Background(), func(context.Context, string) error {
		return &apiclient.APIError{StatusCode: 500, Message: "room in use"}
	}, rooms(), "roomid")

	require.Error(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, "room in use", apiclient.ErrorMessage(err, "Failed to delete"))
}

func TestGuard_DoubleDeleteKeepsListConsistent(t *testing.T) {
	deleted := map[string]bool{}
	remove := func(_ context.Context, id string) error {
		if deleted[id] {
			return &apiclient.APIError{StatusCode: 404, Message: "not found"}
		}
		deleted[id] = true
		return nil
	}

	var g Guard
	g.Request("RM_001", "Lab A")
	list, err := g.Confirm(context.Background(), remove, rooms(), "roomid")
	require.NoError(t, err)
	require.Len(t, list, 1)

	g.Request("RM_001", "Lab A")
	again, err := g.Confirm(context.Background(), remove, list, "roomid")
	require.Error(t, err)
	assert.True(t, apiclient.IsNotFound(err))
	assert.Equal(t, list, again)
}
