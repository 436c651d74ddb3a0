package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sourcing/internal/models"
)

//// Operator pause / resume

func TestPauseRequiresReason(t *testing.T) {
	svc, store, gw := newTestService()
	storedEvent(store, models.EventApproved)

	_, err := svc.Pause(context.Background(), "ev-1", "")
	assert.ErrorIs(t, err, models.ErrPauseReasonRequired)
	assert.Empty(t, gw.calls, "no remote call on validation failure")
}

func TestPauseSuccess(t *testing.T) {
	svc, store, gw := newTestService()
	storedEvent(store, models.EventApproved)

	event, err := svc.Pause(context.Background(), "ev-1", "reason-7")
	require.NoError(t, err)
	assert.Equal(t, models.EventPaused, event.Status)
	assert.Equal(t, "reason-7", event.PauseReasonId)
	assert.True(t, gw.called("pause-reason:reason-7"))
	assert.Equal(t, models.EventPaused, store.events["ev-1"].Status)
}

func TestPauseHardFailure(t *testing.T) {
	svc, store, gw := newTestService()
	storedEvent(store, models.EventApproved)
	gw.pauseReasonErr = errors.New("boom")

	_, err := svc.Pause(context.Background(), "ev-1", "reason-7")
	require.Error(t, err, "operator pause failures must be surfaced, not swallowed")
	assert.Equal(t, models.EventApproved, store.events["ev-1"].Status, "local state must not advance")
}

func TestPauseIdempotent(t *testing.T) {
	svc, store, gw := newTestService()
	storedEvent(store, models.EventPaused)

	event, err := svc.Pause(context.Background(), "ev-1", "reason-7")
	require.NoError(t, err)
	assert.Equal(t, models.EventPaused, event.Status)
	assert.Empty(t, gw.calls, "pausing an already-paused event is a local no-op")
}

func TestPauseFromDraftIllegal(t *testing.T) {
	svc, store, _ := newTestService()
	storedEvent(store, models.EventDraft)

	_, err := svc.Pause(context.Background(), "ev-1", "reason-7")
	assert.ErrorIs(t, err, models.ErrIllegalTransition)
}

func TestResumeSuccess(t *testing.T) {
	svc, store, gw := newTestService()
	event := storedEvent(store, models.EventPaused)
	event.PauseReasonId = "reason-7"
	store.events[event.Id] = event

	resumed, err := svc.Resume(context.Background(), "ev-1")
	require.NoError(t, err)
	assert.Equal(t, models.EventApproved, resumed.Status)
	assert.Empty(t, resumed.PauseReasonId)
	assert.True(t, gw.called("resume"))
}

func TestResumeHardFailure(t *testing.T) {
	svc, store, gw := newTestService()
	storedEvent(store, models.EventPaused)
	gw.resumeErr = errors.New("boom")

	_, err := svc.Resume(context.Background(), "ev-1")
	require.Error(t, err)
	assert.Equal(t, models.EventPaused, store.events["ev-1"].Status)
}

func TestResumeIdempotent(t *testing.T) {
	svc, store, gw := newTestService()
	storedEvent(store, models.EventApproved)

	event, err := svc.Resume(context.Background(), "ev-1")
	require.NoError(t, err)
	assert.Equal(t, models.EventApproved, event.Status)
	assert.Empty(t, gw.calls, "resuming an already-resumed event is a local no-op")
}

//// Modification sessions

func TestEnterModificationFromLive(t *testing.T) {
	svc, store, gw := newTestService()
	original := storedEvent(store, models.EventApproved)

	event, warning, err := svc.EnterModification(context.Background(), "ev-1")
	require.NoError(t, err)
	assert.Empty(t, warning)
	assert.Equal(t, models.EventModifying, event.Status)
	assert.True(t, gw.called("pause"), "entering from live implicitly pauses")

	snap, ok := store.snapshots["ev-1"]
	require.True(t, ok, "snapshot must be retained")
	assert.Equal(t, original.Title, snap.Title)
	assert.Equal(t, original.CloseAt, snap.CloseAt)
}

func TestEnterModificationPauseFailureIsAdvisory(t *testing.T) {
	svc, store, gw := newTestService()
	storedEvent(store, models.EventApproved)
	gw.pauseErr = errors.New("network down")

	event, warning, err := svc.EnterModification(context.Background(), "ev-1")
	require.NoError(t, err, "a failed remote pause must never block editing")
	assert.NotEmpty(t, warning)
	assert.Equal(t, models.EventModifying, event.Status)
	assert.Contains(t, store.snapshots, "ev-1")
}

func TestEnterModificationFromPaused(t *testing.T) {
	svc, store, gw := newTestService()
	storedEvent(store, models.EventPaused)

	event, warning, err := svc.EnterModification(context.Background(), "ev-1")
	require.NoError(t, err)
	assert.Empty(t, warning)
	assert.Equal(t, models.EventModifying, event.Status)
	assert.False(t, gw.called("pause"), "already paused, no remote pause needed")
}

func TestEnterModificationTwice(t *testing.T) {
	svc, store, _ := newTestService()
	storedEvent(store, models.EventApproved)

	_, _, err := svc.EnterModification(context.Background(), "ev-1")
	require.NoError(t, err)

	_, _, err = svc.EnterModification(context.Background(), "ev-1")
	assert.ErrorIs(t, err, models.ErrSessionActive)
}

func TestEnterModificationFromDraftIllegal(t *testing.T) {
	svc, store, _ := newTestService()
	storedEvent(store, models.EventDraft)

	_, _, err := svc.EnterModification(context.Background(), "ev-1")
	assert.ErrorIs(t, err, models.ErrIllegalTransition)
}

func TestCancelModificationRestoresSnapshot(t *testing.T) {
	svc, store, _ := newTestService()
	original := storedEvent(store, models.EventApproved)

	_, _, err := svc.EnterModification(context.Background(), "ev-1")
	require.NoError(t, err)

	// intervening edits persisted by some editing surface
	edited := store.events["ev-1"]
	edited.Title = "renamed"
	edited.CloseAt = edited.CloseAt.AddDate(0, 1, 0)
	edited.SuppliersSelected = []string{"sup-9"}
	store.events["ev-1"] = edited

	event, err := svc.CancelModification(context.Background(), "ev-1")
	require.NoError(t, err)

	assert.Equal(t, original.Title, event.Title)
	assert.Equal(t, original.CloseAt, event.CloseAt)
	assert.Equal(t, original.SuppliersSelected, event.SuppliersSelected)
	assert.Equal(t, models.EventApproved, event.Status, "resume succeeded, event is approved again")
	assert.NotContains(t, store.snapshots, "ev-1", "snapshot discarded on cancellation")
}

func TestCancelModificationResumeFailureKeepsPaused(t *testing.T) {
	svc, store, gw := newTestService()
	storedEvent(store, models.EventApproved)

	_, _, err := svc.EnterModification(context.Background(), "ev-1")
	require.NoError(t, err)

	gw.resumeErr = errors.New("network down")
	event, err := svc.CancelModification(context.Background(), "ev-1")
	require.NoError(t, err, "resume is best-effort on cancel")
	assert.Equal(t, models.EventPaused, event.Status)
}

func TestCancelModificationWithoutSession(t *testing.T) {
	svc, store, _ := newTestService()
	storedEvent(store, models.EventPaused)

	_, err := svc.CancelModification(context.Background(), "ev-1")
	assert.ErrorIs(t, err, models.ErrNoSession)
}
