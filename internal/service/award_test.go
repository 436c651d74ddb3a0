package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sourcing/internal/gateway"
	"sourcing/internal/models"
)

func quotedEvent(store *fakeStore, status models.EventStatus) models.ProcurementEvent {
	event := storedEvent(store, status)
	event.Quotes = []models.Quote{
		{SupplierId: "sup-1", LineItems: []models.LineItem{{Description: "Beam 6m", Cost: 150}}},
		{SupplierId: "sup-2", LineItems: []models.LineItem{{Description: "Beam 6m", Cost: 40}}},
	}
	store.events[event.Id] = event
	return event
}

func TestInitiateAwardRequiresSuppliers(t *testing.T) {
	svc, store, gw := newTestService()
	quotedEvent(store, models.EventApproved)

	_, err := svc.InitiateAward(context.Background(), "ev-1", "buyer-1", "best combined value", nil)
	assert.ErrorIs(t, err, models.ErrNoSuppliers)
	assert.Empty(t, gw.calls, "validation failures never reach the remote")
}

func TestInitiateAwardRequiresJustification(t *testing.T) {
	svc, store, gw := newTestService()
	quotedEvent(store, models.EventApproved)

	_, err := svc.InitiateAward(context.Background(), "ev-1", "buyer-1", "  short  ", []string{"sup-1"})
	assert.ErrorIs(t, err, models.ErrJustificationTooShort)
	assert.Empty(t, gw.calls)
}

func TestInitiateAwardFromDraft(t *testing.T) {
	svc, store, _ := newTestService()
	quotedEvent(store, models.EventDraft)

	_, err := svc.InitiateAward(context.Background(), "ev-1", "buyer-1", "best combined value", []string{"sup-1"})
	assert.ErrorIs(t, err, models.ErrIllegalTransition)
}

func TestInitiateAwardOnAwardedEvent(t *testing.T) {
	svc, store, _ := newTestService()
	quotedEvent(store, models.EventAwarded)

	_, err := svc.InitiateAward(context.Background(), "ev-1", "buyer-1", "best combined value", []string{"sup-1"})
	assert.ErrorIs(t, err, models.ErrEventFinalized)
}

func TestInitiateAwardAutoApproved(t *testing.T) {
	svc, store, gw := newTestService()
	quotedEvent(store, models.EventApproved)
	gw.awardDecision = gateway.AwardDecision{Approved: true}

	outcome, err := svc.InitiateAward(context.Background(), "ev-1", "buyer-1", "best combined value", []string{"sup-1", "sup-2", "sup-1"})
	require.NoError(t, err)

	assert.True(t, outcome.Approved)
	assert.Equal(t, models.EventAwarded, outcome.Event.Status)
	require.NotNil(t, outcome.Award)
	assert.Equal(t, []string{"sup-1", "sup-2"}, outcome.Award.Winners, "selection deduplicated")
	assert.Equal(t, testNow, outcome.Award.AwardedAt)
	assert.Equal(t, 190.0, outcome.EstimatedValue)

	require.Len(t, gw.submissions, 1)
	sub := gw.submissions[0]
	assert.True(t, sub.SplitAward)
	assert.Equal(t, 190.0, sub.EstimatedValue)
	assert.Empty(t, sub.CheckWarnings, "190 is below the default threshold")

	assert.Equal(t, models.EventAwarded, store.events["ev-1"].Status)
}

func TestInitiateAwardNotifications(t *testing.T) {
	svc, store, gw := newTestService()
	quotedEvent(store, models.EventApproved)
	gw.awardDecision = gateway.AwardDecision{Approved: true}

	_, err := svc.InitiateAward(context.Background(), "ev-1", "buyer-1", "best combined value", []string{"sup-1"})
	require.NoError(t, err)

	assert.True(t, gw.called("notify:award-winners"))
	assert.True(t, gw.called("notify:award-losers"), "sup-2 and sup-3 were invited but lost")
	assert.True(t, gw.called("notify:award-internal"))
}

func TestInitiateAwardNoLosersNoLoserNotice(t *testing.T) {
	svc, store, gw := newTestService()
	event := quotedEvent(store, models.EventApproved)
	event.SuppliersInvited = []string{"sup-1"}
	store.events[event.Id] = event
	gw.awardDecision = gateway.AwardDecision{Approved: true}

	_, err := svc.InitiateAward(context.Background(), "ev-1", "buyer-1", "best combined value", []string{"sup-1"})
	require.NoError(t, err)
	assert.False(t, gw.called("notify:award-losers"))
}

func TestInitiateAwardNotificationFailureDoesNotRollBack(t *testing.T) {
	svc, store, gw := newTestService()
	quotedEvent(store, models.EventApproved)
	gw.awardDecision = gateway.AwardDecision{Approved: true}
	gw.notifyErr = errors.New("notifier down")

	outcome, err := svc.InitiateAward(context.Background(), "ev-1", "buyer-1", "best combined value", []string{"sup-1"})
	require.NoError(t, err)
	assert.Equal(t, models.EventAwarded, outcome.Event.Status)
	assert.Equal(t, models.EventAwarded, store.events["ev-1"].Status)
}

func TestInitiateAwardWorkflowInitiated(t *testing.T) {
	svc, store, gw := newTestService()
	quotedEvent(store, models.EventApproved)
	gw.awardDecision = gateway.AwardDecision{Approved: false, Message: "pending director approval"}

	outcome, err := svc.InitiateAward(context.Background(), "ev-1", "buyer-1", "best combined value", []string{"sup-1"})
	require.NoError(t, err)

	assert.False(t, outcome.Approved)
	assert.Nil(t, outcome.Award)
	assert.Equal(t, "pending director approval", outcome.Message)
	assert.Equal(t, models.EventApproved, store.events["ev-1"].Status, "event untouched while the workflow decides")
	assert.False(t, gw.called("notify:award-winners"))
}

func TestInitiateAwardRemoteFailure(t *testing.T) {
	svc, store, gw := newTestService()
	quotedEvent(store, models.EventApproved)
	gw.awardErr = models.ErrRemoteUnavailable

	_, err := svc.InitiateAward(context.Background(), "ev-1", "buyer-1", "best combined value", []string{"sup-1"})
	assert.ErrorIs(t, err, models.ErrRemoteUnavailable)
	assert.Equal(t, models.EventApproved, store.events["ev-1"].Status)
}

func TestInitiateAwardUsesRemoteRecord(t *testing.T) {
	svc, store, gw := newTestService()
	quotedEvent(store, models.EventApproved)
	record := &models.AwardRecord{Winners: []string{"sup-1"}, Justification: "authority note", AwardedAt: testNow}
	gw.awardDecision = gateway.AwardDecision{Approved: true, Award: record}

	outcome, err := svc.InitiateAward(context.Background(), "ev-1", "buyer-1", "best combined value", []string{"sup-1"})
	require.NoError(t, err)
	assert.Equal(t, "authority note", outcome.Award.Justification)
}

func TestCheckAward(t *testing.T) {
	svc, store, gw := newTestService()
	quotedEvent(store, models.EventApproved)
	gw.rules = []models.AwardRule{{Kind: models.RuleValueThreshold, Threshold: 100}}

	check, value, err := svc.CheckAward(context.Background(), "ev-1", []string{"sup-1", "sup-2"})
	require.NoError(t, err)

	assert.Equal(t, 190.0, value)
	assert.False(t, check.Ok)
	require.Len(t, check.Reasons, 1)
	assert.Contains(t, check.Reasons[0], "190")
	assert.True(t, gw.called("rules"))
}

func TestCheckAwardRuleFetchFailureFallsBackToDefault(t *testing.T) {
	svc, store, gw := newTestService()
	quotedEvent(store, models.EventApproved)
	gw.rulesErr = errors.New("network down")

	check, value, err := svc.CheckAward(context.Background(), "ev-1", []string{"sup-1"})
	require.NoError(t, err, "a broken rule source must not block the check")
	assert.Equal(t, 150.0, value)
	assert.True(t, check.Ok, "150 is below the default threshold")
}

func TestCheckAwardUnknownEvent(t *testing.T) {
	svc, _, _ := newTestService()

	_, _, err := svc.CheckAward(context.Background(), "missing", []string{"sup-1"})
	assert.ErrorIs(t, err, models.ErrNoEvent)
}
