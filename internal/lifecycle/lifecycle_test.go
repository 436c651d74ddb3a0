package lifecycle

import (
	"errors"
	"testing"

	"sourcing/internal/models"
)

func TestLegalTransitions(t *testing.T) {
	cases := []struct {
		from   models.EventStatus
		action Action
		to     models.EventStatus
	}{
		{models.EventDraft, ActionSubmit, models.EventPendingApproval},
		{models.EventPendingApproval, ActionApprove, models.EventApproved},
		{models.EventPendingApproval, ActionReject, models.EventRejected},
		{models.EventApproved, ActionPause, models.EventPaused},
		{models.EventApproved, ActionEnterEdit, models.EventModifying},
		{models.EventApproved, ActionAward, models.EventAwarded},
		{models.EventPaused, ActionResume, models.EventApproved},
		{models.EventPaused, ActionEnterEdit, models.EventModifying},
		{models.EventPaused, ActionAward, models.EventAwarded},
		{models.EventModifying, ActionCancelEdit, models.EventPaused},
		{models.EventModifying, ActionSubmitEdit, models.EventPaused},
		// idempotent no-ops
		{models.EventApproved, ActionResume, models.EventApproved},
		{models.EventPaused, ActionPause, models.EventPaused},
	}

	for _, c := range cases {
		got, err := Next(c.from, c.action)
		if err != nil {
			t.Errorf("Next(%s, %s) returned unexpected error: %s", c.from, c.action, err)
			continue
		}
		if got != c.to {
			t.Errorf("Next(%s, %s) = %s, expected %s", c.from, c.action, got, c.to)
		}
	}
}

func TestIllegalTransitions(t *testing.T) {
	cases := []struct {
		from   models.EventStatus
		action Action
	}{
		{models.EventDraft, ActionAward},
		{models.EventDraft, ActionPause},
		{models.EventDraft, ActionApprove},
		{models.EventPendingApproval, ActionAward},
		{models.EventPendingApproval, ActionSubmit},
		{models.EventModifying, ActionAward},
		{models.EventModifying, ActionPause},
		{models.EventRejected, ActionSubmit},
		{models.EventRejected, ActionAward},
		{models.EventAwarded, ActionAward},
		{models.EventAwarded, ActionPause},
		{models.EventAwarded, ActionResume},
	}

	for _, c := range cases {
		got, err := Next(c.from, c.action)
		if !errors.Is(err, models.ErrIllegalTransition) {
			t.Errorf("Next(%s, %s) should return ErrIllegalTransition, got %v", c.from, c.action, err)
		}
		if got != c.from {
			t.Errorf("Next(%s, %s) should keep status on error, got %s", c.from, c.action, got)
		}
	}
}

func TestCanAward(t *testing.T) {
	legal := map[models.EventStatus]bool{
		models.EventApproved: true,
		models.EventPaused:   true,
	}

	all := []models.EventStatus{
		models.EventDraft, models.EventPendingApproval, models.EventApproved,
		models.EventPaused, models.EventModifying, models.EventRejected, models.EventAwarded,
	}
	for _, status := range all {
		if CanAward(status) != legal[status] {
			t.Errorf("CanAward(%s) = %v, expected %v", status, CanAward(status), legal[status])
		}
	}
}

func TestTerminal(t *testing.T) {
	if !Terminal(models.EventAwarded) {
		t.Error("Awarded should be terminal")
	}
	if !Terminal(models.EventRejected) {
		t.Error("Rejected should be terminal")
	}
	if Terminal(models.EventApproved) {
		t.Error("Approved should not be terminal")
	}
}
