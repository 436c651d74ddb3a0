// Package lifecycle holds the authoritative set of event statuses and
// legal transitions. Transitions are pure; remote side effects live in
// the service layer.
package lifecycle

import (
	"fmt"

	"sourcing/internal/models"
)

type Action string

const (
	ActionSubmit     Action = "submit"
	ActionApprove    Action = "approve"
	ActionReject     Action = "reject"
	ActionPause      Action = "pause"
	ActionResume     Action = "resume"
	ActionEnterEdit  Action = "enter-edit"
	ActionCancelEdit Action = "cancel-edit"
	ActionSubmitEdit Action = "submit-edit"
	ActionAward      Action = "award"
)

// transitions maps (stored status, action) to the next stored status.
// Live is derived and never appears here; an Approved event whose open
// date has passed behaves as Approved for transition purposes.
var transitions = map[models.EventStatus]map[Action]models.EventStatus{
	models.EventDraft: {
		ActionSubmit: models.EventPendingApproval,
	},
	models.EventPendingApproval: {
		ActionApprove: models.EventApproved,
		ActionReject:  models.EventRejected,
	},
	models.EventApproved: {
		ActionPause:     models.EventPaused,
		ActionEnterEdit: models.EventModifying, // implicitly pauses first
		ActionResume:    models.EventApproved,  // idempotent no-op
		ActionAward:     models.EventAwarded,
	},
	models.EventPaused: {
		ActionResume:    models.EventApproved,
		ActionEnterEdit: models.EventModifying,
		ActionPause:     models.EventPaused, // idempotent no-op
		ActionAward:     models.EventAwarded,
	},
	models.EventModifying: {
		ActionCancelEdit: models.EventPaused,
		ActionSubmitEdit: models.EventPaused,
	},
	// Rejected and Awarded are terminal.
}

// Next returns the status reached by applying action to status.
// Illegal combinations return models.ErrIllegalTransition.
func Next(status models.EventStatus, action Action) (models.EventStatus, error) {
	if to, ok := transitions[status][action]; ok {
		return to, nil
	}
	return status, fmt.Errorf("lifecycle.Next: %s from %s: %w", action, status, models.ErrIllegalTransition)
}

// Allowed reports whether action is legal from status.
func Allowed(status models.EventStatus, action Action) bool {
	_, ok := transitions[status][action]
	return ok
}

// CanAward reports whether an event in the given stored status may
// transition to Awarded. Only Approved (including derived Live) and
// Paused qualify.
func CanAward(status models.EventStatus) bool {
	return Allowed(status, ActionAward)
}

// Terminal reports whether no further transitions exist from status.
func Terminal(status models.EventStatus) bool {
	return len(transitions[status]) == 0
}
