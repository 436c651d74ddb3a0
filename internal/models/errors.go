package models

import "errors"

var (
	ErrNoEvent               = errors.New("requested event does not exist")
	ErrEventFinalized        = errors.New("event is already awarded or rejected")
	ErrIllegalTransition     = errors.New("requested status change is not allowed from the event's current status")
	ErrEventNotOpen          = errors.New("event is not open for quotes")
	ErrNoSuppliers           = errors.New("at least one supplier must be selected")
	ErrJustificationTooShort = errors.New("award justification must be at least 10 characters")
	ErrNoSession             = errors.New("event has no active modification session")
	ErrSessionActive         = errors.New("event already has an active modification session")
	ErrPauseReasonRequired   = errors.New("operator pause requires a reason")
	ErrRemoteUnavailable     = errors.New("remote call failed")
)
