package models

import "time"

// ModificationSnapshot is the pre-edit copy of an event's mutable
// fields, retained while the event is in Modifying. Exactly one
// snapshot exists per active modification session; it is discarded on
// both submission and cancellation.
type ModificationSnapshot struct {
	Title               string              `json:"title"`
	OpenAt              time.Time           `json:"openAt"`
	CloseAt             time.Time           `json:"closeAt"`
	Items               []EventItem         `json:"items"`
	NegotiationControls NegotiationControls `json:"negotiationControls"`
	SuppliersSelected   []string            `json:"suppliersSelected"`
	PublishOnApproval   bool                `json:"publishOnApproval"`
}

// FieldChange records one watched field's original and edited value.
type FieldChange struct {
	From any `json:"from"`
	To   any `json:"to"`
}

// ModificationRequest is a proposed change set for a live/paused event
// awaiting approval. Created only when the diff against the snapshot is
// non-empty.
type ModificationRequest struct {
	Id              string                 `json:"id"`
	EventId         string                 `json:"eventId"`
	RequestedBy     string                 `json:"requestedBy"`
	RequestedAt     time.Time              `json:"requestedAt"`
	RequestedFields []string               `json:"requestedFields"`
	Summary         map[string]FieldChange `json:"summary"`
	Note            string                 `json:"note"`
}
