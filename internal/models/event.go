package models

import "time"

type EventStatus string

const (
	EventDraft           EventStatus = "Draft"
	EventPendingApproval EventStatus = "PendingApproval"
	EventApproved        EventStatus = "Approved"
	EventLive            EventStatus = "Live" // derived, never stored
	EventPaused          EventStatus = "Paused"
	EventModifying       EventStatus = "Modifying"
	EventRejected        EventStatus = "Rejected"
	EventAwarded         EventStatus = "Awarded"
)

func ValidEventStatus(s EventStatus) bool {
	switch s {
	case EventDraft, EventPendingApproval, EventApproved, EventPaused,
		EventModifying, EventRejected, EventAwarded:
		return true
	default:
		return false
	}
}

// StoredEventStatus reports whether s may appear in persistence. Live is
// derived from Approved plus the open date and is never written.
func StoredEventStatus(s EventStatus) bool {
	return ValidEventStatus(s) && s != EventLive
}

type LineItem struct {
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
}

// Quote is one supplier's offer for the event. A supplier may submit
// several quotes (revisions); value estimation takes the cheapest.
type Quote struct {
	SupplierId  string     `json:"supplierId"`
	LineItems   []LineItem `json:"lineItems"`
	SubmittedAt time.Time  `json:"submittedAt"`
}

// Total sums the quote's finite line-item costs.
func (q Quote) Total() float64 {
	var total float64
	for _, li := range q.LineItems {
		if finite(li.Cost) {
			total += li.Cost
		}
	}
	return total
}

type EventItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

type NegotiationControls struct {
	AllowCounterOffers bool `json:"allowCounterOffers"`
	SealedBids         bool `json:"sealedBids"`
	AutoExtendMinutes  int  `json:"autoExtendMinutes"`
}

// ProcurementEvent is a sourcing event moving through approval, bidding
// and award.
type ProcurementEvent struct {
	Id                  string              `json:"id"`
	Title               string              `json:"title"`
	Status              EventStatus         `json:"status"`
	Categories          []string            `json:"categories"`
	OpenAt              time.Time           `json:"openAt"`
	CloseAt             time.Time           `json:"closeAt"`
	Items               []EventItem         `json:"items"`
	NegotiationControls NegotiationControls `json:"negotiationControls"`
	SuppliersInvited    []string            `json:"suppliersInvited"`
	SuppliersSelected   []string            `json:"suppliersSelected"`
	PublishOnApproval   bool                `json:"publishOnApproval"`
	Quotes              []Quote             `json:"quotes"`
	Award               *AwardRecord        `json:"award,omitempty"`
	PauseReasonId       string              `json:"-"`
	CreatedAt           time.Time           `json:"createdAt"`
	UpdatedAt           time.Time           `json:"-"`
}

// Live reports whether bidding is active: the event is approved and its
// open date has passed.
func (e ProcurementEvent) Live(now time.Time) bool {
	return e.Status == EventApproved && !e.OpenAt.After(now)
}

// EffectiveStatus is the status shown to callers, with Live derived.
func (e ProcurementEvent) EffectiveStatus(now time.Time) EventStatus {
	if e.Live(now) {
		return EventLive
	}
	return e.Status
}
