// Package modification implements the safe-editing half of the event
// lifecycle: the retained pre-edit snapshot and the minimal diff that
// becomes a modification request.
package modification

import "sourcing/internal/models"

// Capture deep-copies the mutable fields of an event into a snapshot.
func Capture(e models.ProcurementEvent) models.ModificationSnapshot {
	return models.ModificationSnapshot{
		Title:               e.Title,
		OpenAt:              e.OpenAt,
		CloseAt:             e.CloseAt,
		Items:               copyItems(e.Items),
		NegotiationControls: e.NegotiationControls,
		SuppliersSelected:   copyStrings(e.SuppliersSelected),
		PublishOnApproval:   e.PublishOnApproval,
	}
}

// Restore returns a copy of the event with every snapshot field set
// back to its captured value. Pure: the input event is not mutated.
func Restore(e models.ProcurementEvent, snap models.ModificationSnapshot) models.ProcurementEvent {
	e.Title = snap.Title
	e.OpenAt = snap.OpenAt
	e.CloseAt = snap.CloseAt
	e.Items = copyItems(snap.Items)
	e.NegotiationControls = snap.NegotiationControls
	e.SuppliersSelected = copyStrings(snap.SuppliersSelected)
	e.PublishOnApproval = snap.PublishOnApproval
	return e
}

func copyItems(items []models.EventItem) []models.EventItem {
	if items == nil {
		return nil
	}
	out := make([]models.EventItem, len(items))
	copy(out, items)
	return out
}

func copyStrings(strs []string) []string {
	if strs == nil {
		return nil
	}
	out := make([]string, len(strs))
	copy(out, strs)
	return out
}
