package modification

import (
	"encoding/json"
	"fmt"

	"sourcing/internal/models"
)

// WatchedFields is the fixed set of fields a modification request may
// change. Fields outside this list never appear in a diff.
var WatchedFields = []string{
	"closeAt",
	"items",
	"publishOnApproval",
	"negotiationControls",
	"suppliersSelected",
}

// Diff compares the original snapshot with the edited one over the
// given watch-list and returns only the fields that actually changed,
// keyed by field name. Comparison uses a canonical JSON serialization
// with nil collections normalized to empty, so "absent" and "empty" do
// not spuriously differ. An empty result means no modification request
// should be created and the event must simply resume.
func Diff(original, current models.ModificationSnapshot, fields []string) (map[string]models.FieldChange, error) {
	changes := make(map[string]models.FieldChange)

	for _, field := range fields {
		from, err := fieldValue(original, field)
		if err != nil {
			return nil, fmt.Errorf("modification.Diff: %w", err)
		}
		to, err := fieldValue(current, field)
		if err != nil {
			return nil, fmt.Errorf("modification.Diff: %w", err)
		}

		fromJSON, err := canonical(from)
		if err != nil {
			return nil, fmt.Errorf("modification.Diff: %w", err)
		}
		toJSON, err := canonical(to)
		if err != nil {
			return nil, fmt.Errorf("modification.Diff: %w", err)
		}

		if fromJSON != toJSON {
			changes[field] = models.FieldChange{From: from, To: to}
		}
	}

	return changes, nil
}

func fieldValue(snap models.ModificationSnapshot, field string) (any, error) {
	switch field {
	case "title":
		return snap.Title, nil
	case "openAt":
		return snap.OpenAt, nil
	case "closeAt":
		return snap.CloseAt, nil
	case "items":
		return snap.Items, nil
	case "publishOnApproval":
		return snap.PublishOnApproval, nil
	case "negotiationControls":
		return snap.NegotiationControls, nil
	case "suppliersSelected":
		return snap.SuppliersSelected, nil
	default:
		return nil, fmt.Errorf("unknown watched field: %s", field)
	}
}

// canonical serializes a field value for comparison, normalizing nil
// slices to empty ones first.
func canonical(v any) (string, error) {
	switch t := v.(type) {
	case []models.EventItem:
		if t == nil {
			v = []models.EventItem{}
		}
	case []string:
		if t == nil {
			v = []string{}
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
