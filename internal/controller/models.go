package controller

import (
	"encoding/json"
	"fmt"
	"time"

	"sourcing/internal/models"
	"sourcing/internal/service"
)

// New event request

type NewEventReq struct {
	Title               string                     `json:"title"`
	Categories          []string                   `json:"categories"`
	OpenAt              time.Time                  `json:"openAt"`
	CloseAt             time.Time                  `json:"closeAt"`
	Items               []models.EventItem         `json:"items"`
	NegotiationControls models.NegotiationControls `json:"negotiationControls"`
	SuppliersInvited    []string                   `json:"suppliersInvited"`
	PublishOnApproval   bool                       `json:"publishOnApproval"`
}

func ParseNewEventReq(data []byte) (*NewEventReq, error) {
	t := &NewEventReq{}

	err := json.Unmarshal(data, t)
	if err != nil {
		return nil, err
	}

	if len(t.Title) == 0 {
		return nil, fmt.Errorf("empty title supplied")
	}
	if err = checkLengthLimit(t.Title, "Title", 100); err != nil {
		return nil, err
	}
	if t.OpenAt.IsZero() || t.CloseAt.IsZero() {
		return nil, fmt.Errorf("openAt and closeAt are required")
	}
	if !t.CloseAt.After(t.OpenAt) {
		return nil, fmt.Errorf("closeAt must be after openAt")
	}

	return t, nil
}

// New quote request

type NewQuoteReq struct {
	SupplierId string            `json:"supplierId"`
	LineItems  []models.LineItem `json:"lineItems"`
}

func ParseNewQuoteReq(data []byte) (*NewQuoteReq, error) {
	t := &NewQuoteReq{}

	err := json.Unmarshal(data, t)
	if err != nil {
		return nil, err
	}

	if len(t.SupplierId) == 0 {
		return nil, fmt.Errorf("empty supplierId supplied")
	}
	if len(t.LineItems) == 0 {
		return nil, fmt.Errorf("quote must carry at least one line item")
	}

	return t, nil
}

// Modification submit request

type ModificationSubmitReq struct {
	RequestedBy string `json:"requestedBy"`
	Note        string `json:"note"`
	Changes     struct {
		CloseAt             *time.Time                  `json:"closeAt"`
		Items               *[]models.EventItem         `json:"items"`
		PublishOnApproval   *bool                       `json:"publishOnApproval"`
		NegotiationControls *models.NegotiationControls `json:"negotiationControls"`
		SuppliersSelected   *[]string                   `json:"suppliersSelected"`
	} `json:"changes"`
}

func ParseModificationSubmitReq(data []byte) (*ModificationSubmitReq, error) {
	t := &ModificationSubmitReq{}

	err := json.Unmarshal(data, t)
	if err != nil {
		return nil, err
	}

	if len(t.RequestedBy) == 0 {
		return nil, fmt.Errorf("empty requestedBy supplied")
	}
	if err = checkLengthLimit(t.Note, "Note", 500); err != nil {
		return nil, err
	}

	return t, nil
}

func (t *ModificationSubmitReq) Edits() service.EventEdits {
	return service.EventEdits{
		CloseAt:             t.Changes.CloseAt,
		Items:               t.Changes.Items,
		PublishOnApproval:   t.Changes.PublishOnApproval,
		NegotiationControls: t.Changes.NegotiationControls,
		SuppliersSelected:   t.Changes.SuppliersSelected,
	}
}

// Award request

type AwardReq struct {
	RequestedBy       string   `json:"requestedBy"`
	SelectedSuppliers []string `json:"selectedSuppliers"`
	Justification     string   `json:"justification"`
}

func ParseAwardReq(data []byte) (*AwardReq, error) {
	t := &AwardReq{}

	err := json.Unmarshal(data, t)
	if err != nil {
		return nil, err
	}

	if err = checkLengthLimit(t.Justification, "Justification", 1000); err != nil {
		return nil, err
	}

	return t, nil
}

// Service

func checkLengthLimit(str, fieldName string, limit int) error {
	if len(str) > limit {
		return fmt.Errorf("field '%s' exceeds length limit: %d / %d", fieldName, len(str), limit)
	}
	return nil
}
