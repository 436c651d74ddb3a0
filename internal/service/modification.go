package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"sourcing/internal/modification"
	"sourcing/internal/models"
)

// EventEdits carries the edited values accumulated during a
// modification session. Nil fields were not touched.
type EventEdits struct {
	CloseAt             *time.Time
	Items               *[]models.EventItem
	PublishOnApproval   *bool
	NegotiationControls *models.NegotiationControls
	SuppliersSelected   *[]string
}

func (e EventEdits) apply(snap models.ModificationSnapshot) models.ModificationSnapshot {
	if e.CloseAt != nil {
		snap.CloseAt = *e.CloseAt
	}
	if e.Items != nil {
		snap.Items = *e.Items
	}
	if e.PublishOnApproval != nil {
		snap.PublishOnApproval = *e.PublishOnApproval
	}
	if e.NegotiationControls != nil {
		snap.NegotiationControls = *e.NegotiationControls
	}
	if e.SuppliersSelected != nil {
		snap.SuppliersSelected = *e.SuppliersSelected
	}
	return snap
}

// SubmitModification diffs the session's edits against the retained
// snapshot. An empty diff closes the session and silently resumes the
// event; a non-empty diff becomes a ModificationRequest submitted to
// the approval authority. Submission failure leaves the session intact
// so the operator can retry.
func (s *Service) SubmitModification(ctx context.Context, eventId, requestedBy, note string, edits EventEdits) (*models.ModificationRequest, models.ProcurementEvent, error) {
	event, err := s.GetEvent(ctx, eventId)
	if err != nil {
		return nil, models.ProcurementEvent{}, fmt.Errorf("service.Service.SubmitModification: %w", err)
	}

	if event.Status != models.EventModifying {
		return nil, models.ProcurementEvent{}, fmt.Errorf("service.Service.SubmitModification: %w", models.ErrNoSession)
	}

	snap, ok, err := s.repo.GetSnapshot(ctx, eventId)
	if err != nil {
		return nil, models.ProcurementEvent{}, fmt.Errorf("service.Service.SubmitModification: %w", err)
	}
	if !ok {
		return nil, models.ProcurementEvent{}, fmt.Errorf("service.Service.SubmitModification: %w", models.ErrNoSession)
	}

	current := edits.apply(snap)
	changes, err := modification.Diff(snap, current, modification.WatchedFields)
	if err != nil {
		return nil, models.ProcurementEvent{}, fmt.Errorf("service.Service.SubmitModification: %w", err)
	}

	// nothing changed: no request, the event simply resumes
	if len(changes) == 0 {
		event, err = s.closeSession(ctx, event, snap)
		if err != nil {
			return nil, models.ProcurementEvent{}, fmt.Errorf("service.Service.SubmitModification: %w", err)
		}
		return nil, event, nil
	}

	fields := make([]string, 0, len(changes))
	for field := range changes {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	req := models.ModificationRequest{
		Id:              uuid.NewString(),
		EventId:         eventId,
		RequestedBy:     requestedBy,
		RequestedAt:     s.now(),
		RequestedFields: fields,
		Summary:         changes,
		Note:            note,
	}

	decision, err := s.gw.SubmitModificationRequest(ctx, eventId, req)
	if err != nil {
		// session stays open, snapshot retained, operator retries
		return nil, models.ProcurementEvent{}, fmt.Errorf("service.Service.SubmitModification: %w", err)
	}

	if err = s.repo.AddModificationRequest(ctx, req); err != nil {
		return nil, models.ProcurementEvent{}, fmt.Errorf("service.Service.SubmitModification: %w", err)
	}

	// edits are now owned by the approval workflow; the event keeps its
	// pre-edit values until the request is approved upstream
	event = modification.Restore(event, snap)
	event.Status = models.EventPaused
	if decision.Resume {
		if err := s.gw.ResumeEvent(ctx, eventId); err != nil {
			log.Printf("service.Service.SubmitModification: remote resume failed: %s", err)
		} else {
			event.Status = models.EventApproved
			event.PauseReasonId = ""
		}
	}

	if err := s.repo.DeleteSnapshot(ctx, eventId); err != nil {
		return nil, models.ProcurementEvent{}, fmt.Errorf("service.Service.SubmitModification: %w", err)
	}
	if err := s.repo.UpdateEvent(ctx, event); err != nil {
		return nil, models.ProcurementEvent{}, fmt.Errorf("service.Service.SubmitModification: %w", err)
	}

	return &req, event, nil
}

// closeSession restores the snapshot, resumes best-effort and discards
// the snapshot.
func (s *Service) closeSession(ctx context.Context, event models.ProcurementEvent, snap models.ModificationSnapshot) (models.ProcurementEvent, error) {
	event = modification.Restore(event, snap)

	event.Status = models.EventPaused
	if err := s.gw.ResumeEvent(ctx, event.Id); err != nil {
		log.Printf("service.Service.closeSession: remote resume failed: %s", err)
	} else {
		event.Status = models.EventApproved
		event.PauseReasonId = ""
	}

	if err := s.repo.DeleteSnapshot(ctx, event.Id); err != nil {
		return event, err
	}
	if err := s.repo.UpdateEvent(ctx, event); err != nil {
		return event, err
	}
	return event, nil
}

// ModificationRequests lists the stored requests for an event.
func (s *Service) ModificationRequests(ctx context.Context, eventId string, limit, offset int) ([]models.ModificationRequest, error) {
	_, err := s.GetEvent(ctx, eventId)
	if err != nil {
		return nil, fmt.Errorf("service.Service.ModificationRequests: %w", err)
	}

	reqs, err := s.repo.GetModificationRequests(ctx, eventId, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("service.Service.ModificationRequests: %w", err)
	}
	return reqs, nil
}
