package service

import (
	"context"
	"fmt"
	"log"

	"sourcing/internal/lifecycle"
	"sourcing/internal/modification"
	"sourcing/internal/models"
)

// Pause is the explicit operator action. Unlike the best-effort pause
// used when entering a modification session, a failure here is surfaced
// and local state is not advanced. Pausing an already-paused event is a
// no-op that succeeds.
func (s *Service) Pause(ctx context.Context, eventId, reasonId string) (models.ProcurementEvent, error) {
	if len(reasonId) == 0 {
		return models.ProcurementEvent{}, fmt.Errorf("service.Service.Pause: %w", models.ErrPauseReasonRequired)
	}

	event, err := s.GetEvent(ctx, eventId)
	if err != nil {
		return models.ProcurementEvent{}, fmt.Errorf("service.Service.Pause: %w", err)
	}

	if event.Status == models.EventPaused {
		return event, nil
	}

	next, err := lifecycle.Next(event.Status, lifecycle.ActionPause)
	if err != nil {
		return models.ProcurementEvent{}, fmt.Errorf("service.Service.Pause: %w", err)
	}

	err = s.gw.PauseEventWithReason(ctx, eventId, reasonId)
	if err != nil {
		return models.ProcurementEvent{}, fmt.Errorf("service.Service.Pause: %w", err)
	}

	event.Status = next
	event.PauseReasonId = reasonId
	err = s.repo.UpdateEvent(ctx, event)
	if err != nil {
		return models.ProcurementEvent{}, fmt.Errorf("service.Service.Pause: %w", err)
	}

	return event, nil
}

// Resume is the explicit operator action; failures are surfaced.
// Resuming an already-resumed event is a no-op that succeeds.
func (s *Service) Resume(ctx context.Context, eventId string) (models.ProcurementEvent, error) {
	event, err := s.GetEvent(ctx, eventId)
	if err != nil {
		return models.ProcurementEvent{}, fmt.Errorf("service.Service.Resume: %w", err)
	}

	if event.Status == models.EventApproved {
		return event, nil
	}

	next, err := lifecycle.Next(event.Status, lifecycle.ActionResume)
	if err != nil {
		return models.ProcurementEvent{}, fmt.Errorf("service.Service.Resume: %w", err)
	}

	err = s.gw.ResumeEvent(ctx, eventId)
	if err != nil {
		return models.ProcurementEvent{}, fmt.Errorf("service.Service.Resume: %w", err)
	}

	event.Status = next
	event.PauseReasonId = ""
	err = s.repo.UpdateEvent(ctx, event)
	if err != nil {
		return models.ProcurementEvent{}, fmt.Errorf("service.Service.Resume: %w", err)
	}

	return event, nil
}

// EnterModification suspends a live or paused event for safe editing.
// The remote pause is best-effort: a failure is returned as an advisory
// warning, never as an error, so offline editing stays possible. The
// pre-edit snapshot is retained until the session ends.
func (s *Service) EnterModification(ctx context.Context, eventId string) (models.ProcurementEvent, string, error) {
	event, err := s.GetEvent(ctx, eventId)
	if err != nil {
		return models.ProcurementEvent{}, "", fmt.Errorf("service.Service.EnterModification: %w", err)
	}

	if event.Status == models.EventModifying {
		return models.ProcurementEvent{}, "", fmt.Errorf("service.Service.EnterModification: %w", models.ErrSessionActive)
	}

	next, err := lifecycle.Next(event.Status, lifecycle.ActionEnterEdit)
	if err != nil {
		return models.ProcurementEvent{}, "", fmt.Errorf("service.Service.EnterModification: %w", err)
	}

	warning := ""
	if event.Status == models.EventApproved {
		// implicit pause before editing; a failure here is surfaced as a
		// warning, not an error
		if err := s.gw.PauseEvent(ctx, eventId); err != nil {
			log.Printf("service.Service.EnterModification: remote pause failed: %s", err)
			warning = "remote pause failed; editing continues locally"
		}
	}

	snap := modification.Capture(event)
	err = s.repo.SaveSnapshot(ctx, eventId, snap)
	if err != nil {
		return models.ProcurementEvent{}, "", fmt.Errorf("service.Service.EnterModification: %w", err)
	}

	event.Status = next
	err = s.repo.UpdateEvent(ctx, event)
	if err != nil {
		return models.ProcurementEvent{}, "", fmt.Errorf("service.Service.EnterModification: %w", err)
	}

	return event, warning, nil
}

// CancelModification restores every snapshot field, attempts a remote
// resume (best-effort, logged) and closes the session.
func (s *Service) CancelModification(ctx context.Context, eventId string) (models.ProcurementEvent, error) {
	event, err := s.GetEvent(ctx, eventId)
	if err != nil {
		return models.ProcurementEvent{}, fmt.Errorf("service.Service.CancelModification: %w", err)
	}

	if event.Status != models.EventModifying {
		return models.ProcurementEvent{}, fmt.Errorf("service.Service.CancelModification: %w", models.ErrNoSession)
	}

	snap, ok, err := s.repo.GetSnapshot(ctx, eventId)
	if err != nil {
		return models.ProcurementEvent{}, fmt.Errorf("service.Service.CancelModification: %w", err)
	}
	if !ok {
		return models.ProcurementEvent{}, fmt.Errorf("service.Service.CancelModification: %w", models.ErrNoSession)
	}

	// restore snapshot fields, resume attempted; on remote failure the
	// event stays paused locally
	event, err = s.closeSession(ctx, event, snap)
	if err != nil {
		return models.ProcurementEvent{}, fmt.Errorf("service.Service.CancelModification: %w", err)
	}

	return event, nil
}
