package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sourcing/internal/award"
	"sourcing/internal/gateway"
	"sourcing/internal/lifecycle"
	"sourcing/internal/models"
)

// EventStore is the persistence surface the service needs; implemented
// by repository.Repository.
type EventStore interface {
	GetEvents(ctx context.Context, limit, offset int, status models.EventStatus) ([]models.ProcurementEvent, error)
	GetEventByUUID(ctx context.Context, UUID string) (models.ProcurementEvent, error)
	AddEvent(ctx context.Context, event models.ProcurementEvent) (models.ProcurementEvent, error)
	UpdateEvent(ctx context.Context, event models.ProcurementEvent) error

	AddModificationRequest(ctx context.Context, req models.ModificationRequest) error
	GetModificationRequests(ctx context.Context, eventId string, limit, offset int) ([]models.ModificationRequest, error)
	SaveSnapshot(ctx context.Context, eventId string, snap models.ModificationSnapshot) error
	GetSnapshot(ctx context.Context, eventId string) (models.ModificationSnapshot, bool, error)
	DeleteSnapshot(ctx context.Context, eventId string) error
}

// Gateway is the remote approval/notification authority; implemented by
// gateway.Client.
type Gateway interface {
	PauseEvent(ctx context.Context, eventId string) error
	PauseEventWithReason(ctx context.Context, eventId, reasonId string) error
	ResumeEvent(ctx context.Context, eventId string) error
	FetchAwardRules(ctx context.Context) ([]models.AwardRule, error)
	SubmitModificationRequest(ctx context.Context, eventId string, req models.ModificationRequest) (gateway.ModificationDecision, error)
	InitiateAward(ctx context.Context, sub gateway.AwardSubmission) (gateway.AwardDecision, error)
	SendNotification(ctx context.Context, kind string, payload any) error
}

type Service struct {
	repo EventStore
	gw   Gateway

	// optional local rule set; when nil, rules come from the gateway
	ruleFile *award.FileRules

	now func() time.Time
}

type Option func(*Service)

func WithRuleFile(f *award.FileRules) Option {
	return func(s *Service) {
		s.ruleFile = f
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(repo EventStore, gw Gateway, opts ...Option) *Service {
	s := &Service{
		repo: repo,
		gw:   gw,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

//// Events

func (s *Service) GetEvents(ctx context.Context, limit, offset int, status models.EventStatus) ([]models.ProcurementEvent, error) {
	events, err := s.repo.GetEvents(ctx, limit, offset, status)
	if err != nil {
		return nil, fmt.Errorf("service.Service.GetEvents: %w", err)
	}
	return events, nil
}

func (s *Service) GetEvent(ctx context.Context, eventId string) (models.ProcurementEvent, error) {
	event, err := s.repo.GetEventByUUID(ctx, eventId)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ProcurementEvent{}, fmt.Errorf("service.Service.GetEvent: %w", models.ErrNoEvent)
	} else if err != nil {
		return models.ProcurementEvent{}, fmt.Errorf("service.Service.GetEvent: %w", err)
	}
	return event, nil
}

func (s *Service) AddEvent(ctx context.Context, event models.ProcurementEvent) (models.ProcurementEvent, error) {
	event.Id = uuid.NewString()
	event.Status = models.EventDraft
	event.Award = nil

	event, err := s.repo.AddEvent(ctx, event)
	if err != nil {
		return event, fmt.Errorf("service.Service.AddEvent: %w", err)
	}

	return event, nil
}

// EventStatus returns the event's effective status, deriving Live from
// Approved plus the open date.
func (s *Service) EventStatus(ctx context.Context, eventId string) (models.EventStatus, error) {
	event, err := s.GetEvent(ctx, eventId)
	if err != nil {
		return "", fmt.Errorf("service.Service.EventStatus: %w", err)
	}
	return event.EffectiveStatus(s.now()), nil
}

// SubmitEvent moves a draft into approval.
func (s *Service) SubmitEvent(ctx context.Context, eventId string) (models.ProcurementEvent, error) {
	return s.applyTransition(ctx, "service.Service.SubmitEvent", eventId, lifecycle.ActionSubmit)
}

// ApproveEvent records the external approval decision.
func (s *Service) ApproveEvent(ctx context.Context, eventId string) (models.ProcurementEvent, error) {
	return s.applyTransition(ctx, "service.Service.ApproveEvent", eventId, lifecycle.ActionApprove)
}

// RejectEvent records the external rejection decision.
func (s *Service) RejectEvent(ctx context.Context, eventId string) (models.ProcurementEvent, error) {
	return s.applyTransition(ctx, "service.Service.RejectEvent", eventId, lifecycle.ActionReject)
}

func (s *Service) applyTransition(ctx context.Context, caller, eventId string, action lifecycle.Action) (models.ProcurementEvent, error) {
	event, err := s.GetEvent(ctx, eventId)
	if err != nil {
		return models.ProcurementEvent{}, fmt.Errorf("%s: %w", caller, err)
	}

	next, err := lifecycle.Next(event.Status, action)
	if err != nil {
		if lifecycle.Terminal(event.Status) {
			return models.ProcurementEvent{}, fmt.Errorf("%s: %w", caller, models.ErrEventFinalized)
		}
		return models.ProcurementEvent{}, fmt.Errorf("%s: %w", caller, err)
	}

	event.Status = next
	err = s.repo.UpdateEvent(ctx, event)
	if err != nil {
		return models.ProcurementEvent{}, fmt.Errorf("%s: %w", caller, err)
	}

	return event, nil
}

// AddQuote attaches a supplier quote to a live event.
func (s *Service) AddQuote(ctx context.Context, eventId string, quote models.Quote) (models.ProcurementEvent, error) {
	event, err := s.GetEvent(ctx, eventId)
	if err != nil {
		return models.ProcurementEvent{}, fmt.Errorf("service.Service.AddQuote: %w", err)
	}

	now := s.now()
	if !event.Live(now) || event.CloseAt.Before(now) {
		return models.ProcurementEvent{}, fmt.Errorf("service.Service.AddQuote: %w", models.ErrEventNotOpen)
	}

	quote.SubmittedAt = now
	event.Quotes = append(event.Quotes, quote)

	err = s.repo.UpdateEvent(ctx, event)
	if err != nil {
		return models.ProcurementEvent{}, fmt.Errorf("service.Service.AddQuote: %w", err)
	}

	return event, nil
}

//// Service

func uniqueStrings(strs []string) []string {
	seen := make(map[string]bool, len(strs))
	var out []string
	for _, s := range strs {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
