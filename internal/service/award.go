package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"sourcing/internal/award"
	"sourcing/internal/gateway"
	"sourcing/internal/lifecycle"
	"sourcing/internal/models"
)

// AwardOutcome reports what the approval authority decided: either the
// award was auto-approved and committed, or an external approval
// workflow now owns the decision and the event is unchanged.
type AwardOutcome struct {
	Approved       bool                    `json:"approved"`
	Event          models.ProcurementEvent `json:"event"`
	Award          *models.AwardRecord     `json:"award,omitempty"`
	Check          models.AwardCheckResult `json:"check"`
	EstimatedValue float64                 `json:"estimatedValue"`
	Message        string                  `json:"message,omitempty"`
}

// CheckAward evaluates the configured rules against the given supplier
// selection without initiating anything. Purely advisory.
func (s *Service) CheckAward(ctx context.Context, eventId string, selected []string) (models.AwardCheckResult, float64, error) {
	event, err := s.GetEvent(ctx, eventId)
	if err != nil {
		return models.AwardCheckResult{}, 0, fmt.Errorf("service.Service.CheckAward: %w", err)
	}

	selected = uniqueStrings(selected)
	value := award.EstimateValue(event.Quotes, selected)
	check := award.Evaluate(s.awardRules(ctx), value, event.Categories, len(selected))

	return check, value, nil
}

// InitiateAward validates the proposed award, evaluates the rules and
// submits the proposal to the approval authority. On auto-approval the
// event is awarded immediately and notifications go out best-effort; on
// a remote failure the event is left untouched.
func (s *Service) InitiateAward(ctx context.Context, eventId, requestedBy, justification string, selected []string) (AwardOutcome, error) {
	// fail fast, no side effects
	selected = uniqueStrings(selected)
	if len(selected) == 0 {
		return AwardOutcome{}, fmt.Errorf("service.Service.InitiateAward: %w", models.ErrNoSuppliers)
	}
	justification = strings.TrimSpace(justification)
	if len(justification) < 10 {
		return AwardOutcome{}, fmt.Errorf("service.Service.InitiateAward: %w", models.ErrJustificationTooShort)
	}

	event, err := s.GetEvent(ctx, eventId)
	if err != nil {
		return AwardOutcome{}, fmt.Errorf("service.Service.InitiateAward: %w", err)
	}

	if !lifecycle.CanAward(event.Status) {
		if lifecycle.Terminal(event.Status) {
			return AwardOutcome{}, fmt.Errorf("service.Service.InitiateAward: %w", models.ErrEventFinalized)
		}
		return AwardOutcome{}, fmt.Errorf("service.Service.InitiateAward: %w", models.ErrIllegalTransition)
	}

	value := award.EstimateValue(event.Quotes, selected)
	check := award.Evaluate(s.awardRules(ctx), value, event.Categories, len(selected))

	decision, err := s.gw.InitiateAward(ctx, gateway.AwardSubmission{
		EventId:           eventId,
		SelectedSuppliers: selected,
		Justification:     justification,
		EstimatedValue:    value,
		SplitAward:        len(selected) > 1,
		CheckWarnings:     check.Reasons,
	})
	if err != nil {
		return AwardOutcome{}, fmt.Errorf("service.Service.InitiateAward: %w", err)
	}

	outcome := AwardOutcome{
		Approved:       decision.Approved,
		Event:          event,
		Check:          check,
		EstimatedValue: value,
		Message:        decision.Message,
	}

	// workflow-initiated: an external approval process owns the
	// decision now, local state stays as it was
	if !decision.Approved {
		return outcome, nil
	}

	record := decision.Award
	if record == nil {
		record = &models.AwardRecord{
			Winners:       selected,
			Justification: justification,
			AwardedAt:     s.now(),
		}
	}

	next, err := lifecycle.Next(event.Status, lifecycle.ActionAward)
	if err != nil {
		return AwardOutcome{}, fmt.Errorf("service.Service.InitiateAward: %w", err)
	}

	event.Status = next
	event.Award = record
	event.PauseReasonId = ""
	if err := s.repo.UpdateEvent(ctx, event); err != nil {
		return AwardOutcome{}, fmt.Errorf("service.Service.InitiateAward: %w", err)
	}

	// the award is committed; notification failure must not roll it back
	s.notifyAward(ctx, event, record, value)

	outcome.Event = event
	outcome.Award = record
	return outcome, nil
}

func (s *Service) notifyAward(ctx context.Context, event models.ProcurementEvent, record *models.AwardRecord, value float64) {
	winners := make(map[string]bool, len(record.Winners))
	for _, id := range record.Winners {
		winners[id] = true
	}
	var losers []string
	for _, id := range event.SuppliersInvited {
		if !winners[id] {
			losers = append(losers, id)
		}
	}

	notify := func(kind string, payload any) {
		if err := s.gw.SendNotification(ctx, kind, payload); err != nil {
			log.Printf("service.Service.notifyAward: %s notification failed: %s", kind, err)
		}
	}

	notify("award-winners", map[string]any{"eventId": event.Id, "suppliers": record.Winners, "value": value})
	if len(losers) > 0 {
		notify("award-losers", map[string]any{"eventId": event.Id, "suppliers": losers})
	}
	notify("award-internal", map[string]any{"eventId": event.Id, "winners": record.Winners, "value": value})
}

// awardRules resolves the configured rule set: the local rule file when
// one is configured, the approval authority otherwise. Absence or
// failure degrades to nil, which the engine treats as the implicit
// default threshold; a broken rule source must not block awards.
func (s *Service) awardRules(ctx context.Context) []models.AwardRule {
	if s.ruleFile != nil {
		rules, err := s.ruleFile.Load()
		if err != nil {
			log.Printf("service.Service.awardRules: rule file unreadable, using default: %s", err)
			return nil
		}
		return rules
	}

	rules, err := s.gw.FetchAwardRules(ctx)
	if err != nil {
		log.Printf("service.Service.awardRules: rule fetch failed, using default: %s", err)
		return nil
	}
	return rules
}
