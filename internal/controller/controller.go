package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"sourcing/internal/models"
	"sourcing/internal/service"
)

type Service interface {
	GetEvents(ctx context.Context, limit, offset int, status models.EventStatus) ([]models.ProcurementEvent, error)
	GetEvent(ctx context.Context, eventId string) (models.ProcurementEvent, error)
	AddEvent(ctx context.Context, event models.ProcurementEvent) (models.ProcurementEvent, error)
	EventStatus(ctx context.Context, eventId string) (models.EventStatus, error)
	SubmitEvent(ctx context.Context, eventId string) (models.ProcurementEvent, error)
	ApproveEvent(ctx context.Context, eventId string) (models.ProcurementEvent, error)
	RejectEvent(ctx context.Context, eventId string) (models.ProcurementEvent, error)
	AddQuote(ctx context.Context, eventId string, quote models.Quote) (models.ProcurementEvent, error)

	Pause(ctx context.Context, eventId, reasonId string) (models.ProcurementEvent, error)
	Resume(ctx context.Context, eventId string) (models.ProcurementEvent, error)
	EnterModification(ctx context.Context, eventId string) (models.ProcurementEvent, string, error)
	CancelModification(ctx context.Context, eventId string) (models.ProcurementEvent, error)
	SubmitModification(ctx context.Context, eventId, requestedBy, note string, edits service.EventEdits) (*models.ModificationRequest, models.ProcurementEvent, error)
	ModificationRequests(ctx context.Context, eventId string, limit, offset int) ([]models.ModificationRequest, error)

	CheckAward(ctx context.Context, eventId string, selected []string) (models.AwardCheckResult, float64, error)
	InitiateAward(ctx context.Context, eventId, requestedBy, justification string, selected []string) (service.AwardOutcome, error)
}

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

//// Events

// GET /api/ping
func (c *Controller) Ping(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "ok")
}

// GET /api/events
func (c *Controller) GetEvents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit, err := c.getQueryInt(query, "limit")
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "invalid value of 'limit' query parameter: "+query.Get("limit"))
		return
	}

	offset, err := c.getQueryInt(query, "offset")
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "invalid value of 'offset' query parameter: "+query.Get("offset"))
		return
	}

	status := models.EventStatus(query.Get("status"))
	if len(status) > 0 && !models.StoredEventStatus(status) {
		c.errorResponse(w, http.StatusBadRequest, "invalid status supplied: "+string(status))
		return
	}

	events, err := c.service.GetEvents(r.Context(), limit, offset, status)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not fetch events")
		return
	}

	c.marshalResponse(w, events)
}

// POST /api/events/new
func (c *Controller) NewEvent(w http.ResponseWriter, r *http.Request) {
	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}

	req, err := ParseNewEventReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	event, err := c.service.AddEvent(r.Context(), models.ProcurementEvent{
		Title:               req.Title,
		Categories:          req.Categories,
		OpenAt:              req.OpenAt,
		CloseAt:             req.CloseAt,
		Items:               req.Items,
		NegotiationControls: req.NegotiationControls,
		SuppliersInvited:    req.SuppliersInvited,
		PublishOnApproval:   req.PublishOnApproval,
	})
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, event)
}

// GET /api/events/{eventId}
func (c *Controller) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventId := r.PathValue("eventId")
	if len(eventId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty eventId supplied")
		return
	}

	event, err := c.service.GetEvent(r.Context(), eventId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, event)
}

// GET /api/events/{eventId}/status
func (c *Controller) EventStatus(w http.ResponseWriter, r *http.Request) {
	eventId := r.PathValue("eventId")
	if len(eventId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty eventId supplied")
		return
	}

	status, err := c.service.EventStatus(r.Context(), eventId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	fmt.Fprint(w, status)
}

// POST /api/events/{eventId}/submit
func (c *Controller) SubmitEvent(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.service.SubmitEvent)
}

// POST /api/events/{eventId}/approve
func (c *Controller) ApproveEvent(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.service.ApproveEvent)
}

// POST /api/events/{eventId}/reject
func (c *Controller) RejectEvent(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.service.RejectEvent)
}

// POST /api/events/{eventId}/quotes
func (c *Controller) NewQuote(w http.ResponseWriter, r *http.Request) {
	eventId := r.PathValue("eventId")
	if len(eventId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty eventId supplied")
		return
	}

	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}

	req, err := ParseNewQuoteReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	event, err := c.service.AddQuote(r.Context(), eventId, models.Quote{
		SupplierId: req.SupplierId,
		LineItems:  req.LineItems,
	})
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, event)
}

//// Pause / resume

// POST /api/events/{eventId}/pause
func (c *Controller) PauseEvent(w http.ResponseWriter, r *http.Request) {
	eventId := r.PathValue("eventId")
	if len(eventId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty eventId supplied")
		return
	}

	reasonId := r.URL.Query().Get("reasonId")
	if len(reasonId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty reasonId supplied")
		return
	}

	event, err := c.service.Pause(r.Context(), eventId, reasonId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, event)
}

// POST /api/events/{eventId}/resume
func (c *Controller) ResumeEvent(w http.ResponseWriter, r *http.Request) {
	eventId := r.PathValue("eventId")
	if len(eventId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty eventId supplied")
		return
	}

	event, err := c.service.Resume(r.Context(), eventId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, event)
}

//// Modification sessions

// POST /api/events/{eventId}/modification/enter
func (c *Controller) EnterModification(w http.ResponseWriter, r *http.Request) {
	eventId := r.PathValue("eventId")
	if len(eventId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty eventId supplied")
		return
	}

	event, warning, err := c.service.EnterModification(r.Context(), eventId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, map[string]any{
		"event":   event,
		"warning": warning,
	})
}

// POST /api/events/{eventId}/modification/cancel
func (c *Controller) CancelModification(w http.ResponseWriter, r *http.Request) {
	eventId := r.PathValue("eventId")
	if len(eventId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty eventId supplied")
		return
	}

	event, err := c.service.CancelModification(r.Context(), eventId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, event)
}

// POST /api/events/{eventId}/modification/submit
func (c *Controller) SubmitModification(w http.ResponseWriter, r *http.Request) {
	eventId := r.PathValue("eventId")
	if len(eventId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty eventId supplied")
		return
	}

	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}

	req, err := ParseModificationSubmitReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	request, event, err := c.service.SubmitModification(r.Context(), eventId, req.RequestedBy, req.Note, req.Edits())
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, map[string]any{
		"event":   event,
		"request": request,
		"resumed": request == nil,
	})
}

// GET /api/events/{eventId}/modification/requests
func (c *Controller) ModificationRequests(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	eventId := r.PathValue("eventId")
	if len(eventId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty eventId supplied")
		return
	}

	limit, err := c.getQueryInt(query, "limit")
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "invalid value of 'limit' query parameter: "+query.Get("limit"))
		return
	}

	offset, err := c.getQueryInt(query, "offset")
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "invalid value of 'offset' query parameter: "+query.Get("offset"))
		return
	}

	reqs, err := c.service.ModificationRequests(r.Context(), eventId, limit, offset)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, reqs)
}

//// Awards

// GET /api/events/{eventId}/award/check
func (c *Controller) CheckAward(w http.ResponseWriter, r *http.Request) {
	eventId := r.PathValue("eventId")
	if len(eventId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty eventId supplied")
		return
	}

	selected := r.URL.Query()["supplier"]

	check, value, err := c.service.CheckAward(r.Context(), eventId, selected)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, map[string]any{
		"check":          check,
		"estimatedValue": value,
	})
}

// POST /api/events/{eventId}/award
func (c *Controller) InitiateAward(w http.ResponseWriter, r *http.Request) {
	eventId := r.PathValue("eventId")
	if len(eventId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty eventId supplied")
		return
	}

	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}

	req, err := ParseAwardReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	outcome, err := c.service.InitiateAward(r.Context(), eventId, req.RequestedBy, req.Justification, req.SelectedSuppliers)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, outcome)
}

//// Service

type ErrorResponse struct {
	Reason string `json:"reason"`
}

func (c *Controller) transition(w http.ResponseWriter, r *http.Request, apply func(context.Context, string) (models.ProcurementEvent, error)) {
	eventId := r.PathValue("eventId")
	if len(eventId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty eventId supplied")
		return
	}

	event, err := apply(r.Context(), eventId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, event)
}

func (c *Controller) getQueryInt(query url.Values, key string) (int, error) {
	strs, ok := query[key]
	if ok && len(strs) > 0 {
		return strconv.Atoi(strs[0])
	}
	return 0, nil
}

func (c *Controller) errorResponse(w http.ResponseWriter, status int, text string) {
	w.WriteHeader(status)

	data, err := json.Marshal(ErrorResponse{Reason: text})
	if err != nil {
		log.Printf("controller.Controller.errorResponse: %s", err)
		return
	}

	_, err = w.Write(data)
	if err != nil {
		log.Printf("controller.Controller.errorResponse: %s", err)
		return
	}
}

func (c *Controller) serviceErrorResponse(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNoEvent):
		c.errorResponse(w, http.StatusNotFound, "requested event does not exist or unaccessible")
	case errors.Is(err, models.ErrEventFinalized):
		c.errorResponse(w, http.StatusForbidden, "requested event is already awarded or rejected, no further changes allowed")
	case errors.Is(err, models.ErrIllegalTransition):
		c.errorResponse(w, http.StatusConflict, "requested action is not allowed from the event's current status")
	case errors.Is(err, models.ErrEventNotOpen):
		c.errorResponse(w, http.StatusForbidden, "event is not open for quotes")
	case errors.Is(err, models.ErrNoSuppliers):
		c.errorResponse(w, http.StatusBadRequest, "at least one supplier must be selected for award")
	case errors.Is(err, models.ErrJustificationTooShort):
		c.errorResponse(w, http.StatusBadRequest, "award justification must be at least 10 characters long")
	case errors.Is(err, models.ErrPauseReasonRequired):
		c.errorResponse(w, http.StatusBadRequest, "operator pause requires a selected reason")
	case errors.Is(err, models.ErrNoSession):
		c.errorResponse(w, http.StatusConflict, "event has no active modification session")
	case errors.Is(err, models.ErrSessionActive):
		c.errorResponse(w, http.StatusConflict, "event already has an active modification session")
	case errors.Is(err, models.ErrRemoteUnavailable):
		c.errorResponse(w, http.StatusBadGateway, "approval authority is unavailable, please retry")
	default:
		log.Println("controller:", err)
		c.errorResponse(w, http.StatusInternalServerError, "internal server error: "+err.Error())
	}
}

func (c *Controller) marshalResponse(w http.ResponseWriter, data any) {
	d, err := json.Marshal(data)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not marshal response data")
		return
	}

	_, err = w.Write(d)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not write response data")
		return
	}
}

func (c *Controller) readBody(src io.ReadCloser) ([]byte, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	src.Close()
	return data, nil
}
