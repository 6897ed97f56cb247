package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lagerschema/lagerschema/internal/api/handler/v1/request"
	"github.com/lagerschema/lagerschema/internal/api/handler/v1/response"
	"github.com/lagerschema/lagerschema/internal/service"
	"github.com/lagerschema/lagerschema/internal/session"
)

type EventService interface {
	SubmitNewEvent(ctx context.Context, in service.NewEventInput) (string, error)
	SubmitEdit(ctx context.Context, eventID string, in service.EditEventInput) error
}

type EventHandler struct {
	svc EventService
}

func NewEventHandler(svc EventService) *EventHandler {
	return &EventHandler{
		svc: svc,
	}
}

// HandleCreateEvent godoc
// @Summary      Submit a new event
// @Description  Validates the event against the active camp's schedule and, on acceptance, proposes it in the background. The derived event id is recorded in the submitter's ownership cookie.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateEventRequest  true  "Event details"
// @Success      202    {object}  response.EventAccepted
// @Failure      400    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /events [post]
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	var input request.CreateEventRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	id, err := h.svc.SubmitNewEvent(ctx.Request.Context(), service.NewEventInput{
		Title:       input.Title,
		Date:        input.Date,
		Start:       input.Start,
		End:         input.End,
		Location:    input.Location,
		Responsible: input.Responsible,
		Description: input.Description,
		Link:        input.Link,
		OwnerName:   input.Owner.Name,
		OwnerEmail:  input.Owner.Email,
	})
	if err != nil {
		renderSubmissionErr(ctx, "HandleCreateEvent", err)
		return
	}

	owned := session.FromRequest(ctx.Request)
	http.SetCookie(ctx.Writer, session.NewCookie(session.Merge(owned, id)))

	ctx.JSON(http.StatusAccepted, response.NewEventAccepted(id))
}

// HandleUpdateEvent godoc
// @Summary      Edit an owned event
// @Description  Applies a partial update to an event the submitter owns. Ownership is proven by the event id being present in the submitter's cookie; editing anything else is refused before the schedule is even consulted.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventID  path      string                      true  "Event ID"
// @Param        input    body      request.UpdateEventRequest  true  "Fields to change"
// @Success      202      {object}  response.EventAccepted
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID} [put]
func (h *EventHandler) HandleUpdateEvent(ctx *gin.Context) {
	eventID := ctx.Param("eventID")

	owned := session.FromRequest(ctx.Request)
	if !session.Contains(owned, eventID) {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("event %v is not owned by this session", eventID)))
		return
	}

	var input request.UpdateEventRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	err := h.svc.SubmitEdit(ctx.Request.Context(), eventID, service.EditEventInput{
		Title:       input.Title,
		Date:        input.Date,
		Start:       input.Start,
		End:         input.End,
		Location:    input.Location,
		Responsible: input.Responsible,
		Description: input.Description,
		Link:        input.Link,
	})
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "eventID", eventID))
			return
		}

		renderSubmissionErr(ctx, "HandleUpdateEvent", err)
		return
	}

	// Reissue the cookie so ownership outlives the edit by another full
	// window.
	http.SetCookie(ctx.Writer, session.NewCookie(owned))

	ctx.JSON(http.StatusAccepted, response.NewEventAccepted(eventID))
}

func renderSubmissionErr(ctx *gin.Context, op string, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		response.RenderErr(ctx, response.ErrValidation(verr.Findings))
	case errors.Is(err, service.ErrOutsideEditingPeriod):
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
	case errors.Is(err, service.ErrAmbiguousCamp):
		response.RenderErr(ctx, response.ErrConflict(err))
	default:
		response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("%v -> %w", op, err)))
	}
}
