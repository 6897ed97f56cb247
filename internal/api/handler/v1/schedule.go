package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lagerschema/lagerschema/internal/api/handler/v1/response"
	"github.com/lagerschema/lagerschema/internal/domain"
	"github.com/lagerschema/lagerschema/internal/service"
)

type ScheduleService interface {
	Schedule(ctx context.Context) (domain.Camp, []domain.Event, error)
	Registry(ctx context.Context) ([]domain.Camp, error)
}

type ScheduleHandler struct {
	svc ScheduleService
}

func NewScheduleHandler(svc ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{
		svc: svc,
	}
}

// HandleGetSchedule godoc
// @Summary      Get the active camp's schedule
// @Description  Returns the currently active camp and its events in file order.
// @Tags         schedule
// @Produce      json
// @Success      200  {object}  response.ScheduleResponse
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /schedule [get]
func (h *ScheduleHandler) HandleGetSchedule(ctx *gin.Context) {
	camp, events, err := h.svc.Schedule(ctx.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrAmbiguousCamp) {
			response.RenderErr(ctx, response.ErrConflict(err))
			return
		}

		err = fmt.Errorf("HandleGetSchedule -> h.svc.Schedule -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.ScheduleResponse{
		Camp:   camp,
		Events: events,
	})
}

// HandleGetCamps godoc
// @Summary      List registered camps
// @Description  Returns every camp in the registry, archived ones included.
// @Tags         schedule
// @Produce      json
// @Success      200  {array}   domain.Camp
// @Failure      500  {object}  response.Err
// @Router       /camps [get]
func (h *ScheduleHandler) HandleGetCamps(ctx *gin.Context) {
	camps, err := h.svc.Registry(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("HandleGetCamps -> h.svc.Registry -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, camps)
}
