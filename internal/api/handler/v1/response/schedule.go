package response

import (
	"github.com/lagerschema/lagerschema/internal/domain"
)

// ScheduleResponse is the active camp's header plus its events in file
// order.
type ScheduleResponse struct {
	Camp   domain.Camp    `json:"camp"`
	Events []domain.Event `json:"events"`
}
