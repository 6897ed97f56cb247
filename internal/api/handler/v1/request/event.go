package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/lagerschema/lagerschema/internal/record"
)

type Owner struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CreateEventRequest struct {
	Title       string `json:"title" binding:"required"`
	Date        string `json:"date" binding:"required" format:"YYYY-MM-DD"`
	Start       string `json:"start" binding:"required" format:"HH:MM"`
	End         string `json:"end"`
	Location    string `json:"location" binding:"required"`
	Responsible string `json:"responsible" binding:"required"`
	Description string `json:"description"`
	Link        string `json:"link"`
	Owner       Owner  `json:"owner" binding:"required"`
}

func (req *CreateEventRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Date, validation.Required, validation.Match(record.DateRe)),
		validation.Field(&req.Start, validation.Required, validation.Match(record.TimeRe)),
		validation.Field(&req.End, validation.Match(record.TimeRe)),
		validation.Field(&req.Location, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Responsible, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Description, validation.Length(0, 2000)),
		validation.Field(&req.Link, validation.Length(0, 500), is.URL),
	)
	if err != nil {
		return err
	}

	return validation.ValidateStruct(
		&req.Owner,
		validation.Field(&req.Owner.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Owner.Email, validation.Required, is.Email),
	)
}

// UpdateEventRequest deliberately has no required fields. An empty
// title, date, start, location or responsible keeps the stored value;
// an empty end, description or link clears it.
type UpdateEventRequest struct {
	Title       string `json:"title"`
	Date        string `json:"date" format:"YYYY-MM-DD"`
	Start       string `json:"start" format:"HH:MM"`
	End         string `json:"end"`
	Location    string `json:"location"`
	Responsible string `json:"responsible"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

func (req *UpdateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Length(0, 200)),
		validation.Field(&req.Date, validation.Match(record.DateRe)),
		validation.Field(&req.Start, validation.Match(record.TimeRe)),
		validation.Field(&req.End, validation.Match(record.TimeRe)),
		validation.Field(&req.Location, validation.Length(0, 200)),
		validation.Field(&req.Responsible, validation.Length(0, 200)),
		validation.Field(&req.Description, validation.Length(0, 2000)),
		validation.Field(&req.Link, validation.Length(0, 500), is.URL),
	)
}
