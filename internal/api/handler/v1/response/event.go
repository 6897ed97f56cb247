package response

// EventAccepted acknowledges a submission that passed the synchronous
// checks. The durable write happens in the background, so "accepted"
// is all the caller ever learns.
type EventAccepted struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func NewEventAccepted(id string) EventAccepted {
	return EventAccepted{
		ID:     id,
		Status: "accepted",
	}
}
