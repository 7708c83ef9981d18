package validation

import "time"

// EventInput is the validated field set for creating or updating an event.
type EventInput struct {
	Title       string `json:"title" validate:"required,max=255"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string `json:"time" validate:"required"`
	Location    string `json:"location" validate:"required,max=255"`
	Type        string `json:"type" validate:"required,oneof=current upcoming"`
	Description string `json:"description" validate:"required"`
	Status      string `json:"status" validate:"required,oneof=current upcoming ended"`
}

// EventStatusInput carries a bare status change.
type EventStatusInput struct {
	Status string `json:"status" validate:"required,oneof=current upcoming ended"`
}

// ParsedDate returns the event date. It must only be called after a
// successful ValidateEvent.
func (in *EventInput) ParsedDate() time.Time {
	t, _ := time.Parse(DateLayout, in.Date)
	return t
}

// ValidateEvent checks every event field rule; nil means the input is valid.
func ValidateEvent(in *EventInput) *Error {
	return collectStructErrors(nil, Validate.Struct(in))
}

// ValidateEventStatus checks a status-only update.
func ValidateEventStatus(in *EventStatusInput) *Error {
	return collectStructErrors(nil, Validate.Struct(in))
}
