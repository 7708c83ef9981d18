package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mensah-dev/beneficiarysysbackend/models"
	"github.com/mensah-dev/beneficiarysysbackend/repository"
	"github.com/mensah-dev/beneficiarysysbackend/validation"
	"gorm.io/gorm"
)

type EventHandler struct {
	Repo repository.EventRepositoryInterface
}

func eventIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "event_id"), 10, 64)
}

func eventFromInput(in *validation.EventInput) *models.Event {
	return &models.Event{
		Title:       in.Title,
		Date:        in.ParsedDate(),
		Time:        in.Time,
		Location:    in.Location,
		Type:        in.Type,
		Description: in.Description,
		Status:      in.Status,
	}
}

// ListEvents returns every event, newest first
func (eh *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := eh.Repo.ListAll()
	if err != nil {
		log.Printf("Error listing events: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve events")
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// CreateEvent registers a new event from a JSON body
func (eh *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var input validation.EventInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_input", "Invalid request body: "+err.Error())
		return
	}
	if verr := validation.ValidateEvent(&input); verr != nil {
		WriteValidationError(w, verr)
		return
	}

	event := eventFromInput(&input)
	if err := eh.Repo.Create(event); err != nil {
		log.Printf("Error creating event '%s': %v", input.Title, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to create event")
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// GetEvent retrieves a single event
func (eh *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := eventIDParam(r)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid event ID format")
		return
	}

	event, err := eh.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Event not found")
			return
		}
		log.Printf("Error fetching event %d: %v", id, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve event")
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// UpdateEvent replaces every field of an existing event
func (eh *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := eventIDParam(r)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid event ID format")
		return
	}

	var input validation.EventInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_input", "Invalid request body: "+err.Error())
		return
	}
	if verr := validation.ValidateEvent(&input); verr != nil {
		WriteValidationError(w, verr)
		return
	}

	event := eventFromInput(&input)
	event.ID = id
	if err := eh.Repo.Update(event); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Event not found")
			return
		}
		log.Printf("Error updating event %d: %v", id, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to update event")
		return
	}

	updated, err := eh.Repo.GetByID(id)
	if err != nil {
		log.Printf("Error reloading event %d after update: %v", id, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve updated event")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// UpdateEventStatus changes only the status of an event
func (eh *EventHandler) UpdateEventStatus(w http.ResponseWriter, r *http.Request) {
	id, err := eventIDParam(r)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid event ID format")
		return
	}

	var input validation.EventStatusInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_input", "Invalid request body: "+err.Error())
		return
	}
	if verr := validation.ValidateEventStatus(&input); verr != nil {
		WriteValidationError(w, verr)
		return
	}

	if err := eh.Repo.UpdateStatus(id, input.Status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Event not found")
			return
		}
		log.Printf("Error updating status of event %d: %v", id, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to update event status")
		return
	}

	updated, err := eh.Repo.GetByID(id)
	if err != nil {
		log.Printf("Error reloading event %d after status update: %v", id, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve updated event")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteEvent removes an event
func (eh *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := eventIDParam(r)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid event ID format")
		return
	}

	if err := eh.Repo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Event not found")
			return
		}
		log.Printf("Error deleting event %d: %v", id, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to delete event")
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
