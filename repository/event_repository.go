package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/mensah-dev/beneficiarysysbackend/models"
	"gorm.io/gorm"
)

// EventRepository handles database operations for Event entities
type EventRepository struct {
	DB *gorm.DB
}

// NewEventRepository creates a new instance of EventRepository
func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{DB: db}
}

// Create creates a new event record in the database
func (r *EventRepository) Create(event *models.Event) error {
	if event.Status == "" {
		event.Status = models.EventStatusUpcoming
	}
	err := r.DB.Create(event).Error
	if err != nil {
		return fmt.Errorf("failed to create event %s: %w", event.Title, err)
	}
	return nil
}

// GetByID retrieves an event by its ID
func (r *EventRepository) GetByID(id int64) (*models.Event, error) {
	var event models.Event
	err := r.DB.First(&event, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get event by ID %d: %w", id, err)
	}
	return &event, nil
}

// ListAll retrieves all events, soonest first
func (r *EventRepository) ListAll() ([]models.Event, error) {
	var events []models.Event
	err := r.DB.Order("date ASC, time ASC").Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// ListRecent retrieves the most recently created events
func (r *EventRepository) ListRecent(limit int) ([]models.Event, error) {
	var events []models.Event
	err := r.DB.Order("created_at DESC, id DESC").Limit(limit).Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent events: %w", err)
	}
	return events, nil
}

// CountUpcoming counts events dated between from and from+within
func (r *EventRepository) CountUpcoming(from time.Time, within time.Duration) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Event{}).
		Where("date >= ? AND date <= ?", from, from.Add(within)).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count upcoming events: %w", err)
	}
	return count, nil
}

// Update replaces an event's details
func (r *EventRepository) Update(event *models.Event) error {
	result := r.DB.Model(&models.Event{ID: event.ID}).
		Select("title", "date", "time", "location", "type", "description", "status").
		Updates(event)
	if result.Error != nil {
		return fmt.Errorf("failed to update event ID %d: %w", event.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateStatus changes only an event's status
func (r *EventRepository) UpdateStatus(id int64, status string) error {
	result := r.DB.Model(&models.Event{ID: id}).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update status of event ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes an event by its ID
func (r *EventRepository) Delete(id int64) error {
	result := r.DB.Delete(&models.Event{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete event ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
