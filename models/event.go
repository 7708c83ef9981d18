package models

import "time"

// Event type and status values.
const (
	EventTypeCurrent  = "current"
	EventTypeUpcoming = "upcoming"

	EventStatusCurrent  = "current"
	EventStatusUpcoming = "upcoming"
	EventStatusEnded    = "ended"
)

// Event represents a scheduled programme, meeting or activity.
// It corresponds to the 'events' table.
type Event struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Date        time.Time `gorm:"not null" json:"date"`
	Time        string    `gorm:"not null" json:"time"`
	Location    string    `gorm:"not null" json:"location"`
	Type        string    `gorm:"not null" json:"type"`
	Description string    `gorm:"not null" json:"description"`
	Status      string    `gorm:"not null;default:upcoming" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName explicitly sets the table name for GORM.
func (Event) TableName() string {
	return "events"
}
