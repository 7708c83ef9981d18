package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mensah-dev/beneficiarysysbackend/models"
)

func testEvent(title string, date time.Time) *models.Event {
	return &models.Event{
		Title:       title,
		Date:        date,
		Time:        "10:00",
		Location:    "Accra",
		Type:        models.EventTypeUpcoming,
		Description: "Quarterly outreach visit",
		Status:      models.EventStatusUpcoming,
	}
}

func TestEventCreateDefaultsStatus(t *testing.T) {
	repo := NewEventRepository(newTestDB(t))

	event := testEvent("Outreach", time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC))
	event.Status = ""
	require.NoError(t, repo.Create(event))

	loaded, err := repo.GetByID(event.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusUpcoming, loaded.Status)
}

func TestEventListAllOrdersBySchedule(t *testing.T) {
	repo := NewEventRepository(newTestDB(t))

	later := testEvent("Later", time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Create(later))
	sooner := testEvent("Sooner", time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Create(sooner))

	events, err := repo.ListAll()
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Sooner", events[0].Title)
	assert.Equal(t, "Later", events[1].Title)
}

func TestEventCountUpcomingWithinWindow(t *testing.T) {
	repo := NewEventRepository(newTestDB(t))

	now := time.Now()
	require.NoError(t, repo.Create(testEvent("Tomorrow", now.Add(24*time.Hour))))
	require.NoError(t, repo.Create(testEvent("Next month", now.Add(31*24*time.Hour))))
	require.NoError(t, repo.Create(testEvent("Last week", now.Add(-7*24*time.Hour))))

	count, err := repo.CountUpcoming(now, 7*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestEventUpdateReplacesDetails(t *testing.T) {
	repo := NewEventRepository(newTestDB(t))

	event := testEvent("Outreach", time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Create(event))

	changed := testEvent("Renamed Outreach", time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC))
	changed.ID = event.ID
	changed.Status = models.EventStatusCurrent
	require.NoError(t, repo.Update(changed))

	loaded, err := repo.GetByID(event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Outreach", loaded.Title)
	assert.Equal(t, models.EventStatusCurrent, loaded.Status)
}

func TestEventUpdateStatusOnly(t *testing.T) {
	repo := NewEventRepository(newTestDB(t))

	event := testEvent("Outreach", time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Create(event))

	require.NoError(t, repo.UpdateStatus(event.ID, models.EventStatusEnded))

	loaded, err := repo.GetByID(event.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusEnded, loaded.Status)
	assert.Equal(t, "Outreach", loaded.Title)
}

func TestEventUpdateStatusMissingRecord(t *testing.T) {
	repo := NewEventRepository(newTestDB(t))
	assert.ErrorIs(t, repo.UpdateStatus(99, models.EventStatusEnded), gorm.ErrRecordNotFound)
}

func TestEventDelete(t *testing.T) {
	repo := NewEventRepository(newTestDB(t))

	event := testEvent("Outreach", time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Create(event))
	require.NoError(t, repo.Delete(event.ID))
	assert.ErrorIs(t, repo.Delete(event.ID), gorm.ErrRecordNotFound)
}
