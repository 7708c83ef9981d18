package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/mensah-dev/beneficiarysysbackend/repository"
)

type StatisticsHandler struct {
	Repo *repository.StatisticsRepository
}

// GetStatistics returns the aggregate statistics page payload
func (sh *StatisticsHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := sh.Repo.Overview()
	if err != nil {
		log.Printf("Error assembling statistics overview: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to compute statistics")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// GetMonthlyRegistrations returns the registration series for the current
// year, with every month present even when no registrations happened.
func (sh *StatisticsHandler) GetMonthlyRegistrations(w http.ResponseWriter, r *http.Request) {
	rows, err := sh.Repo.MonthlyRegistrations(0)
	if err != nil {
		log.Printf("Error querying monthly registrations: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to compute monthly registrations")
		return
	}

	byMonth := make(map[string]repository.MonthlyCount, len(rows))
	for _, row := range rows {
		byMonth[row.Month] = row
	}

	year := time.Now().Year()
	series := make([]repository.MonthlyCount, 0, 12)
	for m := 1; m <= 12; m++ {
		key := fmt.Sprintf("%04d-%02d", year, m)
		if row, ok := byMonth[key]; ok {
			series = append(series, row)
			continue
		}
		series = append(series, repository.MonthlyCount{Month: key})
	}

	writeJSON(w, http.StatusOK, series)
}
