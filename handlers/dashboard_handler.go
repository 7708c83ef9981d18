package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/mensah-dev/beneficiarysysbackend/models"
	"github.com/mensah-dev/beneficiarysysbackend/repository"
)

// DashboardHandler assembles the landing-page summary: headline counts plus
// the most recent beneficiaries and events.
type DashboardHandler struct {
	Beneficiaries repository.BeneficiaryRepositoryInterface
	Events        repository.EventRepositoryInterface
	Stats         *repository.StatisticsRepository
}

type dashboardResponse struct {
	TotalBeneficiaries  int                  `json:"total_beneficiaries"`
	MaleBeneficiaries   int                  `json:"male_beneficiaries"`
	FemaleBeneficiaries int                  `json:"female_beneficiaries"`
	TotalParents        int                  `json:"total_parents"`
	TotalGuardians      int                  `json:"total_guardians"`
	UpcomingEvents      int64                `json:"upcoming_events"`
	RecentBeneficiaries []models.Beneficiary `json:"recent_beneficiaries"`
	RecentEvents        []models.Event       `json:"recent_events"`
}

// GetDashboard returns the summary shown on the dashboard page
func (dh *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	total, err := dh.Stats.Total()
	if err != nil {
		log.Printf("Error counting beneficiaries for dashboard: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to compute dashboard summary")
		return
	}
	male, err := dh.Stats.CountByGender(models.GenderMale)
	if err != nil {
		log.Printf("Error counting male beneficiaries for dashboard: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to compute dashboard summary")
		return
	}
	female, err := dh.Stats.CountByGender(models.GenderFemale)
	if err != nil {
		log.Printf("Error counting female beneficiaries for dashboard: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to compute dashboard summary")
		return
	}
	parents, err := dh.Stats.CountParents()
	if err != nil {
		log.Printf("Error counting parents for dashboard: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to compute dashboard summary")
		return
	}
	guardians, err := dh.Stats.CountGuardians()
	if err != nil {
		log.Printf("Error counting guardians for dashboard: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to compute dashboard summary")
		return
	}

	upcoming, err := dh.Events.CountUpcoming(time.Now(), 7*24*time.Hour)
	if err != nil {
		log.Printf("Error counting upcoming events for dashboard: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to compute dashboard summary")
		return
	}

	recentBeneficiaries, err := dh.Beneficiaries.ListRecent(4)
	if err != nil {
		log.Printf("Error listing recent beneficiaries for dashboard: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to compute dashboard summary")
		return
	}
	recentEvents, err := dh.Events.ListRecent(5)
	if err != nil {
		log.Printf("Error listing recent events for dashboard: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to compute dashboard summary")
		return
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		TotalBeneficiaries:  total,
		MaleBeneficiaries:   male,
		FemaleBeneficiaries: female,
		TotalParents:        parents,
		TotalGuardians:      guardians,
		UpcomingEvents:      upcoming,
		RecentBeneficiaries: recentBeneficiaries,
		RecentEvents:        recentEvents,
	})
}
