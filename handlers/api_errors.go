package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/mensah-dev/beneficiarysysbackend/repository"
	"github.com/mensah-dev/beneficiarysysbackend/services"
	"github.com/mensah-dev/beneficiarysysbackend/validation"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("Error encoding JSON response: %v", err)
		}
	}
}

// APIErrorDetail represents a single error in the standardized error response.
type APIErrorDetail struct {
	Code   string `json:"code"`
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// APIErrorResponse represents the standardized error response body.
type APIErrorResponse struct {
	Errors []APIErrorDetail `json:"errors"`
}

// WriteAPIError writes a standardized error response with the given HTTP status, code, and detail.
func WriteAPIError(w http.ResponseWriter, httpStatus int, code string, detail string) {
	resp := APIErrorResponse{
		Errors: []APIErrorDetail{
			{
				Code:   code,
				Status: strconv.Itoa(httpStatus),
				Detail: detail,
			},
		},
	}
	writeJSON(w, httpStatus, resp)
}

// ValidationErrorResponse carries every violated field with its messages.
type ValidationErrorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// WriteValidationError writes a 422 response enumerating all field violations.
func WriteValidationError(w http.ResponseWriter, verr *validation.Error) {
	writeJSON(w, http.StatusUnprocessableEntity, ValidationErrorResponse{
		Message: "The given data was invalid.",
		Errors:  verr.Fields,
	})
}

// writeServiceError maps a beneficiary-service failure onto the API error
// shapes: validation failures list every field, a duplicate number is tagged
// on beneficiary_number, missing records give 404, and storage or database
// failures give a generic 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		WriteValidationError(w, verr)
		return
	}
	if errors.Is(err, repository.ErrDuplicateNumber) {
		writeJSON(w, http.StatusUnprocessableEntity, ValidationErrorResponse{
			Message: "The given data was invalid.",
			Errors: map[string][]string{
				"beneficiary_number": {"This beneficiary number is already in use"},
			},
		})
		return
	}
	if errors.Is(err, services.ErrNotFound) {
		WriteAPIError(w, http.StatusNotFound, "not_found", "Beneficiary not found")
		return
	}
	var storeErr *services.AssetStoreError
	if errors.As(err, &storeErr) {
		log.Printf("Asset store failure: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "storage_failure", "File storage error occurred. Please try again.")
		return
	}
	log.Printf("Unhandled service error: %v", err)
	WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Database error occurred. Please try again.")
}
