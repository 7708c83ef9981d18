package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/mensah-dev/beneficiarysysbackend/assets"
	"github.com/mensah-dev/beneficiarysysbackend/config"
	"github.com/mensah-dev/beneficiarysysbackend/services"
	"github.com/mensah-dev/beneficiarysysbackend/validation"
)

const maxMultipartMemory = 32 << 20

type BeneficiaryHandler struct {
	Service *services.BeneficiaryService
	Store   assets.Store
	Cfg     config.Config
}

func optionalFormValue(r *http.Request, name string) *string {
	v := strings.TrimSpace(r.FormValue(name))
	if v == "" {
		return nil
	}
	return &v
}

func beneficiaryInputFromForm(r *http.Request) *validation.BeneficiaryInput {
	return &validation.BeneficiaryInput{
		FirstName:         r.FormValue("first_name"),
		LastName:          r.FormValue("last_name"),
		BeneficiaryNumber: r.FormValue("beneficiary_number"),
		DateOfBirth:       r.FormValue("date_of_birth"),
		Gender:            r.FormValue("gender"),
		Nationality:       r.FormValue("nationality"),
		Address:           r.FormValue("address"),
		FatherName:        optionalFormValue(r, "father_name"),
		FatherContact:     optionalFormValue(r, "father_contact"),
		MotherName:        optionalFormValue(r, "mother_name"),
		MotherContact:     optionalFormValue(r, "mother_contact"),
		GuardianName:      optionalFormValue(r, "guardian_name"),
		GuardianContact:   optionalFormValue(r, "guardian_contact"),
		Occupation:        optionalFormValue(r, "occupation"),
		HealthBackground:  optionalFormValue(r, "health_background"),
		EmergencyContact:  optionalFormValue(r, "emergency_contact"),
	}
}

func uploadFromForm(r *http.Request, field string) (*services.Upload, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file %s: %w", header.Filename, err)
	}
	return &services.Upload{OriginalName: header.Filename, Size: header.Size, Content: content}, nil
}

func uploadsFromForm(r *http.Request, field string) ([]services.Upload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		// HTML array-style field names
		headers = r.MultipartForm.File[field+"[]"]
	}

	var uploads []services.Upload
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open uploaded file %s: %w", header.Filename, err)
		}
		content, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read uploaded file %s: %w", header.Filename, err)
		}
		uploads = append(uploads, services.Upload{OriginalName: header.Filename, Size: header.Size, Content: content})
	}
	return uploads, nil
}

func beneficiaryIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "beneficiary_id"), 10, 64)
}

// CreateBeneficiary registers a new beneficiary from a multipart submission
func (bh *BeneficiaryHandler) CreateBeneficiary(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_form", "Invalid multipart form: "+err.Error())
		return
	}

	input := beneficiaryInputFromForm(r)
	profileImage, err := uploadFromForm(r, "profile_image")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_upload", err.Error())
		return
	}
	documents, err := uploadsFromForm(r, "supporting_documents")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_upload", err.Error())
		return
	}

	record, err := bh.Service.Create(input, profileImage, documents)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

// ListBeneficiaries lists records matching ?search=, paginated
func (bh *BeneficiaryHandler) ListBeneficiaries(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("search")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = bh.Cfg.DefaultPageSize
	}

	records, total, err := bh.Service.Search(query, page, pageSize)
	if err != nil {
		log.Printf("Error searching beneficiaries for '%s': %v", query, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve beneficiaries")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":      records,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"search":    query,
	})
}

// GetBeneficiary retrieves a single record
func (bh *BeneficiaryHandler) GetBeneficiary(w http.ResponseWriter, r *http.Request) {
	id, err := beneficiaryIDParam(r)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid beneficiary ID format")
		return
	}

	record, err := bh.Service.Get(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// UpdateBeneficiary applies a multipart submission to an existing record
func (bh *BeneficiaryHandler) UpdateBeneficiary(w http.ResponseWriter, r *http.Request) {
	id, err := beneficiaryIDParam(r)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid beneficiary ID format")
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_form", "Invalid multipart form: "+err.Error())
		return
	}

	input := beneficiaryInputFromForm(r)
	profileImage, err := uploadFromForm(r, "profile_image")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_upload", err.Error())
		return
	}
	documents, err := uploadsFromForm(r, "supporting_documents")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_upload", err.Error())
		return
	}

	record, err := bh.Service.Update(id, input, profileImage, documents)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// DeleteBeneficiary removes a record together with its stored assets
func (bh *BeneficiaryHandler) DeleteBeneficiary(w http.ResponseWriter, r *http.Request) {
	id, err := beneficiaryIDParam(r)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid beneficiary ID format")
		return
	}

	if err := bh.Service.Delete(id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// DownloadDocument streams one supporting document back under its original
// filename. The document is addressed by its position in the record's list.
func (bh *BeneficiaryHandler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	id, err := beneficiaryIDParam(r)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid beneficiary ID format")
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "document_index"))
	if err != nil || index < 0 {
		WriteAPIError(w, http.StatusBadRequest, "invalid_index", "Invalid document index")
		return
	}

	record, err := bh.Service.Get(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if index >= len(record.SupportingDocumentsPaths) {
		WriteAPIError(w, http.StatusNotFound, "not_found", "Document not found")
		return
	}

	file, info, err := bh.Store.Open(record.SupportingDocumentsPaths[index])
	if err != nil {
		log.Printf("Error opening document %s of beneficiary %d: %v", record.SupportingDocumentsPaths[index], id, err)
		WriteAPIError(w, http.StatusNotFound, "not_found", "Document blob not found in storage")
		return
	}
	defer file.Close()

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", record.SupportingDocumentsNames[index]))
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := io.Copy(w, file); err != nil {
		log.Printf("Error streaming document %s of beneficiary %d: %v", record.SupportingDocumentsPaths[index], id, err)
	}
}
