package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mensah-dev/beneficiarysysbackend/assets"
	"github.com/mensah-dev/beneficiarysysbackend/config"
	"github.com/mensah-dev/beneficiarysysbackend/models"
	"github.com/mensah-dev/beneficiarysysbackend/repository"
	"github.com/mensah-dev/beneficiarysysbackend/services"
)

func newHandlerTestRouter(t *testing.T) (*chi.Mux, *assets.LocalStorage) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Beneficiary{}, &models.Event{}, &models.User{}))

	store, err := assets.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	cfg := config.Config{
		ProfilesSubDir:       "profiles",
		DocumentsSubDir:      "documents",
		MaxProfileImageBytes: 2048 * 1024,
		MaxDocumentBytes:     5120 * 1024,
		DefaultPageSize:      10,
	}

	repo := repository.NewBeneficiaryRepository(db)
	service := services.NewBeneficiaryService(repo, store, cfg)
	handler := &BeneficiaryHandler{Service: service, Store: store, Cfg: cfg}

	r := chi.NewRouter()
	r.Route("/api/beneficiaries", func(r chi.Router) {
		r.Post("/", handler.CreateBeneficiary)
		r.Get("/", handler.ListBeneficiaries)
		r.Route("/{beneficiary_id}", func(r chi.Router) {
			r.Get("/", handler.GetBeneficiary)
			r.Put("/", handler.UpdateBeneficiary)
			r.Delete("/", handler.DeleteBeneficiary)
			r.Get("/documents/{document_index}/download", handler.DownloadDocument)
		})
	})
	return r, store
}

func beneficiaryForm(t *testing.T, number string, documents map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	fields := map[string]string{
		"first_name":         "Ama",
		"last_name":          "Mensah",
		"beneficiary_number": number,
		"date_of_birth":      "2015-06-01",
		"gender":             "Female",
		"nationality":        "Ghanaian",
		"address":            "Accra",
	}
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	for name, content := range documents {
		part, err := writer.CreateFormFile("supporting_documents", name)
		require.NoError(t, err)
		_, err = io.WriteString(part, content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func TestCreateBeneficiaryEndpoint(t *testing.T) {
	router, store := newHandlerTestRouter(t)

	body, contentType := beneficiaryForm(t, "B-1001", map[string]string{"cert.pdf": "cert-bytes"})
	req := httptest.NewRequest(http.MethodPost, "/api/beneficiaries/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created models.Beneficiary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "B-1001", created.BeneficiaryNumber)
	require.Len(t, created.SupportingDocumentsPaths, 1)
	assert.Equal(t, []string{"cert.pdf"}, created.SupportingDocumentsNames)
	assert.True(t, store.Exists(created.SupportingDocumentsPaths[0]))
}

func TestCreateBeneficiaryEndpointReportsAllViolations(t *testing.T) {
	router, _ := newHandlerTestRouter(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("first_name", "Ama4"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/beneficiaries/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp ValidationErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "The given data was invalid.", resp.Message)
	assert.NotEmpty(t, resp.Errors["first_name"])
	assert.NotEmpty(t, resp.Errors["last_name"])
	assert.NotEmpty(t, resp.Errors["gender"])
}

func TestCreateBeneficiaryEndpointRejectsDuplicateNumber(t *testing.T) {
	router, _ := newHandlerTestRouter(t)

	body, contentType := beneficiaryForm(t, "B-1001", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/beneficiaries/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	body, contentType = beneficiaryForm(t, "B-1001", nil)
	req = httptest.NewRequest(http.MethodPost, "/api/beneficiaries/", body)
	req.Header.Set("Content-Type", contentType)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp ValidationErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Errors["beneficiary_number"], "This beneficiary number is already in use")
}

func TestGetBeneficiaryEndpointNotFound(t *testing.T) {
	router, _ := newHandlerTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/beneficiaries/99/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListBeneficiariesEndpointPaginates(t *testing.T) {
	router, _ := newHandlerTestRouter(t)

	for i := 1; i <= 3; i++ {
		body, contentType := beneficiaryForm(t, fmt.Sprintf("B-%04d", i), nil)
		req := httptest.NewRequest(http.MethodPost, "/api/beneficiaries/", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/beneficiaries/?page=1&page_size=2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data     []models.Beneficiary `json:"data"`
		Total    int64                `json:"total"`
		Page     int                  `json:"page"`
		PageSize int                  `json:"page_size"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(3), resp.Total)
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 2, resp.PageSize)
}

func TestDownloadDocumentEndpoint(t *testing.T) {
	router, _ := newHandlerTestRouter(t)

	body, contentType := beneficiaryForm(t, "B-1001", map[string]string{"cert.pdf": "cert-bytes"})
	req := httptest.NewRequest(http.MethodPost, "/api/beneficiaries/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Beneficiary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/beneficiaries/%d/documents/0/download", created.ID), nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cert-bytes", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="cert.pdf"`)

	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/beneficiaries/%d/documents/5/download", created.ID), nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteBeneficiaryEndpointRemovesBlobs(t *testing.T) {
	router, store := newHandlerTestRouter(t)

	body, contentType := beneficiaryForm(t, "B-1001", map[string]string{"cert.pdf": "cert-bytes"})
	req := httptest.NewRequest(http.MethodPost, "/api/beneficiaries/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Beneficiary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	docPath := created.SupportingDocumentsPaths[0]

	req = httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/beneficiaries/%d/", created.ID), nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	assert.False(t, store.Exists(docPath))

	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/beneficiaries/%d/", created.ID), nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
