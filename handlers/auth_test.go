package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mensah-dev/beneficiarysysbackend/config"
	"github.com/mensah-dev/beneficiarysysbackend/models"
	"github.com/mensah-dev/beneficiarysysbackend/repository"
)

func newAuthTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	userRepo := repository.NewGormUserRepository(db)
	admin := &models.User{Username: "admin"}
	require.NoError(t, admin.SetPassword("correct-horse"))
	require.NoError(t, userRepo.Create(admin))

	cfg := config.Config{JWTSecret: "test-secret", JWTExpiryHours: 1}
	authHandler := NewAuthHandler(userRepo, cfg)

	r := chi.NewRouter()
	r.Post("/api/auth/login", authHandler.Login)
	r.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return AuthMiddleware(userRepo, cfg.JWTSecret, next)
		})
		r.Get("/api/auth/me", authHandler.CurrentUser)
	})
	return r
}

func TestLoginIssuesUsableToken(t *testing.T) {
	router := newAuthTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"admin","password":"correct-horse"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var login LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)
	assert.Equal(t, "admin", login.User.Username)
	assert.NotContains(t, rec.Body.String(), "password_hash")

	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var me models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "admin", me.Username)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	router := newAuthTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"admin","password":"wrong"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRejectsUnknownUser(t *testing.T) {
	router := newAuthTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"ghost","password":"whatever"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRouteRequiresBearerToken(t *testing.T) {
	router := newAuthTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
