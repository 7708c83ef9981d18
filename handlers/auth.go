package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mensah-dev/beneficiarysysbackend/config"
	"github.com/mensah-dev/beneficiarysysbackend/models"
	"github.com/mensah-dev/beneficiarysysbackend/repository"
)

type AuthHandler struct {
	UserRepo repository.UserRepositoryInterface
	Cfg      config.Config
}

func NewAuthHandler(userRepo repository.UserRepositoryInterface, cfg config.Config) *AuthHandler {
	return &AuthHandler{UserRepo: userRepo, Cfg: cfg}
}

type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	User      models.User `json:"user"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// Login verifies the credentials and issues a signed token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_input", "Invalid request payload")
		return
	}

	user, err := h.UserRepo.GetByUsername(payload.Username)
	if err != nil {
		WriteAPIError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password")
		return
	}
	if !user.CheckPassword(payload.Password) {
		WriteAPIError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password")
		return
	}

	expirationTime := time.Now().Add(time.Duration(h.Cfg.JWTExpiryHours) * time.Hour)
	claims := &jwt.RegisteredClaims{
		Subject:   fmt.Sprint(user.ID),
		ExpiresAt: jwt.NewNumericDate(expirationTime),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		Issuer:    "beneficiarysysbackend",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(h.Cfg.JWTSecret))
	if err != nil {
		log.Printf("Error signing token for user %s: %v", user.Username, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token:     tokenString,
		User:      *user,
		ExpiresAt: expirationTime,
	})
}

// CurrentUser returns the authenticated user placed in the request context by
// AuthMiddleware.
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok || user == nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Could not retrieve user from context")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
