package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mensah-dev/beneficiarysysbackend/repository"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

// UserContextKey is the key used to store the user object in the request context.
const UserContextKey ContextKey = "user"

// AuthMiddleware verifies the bearer token and, if valid, fetches the user
// and adds them to the request context.
func AuthMiddleware(userRepo repository.UserRepositoryInterface, jwtSecret string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Authorization header format must be Bearer {token}")
			return
		}
		tokenString := parts[1]

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Invalid token")
			return
		}

		var userID uint
		if _, err := fmt.Sscan(claims.Subject, &userID); err != nil {
			log.Printf("Error parsing user ID from token subject '%s': %v", claims.Subject, err)
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Invalid user ID in token")
			return
		}

		user, err := userRepo.GetByID(userID)
		if err != nil {
			// the user may have been deleted after the token was issued
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "User not found")
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
