package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dailyvibe/dailyvibe/internal/ctxkeys"
	"github.com/dailyvibe/dailyvibe/internal/store"
)

// Auth verifies the bearer token issued by the external identity service
// and, when valid, puts the opaque user id in the request context and opens
// the user's habit session. Invalid or missing tokens leave the request
// unauthenticated; RequireAuth decides whether that is fatal.
func Auth(jwtSecret string, habits *store.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := verifyToken(token, jwtSecret)
			if err != nil {
				slog.Debug("rejected auth token", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			err = habits.Open(r.Context(), userID)
			if err != nil {
				slog.Error("failed to open habit session", "error", err, "user_id", userID)
			}

			ctx := ctxkeys.WithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests that carry no verified identity.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.UserID(r.Context()) == "" {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return after
	}

	// Fallback for clients that keep the token in a cookie
	cookie, err := r.Cookie("auth_token")
	if err == nil {
		return cookie.Value
	}
	return ""
}

func verifyToken(tokenString, secret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", fmt.Errorf("token missing subject")
	}
	return sub, nil
}
