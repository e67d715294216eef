package api

import (
	"context"
	"net/http"
	"time"

	"github.com/techjobs/backend/internal/entities"

	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
)

type contextKey string

const userContextKey contextKey = "user"

const sessionCookieName = "token"

type sessionClaims struct {
	SessionID string `json:"sessionId"`
	UserID    string `json:"userId"`
	jwt.RegisteredClaims
}

// withUser resolves the session cookie to the logged-in user and makes it
// available to the wrapped handler. Requests without a live session get 401.
func (s *Server) withUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		cookie, err := r.Cookie(sessionCookieName)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		token, err := jwt.ParseWithClaims(cookie.Value, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(s.cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		claims, ok := token.Claims.(*sessionClaims)
		if !ok || claims.SessionID == "" {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		user, ok := s.auth.SessionUser(claims.SessionID)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Session expired")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

func userFrom(r *http.Request) *entities.User {
	user, _ := r.Context().Value(userContextKey).(*entities.User)
	return user
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debugf("%s %s handled in %v", r.Method, r.URL.Path, time.Since(start))
	})
}
