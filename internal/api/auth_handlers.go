package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/techjobs/backend/internal/entities"

	"github.com/golang-jwt/jwt/v5"
)

type credentialsInput struct {
	Email    string            `json:"email"`
	Password string            `json:"password"`
	Name     string            `json:"name,omitempty"`
	Type     entities.UserType `json:"type"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {

	var input credentialsInput
	if !decodeBody(w, r, &input) {
		return
	}

	user, sessionID, err := s.auth.Register(r.Context(), input.Email, input.Password, input.Name, input.Type)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if !s.issueSessionCookie(w, sessionID, user.ID) {
		return
	}
	writeData(w, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {

	var input credentialsInput
	if !decodeBody(w, r, &input) {
		return
	}

	user, sessionID, err := s.auth.Login(r.Context(), input.Email, input.Password, input.Type)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if !s.issueSessionCookie(w, sessionID, user.ID) {
		return
	}
	writeData(w, user)
}

// handleLogout drops the session and expires the cookie. A request without a
// valid session still gets its cookie cleared.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {

	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if claims := s.parseSessionToken(cookie.Value); claims != nil {
			s.auth.Logout(claims.SessionID)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, payload{Success: true, Message: "Logged out"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeData(w, userFrom(r))
}

func (s *Server) issueSessionCookie(w http.ResponseWriter, sessionID, userID string) bool {

	expiration := s.now().Add(s.cfg.SessionTTL)
	claims := &sessionClaims{
		SessionID: sessionID,
		UserID:    userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(s.now()),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create session token")
		return false
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    tokenString,
		Path:     "/",
		MaxAge:   int(time.Until(expiration).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return true
}

func (s *Server) parseSessionToken(tokenString string) *sessionClaims {

	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok {
		return nil
	}
	return claims
}

func decodeBody(w http.ResponseWriter, r *http.Request, target any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return false
	}
	return true
}
