// Package auth implements the email allow-list session gate. An email on the
// configured allow-list maps to a roster participant name and gets a signed
// session token; everyone else is turned away. This is an access gate for a
// private ledger among friends, not a security boundary.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sidebook/wager-engine/internal/metrics"
)

var (
	// ErrNotAllowed is returned when the email is not on the allow-list.
	ErrNotAllowed = errors.New("auth: email not on allow-list")

	// ErrInvalidToken is returned for missing, malformed, or expired tokens.
	ErrInvalidToken = errors.New("auth: invalid session token")
)

// Claims carries the participant identity inside the session token.
type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Sessions issues and verifies allow-list session tokens.
type Sessions struct {
	secret    []byte
	ttl       time.Duration
	allowlist map[string]string // normalized email → participant name
}

// New creates a session gate. The allow-list maps emails to roster names;
// keys are normalized to lowercase.
func New(secret string, ttl time.Duration, allowlist map[string]string) *Sessions {
	normalized := make(map[string]string, len(allowlist))
	for email, name := range allowlist {
		normalized[normalizeEmail(email)] = name
	}
	return &Sessions{
		secret:    []byte(secret),
		ttl:       ttl,
		allowlist: normalized,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Issue returns a signed session token and the mapped participant name for an
// allow-listed email.
func (s *Sessions) Issue(email string) (token, name string, err error) {
	normalized := normalizeEmail(email)
	name, ok := s.allowlist[normalized]
	if !ok {
		return "", "", ErrNotAllowed
	}

	now := time.Now().UTC()
	claims := Claims{
		Name:  name,
		Email: normalized,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", "", err
	}
	return token, name, nil
}

// Verify parses and validates a session token, returning its claims.
func (s *Sessions) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// --- HTTP surface ---

type sessionRequest struct {
	Email string `json:"email"`
}

type sessionResponse struct {
	Token string `json:"token"`
	Name  string `json:"name"`
}

// HandleCreateSession handles POST /api/v1/session.
func (s *Sessions) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		writeError(w, "email is required", http.StatusBadRequest)
		return
	}

	token, name, err := s.Issue(req.Email)
	if err != nil {
		writeError(w, "email is not on the allow-list", http.StatusUnauthorized)
		return
	}

	metrics.SessionsIssued.Inc()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sessionResponse{Token: token, Name: name})
}

type ctxKey struct{}

// Middleware validates the Authorization bearer token and stashes the
// participant name in the request context.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, "missing bearer token", http.StatusUnauthorized)
			return
		}

		claims, err := s.Verify(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
		if err != nil {
			writeError(w, "invalid session token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKey{}, claims.Name)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ParticipantFrom returns the authenticated participant name, if any.
func ParticipantFrom(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(ctxKey{}).(string)
	return name, ok
}

func writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
