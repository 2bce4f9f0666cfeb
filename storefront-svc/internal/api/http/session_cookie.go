package httpapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"overcooked-delivery/storefront-svc/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	sessionCookie = "sid"
	userCookie    = "user"
)

type ctxKey int

const (
	sessionIDKey ctxKey = iota
	storefrontKey
)

// SessionCookies issues and verifies the signed cookie that identifies a
// browser session.
type SessionCookies struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

func NewSessionCookies(secret string, ttl time.Duration, secure bool) *SessionCookies {
	return &SessionCookies{secret: []byte(secret), ttl: ttl, secure: secure}
}

func (c *SessionCookies) Issue(w http.ResponseWriter) (string, error) {
	sessionID := uuid.NewString()
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	})
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session cookie: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(c.ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sessionID, nil
}

func (c *SessionCookies) Verify(r *http.Request) (string, error) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return "", err
	}

	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", errors.New("session cookie has no session id")
	}
	return claims.Subject, nil
}

// Middleware attaches the session id to the request, issuing a fresh
// session when the cookie is missing or invalid.
func (c *SessionCookies) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := c.Verify(r)
		if err != nil {
			sessionID, err = c.Issue(w)
			if err != nil {
				writeError(w, err)
				return
			}
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionIDKey, sessionID)))
	})
}

func sessionIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}

// cookieMirror copies the signed-in user into a cookie the page scripts can read.
type cookieMirror struct {
	w      http.ResponseWriter
	ttl    time.Duration
	secure bool
}

func (m *cookieMirror) Mirror(user domain.User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return err
	}
	http.SetCookie(m.w, &http.Cookie{
		Name:     userCookie,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (m *cookieMirror) Clear() {
	http.SetCookie(m.w, &http.Cookie{
		Name:   userCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}
