package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shaymaabd/AMPA/internal/platform/logger"
	"github.com/shaymaabd/AMPA/internal/service"
)

type ContextKey string

const SessionIDCtxKey = ContextKey("session_id")

// sessionRefreshAfter is how old a session token may get before the cookie is
// re-issued. Tokens are accepted for the same period past their expiry, so an
// active user's cookie always outlives the stored session.
const sessionRefreshAfter = time.Minute

// SessionClaims is the payload of the session cookie.
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type SessionCookieConfig struct {
	Secret string
	Name   string
	TTL    time.Duration
	Secure bool
}

func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(SessionIDCtxKey).(string)
	return id
}

func signSession(cfg SessionCookieConfig, sessionID string, now time.Time) (string, error) {
	claims := SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "ampa",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
}

// parseSession returns the session id and the time the token was issued.
func parseSession(cfg SessionCookieConfig, tokenString string) (string, time.Time, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(cfg.Secret), nil
	}, jwt.WithLeeway(sessionRefreshAfter))
	if err != nil {
		return "", time.Time{}, err
	}
	if !token.Valid || claims.SessionID == "" {
		return "", time.Time{}, errors.New("session token is not valid")
	}
	var issuedAt time.Time
	if claims.IssuedAt != nil {
		issuedAt = claims.IssuedAt.Time
	}
	return claims.SessionID, issuedAt, nil
}

func issueSessionCookie(w http.ResponseWriter, cfg SessionCookieConfig, sessionID string) error {
	token, err := signSession(cfg, sessionID, time.Now())
	if err != nil {
		return err
	}
	setSessionCookie(w, cfg, token, int((cfg.TTL + sessionRefreshAfter).Seconds()))
	return nil
}

func setSessionCookie(w http.ResponseWriter, cfg SessionCookieConfig, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionMiddleware resolves the caller's session from the signed cookie,
// starting a new one when the cookie is missing, invalid or points at an
// expired session. The cookie is re-issued as the session stays in use, so
// its expiry follows the stored session's sliding TTL. The session id is
// stored under SessionIDCtxKey.
func SessionMiddleware(sessions service.SessionService, cfg SessionCookieConfig, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sessionID string
			var issuedAt time.Time
			if cookie, err := r.Cookie(cfg.Name); err == nil && cookie.Value != "" {
				sessionID, issuedAt, err = parseSession(cfg, cookie.Value)
				if err != nil {
					log.Debugf("Discarding session cookie: %v", err)
				}
			}

			session, created, err := sessions.GetOrCreate(r.Context(), sessionID)
			if err != nil {
				log.Errorf("Error resolving session %s: %v", sessionID, err)
				respondError(w, http.StatusServiceUnavailable, "session_unavailable", "session store unavailable")
				return
			}

			if created || time.Since(issuedAt) >= sessionRefreshAfter {
				if err := issueSessionCookie(w, cfg, session.ID); err != nil {
					log.Errorf("Error signing session %s: %v", session.ID, err)
					respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
					return
				}
			}

			ctx := context.WithValue(r.Context(), SessionIDCtxKey, session.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
