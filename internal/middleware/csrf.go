package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const (
	csrfCookieName = "csrf_token"
	csrfHeaderName = "X-CSRF-Token"
	csrfTokenLen   = 32
	csrfMaxAge     = 12 * 60 * 60 // 12 hours
)

// CSRFMiddleware is a double-submit check: state-changing requests must echo
// the csrf_token cookie in the X-CSRF-Token header. The board has no
// sessions, so the cookie itself is the only secret.
type CSRFMiddleware struct {
	secure bool
}

func NewCSRFMiddleware(secure bool) *CSRFMiddleware {
	return &CSRFMiddleware{secure: secure}
}

func (m *CSRFMiddleware) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			if _, err := m.ensureToken(w, r); err != nil {
				writeMiddlewareError(w, http.StatusInternalServerError, "Failed to generate CSRF token")
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(csrfCookieName)
		if err != nil || cookie.Value == "" {
			writeMiddlewareError(w, http.StatusForbidden, "CSRF token missing")
			return
		}
		headerToken := r.Header.Get(csrfHeaderName)
		if headerToken == "" {
			writeMiddlewareError(w, http.StatusForbidden, "CSRF token header missing")
			return
		}
		if subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(headerToken)) != 1 {
			writeMiddlewareError(w, http.StatusForbidden, "CSRF token mismatch")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetToken serves GET /api/csrf for clients that cannot read headers.
func (m *CSRFMiddleware) GetToken(w http.ResponseWriter, r *http.Request) {
	token, err := m.ensureToken(w, r)
	if err != nil {
		writeMiddlewareError(w, http.StatusInternalServerError, "Failed to generate CSRF token")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"token": token})
}

// ensureToken reuses the request's token or issues a new cookie, and
// mirrors the token into the response header for scripts.
func (m *CSRFMiddleware) ensureToken(w http.ResponseWriter, r *http.Request) (string, error) {
	if cookie, err := r.Cookie(csrfCookieName); err == nil && cookie.Value != "" {
		w.Header().Set(csrfHeaderName, cookie.Value)
		return cookie.Value, nil
	}

	token, err := generateCSRFToken()
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   csrfMaxAge,
		HttpOnly: false, // read by app.js
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
	})
	w.Header().Set(csrfHeaderName, token)
	return token, nil
}

func generateCSRFToken() (string, error) {
	b := make([]byte, csrfTokenLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func writeMiddlewareError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
