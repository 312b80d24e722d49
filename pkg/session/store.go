// Package session keeps the anonymous chat session id in a signed cookie.
package session

import (
	"crypto/sha256"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"

	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/config"
)

const keySessionID = "sid"

// Store reads and writes the session id cookie.
type Store struct {
	cookies *sessions.CookieStore
	name    string
}

// NewStore creates a cookie store for the session id.
//
// The secret can be any passphrase; it is SHA-256 hashed to a 32-byte signing
// key. It must be the same on every instance. With an empty secret a random
// key is generated, so sessions do not survive a restart.
//
// Cookie settings:
//   - HttpOnly, SameSite=Lax
//   - Secure when baseURL is https
//   - Domain from cfg.CookieDomain, host-only otherwise
func NewStore(cfg config.SessionConfig, baseURL string) (*Store, error) {
	var key []byte
	if cfg.Secret != "" {
		sum := sha256.Sum256([]byte(cfg.Secret))
		key = sum[:]
	} else {
		key = securecookie.GenerateRandomKey(32)
		if key == nil {
			return nil, fmt.Errorf("generate session key")
		}
	}

	name := cfg.CookieName
	if name == "" {
		name = "sessionId"
	}

	cookies := sessions.NewCookieStore(key)
	cookies.Options = &sessions.Options{
		Path:     "/",
		Domain:   cfg.CookieDomain,
		MaxAge:   cfg.MaxAgeDays * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   isHTTPS(baseURL),
		SameSite: http.SameSiteLaxMode,
	}
	// Options alone leaves the codecs on the 30-day default expiry.
	cookies.MaxAge(cookies.Options.MaxAge)

	return &Store{cookies: cookies, name: name}, nil
}

// SessionID returns the id stored in the request's cookie. A missing,
// tampered or expired cookie reports false.
func (s *Store) SessionID(r *http.Request) (uuid.UUID, bool) {
	sess, err := s.cookies.Get(r, s.name)
	if err != nil || sess.IsNew {
		return uuid.Nil, false
	}
	raw, ok := sess.Values[keySessionID].(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// SetSessionID writes the id to the response cookie.
func (s *Store) SetSessionID(w http.ResponseWriter, r *http.Request, id uuid.UUID) error {
	// Get returns a fresh session alongside a decode error; that is the one we want.
	sess, _ := s.cookies.Get(r, s.name)
	sess.Values[keySessionID] = id.String()
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("save session cookie: %w", err)
	}
	return nil
}

// CookieName returns the name of the session cookie.
func (s *Store) CookieName() string {
	return s.name
}

func isHTTPS(baseURL string) bool {
	u, err := url.Parse(baseURL)
	if err != nil || baseURL == "" {
		return true
	}
	return u.Scheme != "http"
}
