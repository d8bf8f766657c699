// Package session remembers the logged in user across requests.
package session

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultCookieName session cookie name
	DefaultCookieName = "autoforms"
	// DefaultMaxAge two weeks
	DefaultMaxAge = 14 * 24 * time.Hour
)

var (
	// ErrInvalidSession the session cookie was forged, expired or unknown
	ErrInvalidSession = errors.New("session: invalid session")
	// ErrMissingSecret the cookie store needs a signing secret
	ErrMissingSecret = errors.New("session: cookie store requires a secret")
)

// Session authenticated identity, Stamp fingerprints the password hash at login
// so a password change ends every older session
type Session struct {
	Username string
	Stamp    string
}

// Stamp fingerprint of a password hash
func Stamp(passwordHash string) string {
	sum := sha256.Sum256([]byte(passwordHash))
	return hex.EncodeToString(sum[:16])
}

// Store session collaborator, Load returns nil without error when there's no session
type Store interface {
	Load(r *http.Request) (*Session, error)
	Save(w http.ResponseWriter, r *http.Request, s *Session) error
	Clear(w http.ResponseWriter, r *http.Request) error
}

// Options shared store options
type Options struct {
	CookieName string
	MaxAge     time.Duration
	Secret     []byte
	Secure     bool
}

func (o *Options) defaults() {
	if o.CookieName == "" {
		o.CookieName = DefaultCookieName
	}
	if o.MaxAge <= 0 {
		o.MaxAge = DefaultMaxAge
	}
}

// Backends store names accepted by New
var Backends = []string{"cookie", "memory"}

// New creates the named store
func New(backend string, options Options) (Store, error) {
	switch strings.ToLower(backend) {
	case "", "cookie":
		return NewCookieStore(options)
	case "memory":
		return NewMemoryStore(options), nil
	}
	return nil, fmt.Errorf("session: unknown backend %q, expected one of %s", backend, strings.Join(Backends, ", "))
}

func setCookie(w http.ResponseWriter, options Options, value string, maxAge time.Duration) {
	cookie := &http.Cookie{
		Name:     options.CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   options.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if maxAge > 0 {
		cookie.MaxAge = int(maxAge.Seconds())
		cookie.Expires = time.Now().Add(maxAge)
	} else {
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(1, 0)
	}
	http.SetCookie(w, cookie)
}

func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
