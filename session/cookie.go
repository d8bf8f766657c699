package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type claims struct {
	Stamp string `json:"stamp"`
	jwt.RegisteredClaims
}

// CookieStore keeps the session in an HS256 signed token inside the cookie
type CookieStore struct {
	Options
	now func() time.Time
}

// NewCookieStore creates a cookie store, the secret is required
func NewCookieStore(options Options) (*CookieStore, error) {
	if len(options.Secret) == 0 {
		return nil, ErrMissingSecret
	}
	options.defaults()
	return &CookieStore{Options: options, now: time.Now}, nil
}

func (s *CookieStore) Load(r *http.Request) (*Session, error) {
	token := cookieValue(r, s.CookieName)
	if token == "" {
		return nil, nil
	}

	var c claims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if _, err := parser.ParseWithClaims(token, &c, func(*jwt.Token) (interface{}, error) {
		return s.Secret, nil
	}); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: expired", ErrInvalidSession)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	if c.Subject == "" {
		return nil, ErrInvalidSession
	}
	return &Session{Username: c.Subject, Stamp: c.Stamp}, nil
}

func (s *CookieStore) Save(w http.ResponseWriter, r *http.Request, session *Session) error {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Stamp: session.Stamp,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.MaxAge)),
		},
	})

	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return fmt.Errorf("session: cannot sign token: %w", err)
	}
	setCookie(w, s.Options, signed, s.MaxAge)
	return nil
}

func (s *CookieStore) Clear(w http.ResponseWriter, r *http.Request) error {
	setCookie(w, s.Options, "", 0)
	return nil
}
