package autoforms

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/google/uuid"

	"github.com/autoforms/autoforms/logger"
	"github.com/autoforms/autoforms/session"
	"github.com/autoforms/autoforms/store"
)

// RequestIDHeader carries the request id, a new one is generated when absent
const RequestIDHeader = "X-Request-Id"

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		ctx := logger.WithRequestID(r.Context(), id)
		s.Logger.Info(ctx, fmt.Sprintf("%s %s requested by %s", r.Method, r.URL.Path, clientIP(r)))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authenticate resolves the session user, sessions whose user is gone or whose
// password changed are cleared
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		sess, err := s.Sessions.Load(r)
		switch {
		case err != nil:
			s.Logger.Warn(ctx, "discarding session", err)
			s.clearSession(w, r)
		case sess != nil:
			user, err := s.reauthenticate(ctx, sess)
			switch {
			case err == nil:
				r = r.WithContext(context.WithValue(ctx, userKey{}, user))
			case errors.Is(err, ErrAuth):
				s.Logger.Warn(ctx, fmt.Sprintf("attempted session login by %s failed", sess.Username))
				s.clearSession(w, r)
			default:
				s.Logger.Error(ctx, "session login", err)
			}
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) reauthenticate(ctx context.Context, sess *session.Session) (*store.User, error) {
	h, err := s.Store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	user, err := h.FindUser(sess.Username)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, ErrAuth
		}
		return nil, err
	}

	if !user.Active || session.Stamp(user.Password) != sess.Stamp {
		return nil, ErrAuth
	}
	return user, nil
}

func (s *Server) clearSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Clear(w, r); err != nil {
		s.Logger.Error(r.Context(), "clearing session", err)
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
