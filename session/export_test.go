package session

import "time"

func SetCookieStoreClock(s *CookieStore, now func() time.Time) {
	s.now = now
}
