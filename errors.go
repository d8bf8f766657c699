package autoforms

import (
	"errors"
)

var (
	// ErrAuth unknown user or wrong password
	ErrAuth = errors.New("username or password invalid")
	// ErrNotAuthorized the user lacks the permission of the operation
	ErrNotAuthorized = errors.New("not authorized")
	// ErrNotCapable the operation is disabled on the form
	ErrNotCapable = errors.New("operation disabled")
	// ErrServing forms can't be added once the handler is in use
	ErrServing = errors.New("server is already serving")
)
