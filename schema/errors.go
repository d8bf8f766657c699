package schema

import (
	"errors"
	"fmt"
)

// ErrConfig matches every *ConfigError with errors.Is
var ErrConfig = errors.New("invalid form configuration")

// ErrValidation matches every *ValidationError with errors.Is
var ErrValidation = errors.New("invalid value")

// ErrorKind classifies configuration failures
type ErrorKind string

const (
	MissingField      ErrorKind = "MissingField"
	InvalidName       ErrorKind = "InvalidName"
	InvalidType       ErrorKind = "InvalidType"
	InvalidRange      ErrorKind = "InvalidRange"
	InvalidPath       ErrorKind = "InvalidPath"
	InvalidPermission ErrorKind = "InvalidPermission"
	EmptyFieldSet     ErrorKind = "EmptyFieldSet"
	FatalConfig       ErrorKind = "FatalConfig"
)

// ConfigError a form or field declaration that can't be served
type ConfigError struct {
	Kind    ErrorKind
	Form    string
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	var where string
	switch {
	case e.Form != "" && e.Field != "":
		where = fmt.Sprintf("form %q field %q: ", e.Form, e.Field)
	case e.Form != "":
		where = fmt.Sprintf("form %q: ", e.Form)
	case e.Field != "":
		where = fmt.Sprintf("field %q: ", e.Field)
	}
	return fmt.Sprintf("%s: %s%s", e.Kind, where, e.Message)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// KindOf returns the kind of a wrapped ConfigError, or "" if err is not one
func KindOf(err error) ErrorKind {
	var cerr *ConfigError
	if errors.As(err, &cerr) {
		return cerr.Kind
	}
	return ""
}

// ValidationError a submitted value rejected by its field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func configErr(kind ErrorKind, field, format string, args ...interface{}) error {
	return &ConfigError{Kind: kind, Field: field, Message: fmt.Sprintf(format, args...)}
}
