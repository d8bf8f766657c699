// Package auth hashes passwords and checks the account policy for new users.
package auth

import (
	"errors"
	"fmt"
	"regexp"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	// MinPasswordLength shortest accepted password
	MinPasswordLength = 8
	// MaxUsernameLength size of the users.username column
	MaxUsernameLength = 20
	// MaxEmailLength size of the users.email column
	MaxEmailLength = 40
)

var (
	// ErrPolicy a credential does not satisfy the account policy
	ErrPolicy = errors.New("auth: policy violation")
	// ErrMismatch password does not match the stored hash
	ErrMismatch = errors.New("auth: password mismatch")

	usernameRegexp = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9]{4,19}$`)
	emailRegexp    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// Cost bcrypt cost used by Hash
var Cost = bcrypt.DefaultCost

// Hash hashes a password for storage
func Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if err != nil {
		return "", fmt.Errorf("auth: cannot hash password: %w", err)
	}
	return string(hash), nil
}

// Compare checks password against hash
func Compare(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return fmt.Errorf("auth: %w", err)
	}
	return nil
}

// PolicyError a rejected credential, Message is meant for the user
type PolicyError struct {
	Message string
}

func (e *PolicyError) Error() string {
	return "auth: " + e.Message
}

func (e *PolicyError) Is(target error) bool {
	return target == ErrPolicy
}

func policy(format string, args ...interface{}) error {
	return &PolicyError{Message: fmt.Sprintf(format, args...)}
}

// CheckUsername a letter followed by four to nineteen letters or digits
func CheckUsername(username string) error {
	if !usernameRegexp.MatchString(username) {
		return policy("username must start with a letter and have 5 to %d letters or digits", MaxUsernameLength)
	}
	return nil
}

// CheckEmail loose address shape check
func CheckEmail(email string) error {
	if len(email) > MaxEmailLength {
		return policy("email address must be at most %d characters", MaxEmailLength)
	}
	if !emailRegexp.MatchString(email) {
		return policy("invalid email address")
	}
	return nil
}

// CheckPassword enforces length, mixed case, a digit, no whitespace and a matching confirmation
func CheckPassword(password, confirmation string) error {
	if password != confirmation {
		return policy("passwords do not match")
	}
	if len(password) < MinPasswordLength {
		return policy("password must have at least %d characters", MinPasswordLength)
	}

	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsSpace(r):
			return policy("password must not contain whitespace")
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}

	if !upper || !lower || !digit {
		return policy("password must mix upper case, lower case and digits")
	}
	return nil
}

// Credentials new account request
type Credentials struct {
	Username     string
	Email        string
	Password     string
	Confirmation string
}

// Check runs every policy rule, the first violation wins
func (c Credentials) Check() error {
	if err := CheckUsername(c.Username); err != nil {
		return err
	}
	if err := CheckEmail(c.Email); err != nil {
		return err
	}
	return CheckPassword(c.Password, c.Confirmation)
}
