package service

import (
	"errors"
	"fmt"
	"strings"
)

var ( // Define custom errors
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrMissingSubject     = errors.New("token is missing a subject")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("record not found")

	// ErrClassificationUnavailable is returned when the classifier does
	// not produce a usable answer within its bounded wait.
	ErrClassificationUnavailable = errors.New("classification service unavailable")
)

// InvalidLabelError reports a candidate emotion outside the taxonomy,
// carrying the allowed set so clients can self-correct.
type InvalidLabelError struct {
	Candidate string
	Allowed   []string
}

func (e *InvalidLabelError) Error() string {
	return fmt.Sprintf("invalid emotion %q, must be one of [%s]", e.Candidate, strings.Join(e.Allowed, ", "))
}

// PayloadError reports a rejected image upload.
type PayloadError struct {
	Reason string
}

func (e *PayloadError) Error() string {
	return "invalid image: " + e.Reason
}
