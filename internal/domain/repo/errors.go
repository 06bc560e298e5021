package repo

import (
	"errors"
	"fmt"
)

// Domain errors

type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Error codes
const (
	CodeInvalidRepositoryData = "INVALID_REPOSITORY_DATA"
	CodeUpstreamTransport     = "UPSTREAM_TRANSPORT"
	CodeUpstreamStatus        = "UPSTREAM_STATUS"
	CodeUpstreamDecode        = "UPSTREAM_DECODE"
	CodeMissingLanguagesURL   = "MISSING_LANGUAGES_URL"
)

// Predefined domain errors

func ErrInvalidRepositoryData(field string, err error) *DomainError {
	return &DomainError{
		Code:    CodeInvalidRepositoryData,
		Message: fmt.Sprintf("invalid %s", field),
		Err:     err,
	}
}

func ErrUpstreamTransport(operation string, err error) *DomainError {
	return &DomainError{
		Code:    CodeUpstreamTransport,
		Message: fmt.Sprintf("github %s request failed", operation),
		Err:     err,
	}
}

func ErrUpstreamStatus(operation string, status int, err error) *DomainError {
	return &DomainError{
		Code:    CodeUpstreamStatus,
		Message: fmt.Sprintf("github %s returned status %d", operation, status),
		Err:     err,
	}
}

func ErrUpstreamDecode(operation string, err error) *DomainError {
	return &DomainError{
		Code:    CodeUpstreamDecode,
		Message: fmt.Sprintf("github %s response could not be decoded", operation),
		Err:     err,
	}
}

func ErrMissingLanguagesURL(fullName string) *DomainError {
	return &DomainError{
		Code:    CodeMissingLanguagesURL,
		Message: fmt.Sprintf("repository %s has no languages_url", fullName),
	}
}

// IsInvalidInput reports whether err was caused by bad caller input
func IsInvalidInput(err error) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == CodeInvalidRepositoryData
}
