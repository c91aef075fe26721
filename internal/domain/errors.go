package domain

import "errors"

// Domain errors
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInternalError = errors.New("internal error")
	ErrGroupNotFound = errors.New("group not found")
	ErrNameRequired  = errors.New("name is required")
	ErrNameTooLong   = errors.New("name exceeds maximum length")
)

// Validation constants
const (
	MaxNameLength  = 255
	MaxNotesLength = 1000
)

// IsValidationError reports whether err is caused by malformed or missing input.
// Validation errors are returned to the caller field by field and never logged as faults.
func IsValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

var validationErrors = []error{
	ErrInvalidInput,
	ErrNameRequired,
	ErrNameTooLong,
	ErrMemberEmailInvalid,
	ErrMemberDedicationInvalid,
	ErrLoanAmountInvalid,
	ErrLoanIssueDateRequired,
	ErrLoanMemberRequired,
	ErrNotesTooLong,
	ErrRepaymentAmountInvalid,
	ErrRepaymentMonthRequired,
	ErrUnscheduledMonth,
	ErrAmbiguousMonth,
	ErrContributionAmountInvalid,
	ErrContributionMonthInvalid,
	ErrMeetingDateRequired,
}

// IsNotFoundError reports whether err means the requested record does not exist
// in the caller's group
func IsNotFoundError(err error) bool {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

var notFoundErrors = []error{
	ErrNotFound,
	ErrGroupNotFound,
	ErrMemberNotFound,
	ErrLoanNotFound,
	ErrContributionNotFound,
	ErrSettingsNotFound,
}
