package services

import (
	"errors"

	apperrors "github.com/mobile-bio-lab/lab-service/internal/errors"
	"github.com/mobile-bio-lab/lab-service/internal/repositories"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrConflict         = errors.New("resource conflict")

	// Auth specific errors
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrEmailDomainNotAllowed = errors.New("email must use the institutional domain")
	ErrUserAlreadyExists     = errors.New("email or student id already registered")
	ErrVerificationInvalid   = errors.New("invalid or expired verification link")
	ErrUserNotFound          = errors.New("user not found")

	// Reservation specific errors
	ErrSlotTaken            = repositories.ErrSlotTaken
	ErrReservationNotFound  = errors.New("reservation not found")
	ErrReservationNotOwned  = errors.New("reservation belongs to another user")
	ErrReservationNotActive = errors.New("reservation is not confirmed")

	// Sample/report specific errors
	ErrSampleNotFound = errors.New("sample not found")
	ErrReportNotFound = errors.New("report not found")
	ErrReportNotReady = errors.New("report is not ready for download")
)

// ===== ERROR HELPERS =====

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrReservationNotFound) ||
		errors.Is(err, ErrSampleNotFound) ||
		errors.Is(err, ErrReportNotFound)
}

// IsUnauthorized checks if error represents an "unauthorized" condition
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrInvalidCredentials)
}

// IsForbidden checks if error represents a "forbidden" condition
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrReservationNotOwned)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrEmailDomainNotAllowed) ||
		errors.Is(err, ErrVerificationInvalid) {
		return true
	}
	var ve apperrors.ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var single *apperrors.ValidationError
	return errors.As(err, &single)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrSlotTaken) ||
		errors.Is(err, ErrUserAlreadyExists)
}

// IsInvalidState checks if error represents an action not valid for the
// entity's current status
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrReportNotReady) ||
		errors.Is(err, ErrReservationNotActive)
}
