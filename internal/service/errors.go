package service

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/leadbook/internal/repository"
)

var (
	// ErrValidation marks input rejected before any write happened.
	ErrValidation = errors.New("validation failed")
	// ErrStorageUnavailable marks a failed read or write of persisted storage.
	// The wrapped driver error is kept in the chain.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrSaveInFlight is returned when a note save for the same lead is
	// still running.
	ErrSaveInFlight = errors.New("note save already in progress")
)

func validationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// storageErr tags unexpected errors as storage failures. Not-found and
// validation errors pass through unchanged.
func storageErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, ErrValidation),
		errors.Is(err, ErrStorageUnavailable):
		return err
	default:
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
}
