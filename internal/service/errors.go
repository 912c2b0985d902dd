package service

import (
	"errors"
	"fmt"

	"backoffice/internal/apperr"
	"backoffice/internal/repository"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict is a submission the database refused on its merits, such as
	// a reused document number or stock that would go negative.
	ErrConflict = errors.New("conflict")
	// ErrSubmissionFailed is any other failed submission. The draft is kept
	// so the user can retry.
	ErrSubmissionFailed = errors.New("submission failed")
)

func notFound(what, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, what, id)
}

// lookupErr turns a repository miss into ErrNotFound.
func lookupErr(err error, what, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(what, id)
	}
	return fmt.Errorf("failed to load %s %s: %w", what, id, err)
}

// submissionErr classifies an error returned by the gateway.
func submissionErr(err error) error {
	switch {
	case err == nil:
		return nil
	case apperr.IsValidation(err), errors.Is(err, ErrNotFound):
		return err
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, repository.ErrDuplicate), errors.Is(err, repository.ErrInsufficientStock):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	return fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
}

func isRepoNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
