package errors

import (
	"errors"
	"fmt"
)

var (
	ErrSubmissionNotFound      = errors.New("submission not found")
	ErrMediaNotFound           = errors.New("media item not found")
	ErrCampaignNotFound        = errors.New("campaign not found")
	ErrFeedbackNotFound        = errors.New("feedback not found")
	ErrForbidden               = errors.New("actor is not permitted to perform this action")
	ErrFeedbackRequired        = errors.New("feedback required")
	ErrInvalidReason           = errors.New("unknown feedback reason")
	ErrInvalidSubmissionInput  = errors.New("invalid submission input")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrDuplicateSubmission     = errors.New("duplicate submission")
	ErrVersionConflict         = errors.New("submission was modified concurrently")
	ErrDependencyFailure       = errors.New("dependent stage update failed")
	ErrLockNotAcquired         = errors.New("submission is locked by another operation")
)

type Kind string

const (
	KindUnknown           Kind = "unknown"
	KindNotFound          Kind = "not_found"
	KindForbidden         Kind = "forbidden"
	KindValidation        Kind = "validation"
	KindInvalidTransition Kind = "invalid_transition"
	KindConflict          Kind = "conflict"
	KindDependencyFailure Kind = "dependency_failure"
)

// KindOf classifies an error returned by the review workflow.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDependencyFailure):
		return KindDependencyFailure
	case errors.Is(err, ErrSubmissionNotFound),
		errors.Is(err, ErrMediaNotFound),
		errors.Is(err, ErrCampaignNotFound),
		errors.Is(err, ErrFeedbackNotFound):
		return KindNotFound
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrFeedbackRequired),
		errors.Is(err, ErrInvalidReason),
		errors.Is(err, ErrInvalidSubmissionInput):
		return KindValidation
	case errors.Is(err, ErrInvalidStatusTransition):
		return KindInvalidTransition
	case errors.Is(err, ErrDuplicateSubmission),
		errors.Is(err, ErrVersionConflict),
		errors.Is(err, ErrLockNotAcquired):
		return KindConflict
	default:
		return KindUnknown
	}
}

// Retryable reports whether the caller may repeat the operation unchanged.
func Retryable(err error) bool {
	return errors.Is(err, ErrDependencyFailure) ||
		errors.Is(err, ErrVersionConflict) ||
		errors.Is(err, ErrLockNotAcquired)
}

// DependencyError reports a failed cross-stage write after the primary
// transition has already been committed.
type DependencyError struct {
	SubmissionID string
	Target       string
	Err          error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("unlock %s for submission %s: %v", e.Target, e.SubmissionID, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

func (e *DependencyError) Is(target error) bool {
	return target == ErrDependencyFailure
}
