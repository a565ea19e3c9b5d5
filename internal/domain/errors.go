package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrInsufficientCredit = errors.New("insufficient credits")
	ErrDuplicateOperation = errors.New("duplicate operation")
	ErrInProgress         = errors.New("generation in progress")
	ErrInvalidTransition  = errors.New("invalid status transition")

	// Provider lifecycle failures.
	ErrProviderNotConfigured = errors.New("video provider not configured")
	ErrProviderSubmission    = errors.New("video provider rejected submission")
	ErrProviderJobFailed     = errors.New("video provider reported failure")
	ErrTimeout               = errors.New("video generation timed out")
	ErrAssetRetrieval        = errors.New("video asset retrieval failed")
)

// FailureReason returns the short machine-readable reason recorded on a failed
// generation for the given error.
func FailureReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrProviderNotConfigured):
		return "provider_not_configured"
	case errors.Is(err, ErrProviderSubmission):
		return "provider_submission"
	case errors.Is(err, ErrProviderJobFailed):
		return "provider_failed"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrAssetRetrieval):
		return "asset_retrieval"
	case errors.Is(err, ErrInsufficientCredit):
		return "insufficient_credits"
	default:
		return "internal"
	}
}
