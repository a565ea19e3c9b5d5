// Package video talks to long-running video generation providers.
package video

import (
	"context"

	"videostudio/internal/domain"
)

// Request is one submission. Input is the mode's payload shape.
type Request struct {
	Model       string
	Prompt      string
	Mode        domain.GenerationMode
	AspectRatio domain.AspectRatio
	Resolution  domain.Resolution
	Input       domain.Input
}

// Job is the provider's handle for a submitted operation.
type Job struct {
	Name string
}

// Status is one poll observation. A done job with no Err and no VideoURI
// finished without producing an asset.
type Status struct {
	Done     bool
	VideoURI string
	Err      error
}

// Provider submits jobs, polls them and fetches the finished asset.
//
// Submit errors wrap domain.ErrProviderNotConfigured or
// domain.ErrProviderSubmission. Poll errors are transport failures and may be
// retried; a job the provider gave up on is reported as Status.Err.
type Provider interface {
	Name() string
	Submit(ctx context.Context, req Request) (Job, error)
	Poll(ctx context.Context, job Job) (Status, error)
	Download(ctx context.Context, uri string) ([]byte, error)
}
