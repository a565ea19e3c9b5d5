package domain

import (
	"fmt"
	"strings"
	"time"
)

type GenerationStatus string

const (
	StatusPending    GenerationStatus = "pending"
	StatusProcessing GenerationStatus = "processing"
	StatusCompleted  GenerationStatus = "completed"
	StatusFailed     GenerationStatus = "failed"
)

// Terminal reports whether no further transition is allowed from s.
func (s GenerationStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition enforces pending -> processing -> completed|failed. A pending
// record may also fail directly (for example when swept or rejected).
func (s GenerationStatus) CanTransition(next GenerationStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing || next == StatusFailed || next == StatusCompleted
	case StatusProcessing:
		return next == StatusCompleted || next == StatusFailed
	default:
		return false
	}
}

type GenerationMode string

const (
	ModeTextToVideo       GenerationMode = "text_to_video"
	ModeFramesToVideo     GenerationMode = "frames_to_video"
	ModeReferencesToVideo GenerationMode = "references_to_video"
	ModeExtendVideo       GenerationMode = "extend_video"
)

func (m GenerationMode) Valid() bool {
	switch m {
	case ModeTextToVideo, ModeFramesToVideo, ModeReferencesToVideo, ModeExtendVideo:
		return true
	}
	return false
}

type AspectRatio string

const (
	AspectLandscape AspectRatio = "16:9"
	AspectPortrait  AspectRatio = "9:16"
	AspectSquare    AspectRatio = "1:1"
)

func (a AspectRatio) Valid() bool {
	switch a {
	case AspectLandscape, AspectPortrait, AspectSquare:
		return true
	}
	return false
}

type Resolution string

const (
	Resolution720p  Resolution = "720p"
	Resolution1080p Resolution = "1080p"
	Resolution4K    Resolution = "4k"
)

const (
	ModelVeoFast     = "veo-3.1-fast-generate-preview"
	ModelVeoStandard = "veo-3.1-generate-preview"
)

// SupportedModels lists the provider models a request may select.
var SupportedModels = map[string]struct{}{
	ModelVeoFast:     {},
	ModelVeoStandard: {},
}

const MaxReferenceImages = 3

// Image is an inline image passed to the provider.
type Image struct {
	Data     []byte
	MimeType string
}

// Input is the provider payload shape selected by the generation mode. The
// concrete types are PromptInput, FramesInput and ReferencesInput.
type Input interface {
	isInput()
}

// PromptInput carries no media; used by text_to_video and extend_video.
type PromptInput struct{}

// FramesInput carries an optional start and end frame.
type FramesInput struct {
	Start *Image
	End   *Image
}

// ReferencesInput carries asset reference images.
type ReferencesInput struct {
	Images []Image
}

func (PromptInput) isInput()     {}
func (FramesInput) isInput()     {}
func (ReferencesInput) isInput() {}

// GenerationRequest is the caller-facing request for a single video.
type GenerationRequest struct {
	Prompt         string
	Mode           GenerationMode
	AspectRatio    AspectRatio
	Resolution     Resolution
	Model          string
	StartFrame     *Image
	EndFrame       *Image
	References     []Image
	ProjectID      string
	TemplateID     string
	IdempotencyKey string
	IsPublic       bool
}

// Normalize fills defaults and validates the request. It returns the provider
// input shape for the mode.
func (r *GenerationRequest) Normalize() (Input, error) {
	r.Prompt = strings.TrimSpace(r.Prompt)
	if r.Mode == "" {
		r.Mode = ModeTextToVideo
	}
	if !r.Mode.Valid() {
		return nil, fmt.Errorf("%w: unsupported mode %q", ErrInvalidRequest, r.Mode)
	}
	if r.AspectRatio == "" {
		r.AspectRatio = AspectLandscape
	}
	if !r.AspectRatio.Valid() {
		return nil, fmt.Errorf("%w: unsupported aspect ratio %q", ErrInvalidRequest, r.AspectRatio)
	}
	if r.Resolution == "" {
		r.Resolution = Resolution720p
	}
	if _, err := CreditCost(r.Resolution, 1); err != nil {
		return nil, err
	}
	if r.Model == "" {
		r.Model = ModelVeoFast
	}
	if _, ok := SupportedModels[r.Model]; !ok {
		return nil, fmt.Errorf("%w: unsupported model %q", ErrInvalidRequest, r.Model)
	}
	return r.input()
}

func (r *GenerationRequest) input() (Input, error) {
	hasFrames := r.StartFrame != nil || r.EndFrame != nil
	hasRefs := len(r.References) > 0

	switch r.Mode {
	case ModeTextToVideo, ModeExtendVideo:
		if hasFrames || hasRefs {
			return nil, fmt.Errorf("%w: mode %s does not accept images", ErrInvalidRequest, r.Mode)
		}
		if r.Prompt == "" {
			return nil, fmt.Errorf("%w: prompt is required", ErrInvalidRequest)
		}
		return PromptInput{}, nil
	case ModeFramesToVideo:
		if hasRefs {
			return nil, fmt.Errorf("%w: frames_to_video does not accept reference images", ErrInvalidRequest)
		}
		if !hasFrames {
			return nil, fmt.Errorf("%w: frames_to_video requires a start or end frame", ErrInvalidRequest)
		}
		return FramesInput{Start: r.StartFrame, End: r.EndFrame}, nil
	case ModeReferencesToVideo:
		if hasFrames {
			return nil, fmt.Errorf("%w: references_to_video does not accept frames", ErrInvalidRequest)
		}
		if !hasRefs {
			return nil, fmt.Errorf("%w: references_to_video requires reference images", ErrInvalidRequest)
		}
		if len(r.References) > MaxReferenceImages {
			return nil, fmt.Errorf("%w: at most %d reference images", ErrInvalidRequest, MaxReferenceImages)
		}
		return ReferencesInput{Images: r.References}, nil
	}
	return nil, fmt.Errorf("%w: unsupported mode %q", ErrInvalidRequest, r.Mode)
}

// Generation is a persisted generation record.
type Generation struct {
	ID             string
	UserID         string
	Prompt         string
	Mode           GenerationMode
	AspectRatio    AspectRatio
	Resolution     Resolution
	Model          string
	Status         GenerationStatus
	VideoURL       string
	ThumbnailURL   string
	CreditsUsed    int
	ErrorMessage   string
	ProjectID      string
	TemplateID     string
	BatchID        string
	Prepaid        bool
	IdempotencyKey string
	GenerationTime int
	IsPublic       bool
	Title          string
	LikesCount     int
	ViewsCount     int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// GenerationFilter narrows a history listing.
type GenerationFilter struct {
	Status    GenerationStatus
	ProjectID string
	Limit     int
	Offset    int
}

// Completion carries what settlement needs to finalize a record.
type Completion struct {
	GenerationID string
	UserID       string
	VideoURL     string
	ThumbnailURL string
	Cost         int
	Charge       bool
	Description  string
	ProjectID    string
	FinishedAt   time.Time
}

// Settlement is the result of finalizing a completed generation.
type Settlement struct {
	RemainingCredits int
	Charged          bool
}
