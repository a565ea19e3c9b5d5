package domain

import (
	"fmt"
	"strings"
)

type BatchSettlement string

const (
	// SettleUpfront debits the whole batch at acceptance.
	SettleUpfront BatchSettlement = "upfront"
	// SettleOnCompletion charges each item when it completes.
	SettleOnCompletion BatchSettlement = "on_completion"
)

func ParseBatchSettlement(v string) BatchSettlement {
	if strings.EqualFold(strings.TrimSpace(v), string(SettleOnCompletion)) {
		return SettleOnCompletion
	}
	return SettleUpfront
}

// BatchRequest asks for one video per variation sharing a base prompt.
type BatchRequest struct {
	BasePrompt  string
	Variations  []string
	Mode        GenerationMode
	AspectRatio AspectRatio
	Resolution  Resolution
	Model       string
	ProjectID   string
}

// Prompts returns the composed item prompts in variation order.
func (b BatchRequest) Prompts() []string {
	prompts := make([]string, 0, len(b.Variations))
	for _, v := range b.Variations {
		prompts = append(prompts, b.BasePrompt+". "+v)
	}
	return prompts
}

// Normalize trims inputs, applies defaults and validates the batch.
func (b *BatchRequest) Normalize() error {
	b.BasePrompt = strings.TrimSpace(b.BasePrompt)
	variations := make([]string, 0, len(b.Variations))
	for _, v := range b.Variations {
		if v = strings.TrimSpace(v); v != "" {
			variations = append(variations, v)
		}
	}
	b.Variations = variations
	if len(b.Variations) == 0 {
		return fmt.Errorf("%w: at least one variation is required", ErrInvalidRequest)
	}
	if b.BasePrompt == "" {
		return fmt.Errorf("%w: base prompt is required", ErrInvalidRequest)
	}
	if b.Mode == "" {
		b.Mode = ModeTextToVideo
	}
	if b.Mode != ModeTextToVideo && b.Mode != ModeExtendVideo {
		return fmt.Errorf("%w: batch mode %q needs images", ErrInvalidRequest, b.Mode)
	}
	if b.AspectRatio == "" {
		b.AspectRatio = AspectLandscape
	}
	if !b.AspectRatio.Valid() {
		return fmt.Errorf("%w: unsupported aspect ratio %q", ErrInvalidRequest, b.AspectRatio)
	}
	if b.Resolution == "" {
		b.Resolution = Resolution720p
	}
	if b.Model == "" {
		b.Model = ModelVeoFast
	}
	if _, ok := SupportedModels[b.Model]; !ok {
		return fmt.Errorf("%w: unsupported model %q", ErrInvalidRequest, b.Model)
	}
	return nil
}

// BatchAcceptance is a batch persisted as pending records.
type BatchAcceptance struct {
	BatchID     string
	Generations []Generation
	TotalCost   int
	Remaining   int
	Settlement  BatchSettlement
}
