package domain

import (
	"errors"
	"testing"
)

func TestGenerationRequestNormalizeShapes(t *testing.T) {
	img := &Image{Data: []byte{1}, MimeType: "image/png"}
	tests := []struct {
		name    string
		req     GenerationRequest
		want    Input
		wantErr bool
	}{
		{name: "text defaults", req: GenerationRequest{Prompt: "a cat"}, want: PromptInput{}},
		{name: "text without prompt", req: GenerationRequest{}, wantErr: true},
		{name: "text with frame", req: GenerationRequest{Prompt: "x", StartFrame: img}, wantErr: true},
		{name: "extend", req: GenerationRequest{Prompt: "more", Mode: ModeExtendVideo}, want: PromptInput{}},
		{name: "frames without prompt", req: GenerationRequest{Mode: ModeFramesToVideo, StartFrame: img}, want: FramesInput{Start: img}},
		{name: "frames without frames", req: GenerationRequest{Prompt: "x", Mode: ModeFramesToVideo}, wantErr: true},
		{name: "references", req: GenerationRequest{Prompt: "x", Mode: ModeReferencesToVideo, References: []Image{*img}}},
		{name: "too many references", req: GenerationRequest{Prompt: "x", Mode: ModeReferencesToVideo, References: []Image{*img, *img, *img, *img}}, wantErr: true},
		{name: "unknown mode", req: GenerationRequest{Prompt: "x", Mode: "remix"}, wantErr: true},
		{name: "unknown resolution", req: GenerationRequest{Prompt: "x", Resolution: "8k"}, wantErr: true},
		{name: "unknown model", req: GenerationRequest{Prompt: "x", Model: "veo-1"}, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.req.Normalize()
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidRequest) {
					t.Fatalf("expected ErrInvalidRequest, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize returned error: %v", err)
			}
			switch want := tc.want.(type) {
			case PromptInput:
				if _, ok := got.(PromptInput); !ok {
					t.Fatalf("got %T, want PromptInput", got)
				}
			case FramesInput:
				frames, ok := got.(FramesInput)
				if !ok || frames.Start != want.Start || frames.End != want.End {
					t.Fatalf("got %#v, want %#v", got, want)
				}
			case nil:
				if refs, ok := got.(ReferencesInput); !ok || len(refs.Images) != 1 {
					t.Fatalf("got %#v, want one reference", got)
				}
			}
		})
	}
}

func TestGenerationRequestDefaults(t *testing.T) {
	req := GenerationRequest{Prompt: "  sunrise  "}
	if _, err := req.Normalize(); err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if req.Prompt != "sunrise" || req.Mode != ModeTextToVideo || req.AspectRatio != AspectLandscape ||
		req.Resolution != Resolution720p || req.Model != ModelVeoFast {
		t.Fatalf("unexpected defaults: %#v", req)
	}
}

func TestStatusTransitions(t *testing.T) {
	if !StatusPending.CanTransition(StatusProcessing) || !StatusProcessing.CanTransition(StatusCompleted) {
		t.Fatal("expected forward transitions to be allowed")
	}
	for _, from := range []GenerationStatus{StatusCompleted, StatusFailed} {
		for _, to := range []GenerationStatus{StatusPending, StatusProcessing, StatusCompleted, StatusFailed} {
			if from.CanTransition(to) {
				t.Fatalf("%s -> %s must be rejected", from, to)
			}
		}
	}
	if StatusProcessing.CanTransition(StatusPending) {
		t.Fatal("processing -> pending must be rejected")
	}
}

func TestBatchNormalize(t *testing.T) {
	b := BatchRequest{BasePrompt: "a beach", Variations: []string{" sunrise ", "", "sunset"}}
	if err := b.Normalize(); err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	prompts := b.Prompts()
	if len(prompts) != 2 || prompts[0] != "a beach. sunrise" || prompts[1] != "a beach. sunset" {
		t.Fatalf("unexpected prompts %#v", prompts)
	}

	empty := BatchRequest{BasePrompt: "x", Variations: []string{" "}}
	if err := empty.Normalize(); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestCreditCost(t *testing.T) {
	tests := []struct {
		res   Resolution
		count int
		want  int
	}{
		{Resolution720p, 1, 10},
		{Resolution1080p, 1, 15},
		{Resolution4K, 1, 20},
		{Resolution1080p, 3, 45},
	}
	for _, tc := range tests {
		got, err := CreditCost(tc.res, tc.count)
		if err != nil || got != tc.want {
			t.Fatalf("CreditCost(%s, %d) = %d, %v; want %d", tc.res, tc.count, got, err, tc.want)
		}
	}
	if _, err := CreditCost("8k", 1); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if CheapestCost() != 10 {
		t.Fatalf("CheapestCost = %d, want 10", CheapestCost())
	}
}

func TestFailureReason(t *testing.T) {
	if got := FailureReason(ErrTimeout); got != "timeout" {
		t.Fatalf("FailureReason(timeout) = %q", got)
	}
	if got := FailureReason(errors.New("boom")); got != "internal" {
		t.Fatalf("FailureReason(other) = %q", got)
	}
}
