package video

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"videostudio/internal/domain"
)

const syntheticScheme = "synthetic://"

// Synthetic is an in-process provider for local runs. Each job reports done
// after PollsToDone polls and downloads a deterministic placeholder body.
type Synthetic struct {
	PollsToDone int

	mu    sync.Mutex
	polls map[string]int
	jobs  map[string]Request
}

func NewSynthetic(pollsToDone int) *Synthetic {
	if pollsToDone < 1 {
		pollsToDone = 1
	}
	return &Synthetic{PollsToDone: pollsToDone, polls: map[string]int{}, jobs: map[string]Request{}}
}

func (s *Synthetic) Name() string { return "synthetic" }

func (s *Synthetic) Submit(ctx context.Context, req Request) (Job, error) {
	if err := ctx.Err(); err != nil {
		return Job{}, err
	}
	if _, err := buildPredictRequest(req); err != nil {
		return Job{}, fmt.Errorf("%w: %v", domain.ErrProviderSubmission, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	name := fmt.Sprintf("operations/synthetic-%s-%d", deterministicSeed(req.Model, req.Prompt, req.Resolution), len(s.jobs)+1)
	s.jobs[name] = req
	return Job{Name: name}, nil
}

func (s *Synthetic) Poll(ctx context.Context, job Job) (Status, error) {
	if err := ctx.Err(); err != nil {
		return Status{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[job.Name]; !ok {
		return Status{Done: true, Err: fmt.Errorf("%w: unknown operation %s", domain.ErrProviderJobFailed, job.Name)}, nil
	}
	s.polls[job.Name]++
	if s.polls[job.Name] < s.PollsToDone {
		return Status{}, nil
	}
	return Status{Done: true, VideoURI: syntheticScheme + strings.TrimPrefix(job.Name, "operations/")}, nil
}

func (s *Synthetic) Download(ctx context.Context, uri string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(uri, syntheticScheme) {
		return nil, fmt.Errorf("not a synthetic uri: %s", uri)
	}
	s.mu.Lock()
	req, ok := s.jobs["operations/"+strings.TrimPrefix(uri, syntheticScheme)]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("unknown synthetic asset %s", uri)
	}
	lines := []string{
		"Synthetic video placeholder",
		fmt.Sprintf("Seed: %s", deterministicSeed(req.Model, req.Prompt, req.Resolution)),
		fmt.Sprintf("Prompt: %s", strings.TrimSpace(req.Prompt)),
		fmt.Sprintf("Resolution: %s", req.Resolution),
	}
	return []byte(strings.Join(lines, "\n")), nil
}

func deterministicSeed(parts ...any) string {
	hasher := sha256.New()
	for _, part := range parts {
		hasher.Write([]byte(fmt.Sprintf("%v", part)))
		hasher.Write([]byte{'|'})
	}
	return hex.EncodeToString(hasher.Sum(nil))[:16]
}

var _ Provider = (*Synthetic)(nil)
