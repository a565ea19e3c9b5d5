package handlers

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"videostudio/internal/domain"
)

type imagePayload struct {
	Data     string `json:"data"`
	MimeType string `json:"mimeType"`
}

// decode accepts raw base64 or a data URL.
func (p *imagePayload) decode() (*domain.Image, error) {
	if p == nil || strings.TrimSpace(p.Data) == "" {
		return nil, nil
	}
	data, mime := strings.TrimSpace(p.Data), strings.TrimSpace(p.MimeType)
	if rest, ok := strings.CutPrefix(data, "data:"); ok {
		header, body, found := strings.Cut(rest, ",")
		if !found || !strings.HasSuffix(header, ";base64") {
			return nil, fmt.Errorf("%w: malformed data url", domain.ErrInvalidRequest)
		}
		if mime == "" {
			mime = strings.TrimSuffix(header, ";base64")
		}
		data = body
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("%w: image is not valid base64", domain.ErrInvalidRequest)
	}
	if mime == "" {
		mime = http.DetectContentType(raw)
	}
	if !strings.HasPrefix(mime, "image/") {
		return nil, fmt.Errorf("%w: unsupported image type %q", domain.ErrInvalidRequest, mime)
	}
	return &domain.Image{Data: raw, MimeType: mime}, nil
}

type generateVideoRequest struct {
	Prompt          string         `json:"prompt"`
	Mode            string         `json:"mode"`
	AspectRatio     string         `json:"aspectRatio"`
	Resolution      string         `json:"resolution"`
	Model           string         `json:"model"`
	StartFrame      *imagePayload  `json:"startFrame"`
	EndFrame        *imagePayload  `json:"endFrame"`
	ReferenceImages []imagePayload `json:"referenceImages"`
	ProjectID       string         `json:"projectId"`
	TemplateID      string         `json:"templateId"`
	IsPublic        bool           `json:"isPublic"`
}

func (req generateVideoRequest) toDomain() (domain.GenerationRequest, error) {
	out := domain.GenerationRequest{
		Prompt:      req.Prompt,
		Mode:        domain.GenerationMode(strings.TrimSpace(req.Mode)),
		AspectRatio: domain.AspectRatio(strings.TrimSpace(req.AspectRatio)),
		Resolution:  domain.Resolution(strings.ToLower(strings.TrimSpace(req.Resolution))),
		Model:       strings.TrimSpace(req.Model),
		ProjectID:   strings.TrimSpace(req.ProjectID),
		TemplateID:  strings.TrimSpace(req.TemplateID),
		IsPublic:    req.IsPublic,
	}
	var err error
	if out.StartFrame, err = req.StartFrame.decode(); err != nil {
		return out, err
	}
	if out.EndFrame, err = req.EndFrame.decode(); err != nil {
		return out, err
	}
	for i := range req.ReferenceImages {
		img, err := req.ReferenceImages[i].decode()
		if err != nil {
			return out, err
		}
		if img != nil {
			out.References = append(out.References, *img)
		}
	}
	return out, nil
}

// GenerateVideo blocks until the generation reaches a terminal state.
func (a *App) GenerateVideo(w http.ResponseWriter, r *http.Request) {
	userID := a.requireUser(w, r)
	if userID == "" {
		return
	}
	var body generateVideoRequest
	if !a.decode(w, r, &body) {
		return
	}
	req, err := body.toDomain()
	if err != nil {
		a.fail(w, r, err, "generate video")
		return
	}
	req.IdempotencyKey = strings.TrimSpace(r.Header.Get("Idempotency-Key"))

	res, err := a.Generator.GenerateVideo(r.Context(), userID, req)
	if err != nil {
		a.fail(w, r, err, "generate video")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"success":          true,
		"videoId":          res.Generation.ID,
		"videoUrl":         res.VideoURL,
		"creditsRemaining": res.RemainingCredits,
		"replayed":         res.Replayed,
		"generation":       toGenerationDTO(res.Generation),
	})
}

type batchGenerateRequest struct {
	BasePrompt  string   `json:"basePrompt"`
	Variations  []string `json:"variations"`
	Mode        string   `json:"mode"`
	AspectRatio string   `json:"aspectRatio"`
	Resolution  string   `json:"resolution"`
	Model       string   `json:"model"`
	ProjectID   string   `json:"projectId"`
}

// BatchGenerate accepts a batch; items are executed by the worker.
func (a *App) BatchGenerate(w http.ResponseWriter, r *http.Request) {
	userID := a.requireUser(w, r)
	if userID == "" {
		return
	}
	var body batchGenerateRequest
	if !a.decode(w, r, &body) {
		return
	}
	accepted, err := a.Generator.AcceptBatch(r.Context(), userID, domain.BatchRequest{
		BasePrompt:  body.BasePrompt,
		Variations:  body.Variations,
		Mode:        domain.GenerationMode(strings.TrimSpace(body.Mode)),
		AspectRatio: domain.AspectRatio(strings.TrimSpace(body.AspectRatio)),
		Resolution:  domain.Resolution(strings.ToLower(strings.TrimSpace(body.Resolution))),
		Model:       strings.TrimSpace(body.Model),
		ProjectID:   strings.TrimSpace(body.ProjectID),
	})
	if err != nil {
		a.fail(w, r, err, "accept batch")
		return
	}
	items := make([]generationDTO, 0, len(accepted.Generations))
	for _, g := range accepted.Generations {
		items = append(items, toGenerationDTO(g))
	}
	a.json(w, http.StatusAccepted, map[string]any{
		"success":          true,
		"batchId":          accepted.BatchID,
		"videos":           items,
		"totalCost":        accepted.TotalCost,
		"creditsRemaining": accepted.Remaining,
		"settlement":       accepted.Settlement,
	})
}

func (a *App) GetGeneration(w http.ResponseWriter, r *http.Request) {
	userID := a.requireUser(w, r)
	if userID == "" {
		return
	}
	g, err := a.Generations.GetForUser(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		a.fail(w, r, err, "load generation")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"generation": toGenerationDTO(*g)})
}

func (a *App) ListGenerations(w http.ResponseWriter, r *http.Request) {
	userID := a.requireUser(w, r)
	if userID == "" {
		return
	}
	q := r.URL.Query()
	status := domain.GenerationStatus(strings.TrimSpace(q.Get("status")))
	switch status {
	case "", domain.StatusPending, domain.StatusProcessing, domain.StatusCompleted, domain.StatusFailed:
	default:
		a.error(w, http.StatusBadRequest, "bad_request", "unknown status")
		return
	}
	items, err := a.Generations.ListForUser(r.Context(), userID, domain.GenerationFilter{
		Status:    status,
		ProjectID: strings.TrimSpace(q.Get("project_id")),
		Limit:     queryInt(r, "limit", 20),
		Offset:    queryInt(r, "offset", 0),
	})
	if err != nil {
		a.fail(w, r, err, "list generations")
		return
	}
	out := make([]generationDTO, 0, len(items))
	for _, g := range items {
		out = append(out, toGenerationDTO(g))
	}
	a.json(w, http.StatusOK, map[string]any{"generations": out})
}
