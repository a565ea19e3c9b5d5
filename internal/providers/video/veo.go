package video

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"videostudio/internal/domain"
	"videostudio/internal/providers/genai"
)

type veoImage struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded"`
	MimeType           string `json:"mimeType"`
}

type veoReference struct {
	Image         veoImage `json:"image"`
	ReferenceType string   `json:"referenceType"`
}

type veoInstance struct {
	Prompt          string         `json:"prompt,omitempty"`
	Image           *veoImage      `json:"image,omitempty"`
	LastFrame       *veoImage      `json:"lastFrame,omitempty"`
	ReferenceImages []veoReference `json:"referenceImages,omitempty"`
}

type veoParameters struct {
	AspectRatio    string `json:"aspectRatio,omitempty"`
	Resolution     string `json:"resolution,omitempty"`
	NumberOfVideos int    `json:"numberOfVideos,omitempty"`
}

type veoPredictRequest struct {
	Instances  []veoInstance `json:"instances"`
	Parameters veoParameters `json:"parameters"`
}

type veoOperation struct {
	Name     string `json:"name"`
	Done     bool   `json:"done"`
	Response *struct {
		GenerateVideoResponse struct {
			GeneratedSamples []struct {
				Video struct {
					URI string `json:"uri"`
				} `json:"video"`
			} `json:"generatedSamples"`
		} `json:"generateVideoResponse"`
	} `json:"response,omitempty"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Veo drives Veo long-running predictions through the Gemini API.
type Veo struct {
	client       *genai.Client
	defaultModel string
}

func NewVeo(client *genai.Client, defaultModel string) *Veo {
	return &Veo{client: client, defaultModel: defaultModel}
}

func (v *Veo) Name() string { return "veo" }

func (v *Veo) Submit(ctx context.Context, req Request) (Job, error) {
	if !v.client.Configured() {
		return Job{}, domain.ErrProviderNotConfigured
	}
	model := req.Model
	if model == "" {
		model = v.defaultModel
	}
	payload, err := buildPredictRequest(req)
	if err != nil {
		return Job{}, fmt.Errorf("%w: %v", domain.ErrProviderSubmission, err)
	}
	var op veoOperation
	path := fmt.Sprintf("models/%s:predictLongRunning", url.PathEscape(model))
	if err := v.client.PostJSON(ctx, path, payload, &op); err != nil {
		if ctx.Err() != nil {
			return Job{}, ctx.Err()
		}
		return Job{}, fmt.Errorf("%w: %v", domain.ErrProviderSubmission, err)
	}
	if strings.TrimSpace(op.Name) == "" {
		return Job{}, fmt.Errorf("%w: empty operation name", domain.ErrProviderSubmission)
	}
	return Job{Name: op.Name}, nil
}

func (v *Veo) Poll(ctx context.Context, job Job) (Status, error) {
	var op veoOperation
	if err := v.client.GetJSON(ctx, job.Name, &op); err != nil {
		var apiErr *genai.APIError
		if errors.As(err, &apiErr) && !apiErr.Temporary() {
			return Status{Done: true, Err: fmt.Errorf("%w: %v", domain.ErrProviderJobFailed, err)}, nil
		}
		return Status{}, err
	}
	if !op.Done {
		return Status{}, nil
	}
	if op.Error != nil {
		return Status{Done: true, Err: fmt.Errorf("%w: %s (code %d)", domain.ErrProviderJobFailed, op.Error.Message, op.Error.Code)}, nil
	}
	if op.Response == nil || len(op.Response.GenerateVideoResponse.GeneratedSamples) == 0 {
		return Status{Done: true}, nil
	}
	uri := op.Response.GenerateVideoResponse.GeneratedSamples[0].Video.URI
	if decoded, err := url.PathUnescape(uri); err == nil {
		uri = decoded
	}
	return Status{Done: true, VideoURI: uri}, nil
}

func (v *Veo) Download(ctx context.Context, uri string) ([]byte, error) {
	data, _, err := v.client.Download(ctx, uri)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("empty video body")
	}
	return data, nil
}

// buildPredictRequest maps the mode's input shape onto one Veo instance.
// Square output is not offered by Veo, so 1:1 is requested as 9:16; extend
// requests carry no aspect ratio.
func buildPredictRequest(req Request) (veoPredictRequest, error) {
	inst := veoInstance{Prompt: req.Prompt}
	switch in := req.Input.(type) {
	case domain.PromptInput, nil:
	case domain.FramesInput:
		inst.Image = encodeImage(in.Start)
		inst.LastFrame = encodeImage(in.End)
	case domain.ReferencesInput:
		for i := range in.Images {
			inst.ReferenceImages = append(inst.ReferenceImages, veoReference{
				Image:         *encodeImage(&in.Images[i]),
				ReferenceType: "asset",
			})
		}
	default:
		return veoPredictRequest{}, fmt.Errorf("unsupported input %T", req.Input)
	}

	params := veoParameters{Resolution: string(req.Resolution), NumberOfVideos: 1}
	if req.Mode != domain.ModeExtendVideo {
		aspect := req.AspectRatio
		if aspect == domain.AspectSquare {
			aspect = domain.AspectPortrait
		}
		params.AspectRatio = string(aspect)
	}
	return veoPredictRequest{Instances: []veoInstance{inst}, Parameters: params}, nil
}

func encodeImage(img *domain.Image) *veoImage {
	if img == nil {
		return nil
	}
	return &veoImage{
		BytesBase64Encoded: base64.StdEncoding.EncodeToString(img.Data),
		MimeType:           img.MimeType,
	}
}

var _ Provider = (*Veo)(nil)
