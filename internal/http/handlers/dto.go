package handlers

import (
	"encoding/json"
	"time"

	"videostudio/internal/domain"
)

type profileDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	AvatarURL string    `json:"avatarUrl"`
	Credits   int       `json:"credits"`
	CreatedAt time.Time `json:"createdAt"`
}

func toProfileDTO(p *domain.Profile) profileDTO {
	return profileDTO{ID: p.ID, Email: p.Email, FullName: p.FullName, AvatarURL: p.AvatarURL, Credits: p.Credits, CreatedAt: p.CreatedAt}
}

type generationDTO struct {
	ID             string     `json:"id"`
	Prompt         string     `json:"prompt"`
	Mode           string     `json:"mode"`
	AspectRatio    string     `json:"aspectRatio"`
	Resolution     string     `json:"resolution"`
	Model          string     `json:"model"`
	Status         string     `json:"status"`
	VideoURL       string     `json:"videoUrl,omitempty"`
	ThumbnailURL   string     `json:"thumbnailUrl,omitempty"`
	CreditsUsed    int        `json:"creditsUsed"`
	ErrorMessage   string     `json:"errorMessage,omitempty"`
	ProjectID      string     `json:"projectId,omitempty"`
	BatchID        string     `json:"batchId,omitempty"`
	GenerationTime int        `json:"generationTime,omitempty"`
	IsPublic       bool       `json:"isPublic"`
	LikesCount     int        `json:"likesCount"`
	ViewsCount     int        `json:"viewsCount"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"`
}

func toGenerationDTO(g domain.Generation) generationDTO {
	dto := generationDTO{
		ID:             g.ID,
		Prompt:         g.Prompt,
		Mode:           string(g.Mode),
		AspectRatio:    string(g.AspectRatio),
		Resolution:     string(g.Resolution),
		Model:          g.Model,
		Status:         string(g.Status),
		VideoURL:       g.VideoURL,
		ThumbnailURL:   g.ThumbnailURL,
		CreditsUsed:    g.CreditsUsed,
		ErrorMessage:   g.ErrorMessage,
		ProjectID:      g.ProjectID,
		BatchID:        g.BatchID,
		GenerationTime: g.GenerationTime,
		IsPublic:       g.IsPublic,
		LikesCount:     g.LikesCount,
		ViewsCount:     g.ViewsCount,
		CreatedAt:      g.CreatedAt,
	}
	if !g.UpdatedAt.IsZero() {
		updated := g.UpdatedAt
		dto.UpdatedAt = &updated
	}
	return dto
}

type projectDTO struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	VideoCount   int       `json:"videoCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toProjectDTO(p domain.Project) projectDTO {
	return projectDTO{ID: p.ID, Name: p.Name, Description: p.Description, ThumbnailURL: p.ThumbnailURL,
		VideoCount: p.VideoCount, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt}
}

type templateDTO struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Prompt       string    `json:"prompt"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	AspectRatio  string    `json:"aspectRatio"`
	Resolution   string    `json:"resolution"`
	Popularity   int       `json:"popularity"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toTemplateDTO(t domain.Template) templateDTO {
	return templateDTO{ID: t.ID, Name: t.Name, Description: t.Description, Category: t.Category, Prompt: t.Prompt,
		ThumbnailURL: t.ThumbnailURL, AspectRatio: string(t.AspectRatio), Resolution: string(t.Resolution),
		Popularity: t.Popularity, CreatedAt: t.CreatedAt}
}

type notificationDTO struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data,omitempty"`
	IsRead    bool            `json:"isRead"`
	CreatedAt time.Time       `json:"createdAt"`
}

func toNotificationDTO(n domain.Notification) notificationDTO {
	return notificationDTO{ID: n.ID, Type: string(n.Type), Title: n.Title, Message: n.Message,
		Data: n.Data, IsRead: n.IsRead, CreatedAt: n.CreatedAt}
}

type galleryItemDTO struct {
	generationDTO
	Title        string `json:"title,omitempty"`
	AuthorName   string `json:"authorName"`
	AuthorAvatar string `json:"authorAvatar,omitempty"`
}
