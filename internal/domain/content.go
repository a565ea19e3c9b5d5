package domain

import (
	"encoding/json"
	"time"
)

type Project struct {
	ID           string
	UserID       string
	Name         string
	Description  string
	ThumbnailURL string
	VideoCount   int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProjectPatch holds optional project updates; nil fields are left untouched.
type ProjectPatch struct {
	Name         *string
	Description  *string
	ThumbnailURL *string
}

type Template struct {
	ID           string
	Name         string
	Description  string
	Category     string
	Prompt       string
	ThumbnailURL string
	AspectRatio  AspectRatio
	Resolution   Resolution
	Popularity   int
	IsActive     bool
	CreatedBy    string
	CreatedAt    time.Time
}

type TemplateFilter struct {
	Category string
	Limit    int
}

type NotificationType string

const (
	NotifyVideoComplete NotificationType = "video_complete"
	NotifyVideoFailed   NotificationType = "video_failed"
	NotifyCreditsLow    NotificationType = "credits_low"
	NotifyAchievement   NotificationType = "achievement"
	NotifyWelcome       NotificationType = "welcome"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotifyVideoComplete, NotifyVideoFailed, NotifyCreditsLow, NotifyAchievement, NotifyWelcome:
		return true
	}
	return false
}

type Notification struct {
	ID        string
	UserID    string
	Type      NotificationType
	Title     string
	Message   string
	Data      json.RawMessage
	IsRead    bool
	CreatedAt time.Time
}

type GallerySort string

const (
	SortPopular GallerySort = "popular"
	SortRecent  GallerySort = "recent"
	SortLiked   GallerySort = "liked"
)

type GalleryFilter struct {
	AspectRatio AspectRatio
	Resolution  Resolution
	SortBy      GallerySort
	Limit       int
	Offset      int
}

// GalleryItem is a public generation with its author.
type GalleryItem struct {
	Generation
	AuthorName   string
	AuthorAvatar string
}

// DashboardStats aggregates a user's activity.
type DashboardStats struct {
	Credits           int
	TotalVideos       int
	ThisWeekVideos    int
	TotalCreditsSpent int
	ThisMonthCredits  int
	AvgGenerationTime float64
}
