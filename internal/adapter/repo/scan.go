package repo

import (
	"github.com/jackc/pgx/v5"

	"videostudio/internal/domain"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGeneration(row rowScanner) (*domain.Generation, error) {
	var g domain.Generation
	var mode, aspect, resolution, status string
	if err := row.Scan(
		&g.ID, &g.UserID, &g.Prompt, &mode, &aspect, &resolution, &g.Model, &status,
		&g.VideoURL, &g.ThumbnailURL, &g.CreditsUsed, &g.ErrorMessage,
		&g.ProjectID, &g.TemplateID, &g.BatchID,
		&g.Prepaid, &g.IdempotencyKey, &g.GenerationTime, &g.IsPublic, &g.Title,
		&g.LikesCount, &g.ViewsCount, &g.CreatedAt, &g.UpdatedAt,
	); err != nil {
		return nil, err
	}
	g.Mode = domain.GenerationMode(mode)
	g.AspectRatio = domain.AspectRatio(aspect)
	g.Resolution = domain.Resolution(resolution)
	g.Status = domain.GenerationStatus(status)
	return &g, nil
}

func collectGenerations(rows pgx.Rows) ([]domain.Generation, error) {
	defer rows.Close()
	var out []domain.Generation
	for rows.Next() {
		g, err := scanGeneration(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}

func scanProfile(row rowScanner) (*domain.Profile, error) {
	var p domain.Profile
	if err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.AvatarURL, &p.Credits, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var p domain.Project
	if err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.ThumbnailURL, &p.VideoCount, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func scanTemplate(row rowScanner) (*domain.Template, error) {
	var t domain.Template
	var aspect, resolution string
	if err := row.Scan(&t.ID, &t.Name, &t.Description, &t.Category, &t.Prompt, &t.ThumbnailURL,
		&aspect, &resolution, &t.Popularity, &t.IsActive, &t.CreatedBy, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.AspectRatio = domain.AspectRatio(aspect)
	t.Resolution = domain.Resolution(resolution)
	return &t, nil
}

func clampLimit(limit, fallback, max int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > max {
		return max
	}
	return limit
}
