package repo

import (
	"context"
	"strings"

	"videostudio/internal/domain"
	"videostudio/internal/infra"
	"videostudio/internal/sqlinline"
)

type TemplateRepository struct {
	sql infra.SQLExecutor
}

func NewTemplateRepository(sql infra.SQLExecutor) *TemplateRepository {
	return &TemplateRepository{sql: sql}
}

// List returns active templates by popularity. Category "All" disables the filter.
func (r *TemplateRepository) List(ctx context.Context, f domain.TemplateFilter) ([]domain.Template, error) {
	category := strings.TrimSpace(f.Category)
	if strings.EqualFold(category, "all") {
		category = ""
	}
	rows, err := r.sql.Query(ctx, sqlinline.QListTemplates, category, clampLimit(f.Limit, 50, 200))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *TemplateRepository) Create(ctx context.Context, t *domain.Template) error {
	if t.AspectRatio == "" {
		t.AspectRatio = domain.AspectLandscape
	}
	if t.Resolution == "" {
		t.Resolution = domain.Resolution720p
	}
	created, err := scanTemplate(r.sql.QueryRow(ctx, sqlinline.QInsertTemplate, t.Name, t.Description, t.Category,
		t.Prompt, t.ThumbnailURL, string(t.AspectRatio), string(t.Resolution), t.CreatedBy))
	if err != nil {
		return err
	}
	*t = *created
	return nil
}

var _ domain.TemplateRepository = (*TemplateRepository)(nil)
