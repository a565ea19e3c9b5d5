package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"videostudio/internal/domain"
	"videostudio/internal/infra"
	"videostudio/internal/sqlinline"
)

type ProjectRepository struct {
	sql infra.TxExecutor
}

func NewProjectRepository(sql infra.TxExecutor) *ProjectRepository {
	return &ProjectRepository{sql: sql}
}

func (r *ProjectRepository) List(ctx context.Context, userID string) ([]domain.Project, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListProjects, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	created, err := scanProject(r.sql.QueryRow(ctx, sqlinline.QInsertProject, p.UserID, p.Name, p.Description, p.ThumbnailURL))
	if err != nil {
		return err
	}
	*p = *created
	return nil
}

func (r *ProjectRepository) Get(ctx context.Context, id, userID string) (*domain.Project, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	p, err := scanProject(r.sql.QueryRow(ctx, sqlinline.QSelectProject, id, userID))
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *ProjectRepository) Update(ctx context.Context, id, userID string, patch domain.ProjectPatch) (*domain.Project, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, domain.ErrInvalidRequest
		}
		patch.Name = &name
	}
	p, err := scanProject(r.sql.QueryRow(ctx, sqlinline.QUpdateProject, id, userID, patch.Name, patch.Description, patch.ThumbnailURL))
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// Delete unlinks the caller's generations from the project, then removes it.
func (r *ProjectRepository) Delete(ctx context.Context, id, userID string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}
	return r.sql.WithTx(ctx, func(tx infra.SQLExecutor) error {
		if _, err := tx.Exec(ctx, sqlinline.QUnlinkProjectGenerations, id, userID); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, sqlinline.QDeleteProject, id, userID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

var _ domain.ProjectRepository = (*ProjectRepository)(nil)
