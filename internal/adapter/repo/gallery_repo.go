package repo

import (
	"context"

	"videostudio/internal/domain"
	"videostudio/internal/infra"
	"videostudio/internal/sqlinline"
)

type GalleryRepository struct {
	sql infra.SQLExecutor
}

func NewGalleryRepository(sql infra.SQLExecutor) *GalleryRepository {
	return &GalleryRepository{sql: sql}
}

func (r *GalleryRepository) List(ctx context.Context, f domain.GalleryFilter) ([]domain.GalleryItem, error) {
	sortBy := f.SortBy
	switch sortBy {
	case domain.SortRecent, domain.SortLiked, domain.SortPopular:
	default:
		sortBy = domain.SortPopular
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	rows, err := r.sql.Query(ctx, sqlinline.QListGallery, string(f.AspectRatio), string(f.Resolution),
		string(sortBy), clampLimit(f.Limit, 24, 100), offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.GalleryItem
	for rows.Next() {
		var it domain.GalleryItem
		var mode, aspect, resolution, status string
		if err := rows.Scan(&it.ID, &it.UserID, &it.Prompt, &mode, &aspect, &resolution, &it.Model, &status,
			&it.VideoURL, &it.ThumbnailURL, &it.CreditsUsed, &it.Title, &it.LikesCount, &it.ViewsCount,
			&it.CreatedAt, &it.AuthorName, &it.AuthorAvatar); err != nil {
			return nil, err
		}
		it.Mode = domain.GenerationMode(mode)
		it.AspectRatio = domain.AspectRatio(aspect)
		it.Resolution = domain.Resolution(resolution)
		it.Status = domain.GenerationStatus(status)
		it.IsPublic = true
		out = append(out, it)
	}
	return out, rows.Err()
}

var _ domain.GalleryRepository = (*GalleryRepository)(nil)
