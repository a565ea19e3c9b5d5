package handlers

import (
	"net/http"
	"strings"

	"videostudio/internal/domain"
)

// ListGallery lists public completed videos. It does not require a session.
func (a *App) ListGallery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := a.Gallery.List(r.Context(), domain.GalleryFilter{
		AspectRatio: domain.AspectRatio(strings.TrimSpace(q.Get("aspectRatio"))),
		Resolution:  domain.Resolution(strings.ToLower(strings.TrimSpace(q.Get("resolution")))),
		SortBy:      domain.GallerySort(strings.TrimSpace(q.Get("sortBy"))),
		Limit:       queryInt(r, "limit", 24),
		Offset:      queryInt(r, "offset", 0),
	})
	if err != nil {
		a.fail(w, r, err, "list gallery")
		return
	}
	out := make([]galleryItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, galleryItemDTO{
			generationDTO: toGenerationDTO(it.Generation),
			Title:         it.Title,
			AuthorName:    it.AuthorName,
			AuthorAvatar:  it.AuthorAvatar,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"videos": out})
}
