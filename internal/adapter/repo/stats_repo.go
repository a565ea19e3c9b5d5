package repo

import (
	"context"
	"time"

	"videostudio/internal/domain"
	"videostudio/internal/infra"
	"videostudio/internal/sqlinline"
)

type StatsRepository struct {
	sql infra.SQLExecutor
}

func NewStatsRepository(sql infra.SQLExecutor) *StatsRepository {
	return &StatsRepository{sql: sql}
}

// Refresh computes the dashboard from completed generations and caches the
// totals in user_stats.
func (r *StatsRepository) Refresh(ctx context.Context, userID string, now time.Time) (*domain.DashboardStats, error) {
	weekStart := now.AddDate(0, 0, -7)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var s domain.DashboardStats
	err := r.sql.QueryRow(ctx, sqlinline.QSelectDashboardStats, userID, weekStart, monthStart).Scan(
		&s.Credits, &s.TotalVideos, &s.ThisWeekVideos, &s.TotalCreditsSpent, &s.ThisMonthCredits, &s.AvgGenerationTime)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	if _, err := r.sql.Exec(ctx, sqlinline.QUpsertUserStats, userID, s.TotalVideos, s.TotalCreditsSpent, s.AvgGenerationTime); err != nil {
		return nil, err
	}
	return &s, nil
}

var _ domain.StatsRepository = (*StatsRepository)(nil)
