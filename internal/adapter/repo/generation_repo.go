package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"videostudio/internal/domain"
	"videostudio/internal/infra"
	"videostudio/internal/sqlinline"
)

// GenerationRepository implements domain.GenerationRepository on PostgreSQL.
type GenerationRepository struct {
	sql infra.TxExecutor
}

func NewGenerationRepository(sql infra.TxExecutor) *GenerationRepository {
	return &GenerationRepository{sql: sql}
}

func (r *GenerationRepository) Create(ctx context.Context, g *domain.Generation) error {
	return insertGeneration(ctx, r.sql, g)
}

func insertGeneration(ctx context.Context, sql infra.SQLExecutor, g *domain.Generation) error {
	if g.Status == "" {
		g.Status = domain.StatusPending
	}
	row := sql.QueryRow(ctx, sqlinline.QInsertGeneration,
		g.UserID, g.Prompt, string(g.Mode), string(g.AspectRatio), string(g.Resolution), g.Model,
		string(g.Status), g.CreditsUsed, g.ProjectID, g.TemplateID, g.BatchID, g.Prepaid,
		g.IdempotencyKey, g.IsPublic)
	if err := row.Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt); err != nil {
		if infra.IsUniqueViolation(err) {
			return domain.ErrDuplicateOperation
		}
		return err
	}
	return nil
}

func (r *GenerationRepository) GetForUser(ctx context.Context, id, userID string) (*domain.Generation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	g, err := scanGeneration(r.sql.QueryRow(ctx, sqlinline.QSelectGenerationForUser, id, userID))
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return g, nil
}

func (r *GenerationRepository) GetByIdempotencyKey(ctx context.Context, userID, key string) (*domain.Generation, error) {
	g, err := scanGeneration(r.sql.QueryRow(ctx, sqlinline.QSelectGenerationByIdempotencyKey, userID, key))
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return g, nil
}

func (r *GenerationRepository) ListForUser(ctx context.Context, userID string, f domain.GenerationFilter) ([]domain.Generation, error) {
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	rows, err := r.sql.Query(ctx, sqlinline.QListGenerationsForUser,
		userID, string(f.Status), f.ProjectID, clampLimit(f.Limit, 20, 100), offset)
	if err != nil {
		return nil, err
	}
	return collectGenerations(rows)
}

// MarkFailed moves a non-terminal record to failed. Prepaid batch items are
// refunded in the same transaction. Terminal records are left untouched.
func (r *GenerationRepository) MarkFailed(ctx context.Context, id, reason string) error {
	_, err := r.markFailed(ctx, id, reason)
	return err
}

// markFailed reports whether the record moved; a record that was already
// terminal is left alone.
func (r *GenerationRepository) markFailed(ctx context.Context, id, reason string) (bool, error) {
	moved := false
	err := r.sql.WithTx(ctx, func(tx infra.SQLExecutor) error {
		var userID, batchID string
		var prepaid bool
		var creditsUsed int
		err := tx.QueryRow(ctx, sqlinline.QMarkGenerationFailed, id, reason).Scan(&userID, &prepaid, &creditsUsed, &batchID)
		if err != nil {
			if infra.IsNoRows(err) {
				return nil
			}
			return err
		}
		moved = true
		if !prepaid || creditsUsed <= 0 {
			return nil
		}
		var txID string
		if err := tx.QueryRow(ctx, sqlinline.QInsertCreditTransaction, userID, creditsUsed,
			string(domain.TransactionRefund), "Refund for failed batch item", id, batchID).Scan(&txID); err != nil {
			return fmt.Errorf("insert refund: %w", err)
		}
		var remaining int
		return tx.QueryRow(ctx, sqlinline.QCreditCredits, userID, creditsUsed).Scan(&remaining)
	})
	if err != nil {
		return false, err
	}
	return moved, nil
}

// Settle completes the record and, when c.Charge is set, appends the usage row
// and decrements the balance in one transaction. Settling an already completed
// record charges nothing. An insufficient balance rolls everything back.
func (r *GenerationRepository) Settle(ctx context.Context, c domain.Completion) (domain.Settlement, error) {
	var out domain.Settlement
	err := r.sql.WithTx(ctx, func(tx infra.SQLExecutor) error {
		var userID string
		err := tx.QueryRow(ctx, sqlinline.QCompleteGeneration, c.GenerationID, c.VideoURL, c.Cost, c.FinishedAt, c.ThumbnailURL).Scan(&userID)
		if err != nil {
			if !infra.IsNoRows(err) {
				return err
			}
			var status string
			if err := tx.QueryRow(ctx, sqlinline.QSelectGenerationStatus, c.GenerationID).Scan(&status); err != nil {
				if infra.IsNoRows(err) {
					return domain.ErrNotFound
				}
				return err
			}
			if domain.GenerationStatus(status) != domain.StatusCompleted {
				return fmt.Errorf("%w: %s -> completed", domain.ErrInvalidTransition, status)
			}
			return tx.QueryRow(ctx, sqlinline.QSelectCreditsForUpdate, c.UserID).Scan(&out.RemainingCredits)
		}

		if c.Charge && c.Cost > 0 {
			var txID string
			err := tx.QueryRow(ctx, sqlinline.QInsertUsageTransaction, userID, c.Cost, c.Description, c.GenerationID).Scan(&txID)
			switch {
			case err == nil:
				if err := tx.QueryRow(ctx, sqlinline.QDebitCredits, userID, c.Cost).Scan(&out.RemainingCredits); err != nil {
					if infra.IsNoRows(err) {
						return debitFailure(ctx, tx, userID)
					}
					return err
				}
				out.Charged = true
			case infra.IsNoRows(err):
				// usage row already present for this generation
			default:
				return err
			}
		}

		if strings.TrimSpace(c.ProjectID) != "" {
			if _, err := tx.Exec(ctx, sqlinline.QIncrementProjectVideoCount, c.ProjectID); err != nil {
				return err
			}
		}
		if !out.Charged {
			return tx.QueryRow(ctx, sqlinline.QSelectCreditsForUpdate, userID).Scan(&out.RemainingCredits)
		}
		return nil
	})
	if err != nil {
		return domain.Settlement{}, err
	}
	return out, nil
}

// AcceptBatch creates the batch items. With SettleUpfront the total is
// debited with one usage row; otherwise the balance is only checked.
func (r *GenerationRepository) AcceptBatch(ctx context.Context, userID string, items []domain.Generation, totalCost int, policy domain.BatchSettlement) (*domain.BatchAcceptance, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: empty batch", domain.ErrInvalidRequest)
	}
	batchID := uuid.NewString()
	out := &domain.BatchAcceptance{BatchID: batchID, TotalCost: totalCost, Settlement: policy}
	err := r.sql.WithTx(ctx, func(tx infra.SQLExecutor) error {
		prepaid := policy == domain.SettleUpfront
		if prepaid {
			if err := tx.QueryRow(ctx, sqlinline.QDebitCredits, userID, totalCost).Scan(&out.Remaining); err != nil {
				if infra.IsNoRows(err) {
					return debitFailure(ctx, tx, userID)
				}
				return err
			}
		} else {
			if err := tx.QueryRow(ctx, sqlinline.QSelectCreditsForUpdate, userID).Scan(&out.Remaining); err != nil {
				if infra.IsNoRows(err) {
					return domain.ErrProfileNotFound
				}
				return err
			}
			if out.Remaining < totalCost {
				return domain.ErrInsufficientCredit
			}
		}

		out.Generations = make([]domain.Generation, 0, len(items))
		for _, item := range items {
			item.UserID = userID
			item.BatchID = batchID
			item.Prepaid = prepaid
			item.Status = domain.StatusPending
			if err := insertGeneration(ctx, tx, &item); err != nil {
				return err
			}
			out.Generations = append(out.Generations, item)
		}

		if prepaid {
			desc := fmt.Sprintf("Batch generation %dx %s", len(items), items[0].Resolution)
			var txID string
			if err := tx.QueryRow(ctx, sqlinline.QInsertCreditTransaction, userID, -totalCost,
				string(domain.TransactionUsage), desc, "", batchID).Scan(&txID); err != nil {
				return fmt.Errorf("insert batch usage: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ClaimPending moves the oldest pending record to processing.
func (r *GenerationRepository) ClaimPending(ctx context.Context) (*domain.Generation, error) {
	g, err := scanGeneration(r.sql.QueryRow(ctx, sqlinline.QWorkerClaimGeneration))
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return g, nil
}

// FailStale fails pending records queued before olderThan and processing
// records claimed before it, and returns how many moved.
func (r *GenerationRepository) FailStale(ctx context.Context, olderThan time.Time, reason string) (int64, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QSelectStaleGenerations, olderThan, 100)
	if err != nil {
		return 0, err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}
	var failed int64
	for _, id := range ids {
		moved, err := r.markFailed(ctx, id, reason)
		if err != nil {
			return failed, err
		}
		if moved {
			failed++
		}
	}
	return failed, nil
}

func (r *GenerationRepository) ProjectOwned(ctx context.Context, projectID, userID string) (bool, error) {
	if _, err := uuid.Parse(projectID); err != nil {
		return false, nil
	}
	var owned bool
	if err := r.sql.QueryRow(ctx, sqlinline.QSelectProjectOwned, projectID, userID).Scan(&owned); err != nil {
		return false, err
	}
	return owned, nil
}

var _ domain.GenerationRepository = (*GenerationRepository)(nil)
