package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"videostudio/internal/domain"
	"videostudio/internal/infra"
	"videostudio/internal/sqlinline"
)

// ProfileRepository implements domain.ProfileRepository on PostgreSQL.
type ProfileRepository struct {
	sql infra.TxExecutor
}

func NewProfileRepository(sql infra.TxExecutor) *ProfileRepository {
	return &ProfileRepository{sql: sql}
}

// GetByID treats a subject that is not a UUID as an unknown profile.
func (r *ProfileRepository) GetByID(ctx context.Context, userID string) (*domain.Profile, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, domain.ErrProfileNotFound
	}
	p, err := scanProfile(r.sql.QueryRow(ctx, sqlinline.QSelectProfile, userID))
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return p, nil
}

// Bootstrap inserts the profile with its welcome bonus, ledger row and welcome
// notification in one transaction. An existing profile is returned unchanged.
func (r *ProfileRepository) Bootstrap(ctx context.Context, profile domain.Profile, welcomeCredits int) (*domain.Profile, bool, error) {
	if welcomeCredits < 0 {
		welcomeCredits = 0
	}
	var out *domain.Profile
	created := false
	err := r.sql.WithTx(ctx, func(tx infra.SQLExecutor) error {
		p, err := scanProfile(tx.QueryRow(ctx, sqlinline.QInsertProfileIfMissing,
			profile.ID, profile.Email, profile.FullName, profile.AvatarURL, welcomeCredits))
		if err != nil {
			if !infra.IsNoRows(err) {
				return err
			}
			existing, err := scanProfile(tx.QueryRow(ctx, sqlinline.QSelectProfile, profile.ID))
			if err != nil {
				return err
			}
			out = existing
			return nil
		}
		out = p
		created = true
		if welcomeCredits > 0 {
			var txID string
			if err := tx.QueryRow(ctx, sqlinline.QInsertCreditTransaction,
				profile.ID, welcomeCredits, string(domain.TransactionBonus), "Welcome bonus", "", "").Scan(&txID); err != nil {
				return fmt.Errorf("insert welcome bonus: %w", err)
			}
		}
		data := fmt.Sprintf(`{"credits":%d}`, welcomeCredits)
		var id string
		var read bool
		var createdAt time.Time
		if err := tx.QueryRow(ctx, sqlinline.QInsertNotification, profile.ID, string(domain.NotifyWelcome),
			"Welcome!", fmt.Sprintf("You received %d free credits.", welcomeCredits), []byte(data)).Scan(&id, &read, &createdAt); err != nil {
			return fmt.Errorf("insert welcome notification: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, created, nil
}

// Grant appends a ledger row and adjusts the balance by grant.Amount.
func (r *ProfileRepository) Grant(ctx context.Context, grant domain.Grant) (int, error) {
	if grant.Amount == 0 {
		return 0, fmt.Errorf("%w: amount must be non-zero", domain.ErrInvalidRequest)
	}
	if !grant.Type.Valid() || grant.Type == domain.TransactionUsage {
		return 0, fmt.Errorf("%w: unsupported grant type %q", domain.ErrInvalidRequest, grant.Type)
	}
	var remaining int
	err := r.sql.WithTx(ctx, func(tx infra.SQLExecutor) error {
		var err error
		if grant.Amount > 0 {
			err = tx.QueryRow(ctx, sqlinline.QCreditCredits, grant.UserID, grant.Amount).Scan(&remaining)
		} else {
			err = tx.QueryRow(ctx, sqlinline.QDebitCredits, grant.UserID, -grant.Amount).Scan(&remaining)
		}
		if err != nil {
			if infra.IsNoRows(err) {
				return debitFailure(ctx, tx, grant.UserID)
			}
			return err
		}
		var txID string
		return tx.QueryRow(ctx, sqlinline.QInsertCreditTransaction,
			grant.UserID, grant.Amount, string(grant.Type), grant.Description, "", "").Scan(&txID)
	})
	if err != nil {
		return 0, err
	}
	return remaining, nil
}

// debitFailure distinguishes a missing profile from an insufficient balance
// after a guarded update matched nothing.
func debitFailure(ctx context.Context, tx infra.SQLExecutor, userID string) error {
	var credits int
	if err := tx.QueryRow(ctx, sqlinline.QSelectCreditsForUpdate, userID).Scan(&credits); err != nil {
		if infra.IsNoRows(err) {
			return domain.ErrProfileNotFound
		}
		return err
	}
	return domain.ErrInsufficientCredit
}

var _ domain.ProfileRepository = (*ProfileRepository)(nil)
