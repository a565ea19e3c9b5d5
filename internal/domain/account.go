package domain

import "time"

// Profile is a user account with its credit balance.
type Profile struct {
	ID        string
	Email     string
	FullName  string
	AvatarURL string
	Credits   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type TransactionType string

const (
	TransactionUsage    TransactionType = "usage"
	TransactionPurchase TransactionType = "purchase"
	TransactionBonus    TransactionType = "bonus"
	TransactionRefund   TransactionType = "refund"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionUsage, TransactionPurchase, TransactionBonus, TransactionRefund:
		return true
	}
	return false
}

// CreditTransaction is an append-only ledger row. Amount is negative for usage.
type CreditTransaction struct {
	ID           string
	UserID       string
	Amount       int
	Type         TransactionType
	Description  string
	GenerationID string
	BatchID      string
	CreatedAt    time.Time
}

// Grant adjusts a balance outside the generation flow (bonus, purchase, refund).
type Grant struct {
	UserID      string
	Amount      int
	Type        TransactionType
	Description string
}
