package repository

import (
	"context"

	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LedgerRepository interface {
	// Apply writes one immutable ledger entry and moves the account
	// balance by the same amount, as a single atomic unit. Returns the
	// entry and the balance after the change.
	Apply(ctx context.Context, userID uuid.UUID, amount int, reason, description string) (*model.LedgerEntry, int, error)
	FindByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.LedgerEntry, error)
	SumByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Apply(ctx context.Context, userID uuid.UUID, amount int, reason, description string) (*model.LedgerEntry, int, error) {
	entry := &model.LedgerEntry{
		UserID:      userID,
		Amount:      amount,
		Reason:      reason,
		Description: description,
	}

	var balance int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		balance, err = applyPointsTx(tx, userID, amount)
		if err != nil {
			return err
		}

		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, 0, err
	}

	return entry, balance, nil
}

func (r *ledgerRepository) FindByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.LedgerEntry, error) {
	var entries []model.LedgerEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *ledgerRepository) SumByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var sum *int64
	if err := r.db.WithContext(ctx).
		Model(&model.LedgerEntry{}).
		Where("user_id = ?", userID).
		Select("SUM(amount)").
		Scan(&sum).Error; err != nil {
		return 0, err
	}

	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}
