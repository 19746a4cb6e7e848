package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/model"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GiftCodeRepository interface {
	Create(ctx context.Context, code *model.GiftCode) error
	FindByCode(ctx context.Context, code string) (*model.GiftCode, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.GiftCode, error)
	FindAll(ctx context.Context) ([]*model.GiftCode, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountRedemptions(ctx context.Context, codeID uuid.UUID) (int64, error)

	// Redeem appends the account to the code's redemption set and credits
	// the points atomically. The composite unique index on
	// (gift_code_id, user_id) backstops concurrent redemptions by the
	// same account: the second insert fails and nothing is credited.
	Redeem(ctx context.Context, code *model.GiftCode, userID uuid.UUID) (*model.LedgerEntry, int, error)
}

type giftCodeRepository struct {
	db *gorm.DB
}

func NewGiftCodeRepository(db *gorm.DB) GiftCodeRepository {
	return &giftCodeRepository{db: db}
}

func (r *giftCodeRepository) Create(ctx context.Context, code *model.GiftCode) error {
	return r.db.WithContext(ctx).Create(code).Error
}

func (r *giftCodeRepository) FindByCode(ctx context.Context, code string) (*model.GiftCode, error) {
	var gc model.GiftCode
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&gc).Error; err != nil {
		return nil, err
	}

	return &gc, nil
}

func (r *giftCodeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.GiftCode, error) {
	var gc model.GiftCode
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&gc).Error; err != nil {
		return nil, err
	}

	return &gc, nil
}

func (r *giftCodeRepository) FindAll(ctx context.Context) ([]*model.GiftCode, error) {
	var codes []*model.GiftCode
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&codes).Error; err != nil {
		return nil, err
	}

	return codes, nil
}

func (r *giftCodeRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	res := r.db.WithContext(ctx).
		Model(&model.GiftCode{}).
		Where("id = ?", id).
		Update("active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.ErrNotFound
	}

	return nil
}

func (r *giftCodeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("gift_code_id = ?", id).Delete(&model.GiftCodeRedemption{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&model.GiftCode{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.ErrNotFound
		}

		return nil
	})
}

func (r *giftCodeRepository) CountRedemptions(ctx context.Context, codeID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.GiftCodeRedemption{}).
		Where("gift_code_id = ?", codeID).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *giftCodeRepository) Redeem(ctx context.Context, code *model.GiftCode, userID uuid.UUID) (*model.LedgerEntry, int, error) {
	entry := &model.LedgerEntry{
		UserID:      userID,
		Amount:      code.Points,
		Reason:      model.ReasonGiftCode,
		Description: fmt.Sprintf("gift code %s", code.Code),
	}

	var balance int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.GiftCodeRedemption{}).
			Where("gift_code_id = ? AND user_id = ?", code.ID, userID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperror.ErrAlreadyRedeemed
		}

		redemption := &model.GiftCodeRedemption{
			GiftCodeID: code.ID,
			UserID:     userID,
		}
		if err := tx.Create(redemption).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// A concurrent redeem by the same account won the race.
				return apperror.ErrAlreadyRedeemed
			}
			return err
		}

		var err error
		balance, err = applyPointsTx(tx, userID, code.Points)
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
