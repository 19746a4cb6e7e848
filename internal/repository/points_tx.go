package repository

import (
	"errors"

	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/model"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// applyPointsTx adjusts an account balance inside an open transaction.
// The balance check rides on the UPDATE itself, so two concurrent debits
// can never both pass a stale read. Returns the balance after the change.
func applyPointsTx(tx *gorm.DB, userID uuid.UUID, amount int) (int, error) {
	q := tx.Model(&model.User{}).
		Where("id = ? AND status = ?", userID, model.StatusActive)
	if amount < 0 {
		q = q.Where("points + ? >= 0", amount)
	}

	res := q.Update("points", gorm.Expr("points + ?", amount))
	if res.Error != nil {
		return 0, res.Error
	}

	if res.RowsAffected == 0 {
		var user model.User
		if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, apperror.ErrNotFound
			}
			return 0, err
		}
		if user.Status != model.StatusActive {
			return 0, apperror.ErrInvalidState
		}
		return 0, apperror.ErrInsufficientBalance
	}

	var user model.User
	if err := tx.Select("points").Where("id = ?", userID).First(&user).Error; err != nil {
		return 0, err
	}

	return user.Points, nil
}
