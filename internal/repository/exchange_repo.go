package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/model"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExchangeRepository interface {
	// Create decrements the stock, debits the ledger, and inserts the
	// pending request as one all-or-nothing transaction. A failed debit
	// rolls the stock decrement back.
	Create(ctx context.Context, userID uuid.UUID, product *model.Product, quantity, totalPrice int) (*model.ExchangeRequest, int, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.ExchangeRequest, error)
	FindByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.ExchangeRequest, error)
	FindAll(ctx context.Context, status string, limit, offset int) ([]model.ExchangeRequest, error)

	// UpdateStatus transitions from exactly the given status; any other
	// current status fails with ErrInvalidState.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to string, adminID uuid.UUID, at time.Time) error

	// RejectWithRefund rejects a pending request, credits the points
	// back, and restores the stock, atomically.
	RejectWithRefund(ctx context.Context, ex *model.ExchangeRequest, adminID uuid.UUID, at time.Time) error
}

type exchangeRepository struct {
	db *gorm.DB
}

func NewExchangeRepository(db *gorm.DB) ExchangeRepository {
	return &exchangeRepository{db: db}
}

func (r *exchangeRepository) Create(ctx context.Context, userID uuid.UUID, product *model.Product, quantity, totalPrice int) (*model.ExchangeRequest, int, error) {
	ex := &model.ExchangeRequest{
		UserID:     userID,
		ProductID:  product.ID,
		Quantity:   quantity,
		TotalPrice: totalPrice,
		Status:     model.ExchangePending,
	}

	var balance int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Product{}).
			Where("id = ? AND active = ? AND stock >= ?", product.ID, true, quantity).
			Update("stock", gorm.Expr("stock - ?", quantity))
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			var p model.Product
			if err := tx.Where("id = ?", product.ID).First(&p).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperror.ErrNotFound
				}
				return err
			}
			if !p.Active {
				return fmt.Errorf("%w: product is not active", apperror.ErrInvalidState)
			}
			return apperror.ErrInsufficientStock
		}

		var err error
		balance, err = applyPointsTx(tx, userID, -totalPrice)
		if err != nil {
			return err
		}

		entry := &model.LedgerEntry{
			UserID:      userID,
			Amount:      -totalPrice,
			Reason:      model.ReasonExchangeSpend,
			Description: product.Name,
		}
		if err := tx.Create(entry).Error; err != nil {
			return err
		}

		return tx.Create(ex).Error
	})
	if err != nil {
		return nil, 0, err
	}

	return ex, balance, nil
}

func (r *exchangeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ExchangeRequest, error) {
	var ex model.ExchangeRequest
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Where("id = ?", id).
		First(&ex).Error; err != nil {
		return nil, err
	}

	return &ex, nil
}

func (r *exchangeRepository) FindByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.ExchangeRequest, error) {
	var exchanges []model.ExchangeRequest
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&exchanges).Error; err != nil {
		return nil, err
	}

	return exchanges, nil
}

func (r *exchangeRepository) FindAll(ctx context.Context, status string, limit, offset int) ([]model.ExchangeRequest, error) {
	q := r.db.WithContext(ctx).Preload("Product")
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var exchanges []model.ExchangeRequest
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&exchanges).Error; err != nil {
		return nil, err
	}

	return exchanges, nil
}

func (r *exchangeRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to string, adminID uuid.UUID, at time.Time) error {
	return r.updateStatusTx(r.db.WithContext(ctx), id, from, to, adminID, at)
}

func (r *exchangeRepository) updateStatusTx(tx *gorm.DB, id uuid.UUID, from, to string, adminID uuid.UUID, at time.Time) error {
	res := tx.Model(&model.ExchangeRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":       to,
			"processed_at": at,
			"processed_by": adminID,
		})
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		var ex model.ExchangeRequest
		if err := tx.Where("id = ?", id).First(&ex).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.ErrNotFound
			}
			return err
		}
		return fmt.Errorf("%w: exchange is %s", apperror.ErrInvalidState, ex.Status)
	}

	return nil
}

func (r *exchangeRepository) RejectWithRefund(ctx context.Context, ex *model.ExchangeRequest, adminID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.updateStatusTx(tx, ex.ID, model.ExchangePending, model.ExchangeRejected, adminID, at); err != nil {
			return err
		}

		if _, err := applyPointsTx(tx, ex.UserID, ex.TotalPrice); err != nil {
			return err
		}

		entry := &model.LedgerEntry{
			UserID:      ex.UserID,
			Amount:      ex.TotalPrice,
			Reason:      model.ReasonExchangeRefund,
			Description: fmt.Sprintf("refund for rejected exchange %s", ex.ID),
		}
		if err := tx.Create(entry).Error; err != nil {
			return err
		}

		return tx.Model(&model.Product{}).
			Where("id = ?", ex.ProductID).
			Update("stock", gorm.Expr("stock + ?", ex.Quantity)).Error
	})
}
