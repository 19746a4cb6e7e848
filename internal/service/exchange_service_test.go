package service

import (
	"context"
	"testing"

	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/config"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/dto"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/model"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/repository"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/pkg/apperror"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newExchangeService(db *gorm.DB, cfg *config.Config) ExchangeService {
	if cfg == nil {
		cfg = testConfig()
	}
	return NewExchangeService(
		repository.NewExchangeRepository(db),
		repository.NewProductRepository(db),
		repository.NewAuditRepository(db),
		NewEventService(nil),
		cfg,
	)
}

func productStock(t *testing.T, db *gorm.DB, product *model.Product) int {
	t.Helper()

	var fresh model.Product
	require.NoError(t, db.Where("id = ?", product.ID).First(&fresh).Error)

	return fresh.Stock
}

func TestExchangeCreate(t *testing.T) {
	db := setupDB(t)
	svc := newExchangeService(db, nil)
	user := createUser(t, db, model.RoleUser, 1000)
	product := createProduct(t, db, 300, 5, true)

	res, err := svc.Create(context.Background(), user.ID, dto.CreateExchangeInput{
		ProductID: product.ID.String(),
		Quantity:  2,
	})
	require.NoError(t, err)
	require.Equal(t, model.ExchangePending, res.Exchange.Status)
	require.Equal(t, 600, res.Exchange.TotalPrice)
	require.Equal(t, 400, res.Balance)

	require.Equal(t, 3, productStock(t, db, product))
	require.Equal(t, -600, ledgerSum(t, db, user))
}

func TestExchangeQuantityDefaultsToOne(t *testing.T) {
	db := setupDB(t)
	svc := newExchangeService(db, nil)
	user := createUser(t, db, model.RoleUser, 1000)
	product := createProduct(t, db, 300, 5, true)

	res, err := svc.Create(context.Background(), user.ID, dto.CreateExchangeInput{
		ProductID: product.ID.String(),
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.Exchange.Quantity)
	require.Equal(t, 300, res.Exchange.TotalPrice)
}

func TestExchangeInsufficientBalanceLeavesStockUntouched(t *testing.T) {
	db := setupDB(t)
	svc := newExchangeService(db, nil)
	user := createUser(t, db, model.RoleUser, 100)
	product := createProduct(t, db, 300, 5, true)

	_, err := svc.Create(context.Background(), user.ID, dto.CreateExchangeInput{
		ProductID: product.ID.String(),
	})
	require.ErrorIs(t, err, apperror.ErrInsufficientBalance)

	require.Equal(t, 5, productStock(t, db, product))
	require.Equal(t, 0, ledgerSum(t, db, user))
	require.Equal(t, 100, reloadUser(t, db, user).Points)
}

func TestExchangeInsufficientStock(t *testing.T) {
	db := setupDB(t)
	svc := newExchangeService(db, nil)
	user := createUser(t, db, model.RoleUser, 10000)
	product := createProduct(t, db, 100, 1, true)

	_, err := svc.Create(context.Background(), user.ID, dto.CreateExchangeInput{
		ProductID: product.ID.String(),
		Quantity:  2,
	})
	require.ErrorIs(t, err, apperror.ErrInsufficientStock)
	require.Equal(t, 10000, reloadUser(t, db, user).Points)
}

func TestExchangeInactiveProduct(t *testing.T) {
	db := setupDB(t)
	svc := newExchangeService(db, nil)
	user := createUser(t, db, model.RoleUser, 10000)
	product := createProduct(t, db, 100, 5, false)

	// The inactive flag must survive the insert; a DB-side default would
	// silently flip a zero-value false back to active.
	var fresh model.Product
	require.NoError(t, db.Where("id = ?", product.ID).First(&fresh).Error)
	require.False(t, fresh.Active)

	_, err := svc.Create(context.Background(), user.ID, dto.CreateExchangeInput{
		ProductID: product.ID.String(),
	})
	require.ErrorIs(t, err, apperror.ErrInvalidState)
}

func TestExchangeStateMachine(t *testing.T) {
	db := setupDB(t)
	svc := newExchangeService(db, nil)
	user := createUser(t, db, model.RoleUser, 1000)
	admin := createUser(t, db, model.RoleAdmin, 0)
	product := createProduct(t, db, 100, 5, true)
	ctx := context.Background()

	res, err := svc.Create(ctx, user.ID, dto.CreateExchangeInput{ProductID: product.ID.String()})
	require.NoError(t, err)
	id := res.Exchange.ID

	// Complete straight from pending is not allowed.
	require.ErrorIs(t, svc.Complete(ctx, admin, id), apperror.ErrInvalidState)

	require.NoError(t, svc.Approve(ctx, admin, id))
	require.ErrorIs(t, svc.Approve(ctx, admin, id), apperror.ErrInvalidState)

	// Approved requests cannot be rejected.
	require.ErrorIs(t, svc.Reject(ctx, admin, id), apperror.ErrInvalidState)

	require.NoError(t, svc.Complete(ctx, admin, id))

	// Completed is terminal.
	require.ErrorIs(t, svc.Approve(ctx, admin, id), apperror.ErrInvalidState)
	require.ErrorIs(t, svc.Reject(ctx, admin, id), apperror.ErrInvalidState)

	ex, err := repository.NewExchangeRepository(db).FindByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, model.ExchangeCompleted, ex.Status)
	require.NotNil(t, ex.ProcessedAt)
}

func TestExchangeRejectRefunds(t *testing.T) {
	db := setupDB(t)
	svc := newExchangeService(db, nil)
	user := createUser(t, db, model.RoleUser, 1000)
	admin := createUser(t, db, model.RoleAdmin, 0)
	product := createProduct(t, db, 300, 5, true)
	ctx := context.Background()

	res, err := svc.Create(ctx, user.ID, dto.CreateExchangeInput{ProductID: product.ID.String(), Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, svc.Reject(ctx, admin, res.Exchange.ID))

	fresh := reloadUser(t, db, user)
	require.Equal(t, 1000, fresh.Points)
	require.Equal(t, 0, ledgerSum(t, db, user))
	require.Equal(t, 5, productStock(t, db, product))

	// Spend and refund both remain in the history.
	var entries []model.LedgerEntry
	require.NoError(t, db.Where("user_id = ?", user.ID).Order("id").Find(&entries).Error)
	require.Len(t, entries, 2)
	require.Equal(t, model.ReasonExchangeSpend, entries[0].Reason)
	require.Equal(t, model.ReasonExchangeRefund, entries[1].Reason)
}

func TestExchangeRejectWithoutRefundPolicy(t *testing.T) {
	db := setupDB(t)
	cfg := testConfig()
	cfg.ExchangeRefundOnReject = false
	svc := newExchangeService(db, cfg)
	user := createUser(t, db, model.RoleUser, 1000)
	admin := createUser(t, db, model.RoleAdmin, 0)
	product := createProduct(t, db, 300, 5, true)
	ctx := context.Background()

	res, err := svc.Create(ctx, user.ID, dto.CreateExchangeInput{ProductID: product.ID.String()})
	require.NoError(t, err)

	require.NoError(t, svc.Reject(ctx, admin, res.Exchange.ID))

	require.Equal(t, 700, reloadUser(t, db, user).Points)
	require.Equal(t, 4, productStock(t, db, product))
	require.Equal(t, -300, ledgerSum(t, db, user))
}

func TestExchangeAdminOpsRequireAdmin(t *testing.T) {
	db := setupDB(t)
	svc := newExchangeService(db, nil)
	user := createUser(t, db, model.RoleUser, 1000)
	product := createProduct(t, db, 100, 5, true)
	ctx := context.Background()

	res, err := svc.Create(ctx, user.ID, dto.CreateExchangeInput{ProductID: product.ID.String()})
	require.NoError(t, err)

	require.ErrorIs(t, svc.Approve(ctx, user, res.Exchange.ID), apperror.ErrForbidden)
	require.ErrorIs(t, svc.Reject(ctx, user, res.Exchange.ID), apperror.ErrForbidden)
	_, err = svc.ListAll(ctx, user, "", 10, 0)
	require.ErrorIs(t, err, apperror.ErrForbidden)

	require.EqualValues(t, 0, auditCount(t, db))
}
