package service

import (
	"context"
	"testing"
	"time"

	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/model"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/repository"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestLedgerApplyKeepsBalanceEqualToEntrySum(t *testing.T) {
	db := setupDB(t)
	svc := newLedgerService(db)
	user := createUser(t, db, model.RoleUser, 0)
	ctx := context.Background()

	_, balance, err := svc.Apply(ctx, user.ID, 500, model.ReasonAdminAdjustment, "grant")
	require.NoError(t, err)
	require.Equal(t, 500, balance)

	_, balance, err = svc.Apply(ctx, user.ID, -200, model.ReasonExchangeSpend, "spend")
	require.NoError(t, err)
	require.Equal(t, 300, balance)

	fresh := reloadUser(t, db, user)
	require.Equal(t, 300, fresh.Points)
	require.Equal(t, fresh.Points, ledgerSum(t, db, user))
}

func TestLedgerDebitNeverOverdraws(t *testing.T) {
	db := setupDB(t)
	svc := newLedgerService(db)
	user := createUser(t, db, model.RoleUser, 100)
	ctx := context.Background()

	_, _, err := svc.Apply(ctx, user.ID, -101, model.ReasonExchangeSpend, "too much")
	require.ErrorIs(t, err, apperror.ErrInsufficientBalance)

	// The failed debit must leave no trace.
	fresh := reloadUser(t, db, user)
	require.Equal(t, 100, fresh.Points)
	require.Equal(t, 0, ledgerSum(t, db, user))

	// Spending the exact balance is allowed.
	_, balance, err := svc.Apply(ctx, user.ID, -100, model.ReasonExchangeSpend, "all in")
	require.NoError(t, err)
	require.Equal(t, 0, balance)
}

func TestLedgerApplyRejectsZeroAmount(t *testing.T) {
	db := setupDB(t)
	svc := newLedgerService(db)
	user := createUser(t, db, model.RoleUser, 0)

	_, _, err := svc.Apply(context.Background(), user.ID, 0, model.ReasonGame, "noop")
	require.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestLedgerApplySuspendedAccount(t *testing.T) {
	db := setupDB(t)
	svc := newLedgerService(db)
	user := createUser(t, db, model.RoleUser, 100)

	require.NoError(t, db.Model(&model.User{}).
		Where("id = ?", user.ID).
		Update("status", model.StatusSuspended).Error)

	_, _, err := svc.Apply(context.Background(), user.ID, 10, model.ReasonGame, "blocked")
	require.ErrorIs(t, err, apperror.ErrInvalidState)
	require.Equal(t, 0, ledgerSum(t, db, user))
}

func TestGameRewardCreditsConfiguredAmount(t *testing.T) {
	db := setupDB(t)
	svc := newLedgerService(db)
	user := createUser(t, db, model.RoleUser, 0)

	res, err := svc.GameReward(context.Background(), user.ID, "match3")
	require.NoError(t, err)
	require.Equal(t, 20, res.Reward)
	require.Equal(t, 20, res.Balance)

	var entry model.LedgerEntry
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&entry).Error)
	require.Equal(t, model.ReasonGame, entry.Reason)
}

func TestBalanceReturnsNewestFirst(t *testing.T) {
	db := setupDB(t)
	svc := newLedgerService(db)
	user := createUser(t, db, model.RoleUser, 0)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		_, _, err := svc.Apply(ctx, user.ID, i*10, model.ReasonAdminAdjustment, "grant")
		require.NoError(t, err)
	}

	res, err := svc.Balance(ctx, user.ID, 10, 0)
	require.NoError(t, err)
	require.Equal(t, 60, res.Points)
	require.Len(t, res.Entries, 3)
	require.Equal(t, 30, res.Entries[0].Amount)
}

type stubLimiter struct {
	allowed  bool
	released int
}

func (l *stubLimiter) Allow(ctx context.Context, userID uuid.UUID, action string, cooldown time.Duration) (bool, error) {
	return l.allowed, nil
}

func (l *stubLimiter) Release(ctx context.Context, userID uuid.UUID, action string) {
	l.released++
}

func TestGameRewardFailedCreditReleasesCooldown(t *testing.T) {
	db := setupDB(t)
	limiter := &stubLimiter{allowed: true}
	svc := NewLedgerService(
		repository.NewLedgerRepository(db),
		repository.NewUserRepository(db),
		NewEventService(nil),
		limiter,
		testConfig(),
	)
	user := createUser(t, db, model.RoleUser, 0)
	require.NoError(t, db.Model(&model.User{}).
		Where("id = ?", user.ID).
		Update("status", model.StatusSuspended).Error)

	_, err := svc.GameReward(context.Background(), user.ID, "trivia")
	require.ErrorIs(t, err, apperror.ErrInvalidState)
	require.Equal(t, 1, limiter.released)
	require.Equal(t, 0, ledgerSum(t, db, user))
}

func TestGameRewardRateLimited(t *testing.T) {
	db := setupDB(t)
	limiter := &stubLimiter{allowed: false}
	svc := NewLedgerService(
		repository.NewLedgerRepository(db),
		repository.NewUserRepository(db),
		NewEventService(nil),
		limiter,
		testConfig(),
	)
	user := createUser(t, db, model.RoleUser, 0)

	_, err := svc.GameReward(context.Background(), user.ID, "trivia")
	require.ErrorIs(t, err, apperror.ErrRateLimitExceeded)
	require.Equal(t, 0, limiter.released)
	require.Equal(t, 0, ledgerSum(t, db, user))
}
