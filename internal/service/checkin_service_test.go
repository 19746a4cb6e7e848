package service

import (
	"context"
	"testing"
	"time"

	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/model"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/repository"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/pkg/apperror"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCheckinService(db *gorm.DB, now func() time.Time) CheckinService {
	svc := NewCheckinService(repository.NewUserRepository(db), NewEventService(nil), testConfig())
	svc.(*checkinService).now = now
	return svc
}

func TestCheckInFirstTime(t *testing.T) {
	db := setupDB(t)
	now := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	svc := newCheckinService(db, func() time.Time { return now })
	user := createUser(t, db, model.RoleUser, 0)

	res, err := svc.CheckIn(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, 100, res.Reward)
	require.Equal(t, 1, res.Streak)
	require.Equal(t, 100, res.Balance)

	fresh := reloadUser(t, db, user)
	require.Equal(t, 100, fresh.Points)
	require.Equal(t, fresh.Points, ledgerSum(t, db, user))
	require.NotNil(t, fresh.LastCheckIn)
}

func TestCheckInOncePerDay(t *testing.T) {
	db := setupDB(t)
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	svc := newCheckinService(db, func() time.Time { return now })
	user := createUser(t, db, model.RoleUser, 0)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, user.ID)
	require.NoError(t, err)

	// Later the same day.
	now = now.Add(10 * time.Hour)
	_, err = svc.CheckIn(ctx, user.ID)
	require.ErrorIs(t, err, apperror.ErrAlreadyCheckedIn)

	require.Equal(t, 100, ledgerSum(t, db, user))
}

func TestCheckInStreakIncrementsOnConsecutiveDays(t *testing.T) {
	db := setupDB(t)
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	svc := newCheckinService(db, func() time.Time { return now })
	user := createUser(t, db, model.RoleUser, 0)
	ctx := context.Background()

	res, err := svc.CheckIn(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 1, res.Streak)

	now = now.AddDate(0, 0, 1)
	res, err = svc.CheckIn(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 2, res.Streak)

	// Skipping a day resets the streak.
	now = now.AddDate(0, 0, 2)
	res, err = svc.CheckIn(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 1, res.Streak)
}

func TestCheckInRewardFormula(t *testing.T) {
	db := setupDB(t)
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	svc := newCheckinService(db, func() time.Time { return now })

	user := createUser(t, db, model.RoleVIP, 0)
	require.NoError(t, db.Model(&model.User{}).
		Where("id = ?", user.ID).
		Update("vip_level", 3).Error)

	res, err := svc.CheckIn(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, 100+3*50, res.Reward)
}

func TestCheckInStatus(t *testing.T) {
	db := setupDB(t)
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	svc := newCheckinService(db, func() time.Time { return now })
	user := createUser(t, db, model.RoleUser, 0)
	ctx := context.Background()

	status, err := svc.Status(ctx, user.ID)
	require.NoError(t, err)
	require.False(t, status.CheckedInToday)
	require.Equal(t, 100, status.NextReward)

	_, err = svc.CheckIn(ctx, user.ID)
	require.NoError(t, err)

	status, err = svc.Status(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, status.CheckedInToday)
	require.Equal(t, 1, status.Streak)

	// The next calendar day it reads as available again.
	now = now.AddDate(0, 0, 1)
	status, err = svc.Status(ctx, user.ID)
	require.NoError(t, err)
	require.False(t, status.CheckedInToday)
}
