package service

import (
	"context"
	"testing"

	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/dto"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/model"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/repository"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/pkg/apperror"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAdminService(db *gorm.DB) AdminService {
	return NewAdminService(
		repository.NewUserRepository(db),
		newLedgerService(db),
		repository.NewAuditRepository(db),
	)
}

func TestAdminCreateUser(t *testing.T) {
	db := setupDB(t)
	svc := newAdminService(db)
	admin := createUser(t, db, model.RoleAdmin, 0)

	user, err := svc.CreateUser(context.Background(), admin, dto.CreateUserInput{
		Username:    "newbie",
		Email:       "newbie@example.com",
		Password:    "secret123",
		DisplayName: "Newbie",
		Role:        model.RoleVIP,
		VIPLevel:    2,
	})
	require.NoError(t, err)
	require.Equal(t, model.RoleVIP, user.Role.Name)
	require.Equal(t, 2, user.VIPLevel)
	require.Empty(t, user.PasswordHash)

	require.EqualValues(t, 1, auditCount(t, db))
}

func TestAdminCreateUserDuplicateEmail(t *testing.T) {
	db := setupDB(t)
	svc := newAdminService(db)
	admin := createUser(t, db, model.RoleAdmin, 0)
	existing := createUser(t, db, model.RoleUser, 0)

	_, err := svc.CreateUser(context.Background(), admin, dto.CreateUserInput{
		Username: "other",
		Email:    existing.Email,
		Password: "secret123",
	})
	require.ErrorIs(t, err, apperror.ErrConflict)
}

func TestAdminAdjustPointsGoesThroughLedger(t *testing.T) {
	db := setupDB(t)
	svc := newAdminService(db)
	admin := createUser(t, db, model.RoleAdmin, 0)
	user := createUser(t, db, model.RoleUser, 100)
	ctx := context.Background()

	entry, balance, err := svc.AdjustPoints(ctx, admin, user.ID.String(), dto.AdjustPointsInput{
		Amount:      -40,
		Description: "correction",
	})
	require.NoError(t, err)
	require.Equal(t, 60, balance)
	require.Equal(t, model.ReasonAdminAdjustment, entry.Reason)

	// The cached balance still matches the entry sum: 100 seed points
	// were never a ledger entry, so only the adjustment shows up.
	require.Equal(t, -40, ledgerSum(t, db, user))
	require.Equal(t, 60, reloadUser(t, db, user).Points)

	require.EqualValues(t, 1, auditCount(t, db))
}

func TestAdminOpsForbiddenForNonAdmin(t *testing.T) {
	db := setupDB(t)
	svc := newAdminService(db)
	user := createUser(t, db, model.RoleUser, 0)
	target := createUser(t, db, model.RoleUser, 100)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, user, dto.CreateUserInput{Username: "x", Email: "x@example.com", Password: "secret123"})
	require.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = svc.GetAllUsers(ctx, user)
	require.ErrorIs(t, err, apperror.ErrForbidden)

	_, _, err = svc.AdjustPoints(ctx, user, target.ID.String(), dto.AdjustPointsInput{Amount: 10, Description: "nope"})
	require.ErrorIs(t, err, apperror.ErrForbidden)

	require.ErrorIs(t, svc.DeleteUser(ctx, user, target.ID.String()), apperror.ErrForbidden)

	// No side effects at all.
	require.Equal(t, 100, reloadUser(t, db, target).Points)
	require.EqualValues(t, 0, auditCount(t, db))
}

func TestAdminUpdateUserRoleAndStatus(t *testing.T) {
	db := setupDB(t)
	svc := newAdminService(db)
	admin := createUser(t, db, model.RoleAdmin, 0)
	user := createUser(t, db, model.RoleUser, 0)

	newStatus := model.StatusSuspended
	newRole := model.RoleVIP
	level := 1
	updated, err := svc.UpdateUser(context.Background(), admin, user.ID.String(), dto.UpdateUserInput{
		Status:   &newStatus,
		Role:     &newRole,
		VIPLevel: &level,
	})
	require.NoError(t, err)
	require.Equal(t, model.StatusSuspended, updated.Status)
	require.Equal(t, model.RoleVIP, updated.Role.Name)
	require.Equal(t, 1, updated.VIPLevel)
}

func TestAdminDeleteUserKeepsLedgerHistory(t *testing.T) {
	db := setupDB(t)
	svc := newAdminService(db)
	admin := createUser(t, db, model.RoleAdmin, 0)
	user := createUser(t, db, model.RoleUser, 0)
	ctx := context.Background()

	ledger := newLedgerService(db)
	_, _, err := ledger.Apply(ctx, user.ID, 500, model.ReasonAdminAdjustment, "grant")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(ctx, admin, user.ID.String()))

	var userCount int64
	require.NoError(t, db.Model(&model.User{}).Where("id = ?", user.ID).Count(&userCount).Error)
	require.EqualValues(t, 0, userCount)

	// History stays auditable after the account is gone.
	var entryCount int64
	require.NoError(t, db.Model(&model.LedgerEntry{}).Where("user_id = ?", user.ID).Count(&entryCount).Error)
	require.EqualValues(t, 1, entryCount)
}

func TestAdminListAuditLog(t *testing.T) {
	db := setupDB(t)
	svc := newAdminService(db)
	admin := createUser(t, db, model.RoleAdmin, 0)
	user := createUser(t, db, model.RoleUser, 0)
	ctx := context.Background()

	_, _, err := svc.AdjustPoints(ctx, admin, user.ID.String(), dto.AdjustPointsInput{
		Amount:      50,
		Description: "welcome bonus",
	})
	require.NoError(t, err)

	entries, err := svc.ListAuditLog(ctx, admin, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "points_adjust", entries[0].Action)
	require.Equal(t, admin.ID, entries[0].ActorID)

	_, err = svc.ListAuditLog(ctx, user, 10, 0)
	require.ErrorIs(t, err, apperror.ErrForbidden)
}
