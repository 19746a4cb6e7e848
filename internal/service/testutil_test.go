package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/bootstrap"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/config"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/model"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupDB opens a per-test in-memory database to avoid cross-test
// interference.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, bootstrap.Migrate(db))
	require.NoError(t, bootstrap.SeedRoles(db))

	return db
}

func testConfig() *config.Config {
	return &config.Config{
		CheckinBasePoints:      100,
		CheckinVIPBonus:        50,
		GameRewardPoints:       20,
		GameRewardCooldown:     time.Hour,
		ExchangeRefundOnReject: true,
	}
}

func createUser(t *testing.T, db *gorm.DB, roleName string, points int) *model.User {
	t.Helper()

	var role model.Role
	require.NoError(t, db.Where("name = ?", roleName).First(&role).Error)

	user := &model.User{
		Username:     fmt.Sprintf("user-%s", randomSuffix(t)),
		Email:        fmt.Sprintf("%s@example.com", randomSuffix(t)),
		PasswordHash: "x",
		DisplayName:  "Test User",
		RoleID:       &role.ID,
		Role:         role,
		Status:       model.StatusActive,
		Points:       points,
	}
	require.NoError(t, db.Create(user).Error)

	return user
}

var suffixCounter int

func randomSuffix(t *testing.T) string {
	suffixCounter++
	return fmt.Sprintf("%s-%d", t.Name(), suffixCounter)
}

func createProduct(t *testing.T, db *gorm.DB, price, stock int, active bool) *model.Product {
	t.Helper()

	product := &model.Product{
		Name:     fmt.Sprintf("product-%s", randomSuffix(t)),
		Price:    price,
		Category: "test",
		Stock:    stock,
		Active:   active,
	}
	require.NoError(t, db.Create(product).Error)

	return product
}

// ledgerSum recomputes the account balance from the entries alone.
func ledgerSum(t *testing.T, db *gorm.DB, user *model.User) int {
	t.Helper()

	sum, err := repository.NewLedgerRepository(db).SumByUser(context.Background(), user.ID)
	require.NoError(t, err)

	return int(sum)
}

func reloadUser(t *testing.T, db *gorm.DB, user *model.User) *model.User {
	t.Helper()

	var fresh model.User
	require.NoError(t, db.Preload("Role").Where("id = ?", user.ID).First(&fresh).Error)

	return &fresh
}

func auditCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&model.AuditLog{}).Count(&count).Error)

	return count
}

func newLedgerService(db *gorm.DB) LedgerService {
	return NewLedgerService(
		repository.NewLedgerRepository(db),
		repository.NewUserRepository(db),
		NewEventService(nil),
		NewRateLimiter(nil),
		testConfig(),
	)
}
