package repository

import (
	"context"
	"errors"
	"time"

	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/model"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindRoleByName(ctx context.Context, name string) (*model.Role, error)
	Update(ctx context.Context, user *model.User) error
	FindAll(ctx context.Context) ([]*model.User, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)

	// CheckIn marks today's check-in, updates the streak, credits the
	// reward, and writes the ledger entry atomically. The day guard is a
	// condition on the UPDATE, so a concurrent duplicate check-in loses
	// the race and fails with ErrAlreadyCheckedIn.
	CheckIn(ctx context.Context, userID uuid.UUID, reward, streak int, today time.Time) (*model.LedgerEntry, int, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Preload("Role").
		Where("email = ?", email).
		First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Preload("Role").
		Where("username = ?", username).
		First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Preload("Role").
		Where("id = ?", id).
		First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindRoleByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}

	return &role, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) FindAll(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	if err := r.db.WithContext(ctx).
		Preload("Role").
		Order("created_at ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.User{}, "id = ?", id).Error
}

func (r *userRepository) CheckIn(ctx context.Context, userID uuid.UUID, reward, streak int, today time.Time) (*model.LedgerEntry, int, error) {
	entry := &model.LedgerEntry{
		UserID:      userID,
		Amount:      reward,
		Reason:      model.ReasonCheckin,
		Description: "daily check-in",
	}

	var balance int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.User{}).
			Where("id = ? AND status = ?", userID, model.StatusActive).
			Where("last_check_in IS NULL OR last_check_in < ?", today).
			Updates(map[string]interface{}{
				"last_check_in":  today,
				"checkin_streak": streak,
				"points":         gorm.Expr("points + ?", reward),
			})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			var user model.User
			if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperror.ErrNotFound
				}
				return err
			}
			if user.Status != model.StatusActive {
				return apperror.ErrInvalidState
			}
			return apperror.ErrAlreadyCheckedIn
		}

		if err := tx.Create(entry).Error; err != nil {
			return err
		}

		var user model.User
		if err := tx.Select("points").Where("id = ?", userID).First(&user).Error; err != nil {
			return err
		}
		balance = user.Points

		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	return entry, balance, nil
}
