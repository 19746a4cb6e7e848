package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/dto"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/model"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/repository"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/pkg/apperror"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AdminService interface {
	CreateUser(ctx context.Context, actor *model.User, input dto.CreateUserInput) (*model.User, error)
	GetAllUsers(ctx context.Context, actor *model.User) ([]*model.User, error)
	UpdateUser(ctx context.Context, actor *model.User, id string, input dto.UpdateUserInput) (*model.User, error)
	DeleteUser(ctx context.Context, actor *model.User, id string) error
	AdjustPoints(ctx context.Context, actor *model.User, id string, input dto.AdjustPointsInput) (*model.LedgerEntry, int, error)
	ListAuditLog(ctx context.Context, actor *model.User, limit, offset int) ([]model.AuditLog, error)
}

type adminService struct {
	repo   repository.UserRepository
	ledger LedgerService
	audit  repository.AuditRepository
}

func NewAdminService(repo repository.UserRepository, ledger LedgerService, audit repository.AuditRepository) AdminService {
	return &adminService{
		repo:   repo,
		ledger: ledger,
		audit:  audit,
	}
}

func (s *adminService) CreateUser(ctx context.Context, actor *model.User, input dto.CreateUserInput) (*model.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", apperror.ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if _, err := s.repo.FindByUsername(ctx, input.Username); err == nil {
		return nil, fmt.Errorf("%w: username already taken", apperror.ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	roleName := input.Role
	if roleName == "" {
		roleName = model.RoleUser
	}
	role, err := s.repo.FindRoleByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: role %s not found", apperror.ErrInvalidInput, roleName)
		}
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	roleID := role.ID
	user := &model.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		DisplayName:  input.DisplayName,
		RoleID:       &roleID,
		Status:       model.StatusActive,
		VIPLevel:     input.VIPLevel,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	created, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	created.PasswordHash = ""

	s.writeAudit(ctx, actor, "user_create", created.ID.String(), fmt.Sprintf(`{"username":%q,"role":%q}`, created.Username, roleName))

	return created, nil
}

func (s *adminService) GetAllUsers(ctx context.Context, actor *model.User) ([]*model.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		u.PasswordHash = ""
	}

	return users, nil
}

func (s *adminService) UpdateUser(ctx context.Context, actor *model.User, id string, input dto.UpdateUserInput) (*model.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if input.DisplayName != nil {
		user.DisplayName = *input.DisplayName
	}
	if input.Status != nil {
		user.Status = *input.Status
	}
	if input.VIPLevel != nil {
		user.VIPLevel = *input.VIPLevel
	}
	if input.Role != nil && user.Role.Name != *input.Role {
		role, err := s.repo.FindRoleByName(ctx, *input.Role)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: role %s not found", apperror.ErrInvalidInput, *input.Role)
			}
			return nil, err
		}
		user.RoleID = &role.ID
		user.Role = *role
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updated.PasswordHash = ""

	s.writeAudit(ctx, actor, "user_update", id, fmt.Sprintf(`{"username":%q}`, updated.Username))

	return updated, nil
}

func (s *adminService) DeleteUser(ctx context.Context, actor *model.User, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	// Ledger entries stay behind so the history remains auditable.
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.writeAudit(ctx, actor, "user_delete", id, "")

	return nil
}

func (s *adminService) AdjustPoints(ctx context.Context, actor *model.User, id string, input dto.AdjustPointsInput) (*model.LedgerEntry, int, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, 0, err
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, apperror.ErrNotFound
		}
		return nil, 0, err
	}

	entry, balance, err := s.ledger.Apply(ctx, user.ID, input.Amount, model.ReasonAdminAdjustment, input.Description)
	if err != nil {
		return nil, 0, err
	}

	s.writeAudit(ctx, actor, "points_adjust", id, fmt.Sprintf(`{"amount":%d,"description":%q}`, input.Amount, input.Description))

	return entry, balance, nil
}

func (s *adminService) ListAuditLog(ctx context.Context, actor *model.User, limit, offset int) ([]model.AuditLog, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	return s.audit.FindAll(ctx, limit, offset)
}

func (s *adminService) writeAudit(ctx context.Context, actor *model.User, action, targetID, payload string) {
	entry := &model.AuditLog{
		ActorID:     actor.ID,
		Action:      action,
		TargetTable: "users",
		TargetID:    targetID,
		Payload:     payload,
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		logAuditFailure(action, err)
	}
}
