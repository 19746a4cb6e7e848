package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/dto"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/model"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/repository"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IssueInput is the domain-level issuance request. It is used both by the
// admin surface and by the holiday code generator, which relies on
// ErrDuplicateCode to stay idempotent across repeated daily runs.
type IssueInput struct {
	Code        string
	Points      int
	ExpiresAt   time.Time
	Description string
	CreatedBy   *uuid.UUID
}

type GiftCodeService interface {
	Issue(ctx context.Context, input IssueInput) (*model.GiftCode, error)
	Redeem(ctx context.Context, userID uuid.UUID, rawCode string) (*dto.RedeemResponse, error)

	AdminIssue(ctx context.Context, actor *model.User, input dto.IssueGiftCodeInput) (*model.GiftCode, error)
	SetActive(ctx context.Context, actor *model.User, id uuid.UUID, active bool) error
	Delete(ctx context.Context, actor *model.User, id uuid.UUID) error
	List(ctx context.Context, actor *model.User) ([]*model.GiftCode, error)
}

type giftCodeService struct {
	repo   repository.GiftCodeRepository
	audit  repository.AuditRepository
	events EventService
	notify NotifyService
	now    func() time.Time
}

func NewGiftCodeService(repo repository.GiftCodeRepository, audit repository.AuditRepository, events EventService, notify NotifyService) GiftCodeService {
	return &giftCodeService{
		repo:   repo,
		audit:  audit,
		events: events,
		notify: notify,
		now:    time.Now,
	}
}

// NormalizeCode makes code matching case- and whitespace-insensitive.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *giftCodeService) Issue(ctx context.Context, input IssueInput) (*model.GiftCode, error) {
	code := NormalizeCode(input.Code)
	if code == "" {
		return nil, fmt.Errorf("%w: code must not be empty", apperror.ErrInvalidInput)
	}
	if input.Points <= 0 {
		return nil, fmt.Errorf("%w: points must be positive", apperror.ErrInvalidInput)
	}
	if !input.ExpiresAt.After(s.now()) {
		return nil, fmt.Errorf("%w: expiry must be in the future", apperror.ErrInvalidInput)
	}

	if _, err := s.repo.FindByCode(ctx, code); err == nil {
		return nil, apperror.ErrDuplicateCode
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	gc := &model.GiftCode{
		Code:        code,
		Points:      input.Points,
		Description: input.Description,
		Active:      true,
		ExpiresAt:   input.ExpiresAt,
		CreatedBy:   input.CreatedBy,
	}

	if err := s.repo.Create(ctx, gc); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// The unique index caught a concurrent issue of the same code.
			return nil, apperror.ErrDuplicateCode
		}
		return nil, fmt.Errorf("%w: %v", apperror.ErrStoreUnavailable, err)
	}

	s.notify.GiftCodeIssued(gc.Code, gc.Points, gc.ExpiresAt)

	return gc, nil
}

func (s *giftCodeService) Redeem(ctx context.Context, userID uuid.UUID, rawCode string) (*dto.RedeemResponse, error) {
	code := NormalizeCode(rawCode)

	gc, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	// Expiry wins over the active flag: an expired code reports
	// CodeExpired even when it was also deactivated.
	if gc.Expired(s.now()) {
		return nil, apperror.ErrCodeExpired
	}
	if !gc.Active {
		return nil, apperror.ErrCodeInactive
	}

	_, balance, err := s.repo.Redeem(ctx, gc, userID)
	if err != nil {
		return nil, err
	}

	s.events.PublishBalanceChanged(ctx, userID, balance, model.ReasonGiftCode)

	return &dto.RedeemResponse{
		Code:    gc.Code,
		Points:  gc.Points,
		Balance: balance,
	}, nil
}

func (s *giftCodeService) AdminIssue(ctx context.Context, actor *model.User, input dto.IssueGiftCodeInput) (*model.GiftCode, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	gc, err := s.Issue(ctx, IssueInput{
		Code:        input.Code,
		Points:      input.Points,
		ExpiresAt:   input.ExpiresAt,
		Description: input.Description,
		CreatedBy:   &actor.ID,
	})
	if err != nil {
		return nil, err
	}

	s.writeAudit(ctx, actor, "gift_code_issue", gc.ID.String(), fmt.Sprintf(`{"code":%q,"points":%d}`, gc.Code, gc.Points))

	return gc, nil
}

func (s *giftCodeService) SetActive(ctx context.Context, actor *model.User, id uuid.UUID, active bool) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return err
	}

	s.writeAudit(ctx, actor, "gift_code_set_active", id.String(), fmt.Sprintf(`{"active":%t}`, active))

	return nil
}

func (s *giftCodeService) Delete(ctx context.Context, actor *model.User, id uuid.UUID) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.writeAudit(ctx, actor, "gift_code_delete", id.String(), "")

	return nil
}

func (s *giftCodeService) List(ctx context.Context, actor *model.User) ([]*model.GiftCode, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	return s.repo.FindAll(ctx)
}

func (s *giftCodeService) writeAudit(ctx context.Context, actor *model.User, action, targetID, payload string) {
	entry := &model.AuditLog{
		ActorID:     actor.ID,
		Action:      action,
		TargetTable: "gift_codes",
		TargetID:    targetID,
		Payload:     payload,
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		logAuditFailure(action, err)
	}
}
