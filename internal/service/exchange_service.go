package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/config"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/dto"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/model"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/repository"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExchangeService runs the points-for-product workflow:
// pending -> approved -> completed, or pending -> rejected. Terminal
// states never transition again. Stock is taken at request creation, not
// at approval.
type ExchangeService interface {
	Create(ctx context.Context, userID uuid.UUID, input dto.CreateExchangeInput) (*dto.ExchangeResponse, error)
	ListMine(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.ExchangeRequest, error)

	Approve(ctx context.Context, actor *model.User, id uuid.UUID) error
	Reject(ctx context.Context, actor *model.User, id uuid.UUID) error
	Complete(ctx context.Context, actor *model.User, id uuid.UUID) error
	ListAll(ctx context.Context, actor *model.User, status string, limit, offset int) ([]model.ExchangeRequest, error)
}

type exchangeService struct {
	repo        repository.ExchangeRepository
	productRepo repository.ProductRepository
	audit       repository.AuditRepository
	events      EventService
	cfg         *config.Config
	now         func() time.Time
}

func NewExchangeService(repo repository.ExchangeRepository, productRepo repository.ProductRepository, audit repository.AuditRepository, events EventService, cfg *config.Config) ExchangeService {
	return &exchangeService{
		repo:        repo,
		productRepo: productRepo,
		audit:       audit,
		events:      events,
		cfg:         cfg,
		now:         time.Now,
	}
}

func (s *exchangeService) Create(ctx context.Context, userID uuid.UUID, input dto.CreateExchangeInput) (*dto.ExchangeResponse, error) {
	productID, err := uuid.Parse(input.ProductID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid product id", apperror.ErrInvalidInput)
	}

	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if !product.Active {
		return nil, fmt.Errorf("%w: product is not active", apperror.ErrInvalidState)
	}
	if product.Stock < quantity {
		return nil, apperror.ErrInsufficientStock
	}

	// Total price is fixed here; later product price changes never touch
	// existing requests.
	totalPrice := product.Price * quantity

	ex, balance, err := s.repo.Create(ctx, userID, product, quantity, totalPrice)
	if err != nil {
		return nil, err
	}

	s.events.PublishBalanceChanged(ctx, userID, balance, model.ReasonExchangeSpend)
	s.events.PublishExchangeStatusChanged(ctx, userID, ex.ID, ex.Status)

	return &dto.ExchangeResponse{
		Exchange: ex,
		Balance:  balance,
	}, nil
}

func (s *exchangeService) ListMine(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.ExchangeRequest, error) {
	return s.repo.FindByUser(ctx, userID, limit, offset)
}

func (s *exchangeService) Approve(ctx context.Context, actor *model.User, id uuid.UUID) error {
	return s.transition(ctx, actor, id, model.ExchangePending, model.ExchangeApproved, "exchange_approve")
}

func (s *exchangeService) Complete(ctx context.Context, actor *model.User, id uuid.UUID) error {
	return s.transition(ctx, actor, id, model.ExchangeApproved, model.ExchangeCompleted, "exchange_complete")
}

func (s *exchangeService) Reject(ctx context.Context, actor *model.User, id uuid.UUID) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	ex, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if s.cfg.ExchangeRefundOnReject {
		err = s.repo.RejectWithRefund(ctx, ex, actor.ID, s.now())
	} else {
		err = s.repo.UpdateStatus(ctx, id, model.ExchangePending, model.ExchangeRejected, actor.ID, s.now())
	}
	if err != nil {
		return err
	}

	s.writeAudit(ctx, actor, "exchange_reject", id.String(), fmt.Sprintf(`{"refund":%t}`, s.cfg.ExchangeRefundOnReject))
	s.events.PublishExchangeStatusChanged(ctx, ex.UserID, id, model.ExchangeRejected)

	return nil
}

func (s *exchangeService) transition(ctx context.Context, actor *model.User, id uuid.UUID, from, to, action string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	ex, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if err := s.repo.UpdateStatus(ctx, id, from, to, actor.ID, s.now()); err != nil {
		return err
	}

	s.writeAudit(ctx, actor, action, id.String(), "")
	s.events.PublishExchangeStatusChanged(ctx, ex.UserID, id, to)

	return nil
}

func (s *exchangeService) ListAll(ctx context.Context, actor *model.User, status string, limit, offset int) ([]model.ExchangeRequest, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	return s.repo.FindAll(ctx, status, limit, offset)
}

func (s *exchangeService) writeAudit(ctx context.Context, actor *model.User, action, targetID, payload string) {
	entry := &model.AuditLog{
		ActorID:     actor.ID,
		Action:      action,
		TargetTable: "exchange_requests",
		TargetID:    targetID,
		Payload:     payload,
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		logAuditFailure(action, err)
	}
}
