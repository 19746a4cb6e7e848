package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/config"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/dto"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/model"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/repository"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LedgerService is the single path through which an account balance may
// change. Every credit or debit becomes an immutable ledger entry, so the
// per-account sum of entries always equals the cached balance.
type LedgerService interface {
	Apply(ctx context.Context, userID uuid.UUID, amount int, reason, description string) (*model.LedgerEntry, int, error)
	Balance(ctx context.Context, userID uuid.UUID, limit, offset int) (*dto.BalanceResponse, error)
	GameReward(ctx context.Context, userID uuid.UUID, game string) (*dto.GameRewardResponse, error)
}

type ledgerService struct {
	repo     repository.LedgerRepository
	userRepo repository.UserRepository
	events   EventService
	limiter  CooldownLimiter
	cfg      *config.Config
}

func NewLedgerService(repo repository.LedgerRepository, userRepo repository.UserRepository, events EventService, limiter CooldownLimiter, cfg *config.Config) LedgerService {
	return &ledgerService{
		repo:     repo,
		userRepo: userRepo,
		events:   events,
		limiter:  limiter,
		cfg:      cfg,
	}
}

func (s *ledgerService) Apply(ctx context.Context, userID uuid.UUID, amount int, reason, description string) (*model.LedgerEntry, int, error) {
	if amount == 0 {
		return nil, 0, fmt.Errorf("%w: amount must not be zero", apperror.ErrInvalidInput)
	}

	entry, balance, err := s.repo.Apply(ctx, userID, amount, reason, description)
	if err != nil {
		return nil, 0, err
	}

	s.events.PublishBalanceChanged(ctx, userID, balance, reason)

	return entry, balance, nil
}

func (s *ledgerService) Balance(ctx context.Context, userID uuid.UUID, limit, offset int) (*dto.BalanceResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	entries, err := s.repo.FindByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	return &dto.BalanceResponse{
		Points:  user.Points,
		Entries: entries,
	}, nil
}

func (s *ledgerService) GameReward(ctx context.Context, userID uuid.UUID, game string) (*dto.GameRewardResponse, error) {
	allowed, err := s.limiter.Allow(ctx, userID, "game:"+game, s.cfg.GameRewardCooldown)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperror.ErrRateLimitExceeded
	}

	_, balance, err := s.Apply(ctx, userID, s.cfg.GameRewardPoints, model.ReasonGame, fmt.Sprintf("game reward: %s", game))
	if err != nil {
		// The credit did not happen, so the cooldown slot must not be
		// burned either.
		s.limiter.Release(ctx, userID, "game:"+game)
		return nil, err
	}

	return &dto.GameRewardResponse{
		Reward:  s.cfg.GameRewardPoints,
		Balance: balance,
	}, nil
}
