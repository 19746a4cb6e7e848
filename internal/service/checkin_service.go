package service

import (
	"context"
	"errors"
	"time"

	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/config"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/dto"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/model"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/repository"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CheckinService grants one reward per account per calendar day (server
// local time). The day state is recomputed from the stored date, never
// from a timer.
type CheckinService interface {
	CheckIn(ctx context.Context, userID uuid.UUID) (*dto.CheckinResponse, error)
	Status(ctx context.Context, userID uuid.UUID) (*dto.CheckinStatusResponse, error)
}

type checkinService struct {
	userRepo repository.UserRepository
	events   EventService
	cfg      *config.Config
	now      func() time.Time
}

func NewCheckinService(userRepo repository.UserRepository, events EventService, cfg *config.Config) CheckinService {
	return &checkinService{
		userRepo: userRepo,
		events:   events,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *checkinService) CheckIn(ctx context.Context, userID uuid.UUID) (*dto.CheckinResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	today := startOfDay(s.now())
	if user.LastCheckIn != nil && !user.LastCheckIn.Before(today) {
		return nil, apperror.ErrAlreadyCheckedIn
	}

	streak := 1
	if user.LastCheckIn != nil && user.LastCheckIn.Equal(today.AddDate(0, 0, -1)) {
		streak = user.CheckinStreak + 1
	}

	reward := s.reward(user.VIPLevel)

	_, balance, err := s.userRepo.CheckIn(ctx, userID, reward, streak, today)
	if err != nil {
		return nil, err
	}

	s.events.PublishBalanceChanged(ctx, userID, balance, model.ReasonCheckin)

	return &dto.CheckinResponse{
		Reward:  reward,
		Streak:  streak,
		Balance: balance,
	}, nil
}

func (s *checkinService) Status(ctx context.Context, userID uuid.UUID) (*dto.CheckinStatusResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	today := startOfDay(s.now())

	return &dto.CheckinStatusResponse{
		CheckedInToday: user.LastCheckIn != nil && !user.LastCheckIn.Before(today),
		Streak:         user.CheckinStreak,
		NextReward:     s.reward(user.VIPLevel),
	}, nil
}

func (s *checkinService) reward(vipLevel int) int {
	return s.cfg.CheckinBasePoints + vipLevel*s.cfg.CheckinVIPBonus
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
