package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/dto"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/model"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/repository"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AnnouncementService interface {
	ListActive(ctx context.Context) ([]*model.Announcement, error)

	Create(ctx context.Context, actor *model.User, input dto.CreateAnnouncementInput) (*model.Announcement, error)
	Update(ctx context.Context, actor *model.User, id uuid.UUID, input dto.UpdateAnnouncementInput) (*model.Announcement, error)
	Delete(ctx context.Context, actor *model.User, id uuid.UUID) error
	ListAll(ctx context.Context, actor *model.User) ([]*model.Announcement, error)
}

type announcementService struct {
	repo  repository.AnnouncementRepository
	audit repository.AuditRepository
}

func NewAnnouncementService(repo repository.AnnouncementRepository, audit repository.AuditRepository) AnnouncementService {
	return &announcementService{
		repo:  repo,
		audit: audit,
	}
}

func (s *announcementService) ListActive(ctx context.Context) ([]*model.Announcement, error) {
	return s.repo.FindActive(ctx)
}

func (s *announcementService) Create(ctx context.Context, actor *model.User, input dto.CreateAnnouncementInput) (*model.Announcement, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	kind := input.Type
	if kind == "" {
		kind = "info"
	}

	a := &model.Announcement{
		Title:     input.Title,
		Content:   input.Content,
		Type:      kind,
		Active:    true,
		CreatedBy: actor.ID,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.writeAudit(ctx, actor, "announcement_create", a.ID.String(), fmt.Sprintf(`{"title":%q}`, a.Title))

	return a, nil
}

func (s *announcementService) Update(ctx context.Context, actor *model.User, id uuid.UUID, input dto.UpdateAnnouncementInput) (*model.Announcement, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if input.Title != nil {
		a.Title = *input.Title
	}
	if input.Content != nil {
		a.Content = *input.Content
	}
	if input.Type != nil {
		a.Type = *input.Type
	}
	if input.Active != nil {
		a.Active = *input.Active
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}

	s.writeAudit(ctx, actor, "announcement_update", a.ID.String(), fmt.Sprintf(`{"title":%q}`, a.Title))

	return a, nil
}

func (s *announcementService) Delete(ctx context.Context, actor *model.User, id uuid.UUID) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.writeAudit(ctx, actor, "announcement_delete", id.String(), "")

	return nil
}

func (s *announcementService) ListAll(ctx context.Context, actor *model.User) ([]*model.Announcement, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	return s.repo.FindAll(ctx)
}

func (s *announcementService) writeAudit(ctx context.Context, actor *model.User, action, targetID, payload string) {
	entry := &model.AuditLog{
		ActorID:     actor.ID,
		Action:      action,
		TargetTable: "announcements",
		TargetID:    targetID,
		Payload:     payload,
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		logAuditFailure(action, err)
	}
}
