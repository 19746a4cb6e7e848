package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/dto"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/model"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/repository"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/pkg/apperror"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/pkg/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductService interface {
	ListActive(ctx context.Context) ([]*model.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Product, error)
	Search(ctx context.Context, query string) ([]ProductDoc, error)

	Create(ctx context.Context, actor *model.User, input dto.CreateProductInput, image *dto.ImageFile) (*model.Product, error)
	Update(ctx context.Context, actor *model.User, id uuid.UUID, input dto.UpdateProductInput, image *dto.ImageFile) (*model.Product, error)
	Delete(ctx context.Context, actor *model.User, id uuid.UUID) error
	ListAll(ctx context.Context, actor *model.User) ([]*model.Product, error)
}

type productService struct {
	repo         repository.ProductRepository
	audit        repository.AuditRepository
	search       SearchService
	imageStorage storage.ImageStorage
}

func NewProductService(repo repository.ProductRepository, audit repository.AuditRepository, search SearchService, imageStorage storage.ImageStorage) ProductService {
	return &productService{
		repo:         repo,
		audit:        audit,
		search:       search,
		imageStorage: imageStorage,
	}
}

func (s *productService) ListActive(ctx context.Context) ([]*model.Product, error) {
	return s.repo.FindActive(ctx)
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	return product, nil
}

func (s *productService) Search(ctx context.Context, query string) ([]ProductDoc, error) {
	if s.search == nil {
		return nil, fmt.Errorf("%w: search is not configured", apperror.ErrInternal)
	}
	return s.search.SearchProducts(query, 20)
}

func (s *productService) Create(ctx context.Context, actor *model.User, input dto.CreateProductInput, image *dto.ImageFile) (*model.Product, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	var imageURL *string
	if image != nil && image.Reader != nil && s.imageStorage != nil {
		url, err := s.imageStorage.UploadImage(ctx, image.Reader, "products", image.FileName)
		if err != nil {
			return nil, err
		}
		imageURL = &url
	}

	product := &model.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		Stock:       input.Stock,
		Active:      true,
		ImageURL:    imageURL,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.syncIndex(product)
	s.writeAudit(ctx, actor, "product_create", product.ID.String(), fmt.Sprintf(`{"name":%q,"price":%d,"stock":%d}`, product.Name, product.Price, product.Stock))

	return product, nil
}

func (s *productService) Update(ctx context.Context, actor *model.User, id uuid.UUID, input dto.UpdateProductInput, image *dto.ImageFile) (*model.Product, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.Active != nil {
		product.Active = *input.Active
	}

	if image != nil && image.Reader != nil && s.imageStorage != nil {
		url, err := s.imageStorage.UploadImage(ctx, image.Reader, "products", image.FileName)
		if err != nil {
			return nil, err
		}
		if product.ImageURL != nil {
			if err := s.imageStorage.DeleteImage(ctx, *product.ImageURL); err != nil {
				log.Printf("Failed to delete replaced product image: %v", err)
			}
		}
		product.ImageURL = &url
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.syncIndex(product)
	s.writeAudit(ctx, actor, "product_update", product.ID.String(), fmt.Sprintf(`{"name":%q}`, product.Name))

	return product, nil
}

func (s *productService) Delete(ctx context.Context, actor *model.User, id uuid.UUID) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	product, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if product.ImageURL != nil && s.imageStorage != nil {
		if err := s.imageStorage.DeleteImage(ctx, *product.ImageURL); err != nil {
			log.Printf("Failed to delete product image: %v", err)
		}
	}

	if s.search != nil {
		if err := s.search.DeleteProduct(id.String()); err != nil {
			log.Printf("Failed to remove product %s from search index: %v", id, err)
		}
	}
	s.writeAudit(ctx, actor, "product_delete", id.String(), "")

	return nil
}

func (s *productService) ListAll(ctx context.Context, actor *model.User) ([]*model.Product, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	return s.repo.FindAll(ctx)
}

func (s *productService) syncIndex(product *model.Product) {
	if s.search == nil {
		return
	}
	if err := s.search.IndexProduct(product); err != nil {
		log.Printf("Failed to index product %s: %v", product.ID, err)
	}
}

func (s *productService) writeAudit(ctx context.Context, actor *model.User, action, targetID, payload string) {
	entry := &model.AuditLog{
		ActorID:     actor.ID,
		Action:      action,
		TargetTable: "products",
		TargetID:    targetID,
		Payload:     payload,
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		logAuditFailure(action, err)
	}
}
