package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jkx4r/techify/internal/models"
	"github.com/jkx4r/techify/internal/repo"
)

type CatalogService struct {
	Repo *repo.GormRepo
}

func (s *CatalogService) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	prod, err := s.Repo.GetProduct(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return prod, err
}

func (s *CatalogService) List(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	return s.Repo.GetProducts(ctx, offset, limit)
}

func (s *CatalogService) Search(ctx context.Context, q string) ([]models.Product, error) {
	return s.Repo.SearchProducts(ctx, q)
}

func (s *CatalogService) Create(ctx context.Context, prod *models.Product) (*models.Product, error) {
	if prod.Name == "" {
		return nil, fmt.Errorf("name must not be empty: %w", ErrValidation)
	}
	if prod.Price < 0 {
		return nil, fmt.Errorf("price must not be negative: %w", ErrValidation)
	}
	return s.Repo.CreateProduct(ctx, prod)
}

func (s *CatalogService) Update(ctx context.Context, id uint, req repo.PatchProduct) (*models.Product, error) {
	if req.Price != nil && *req.Price < 0 {
		return nil, fmt.Errorf("price must not be negative: %w", ErrValidation)
	}
	prod, err := s.Repo.PatchProduct(ctx, id, req)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return prod, err
}

func (s *CatalogService) Delete(ctx context.Context, id uint) error {
	err := s.Repo.DeleteProduct(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return err
}
