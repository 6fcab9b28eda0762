package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ovolkov/marketplace/internal/authz"
	"github.com/ovolkov/marketplace/internal/models"
	"github.com/ovolkov/marketplace/internal/repo"
	"github.com/ovolkov/marketplace/internal/transport"
)

type ProductService struct {
	Repo *repo.GormRepo
}

func (s *ProductService) CreateProduct(ctx context.Context, sellerID uuid.UUID, req transport.CreateProductRequest) (*models.Product, error) {
	if req.Name == "" || req.Image == "" || req.Category == "" {
		return nil, fmt.Errorf("%w: name, image and category are required", ErrValidation)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}

	product := &models.Product{
		Name:        req.Name,
		Price:       req.Price,
		Image:       req.Image,
		Category:    req.Category,
		Rating:      req.Rating,
		Description: req.Description,
		SellerID:    sellerID,
	}
	return s.Repo.CreateProduct(ctx, product)
}

func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, id)
		}
		return nil, err
	}
	return product, nil
}

func (s *ProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx)
}

// UpdateProduct merges non-empty fields over the stored product, owner only.
func (s *ProductService) UpdateProduct(ctx context.Context, sellerID, id uuid.UUID, req transport.UpdateProductRequest) (*models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanManageProduct(sellerID, product) {
		return nil, fmt.Errorf("%w: not your product", ErrForbidden)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Price != 0 {
		product.Price = req.Price
	}
	if req.Image != "" {
		product.Image = req.Image
	}
	if req.Category != "" {
		product.Category = req.Category
	}
	if req.Rating != 0 {
		product.Rating = req.Rating
	}
	if req.Description != "" {
		product.Description = req.Description
	}

	return s.Repo.SaveProduct(ctx, product)
}

func (s *ProductService) DeleteProduct(ctx context.Context, sellerID, id uuid.UUID) error {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	if !authz.CanManageProduct(sellerID, product) {
		return fmt.Errorf("%w: not your product", ErrForbidden)
	}
	return s.Repo.DeleteProduct(ctx, id)
}
