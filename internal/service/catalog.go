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

// CatalogService answers the derived seller-side questions: which products a
// seller lists, and which orders touch them.
type CatalogService struct {
	Repo   *repo.GormRepo
	Orders *OrderService
}

func (s *CatalogService) ListProductsBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Product, error) {
	return s.Repo.ListProductsBySeller(ctx, sellerID)
}

// ListOrdersForSeller returns every order containing at least one of the
// seller's products. Matched orders come back whole, other sellers' items
// included.
func (s *CatalogService) ListOrdersForSeller(ctx context.Context, sellerID uuid.UUID) ([]transport.OrderView, error) {
	productIDs, err := s.Repo.ProductIDsBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	orders, err := s.Repo.ListOrdersByProductIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	return s.Orders.projectOrders(ctx, orders, true)
}

func (s *CatalogService) ListOrdersForProduct(ctx context.Context, sellerID, productID uuid.UUID) (*transport.ProductOrdersResponse, error) {
	product, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, productID)
		}
		return nil, err
	}
	if !authz.CanManageProduct(sellerID, product) {
		return nil, fmt.Errorf("%w: not your product", ErrForbidden)
	}

	orders, err := s.Repo.ListOrdersByProductIDs(ctx, []uuid.UUID{productID})
	if err != nil {
		return nil, err
	}
	views, err := s.Orders.projectOrders(ctx, orders, true)
	if err != nil {
		return nil, err
	}
	return &transport.ProductOrdersResponse{Product: *product, Orders: views}, nil
}
