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

type OrderService struct {
	Repo *repo.GormRepo
}

// resolveItems turns requested items into order items carrying a price
// snapshot read from the catalog right now. Any unresolved product aborts the
// whole resolution. Client-supplied prices are never consulted.
func (s *OrderService) resolveItems(ctx context.Context, items []transport.CreateOrderItem) ([]models.OrderItem, float64, map[uuid.UUID]models.Product, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for i := range items {
		if items[i].ProductID == uuid.Nil {
			return nil, 0, nil, fmt.Errorf("%w: product_id required", ErrValidation)
		}
		ids = append(ids, items[i].ProductID)
	}

	products, err := s.Repo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, 0, nil, err
	}

	var total float64
	resolved := make([]models.OrderItem, 0, len(items))
	for i := range items {
		product, ok := products[items[i].ProductID]
		if !ok {
			return nil, 0, nil, fmt.Errorf("%w: product %s", ErrNotFound, items[i].ProductID)
		}
		quantity := items[i].Quantity
		if quantity == 0 {
			quantity = 1
		}
		resolved = append(resolved, models.OrderItem{
			ProductID: product.ID,
			Quantity:  quantity,
			Price:     product.Price,
		})
		total += product.Price * float64(quantity)
	}
	return resolved, total, products, nil
}

func (s *OrderService) CreateOrder(ctx context.Context, customerID uuid.UUID, req transport.CreateOrderRequest) (*transport.OrderView, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: items required", ErrValidation)
	}

	items, total, products, err := s.resolveItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		UserID:          customerID,
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		TotalAmount:     total,
		OrderStatus:     models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusUnpaid,
	}

	order, err = s.Repo.CreateOrder(ctx, order)
	if err != nil {
		return nil, err
	}

	view := transport.NewOrderView(order, nil, products)
	return &view, nil
}

func (s *OrderService) ListOrdersByUser(ctx context.Context, actorID, userID uuid.UUID) ([]transport.OrderView, error) {
	if actorID != userID {
		return nil, fmt.Errorf("%w: not your orders", ErrForbidden)
	}
	orders, err := s.Repo.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.projectOrders(ctx, orders, false)
}

// UpdateOrderStatus is a fulfillment operation: only a seller owning at least
// one product referenced by the order may change its status.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, actorID, orderID uuid.UUID, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: unknown order status %q", ErrValidation, status)
	}
	return s.updateFulfillmentColumn(ctx, actorID, orderID, "order_status", status)
}

func (s *OrderService) UpdatePaymentStatus(ctx context.Context, actorID, orderID uuid.UUID, status string) (*models.Order, error) {
	if !models.ValidPaymentStatus(status) {
		return nil, fmt.Errorf("%w: unknown payment status %q", ErrValidation, status)
	}
	return s.updateFulfillmentColumn(ctx, actorID, orderID, "payment_status", status)
}

func (s *OrderService) updateFulfillmentColumn(ctx context.Context, actorID, orderID uuid.UUID, column, value string) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
		}
		return nil, err
	}

	sellerProductIDs, err := s.Repo.ProductIDsBySeller(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !authz.CanUpdateFulfillment(actorID, order, sellerProductIDs) {
		return nil, fmt.Errorf("%w: order references none of your products", ErrForbidden)
	}

	return s.Repo.UpdateOrderColumn(ctx, orderID, column, value)
}

// UpdateOrder applies a partial update on behalf of the owning customer.
// Replacing items re-snapshots prices and recomputes the total server-side;
// a client total is honored only when items are untouched.
func (s *OrderService) UpdateOrder(ctx context.Context, actorID, orderID uuid.UUID, req transport.UpdateOrderRequest) (*transport.OrderView, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
		}
		return nil, err
	}
	if !authz.CanEditOrDeleteOrder(actorID, order) {
		return nil, fmt.Errorf("%w: not the order owner", ErrForbidden)
	}

	if req.OrderStatus != nil {
		if !models.ValidOrderStatus(*req.OrderStatus) {
			return nil, fmt.Errorf("%w: unknown order status %q", ErrValidation, *req.OrderStatus)
		}
		order.OrderStatus = *req.OrderStatus
	}
	if req.PaymentStatus != nil {
		if !models.ValidPaymentStatus(*req.PaymentStatus) {
			return nil, fmt.Errorf("%w: unknown payment status %q", ErrValidation, *req.PaymentStatus)
		}
		order.PaymentStatus = *req.PaymentStatus
	}
	if req.ShippingAddress != nil {
		order.ShippingAddress = *req.ShippingAddress
	}

	replaceItems := req.Items != nil
	if replaceItems {
		if len(req.Items) == 0 {
			return nil, fmt.Errorf("%w: items must not be empty", ErrValidation)
		}
		items, total, _, err := s.resolveItems(ctx, req.Items)
		if err != nil {
			return nil, err
		}
		order.Items = items
		order.TotalAmount = total
	} else if req.TotalAmount != nil {
		order.TotalAmount = *req.TotalAmount
	}

	order, err = s.Repo.SaveOrder(ctx, order, replaceItems)
	if err != nil {
		return nil, err
	}

	views, err := s.projectOrders(ctx, []models.Order{*order}, false)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, actorID, orderID uuid.UUID) error {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: order %s", ErrNotFound, orderID)
		}
		return err
	}
	if !authz.CanEditOrDeleteOrder(actorID, order) {
		return fmt.Errorf("%w: not the order owner", ErrForbidden)
	}
	return s.Repo.DeleteOrder(ctx, orderID)
}

// projectOrders attaches product (and optionally customer) display fields to
// a batch of orders in two lookups, never per item.
func (s *OrderService) projectOrders(ctx context.Context, orders []models.Order, withCustomers bool) ([]transport.OrderView, error) {
	productIDs := make([]uuid.UUID, 0)
	userIDs := make([]uuid.UUID, 0)
	seenProduct := make(map[uuid.UUID]struct{})
	seenUser := make(map[uuid.UUID]struct{})
	for i := range orders {
		if withCustomers {
			if _, ok := seenUser[orders[i].UserID]; !ok {
				seenUser[orders[i].UserID] = struct{}{}
				userIDs = append(userIDs, orders[i].UserID)
			}
		}
		for _, item := range orders[i].Items {
			if _, ok := seenProduct[item.ProductID]; !ok {
				seenProduct[item.ProductID] = struct{}{}
				productIDs = append(productIDs, item.ProductID)
			}
		}
	}

	products, err := s.Repo.GetProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	var customers map[uuid.UUID]models.User
	if withCustomers {
		customers, err = s.Repo.GetUsersByIDs(ctx, userIDs)
		if err != nil {
			return nil, err
		}
	}

	views := make([]transport.OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, transport.NewOrderView(&orders[i], customers, products))
	}
	return views, nil
}
