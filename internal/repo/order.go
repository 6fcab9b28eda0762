package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ovolkov/marketplace/internal/models"
)

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	// Creating the order together with its items runs in a single
	// transaction, so a failed item insert leaves no partial order behind.
	if err := r.DB.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListOrdersByProductIDs is the containment query: every order with at least
// one item referencing any of the given products, returned whole. The
// order_items.product_id index keeps this sub-linear in order count.
func (r *GormRepo) ListOrdersByProductIDs(ctx context.Context, productIDs []uuid.UUID) ([]models.Order, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	sub := r.DB.Model(&models.OrderItem{}).
		Select("order_id").
		Where("product_id IN ?", productIDs)

	var orders []models.Order
	if err := r.DB.WithContext(ctx).
		Preload("Items").
		Where("id IN (?)", sub).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) UpdateOrderColumn(ctx context.Context, id uuid.UUID, column string, value any) (*models.Order, error) {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetOrder(ctx, id)
}

// SaveOrder persists the order fields and, when replaceItems is set, swaps
// the item rows for the ones currently attached to the order.
func (r *GormRepo) SaveOrder(ctx context.Context, order *models.Order, replaceItems bool) (*models.Order, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if replaceItems {
			if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			for i := range order.Items {
				order.Items[i].ID = uuid.Nil
				order.Items[i].OrderID = order.ID
			}
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: replaceItems}).Save(order).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetOrder(ctx, order.ID)
}

func (r *GormRepo) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Order{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
