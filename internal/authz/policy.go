// Package authz holds the pure ownership rules of the marketplace. The
// functions decide only, they never touch the store; callers load the
// entities and act on the verdict.
package authz

import (
	"github.com/google/uuid"

	"github.com/ovolkov/marketplace/internal/models"
)

func CanManageProduct(actorID uuid.UUID, product *models.Product) bool {
	return actorID != uuid.Nil && actorID == product.SellerID
}

func CanEditOrDeleteOrder(actorID uuid.UUID, order *models.Order) bool {
	return actorID != uuid.Nil && actorID == order.UserID
}

// CanViewOrder permits the purchasing customer, or a seller with at least one
// own product among the order items.
func CanViewOrder(actorID uuid.UUID, order *models.Order, sellerProductIDs []uuid.UUID) bool {
	if CanEditOrDeleteOrder(actorID, order) {
		return true
	}
	return ownsReferencedProduct(order, sellerProductIDs)
}

// CanUpdateFulfillment gates status and payment-status changes to sellers
// whose products the order references.
func CanUpdateFulfillment(actorID uuid.UUID, order *models.Order, sellerProductIDs []uuid.UUID) bool {
	if actorID == uuid.Nil {
		return false
	}
	return ownsReferencedProduct(order, sellerProductIDs)
}

func ownsReferencedProduct(order *models.Order, sellerProductIDs []uuid.UUID) bool {
	owned := make(map[uuid.UUID]struct{}, len(sellerProductIDs))
	for _, id := range sellerProductIDs {
		owned[id] = struct{}{}
	}
	for _, item := range order.Items {
		if _, ok := owned[item.ProductID]; ok {
			return true
		}
	}
	return false
}
