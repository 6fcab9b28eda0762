package authz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ovolkov/marketplace/internal/models"
)

func TestCanManageProduct(t *testing.T) {
	owner := uuid.New()
	product := &models.Product{ID: uuid.New(), SellerID: owner}

	assert.True(t, CanManageProduct(owner, product))
	assert.False(t, CanManageProduct(uuid.New(), product))
	assert.False(t, CanManageProduct(uuid.Nil, &models.Product{}))
}

func TestCanEditOrDeleteOrder(t *testing.T) {
	owner := uuid.New()
	order := &models.Order{ID: uuid.New(), UserID: owner}

	assert.True(t, CanEditOrDeleteOrder(owner, order))
	assert.False(t, CanEditOrDeleteOrder(uuid.New(), order))
	assert.False(t, CanEditOrDeleteOrder(uuid.Nil, &models.Order{}))
}

func TestCanViewOrder(t *testing.T) {
	customer := uuid.New()
	seller := uuid.New()
	p1 := uuid.New()
	p2 := uuid.New()

	order := &models.Order{
		UserID: customer,
		Items: []models.OrderItem{
			{ProductID: p1, Quantity: 1},
			{ProductID: p2, Quantity: 2},
		},
	}

	assert.True(t, CanViewOrder(customer, order, nil))
	assert.True(t, CanViewOrder(seller, order, []uuid.UUID{p2}))
	assert.False(t, CanViewOrder(seller, order, []uuid.UUID{uuid.New()}))
	assert.False(t, CanViewOrder(seller, order, nil))
}

func TestCanUpdateFulfillment(t *testing.T) {
	customer := uuid.New()
	seller := uuid.New()
	p1 := uuid.New()

	order := &models.Order{
		UserID: customer,
		Items:  []models.OrderItem{{ProductID: p1, Quantity: 1}},
	}

	assert.True(t, CanUpdateFulfillment(seller, order, []uuid.UUID{p1}))
	assert.False(t, CanUpdateFulfillment(seller, order, nil))
	// owning the order is not enough for the fulfillment path
	assert.False(t, CanUpdateFulfillment(customer, order, nil))
	assert.False(t, CanUpdateFulfillment(uuid.Nil, order, []uuid.UUID{p1}))
}
