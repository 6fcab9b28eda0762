package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovolkov/marketplace/internal/models"
	"github.com/ovolkov/marketplace/internal/transport"
)

func TestCreateOrder_SnapshotsPricesAndComputesTotal(t *testing.T) {
	r := newTestRepo(t)
	svc := &OrderService{Repo: r}
	ctx := context.Background()

	sellerS := createTestUser(t, r, "seller_s", models.RoleSeller)
	sellerX := createTestUser(t, r, "seller_x", models.RoleSeller)
	customer := createTestUser(t, r, "customer_c", models.RoleCustomer)

	p1 := createTestProduct(t, r, sellerS.ID, "p1", 10)
	createTestProduct(t, r, sellerS.ID, "p2", 99)
	p3 := createTestProduct(t, r, sellerX.ID, "p3", 5)

	order, err := svc.CreateOrder(ctx, customer.ID, transport.CreateOrderRequest{
		Items: []transport.CreateOrderItem{
			{ProductID: p1.ID, Quantity: 2},
			{ProductID: p3.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, float64(25), order.TotalAmount)
	assert.Equal(t, models.OrderStatusPending, order.OrderStatus)
	assert.Equal(t, models.PaymentStatusUnpaid, order.PaymentStatus)
	require.Len(t, order.Items, 2)
	assert.Equal(t, float64(10), order.Items[0].Price)
	assert.Equal(t, float64(5), order.Items[1].Price)

	// the response expands product references into display fields
	require.NotNil(t, order.Items[0].Product)
	assert.Equal(t, "p1", order.Items[0].Product.Name)

	// a later catalog price change must not leak into the stored snapshot
	require.NoError(t, r.DB.Model(&models.Product{}).Where("id = ?", p1.ID).Update("price", 1000).Error)
	stored, err := r.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(25), stored.TotalAmount)
	for _, item := range stored.Items {
		if item.ProductID == p1.ID {
			assert.Equal(t, float64(10), item.Price)
		}
	}
}

func TestCreateOrder_IgnoresClientPrices(t *testing.T) {
	r := newTestRepo(t)
	svc := &OrderService{Repo: r}

	seller := createTestUser(t, r, "seller", models.RoleSeller)
	customer := createTestUser(t, r, "customer", models.RoleCustomer)
	product := createTestProduct(t, r, seller.ID, "widget", 42)

	// the request DTO has no price field at all; quantity zero defaults to 1
	order, err := svc.CreateOrder(context.Background(), customer.ID, transport.CreateOrderRequest{
		Items: []transport.CreateOrderItem{{ProductID: product.ID}},
	})
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, uint(1), order.Items[0].Quantity)
	assert.Equal(t, float64(42), order.Items[0].Price)
	assert.Equal(t, float64(42), order.TotalAmount)
}

func TestCreateOrder_UnknownProductAbortsWholeOrder(t *testing.T) {
	r := newTestRepo(t)
	svc := &OrderService{Repo: r}

	seller := createTestUser(t, r, "seller", models.RoleSeller)
	customer := createTestUser(t, r, "customer", models.RoleCustomer)
	product := createTestProduct(t, r, seller.ID, "widget", 10)

	_, err := svc.CreateOrder(context.Background(), customer.ID, transport.CreateOrderRequest{
		Items: []transport.CreateOrderItem{
			{ProductID: product.ID, Quantity: 1},
			{ProductID: uuid.New(), Quantity: 1},
		},
	})
	require.ErrorIs(t, err, ErrNotFound)

	var orderCount, itemCount int64
	require.NoError(t, r.DB.Model(&models.Order{}).Count(&orderCount).Error)
	require.NoError(t, r.DB.Model(&models.OrderItem{}).Count(&itemCount).Error)
	assert.Zero(t, orderCount)
	assert.Zero(t, itemCount)
}

func TestCreateOrder_EmptyItems(t *testing.T) {
	r := newTestRepo(t)
	svc := &OrderService{Repo: r}

	customer := createTestUser(t, r, "customer", models.RoleCustomer)

	_, err := svc.CreateOrder(context.Background(), customer.ID, transport.CreateOrderRequest{})
	require.ErrorIs(t, err, ErrValidation)
}

func TestUpdateOrderStatus_SellerOfReferencedProduct(t *testing.T) {
	r := newTestRepo(t)
	svc := &OrderService{Repo: r}
	ctx := context.Background()

	seller := createTestUser(t, r, "seller", models.RoleSeller)
	customer := createTestUser(t, r, "customer", models.RoleCustomer)
	product := createTestProduct(t, r, seller.ID, "widget", 10)

	order, err := svc.CreateOrder(ctx, customer.ID, transport.CreateOrderRequest{
		Items: []transport.CreateOrderItem{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateOrderStatus(ctx, seller.ID, order.ID, models.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, updated.OrderStatus)

	// read-after-write: the customer listing reflects the new status
	listed, err := svc.ListOrdersByUser(ctx, customer.ID, customer.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, models.OrderStatusDelivered, listed[0].OrderStatus)
}

func TestUpdateOrderStatus_UnrelatedActorForbidden(t *testing.T) {
	r := newTestRepo(t)
	svc := &OrderService{Repo: r}
	ctx := context.Background()

	seller := createTestUser(t, r, "seller", models.RoleSeller)
	otherSeller := createTestUser(t, r, "other_seller", models.RoleSeller)
	customer := createTestUser(t, r, "customer", models.RoleCustomer)
	product := createTestProduct(t, r, seller.ID, "widget", 10)
	createTestProduct(t, r, otherSeller.ID, "gadget", 20)

	order, err := svc.CreateOrder(ctx, customer.ID, transport.CreateOrderRequest{
		Items: []transport.CreateOrderItem{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	// a seller with no product in the order may not touch its status
	_, err = svc.UpdateOrderStatus(ctx, otherSeller.ID, order.ID, models.OrderStatusCanceled)
	require.ErrorIs(t, err, ErrForbidden)

	// neither may the purchasing customer through the fulfillment path
	_, err = svc.UpdateOrderStatus(ctx, customer.ID, order.ID, models.OrderStatusCanceled)
	require.ErrorIs(t, err, ErrForbidden)

	stored, err := r.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, stored.OrderStatus)
}

func TestUpdateOrderStatus_RejectsUnknownStatus(t *testing.T) {
	r := newTestRepo(t)
	svc := &OrderService{Repo: r}

	_, err := svc.UpdateOrderStatus(context.Background(), uuid.New(), uuid.New(), "shipped-ish")
	require.ErrorIs(t, err, ErrValidation)
}

func TestUpdateOrderStatus_NotFound(t *testing.T) {
	r := newTestRepo(t)
	svc := &OrderService{Repo: r}

	_, err := svc.UpdateOrderStatus(context.Background(), uuid.New(), uuid.New(), models.OrderStatusProcessing)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePaymentStatus(t *testing.T) {
	r := newTestRepo(t)
	svc := &OrderService{Repo: r}
	ctx := context.Background()

	seller := createTestUser(t, r, "seller", models.RoleSeller)
	customer := createTestUser(t, r, "customer", models.RoleCustomer)
	product := createTestProduct(t, r, seller.ID, "widget", 10)

	order, err := svc.CreateOrder(ctx, customer.ID, transport.CreateOrderRequest{
		Items: []transport.CreateOrderItem{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	updated, err := svc.UpdatePaymentStatus(ctx, seller.ID, order.ID, models.PaymentStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, updated.PaymentStatus)

	_, err = svc.UpdatePaymentStatus(ctx, seller.ID, order.ID, "refunded")
	require.ErrorIs(t, err, ErrValidation)
}

func TestUpdateOrder_RecomputesTotalWhenItemsReplaced(t *testing.T) {
	r := newTestRepo(t)
	svc := &OrderService{Repo: r}
	ctx := context.Background()

	seller := createTestUser(t, r, "seller", models.RoleSeller)
	customer := createTestUser(t, r, "customer", models.RoleCustomer)
	p1 := createTestProduct(t, r, seller.ID, "p1", 10)
	p2 := createTestProduct(t, r, seller.ID, "p2", 7)

	order, err := svc.CreateOrder(ctx, customer.ID, transport.CreateOrderRequest{
		Items: []transport.CreateOrderItem{{ProductID: p1.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	bogusTotal := 1.0
	updated, err := svc.UpdateOrder(ctx, customer.ID, order.ID, transport.UpdateOrderRequest{
		Items: []transport.CreateOrderItem{
			{ProductID: p2.ID, Quantity: 3},
		},
		TotalAmount: &bogusTotal,
	})
	require.NoError(t, err)

	// the client-supplied total is ignored on the items path
	assert.Equal(t, float64(21), updated.TotalAmount)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, p2.ID, updated.Items[0].ProductID)
	assert.Equal(t, float64(7), updated.Items[0].Price)

	var itemCount int64
	require.NoError(t, r.DB.Model(&models.OrderItem{}).Count(&itemCount).Error)
	assert.EqualValues(t, 1, itemCount)
}

func TestUpdateOrder_PartialFieldsOnly(t *testing.T) {
	r := newTestRepo(t)
	svc := &OrderService{Repo: r}
	ctx := context.Background()

	seller := createTestUser(t, r, "seller", models.RoleSeller)
	customer := createTestUser(t, r, "customer", models.RoleCustomer)
	product := createTestProduct(t, r, seller.ID, "widget", 10)

	order, err := svc.CreateOrder(ctx, customer.ID, transport.CreateOrderRequest{
		Items:           []transport.CreateOrderItem{{ProductID: product.ID, Quantity: 2}},
		ShippingAddress: models.ShippingAddress{City: "Riga"},
	})
	require.NoError(t, err)

	paid := models.PaymentStatusPaid
	updated, err := svc.UpdateOrder(ctx, customer.ID, order.ID, transport.UpdateOrderRequest{
		PaymentStatus: &paid,
	})
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusPaid, updated.PaymentStatus)
	// untouched fields survive the patch
	assert.Equal(t, "Riga", updated.ShippingAddress.City)
	assert.Equal(t, float64(20), updated.TotalAmount)
	require.Len(t, updated.Items, 1)
}

func TestUpdateOrder_NonOwnerForbidden(t *testing.T) {
	r := newTestRepo(t)
	svc := &OrderService{Repo: r}
	ctx := context.Background()

	seller := createTestUser(t, r, "seller", models.RoleSeller)
	customer := createTestUser(t, r, "customer_1", models.RoleCustomer)
	intruder := createTestUser(t, r, "customer_2", models.RoleCustomer)
	product := createTestProduct(t, r, seller.ID, "widget", 10)

	order, err := svc.CreateOrder(ctx, customer.ID, transport.CreateOrderRequest{
		Items: []transport.CreateOrderItem{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	status := models.OrderStatusCanceled
	_, err = svc.UpdateOrder(ctx, intruder.ID, order.ID, transport.UpdateOrderRequest{
		OrderStatus: &status,
	})
	require.ErrorIs(t, err, ErrForbidden)

	stored, err := r.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, stored.OrderStatus)
}

func TestUpdateOrder_NotFound(t *testing.T) {
	r := newTestRepo(t)
	svc := &OrderService{Repo: r}

	_, err := svc.UpdateOrder(context.Background(), uuid.New(), uuid.New(), transport.UpdateOrderRequest{})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteOrder(t *testing.T) {
	r := newTestRepo(t)
	svc := &OrderService{Repo: r}
	ctx := context.Background()

	seller := createTestUser(t, r, "seller", models.RoleSeller)
	customer := createTestUser(t, r, "customer_1", models.RoleCustomer)
	intruder := createTestUser(t, r, "customer_2", models.RoleCustomer)
	product := createTestProduct(t, r, seller.ID, "widget", 10)

	order, err := svc.CreateOrder(ctx, customer.ID, transport.CreateOrderRequest{
		Items: []transport.CreateOrderItem{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	err = svc.DeleteOrder(ctx, intruder.ID, order.ID)
	require.ErrorIs(t, err, ErrForbidden)

	// still retrievable after the forbidden attempt
	_, err = r.GetOrder(ctx, order.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOrder(ctx, customer.ID, order.ID))

	err = svc.DeleteOrder(ctx, customer.ID, order.ID)
	require.ErrorIs(t, err, ErrNotFound)

	var itemCount int64
	require.NoError(t, r.DB.Model(&models.OrderItem{}).Count(&itemCount).Error)
	assert.Zero(t, itemCount)
}

func TestListOrdersByUser_OtherCustomerForbidden(t *testing.T) {
	r := newTestRepo(t)
	svc := &OrderService{Repo: r}

	customer := createTestUser(t, r, "customer_1", models.RoleCustomer)
	other := createTestUser(t, r, "customer_2", models.RoleCustomer)

	_, err := svc.ListOrdersByUser(context.Background(), other.ID, customer.ID)
	require.ErrorIs(t, err, ErrForbidden)
}
