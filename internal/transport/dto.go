package transport

import (
	"time"

	"github.com/google/uuid"

	"github.com/ovolkov/marketplace/internal/models"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

type CreateProductRequest struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	Rating      float64 `json:"rating"`
	Description string  `json:"description"`
}

// UpdateProductRequest keeps the original merge rule: empty fields leave the
// stored value untouched.
type UpdateProductRequest struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	Rating      float64 `json:"rating"`
	Description string  `json:"description"`
}

type CreateOrderItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  uint      `json:"quantity"`
}

type CreateOrderRequest struct {
	Items           []CreateOrderItem      `json:"items"`
	ShippingAddress models.ShippingAddress `json:"shipping_address"`
}

// UpdateOrderRequest carries PATCH semantics: nil fields are left untouched.
// TotalAmount is honored only when Items is absent; an items replacement
// always recomputes the total from fresh price snapshots.
type UpdateOrderRequest struct {
	Items           []CreateOrderItem       `json:"items"`
	ShippingAddress *models.ShippingAddress `json:"shipping_address"`
	TotalAmount     *float64                `json:"total_amount"`
	OrderStatus     *string                 `json:"order_status"`
	PaymentStatus   *string                 `json:"payment_status"`
}

type UpdateStatusRequest struct {
	OrderStatus string `json:"order_status"`
}

type UpdatePaymentRequest struct {
	PaymentStatus string `json:"payment_status"`
}

type UserView struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  string    `json:"role,omitempty"`
}

type ProductView struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Price float64   `json:"price"`
	Image string    `json:"image"`
}

type OrderItemView struct {
	ProductID uuid.UUID    `json:"product_id"`
	Quantity  uint         `json:"quantity"`
	Price     float64      `json:"price"`
	Product   *ProductView `json:"product,omitempty"`
}

type OrderView struct {
	ID              uuid.UUID               `json:"id"`
	Customer        *UserView               `json:"customer,omitempty"`
	Items           []OrderItemView         `json:"items"`
	ShippingAddress models.ShippingAddress  `json:"shipping_address"`
	TotalAmount     float64                 `json:"total_amount"`
	OrderStatus     string                  `json:"order_status"`
	PaymentStatus   string                  `json:"payment_status"`
	CreatedAt       time.Time               `json:"created_at"`
}

type ProductOrdersResponse struct {
	Product models.Product `json:"product"`
	Orders  []OrderView    `json:"orders"`
}

func NewUserView(u *models.User) *UserView {
	if u == nil {
		return nil
	}
	return &UserView{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// NewOrderView expands the order's reference fields into display projections.
// Products or the customer missing from the maps stay unexpanded; the stored
// snapshot data is returned either way.
func NewOrderView(order *models.Order, customers map[uuid.UUID]models.User, products map[uuid.UUID]models.Product) OrderView {
	view := OrderView{
		ID:              order.ID,
		Items:           make([]OrderItemView, 0, len(order.Items)),
		ShippingAddress: order.ShippingAddress,
		TotalAmount:     order.TotalAmount,
		OrderStatus:     order.OrderStatus,
		PaymentStatus:   order.PaymentStatus,
		CreatedAt:       order.CreatedAt,
	}
	if c, ok := customers[order.UserID]; ok {
		view.Customer = &UserView{ID: c.ID, Name: c.Name, Email: c.Email}
	}
	for _, item := range order.Items {
		iv := OrderItemView{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
		if p, ok := products[item.ProductID]; ok {
			iv.Product = &ProductView{ID: p.ID, Name: p.Name, Price: p.Price, Image: p.Image}
		}
		view.Items = append(view.Items, iv)
	}
	return view
}
