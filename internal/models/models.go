package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleCustomer = "customer"
	RoleSeller   = "seller"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusDelivered  = "delivered"
	OrderStatusCanceled   = "canceled"
)

const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
)

func ValidRole(s string) bool {
	return s == RoleCustomer || s == RoleSeller
}

func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusDelivered, OrderStatusCanceled:
		return true
	}
	return false
}

func ValidPaymentStatus(s string) bool {
	return s == PaymentStatusUnpaid || s == PaymentStatusPaid
}

type User struct {
	ID           uuid.UUID `gorm:"primaryKey"       json:"id"`
	Name         string    `gorm:"not null"         json:"name"`
	Email        string    `gorm:"unique;not null"  json:"email"`
	PasswordHash string    `gorm:"not null"         json:"-"`
	Role         string    `gorm:"not null"         json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type Product struct {
	ID          uuid.UUID `gorm:"primaryKey"      json:"id"`
	Name        string    `gorm:"not null"        json:"name"`
	Price       float64   `gorm:"not null"        json:"price"`
	Image       string    `gorm:"not null"        json:"image"`
	Category    string    `gorm:"not null"        json:"category"`
	Rating      float64   `gorm:"default:0"       json:"rating"`
	Description string    `json:"description"`
	SellerID    uuid.UUID `gorm:"index;not null"  json:"seller_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type ShippingAddress struct {
	FullName   string `json:"full_name"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

type Order struct {
	ID              uuid.UUID       `gorm:"primaryKey"                        json:"id"`
	UserID          uuid.UUID       `gorm:"index;not null"                    json:"user_id"`
	Items           []OrderItem     `gorm:"constraint:OnDelete:CASCADE"       json:"items"`
	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`
	TotalAmount     float64         `gorm:"not null"                          json:"total_amount"`
	OrderStatus     string          `gorm:"not null;default:pending"          json:"order_status"`
	PaymentStatus   string          `gorm:"not null;default:unpaid"           json:"payment_status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderItem holds a snapshot of the product price taken when the order was
// created. It does not track later catalog price changes.
type OrderItem struct {
	ID        uuid.UUID `gorm:"primaryKey"                  json:"id"`
	OrderID   uuid.UUID `gorm:"index;not null"              json:"order_id"`
	ProductID uuid.UUID `gorm:"index;not null"              json:"product_id"`
	Quantity  uint      `gorm:"default:1;check:quantity>0"  json:"quantity"`
	Price     float64   `gorm:"not null"                    json:"price"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
