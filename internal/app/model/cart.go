package model

import (
	"time"
)

type CartStatus string

const (
	CartStatusActive    CartStatus = "active"
	CartStatusOrdered   CartStatus = "ordered"
	CartStatusCancelled CartStatus = "cancelled"
)

// Cart is the single pending basket a user owns. The unique index on
// user_id guarantees at most one cart per user; carts are hard-deleted
// so tombstones never collide with that constraint.
type Cart struct {
	ID         uint       `gorm:"primarykey" json:"id"`
	UserID     uint       `gorm:"not null;uniqueIndex" json:"user_id"`
	Items      []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	TotalPrice float64    `gorm:"not null;default:0" json:"total_price"`
	Status     CartStatus `gorm:"type:varchar(20);default:'active'" json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Cart) TableName() string {
	return "carts"
}

// CartItem carries the unit price captured when the item was added,
// independent of later catalog price changes.
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CartID    uint      `gorm:"not null;index" json:"-"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Price     float64   `gorm:"not null" json:"price"`
	CreatedAt time.Time `json:"created_at"`

	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
