package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Product struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Price       float64         `gorm:"not null" json:"price"`
	Description string          `gorm:"type:text" json:"description"`
	Category    string          `gorm:"type:varchar(100)" json:"category"`
	Stock       int             `gorm:"default:0" json:"stock"`
	IsAvailable bool            `gorm:"default:true" json:"is_available"`
	Ratings     pq.Float64Array `gorm:"type:float8[]" json:"ratings,omitempty"`
	ImageURL    string          `json:"image_url"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	OrderItems []OrderItem `gorm:"foreignKey:ProductID" json:"-"`
	CartItems  []CartItem  `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}
