package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// UserAddress is the optional mailing address embedded in a user record.
type UserAddress struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
}

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	Age          int            `gorm:"not null" json:"age"`
	PasswordHash string         `gorm:"not null" json:"-"` // bcrypt, never serialized
	Address      UserAddress    `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	Role         UserRole       `gorm:"type:varchar(20);default:'user'" json:"role"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	Hobbies      pq.StringArray `gorm:"type:text[]" json:"hobbies,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Orders []Order `gorm:"foreignKey:UserID" json:"-"`
	Cart   *Cart   `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}
