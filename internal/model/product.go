package model

import (
	"time"

	"gorm.io/gorm"
)

// Product represents a catalog product. Image, when set, names a file in the
// attachment store (stored as "<code>-<originalName>"). PresentationID is
// nullable: a product does not have to belong to a presentation.
type Product struct {
	ID             uint           `json:"id" gorm:"primarykey"`
	Name           string         `json:"name" gorm:"type:varchar(255);not null" validate:"required"`
	Description    string         `json:"description" gorm:"type:text"`
	Price          float64        `json:"price" gorm:"not null" validate:"required,gt=0"`
	Stock          int            `json:"stock" gorm:"default:0"`
	Image          *string        `json:"image,omitempty" gorm:"type:varchar(255)"`
	PresentationID *uint          `json:"presentation_id,omitempty"`
	Presentation   *Presentation  `json:"presentation,omitempty" gorm:"foreignKey:PresentationID"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// Presentation groups zero or more products (e.g. "1L bottle", "six pack").
type Presentation struct {
	ID          uint           `json:"id" gorm:"primarykey"`
	Name        string         `json:"name" gorm:"type:varchar(100);not null" validate:"required"`
	Description string         `json:"description" gorm:"type:text"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
