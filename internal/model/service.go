package model

import "time"

// Service categories offered by the shop.
const (
	Category3DPrinting   = "3D Printing"
	CategoryLaserCutting = "Laser Cutting"
)

// Service is a priced (category, material) offering used to price quotations.
type Service struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:128;not null" json:"name"`
	Category    string    `gorm:"size:64;not null;index" json:"category"`
	Material    string    `gorm:"size:128;not null" json:"material"`
	Price       float64   `gorm:"not null" json:"price"`
	Unit        string    `gorm:"size:32;not null" json:"unit"`
	Description string    `json:"description"`
	Active      bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ValidCategory reports whether c is one of the two known service categories.
func ValidCategory(c string) bool {
	return c == Category3DPrinting || c == CategoryLaserCutting
}
