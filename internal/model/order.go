package model

import "time"

// Order statuses.
const (
	OrderPending    = "Pending"
	OrderInProgress = "In Progress"
	OrderCompleted  = "Completed"
	OrderShipped    = "Shipped"
	OrderCancelled  = "Cancelled"
)

// ValidOrderStatus reports whether s is a recognized order status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderInProgress, OrderCompleted, OrderShipped, OrderCancelled:
		return true
	}
	return false
}

// Order is a confirmed, trackable job created from an approved quotation.
// Customer and service fields are duplicated from the source quotation at
// conversion time so later quotation edits cannot change the order.
type Order struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	OrderID       string     `gorm:"size:16;uniqueIndex;not null" json:"order_id"`
	QuotationID   *uint      `gorm:"index" json:"quotation_id"`
	CustomerName  string     `gorm:"size:128;not null" json:"customer_name"`
	CustomerEmail string     `gorm:"size:256;not null" json:"customer_email"`
	CustomerPhone string     `gorm:"size:32" json:"customer_phone"`
	ServiceType   string     `gorm:"size:64;not null" json:"service_type"`
	Material      string     `gorm:"size:128;not null" json:"material"`
	Quantity      int        `gorm:"not null" json:"quantity"`
	TotalAmount   float64    `gorm:"not null" json:"total_amount"`
	Status        string     `gorm:"size:32;not null;default:'Pending';index" json:"status"`
	Progress      int        `gorm:"not null;default:0" json:"progress"`
	Deadline      *time.Time `json:"deadline"`
	Notes         string     `json:"notes"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Associations
	Files []OrderFile `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"files,omitempty"`
}

// OrderFile is a point-in-time copy of a quotation file made at conversion.
type OrderFile struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	OrderID      uint      `gorm:"index;not null" json:"order_id"`
	Filename     string    `gorm:"size:256;not null" json:"filename"`
	OriginalName string    `gorm:"size:256;not null" json:"original_name"`
	FilePath     string    `gorm:"size:512;not null" json:"file_path"`
	FileSize     int64     `gorm:"not null" json:"file_size"`
	MimeType     string    `gorm:"size:128" json:"mime_type"`
	CreatedAt    time.Time `json:"created_at"`
}
