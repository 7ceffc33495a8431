package model

import "time"

// Quotation statuses.
const (
	QuotationPendingReview = "Pending Review"
	QuotationSent          = "Sent"
	QuotationApproved      = "Approved"
	QuotationRejected      = "Rejected"
)

// ValidQuotationStatus reports whether s is a recognized quotation status.
func ValidQuotationStatus(s string) bool {
	switch s {
	case QuotationPendingReview, QuotationSent, QuotationApproved, QuotationRejected:
		return true
	}
	return false
}

// Quotation is a priced estimate for a prospective job, pending approval.
type Quotation struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	QuoteID        string    `gorm:"size:16;uniqueIndex;not null" json:"quote_id"`
	CustomerName   string    `gorm:"size:128;not null" json:"customer_name"`
	CustomerEmail  string    `gorm:"size:256;not null" json:"customer_email"`
	CustomerPhone  string    `gorm:"size:32" json:"customer_phone"`
	ServiceType    string    `gorm:"size:64;not null" json:"service_type"`
	Material       string    `gorm:"size:128;not null" json:"material"`
	Quantity       int       `gorm:"not null" json:"quantity"`
	EstimatedPrice float64   `gorm:"not null" json:"estimated_price"`
	DeliveryTime   string    `gorm:"size:32;not null" json:"delivery_time"`
	Status         string    `gorm:"size:32;not null;default:'Pending Review';index" json:"status"`
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Associations
	Files []QuoteFile `gorm:"foreignKey:QuotationID;constraint:OnDelete:CASCADE" json:"files,omitempty"`
}

// QuoteFile is a file uploaded with a quotation request.
type QuoteFile struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	QuotationID  uint      `gorm:"index;not null" json:"quotation_id"`
	Filename     string    `gorm:"size:256;not null" json:"filename"`
	OriginalName string    `gorm:"size:256;not null" json:"original_name"`
	FilePath     string    `gorm:"size:512;not null" json:"file_path"`
	FileSize     int64     `gorm:"not null" json:"file_size"`
	MimeType     string    `gorm:"size:128" json:"mime_type"`
	CreatedAt    time.Time `json:"created_at"`
}
