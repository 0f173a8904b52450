package model

import (
	"time"

	"gorm.io/gorm"
)

// Order is the orders table row. Rows are never hard-deleted, only
// soft-deleted via deleted_at.
type Order struct {
	ID string `gorm:"primaryKey;column:order_id"`

	CustomerName    string `gorm:"column:customer_name"`
	CustomerSurname string `gorm:"column:customer_surname"`
	CustomerEmail   string `gorm:"column:customer_email;index"`
	CustomerPhone   string `gorm:"column:customer_phone"`
	CustomerType    string `gorm:"column:customer_type;default:'individual'"`
	CustomerAddress string `gorm:"column:customer_address"`
	CustomerCity    string `gorm:"column:customer_city"`
	TaxID           string `gorm:"column:tax_id"`
	TaxOffice       string `gorm:"column:tax_office"`
	CompanyName     string `gorm:"column:company_name"`

	PackageType string  `gorm:"column:package_type"`
	PackageName string  `gorm:"column:package_name"`
	Amount      float64 `gorm:"column:amount"`
	Currency    string  `gorm:"column:currency;default:'TRY'"`

	Status        string `gorm:"column:status"`         // pending, approved, cancelled, failed
	PaymentMethod string `gorm:"column:payment_method"` // card-subscription, bank-transfer

	// Unique among non-deleted rows, the webhook join key.
	PaymentTransactionID string `gorm:"column:payment_transaction_id;index"`

	InvoiceSent   bool       `gorm:"column:invoice_sent;default:false"`
	InvoiceNumber string     `gorm:"column:invoice_number"`
	InvoiceDate   *time.Time `gorm:"column:invoice_date"`

	IsFirstOrder       bool `gorm:"column:is_first_order;default:true"`
	ContractEmailsSent bool `gorm:"column:contract_emails_sent;default:false"`

	CreatedAt  time.Time      `gorm:"column:created_at"`
	ApprovedAt *time.Time     `gorm:"column:approved_at"`
	DeletedAt  gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Order) TableName() string { return "orders" }
