package model

import (
	"time"

	"gorm.io/datatypes"
)

// AutomaticOrder is the automatic_orders table row: one recurring-billing
// schedule per subscribed customer.
type AutomaticOrder struct {
	ID uint64 `gorm:"primaryKey;column:automatic_order_id;autoIncrement"`

	CustomerName    string `gorm:"column:customer_name"`
	CustomerSurname string `gorm:"column:customer_surname"`
	CustomerEmail   string `gorm:"column:customer_email;uniqueIndex"`
	CustomerPhone   string `gorm:"column:customer_phone"`
	CustomerType    string `gorm:"column:customer_type"`
	CustomerAddress string `gorm:"column:customer_address"`
	CustomerCity    string `gorm:"column:customer_city"`
	TaxID           string `gorm:"column:tax_id"`
	TaxOffice       string `gorm:"column:tax_office"`
	CompanyName     string `gorm:"column:company_name"`

	PackageType string  `gorm:"column:package_type"`
	PackageName string  `gorm:"column:package_name"`
	Amount      float64 `gorm:"column:amount"`
	Currency    string  `gorm:"column:currency;default:'TRY'"`

	RegistrationDate  time.Time                `gorm:"column:registration_date"`
	MonthlyPaymentDay int                      `gorm:"column:monthly_payment_day;index"`
	PaidMonths        datatypes.JSONSlice[int] `gorm:"column:paid_months"`

	CreatedAt time.Time `gorm:"column:created_at"`
}

func (AutomaticOrder) TableName() string { return "automatic_orders" }
