package data

import (
	"context"
	"errors"
	"time"

	"github.com/generatorhealthy/selam-web-yapim-merkezi-sub005/internal/biz"
	"github.com/generatorhealthy/selam-web-yapim-merkezi-sub005/internal/data/model"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// automaticOrderRepo is the recurring-schedule store implementation
type automaticOrderRepo struct {
	data *Data
	log  *log.Helper
}

// NewAutomaticOrderRepo creates the recurring-schedule store
func NewAutomaticOrderRepo(data *Data, logger log.Logger) biz.AutomaticOrderRepo {
	return &automaticOrderRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

// CreateAutomaticOrder inserts one recurring schedule. The unique index on
// customer_email enforces the one-schedule-per-subscription invariant.
func (r *automaticOrderRepo) CreateAutomaticOrder(ctx context.Context, ao *biz.AutomaticOrder) error {
	m := &model.AutomaticOrder{
		CustomerName:      ao.CustomerName,
		CustomerSurname:   ao.CustomerSurname,
		CustomerEmail:     ao.CustomerEmail,
		CustomerPhone:     ao.CustomerPhone,
		CustomerType:      ao.CustomerType,
		CustomerAddress:   ao.CustomerAddress,
		CustomerCity:      ao.CustomerCity,
		TaxID:             ao.TaxID,
		TaxOffice:         ao.TaxOffice,
		CompanyName:       ao.CompanyName,
		PackageType:       ao.PackageType,
		PackageName:       ao.PackageName,
		Amount:            ao.Amount,
		Currency:          ao.Currency,
		RegistrationDate:  ao.RegistrationDate,
		MonthlyPaymentDay: ao.MonthlyPaymentDay,
		PaidMonths:        datatypes.NewJSONSlice(ao.PaidMonths),
		CreatedAt:         ao.CreatedAt,
	}
	if err := r.data.DB(ctx).Create(m).Error; err != nil {
		r.log.Errorf("Failed to create automatic order for %s: %v", ao.CustomerEmail, err)
		return err
	}
	ao.ID = m.ID
	return nil
}

// GetByCustomerEmail returns the schedule for a customer, nil when absent
func (r *automaticOrderRepo) GetByCustomerEmail(ctx context.Context, email string) (*biz.AutomaticOrder, error) {
	var m model.AutomaticOrder
	if err := r.data.DB(ctx).First(&m, "customer_email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.log.Errorf("Failed to get automatic order for %s: %v", email, err)
		return nil, err
	}
	return &biz.AutomaticOrder{
		ID:                m.ID,
		CustomerName:      m.CustomerName,
		CustomerSurname:   m.CustomerSurname,
		CustomerEmail:     m.CustomerEmail,
		CustomerPhone:     m.CustomerPhone,
		CustomerType:      m.CustomerType,
		CustomerAddress:   m.CustomerAddress,
		CustomerCity:      m.CustomerCity,
		TaxID:             m.TaxID,
		TaxOffice:         m.TaxOffice,
		CompanyName:       m.CompanyName,
		PackageType:       m.PackageType,
		PackageName:       m.PackageName,
		Amount:            m.Amount,
		Currency:          m.Currency,
		RegistrationDate:  m.RegistrationDate,
		MonthlyPaymentDay: m.MonthlyPaymentDay,
		PaidMonths:        []int(m.PaidMonths),
		CreatedAt:         m.CreatedAt,
	}, nil
}

// generateDueOrdersSQL materializes a pending bank-transfer order for every
// schedule whose payment day is today and whose current billing month is not
// yet in paid_months. The month number is counted from the registration
// date, so the first generated cycle is month 2 (month 1 was the checkout
// payment).
const generateDueOrdersSQL = `
INSERT INTO orders (
	order_id, customer_name, customer_surname, customer_email, customer_phone,
	customer_type, customer_address, customer_city, tax_id, tax_office, company_name,
	package_type, package_name, amount, currency,
	status, payment_method, is_first_order, contract_emails_sent, created_at
)
SELECT
	UUID(), ao.customer_name, ao.customer_surname, ao.customer_email, ao.customer_phone,
	ao.customer_type, ao.customer_address, ao.customer_city, ao.tax_id, ao.tax_office, ao.company_name,
	ao.package_type, ao.package_name, ao.amount, ao.currency,
	'pending', 'bank-transfer', 0, 0, ?
FROM automatic_orders ao
WHERE ao.monthly_payment_day = ?
  AND NOT JSON_CONTAINS(ao.paid_months, CAST(TIMESTAMPDIFF(MONTH, ao.registration_date, ?) + 1 AS JSON))
`

const markMonthPaidSQL = `
UPDATE automatic_orders ao
SET ao.paid_months = JSON_ARRAY_APPEND(ao.paid_months, '$', TIMESTAMPDIFF(MONTH, ao.registration_date, ?) + 1)
WHERE ao.monthly_payment_day = ?
  AND NOT JSON_CONTAINS(ao.paid_months, CAST(TIMESTAMPDIFF(MONTH, ao.registration_date, ?) + 1 AS JSON))
`

// GenerateDueOrders runs the bulk materialization for the given day inside
// one transaction. Idempotent per billing period: the paid_months guard in
// both statements keeps a re-run from inserting the same cycle twice.
func (r *automaticOrderRepo) GenerateDueOrders(ctx context.Context, day time.Time) (int, error) {
	dayOfMonth := day.Day()
	created := 0

	err := r.data.DB(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(generateDueOrdersSQL, day, dayOfMonth, day)
		if res.Error != nil {
			return res.Error
		}
		created = int(res.RowsAffected)

		if err := tx.Exec(markMonthPaidSQL, day, dayOfMonth, day).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		r.log.Errorf("Failed to generate due orders for day %d: %v", dayOfMonth, err)
		return 0, err
	}
	return created, nil
}
