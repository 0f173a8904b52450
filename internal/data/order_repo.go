package data

import (
	"context"
	"errors"
	"time"

	"github.com/generatorhealthy/selam-web-yapim-merkezi-sub005/internal/biz"
	"github.com/generatorhealthy/selam-web-yapim-merkezi-sub005/internal/constants"
	"github.com/generatorhealthy/selam-web-yapim-merkezi-sub005/internal/data/model"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
)

// orderRepo is the order store implementation
type orderRepo struct {
	data *Data
	log  *log.Helper
}

// NewOrderRepo creates the order store
func NewOrderRepo(data *Data, logger log.Logger) biz.OrderRepo {
	return &orderRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func toBizOrder(m *model.Order) *biz.Order {
	return &biz.Order{
		ID:                   m.ID,
		CustomerName:         m.CustomerName,
		CustomerSurname:      m.CustomerSurname,
		CustomerEmail:        m.CustomerEmail,
		CustomerPhone:        m.CustomerPhone,
		CustomerType:         m.CustomerType,
		CustomerAddress:      m.CustomerAddress,
		CustomerCity:         m.CustomerCity,
		TaxID:                m.TaxID,
		TaxOffice:            m.TaxOffice,
		CompanyName:          m.CompanyName,
		PackageType:          m.PackageType,
		PackageName:          m.PackageName,
		Amount:               m.Amount,
		Currency:             m.Currency,
		Status:               m.Status,
		PaymentMethod:        m.PaymentMethod,
		PaymentTransactionID: m.PaymentTransactionID,
		InvoiceSent:          m.InvoiceSent,
		InvoiceNumber:        m.InvoiceNumber,
		InvoiceDate:          m.InvoiceDate,
		IsFirstOrder:         m.IsFirstOrder,
		ContractEmailsSent:   m.ContractEmailsSent,
		CreatedAt:            m.CreatedAt,
		ApprovedAt:           m.ApprovedAt,
	}
}

func toModelOrder(o *biz.Order) *model.Order {
	return &model.Order{
		ID:                   o.ID,
		CustomerName:         o.CustomerName,
		CustomerSurname:      o.CustomerSurname,
		CustomerEmail:        o.CustomerEmail,
		CustomerPhone:        o.CustomerPhone,
		CustomerType:         o.CustomerType,
		CustomerAddress:      o.CustomerAddress,
		CustomerCity:         o.CustomerCity,
		TaxID:                o.TaxID,
		TaxOffice:            o.TaxOffice,
		CompanyName:          o.CompanyName,
		PackageType:          o.PackageType,
		PackageName:          o.PackageName,
		Amount:               o.Amount,
		Currency:             o.Currency,
		Status:               o.Status,
		PaymentMethod:        o.PaymentMethod,
		PaymentTransactionID: o.PaymentTransactionID,
		InvoiceSent:          o.InvoiceSent,
		InvoiceNumber:        o.InvoiceNumber,
		InvoiceDate:          o.InvoiceDate,
		IsFirstOrder:         o.IsFirstOrder,
		ContractEmailsSent:   o.ContractEmailsSent,
		CreatedAt:            o.CreatedAt,
		ApprovedAt:           o.ApprovedAt,
	}
}

// CreateOrder inserts one order row
func (r *orderRepo) CreateOrder(ctx context.Context, order *biz.Order) error {
	if err := r.data.DB(ctx).Create(toModelOrder(order)).Error; err != nil {
		r.log.Errorf("Failed to create order %s: %v", order.ID, err)
		return err
	}
	return nil
}

// GetOrder returns an order by id, nil when absent
func (r *orderRepo) GetOrder(ctx context.Context, orderID string) (*biz.Order, error) {
	var m model.Order
	if err := r.data.DB(ctx).First(&m, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.log.Errorf("Failed to get order %s: %v", orderID, err)
		return nil, err
	}
	return toBizOrder(&m), nil
}

// GetOrderByPaymentToken locates the order the webhook refers to. Soft
// deleted rows are excluded by gorm automatically.
func (r *orderRepo) GetOrderByPaymentToken(ctx context.Context, token string) (*biz.Order, error) {
	var m model.Order
	if err := r.data.DB(ctx).First(&m, "payment_transaction_id = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.log.Errorf("Failed to get order by token %s: %v", token, err)
		return nil, err
	}
	return toBizOrder(&m), nil
}

// SetPaymentTransactionID stores the gateway token once. The guard keeps an
// already set token from being overwritten.
func (r *orderRepo) SetPaymentTransactionID(ctx context.Context, orderID, token string) error {
	res := r.data.DB(ctx).Model(&model.Order{}).
		Where("order_id = ? AND (payment_transaction_id IS NULL OR payment_transaction_id = '')", orderID).
		Update("payment_transaction_id", token)
	if res.Error != nil {
		r.log.Errorf("Failed to set payment token for order %s: %v", orderID, res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		r.log.Warnf("Payment token for order %s was already set", orderID)
	}
	return nil
}

// UpdateStatus moves an order to the given status
func (r *orderRepo) UpdateStatus(ctx context.Context, orderID, status string) error {
	if err := r.data.DB(ctx).Model(&model.Order{}).
		Where("order_id = ?", orderID).
		Update("status", status).Error; err != nil {
		r.log.Errorf("Failed to update order %s to %s: %v", orderID, status, err)
		return err
	}
	return nil
}

// ClaimActivation is the single conditional update serializing concurrent
// ACTIVE deliveries: the affected-row count decides the winner.
func (r *orderRepo) ClaimActivation(ctx context.Context, orderID string, approvedAt time.Time) (bool, error) {
	res := r.data.DB(ctx).Model(&model.Order{}).
		Where("order_id = ? AND contract_emails_sent = ?", orderID, false).
		Updates(map[string]interface{}{
			"status":               constants.OrderStatusApproved,
			"approved_at":          approvedAt,
			"contract_emails_sent": true,
		})
	if res.Error != nil {
		r.log.Errorf("Failed to claim activation for order %s: %v", orderID, res.Error)
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// SetInvoiceMeta records invoice metadata once, same affected-rows pattern.
func (r *orderRepo) SetInvoiceMeta(ctx context.Context, orderID, invoiceNumber string, invoiceDate time.Time) (bool, error) {
	res := r.data.DB(ctx).Model(&model.Order{}).
		Where("order_id = ? AND invoice_sent = ?", orderID, false).
		Updates(map[string]interface{}{
			"invoice_sent":   true,
			"invoice_number": invoiceNumber,
			"invoice_date":   invoiceDate,
		})
	if res.Error != nil {
		r.log.Errorf("Failed to set invoice metadata for order %s: %v", orderID, res.Error)
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ListBankTransferOrdersCreatedOn returns the bank-transfer orders created
// on the given calendar day.
func (r *orderRepo) ListBankTransferOrdersCreatedOn(ctx context.Context, day time.Time) ([]*biz.Order, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	var models []model.Order
	if err := r.data.DB(ctx).
		Where("payment_method = ? AND created_at >= ? AND created_at < ?",
			constants.PaymentMethodBankTransfer, start, end).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		r.log.Errorf("Failed to list bank-transfer orders for %s: %v", start.Format("2006-01-02"), err)
		return nil, err
	}

	orders := make([]*biz.Order, len(models))
	for i := range models {
		orders[i] = toBizOrder(&models[i])
	}
	return orders, nil
}
