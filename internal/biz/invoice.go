package biz

import (
	"context"
	"time"

	"github.com/generatorhealthy/selam-web-yapim-merkezi-sub005/internal/errors"

	pkgErrors "github.com/gaoyong06/go-pkg/errors"
)

// RecordInvoice applies the invoicing service's callback: invoice metadata
// is written at most once per order, a repeated callback for the same order
// is an idempotent no-op.
func (uc *OrderUsecase) RecordInvoice(ctx context.Context, orderID, invoiceNumber string, invoiceDate time.Time) error {
	uc.log.Infof("RecordInvoice: orderID=%s, number=%s", orderID, invoiceNumber)

	order, err := uc.orderRepo.GetOrder(ctx, orderID)
	if err != nil {
		uc.log.Errorf("Failed to get order %s: %v", orderID, err)
		return pkgErrors.NewBizErrorWithLang(ctx, errors.ErrCodeOrderNotFound)
	}
	if order == nil {
		return pkgErrors.NewBizErrorWithLang(ctx, errors.ErrCodeOrderNotFound)
	}

	written, err := uc.orderRepo.SetInvoiceMeta(ctx, orderID, invoiceNumber, invoiceDate)
	if err != nil {
		uc.log.Errorf("Failed to set invoice metadata for order %s: %v", orderID, err)
		return err
	}
	if !written {
		uc.log.Infof("Invoice metadata for order %s already recorded, skipping", orderID)
		return nil
	}
	uc.log.Infof("Invoice %s recorded for order %s", invoiceNumber, orderID)

	// The notification is fire-and-forget: the invoicing service already
	// holds the invoice, a failed email must not fail the callback.
	msg := &InvoiceEmail{
		CustomerEmail: order.CustomerEmail,
		CustomerName:  order.CustomerName + " " + order.CustomerSurname,
		InvoiceNumber: invoiceNumber,
		OrderID:       order.ID,
		Amount:        order.Amount,
	}
	if err := uc.email.SendInvoiceEmail(ctx, msg); err != nil {
		uc.log.Errorf("Failed to send invoice email for order %s: %v", orderID, err)
	}
	return nil
}
