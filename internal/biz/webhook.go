package biz

import (
	"context"
	"time"

	"github.com/generatorhealthy/selam-web-yapim-merkezi-sub005/internal/constants"
	"github.com/generatorhealthy/selam-web-yapim-merkezi-sub005/internal/errors"

	pkgErrors "github.com/gaoyong06/go-pkg/errors"
)

// WebhookInput is the parsed form body of a gateway payment callback.
type WebhookInput struct {
	Token                     string
	Status                    string
	SubscriptionReferenceCode string
}

// RedirectKind tells the transport which of the three fixed destinations to
// answer the gateway with. The webhook never answers with an error body.
type RedirectKind int

const (
	RedirectSuccess RedirectKind = iota
	RedirectError
	RedirectHome
)

// mapGatewayStatus maps a gateway-reported subscription status to the
// internal order status and the redirect destination.
func mapGatewayStatus(status string) (string, RedirectKind) {
	switch status {
	case constants.GatewayStatusActive:
		return constants.OrderStatusApproved, RedirectSuccess
	case constants.GatewayStatusPending:
		return constants.OrderStatusPending, RedirectHome
	case constants.GatewayStatusInactive, constants.GatewayStatusCanceled:
		return constants.OrderStatusCancelled, RedirectError
	default:
		return constants.OrderStatusFailed, RedirectError
	}
}

// HandlePaymentWebhook applies one gateway callback to the order located by
// payment token. Gateways retry webhooks, so duplicate and concurrent
// deliveries of the same callback must stay idempotent: activation side
// effects are gated by an atomic conditional update on contract_emails_sent,
// never by a read-then-write check.
func (uc *OrderUsecase) HandlePaymentWebhook(ctx context.Context, in *WebhookInput) (RedirectKind, error) {
	if in.Token == "" {
		uc.log.Errorf("Payment webhook without token, status=%s", in.Status)
		return RedirectError, pkgErrors.NewBizErrorWithLang(ctx, errors.ErrCodeMissingToken)
	}
	uc.log.Infof("Payment webhook: token=%s, status=%s, ref=%s", in.Token, in.Status, in.SubscriptionReferenceCode)

	order, err := uc.orderRepo.GetOrderByPaymentToken(ctx, in.Token)
	if err != nil {
		uc.log.Errorf("Failed to look up order by token %s: %v", in.Token, err)
		return RedirectError, err
	}
	if order == nil {
		uc.log.Errorf("No order for payment token %s", in.Token)
		return RedirectError, pkgErrors.NewBizErrorWithLang(ctx, errors.ErrCodeOrderNotFound)
	}

	newStatus, redirect := mapGatewayStatus(in.Status)

	switch newStatus {
	case constants.OrderStatusPending:
		// PENDING is a no-op re-affirmation of the initial state
		return redirect, nil

	case constants.OrderStatusApproved:
		if err := uc.activateOrder(ctx, order); err != nil {
			return RedirectError, err
		}
		return redirect, nil

	default:
		// cancelled or failed
		if order.IsTerminal() {
			// Terminal states never regress; duplicate delivery is answered
			// with the same redirect and no write.
			uc.log.Infof("Order %s already %s, ignoring %s callback", order.ID, order.Status, in.Status)
			return redirect, nil
		}
		if err := uc.orderRepo.UpdateStatus(ctx, order.ID, newStatus); err != nil {
			uc.log.Errorf("Failed to update order %s to %s: %v", order.ID, newStatus, err)
			return RedirectError, err
		}
		uc.log.Infof("Order %s moved to %s", order.ID, newStatus)
		return redirect, nil
	}
}

// activateOrder performs the ACTIVE transition. The claim update decides a
// single winner among concurrent deliveries; only the winner creates the
// recurring schedule and dispatches the contract email.
func (uc *OrderUsecase) activateOrder(ctx context.Context, order *Order) error {
	if order.IsTerminal() && order.Status != constants.OrderStatusApproved {
		// An already cancelled/failed order is never revived.
		uc.log.Infof("Order %s is %s, ignoring ACTIVE callback", order.ID, order.Status)
		return nil
	}

	now := time.Now().UTC()
	claimed := false

	err := uc.withTransaction(ctx, func(ctx context.Context) error {
		won, err := uc.orderRepo.ClaimActivation(ctx, order.ID, now)
		if err != nil {
			return err
		}
		claimed = won
		if !won {
			return nil
		}
		if order.IsFirstOrder {
			ao := &AutomaticOrder{
				CustomerName:      order.CustomerName,
				CustomerSurname:   order.CustomerSurname,
				CustomerEmail:     order.CustomerEmail,
				CustomerPhone:     order.CustomerPhone,
				CustomerType:      order.CustomerType,
				CustomerAddress:   order.CustomerAddress,
				CustomerCity:      order.CustomerCity,
				TaxID:             order.TaxID,
				TaxOffice:         order.TaxOffice,
				CompanyName:       order.CompanyName,
				PackageType:       order.PackageType,
				PackageName:       order.PackageName,
				Amount:            order.Amount,
				Currency:          order.Currency,
				RegistrationDate:  now,
				MonthlyPaymentDay: now.Day(),
				PaidMonths:        []int{1},
				CreatedAt:         now,
			}
			if err := uc.autoRepo.CreateAutomaticOrder(ctx, ao); err != nil {
				// Rolls back the claim so a webhook retry can redo it.
				return err
			}
			uc.log.Infof("Created automatic order for %s (payment day %d)", order.CustomerEmail, ao.MonthlyPaymentDay)
		}
		return nil
	})
	if err != nil {
		uc.log.Errorf("Failed to activate order %s: %v", order.ID, err)
		return err
	}

	if !claimed {
		uc.log.Infof("Order %s already activated, idempotent ACTIVE callback", order.ID)
		return nil
	}
	uc.log.Infof("Order %s approved", order.ID)

	// Contract email dispatch is fire-and-forget: a provider failure is
	// logged, the webhook still answers success to the gateway.
	msg := &ContractEmail{
		CustomerEmail: order.CustomerEmail,
		CustomerName:  order.CustomerName + " " + order.CustomerSurname,
		PackageName:   order.PackageName,
		OrderID:       order.ID,
	}
	if err := uc.email.SendContractEmail(ctx, msg); err != nil {
		uc.log.Errorf("Failed to send contract email for order %s: %v", order.ID, err)
	}
	return nil
}
