package biz

import (
	"context"
	"testing"
	"time"

	"github.com/generatorhealthy/selam-web-yapim-merkezi-sub005/internal/constants"
)

func pendingOrder(id, token string) *Order {
	return &Order{
		ID:                   id,
		CustomerName:         "Mehmet",
		CustomerSurname:      "Demir",
		CustomerEmail:        "mehmet.demir@example.com",
		CustomerPhone:        "5321234567",
		PackageType:          "standard_paket",
		PackageName:          "Doktorum Ol Standard Paket",
		Amount:               2998,
		Currency:             constants.CurrencyTRY,
		Status:               constants.OrderStatusPending,
		PaymentMethod:        constants.PaymentMethodCardSubscription,
		PaymentTransactionID: token,
		IsFirstOrder:         true,
		CreatedAt:            time.Now().UTC(),
	}
}

func TestHandlePaymentWebhook(t *testing.T) {
	ctx := context.Background()

	t.Run("missing token redirects to error", func(t *testing.T) {
		env := newTestEnv()
		kind, err := env.uc.HandlePaymentWebhook(ctx, &WebhookInput{Status: constants.GatewayStatusActive})
		if err == nil {
			t.Fatalf("expected error for missing token")
		}
		if kind != RedirectError {
			t.Fatalf("redirect = %v, want RedirectError", kind)
		}
	})

	t.Run("unknown token redirects to error without writes", func(t *testing.T) {
		env := newTestEnv()
		kind, err := env.uc.HandlePaymentWebhook(ctx, &WebhookInput{Token: "nope", Status: constants.GatewayStatusActive})
		if err == nil {
			t.Fatalf("expected error for unknown token")
		}
		if kind != RedirectError {
			t.Fatalf("redirect = %v, want RedirectError", kind)
		}
		if env.autoOrders.count() != 0 || env.email.sentCount() != 0 {
			t.Fatalf("expected no side effects")
		}
	})

	t.Run("ACTIVE approves first order and creates the schedule once", func(t *testing.T) {
		env := newTestEnv()
		env.orders.put(pendingOrder("ord-1", "tok-1"))

		kind, err := env.uc.HandlePaymentWebhook(ctx, &WebhookInput{Token: "tok-1", Status: constants.GatewayStatusActive})
		if err != nil {
			t.Fatalf("HandlePaymentWebhook: %v", err)
		}
		if kind != RedirectSuccess {
			t.Fatalf("redirect = %v, want RedirectSuccess", kind)
		}

		o := env.orders.get("ord-1")
		if o.Status != constants.OrderStatusApproved {
			t.Fatalf("status = %q, want approved", o.Status)
		}
		if o.ApprovedAt == nil {
			t.Fatalf("expected ApprovedAt to be set")
		}
		if !o.ContractEmailsSent {
			t.Fatalf("expected contract emails flag to be set")
		}

		if env.autoOrders.count() != 1 {
			t.Fatalf("automatic orders = %d, want 1", env.autoOrders.count())
		}
		ao := env.autoOrders.schedules[0]
		if len(ao.PaidMonths) != 1 || ao.PaidMonths[0] != 1 {
			t.Fatalf("paid months = %v, want [1]", ao.PaidMonths)
		}
		if ao.MonthlyPaymentDay != time.Now().UTC().Day() {
			t.Fatalf("monthly payment day = %d, want today's day", ao.MonthlyPaymentDay)
		}
		if ao.CustomerEmail != "mehmet.demir@example.com" {
			t.Fatalf("customer email = %q", ao.CustomerEmail)
		}

		if env.email.sentCount() != 1 {
			t.Fatalf("contract emails = %d, want 1", env.email.sentCount())
		}
	})

	t.Run("duplicate ACTIVE delivery is idempotent", func(t *testing.T) {
		env := newTestEnv()
		env.orders.put(pendingOrder("ord-1", "tok-1"))

		in := &WebhookInput{Token: "tok-1", Status: constants.GatewayStatusActive}
		if _, err := env.uc.HandlePaymentWebhook(ctx, in); err != nil {
			t.Fatalf("first delivery: %v", err)
		}
		kind, err := env.uc.HandlePaymentWebhook(ctx, in)
		if err != nil {
			t.Fatalf("second delivery: %v", err)
		}
		if kind != RedirectSuccess {
			t.Fatalf("redirect = %v, want RedirectSuccess", kind)
		}
		if env.autoOrders.count() != 1 {
			t.Fatalf("automatic orders = %d, want 1", env.autoOrders.count())
		}
		if env.email.sentCount() != 1 {
			t.Fatalf("contract emails = %d, want 1", env.email.sentCount())
		}
	})

	t.Run("ACTIVE on a non-first order creates no schedule", func(t *testing.T) {
		env := newTestEnv()
		o := pendingOrder("ord-2", "tok-2")
		o.IsFirstOrder = false
		o.PaymentMethod = constants.PaymentMethodBankTransfer
		env.orders.put(o)

		kind, err := env.uc.HandlePaymentWebhook(ctx, &WebhookInput{Token: "tok-2", Status: constants.GatewayStatusActive})
		if err != nil {
			t.Fatalf("HandlePaymentWebhook: %v", err)
		}
		if kind != RedirectSuccess {
			t.Fatalf("redirect = %v, want RedirectSuccess", kind)
		}
		if env.orders.get("ord-2").Status != constants.OrderStatusApproved {
			t.Fatalf("expected order approved")
		}
		if env.autoOrders.count() != 0 {
			t.Fatalf("automatic orders = %d, want 0", env.autoOrders.count())
		}
	})

	t.Run("PENDING is a no-op redirect to home", func(t *testing.T) {
		env := newTestEnv()
		env.orders.put(pendingOrder("ord-1", "tok-1"))

		kind, err := env.uc.HandlePaymentWebhook(ctx, &WebhookInput{Token: "tok-1", Status: constants.GatewayStatusPending})
		if err != nil {
			t.Fatalf("HandlePaymentWebhook: %v", err)
		}
		if kind != RedirectHome {
			t.Fatalf("redirect = %v, want RedirectHome", kind)
		}
		if env.orders.get("ord-1").Status != constants.OrderStatusPending {
			t.Fatalf("expected order to stay pending")
		}
	})

	t.Run("CANCELED cancels and redirects to error", func(t *testing.T) {
		env := newTestEnv()
		env.orders.put(pendingOrder("ord-1", "tok-1"))

		kind, err := env.uc.HandlePaymentWebhook(ctx, &WebhookInput{Token: "tok-1", Status: constants.GatewayStatusCanceled})
		if err != nil {
			t.Fatalf("HandlePaymentWebhook: %v", err)
		}
		if kind != RedirectError {
			t.Fatalf("redirect = %v, want RedirectError", kind)
		}
		if env.orders.get("ord-1").Status != constants.OrderStatusCancelled {
			t.Fatalf("status = %q, want cancelled", env.orders.get("ord-1").Status)
		}
		if env.autoOrders.count() != 0 || env.email.sentCount() != 0 {
			t.Fatalf("expected no activation side effects")
		}
	})

	t.Run("unrecognized status fails the order", func(t *testing.T) {
		env := newTestEnv()
		env.orders.put(pendingOrder("ord-1", "tok-1"))

		kind, err := env.uc.HandlePaymentWebhook(ctx, &WebhookInput{Token: "tok-1", Status: "UPGRADED"})
		if err != nil {
			t.Fatalf("HandlePaymentWebhook: %v", err)
		}
		if kind != RedirectError {
			t.Fatalf("redirect = %v, want RedirectError", kind)
		}
		if env.orders.get("ord-1").Status != constants.OrderStatusFailed {
			t.Fatalf("status = %q, want failed", env.orders.get("ord-1").Status)
		}
	})

	t.Run("terminal states never regress", func(t *testing.T) {
		env := newTestEnv()
		o := pendingOrder("ord-1", "tok-1")
		o.Status = constants.OrderStatusFailed
		env.orders.put(o)

		kind, err := env.uc.HandlePaymentWebhook(ctx, &WebhookInput{Token: "tok-1", Status: constants.GatewayStatusCanceled})
		if err != nil {
			t.Fatalf("HandlePaymentWebhook: %v", err)
		}
		if kind != RedirectError {
			t.Fatalf("redirect = %v, want RedirectError", kind)
		}
		if env.orders.get("ord-1").Status != constants.OrderStatusFailed {
			t.Fatalf("terminal status changed to %q", env.orders.get("ord-1").Status)
		}
	})

	t.Run("ACTIVE does not revive a cancelled order", func(t *testing.T) {
		env := newTestEnv()
		o := pendingOrder("ord-1", "tok-1")
		o.Status = constants.OrderStatusCancelled
		env.orders.put(o)

		_, err := env.uc.HandlePaymentWebhook(ctx, &WebhookInput{Token: "tok-1", Status: constants.GatewayStatusActive})
		if err != nil {
			t.Fatalf("HandlePaymentWebhook: %v", err)
		}
		if env.orders.get("ord-1").Status != constants.OrderStatusCancelled {
			t.Fatalf("cancelled order was revived to %q", env.orders.get("ord-1").Status)
		}
		if env.autoOrders.count() != 0 || env.email.sentCount() != 0 {
			t.Fatalf("expected no activation side effects")
		}
	})

	t.Run("schedule insert failure rolls back the claim effects", func(t *testing.T) {
		env := newTestEnv()
		env.orders.put(pendingOrder("ord-1", "tok-1"))
		env.autoOrders.createErr = context.DeadlineExceeded

		kind, err := env.uc.HandlePaymentWebhook(ctx, &WebhookInput{Token: "tok-1", Status: constants.GatewayStatusActive})
		if err == nil {
			t.Fatalf("expected error when schedule insert fails")
		}
		if kind != RedirectError {
			t.Fatalf("redirect = %v, want RedirectError", kind)
		}
		if env.email.sentCount() != 0 {
			t.Fatalf("contract email must not be sent on a failed activation")
		}
	})

	t.Run("contract email failure does not fail the webhook", func(t *testing.T) {
		env := newTestEnv()
		env.orders.put(pendingOrder("ord-1", "tok-1"))
		env.email.err = context.DeadlineExceeded

		kind, err := env.uc.HandlePaymentWebhook(ctx, &WebhookInput{Token: "tok-1", Status: constants.GatewayStatusActive})
		if err != nil {
			t.Fatalf("HandlePaymentWebhook: %v", err)
		}
		if kind != RedirectSuccess {
			t.Fatalf("redirect = %v, want RedirectSuccess", kind)
		}
		if env.orders.get("ord-1").Status != constants.OrderStatusApproved {
			t.Fatalf("expected order approved despite email failure")
		}
	})
}
