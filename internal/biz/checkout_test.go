package biz

import (
	"context"
	"fmt"
	"testing"

	"github.com/generatorhealthy/selam-web-yapim-merkezi-sub005/internal/constants"
)

func validCustomer() *CustomerData {
	return &CustomerData{
		Name:    "Ayse",
		Surname: "Yilmaz",
		Email:   "ayse.yilmaz@example.com",
		Phone:   "0532 123 45 67",
		Address: "Bagdat Cad. 1",
		City:    "Istanbul",
	}
}

func TestInitializeSubscription(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown package creates nothing", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.uc.InitializeSubscription(ctx, "gold_paket", validCustomer())
		if err == nil {
			t.Fatalf("expected error for unknown package")
		}
		if env.orders.count() != 0 {
			t.Fatalf("expected no order rows, got %d", env.orders.count())
		}
		if env.gateway.callCount() != 0 {
			t.Fatalf("expected no gateway calls, got %d", env.gateway.callCount())
		}
	})

	t.Run("invalid customer creates nothing", func(t *testing.T) {
		env := newTestEnv()
		customer := validCustomer()
		customer.Email = ""
		_, err := env.uc.InitializeSubscription(ctx, "standard_paket", customer)
		if err == nil {
			t.Fatalf("expected error for invalid customer")
		}
		if env.orders.count() != 0 {
			t.Fatalf("expected no order rows, got %d", env.orders.count())
		}
	})

	t.Run("success creates pending order and returns form", func(t *testing.T) {
		env := newTestEnv()
		res, err := env.uc.InitializeSubscription(ctx, "standard_paket", validCustomer())
		if err != nil {
			t.Fatalf("InitializeSubscription: %v", err)
		}
		if res.Token != "tok-1" {
			t.Fatalf("token = %q, want tok-1", res.Token)
		}
		if res.CheckoutFormContent == "" {
			t.Fatalf("expected checkout form content")
		}

		stored := env.orders.get(res.Order.ID)
		if stored == nil {
			t.Fatalf("order %s not persisted", res.Order.ID)
		}
		if stored.Status != constants.OrderStatusPending {
			t.Fatalf("status = %q, want pending", stored.Status)
		}
		if stored.Amount != 2998 {
			t.Fatalf("amount = %v, want 2998", stored.Amount)
		}
		if stored.PackageName != "Doktorum Ol Standard Paket" {
			t.Fatalf("package name = %q", stored.PackageName)
		}
		if stored.PaymentMethod != constants.PaymentMethodCardSubscription {
			t.Fatalf("payment method = %q", stored.PaymentMethod)
		}
		if !stored.IsFirstOrder {
			t.Fatalf("expected IsFirstOrder")
		}
		if stored.PaymentTransactionID != "tok-1" {
			t.Fatalf("payment token = %q, want tok-1", stored.PaymentTransactionID)
		}
		if stored.CustomerType != constants.CustomerTypeIndividual {
			t.Fatalf("customer type = %q, want individual default", stored.CustomerType)
		}
	})

	t.Run("gateway request carries order id and callback", func(t *testing.T) {
		env := newTestEnv()
		res, err := env.uc.InitializeSubscription(ctx, "premium_paket", validCustomer())
		if err != nil {
			t.Fatalf("InitializeSubscription: %v", err)
		}
		if env.gateway.callCount() != 1 {
			t.Fatalf("gateway calls = %d, want 1", env.gateway.callCount())
		}
		req := env.gateway.calls[0]
		if req.ConversationID != res.Order.ID {
			t.Fatalf("conversation id = %q, want order id %q", req.ConversationID, res.Order.ID)
		}
		if req.CallbackURL != "https://doktorumol.test/api/payment/webhook" {
			t.Fatalf("callback url = %q", req.CallbackURL)
		}
		if req.PricingPlanReference != "premium-paket-aylik" {
			t.Fatalf("pricing plan = %q", req.PricingPlanReference)
		}
		if req.Price != 4998 {
			t.Fatalf("price = %v, want 4998", req.Price)
		}
		if req.Currency != constants.CurrencyTRY {
			t.Fatalf("currency = %q", req.Currency)
		}
	})

	t.Run("gateway failure keeps the pending row", func(t *testing.T) {
		env := newTestEnv()
		env.gateway.err = fmt.Errorf("gateway says no")
		_, err := env.uc.InitializeSubscription(ctx, "baslangic_paket", validCustomer())
		if err == nil {
			t.Fatalf("expected error on gateway failure")
		}
		if env.orders.count() != 1 {
			t.Fatalf("expected the pending row to be kept, got %d rows", env.orders.count())
		}
		for _, o := range env.orders.orders {
			if o.Status != constants.OrderStatusPending {
				t.Fatalf("kept row status = %q, want pending", o.Status)
			}
			if o.PaymentTransactionID != "" {
				t.Fatalf("kept row should have no payment token, got %q", o.PaymentTransactionID)
			}
		}
	})

	t.Run("missing gateway credentials is a config error", func(t *testing.T) {
		env := newTestEnv()
		env.uc.config.Client.PaymentGateway.SecretKey = ""
		_, err := env.uc.InitializeSubscription(ctx, "standard_paket", validCustomer())
		if err == nil {
			t.Fatalf("expected config error")
		}
		if env.orders.count() != 0 {
			t.Fatalf("expected no order rows, got %d", env.orders.count())
		}
	})
}
