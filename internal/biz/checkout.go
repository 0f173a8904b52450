package biz

import (
	"context"
	"time"

	"github.com/generatorhealthy/selam-web-yapim-merkezi-sub005/internal/constants"
	"github.com/generatorhealthy/selam-web-yapim-merkezi-sub005/internal/errors"

	pkgErrors "github.com/gaoyong06/go-pkg/errors"
	"github.com/google/uuid"
)

// CustomerData is the purchase request's customer record. Name, surname and
// email are required; the rest is optional. CustomerType discriminates
// individual vs corporate purchases.
type CustomerData struct {
	Name         string
	Surname      string
	Email        string
	Phone        string
	CustomerType string
	Address      string
	City         string
	TaxID        string
	TaxOffice    string
	CompanyName  string
}

// Valid reports whether the required fields are present.
func (c *CustomerData) Valid() bool {
	return c.Name != "" && c.Surname != "" && c.Email != ""
}

// CheckoutRequest is the gateway subscription-initialize payload.
type CheckoutRequest struct {
	Locale               string
	ConversationID       string
	PricingPlanReference string
	Price                float64
	Currency             string
	CallbackURL          string

	CustomerName    string
	CustomerSurname string
	CustomerEmail   string
	CustomerPhone   string
	IdentityNumber  string

	// Billing and shipping addresses are mirrored from the customer data.
	ContactName string
	Address     string
	City        string
	Country     string
}

// CheckoutResult is returned to the caller of InitializeSubscription.
type CheckoutResult struct {
	Order               *Order
	CheckoutFormContent string
	Token               string
}

// InitializeSubscription accepts a purchase request, creates a pending order
// and obtains a hosted-checkout handle from the payment gateway.
// Exactly one order row is created and exactly one outbound gateway call is
// made per invocation. On gateway failure the pending row is kept; stale
// pending orders are reconciled out of band.
func (uc *OrderUsecase) InitializeSubscription(ctx context.Context, packageType string, customer *CustomerData) (*CheckoutResult, error) {
	uc.log.Infof("InitializeSubscription: packageType=%s, email=%s", packageType, customer.Email)

	// 1. Resolve the package from the fixed catalog
	pkg, ok := GetPackage(packageType)
	if !ok {
		uc.log.Errorf("Unknown package type: %s", packageType)
		return nil, pkgErrors.NewBizErrorWithLang(ctx, errors.ErrCodeInvalidPackage)
	}
	if !customer.Valid() {
		uc.log.Errorf("Invalid customer data for package %s", packageType)
		return nil, pkgErrors.NewBizErrorWithLang(ctx, errors.ErrCodeInvalidCustomer)
	}

	// 2. Gateway credentials are validated at startup; re-check so a broken
	// deployment fails with a configuration error instead of a signed
	// request built from empty keys.
	gw := uc.config.Client.PaymentGateway
	if gw == nil || gw.ApiKey == "" || gw.SecretKey == "" {
		uc.log.Errorf("Payment gateway credentials are not configured")
		return nil, pkgErrors.NewBizErrorWithLang(ctx, errors.ErrCodeConfigMissing)
	}

	customerType := customer.CustomerType
	if customerType == "" {
		customerType = constants.CustomerTypeIndividual
	}

	// 3. Create the pending order
	order := &Order{
		ID:              uuid.New().String(),
		CustomerName:    customer.Name,
		CustomerSurname: customer.Surname,
		CustomerEmail:   customer.Email,
		CustomerPhone:   customer.Phone,
		CustomerType:    customerType,
		CustomerAddress: customer.Address,
		CustomerCity:    customer.City,
		TaxID:           customer.TaxID,
		TaxOffice:       customer.TaxOffice,
		CompanyName:     customer.CompanyName,
		PackageType:     pkg.Type,
		PackageName:     pkg.Name,
		Amount:          pkg.Price,
		Currency:        constants.CurrencyTRY,
		Status:          constants.OrderStatusPending,
		PaymentMethod:   constants.PaymentMethodCardSubscription,
		IsFirstOrder:    true,
		CreatedAt:       time.Now().UTC(),
	}
	if err := uc.orderRepo.CreateOrder(ctx, order); err != nil {
		uc.log.Errorf("Failed to create order: %v", err)
		return nil, pkgErrors.NewBizErrorWithLang(ctx, errors.ErrCodeOrderCreateFailed)
	}
	uc.log.Infof("Created pending order %s for package %s", order.ID, pkg.Type)

	// 4. Call the gateway's subscription-initialize endpoint
	req := &CheckoutRequest{
		Locale:               "tr",
		ConversationID:       order.ID,
		PricingPlanReference: pkg.PricingPlanReference,
		Price:                pkg.Price,
		Currency:             constants.CurrencyTRY,
		CallbackURL:          uc.config.App.CheckoutReturnUrl,
		CustomerName:         customer.Name,
		CustomerSurname:      customer.Surname,
		CustomerEmail:        customer.Email,
		CustomerPhone:        customer.Phone,
		IdentityNumber:       customer.TaxID,
		ContactName:          customer.Name + " " + customer.Surname,
		Address:              customer.Address,
		City:                 customer.City,
		Country:              "Turkey",
	}
	form, err := uc.gateway.InitializeSubscription(ctx, req)
	if err != nil {
		// The pending row is deliberately kept for out-of-band reconciliation.
		uc.log.Errorf("Gateway rejected subscription initialize for order %s: %v", order.ID, err)
		return nil, pkgErrors.NewBizErrorWithLang(ctx, errors.ErrCodeGatewayFailed)
	}

	// 5. Persist the checkout token, the webhook's join key
	if err := uc.orderRepo.SetPaymentTransactionID(ctx, order.ID, form.Token); err != nil {
		uc.log.Errorf("Failed to store payment token for order %s: %v", order.ID, err)
		return nil, pkgErrors.NewBizErrorWithLang(ctx, errors.ErrCodeOrderCreateFailed)
	}
	order.PaymentTransactionID = form.Token
	uc.log.Infof("Subscription initialized for order %s, token=%s", order.ID, form.Token)

	return &CheckoutResult{
		Order:               order,
		CheckoutFormContent: form.CheckoutFormContent,
		Token:               form.Token,
	}, nil
}
