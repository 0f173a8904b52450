package biz

import (
	"context"
	"time"

	"github.com/generatorhealthy/selam-web-yapim-merkezi-sub005/internal/conf"
	"github.com/generatorhealthy/selam-web-yapim-merkezi-sub005/internal/constants"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-redsync/redsync/v4"
	"github.com/google/wire"
)

// ProviderSet is biz providers.
var ProviderSet = wire.NewSet(NewOrderUsecase)

// Order is a single purchase attempt or recurring billing cycle. It is the
// source of truth for purchase state.
type Order struct {
	ID string

	// Customer identity, copied verbatim from the purchase request
	CustomerName    string
	CustomerSurname string
	CustomerEmail   string
	CustomerPhone   string
	CustomerType    string // individual, corporate
	CustomerAddress string
	CustomerCity    string
	TaxID           string
	TaxOffice       string
	CompanyName     string

	PackageType string
	PackageName string
	Amount      float64
	Currency    string

	Status        string // pending, approved, cancelled, failed
	PaymentMethod string // card-subscription, bank-transfer

	// PaymentTransactionID is the gateway's checkout token, set once after
	// subscription-initialize succeeds. It is the join key the webhook uses
	// to locate the order.
	PaymentTransactionID string

	InvoiceSent   bool
	InvoiceNumber string
	InvoiceDate   *time.Time

	IsFirstOrder       bool
	ContractEmailsSent bool

	CreatedAt  time.Time
	ApprovedAt *time.Time
}

// IsTerminal reports whether the order status can no longer change.
func (o *Order) IsTerminal() bool {
	switch o.Status {
	case constants.OrderStatusApproved, constants.OrderStatusCancelled, constants.OrderStatusFailed:
		return true
	}
	return false
}

// AutomaticOrder is the recurring-billing schedule derived from a first
// successful order. One row per customer subscription.
type AutomaticOrder struct {
	ID uint64

	CustomerName    string
	CustomerSurname string
	CustomerEmail   string
	CustomerPhone   string
	CustomerType    string
	CustomerAddress string
	CustomerCity    string
	TaxID           string
	TaxOffice       string
	CompanyName     string

	PackageType string
	PackageName string
	Amount      float64
	Currency    string

	RegistrationDate  time.Time
	MonthlyPaymentDay int   // day-of-month, derived from registration date
	PaidMonths        []int // months already billed, ordered

	CreatedAt time.Time
}

// Specialist is the read model used to resolve a reminder-SMS recipient.
type Specialist struct {
	ID    uint64
	Name  string
	Email string
	Phone string
}

// OrderRepo is the order store interface.
type OrderRepo interface {
	CreateOrder(ctx context.Context, order *Order) error
	GetOrder(ctx context.Context, orderID string) (*Order, error)
	// GetOrderByPaymentToken returns nil without error when no non-deleted
	// order carries the token.
	GetOrderByPaymentToken(ctx context.Context, token string) (*Order, error)
	SetPaymentTransactionID(ctx context.Context, orderID, token string) error
	UpdateStatus(ctx context.Context, orderID, status string) error
	// ClaimActivation atomically moves the order to approved and marks the
	// contract emails as sent, but only when they were not sent before.
	// Reports whether this call won the claim.
	ClaimActivation(ctx context.Context, orderID string, approvedAt time.Time) (bool, error)
	// SetInvoiceMeta records invoice metadata once; reports whether this
	// call performed the write.
	SetInvoiceMeta(ctx context.Context, orderID, invoiceNumber string, invoiceDate time.Time) (bool, error)
	ListBankTransferOrdersCreatedOn(ctx context.Context, day time.Time) ([]*Order, error)
}

// AutomaticOrderRepo is the recurring-schedule store interface.
type AutomaticOrderRepo interface {
	CreateAutomaticOrder(ctx context.Context, ao *AutomaticOrder) error
	GetByCustomerEmail(ctx context.Context, email string) (*AutomaticOrder, error)
	// GenerateDueOrders materializes pending order rows for every schedule
	// due on the given day that has not been billed for the current cycle.
	// Returns the number of orders created. Idempotent per billing period.
	GenerateDueOrders(ctx context.Context, day time.Time) (int, error)
}

// SpecialistRepo resolves specialists for reminder notifications.
// Both lookups return nil without error when nothing matches.
type SpecialistRepo interface {
	FindByEmail(ctx context.Context, email string) (*Specialist, error)
	FindByName(ctx context.Context, fullName string) (*Specialist, error)
}

// CheckoutForm is the opaque hosted-checkout handle returned by the gateway.
type CheckoutForm struct {
	CheckoutFormContent string
	Token               string
}

// PaymentGatewayClient is the payment provider client interface
// (anti-corruption layer).
type PaymentGatewayClient interface {
	InitializeSubscription(ctx context.Context, req *CheckoutRequest) (*CheckoutForm, error)
}

// SmsClient sends exactly one SMS per call.
type SmsClient interface {
	Send(ctx context.Context, phone, message string) error
}

// ContractEmail is the payload of the contract dispatch after activation.
type ContractEmail struct {
	CustomerEmail string
	CustomerName  string
	PackageName   string
	OrderID       string
}

// InvoiceEmail is the payload of the invoice notification dispatch.
type InvoiceEmail struct {
	CustomerEmail string
	CustomerName  string
	InvoiceNumber string
	OrderID       string
	Amount        float64
}

// EmailClient sends exactly one email per call.
type EmailClient interface {
	SendContractEmail(ctx context.Context, msg *ContractEmail) error
	SendInvoiceEmail(ctx context.Context, msg *InvoiceEmail) error
}

// Transaction runs fn inside a database transaction.
type Transaction interface {
	Exec(ctx context.Context, fn func(ctx context.Context) error) error
}

// OrderUsecase holds the order lifecycle business logic.
type OrderUsecase struct {
	orderRepo      OrderRepo
	autoRepo       AutomaticOrderRepo
	specialistRepo SpecialistRepo
	gateway        PaymentGatewayClient
	sms            SmsClient
	email          EmailClient
	tm             Transaction
	rs             *redsync.Redsync
	config         *conf.Bootstrap
	log            *log.Helper
}

func NewOrderUsecase(
	orderRepo OrderRepo,
	autoRepo AutomaticOrderRepo,
	specialistRepo SpecialistRepo,
	gateway PaymentGatewayClient,
	sms SmsClient,
	email EmailClient,
	tm Transaction,
	rs *redsync.Redsync,
	config *conf.Bootstrap,
	logger log.Logger,
) *OrderUsecase {
	return &OrderUsecase{
		orderRepo:      orderRepo,
		autoRepo:       autoRepo,
		specialistRepo: specialistRepo,
		gateway:        gateway,
		sms:            sms,
		email:          email,
		tm:             tm,
		rs:             rs,
		config:         config,
		log:            log.NewHelper(logger),
	}
}

// GetOrder returns an order snapshot (soft-deleted orders are not visible).
func (uc *OrderUsecase) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	return uc.orderRepo.GetOrder(ctx, orderID)
}

// withTransaction runs fn inside a transaction.
func (uc *OrderUsecase) withTransaction(ctx context.Context, fn func(context.Context) error) error {
	return uc.tm.Exec(ctx, fn)
}
