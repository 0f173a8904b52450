package service

import (
	stdhttp "net/http"
	"time"

	"github.com/generatorhealthy/selam-web-yapim-merkezi-sub005/internal/auth"
	"github.com/generatorhealthy/selam-web-yapim-merkezi-sub005/internal/biz"
	"github.com/generatorhealthy/selam-web-yapim-merkezi-sub005/internal/conf"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/google/wire"
)

// ProviderSet is service providers.
var ProviderSet = wire.NewSet(NewOrderService)

// OrderService exposes the order lifecycle over HTTP.
type OrderService struct {
	uc     *biz.OrderUsecase
	config *conf.Bootstrap
	log    *log.Helper
}

// NewOrderService creates the order service
func NewOrderService(uc *biz.OrderUsecase, config *conf.Bootstrap, logger log.Logger) *OrderService {
	return &OrderService{
		uc:     uc,
		config: config,
		log:    log.NewHelper(logger),
	}
}

type customerPayload struct {
	Name         string `json:"name"`
	Surname      string `json:"surname"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	CustomerType string `json:"customerType"`
	Address      string `json:"address"`
	City         string `json:"city"`
	TaxID        string `json:"taxId"`
	TaxOffice    string `json:"taxOffice"`
	CompanyName  string `json:"companyName"`
}

type initializeSubscriptionRequest struct {
	PackageType  string          `json:"packageType"`
	CustomerData customerPayload `json:"customerData"`
}

type initializeSubscriptionReply struct {
	Success             bool   `json:"success"`
	CheckoutFormContent string `json:"checkoutFormContent"`
	Token               string `json:"token"`
}

// InitializeSubscription handles POST /api/subscription/initialize
func (s *OrderService) InitializeSubscription(ctx http.Context) error {
	var req initializeSubscriptionRequest
	if err := ctx.Bind(&req); err != nil {
		return errors.BadRequest("INVALID_BODY", "malformed request body")
	}

	customer := &biz.CustomerData{
		Name:         req.CustomerData.Name,
		Surname:      req.CustomerData.Surname,
		Email:        req.CustomerData.Email,
		Phone:        req.CustomerData.Phone,
		CustomerType: req.CustomerData.CustomerType,
		Address:      req.CustomerData.Address,
		City:         req.CustomerData.City,
		TaxID:        req.CustomerData.TaxID,
		TaxOffice:    req.CustomerData.TaxOffice,
		CompanyName:  req.CustomerData.CompanyName,
	}

	res, err := s.uc.InitializeSubscription(ctx, req.PackageType, customer)
	if err != nil {
		return err
	}
	return ctx.Result(stdhttp.StatusOK, &initializeSubscriptionReply{
		Success:             true,
		CheckoutFormContent: res.CheckoutFormContent,
		Token:               res.Token,
	})
}

type orderReply struct {
	ID            string     `json:"id"`
	PackageType   string     `json:"packageType"`
	PackageName   string     `json:"packageName"`
	Amount        float64    `json:"amount"`
	Currency      string     `json:"currency"`
	Status        string     `json:"status"`
	PaymentMethod string     `json:"paymentMethod"`
	InvoiceSent   bool       `json:"invoiceSent"`
	IsFirstOrder  bool       `json:"isFirstOrder"`
	CreatedAt     time.Time  `json:"createdAt"`
	ApprovedAt    *time.Time `json:"approvedAt,omitempty"`
}

// GetOrder handles GET /api/orders/{id}
func (s *OrderService) GetOrder(ctx http.Context) error {
	orderID := ctx.Vars().Get("id")
	if orderID == "" {
		return errors.BadRequest("INVALID_ARGUMENT", "order id is required")
	}
	order, err := s.uc.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return errors.NotFound("ORDER_NOT_FOUND", "no such order")
	}
	return ctx.Result(stdhttp.StatusOK, &orderReply{
		ID:            order.ID,
		PackageType:   order.PackageType,
		PackageName:   order.PackageName,
		Amount:        order.Amount,
		Currency:      order.Currency,
		Status:        order.Status,
		PaymentMethod: order.PaymentMethod,
		InvoiceSent:   order.InvoiceSent,
		IsFirstOrder:  order.IsFirstOrder,
		CreatedAt:     order.CreatedAt,
		ApprovedAt:    order.ApprovedAt,
	})
}

type sendSmsRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

type successReply struct {
	Success bool `json:"success"`
}

// SendSms handles POST /api/notifications/sms
func (s *OrderService) SendSms(ctx http.Context) error {
	if err := auth.CheckInternalKey(ctx.Request(), s.config.App.InternalApiKey); err != nil {
		return err
	}
	var req sendSmsRequest
	if err := ctx.Bind(&req); err != nil {
		return errors.BadRequest("INVALID_BODY", "malformed request body")
	}
	if req.Phone == "" || req.Message == "" {
		return errors.BadRequest("INVALID_ARGUMENT", "phone and message are required")
	}
	if err := s.uc.SendSms(ctx, req.Phone, req.Message); err != nil {
		return err
	}
	return ctx.Result(stdhttp.StatusOK, &successReply{Success: true})
}

type contractEmailRequest struct {
	CustomerEmail string `json:"customerEmail"`
	CustomerName  string `json:"customerName"`
	PackageName   string `json:"packageName"`
	OrderID       string `json:"orderId"`
}

// SendContractEmail handles POST /api/notifications/contract-email
func (s *OrderService) SendContractEmail(ctx http.Context) error {
	if err := auth.CheckInternalKey(ctx.Request(), s.config.App.InternalApiKey); err != nil {
		return err
	}
	var req contractEmailRequest
	if err := ctx.Bind(&req); err != nil {
		return errors.BadRequest("INVALID_BODY", "malformed request body")
	}
	if err := s.uc.SendContractEmail(ctx, &biz.ContractEmail{
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
		PackageName:   req.PackageName,
		OrderID:       req.OrderID,
	}); err != nil {
		return err
	}
	return ctx.Result(stdhttp.StatusOK, &successReply{Success: true})
}

type invoiceCallbackRequest struct {
	OrderID       string `json:"orderId"`
	InvoiceNumber string `json:"invoiceNumber"`
	InvoiceDate   string `json:"invoiceDate"` // 2006-01-02
}

// InvoiceCallback handles POST /api/invoice/callback
func (s *OrderService) InvoiceCallback(ctx http.Context) error {
	if err := auth.CheckInternalKey(ctx.Request(), s.config.App.InternalApiKey); err != nil {
		return err
	}
	var req invoiceCallbackRequest
	if err := ctx.Bind(&req); err != nil {
		return errors.BadRequest("INVALID_BODY", "malformed request body")
	}
	if req.OrderID == "" || req.InvoiceNumber == "" {
		return errors.BadRequest("INVALID_ARGUMENT", "orderId and invoiceNumber are required")
	}
	invoiceDate := time.Now().UTC()
	if req.InvoiceDate != "" {
		d, err := time.Parse("2006-01-02", req.InvoiceDate)
		if err != nil {
			return errors.BadRequest("INVALID_ARGUMENT", "invoiceDate must be YYYY-MM-DD")
		}
		invoiceDate = d
	}
	if err := s.uc.RecordInvoice(ctx, req.OrderID, req.InvoiceNumber, invoiceDate); err != nil {
		return err
	}
	return ctx.Result(stdhttp.StatusOK, &successReply{Success: true})
}

// PaymentWebhook handles POST /api/payment/webhook. The caller is the
// payment gateway, which only follows redirects: every outcome, including
// internal failure, is answered with a 302 to one of three fixed
// destinations, never an error body. The OPTIONS preflight gets an empty
// 200.
func (s *OrderService) PaymentWebhook(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == stdhttp.MethodOptions {
		w.WriteHeader(stdhttp.StatusOK)
		return
	}

	if err := r.ParseForm(); err != nil {
		s.log.Errorf("Failed to parse webhook form: %v", err)
		stdhttp.Redirect(w, r, s.config.App.PaymentErrorUrl, stdhttp.StatusFound)
		return
	}

	in := &biz.WebhookInput{
		Token:                     r.PostFormValue("token"),
		Status:                    r.PostFormValue("status"),
		SubscriptionReferenceCode: r.PostFormValue("subscriptionReferenceCode"),
	}

	redirect, err := s.uc.HandlePaymentWebhook(r.Context(), in)
	if err != nil {
		// Logged inside the usecase; the gateway still gets a redirect.
		stdhttp.Redirect(w, r, s.config.App.PaymentErrorUrl, stdhttp.StatusFound)
		return
	}
	stdhttp.Redirect(w, r, s.redirectDestination(redirect), stdhttp.StatusFound)
}

func (s *OrderService) redirectDestination(kind biz.RedirectKind) string {
	switch kind {
	case biz.RedirectSuccess:
		return s.config.App.PaymentSuccessUrl
	case biz.RedirectHome:
		return s.config.App.HomeUrl
	default:
		return s.config.App.PaymentErrorUrl
	}
}
