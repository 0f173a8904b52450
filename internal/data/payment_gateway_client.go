package data

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/generatorhealthy/selam-web-yapim-merkezi-sub005/internal/biz"
	"github.com/generatorhealthy/selam-web-yapim-merkezi-sub005/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

const (
	subscriptionInitializePath = "/v2/subscription/checkoutform/initialize"
	authHeaderPrefix           = "IYZWS"
	randomHeaderName           = "x-iyzi-rnd"
	defaultGatewayTimeout      = 30 * time.Second
)

// paymentGatewayClient talks to the hosted-checkout provider over its
// documented HTTP API. Requests are authenticated with the provider's HMAC
// scheme: base64(SHA1(apiKey + random + secretKey + pkiString)).
type paymentGatewayClient struct {
	baseURL   string
	apiKey    string
	secretKey string
	client    *http.Client
	log       *log.Helper
}

// NewPaymentGatewayClient creates the payment gateway client
func NewPaymentGatewayClient(c *conf.Bootstrap, logger log.Logger) (biz.PaymentGatewayClient, error) {
	gw := c.Client.PaymentGateway
	if gw == nil || gw.BaseUrl == "" {
		return nil, fmt.Errorf("payment gateway base url is not configured")
	}
	timeout := defaultGatewayTimeout
	if d, err := time.ParseDuration(gw.Timeout); err == nil && d > 0 {
		timeout = d
	}
	return &paymentGatewayClient{
		baseURL:   strings.TrimRight(gw.BaseUrl, "/"),
		apiKey:    gw.ApiKey,
		secretKey: gw.SecretKey,
		client:    &http.Client{Timeout: timeout},
		log:       log.NewHelper(logger),
	}, nil
}

// initializeRequest is the provider's wire shape for subscription-initialize.
type initializeRequest struct {
	Locale                   string             `json:"locale"`
	ConversationID           string             `json:"conversationId"`
	PricingPlanReferenceCode string             `json:"pricingPlanReferenceCode"`
	SubscriptionInitialState string             `json:"subscriptionInitialStatus"`
	CallbackURL              string             `json:"callbackUrl"`
	Customer                 initializeCustomer `json:"customer"`
}

type initializeCustomer struct {
	Name            string            `json:"name"`
	Surname         string            `json:"surname"`
	Email           string            `json:"email"`
	GsmNumber       string            `json:"gsmNumber,omitempty"`
	IdentityNumber  string            `json:"identityNumber,omitempty"`
	BillingAddress  initializeAddress `json:"billingAddress"`
	ShippingAddress initializeAddress `json:"shippingAddress"`
}

type initializeAddress struct {
	ContactName string `json:"contactName"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Country     string `json:"country"`
}

type initializeResponse struct {
	Status              string `json:"status"`
	ErrorMessage        string `json:"errorMessage"`
	CheckoutFormContent string `json:"checkoutFormContent"`
	Token               string `json:"token"`
}

// InitializeSubscription obtains a hosted-checkout form and token. Exactly
// one outbound call per invocation; no retry.
func (c *paymentGatewayClient) InitializeSubscription(ctx context.Context, req *biz.CheckoutRequest) (*biz.CheckoutForm, error) {
	wire := &initializeRequest{
		Locale:                   req.Locale,
		ConversationID:           req.ConversationID,
		PricingPlanReferenceCode: req.PricingPlanReference,
		SubscriptionInitialState: "PENDING",
		CallbackURL:              req.CallbackURL,
		Customer: initializeCustomer{
			Name:           req.CustomerName,
			Surname:        req.CustomerSurname,
			Email:          req.CustomerEmail,
			GsmNumber:      req.CustomerPhone,
			IdentityNumber: req.IdentityNumber,
			BillingAddress: initializeAddress{
				ContactName: req.ContactName,
				Address:     req.Address,
				City:        req.City,
				Country:     req.Country,
			},
			ShippingAddress: initializeAddress{
				ContactName: req.ContactName,
				Address:     req.Address,
				City:        req.City,
				Country:     req.Country,
			},
		},
	}

	body, err := json.Marshal(wire)
	if err != nil {
		return nil, err
	}

	random := strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
	auth := AuthorizationHeader(c.apiKey, c.secretKey, random, PkiString(req))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+subscriptionInitializePath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", auth)
	httpReq.Header.Set(randomHeaderName, random)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	var out initializeResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("malformed gateway response: %w", err)
	}
	if out.Status != "success" {
		c.log.Errorf("Gateway returned failure for conversation %s: %s", req.ConversationID, out.ErrorMessage)
		return nil, fmt.Errorf("gateway error: %s", out.ErrorMessage)
	}
	if out.Token == "" {
		return nil, fmt.Errorf("gateway response carries no token")
	}

	return &biz.CheckoutForm{
		CheckoutFormContent: out.CheckoutFormContent,
		Token:               out.Token,
	}, nil
}

// PkiString serializes the request the way the provider documents for
// signature computation: a fixed field order inside brackets.
func PkiString(req *biz.CheckoutRequest) string {
	var b strings.Builder
	b.WriteString("[locale=")
	b.WriteString(req.Locale)
	b.WriteString(",conversationId=")
	b.WriteString(req.ConversationID)
	b.WriteString(",pricingPlanReferenceCode=")
	b.WriteString(req.PricingPlanReference)
	b.WriteString(",price=")
	b.WriteString(formatPrice(req.Price))
	b.WriteString(",currency=")
	b.WriteString(req.Currency)
	b.WriteString(",callbackUrl=")
	b.WriteString(req.CallbackURL)
	b.WriteString(",customer=[name=")
	b.WriteString(req.CustomerName)
	b.WriteString(",surname=")
	b.WriteString(req.CustomerSurname)
	b.WriteString(",email=")
	b.WriteString(req.CustomerEmail)
	b.WriteString("]]")
	return b.String()
}

// formatPrice renders a price without a trailing zero decimal, matching the
// provider's signature rules (2998 stays "2998", 149.9 stays "149.9").
func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// AuthorizationHeader computes the provider's request signature header.
func AuthorizationHeader(apiKey, secretKey, random, pki string) string {
	h := sha1.New()
	io.WriteString(h, apiKey+random+secretKey+pki)
	hash := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return authHeaderPrefix + " " + apiKey + ":" + hash
}
