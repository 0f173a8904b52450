package data

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/generatorhealthy/selam-web-yapim-merkezi-sub005/internal/biz"
	"github.com/generatorhealthy/selam-web-yapim-merkezi-sub005/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
)

const (
	emailSendPath       = "/messages"
	defaultEmailTimeout = 15 * time.Second
)

// emailClient talks to the transactional email service. One outbound call
// per dispatch, no retry.
type emailClient struct {
	baseURL  string
	apiKey   string
	fromAddr string
	fromName string
	client   *http.Client
	log      *log.Helper
}

// NewEmailClient creates the transactional email client
func NewEmailClient(c *conf.Bootstrap, logger log.Logger) biz.EmailClient {
	email := c.Client.Email
	timeout := defaultEmailTimeout
	if email != nil {
		if d, err := time.ParseDuration(email.Timeout); err == nil && d > 0 {
			timeout = d
		}
	}
	cl := &emailClient{
		client: &http.Client{Timeout: timeout},
		log:    log.NewHelper(logger),
	}
	if email != nil {
		cl.baseURL = strings.TrimRight(email.BaseUrl, "/")
		cl.apiKey = email.ApiKey
		cl.fromAddr = email.FromAddr
		cl.fromName = email.FromName
	}
	return cl
}

type emailSendRequest struct {
	FromAddr string `json:"fromAddr"`
	FromName string `json:"fromName"`
	ToAddr   string `json:"toAddr"`
	ToName   string `json:"toName"`
	Subject  string `json:"subject"`
	HtmlBody string `json:"htmlBody"`
}

type emailSendResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// SendContractEmail dispatches the membership contract for an activated
// order.
func (c *emailClient) SendContractEmail(ctx context.Context, msg *biz.ContractEmail) error {
	subject := fmt.Sprintf("%s - Uyelik Sozlesmesi", msg.PackageName)
	htmlBody := fmt.Sprintf(
		"<p>Sayin %s,</p><p>%s uyeliginiz aktif edilmistir. Uyelik sozlesmeniz ektedir.</p><p>Siparis No: %s</p><p>Doktorum Ol</p>",
		msg.CustomerName, msg.PackageName, msg.OrderID,
	)
	return c.send(ctx, msg.CustomerEmail, msg.CustomerName, subject, htmlBody)
}

// SendInvoiceEmail notifies the customer that an invoice has been issued.
func (c *emailClient) SendInvoiceEmail(ctx context.Context, msg *biz.InvoiceEmail) error {
	subject := fmt.Sprintf("Faturaniz Olusturuldu - %s", msg.InvoiceNumber)
	htmlBody := fmt.Sprintf(
		"<p>Sayin %s,</p><p>%s numarali faturaniz olusturulmustur. Tutar: %.2f TL.</p><p>Siparis No: %s</p><p>Doktorum Ol</p>",
		msg.CustomerName, msg.InvoiceNumber, msg.Amount, msg.OrderID,
	)
	return c.send(ctx, msg.CustomerEmail, msg.CustomerName, subject, htmlBody)
}

func (c *emailClient) send(ctx context.Context, toAddr, toName, subject, htmlBody string) error {
	body, err := json.Marshal(&emailSendRequest{
		FromAddr: c.fromAddr,
		FromName: c.fromName,
		ToAddr:   toAddr,
		ToName:   toName,
		Subject:  subject,
		HtmlBody: htmlBody,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+emailSendPath, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("email request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read email response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("email provider returned %d: %s", resp.StatusCode, string(respBody))
	}

	var out emailSendResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return fmt.Errorf("malformed email response: %w", err)
	}
	if !out.Success {
		return fmt.Errorf("email provider error: %s", out.Error)
	}
	return nil
}
