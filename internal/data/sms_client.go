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
	smsSendPath       = "/send"
	defaultSmsTimeout = 15 * time.Second
)

// smsClient talks to the SMS gateway. One outbound call per Send, success
// decided solely by the provider's HTTP response.
type smsClient struct {
	baseURL  string
	username string
	password string
	sender   string
	client   *http.Client
	log      *log.Helper
}

// NewSmsClient creates the SMS gateway client
func NewSmsClient(c *conf.Bootstrap, logger log.Logger) biz.SmsClient {
	sms := c.Client.Sms
	timeout := defaultSmsTimeout
	if sms != nil {
		if d, err := time.ParseDuration(sms.Timeout); err == nil && d > 0 {
			timeout = d
		}
	}
	cl := &smsClient{
		client: &http.Client{Timeout: timeout},
		log:    log.NewHelper(logger),
	}
	if sms != nil {
		cl.baseURL = strings.TrimRight(sms.BaseUrl, "/")
		cl.username = sms.Username
		cl.password = sms.Password
		cl.sender = sms.Sender
	}
	return cl
}

type smsSendRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Sender   string `json:"sender"`
	Phone    string `json:"phone"`
	Message  string `json:"message"`
}

type smsSendResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Send issues one SMS. The recipient is expected in international format
// already (see biz.NormalizePhone).
func (c *smsClient) Send(ctx context.Context, phone, message string) error {
	body, err := json.Marshal(&smsSendRequest{
		Username: c.username,
		Password: c.password,
		Sender:   c.sender,
		Phone:    phone,
		Message:  message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+smsSendPath, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read sms response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sms provider returned %d: %s", resp.StatusCode, string(respBody))
	}

	var out smsSendResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return fmt.Errorf("malformed sms response: %w", err)
	}
	if !out.Success {
		return fmt.Errorf("sms provider error: %s", out.Message)
	}
	return nil
}
