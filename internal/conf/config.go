package conf

import (
	"fmt"
)

type Bootstrap struct {
	Server *Server `yaml:"server" json:"server"`
	Data   *Data   `yaml:"data" json:"data"`
	Client *Client `yaml:"client" json:"client"`
	App    *App    `yaml:"app" json:"app"`
	Log    *Log    `yaml:"log" json:"log"`
}

type Server struct {
	Http struct {
		Addr    string `yaml:"addr" json:"addr"`
		Timeout string `yaml:"timeout" json:"timeout"`
	} `yaml:"http" json:"http"`
}

type Data struct {
	Database struct {
		Driver string `yaml:"driver" json:"driver"`
		Source string `yaml:"source" json:"source"`
	} `yaml:"database" json:"database"`
	Redis struct {
		Addr         string `yaml:"addr" json:"addr"`
		Password     string `yaml:"password" json:"password"`
		Db           int32  `yaml:"db" json:"db"`
		ReadTimeout  string `yaml:"read_timeout" json:"read_timeout"`
		WriteTimeout string `yaml:"write_timeout" json:"write_timeout"`
	} `yaml:"redis" json:"redis"`
}

type Client struct {
	PaymentGateway *PaymentGateway `yaml:"payment_gateway" json:"payment_gateway"`
	Sms            *Sms            `yaml:"sms" json:"sms"`
	Email          *Email          `yaml:"email" json:"email"`
}

// PaymentGateway holds the hosted-checkout provider credentials. The
// subscription-initialize request is signed with ApiKey/SecretKey.
type PaymentGateway struct {
	BaseUrl   string `yaml:"base_url" json:"base_url"`
	ApiKey    string `yaml:"api_key" json:"api_key"`
	SecretKey string `yaml:"secret_key" json:"secret_key"`
	Timeout   string `yaml:"timeout" json:"timeout"`
}

type Sms struct {
	BaseUrl  string `yaml:"base_url" json:"base_url"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
	Sender   string `yaml:"sender" json:"sender"`
	Timeout  string `yaml:"timeout" json:"timeout"`
}

type Email struct {
	BaseUrl  string `yaml:"base_url" json:"base_url"`
	ApiKey   string `yaml:"api_key" json:"api_key"`
	FromAddr string `yaml:"from_addr" json:"from_addr"`
	FromName string `yaml:"from_name" json:"from_name"`
	Timeout  string `yaml:"timeout" json:"timeout"`
}

// App carries the application-level settings: the three fixed redirect
// destinations the payment webhook answers with, the return URL handed to
// the gateway's hosted checkout, and the shared key protecting the internal
// dispatcher endpoints.
type App struct {
	PaymentSuccessUrl string `yaml:"payment_success_url" json:"payment_success_url"`
	PaymentErrorUrl   string `yaml:"payment_error_url" json:"payment_error_url"`
	HomeUrl           string `yaml:"home_url" json:"home_url"`
	CheckoutReturnUrl string `yaml:"checkout_return_url" json:"checkout_return_url"`
	InternalApiKey    string `yaml:"internal_api_key" json:"internal_api_key"`
	ContractEmailAddr string `yaml:"contract_email_addr" json:"contract_email_addr"`
	RecurringCronSpec string `yaml:"recurring_cron_spec" json:"recurring_cron_spec"`
}

type Log struct {
	Level      string `yaml:"level" json:"level"`
	Format     string `yaml:"format" json:"format"`
	Output     string `yaml:"output" json:"output"`
	FilePath   string `yaml:"file_path" json:"file_path"`
	MaxSize    int    `yaml:"max_size" json:"max_size"`
	MaxAge     int    `yaml:"max_age" json:"max_age"`
	MaxBackups int    `yaml:"max_backups" json:"max_backups"`
	Compress   bool   `yaml:"compress" json:"compress"`
}

// Validate validates the configuration
func (b *Bootstrap) Validate() error {
	if b.Server == nil {
		return fmt.Errorf("server configuration is required")
	}
	if b.Server.Http.Addr == "" {
		return fmt.Errorf("server.http.addr is required")
	}
	if b.Data == nil {
		return fmt.Errorf("data configuration is required")
	}
	if b.Data.Database.Source == "" {
		return fmt.Errorf("data.database.source is required")
	}
	if b.Client == nil {
		return fmt.Errorf("client configuration is required")
	}
	if b.Client.PaymentGateway == nil || b.Client.PaymentGateway.ApiKey == "" || b.Client.PaymentGateway.SecretKey == "" {
		return fmt.Errorf("client.payment_gateway.api_key and secret_key are required")
	}
	if b.Client.PaymentGateway.BaseUrl == "" {
		return fmt.Errorf("client.payment_gateway.base_url is required")
	}
	if b.Client.Sms == nil || b.Client.Sms.BaseUrl == "" {
		return fmt.Errorf("client.sms.base_url is required")
	}
	if b.Client.Email == nil || b.Client.Email.BaseUrl == "" {
		return fmt.Errorf("client.email.base_url is required")
	}
	if b.App == nil {
		return fmt.Errorf("app configuration is required")
	}
	if b.App.PaymentSuccessUrl == "" || b.App.PaymentErrorUrl == "" || b.App.HomeUrl == "" {
		return fmt.Errorf("app.payment_success_url, payment_error_url and home_url are required")
	}
	if b.App.CheckoutReturnUrl == "" {
		return fmt.Errorf("app.checkout_return_url is required")
	}
	if b.Log == nil {
		return fmt.Errorf("log configuration is required")
	}
	return nil
}
