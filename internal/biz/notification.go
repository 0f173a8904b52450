package biz

import (
	"context"
	"fmt"
	"strings"

	"github.com/generatorhealthy/selam-web-yapim-merkezi-sub005/internal/constants"
	"github.com/generatorhealthy/selam-web-yapim-merkezi-sub005/internal/errors"

	pkgErrors "github.com/gaoyong06/go-pkg/errors"
)

// NormalizePhone coerces a phone number into international format: strip
// everything but digits, drop a leading trunk zero, prefix the country
// calling code. Normalization is idempotent.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return "", fmt.Errorf("phone number %q has no digits", raw)
	}
	if strings.HasPrefix(digits, constants.CountryCallingCode) && len(digits) == 12 {
		return digits, nil
	}
	digits = strings.TrimPrefix(digits, "0")
	if digits == "" {
		return "", fmt.Errorf("phone number %q has no digits after the trunk prefix", raw)
	}
	return constants.CountryCallingCode + digits, nil
}

// SendSms normalizes the recipient and issues one SMS through the provider.
// No retry, no queue: the provider's response decides success.
func (uc *OrderUsecase) SendSms(ctx context.Context, phone, message string) error {
	normalized, err := NormalizePhone(phone)
	if err != nil {
		uc.log.Errorf("Invalid phone number %q", phone)
		return pkgErrors.NewBizErrorWithLang(ctx, errors.ErrCodeInvalidPhone)
	}
	if err := uc.sms.Send(ctx, normalized, message); err != nil {
		uc.log.Errorf("SMS provider failed for %s: %v", normalized, err)
		return pkgErrors.NewBizErrorWithLang(ctx, errors.ErrCodeSmsFailed)
	}
	uc.log.Infof("SMS sent to %s", normalized)
	return nil
}

// SendContractEmail formats and dispatches one contract email.
func (uc *OrderUsecase) SendContractEmail(ctx context.Context, msg *ContractEmail) error {
	if msg.CustomerEmail == "" {
		return pkgErrors.NewBizErrorWithLang(ctx, errors.ErrCodeInvalidCustomer)
	}
	if err := uc.email.SendContractEmail(ctx, msg); err != nil {
		uc.log.Errorf("Email provider failed for %s: %v", msg.CustomerEmail, err)
		return pkgErrors.NewBizErrorWithLang(ctx, errors.ErrCodeEmailFailed)
	}
	uc.log.Infof("Contract email sent to %s", msg.CustomerEmail)
	return nil
}
