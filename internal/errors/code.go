package errors

import (
	pkgErrors "github.com/gaoyong06/go-pkg/errors"
	i18nPkg "github.com/gaoyong06/go-pkg/middleware/i18n"
)

func init() {
	pkgErrors.InitGlobalErrorManager("i18n", i18nPkg.Language)
}

// Error code layout: SSMMEE (6 digits), SS=14 for order-service.
// Modules:
//   01: configuration
//   02: package catalog
//   03: orders
//   04: payment gateway
//   05: notifications

// Configuration module (140100-140199)
const (
	// ErrCodeConfigMissing required credentials are absent
	ErrCodeConfigMissing = 140101
)

// Package catalog module (140200-140299)
const (
	// ErrCodeInvalidPackage package type is not in the catalog
	ErrCodeInvalidPackage = 140201
)

// Order module (140300-140399)
const (
	// ErrCodeOrderNotFound no order matches the given identifier or token
	ErrCodeOrderNotFound = 140301
	// ErrCodeOrderCreateFailed order row could not be inserted
	ErrCodeOrderCreateFailed = 140302
	// ErrCodeMissingToken webhook body carries no token field
	ErrCodeMissingToken = 140303
	// ErrCodeInvalidCustomer required customer fields are missing
	ErrCodeInvalidCustomer = 140304
	// ErrCodeInvoiceAlreadySent invoice metadata was already recorded
	ErrCodeInvoiceAlreadySent = 140305
)

// Payment gateway module (140400-140499)
const (
	// ErrCodeGatewayFailed the gateway returned a non-success result
	ErrCodeGatewayFailed = 140401
)

// Notification module (140500-140599)
const (
	// ErrCodeSmsFailed the SMS provider returned a non-success result
	ErrCodeSmsFailed = 140501
	// ErrCodeEmailFailed the email provider returned a non-success result
	ErrCodeEmailFailed = 140502
	// ErrCodeInvalidPhone the phone number cannot be normalized
	ErrCodeInvalidPhone = 140503
)
