package constants

import "time"

// Order status values. Transitions are monotonic: pending may move to any of
// the other three, approved/cancelled/failed are terminal.
const (
	OrderStatusPending   = "pending"
	OrderStatusApproved  = "approved"
	OrderStatusCancelled = "cancelled"
	OrderStatusFailed    = "failed"
)

// Payment methods
const (
	PaymentMethodCardSubscription = "card-subscription"
	PaymentMethodBankTransfer     = "bank-transfer"
)

// Subscription status values reported by the payment gateway webhook
const (
	GatewayStatusActive   = "ACTIVE"
	GatewayStatusPending  = "PENDING"
	GatewayStatusInactive = "INACTIVE"
	GatewayStatusCanceled = "CANCELED"
)

// Customer types
const (
	CustomerTypeIndividual = "individual"
	CustomerTypeCorporate  = "corporate"
)

// Currency used for all packages
const CurrencyTRY = "TRY"

// CountryCallingCode is prefixed to normalized phone numbers
const CountryCallingCode = "90"

// Cache related constants
const (
	// DefaultCacheExpiration is the default cache TTL
	DefaultCacheExpiration = time.Hour
	// NullCacheExpiration caches misses briefly to avoid penetration
	NullCacheExpiration = 5 * time.Minute
)

// Distributed lock constants
const (
	// RecurringRunLockKey guards the daily recurring order run
	RecurringRunLockKey = "recurring_orders:daily_run_lock"
	// RecurringRunLockExpiration bounds a stuck run
	RecurringRunLockExpiration = 30 * time.Minute
	// RecurringRunLockRetries is 1: a busy lock means another run is active
	RecurringRunLockRetries = 1
)
