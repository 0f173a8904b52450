package biz

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/generatorhealthy/selam-web-yapim-merkezi-sub005/internal/constants"

	"github.com/go-redsync/redsync/v4"
)

// RecurringRunResult summarizes one generator run for the cron log.
type RecurringRunResult struct {
	GeneratedOrders  int
	RemindersSent    int
	RemindersSkipped int
	SkippedLockBusy  bool
}

// GenerateRecurringOrders is the daily recurring billing run: materialize
// today's due automatic orders into pending order rows, then send a payment
// reminder SMS for every bank-transfer order created today.
//
// The run holds a distributed mutex so two overlapping invocations within
// the same day cannot double-generate or double-remind. A busy lock is
// reported, not treated as an error.
func (uc *OrderUsecase) GenerateRecurringOrders(ctx context.Context) (*RecurringRunResult, error) {
	result := &RecurringRunResult{}

	if uc.rs != nil {
		mutex := uc.rs.NewMutex(
			constants.RecurringRunLockKey,
			redsync.WithExpiry(constants.RecurringRunLockExpiration),
			redsync.WithTries(constants.RecurringRunLockRetries),
		)
		if err := mutex.LockContext(ctx); err != nil {
			uc.log.Infof("Recurring run skipped: lock busy (%v)", err)
			result.SkippedLockBusy = true
			return result, nil
		}
		defer func() {
			if _, err := mutex.UnlockContext(ctx); err != nil {
				uc.log.Warnf("Failed to unlock recurring run mutex: %v", err)
			}
		}()
	} else {
		// Graceful degradation when no lock backend is configured.
		uc.log.Warnf("Distributed lock not configured, recurring run is unguarded")
	}

	today := time.Now().UTC()

	// 1. Bulk-materialize today's due orders. A failure here aborts the run:
	// partial generation is not assumed safe.
	generated, err := uc.autoRepo.GenerateDueOrders(ctx, today)
	if err != nil {
		uc.log.Errorf("Failed to generate due orders: %v", err)
		return result, err
	}
	result.GeneratedOrders = generated
	uc.log.Infof("Generated %d recurring orders for %s", generated, today.Format("2006-01-02"))

	// 2. Remind every specialist with a bank-transfer order created today.
	// Per-order failures are logged and skipped.
	orders, err := uc.orderRepo.ListBankTransferOrdersCreatedOn(ctx, today)
	if err != nil {
		uc.log.Errorf("Failed to list today's bank-transfer orders: %v", err)
		return result, err
	}

	for _, order := range orders {
		phone, err := uc.resolveSpecialistPhone(ctx, order)
		if err != nil || phone == "" {
			uc.log.Warnf("No phone for order %s (%s %s): %v", order.ID, order.CustomerName, order.CustomerSurname, err)
			result.RemindersSkipped++
			continue
		}
		msg := fmt.Sprintf(
			"Sayin %s %s, %s aylik odemeniz olusturulmustur. Tutar: %.2f TL. Doktorum Ol",
			order.CustomerName, order.CustomerSurname, order.PackageName, order.Amount,
		)
		if err := uc.sms.Send(ctx, phone, msg); err != nil {
			uc.log.Errorf("Failed to send reminder SMS for order %s: %v", order.ID, err)
			result.RemindersSkipped++
			continue
		}
		result.RemindersSent++
	}

	uc.log.Infof("Recurring run finished: generated=%d, reminders=%d, skipped=%d",
		result.GeneratedOrders, result.RemindersSent, result.RemindersSkipped)
	return result, nil
}

// resolveSpecialistPhone resolves the reminder recipient. The order's own
// phone wins; otherwise the specialist directory is consulted by exact email
// match, and as a last resort by fuzzy name match. The fuzzy path is
// inherently ambiguous and is logged whenever it is taken.
func (uc *OrderUsecase) resolveSpecialistPhone(ctx context.Context, order *Order) (string, error) {
	if order.CustomerPhone != "" {
		return NormalizePhone(order.CustomerPhone)
	}

	sp, err := uc.specialistRepo.FindByEmail(ctx, order.CustomerEmail)
	if err != nil {
		return "", err
	}
	if sp == nil {
		fullName := strings.TrimSpace(order.CustomerName + " " + order.CustomerSurname)
		sp, err = uc.specialistRepo.FindByName(ctx, fullName)
		if err != nil {
			return "", err
		}
		if sp != nil {
			uc.log.Warnf("Resolved specialist for order %s by fuzzy name match %q, prefer a stable key", order.ID, fullName)
		}
	}
	if sp == nil || sp.Phone == "" {
		return "", nil
	}
	return NormalizePhone(sp.Phone)
}
