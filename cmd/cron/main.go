package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/generatorhealthy/selam-web-yapim-merkezi-sub005/internal/biz"
	"github.com/generatorhealthy/selam-web-yapim-merkezi-sub005/internal/conf"

	klog "github.com/go-kratos/kratos/v2/log"
	"github.com/robfig/cron/v3"
	_ "go.uber.org/automaxprocs"
)

var (
	flagconf string
)

// CronApp holds the usecases the scheduled jobs run.
type CronApp struct {
	orderUsecase *biz.OrderUsecase
}

// newLogger creates the cron process logger.
func newLogger(c *conf.Bootstrap) klog.Logger {
	return klog.With(klog.NewStdLogger(os.Stdout),
		"ts", klog.DefaultTimestamp,
		"caller", klog.DefaultCaller,
		"service.name", "order-cron",
	)
}

// defaultRecurringSpec runs the recurring billing every day at 09:00.
const defaultRecurringSpec = "0 0 9 * * *"

func init() {
	flag.StringVar(&flagconf, "conf", "configs/config.yaml", "config path, eg: -conf config.yaml")
}

func main() {
	flag.Parse()

	bc, err := conf.Load(flagconf)
	if err != nil {
		panic(err)
	}
	if err := bc.Validate(); err != nil {
		panic(fmt.Sprintf("config validation failed: %v", err))
	}

	app, cleanup, err := wireApp(bc)
	if err != nil {
		panic(err)
	}
	defer cleanup()

	cronScheduler := cron.New(cron.WithSeconds())

	spec := defaultRecurringSpec
	if bc.App != nil && bc.App.RecurringCronSpec != "" {
		spec = bc.App.RecurringCronSpec
	}

	// Recurring billing: materialize today's due automatic orders and send
	// the bank-transfer payment reminders.
	_, err = cronScheduler.AddFunc(spec, func() {
		log.Println("[CRON] Starting recurring order run...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		result, err := app.orderUsecase.GenerateRecurringOrders(ctx)
		if err != nil {
			log.Printf("[CRON] Recurring order run failed: %v", err)
			return
		}
		if result.SkippedLockBusy {
			log.Println("[CRON] Recurring order run skipped: another run holds the lock")
			return
		}
		log.Printf("[CRON] Recurring order run finished: generated=%d, reminders=%d, skipped=%d",
			result.GeneratedOrders, result.RemindersSent, result.RemindersSkipped)
	})
	if err != nil {
		log.Printf("Failed to add recurring order job: %v", err)
	}

	cronScheduler.Start()
	log.Println("========================================")
	log.Println("Cron jobs started successfully")
	log.Printf("  - Recurring orders: %s", spec)
	log.Println("========================================")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down gracefully...")

	ctx := cronScheduler.Stop()
	select {
	case <-ctx.Done():
		log.Println("Cron jobs stopped gracefully")
	case <-time.After(5 * time.Second):
		log.Println("Cron jobs forced to stop after timeout")
	}
}
