package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/agentbank/ledger/internal/adapter/repository/postgres"
	"github.com/agentbank/ledger/internal/config"
	"github.com/agentbank/ledger/internal/logger"
	"github.com/agentbank/ledger/internal/usecase/services"
)

// The scheduler runs the batch jobs in-process instead of hitting the
// cron HTTP endpoints: daily interest at 02:00 UTC, a matured-CD sweep
// every hour, and the withdrawal-counter reset just after midnight on
// the first of the month.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := postgres.Open(ctx, cfg.DatabaseDSN)
	cancel()
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	agentRepo := postgres.NewAgentRepository(db)
	accountRepo := postgres.NewAccountRepository(db)
	ledgerRepo := postgres.NewLedgerRepository(db)
	interestService := services.NewInterestService(agentRepo, accountRepo, ledgerRepo)

	scheduler := cron.New(cron.WithLocation(time.UTC))

	mustSchedule(scheduler, "0 2 * * *", "daily-interest", func(ctx context.Context) error {
		_, err := interestService.CreditDailyInterest(ctx)
		return err
	})
	mustSchedule(scheduler, "0 * * * *", "process-cds", func(ctx context.Context) error {
		_, err := interestService.ProcessMaturedCDs(ctx)
		return err
	})
	mustSchedule(scheduler, "5 0 1 * *", "monthly-reset", func(ctx context.Context) error {
		_, err := interestService.ResetMonthlyWithdrawals(ctx)
		return err
	})

	scheduler.Start()
	log.Println("scheduler started")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("scheduler stopping")
	<-scheduler.Stop().Done()
}

func mustSchedule(scheduler *cron.Cron, spec, name string, job func(context.Context) error) {
	_, err := scheduler.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		logger.Info("scheduler job starting", logger.Fields{"job": name})
		if err := job(ctx); err != nil {
			logger.Error("scheduler job failed", err, logger.Fields{"job": name})
			return
		}
		logger.Info("scheduler job finished", logger.Fields{"job": name})
	})
	if err != nil {
		log.Fatalf("schedule %s: %v", name, err)
	}
}
