package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/agentbank/ledger/internal/adapter/http/controller"
	"github.com/agentbank/ledger/internal/adapter/http/middleware"
	"github.com/agentbank/ledger/internal/adapter/http/router"
	"github.com/agentbank/ledger/internal/adapter/repository/postgres"
	"github.com/agentbank/ledger/internal/config"
	"github.com/agentbank/ledger/internal/usecase/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(ctx, db, cfg.MigrationsDir); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	agentRepo := postgres.NewAgentRepository(db)
	accountRepo := postgres.NewAccountRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	requestRepo := postgres.NewPaymentRequestRepository(db)
	goalRepo := postgres.NewGoalRepository(db)
	donationRepo := postgres.NewDonationRepository(db)
	ledgerRepo := postgres.NewLedgerRepository(db)

	agentService := services.NewAgentService(agentRepo, accountRepo, ledgerRepo, cfg.BaseURL)
	accountService := services.NewAccountService(accountRepo, transactionRepo, ledgerRepo)
	transferService := services.NewTransferService(agentRepo, accountRepo, ledgerRepo)
	donationService := services.NewDonationService(agentRepo, accountRepo, donationRepo, ledgerRepo)
	requestService := services.NewPaymentRequestService(agentRepo, accountRepo, requestRepo, ledgerRepo)
	interestService := services.NewInterestService(agentRepo, accountRepo, ledgerRepo)
	goalService := services.NewGoalService(goalRepo, accountRepo)
	transactionService := services.NewTransactionService(accountRepo, transactionRepo)

	handler := router.New(
		controller.NewAgentController(agentService),
		[]router.ProtectedRouteRegistrar{
			controller.NewAccountController(accountService, interestService),
			controller.NewTransferController(transferService, requestService),
			controller.NewDonationController(donationService),
			controller.NewGoalController(goalService),
			controller.NewTransactionController(transactionService),
		},
		controller.NewCronController(interestService),
		middleware.APIKey(agentService),
		middleware.CronSecret(cfg.CronSecret),
	)

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("listening on %s", cfg.ListenAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("serve: %v", err)
	}
}
