package main

import (
	"database/sql"
	"log"
	"net/http"

	"go.uber.org/zap"

	"shopcore-payments/internal/adyen"
	"shopcore-payments/internal/api"
	"shopcore-payments/internal/checkout"
	"shopcore-payments/internal/config"
	"shopcore-payments/internal/db"
	"shopcore-payments/internal/logger"
	"shopcore-payments/internal/payment"
)

// Seams for tests.
var (
	initDBFunc      = db.InitDB
	startServerFunc = http.ListenAndServe
)

func newServer(cfg *config.Config, database *sql.DB, applePayCert string) http.Handler {
	gateway := adyen.NewGateway(cfg.AdyenAPIKey, cfg.AdyenMerchantAccount, cfg.AdyenBaseURL)
	builder := adyen.NewRequestBuilder(checkout.FlatCalculator{})

	handler := api.NewHandler(
		cfg,
		gateway,
		builder,
		payment.NewRepository(database),
		checkout.NewRepository(database),
		applePayCert,
	)
	return handler.Routes()
}

func run() error {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := initDBFunc(cfg)
	defer database.Close()

	applePayCert, err := cfg.LoadApplePayCertificate()
	if err != nil {
		return err
	}
	if applePayCert == "" {
		logger.L().Warn("Apple Pay certificate not configured, wallet sessions disabled")
	}

	router := newServer(cfg, database, applePayCert)

	logger.L().Info("Payment service listening", zap.String("port", cfg.AppPort))
	return startServerFunc(":"+cfg.AppPort, router)
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
