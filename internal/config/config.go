package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"shopcore-payments/internal/adyen"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string

	AdyenAPIKey          string
	AdyenMerchantAccount string
	AdyenBaseURL         string
	NativeThreeDSecure   bool
	ReturnURL            string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),
		AppPort:    os.Getenv("APP_PORT"),
		AppEnv:     os.Getenv("APP_ENV"),

		AdyenAPIKey:          os.Getenv("ADYEN_APIKEY"),
		AdyenMerchantAccount: os.Getenv("ADYEN_MERCHANT_ACCOUNT"),
		AdyenBaseURL:         os.Getenv("ADYEN_BASE_URL"),
		NativeThreeDSecure:   os.Getenv("ADYEN_NATIVE_3DS") == "true",
		ReturnURL:            os.Getenv("RETURN_URL"),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

// LoadApplePayCertificate reads the Apple Pay merchant identity certificate
// from APPLE_PAY_CERT_PATH. PKCS#12 bundles are converted to the combined PEM
// form at load time; APPLE_PAY_CERT_PASSWORD unlocks them. An unset path
// returns an empty certificate, which disables wallet sessions.
func (c *Config) LoadApplePayCertificate() (string, error) {
	path := os.Getenv("APPLE_PAY_CERT_PATH")
	if path == "" {
		return "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read apple pay certificate: %w", err)
	}

	if strings.HasSuffix(path, ".p12") || strings.HasSuffix(path, ".pfx") {
		return adyen.CertificateFromP12(data, os.Getenv("APPLE_PAY_CERT_PASSWORD"))
	}

	return string(data), nil
}
