package logger_test

import (
	"errors"

	"github.com/wonny/finhealth/pkg/config"
	"github.com/wonny/finhealth/pkg/logger"
)

// Example_basic demonstrates basic logger usage
func Example_basic() {
	cfg := &config.Config{
		Env:       "development",
		LogLevel:  "info",
		LogFormat: "console",
	}

	// Create logger (SSOT)
	log := logger.New(cfg)

	log.Debug("This won't appear (level is info)")
	log.Info("Application started")
	log.Infof("Parsed %d rows from %s", 42, "balance_sheet.csv")
}

// Example_withFields demonstrates structured logging with fields
func Example_withFields() {
	cfg := &config.Config{
		Env:       "production",
		LogLevel:  "info",
		LogFormat: "json",
	}

	log := logger.New(cfg).WithComponent("api")

	log.WithFields(map[string]interface{}{
		"business_id": 7,
		"fiscal_year": 2024,
		"kind":        "balance_sheet",
	}).Info("Upload processed")

	err := errors.New("gemini timeout")
	log.WithError(err).WithField("business_id", 7).Warn("Commentary skipped")
}
