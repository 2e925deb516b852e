// Package config assembles component configurations for the rupex CLI
// from flag and environment values.
package config

import (
	"fmt"
	"time"

	"github.com/MANOJ-80/0xRupex/internal/reconcile"
	"github.com/MANOJ-80/0xRupex/internal/report"
	"github.com/MANOJ-80/0xRupex/internal/sender"
	"github.com/MANOJ-80/0xRupex/internal/store"
	"github.com/MANOJ-80/0xRupex/pkg/logger"
)

// CreateLoggerConfig creates a logger configuration for CLI usage
func CreateLoggerConfig(verbose bool) *logger.Config {
	if verbose {
		return logger.DebugConfig()
	}
	config := logger.DefaultConfig()
	// Reports go to stdout; keep logs off the warn-and-above noise floor
	// unless the user asked for verbosity.
	config.Level = logger.WarnLevel
	return config
}

// CreateSenderConfig creates a sender classifier configuration
func CreateSenderConfig(allowTestSender bool) *sender.Config {
	config := sender.DefaultConfig()
	config.AllowTestSender = allowTestSender
	return config
}

// CreateReconcileConfig creates a reconciliation engine configuration with
// the specified match windows
func CreateReconcileConfig(notificationWindow, smsWindow time.Duration) *reconcile.Config {
	config := reconcile.DefaultConfig()

	// Apply CLI overrides
	config.NotificationWindow = notificationWindow
	config.SMSWindow = smsWindow

	return config
}

// CreateStore opens the requested store backend. The returned close function
// must be called when the store is no longer needed.
func CreateStore(backend, dbPath string) (store.Store, func() error, error) {
	switch backend {
	case "memory":
		return store.NewMemoryStore(), func() error { return nil }, nil
	case "sqlite":
		s, err := store.OpenSQLite(dbPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite store at %s: %w", dbPath, err)
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend: %s", backend)
	}
}

// CreateReportConfig creates a report configuration for the specified output format
func CreateReportConfig(format string) *report.Config {
	config := report.DefaultConfig()

	// Set output format
	switch format {
	case "console":
		config.Format = report.FormatConsole
		config.IncludeTransactions = true
		config.IncludeRejections = true
	case "json":
		config.Format = report.FormatJSON
		config.IncludeTransactions = true
		config.IncludeRejections = true
		config.MaxItems = 0
	case "csv":
		config.Format = report.FormatCSV
		config.CSVHeaders = true
		config.IncludeRejections = false // CSV is for transaction data
	}

	return config
}
