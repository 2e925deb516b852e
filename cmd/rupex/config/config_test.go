package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/MANOJ-80/0xRupex/internal/report"
	"github.com/MANOJ-80/0xRupex/pkg/logger"
)

func TestCreateLoggerConfig(t *testing.T) {
	quiet := CreateLoggerConfig(false)
	if quiet.Level != logger.WarnLevel {
		t.Errorf("non-verbose level = %s, want warn", quiet.Level)
	}

	loud := CreateLoggerConfig(true)
	if loud.Level != logger.DebugLevel {
		t.Errorf("verbose level = %s, want debug", loud.Level)
	}
}

func TestCreateSenderConfig(t *testing.T) {
	if CreateSenderConfig(false).AllowTestSender {
		t.Error("test sender should be rejected by default")
	}
	if !CreateSenderConfig(true).AllowTestSender {
		t.Error("test sender flag not applied")
	}
}

func TestCreateReconcileConfig(t *testing.T) {
	config := CreateReconcileConfig(15*time.Minute, 45*time.Minute)

	if config.NotificationWindow != 15*time.Minute {
		t.Errorf("NotificationWindow = %v, want 15m", config.NotificationWindow)
	}
	if config.SMSWindow != 45*time.Minute {
		t.Errorf("SMSWindow = %v, want 45m", config.SMSWindow)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("config should be valid: %v", err)
	}
}

func TestCreateStore(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		s, closeStore, err := CreateStore("memory", "")
		if err != nil {
			t.Fatalf("CreateStore(memory) error = %v", err)
		}
		defer closeStore()
		if s == nil {
			t.Fatal("expected a store")
		}
	})

	t.Run("sqlite", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "ledger.db")
		s, closeStore, err := CreateStore("sqlite", dbPath)
		if err != nil {
			t.Fatalf("CreateStore(sqlite) error = %v", err)
		}
		defer closeStore()
		if s == nil {
			t.Fatal("expected a store")
		}
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, _, err := CreateStore("postgres", "")
		if err == nil {
			t.Fatal("expected error for unknown backend")
		}
	})
}

func TestCreateReportConfig(t *testing.T) {
	tests := []struct {
		format     string
		wantFormat report.OutputFormat
	}{
		{"console", report.FormatConsole},
		{"json", report.FormatJSON},
		{"csv", report.FormatCSV},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			config := CreateReportConfig(tt.format)
			if config.Format != tt.wantFormat {
				t.Errorf("Format = %s, want %s", config.Format, tt.wantFormat)
			}
			if err := config.Validate(); err != nil {
				t.Errorf("config should be valid: %v", err)
			}
		})
	}

	if CreateReportConfig("json").MaxItems != 0 {
		t.Error("JSON output should not truncate listings")
	}
	if CreateReportConfig("csv").IncludeRejections {
		t.Error("CSV output should exclude rejections")
	}
}
