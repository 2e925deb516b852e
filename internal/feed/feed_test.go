package feed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/MANOJ-80/0xRupex/pkg/errors"
)

const sampleBatch = `{"origin_id":"VM-IOBCHN","source":"sms","text":"Your a/c XXXXX95 debited for Rs. 350.00","observed_at":"2025-09-10T12:30:00Z"}

{"origin_id":"com.phonepe.app","source":"notification","title":"Payment Successful","text":"Paid ₹120.00 to STARBUCKS","observed_at":"2025-09-10T12:31:00Z"}
{not valid json}
{"origin_id":"VM-IOBCHN","source":"sms","text":"","observed_at":"2025-09-10T12:32:00Z"}
{"origin_id":"AX-HDFCBK","source":"sms","text":"Rs.499.00 debited A/c **4532","observed_at":"2025-09-10T12:33:00Z"}
`

func writeBatch(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.jsonl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestReadFileCollectsLineErrors(t *testing.T) {
	path := writeBatch(t, sampleBatch)

	events, stats, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if len(events) != 3 {
		t.Fatalf("parsed %d events, want 3", len(events))
	}
	if events[0].OriginID != "VM-IOBCHN" {
		t.Errorf("events[0].OriginID = %q, want %q", events[0].OriginID, "VM-IOBCHN")
	}
	if events[1].Title != "Payment Successful" {
		t.Errorf("events[1].Title = %q, want %q", events[1].Title, "Payment Successful")
	}
	if events[2].OriginID != "AX-HDFCBK" {
		t.Errorf("events[2].OriginID = %q, want %q", events[2].OriginID, "AX-HDFCBK")
	}

	if stats.ParsedEvents != 3 {
		t.Errorf("stats.ParsedEvents = %d, want 3", stats.ParsedEvents)
	}
	if stats.SkippedLines != 2 {
		t.Errorf("stats.SkippedLines = %d, want 2", stats.SkippedLines)
	}
	if len(stats.Errors) != 2 {
		t.Fatalf("len(stats.Errors) = %d, want 2", len(stats.Errors))
	}
	if stats.Errors[0].Line != 4 {
		t.Errorf("first error on line %d, want 4", stats.Errors[0].Line)
	}
	if !strings.Contains(stats.Errors[0].Error(), "invalid JSON") {
		t.Errorf("first error = %q, want JSON decode failure", stats.Errors[0].Error())
	}
	if stats.Errors[1].Line != 5 {
		t.Errorf("second error on line %d, want 5", stats.Errors[1].Line)
	}
	if !strings.Contains(stats.Errors[1].Error(), "invalid event") {
		t.Errorf("second error = %q, want validation failure", stats.Errors[1].Error())
	}
}

func TestReadFileMissing(t *testing.T) {
	_, _, err := ReadFile(filepath.Join(t.TempDir(), "nope.jsonl"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}

	engineErr, ok := apperrors.AsEngineError(err)
	if !ok {
		t.Fatalf("expected EngineError, got %T", err)
	}
	if engineErr.Code != apperrors.CodeFeedNotFound {
		t.Errorf("Code = %q, want %q", engineErr.Code, apperrors.CodeFeedNotFound)
	}
}

func TestReadEmptyInput(t *testing.T) {
	events, stats, err := Read(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(events) != 0 {
		t.Errorf("parsed %d events, want 0", len(events))
	}
	if stats.TotalLines != 0 {
		t.Errorf("stats.TotalLines = %d, want 0", stats.TotalLines)
	}
}
