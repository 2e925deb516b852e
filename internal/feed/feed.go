// Package feed reads raw event batches from JSON Lines files: one RawEvent
// object per line. Malformed lines are collected, not fatal, so one corrupt
// delivery cannot sink a whole batch.
package feed

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/MANOJ-80/0xRupex/internal/models"
	apperrors "github.com/MANOJ-80/0xRupex/pkg/errors"
)

// maxLineBytes bounds a single event line.
const maxLineBytes = 1024 * 1024

// ParseError records one rejected line.
type ParseError struct {
	Line    int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("line %d: %s: %v", e.Line, e.Message, e.Err)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Stats summarizes one read.
type Stats struct {
	TotalLines   int
	ParsedEvents int
	SkippedLines int
	Errors       []*ParseError
}

// ReadFile reads every event from the JSONL file at path.
func ReadFile(path string) ([]models.RawEvent, *Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, apperrors.FeedError(apperrors.CodeFeedNotFound, path, err)
		}
		return nil, nil, apperrors.FeedError(apperrors.CodeFeedCorrupted, path, err)
	}
	defer f.Close()

	events, stats, err := Read(f)
	if err != nil {
		return nil, nil, apperrors.FeedError(apperrors.CodeFeedCorrupted, path, err)
	}
	return events, stats, nil
}

// Read parses events from r. Blank lines are ignored; lines that fail to
// decode or validate are skipped and recorded in the stats.
func Read(r io.Reader) ([]models.RawEvent, *Stats, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var events []models.RawEvent
	stats := &Stats{}

	for line := 1; scanner.Scan(); line++ {
		stats.TotalLines++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var event models.RawEvent
		if err := json.Unmarshal([]byte(text), &event); err != nil {
			stats.SkippedLines++
			stats.Errors = append(stats.Errors, &ParseError{
				Line: line, Message: "invalid JSON", Err: err,
			})
			continue
		}
		if err := event.Validate(); err != nil {
			stats.SkippedLines++
			stats.Errors = append(stats.Errors, &ParseError{
				Line: line, Message: "invalid event", Err: err,
			})
			continue
		}

		events = append(events, event)
		stats.ParsedEvents++
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	return events, stats, nil
}
