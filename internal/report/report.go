// Package report renders ingestion run summaries in several output formats.
//
// A report covers one pipeline run: how many events were seen, what happened
// to each of them, and the canonical transactions the store holds afterwards.
//
// Supported output formats:
//   - Console: human-readable output for terminal display
//   - JSON: structured data for programmatic consumption
//   - CSV: one row per stored transaction for spreadsheet tools
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MANOJ-80/0xRupex/internal/models"
	"github.com/MANOJ-80/0xRupex/internal/pipeline"
)

// OutputFormat represents the supported report output formats.
type OutputFormat string

const (
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
	FormatCSV     OutputFormat = "csv"
)

// IsValid checks if the output format is supported
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatConsole, FormatJSON, FormatCSV:
		return true
	default:
		return false
	}
}

// Config holds configuration options for report generation
type Config struct {
	Format OutputFormat `json:"format"`

	// Detail level options
	IncludeTransactions bool `json:"include_transactions"`
	IncludeRejections   bool `json:"include_rejections"`

	// CSV options
	CSVHeaders bool `json:"csv_headers"`

	// Console listing cap; zero means unlimited
	MaxItems int `json:"max_items"`
}

// DefaultConfig returns a default report configuration
func DefaultConfig() *Config {
	return &Config{
		Format:              FormatConsole,
		IncludeTransactions: true,
		IncludeRejections:   true,
		CSVHeaders:          true,
		MaxItems:            10,
	}
}

// Validate validates the report configuration
func (c *Config) Validate() error {
	if !c.Format.IsValid() {
		return fmt.Errorf("invalid output format: %s", c.Format)
	}
	if c.MaxItems < 0 {
		return fmt.Errorf("max items must not be negative, got %d", c.MaxItems)
	}
	return nil
}

// Generator renders ingestion reports in the configured format
type Generator struct {
	config *Config
}

// NewGenerator creates a report generator with the specified configuration
func NewGenerator(config *Config) (*Generator, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report configuration: %w", err)
	}
	return &Generator{config: config}, nil
}

// Generate writes a report for one pipeline run to the provided writer.
func (g *Generator) Generate(results []*pipeline.Result, stats *pipeline.Stats, transactions []*models.CanonicalTransaction, writer io.Writer) error {
	if stats == nil {
		return fmt.Errorf("pipeline stats cannot be nil")
	}

	switch g.config.Format {
	case FormatConsole:
		return g.generateConsole(results, stats, transactions, writer)
	case FormatJSON:
		return g.generateJSON(results, stats, transactions, writer)
	case FormatCSV:
		return g.generateCSV(transactions, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", g.config.Format)
	}
}

func (g *Generator) generateConsole(results []*pipeline.Result, stats *pipeline.Stats, transactions []*models.CanonicalTransaction, writer io.Writer) error {
	fmt.Fprintf(writer, "INGESTION REPORT\n")
	fmt.Fprintf(writer, "Generated: %s\n", time.Now().UTC().Format(time.RFC3339))
	fmt.Fprintf(writer, "Processing Duration: %v\n\n", stats.Elapsed)

	fmt.Fprintf(writer, "=== SUMMARY ===\n")
	g.printSummaryTable(stats, writer)
	fmt.Fprintf(writer, "\n")

	if g.config.IncludeRejections {
		rejections := collectRejections(results)
		if len(rejections) > 0 {
			fmt.Fprintf(writer, "=== REJECTED EVENTS ===\n")
			g.printRejections(rejections, writer)
			fmt.Fprintf(writer, "\n")
		}
	}

	if g.config.IncludeTransactions && len(transactions) > 0 {
		fmt.Fprintf(writer, "=== STORED TRANSACTIONS ===\n")
		g.printTransactionList(transactions, writer)
	}

	return nil
}

func (g *Generator) generateJSON(results []*pipeline.Result, stats *pipeline.Stats, transactions []*models.CanonicalTransaction, writer io.Writer) error {
	output := map[string]interface{}{
		"summary":      stats,
		"generated_at": time.Now().UTC(),
	}

	if g.config.IncludeRejections {
		rejections := collectRejections(results)
		entries := make([]map[string]interface{}, 0, len(rejections))
		for _, r := range rejections {
			entry := map[string]interface{}{
				"origin_id": r.Event.OriginID,
				"source":    r.Event.Source,
				"outcome":   r.Outcome,
			}
			if r.Reason != nil {
				entry["reason"] = r.Reason.Error()
			}
			entries = append(entries, entry)
		}
		output["rejections"] = entries
	}

	if g.config.IncludeTransactions {
		output["transactions"] = transactions
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func (g *Generator) generateCSV(transactions []*models.CanonicalTransaction, writer io.Writer) error {
	csvWriter := csv.NewWriter(writer)
	defer csvWriter.Flush()

	if g.config.CSVHeaders {
		headers := []string{
			"ID",
			"Direction",
			"Amount",
			"Merchant",
			"Category",
			"Account_Suffix",
			"Reference",
			"Origin_Label",
			"Source",
			"Confidence",
			"Transaction_At",
		}
		if err := csvWriter.Write(headers); err != nil {
			return fmt.Errorf("failed to write CSV headers: %w", err)
		}
	}

	for _, tx := range transactions {
		record := []string{
			tx.ID,
			string(tx.Direction),
			tx.Amount.StringFixed(2),
			tx.Merchant,
			tx.Category.Name,
			tx.AccountSuffix,
			tx.Reference,
			tx.OriginLabel,
			string(tx.Source),
			fmt.Sprintf("%.2f", tx.Confidence),
			tx.TransactionAt.Format("2006-01-02 15:04:05"),
		}
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("failed to write transaction record: %w", err)
		}
	}

	return nil
}

// Helper methods for console output formatting

func (g *Generator) printSummaryTable(stats *pipeline.Stats, writer io.Writer) {
	fmt.Fprintf(writer, "Events:\n")
	fmt.Fprintf(writer, "  Total:      %d\n", stats.Total)
	fmt.Fprintf(writer, "  Inserted:   %d (%.1f%%)\n",
		stats.ByOutcome[pipeline.OutcomeInserted],
		g.calculatePercentage(stats.ByOutcome[pipeline.OutcomeInserted], stats.Total))
	fmt.Fprintf(writer, "  Merged:     %d (%.1f%%)\n",
		stats.ByOutcome[pipeline.OutcomeMerged],
		g.calculatePercentage(stats.ByOutcome[pipeline.OutcomeMerged], stats.Total))
	fmt.Fprintf(writer, "  Duplicates: %d (%.1f%%)\n",
		stats.ByOutcome[pipeline.OutcomeDuplicateDropped],
		g.calculatePercentage(stats.ByOutcome[pipeline.OutcomeDuplicateDropped], stats.Total))
	fmt.Fprintf(writer, "  Rejected:   %d (%.1f%%)\n",
		stats.Rejected(), g.calculatePercentage(stats.Rejected(), stats.Total))

	if stats.Rejected() > 0 {
		fmt.Fprintf(writer, "\nRejection Breakdown:\n")
		for _, outcome := range []pipeline.Outcome{
			pipeline.OutcomeRejectedSender,
			pipeline.OutcomeRejectedUnparseable,
			pipeline.OutcomeRejectedAmbiguous,
			pipeline.OutcomeRejectedInvalid,
		} {
			if n := stats.ByOutcome[outcome]; n > 0 {
				fmt.Fprintf(writer, "  %-22s %d\n", string(outcome)+":", n)
			}
		}
	}
}

func (g *Generator) printRejections(rejections []*pipeline.Result, writer io.Writer) {
	fmt.Fprintf(writer, "Total Rejected Events: %d\n\n", len(rejections))

	for i, r := range rejections {
		reason := ""
		if r.Reason != nil {
			reason = ", Reason: " + r.Reason.Error()
		}
		fmt.Fprintf(writer, "  %d. Origin: %s, Source: %s, Outcome: %s%s\n",
			i+1, r.Event.OriginID, r.Event.Source, r.Outcome, reason)

		if g.config.MaxItems > 0 && i >= g.config.MaxItems-1 && len(rejections) > g.config.MaxItems {
			fmt.Fprintf(writer, "  ... and %d more\n", len(rejections)-g.config.MaxItems)
			break
		}
	}
}

func (g *Generator) printTransactionList(transactions []*models.CanonicalTransaction, writer io.Writer) {
	fmt.Fprintf(writer, "Total Stored Transactions: %d\n\n", len(transactions))

	for i, tx := range transactions {
		fmt.Fprintf(writer, "  %d. %s %s %s (%s) via %s at %s\n",
			i+1,
			strings.ToUpper(string(tx.Direction)),
			tx.Amount.StringFixed(2),
			tx.Merchant,
			tx.Category.Name,
			tx.OriginLabel,
			tx.TransactionAt.Format("2006-01-02 15:04:05"))

		if g.config.MaxItems > 0 && i >= g.config.MaxItems-1 && len(transactions) > g.config.MaxItems {
			fmt.Fprintf(writer, "  ... and %d more\n", len(transactions)-g.config.MaxItems)
			break
		}
	}
}

func (g *Generator) calculatePercentage(part, total int) float64 {
	if total == 0 {
		return 0.0
	}
	return float64(part) / float64(total) * 100.0
}

func collectRejections(results []*pipeline.Result) []*pipeline.Result {
	var rejections []*pipeline.Result
	for _, r := range results {
		switch r.Outcome {
		case pipeline.OutcomeRejectedSender,
			pipeline.OutcomeRejectedUnparseable,
			pipeline.OutcomeRejectedAmbiguous,
			pipeline.OutcomeRejectedInvalid:
			rejections = append(rejections, r)
		}
	}
	return rejections
}
