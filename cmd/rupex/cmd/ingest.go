package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/MANOJ-80/0xRupex/cmd/rupex/config"
	"github.com/MANOJ-80/0xRupex/internal/feed"
	"github.com/MANOJ-80/0xRupex/internal/pipeline"
	"github.com/MANOJ-80/0xRupex/internal/reconcile"
	"github.com/MANOJ-80/0xRupex/internal/report"
	"github.com/MANOJ-80/0xRupex/internal/sender"
	"github.com/MANOJ-80/0xRupex/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags for the ingest command
var (
	eventsFile   string
	storeBackend string
	dbPath       string
	outputFormat string
	outputFile   string
	concurrency  int

	notificationWindow time.Duration
	smsWindow          time.Duration

	allowTestSender bool
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest raw events and reconcile them into the ledger",
	Long: `Ingest reads raw bank SMS and payment-app notification events from a
JSON Lines file, extracts candidate transactions, and reconciles them into
a canonical transaction ledger.

Each input line is one JSON object with origin_id, source (sms or
notification), optional title, text, and observed_at fields.

Examples:
  # Basic ingestion into an in-memory ledger, report to stdout
  rupex ingest --events events.jsonl

  # Persistent SQLite ledger with JSON report
  rupex ingest --events events.jsonl --store sqlite --db ledger.db \
    --output-format json --output-file report.json

  # Wider matching windows for delayed bank SMS
  rupex ingest --events events.jsonl --sms-window 45m --notification-window 15m`,

	PreRunE: validateIngestFlags,
	RunE:    runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	// Required flags
	ingestCmd.Flags().StringVarP(&eventsFile, "events", "e", "", "path to JSONL raw event file (required)")

	// Store flags
	ingestCmd.Flags().StringVar(&storeBackend, "store", "memory", "store backend: memory, sqlite")
	ingestCmd.Flags().StringVar(&dbPath, "db", "rupex.db", "SQLite database path (sqlite store only)")

	// Output flags
	ingestCmd.Flags().StringVarP(&outputFormat, "output-format", "f", "console", "output format: console, json, csv")
	ingestCmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "output file path (default: stdout)")

	// Processing flags
	ingestCmd.Flags().IntVar(&concurrency, "concurrency", 4, "maximum concurrent event processing")
	ingestCmd.Flags().DurationVar(&notificationWindow, "notification-window", reconcile.DefaultConfig().NotificationWindow,
		"match window when a notification arrives after its SMS")
	ingestCmd.Flags().DurationVar(&smsWindow, "sms-window", reconcile.DefaultConfig().SMSWindow,
		"match window when an SMS arrives after its notification")

	// Harness testing only
	ingestCmd.Flags().BoolVar(&allowTestSender, "allow-test-sender", false, "accept the fixed test sender id")
	ingestCmd.Flags().MarkHidden("allow-test-sender")

	ingestCmd.MarkFlagRequired("events")

	// Bind flags to viper
	viper.BindPFlag("events", ingestCmd.Flags().Lookup("events"))
	viper.BindPFlag("store", ingestCmd.Flags().Lookup("store"))
	viper.BindPFlag("db", ingestCmd.Flags().Lookup("db"))
	viper.BindPFlag("output-format", ingestCmd.Flags().Lookup("output-format"))
	viper.BindPFlag("output-file", ingestCmd.Flags().Lookup("output-file"))
	viper.BindPFlag("concurrency", ingestCmd.Flags().Lookup("concurrency"))
	viper.BindPFlag("notification-window", ingestCmd.Flags().Lookup("notification-window"))
	viper.BindPFlag("sms-window", ingestCmd.Flags().Lookup("sms-window"))
	viper.BindPFlag("allow-test-sender", ingestCmd.Flags().Lookup("allow-test-sender"))
}

func validateIngestFlags(cmd *cobra.Command, args []string) error {
	// Get values from viper (allows override from config file)
	eventsFile = viper.GetString("events")
	storeBackend = viper.GetString("store")
	dbPath = viper.GetString("db")
	outputFormat = viper.GetString("output-format")
	outputFile = viper.GetString("output-file")
	concurrency = viper.GetInt("concurrency")
	notificationWindow = viper.GetDuration("notification-window")
	smsWindow = viper.GetDuration("sms-window")
	allowTestSender = viper.GetBool("allow-test-sender")

	if eventsFile == "" {
		return fmt.Errorf("events file is required")
	}
	if err := validateFileExists(eventsFile, "event feed file"); err != nil {
		return err
	}

	validBackends := map[string]bool{"memory": true, "sqlite": true}
	if !validBackends[storeBackend] {
		return fmt.Errorf("invalid store backend '%s'. Valid backends: memory, sqlite", storeBackend)
	}
	if storeBackend == "sqlite" && dbPath == "" {
		return fmt.Errorf("db path is required for the sqlite store")
	}

	validFormats := map[string]bool{"console": true, "json": true, "csv": true}
	if !validFormats[outputFormat] {
		return fmt.Errorf("invalid output format '%s'. Valid formats: console, json, csv", outputFormat)
	}

	if concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}
	if notificationWindow <= 0 || smsWindow <= 0 {
		return fmt.Errorf("match windows must be positive durations")
	}

	// Validate output file directory exists if specified
	if outputFile != "" {
		dir := filepath.Dir(outputFile)
		if dir != "." {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				return fmt.Errorf("output directory does not exist: %s", dir)
			}
		}
	}

	return nil
}

func validateFileExists(filePath, description string) error {
	if filePath == "" {
		return fmt.Errorf("%s path cannot be empty", description)
	}

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s does not exist: %s", description, filePath)
	}
	if err != nil {
		return fmt.Errorf("error accessing %s: %w", description, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%s is a directory, expected a file: %s", description, filePath)
	}

	return nil
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	log, err := logger.NewLogger(config.CreateLoggerConfig(viper.GetBool("verbose")))
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	logger.SetGlobalLogger(log)

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "Starting ingestion...\n")
		fmt.Fprintf(os.Stderr, "Event feed: %s\n", eventsFile)
		fmt.Fprintf(os.Stderr, "Store backend: %s\n", storeBackend)
		fmt.Fprintf(os.Stderr, "Output format: %s\n", outputFormat)
		if outputFile != "" {
			fmt.Fprintf(os.Stderr, "Output file: %s\n", outputFile)
		}
	}

	// Read the event feed first so a bad file fails before any store setup.
	events, feedStats, err := feed.ReadFile(eventsFile)
	if err != nil {
		return err
	}
	if feedStats.SkippedLines > 0 {
		log.WithComponent("feed").Warnf("skipped %d malformed feed lines", feedStats.SkippedLines)
		if viper.GetBool("verbose") {
			for _, lineErr := range feedStats.Errors {
				fmt.Fprintf(os.Stderr, "  %v\n", lineErr)
			}
		}
	}

	// Assemble the pipeline
	st, closeStore, err := config.CreateStore(storeBackend, dbPath)
	if err != nil {
		return err
	}
	defer closeStore()

	engine, err := reconcile.NewEngine(st, config.CreateReconcileConfig(notificationWindow, smsWindow), log)
	if err != nil {
		return fmt.Errorf("failed to create reconciliation engine: %w", err)
	}

	classifier := sender.NewClassifier(config.CreateSenderConfig(allowTestSender))
	processor := pipeline.NewProcessor(classifier, engine, log)
	queue := pipeline.NewQueue(processor, concurrency)

	results, stats, err := queue.Run(ctx, events)
	if err != nil {
		return err
	}

	transactions, err := st.All(ctx)
	if err != nil {
		return err
	}

	// Generate report
	generator, err := report.NewGenerator(config.CreateReportConfig(outputFormat))
	if err != nil {
		return fmt.Errorf("failed to create report generator: %w", err)
	}

	// Determine output destination
	var output *os.File
	if outputFile != "" {
		output, err = os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer output.Close()
	} else {
		output = os.Stdout
	}

	if err := generator.Generate(results, stats, transactions, output); err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "\nIngestion completed successfully.\n")
		fmt.Fprintf(os.Stderr, "Processed %d events: %d stored, %d merged, %d duplicates, %d rejected.\n",
			stats.Total,
			stats.ByOutcome[pipeline.OutcomeInserted],
			stats.ByOutcome[pipeline.OutcomeMerged],
			stats.ByOutcome[pipeline.OutcomeDuplicateDropped],
			stats.Rejected())
		fmt.Fprintf(os.Stderr, "Ledger now holds %d transactions.\n", len(transactions))
		fmt.Fprintf(os.Stderr, "Processing time: %v\n", stats.Elapsed)
	}

	return nil
}
