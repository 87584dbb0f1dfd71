package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/lojatech/catalog-import/config"
	"github.com/lojatech/catalog-import/internal/app"
	"github.com/lojatech/catalog-import/internal/domain"
	"github.com/lojatech/catalog-import/internal/infrastructure/spreadsheet"
	"github.com/lojatech/catalog-import/internal/logging"
	"github.com/lojatech/catalog-import/internal/usecase"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// options are the command-line flags; most also read the service's
// CATALOG_* environment variables
type options struct {
	Input           string `long:"input" short:"i" default:"-" description:"Text file with one product per line, or - for stdin"`
	XLSX            string `long:"xlsx" description:"Read products from an xlsx workbook instead of text"`
	DB              string `long:"db" env:"CATALOG_STORAGE_SQLITE_PATH" default:"catalog.db" description:"SQLite catalog path"`
	PostgresDSN     string `long:"postgres-dsn" env:"CATALOG_STORAGE_POSTGRES_DSN" description:"Use PostgreSQL instead of SQLite"`
	RulesFile       string `long:"rules" env:"CATALOG_IMPORT_RULES_FILE" description:"YAML category rules file"`
	DefaultCategory string `long:"default-category" description:"Category used when auto detection is off or finds nothing"`
	AutoCategory    bool   `long:"auto-category" description:"Detect categories from product names"`
	Margin          string `long:"margin" default:"0" description:"Profit margin in percent applied over the pasted price"`
	Tags            string `long:"tags" description:"Comma-separated tags added to every product"`
	Ribbon          string `long:"ribbon" description:"Ribbon label added as a badge tag"`
	Commit          bool   `long:"commit" description:"Write valid records to the catalog"`
	Enrich          bool   `long:"enrich" description:"Fetch descriptions from product pages while committing"`
	GeminiAPIKey    string `long:"gemini-api-key" env:"CATALOG_ENRICHMENT_GEMINI_API_KEY" description:"Gemini key for generated descriptions"`
	LogLevel        string `long:"log-level" env:"CATALOG_LOG_LEVEL" default:"warn" description:"Log level"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		return err
	}

	if err := logging.Setup(opts.LogLevel, "console"); err != nil {
		return err
	}

	cfg := opts.config()

	importCfg, err := opts.importConfiguration()
	if err != nil {
		return err
	}

	classifier, err := app.NewClassifier(cfg.Import)
	if err != nil {
		return err
	}

	records, err := opts.parse(usecase.NewParseService(classifier), importCfg, stdin)
	if err != nil {
		return err
	}
	printReview(stdout, records)

	if !opts.Commit {
		return nil
	}
	return commit(ctx, cfg, classifier, records, stdout)
}

// config maps the flags onto the service configuration
func (o options) config() *config.Config {
	cfg := &config.Config{
		Storage: config.StorageConfig{Driver: "sqlite", SQLitePath: o.DB, AutoMigrate: true},
		Enrichment: config.EnrichmentConfig{
			Enabled:           o.Enrich,
			Timeout:           10 * time.Second,
			RequestsPerSecond: 2,
			Burst:             5,
			Concurrency:       5,
			GeminiAPIKey:      o.GeminiAPIKey,
		},
		Cache:  config.CacheConfig{TTL: time.Hour},
		Import: config.ImportConfig{YieldEvery: 5, RulesFile: o.RulesFile},
	}
	if o.PostgresDSN != "" {
		cfg.Storage.Driver = "postgres"
		cfg.Storage.PostgresDSN = o.PostgresDSN
	}
	return cfg
}

func (o options) importConfiguration() (domain.ImportConfiguration, error) {
	margin, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(o.Margin), ",", "."))
	if err != nil {
		return domain.ImportConfiguration{}, fmt.Errorf("invalid --margin %q: %w", o.Margin, err)
	}

	return domain.ImportConfiguration{
		DefaultCategory:    o.DefaultCategory,
		AutoDetectCategory: o.AutoCategory,
		ProfitMargin:       margin,
		DefaultTags:        domain.ParseTagList(o.Tags),
		RibbonLabel:        strings.TrimSpace(o.Ribbon),
	}, nil
}

func (o options) parse(parser *usecase.ParseService, cfg domain.ImportConfiguration, stdin io.Reader) ([]domain.ParsedProductRecord, error) {
	if o.XLSX != "" {
		f, err := os.Open(o.XLSX)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		rows, err := spreadsheet.ReadRows(f)
		if err != nil {
			return nil, err
		}
		return parser.ParseRows(rows, cfg), nil
	}

	in := stdin
	if o.Input != "-" {
		f, err := os.Open(o.Input)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in = f
	}

	text, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return parser.Parse(string(text), cfg), nil
}

// printReview writes one row per parsed record and a summary line
func printReview(w io.Writer, records []domain.ParsedProductRecord) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LINE\tSTATUS\tNAME\tPRICE\tCATEGORY\tNOTE")

	valid := 0
	for _, r := range records {
		status, note := "ok", ""
		if r.IsValid {
			valid++
		} else {
			status, note = "skip", r.ValidationError
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", r.LineNumber, status, r.Name, r.Price.StringFixed(2), r.Category, note)
	}
	tw.Flush()

	fmt.Fprintf(w, "\n%d records, %d valid, %d invalid\n", len(records), valid, len(records)-valid)
}

func commit(ctx context.Context, cfg *config.Config, classifier *usecase.CategoryClassifier, records []domain.ParsedProductRecord, w io.Writer) error {
	store, err := app.OpenStore(cfg.Storage)
	if err != nil {
		return err
	}
	defer store.Close()

	enricher, stopEnricher, err := app.NewEnricher(ctx, cfg)
	if err != nil {
		return err
	}
	defer stopEnricher()

	imports := app.NewImportService(cfg, store, enricher, classifier)
	outcome, err := imports.Commit(ctx, domain.ImportBatch{Records: records}, func(p domain.ImportProgress) {
		fmt.Fprintf(w, "\rimporting %d/%d", p.Processed, p.Total)
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "\nimported %d, failed %d in %s\n",
		outcome.SuccessCount, outcome.FailureCount, outcome.FinishedAt.Sub(outcome.StartedAt).Round(time.Millisecond))
	for _, f := range outcome.Failures {
		fmt.Fprintf(w, "  line %d %q: %s\n", f.Line, f.Name, f.Error)
	}
	log.Debug().Int("catalog_size", imports.Status().CatalogSize).Msg("Import finished")

	return nil
}
