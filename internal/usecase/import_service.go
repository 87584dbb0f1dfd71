package usecase

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/lojatech/catalog-import/internal/domain"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// ImportServiceConfig holds configuration for the import service
type ImportServiceConfig struct {
	EnrichmentConcurrency int
	EnrichmentTimeout     time.Duration
	YieldEvery            int
	DefaultStock          int
}

// ImportService commits reviewed product records to the catalog, one batch at a time
type ImportService struct {
	products   domain.ProductRepository
	categories domain.CategoryRepository
	enricher   domain.Enricher
	classifier *CategoryClassifier

	concurrency   int
	enrichTimeout time.Duration
	yieldEvery    int
	defaultStock  int

	// guard holds a token while a batch is running
	guard chan struct{}

	mu      sync.RWMutex
	status  domain.ImportStatus
	catalog []domain.Product
}

// NewImportService creates a new import service with dependencies.
// enricher may be nil to disable description lookups.
func NewImportService(
	products domain.ProductRepository,
	categories domain.CategoryRepository,
	enricher domain.Enricher,
	classifier *CategoryClassifier,
	config ImportServiceConfig,
) *ImportService {
	if classifier == nil {
		classifier = NewCategoryClassifier(DefaultCategoryRules(), "")
	}

	concurrency := config.EnrichmentConcurrency
	if concurrency <= 0 {
		concurrency = 5
	}

	enrichTimeout := config.EnrichmentTimeout
	if enrichTimeout <= 0 {
		enrichTimeout = 10 * time.Second
	}

	yieldEvery := config.YieldEvery
	if yieldEvery <= 0 {
		yieldEvery = 5
	}

	return &ImportService{
		products:      products,
		categories:    categories,
		enricher:      enricher,
		classifier:    classifier,
		concurrency:   concurrency,
		enrichTimeout: enrichTimeout,
		yieldEvery:    yieldEvery,
		defaultStock:  config.DefaultStock,
		guard:         make(chan struct{}, 1),
		status:        domain.ImportStatus{State: domain.ImportIdle},
	}
}

// ImportRun is a batch being committed in the background
type ImportRun struct {
	total    int
	progress chan domain.ImportProgress
	done     chan struct{}
	outcome  domain.ImportOutcome
}

// Total returns the number of records the run will commit
func (r *ImportRun) Total() int {
	return r.total
}

// Progress delivers one event per processed record, in order, and is closed
// when the run finishes. The channel is buffered for the whole batch, so
// runs never wait on slow readers.
func (r *ImportRun) Progress() <-chan domain.ImportProgress {
	return r.progress
}

// Done is closed once the outcome is available
func (r *ImportRun) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the run finishes and returns its outcome
func (r *ImportRun) Wait() domain.ImportOutcome {
	<-r.done
	return r.outcome
}

// Start begins committing the batch's selected valid records and returns
// immediately. It fails with ErrImportBusy while another batch is running,
// leaving that batch untouched. The run is detached from ctx cancellation
// and always runs to completion.
func (s *ImportService) Start(ctx context.Context, batch domain.ImportBatch) (*ImportRun, error) {
	select {
	case s.guard <- struct{}{}:
	default:
		return nil, domain.ErrImportBusy
	}

	records := recheckRecords(batch.Committable())
	if len(records) == 0 {
		<-s.guard
		return nil, domain.ErrEmptyBatch
	}
	if skipped := len(batch.Records) - len(records); skipped > 0 {
		log.Debug().Int("skipped", skipped).Msg("Ignoring invalid or unselected records")
	}

	s.mu.Lock()
	s.status.State = domain.ImportRunning
	s.status.Processed = 0
	s.status.Total = len(records)
	s.mu.Unlock()

	run := &ImportRun{
		total:    len(records),
		progress: make(chan domain.ImportProgress, len(records)),
		done:     make(chan struct{}),
	}

	log.Info().Int("total", run.total).Msg("Import started")
	go s.run(context.WithoutCancel(ctx), records, run)

	return run, nil
}

// recheckRecords drops records that fail the name or price rules even
// though they arrive marked valid
func recheckRecords(records []domain.ParsedProductRecord) []domain.ParsedProductRecord {
	out := records[:0:0]
	for _, rec := range records {
		if reason := Recheck(rec); reason != "" {
			log.Warn().Int("line", rec.LineNumber).Str("name", rec.Name).Str("reason", reason).Msg("Dropping record marked valid")
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Commit runs a batch to completion, calling onProgress after every record
func (s *ImportService) Commit(
	ctx context.Context,
	batch domain.ImportBatch,
	onProgress func(domain.ImportProgress),
) (domain.ImportOutcome, error) {
	run, err := s.Start(ctx, batch)
	if err != nil {
		return domain.ImportOutcome{}, err
	}

	for p := range run.Progress() {
		if onProgress != nil {
			onProgress(p)
		}
	}
	return run.Wait(), nil
}

// Status returns the current state and progress of the service
func (s *ImportService) Status() domain.ImportStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Catalog returns the product list read at the end of the last run
func (s *ImportService) Catalog() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Product, len(s.catalog))
	copy(out, s.catalog)
	return out
}

// run commits records in windows: descriptions for a window are fetched
// concurrently, then its records are inserted one by one in input order
func (s *ImportService) run(ctx context.Context, records []domain.ParsedProductRecord, run *ImportRun) {
	outcome := domain.ImportOutcome{StartedAt: time.Now()}
	defer s.finish(run, &outcome)

	resolver := newCategoryResolver(s.categories, s.classifier)
	processed := 0

	for start := 0; start < len(records); start += s.concurrency {
		window := records[start:min(start+s.concurrency, len(records))]
		descriptions := s.enrichWindow(ctx, window)

		for i, rec := range window {
			if descriptions[i] != "" {
				rec.Description = descriptions[i]
			}

			product, err := s.commitRecord(ctx, resolver, rec)
			if err != nil {
				outcome.FailureCount++
				outcome.Failures = append(outcome.Failures, domain.ImportFailure{
					Line:  rec.LineNumber,
					Name:  rec.Name,
					Error: err.Error(),
				})
				log.Warn().Err(err).Int("line", rec.LineNumber).Str("name", rec.Name).Msg("Import of record failed")
			} else {
				outcome.SuccessCount++
				outcome.Created = append(outcome.Created, *product)
			}

			processed++
			s.setProgress(processed)
			run.progress <- domain.ImportProgress{Processed: processed, Total: run.total}

			if processed%s.yieldEvery == 0 {
				runtime.Gosched()
			}
		}
	}

	s.refreshCatalog(ctx)
}

// finish publishes the outcome and releases the guard. A panic in the run is recovered here and the records that were
// not committed are counted as failures.
func (s *ImportService) finish(run *ImportRun, outcome *domain.ImportOutcome) {
	if r := recover(); r != nil {
		log.Error().Interface("panic", r).Msg("Import aborted")
		outcome.FailureCount = run.total - outcome.SuccessCount
		outcome.Failures = append(outcome.Failures, domain.ImportFailure{
			Error: fmt.Sprintf("import aborted: %v", r),
		})
	}

	outcome.FinishedAt = time.Now()
	run.outcome = *outcome

	log.Info().
		Int("success", outcome.SuccessCount).
		Int("failed", outcome.FailureCount).
		Dur("took", outcome.FinishedAt.Sub(outcome.StartedAt)).
		Msg("Import finished")

	last := run.outcome
	s.mu.Lock()
	s.status.State = domain.ImportIdle
	s.status.LastOutcome = &last
	s.mu.Unlock()

	<-s.guard
	close(run.progress)
	close(run.done)
}

// enrichWindow fetches descriptions for the records that need one. Results
// are slotted by index; failed lookups leave an empty string.
func (s *ImportService) enrichWindow(ctx context.Context, window []domain.ParsedProductRecord) []string {
	descriptions := make([]string, len(window))
	if s.enricher == nil {
		return descriptions
	}

	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for i, rec := range window {
		if !rec.NeedsEnrichment() {
			continue
		}
		g.Go(func() error {
			ectx, cancel := context.WithTimeout(ctx, s.enrichTimeout)
			defer cancel()

			res, err := s.enricher.Enrich(ectx, domain.EnrichmentRequest{URL: rec.SourceURL, Name: rec.Name})
			if err != nil {
				log.Debug().Err(err).Str("url", rec.SourceURL).Msg("Enrichment skipped")
				return nil
			}
			if res != nil {
				descriptions[i] = strings.TrimSpace(res.Description)
			}
			return nil
		})
	}

	_ = g.Wait()
	return descriptions
}

// commitRecord inserts one record, retrying once with the base field set
// when the store rejects the optional attributes
func (s *ImportService) commitRecord(ctx context.Context, resolver *categoryResolver, rec domain.ParsedProductRecord) (*domain.Product, error) {
	categoryID, err := resolver.Resolve(ctx, rec.Category)
	if err != nil {
		log.Warn().Err(err).Str("category", rec.Category).Msg("Inserting without category")
	}

	cost := rec.Price
	if rec.CostPrice != nil {
		cost = *rec.CostPrice
	}

	input := domain.ProductInput{
		Name:        rec.Name,
		Description: rec.Description,
		Price:       rec.Price,
		CostPrice:   cost,
		Image:       rec.Image,
		CategoryID:  categoryID,
		Stock:       s.defaultStock,
		SourceURL:   rec.SourceURL,
		Tags:        rec.Tags,
		Attributes:  rec.Attributes,
	}

	product, err := s.products.Insert(ctx, input)
	if errors.Is(err, domain.ErrSchemaMismatch) {
		log.Warn().Err(err).Str("name", rec.Name).Msg("Retrying insert with base fields")
		product, err = s.products.Insert(ctx, input.Reduced())
	}
	if err != nil {
		return nil, fmt.Errorf("inserting %q: %w", rec.Name, err)
	}
	return product, nil
}

func (s *ImportService) setProgress(processed int) {
	s.mu.Lock()
	s.status.Processed = processed
	s.mu.Unlock()
}

// refreshCatalog reloads the full product list after a run
func (s *ImportService) refreshCatalog(ctx context.Context) {
	products, err := s.products.ListAll(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Catalog refresh failed")
		return
	}

	s.mu.Lock()
	s.catalog = products
	s.status.CatalogSize = len(products)
	s.mu.Unlock()
}
