package seed

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"best-coupon/internal/metrics"
	"best-coupon/internal/model"

	"github.com/rs/zerolog"
)

// Result summarises a seeding run.
type Result struct {
	Files   int
	Loaded  int
	Created int
	Skipped int
}

// Seeder admits coupon definitions from seed files into the catalog.
type Seeder struct {
	loader   Loader
	admitter Admitter
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewSeeder creates a seeder. m may be nil.
func NewSeeder(loader Loader, admitter Admitter, m *metrics.Metrics, logger zerolog.Logger) *Seeder {
	return &Seeder{
		loader:   loader,
		admitter: admitter,
		metrics:  m,
		logger:   logger.With().Str("component", "seeder").Logger(),
	}
}

// Run loads every file concurrently, then admits the definitions in file order.
// Definitions whose code already exists are skipped, which makes reruns safe.
// Any other admission failure aborts the run.
func (s *Seeder) Run(ctx context.Context, filePaths []string) (*Result, error) {
	s.logger.Info().Int("file_count", len(filePaths)).Msg("seeding coupon catalog")

	batches, err := s.loadAll(ctx, filePaths)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: len(filePaths)}
	for i, batch := range batches {
		for j := range batch {
			def := &batch[j]
			result.Loaded++

			_, err := s.admitter.CreateCoupon(ctx, def)
			switch {
			case err == nil:
				result.Created++
			case errors.Is(err, model.ErrCouponExists):
				result.Skipped++
			default:
				s.metrics.ObserveSeed(result.Created, result.Skipped)
				s.logger.Error().
					Err(err).
					Str("file", filePaths[i]).
					Str("coupon_code", def.Code).
					Msg("failed to admit seed coupon")
				return nil, fmt.Errorf("failed to admit coupon %q from %s: %w", def.Code, filePaths[i], err)
			}
		}
	}

	s.metrics.ObserveSeed(result.Created, result.Skipped)
	s.logger.Info().
		Int("files", result.Files).
		Int("loaded", result.Loaded).
		Int("created", result.Created).
		Int("skipped", result.Skipped).
		Msg("coupon catalog seeded")

	return result, nil
}

// loadAll loads every file concurrently and returns the batches in input order.
func (s *Seeder) loadAll(ctx context.Context, filePaths []string) ([][]model.CreateCouponRequest, error) {
	type loadResult struct {
		index       int
		definitions []model.CreateCouponRequest
		err         error
	}

	resultChan := make(chan loadResult, len(filePaths))
	var wg sync.WaitGroup

	for i, filePath := range filePaths {
		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()

			definitions, err := s.loader.Load(ctx, path)
			resultChan <- loadResult{
				index:       index,
				definitions: definitions,
				err:         err,
			}
		}(i, filePath)
	}

	// Wait for all loads to complete
	wg.Wait()
	close(resultChan)

	// Collect results in order
	results := make([]loadResult, len(filePaths))
	for result := range resultChan {
		results[result.index] = result
	}

	batches := make([][]model.CreateCouponRequest, len(filePaths))
	for i, result := range results {
		if result.err != nil {
			s.logger.Error().
				Err(result.err).
				Str("file", filePaths[i]).
				Msg("failed to load seed file")
			return nil, fmt.Errorf("failed to load seed file %s: %w", filePaths[i], result.err)
		}
		batches[i] = result.definitions
	}

	return batches, nil
}
