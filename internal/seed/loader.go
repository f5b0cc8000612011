package seed

import (
	"context"
	"fmt"
	"os"

	"best-coupon/internal/model"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for reading gzipped coupon files from local disk.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based coupon loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "seed-file-loader").Logger(),
	}
}

// Load reads a gzipped JSON-lines coupon file.
func (l *fileLoader) Load(ctx context.Context, filePath string) ([]model.CreateCouponRequest, error) {
	l.logger.Info().Str("file", filePath).Msg("loading coupon file")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open coupon file")
		return nil, fmt.Errorf("failed to open coupon file %s: %w", filePath, err)
	}
	defer file.Close()

	definitions, err := readDefinitions(ctx, file, filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to read coupon file")
		return nil, err
	}

	l.logger.Info().
		Str("file", filePath).
		Int("definitions_loaded", len(definitions)).
		Msg("coupon file loaded successfully")

	return definitions, nil
}
