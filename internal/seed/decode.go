package seed

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"best-coupon/internal/model"
)

// maxLineBytes bounds a single coupon definition line.
const maxLineBytes = 1024 * 1024

// readDefinitions decodes a gzipped stream holding one JSON coupon definition per line.
// Blank lines are ignored.
func readDefinitions(ctx context.Context, r io.Reader, source string) ([]model.CreateCouponRequest, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", source, err)
	}
	defer gzipReader.Close()

	scanner := bufio.NewScanner(gzipReader)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	definitions := []model.CreateCouponRequest{}
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++

		// Check context cancellation periodically
		if lineNumber%1_000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var def model.CreateCouponRequest
		if err := json.Unmarshal(line, &def); err != nil {
			return nil, fmt.Errorf("invalid coupon definition in %s at line %d: %w", source, lineNumber, err)
		}
		definitions = append(definitions, def)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading coupon file %s: %w", source, err)
	}

	return definitions, nil
}
