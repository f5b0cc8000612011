package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"best-coupon/internal/model"

	"github.com/shopspring/decimal"
)

// generateSampleCoupons writes a gzipped JSON-lines seed catalog to data/coupons.jsonl.gz.
// Each line is a coupon definition in the POST /create-coupon shape.
func main() {
	filePath := filepath.Join("data", "coupons.jsonl.gz")

	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	coupons := sampleCoupons()
	if err := createCouponFile(filePath, coupons); err != nil {
		log.Fatalf("Failed to create %s: %v", filePath, err)
	}

	fmt.Printf("Created %s with %d coupons\n", filePath, len(coupons))
	for _, c := range coupons {
		fmt.Printf("  - %-12s %-8s %s\n", c.Code, c.DiscountType, c.Description)
	}
}

func sampleCoupons() []model.CreateCouponRequest {
	amount := func(v int64) *decimal.Decimal {
		d := decimal.NewFromInt(v)
		return &d
	}
	limit := func(n int) *int { return &n }

	return []model.CreateCouponRequest{
		{
			Code:              "WELCOME100",
			Description:       "Flat 100 off for first-time shoppers",
			DiscountType:      string(model.DiscountFlat),
			MaxDiscountAmount: amount(100),
			StartDate:         "2025-01-01",
			EndDate:           "2026-12-31",
			UsageLimitPerUser: limit(1),
		},
		{
			Code:                 "ELEC10",
			Description:          "10 percent off electronics",
			DiscountType:         string(model.DiscountPercent),
			MaxDiscountAmount:    amount(10),
			StartDate:            "2025-01-01",
			EndDate:              "2026-06-30",
			ApplicableCategories: []string{"electronics"},
		},
		{
			Code:              "INDIA50",
			Description:       "Flat 50 off in India",
			DiscountType:      string(model.DiscountFlat),
			MaxDiscountAmount: amount(50),
			StartDate:         "2025-01-01",
			EndDate:           "2026-12-31",
			AllowedCountries:  []string{"IN"},
		},
		{
			Code:               "NOGIFT25",
			Description:        "Flat 25 off, not valid on gift cards",
			DiscountType:       string(model.DiscountFlat),
			MaxDiscountAmount:  amount(25),
			StartDate:          "2025-01-01",
			EndDate:            "2026-12-31",
			ExcludedCategories: []string{"gift-cards"},
		},
		{
			Code:              "LOYAL5",
			Description:       "5 percent for returning shoppers",
			DiscountType:      string(model.DiscountPercent),
			MaxDiscountAmount: amount(5),
			StartDate:         "2025-01-01",
			EndDate:           "2026-12-31",
			UsageLimitPerUser: limit(10),
		},
	}
}

func createCouponFile(filePath string, coupons []model.CreateCouponRequest) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	encoder := json.NewEncoder(gzipWriter)
	for _, c := range coupons {
		if err := encoder.Encode(c); err != nil {
			return fmt.Errorf("failed to write coupon %s: %w", c.Code, err)
		}
	}

	return nil
}
