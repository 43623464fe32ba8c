// Package pricing looks up market prices for comic issues from external
// pricing services. Lookups never fail: when a service has no match or the
// request errors, the adapter degrades to synthetic data so callers always
// get a usable record.
package pricing

import (
	"context"
	"time"
)

// GradePrice is one market price point at a given condition grade.
type GradePrice struct {
	Grade    string  `json:"grade"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
}

// Record is a market-price snapshot for one (title, issueNumber) pair.
// Lowest, highest and average are derived from Prices, never set directly.
type Record struct {
	Title        string       `json:"title"`
	IssueNumber  string       `json:"issueNumber"`
	Prices       []GradePrice `json:"prices"`
	AveragePrice float64      `json:"averagePrice"`
	LowestPrice  float64      `json:"lowestPrice"`
	HighestPrice float64      `json:"highestPrice"`
	LastUpdated  time.Time    `json:"lastUpdated"`
	Source       string       `json:"source"`
}

// Source provenance labels.
const (
	SourcePriceCharting = "PriceCharting"
	SourceGoCollect     = "GoCollect"
	SourceMock          = "Mock Data"
)

// Source is a pricing provider. Implementations degrade to synthetic data
// instead of returning an error.
type Source interface {
	LookupPricing(ctx context.Context, title, issueNumber string) *Record
}

// The grade ladder maps one reference price to per-grade prices. The
// multipliers are a uniform heuristic regardless of title or rarity; see
// DESIGN.md before treating them as real market ratios. The ladder uses
// coarser grade ranges than the 13-point condition scale on purpose: these
// are price brackets, not assessed conditions.
var ladder = []struct {
	grade string
	mult  float64
}{
	{"Gem Mint (9.8-10)", 1.0},
	{"Near Mint (9.0-9.6)", 0.75},
	{"Very Fine (8.0-8.5)", 0.5},
	{"Fine (6.0-7.5)", 0.3},
	{"Very Good (4.0-5.5)", 0.15},
}

// fromBase builds a record by applying the grade ladder to a single
// reference price. Non-positive derived prices are dropped before the
// derived stats are computed. Returns nil when nothing survives the
// filter (base <= 0), in which case the caller falls back.
func fromBase(title, issueNumber string, base float64, source string, now time.Time) *Record {
	prices := make([]GradePrice, 0, len(ladder))
	for _, tier := range ladder {
		p := base * tier.mult
		if p <= 0 {
			continue
		}
		prices = append(prices, GradePrice{Grade: tier.grade, Price: p, Currency: "USD"})
	}
	return fromPrices(title, issueNumber, prices, source, now)
}

// fromPrices builds a record from explicit per-grade prices, dropping
// non-positive entries. Returns nil when the filtered list is empty so the
// average is never computed over zero entries.
func fromPrices(title, issueNumber string, prices []GradePrice, source string, now time.Time) *Record {
	valid := make([]GradePrice, 0, len(prices))
	for _, p := range prices {
		if p.Price > 0 {
			valid = append(valid, p)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	sum := 0.0
	low := valid[0].Price
	high := valid[0].Price
	for _, p := range valid {
		sum += p.Price
		if p.Price < low {
			low = p.Price
		}
		if p.Price > high {
			high = p.Price
		}
	}

	return &Record{
		Title:        title,
		IssueNumber:  issueNumber,
		Prices:       valid,
		AveragePrice: sum / float64(len(valid)),
		LowestPrice:  low,
		HighestPrice: high,
		LastUpdated:  now,
		Source:       source,
	}
}
