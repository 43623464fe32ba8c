package pricing

import (
	"context"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func assertInvariants(t *testing.T, r *Record) {
	t.Helper()
	require.NotNil(t, r)
	require.NotEmpty(t, r.Prices)

	sum := 0.0
	low := r.Prices[0].Price
	high := r.Prices[0].Price
	for _, p := range r.Prices {
		assert.Greater(t, p.Price, 0.0)
		assert.Equal(t, "USD", p.Currency)
		sum += p.Price
		if p.Price < low {
			low = p.Price
		}
		if p.Price > high {
			high = p.Price
		}
	}
	assert.InDelta(t, low, r.LowestPrice, 1e-9)
	assert.InDelta(t, high, r.HighestPrice, 1e-9)
	assert.InDelta(t, sum/float64(len(r.Prices)), r.AveragePrice, 1e-9)
	assert.LessOrEqual(t, r.LowestPrice, r.AveragePrice)
	assert.LessOrEqual(t, r.AveragePrice, r.HighestPrice)
}

func TestSyntheticGenerate(t *testing.T) {
	s := NewSynthetic(rand.New(rand.NewSource(7)))
	s.now = fixedNow

	r := s.Generate("Amazing Spider-Man", "300")

	assertInvariants(t, r)
	assert.Equal(t, SourceMock, r.Source)
	assert.Equal(t, "Amazing Spider-Man", r.Title)
	assert.Equal(t, "300", r.IssueNumber)
	assert.Len(t, r.Prices, 5)

	// Ladder ratios relative to the drawn base
	base := r.Prices[0].Price
	assert.GreaterOrEqual(t, base, 50.0)
	assert.Less(t, base, 550.0)
	wantMults := []float64{1.0, 0.75, 0.5, 0.3, 0.15}
	for i, m := range wantMults {
		assert.InDelta(t, base*m, r.Prices[i].Price, 1e-9)
	}
	assert.Equal(t, fixedNow(), r.LastUpdated)
}

func TestSyntheticDeterministicWithSeed(t *testing.T) {
	a := NewSynthetic(rand.New(rand.NewSource(99)))
	b := NewSynthetic(rand.New(rand.NewSource(99)))
	a.now = fixedNow
	b.now = fixedNow

	assert.Equal(t, a.Generate("X-Men", "1"), b.Generate("X-Men", "1"))
}

func TestSyntheticHistory(t *testing.T) {
	s := NewSynthetic(rand.New(rand.NewSource(3)))
	s.now = fixedNow

	history := s.History("X-Men", "1", 90)

	require.Len(t, history, 91)
	assert.Equal(t, "2025-12-01", history[0].Date)
	assert.Equal(t, "2026-03-01", history[90].Date)
	for _, p := range history {
		assert.GreaterOrEqual(t, p.Price, 10.0)
	}
}

func TestPriceChartingLookup(t *testing.T) {
	var reqs []*http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqs = append(reqs, r)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/products":
			w.Write([]byte(`{"products":[{"id":"6910","product-name":"Amazing Spider-Man #300"}]}`))
		case "/products/6910/prices":
			w.Write([]byte(`{"prices":{"loose":{"value":200}}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	c := NewPriceChartingClient(PriceChartingOpts{BaseURL: ts.URL}, NewSynthetic(rand.New(rand.NewSource(1))))
	c.now = fixedNow

	r := c.LookupPricing(context.Background(), "Amazing Spider-Man", "300")

	assertInvariants(t, r)
	assert.Equal(t, SourcePriceCharting, r.Source)
	assert.Equal(t, 200.0, r.HighestPrice)
	assert.InDelta(t, 200*0.15, r.LowestPrice, 1e-9)
	require.Len(t, reqs, 2)
	assert.Equal(t, "Amazing Spider-Man #300", reqs[0].URL.Query().Get("q"))
	assert.Equal(t, "comic", reqs[0].URL.Query().Get("type"))
}

func TestPriceChartingFallsBackOnZeroProducts(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"products":[]}`))
	}))
	defer ts.Close()

	c := NewPriceChartingClient(PriceChartingOpts{BaseURL: ts.URL}, NewSynthetic(rand.New(rand.NewSource(5))))

	r := c.LookupPricing(context.Background(), "Amazing Spider-Man", "300")

	assertInvariants(t, r)
	assert.Equal(t, SourceMock, r.Source)
	require.Len(t, r.Prices, 5)
	base := r.Prices[0].Price
	wantMults := []float64{1.0, 0.75, 0.5, 0.3, 0.15}
	for i, m := range wantMults {
		assert.InDelta(t, base*m, r.Prices[i].Price, 1e-9)
	}
}

func TestPriceChartingFallsBackOnServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := NewPriceChartingClient(PriceChartingOpts{BaseURL: ts.URL}, NewSynthetic(rand.New(rand.NewSource(5))))

	r := c.LookupPricing(context.Background(), "Batman", "404")
	assertInvariants(t, r)
	assert.Equal(t, SourceMock, r.Source)
}

func TestPriceChartingFallsBackOnZeroLoosePrice(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/products":
			w.Write([]byte(`{"products":[{"id":"1"}]}`))
		default:
			w.Write([]byte(`{"prices":{"loose":{"value":0}}}`))
		}
	}))
	defer ts.Close()

	c := NewPriceChartingClient(PriceChartingOpts{BaseURL: ts.URL}, NewSynthetic(rand.New(rand.NewSource(5))))

	r := c.LookupPricing(context.Background(), "Batman", "1")
	assertInvariants(t, r)
	assert.Equal(t, SourceMock, r.Source)
}

func TestGoCollectLookup(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"prices":{"mint":500,"nearMint":350,"veryFine":200,"fine":90}}]}`))
	}))
	defer ts.Close()

	c := NewGoCollectClient(GoCollectOpts{BaseURL: ts.URL}, NewSynthetic(rand.New(rand.NewSource(1))))
	c.now = fixedNow

	r := c.LookupPricing(context.Background(), "Incredible Hulk", "181")

	assertInvariants(t, r)
	assert.Equal(t, SourceGoCollect, r.Source)
	assert.Len(t, r.Prices, 4)
	assert.Equal(t, 500.0, r.HighestPrice)
	assert.Equal(t, 90.0, r.LowestPrice)
	assert.InDelta(t, (500.0+350+200+90)/4, r.AveragePrice, 1e-9)
}

func TestGoCollectDropsZeroGrades(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"prices":{"mint":100,"nearMint":0,"veryFine":40,"fine":0}}]}`))
	}))
	defer ts.Close()

	c := NewGoCollectClient(GoCollectOpts{BaseURL: ts.URL}, NewSynthetic(rand.New(rand.NewSource(1))))

	r := c.LookupPricing(context.Background(), "Incredible Hulk", "181")
	assertInvariants(t, r)
	assert.Equal(t, SourceGoCollect, r.Source)
	assert.Len(t, r.Prices, 2)
}

func TestGoCollectFallsBackOnZeroResults(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[]}`))
	}))
	defer ts.Close()

	c := NewGoCollectClient(GoCollectOpts{BaseURL: ts.URL}, NewSynthetic(rand.New(rand.NewSource(1))))

	r := c.LookupPricing(context.Background(), "Nobody", "0")
	assertInvariants(t, r)
	assert.Equal(t, SourceMock, r.Source)
}
