package pricing

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Synthetic generates placeholder pricing when no real service has data.
// The random source is injected so tests can assert exact output. The
// mutex guards the rng: a Synthetic is shared between the scan pipeline
// and the alert watcher, and rand.Rand is not safe for concurrent use.
type Synthetic struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewSynthetic creates a synthetic price generator drawing from rng.
func NewSynthetic(rng *rand.Rand) *Synthetic {
	return &Synthetic{rng: rng, now: time.Now}
}

var _ Source = (*Synthetic)(nil)

// LookupPricing implements Source without consulting any external service.
func (s *Synthetic) LookupPricing(ctx context.Context, title, issueNumber string) *Record {
	return s.Generate(title, issueNumber)
}

// Generate produces a complete, internally consistent record with a base
// price drawn uniformly from [50, 550) and the ladder applied to it.
// Source is always "Mock Data".
func (s *Synthetic) Generate(title, issueNumber string) *Record {
	s.mu.Lock()
	base := s.rng.Float64()*500 + 50
	s.mu.Unlock()
	// base is always positive so fromBase cannot return nil
	return fromBase(title, issueNumber, base, SourceMock, s.now())
}

// PricePoint is one day in a synthetic price history.
type PricePoint struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Price float64 `json:"price"`
}

// History generates a mock daily price series for the last days+1 days,
// oldest first. Prices vary up to ±10% around a drawn base and never go
// below 10.
func (s *Synthetic) History(title, issueNumber string, days int) []PricePoint {
	s.mu.Lock()
	defer s.mu.Unlock()

	base := s.rng.Float64()*500 + 50
	history := make([]PricePoint, 0, days+1)
	today := s.now()
	for i := days; i >= 0; i-- {
		variance := (s.rng.Float64() - 0.5) * base * 0.2
		price := base + variance
		if price < 10 {
			price = 10
		}
		history = append(history, PricePoint{
			Date:  today.AddDate(0, 0, -i).Format("2006-01-02"),
			Price: price,
		})
	}
	return history
}
