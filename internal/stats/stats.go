// Package stats computes collection and dealer statistics. All functions
// are pure over their input slices.
package stats

import "github.com/arilahde/comicscan-bot/internal/comics"

// CollectionStats summarizes a collector's holdings.
type CollectionStats struct {
	TotalItems   int
	TotalValue   float64 // sum of purchase prices
	AverageValue float64
	Publishers   map[string]int // publisher -> item count
	Conditions   map[string]int // condition grade -> item count
}

// Collection computes stats over collection items.
func Collection(items []comics.CollectionItem) CollectionStats {
	s := CollectionStats{
		Publishers: make(map[string]int),
		Conditions: make(map[string]int),
	}
	s.TotalItems = len(items)
	for _, item := range items {
		s.TotalValue += item.PurchasePrice
		if item.Publisher != "" {
			s.Publishers[item.Publisher]++
		}
		if item.ConditionGrade != "" {
			s.Conditions[item.ConditionGrade]++
		}
	}
	if s.TotalItems > 0 {
		s.AverageValue = s.TotalValue / float64(s.TotalItems)
	}
	return s
}

// DealerStats summarizes a dealer's inventory and sales.
type DealerStats struct {
	InventoryCount    int     // unsold items
	TotalCost         float64 // cost basis of unsold items
	TotalListingValue float64 // sum of listing prices of unsold items
	PotentialProfit   float64 // listing value minus cost of unsold items
	SoldCount         int
	TotalRevenue      float64 // realized sold prices
}

// Dealer computes stats over dealer inventory.
func Dealer(items []comics.DealerInventoryItem) DealerStats {
	var s DealerStats
	for _, item := range items {
		if item.Sold {
			s.SoldCount++
			s.TotalRevenue += item.SoldPrice
			continue
		}
		s.InventoryCount++
		s.TotalCost += item.Cost
		s.TotalListingValue += item.ListingPrice
	}
	s.PotentialProfit = s.TotalListingValue - s.TotalCost
	return s
}
