package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arilahde/comicscan-bot/internal/comics"
)

func collectionItem(publisher, grade string, price float64) comics.CollectionItem {
	return comics.CollectionItem{
		Comic:          comics.Comic{Publisher: publisher},
		ConditionGrade: grade,
		PurchasePrice:  price,
	}
}

func TestCollection(t *testing.T) {
	items := []comics.CollectionItem{
		collectionItem("Marvel", "Very Fine (8.0)", 100),
		collectionItem("Marvel", "Fine (6.0-7.0)", 50),
		collectionItem("DC", "Very Fine (8.0)", 30),
	}

	s := Collection(items)

	assert.Equal(t, 3, s.TotalItems)
	assert.Equal(t, 180.0, s.TotalValue)
	assert.Equal(t, 60.0, s.AverageValue)
	assert.Equal(t, map[string]int{"Marvel": 2, "DC": 1}, s.Publishers)
	assert.Equal(t, map[string]int{"Very Fine (8.0)": 2, "Fine (6.0-7.0)": 1}, s.Conditions)
}

func TestCollectionEmpty(t *testing.T) {
	s := Collection(nil)
	assert.Equal(t, 0, s.TotalItems)
	assert.Equal(t, 0.0, s.TotalValue)
	assert.Equal(t, 0.0, s.AverageValue)
	assert.Empty(t, s.Publishers)
	assert.Empty(t, s.Conditions)
}

func TestDealer(t *testing.T) {
	sold := comics.DealerInventoryItem{Cost: 100, ListingPrice: 200, Sold: true, SoldPrice: 180}
	unsoldA := comics.DealerInventoryItem{Cost: 50, ListingPrice: 120}
	unsoldB := comics.DealerInventoryItem{Cost: 30, ListingPrice: 60}

	s := Dealer([]comics.DealerInventoryItem{sold, unsoldA, unsoldB})

	assert.Equal(t, 2, s.InventoryCount)
	assert.Equal(t, 80.0, s.TotalCost)
	assert.Equal(t, 180.0, s.TotalListingValue)
	assert.Equal(t, 100.0, s.PotentialProfit)
	assert.Equal(t, 1, s.SoldCount)
	assert.Equal(t, 180.0, s.TotalRevenue)
}

func TestDealerEmpty(t *testing.T) {
	s := Dealer(nil)
	assert.Equal(t, DealerStats{}, s)
}
