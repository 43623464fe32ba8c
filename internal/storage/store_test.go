package storage

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arilahde/comicscan-bot/internal/comics"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	key, err := DeriveKey("test-passphrase")
	require.NoError(t, err)
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"), key)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCollectionRoundTrip(t *testing.T) {
	store := newTestStore(t)

	item := comics.CollectionItem{
		Comic: comics.Comic{
			ID:          "6910",
			Title:       "Amazing Spider-Man",
			IssueNumber: "300",
			Publisher:   "Marvel",
			Writers:     []string{"David Michelinie"},
		},
		ConditionGrade: "Very Fine (8.0)",
		PurchasePrice:  150,
		CurrentValue:   200,
		AddedDate:      time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, store.AddToCollection(item))

	got, err := store.GetCollection()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, item, got[0])

	require.NoError(t, store.RemoveFromCollection("6910"))
	got, err = store.GetCollection()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestInventoryMarkSold(t *testing.T) {
	store := newTestStore(t)

	item := comics.DealerInventoryItem{
		CollectionItem: comics.CollectionItem{
			Comic:     comics.Comic{ID: "1", Title: "Incredible Hulk", IssueNumber: "181"},
			AddedDate: time.Now().UTC(),
		},
		Cost:         500,
		ListingPrice: 900,
	}
	require.NoError(t, store.AddInventoryItem(item))

	soldDate := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.MarkSold("1", 850, soldDate))

	got, err := store.GetInventory()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Sold)
	assert.Equal(t, 850.0, got[0].SoldPrice)
	require.NotNil(t, got[0].SoldDate)
	assert.Equal(t, soldDate, *got[0].SoldDate)

	assert.Error(t, store.MarkSold("does-not-exist", 1, soldDate))
}

func TestWantList(t *testing.T) {
	store := newTestStore(t)

	item, err := store.AddWantListItem("Amazing Fantasy #15", 2000, "grail book")
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.False(t, item.Found)

	require.NoError(t, store.SetWantListFound(item.ID, true))

	got, err := store.GetWantList()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Found)
	assert.Equal(t, "Amazing Fantasy #15", got[0].Title)
	assert.Equal(t, 2000.0, got[0].TargetPrice)
	assert.Equal(t, "grail book", got[0].Notes)

	assert.Error(t, store.SetWantListFound("missing-id", true))

	require.NoError(t, store.RemoveWantListItem(item.ID))
	got, err = store.GetWantList()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRecentScansCappedAtTwenty(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 25; i++ {
		require.NoError(t, store.AddRecentScan(RecentScan{
			Title:       fmt.Sprintf("Book %d", i),
			IssueNumber: "1",
			ScannedAt:   time.Now().UTC(),
		}))
	}

	got, err := store.GetRecentScans()
	require.NoError(t, err)
	require.Len(t, got, RecentScansCap)
	// Newest first
	assert.Equal(t, "Book 24", got[0].Title)
	assert.Equal(t, "Book 5", got[len(got)-1].Title)
}

func TestSettingsDefaultsAndSave(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, comics.DefaultSettings(), got)

	want := comics.Settings{UserMode: "dealer", Notifications: false, AutoSave: true}
	require.NoError(t, store.SaveSettings(want))

	got, err = store.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Saving again overwrites the single row
	want.UserMode = "collector"
	require.NoError(t, store.SaveSettings(want))
	got, err = store.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, "collector", got.UserMode)
}

func TestPriceAlerts(t *testing.T) {
	store := newTestStore(t)

	alert, err := store.AddPriceAlert("Amazing Spider-Man", "300", 100)
	require.NoError(t, err)
	assert.True(t, alert.Active)

	require.NoError(t, store.UpdateAlertPrice(alert.ID, 95))

	active, err := store.GetActivePriceAlerts()
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, 95.0, active[0].CurrentPrice)

	require.NoError(t, store.DeactivatePriceAlert(alert.ID))
	active, err = store.GetActivePriceAlerts()
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestAPIKeysEncryptedRoundTrip(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SetAPIKey("pricecharting", "secret-token-123"))

	got, err := store.GetAPIKey("pricecharting")
	require.NoError(t, err)
	assert.Equal(t, "secret-token-123", got)

	// Missing key is empty, not an error
	got, err = store.GetAPIKey("gocollect")
	require.NoError(t, err)
	assert.Equal(t, "", got)

	// Ciphertext in the table must not contain the plaintext
	var encrypted string
	err = store.db.QueryRow("SELECT encrypted_key FROM api_keys WHERE service = ?", "pricecharting").Scan(&encrypted)
	require.NoError(t, err)
	assert.NotContains(t, encrypted, "secret-token-123")
}

func TestClearAll(t *testing.T) {
	store := newTestStore(t)

	_, err := store.AddWantListItem("Saga #1", 0, "")
	require.NoError(t, err)
	require.NoError(t, store.SaveSettings(comics.Settings{UserMode: "dealer"}))
	require.NoError(t, store.ClearAll())

	wantList, err := store.GetWantList()
	require.NoError(t, err)
	assert.Empty(t, wantList)

	settings, err := store.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, comics.DefaultSettings(), settings)
}

func TestEncryptDecrypt(t *testing.T) {
	key, err := DeriveKey("passphrase")
	require.NoError(t, err)

	ciphertext, err := Encrypt([]byte("hello"), key)
	require.NoError(t, err)

	plaintext, err := Decrypt(ciphertext, key)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(plaintext))

	// Wrong key fails
	otherKey, err := DeriveKey("other")
	require.NoError(t, err)
	_, err = Decrypt(ciphertext, otherKey)
	assert.Error(t, err)
}

func TestDeriveKeyRejectsEmptyPassphrase(t *testing.T) {
	_, err := DeriveKey("")
	assert.Error(t, err)
}
