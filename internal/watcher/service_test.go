package watcher

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arilahde/comicscan-bot/internal/pricing"
	"github.com/arilahde/comicscan-bot/internal/storage"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

type fixedSource struct {
	record *pricing.Record
}

func (f *fixedSource) LookupPricing(ctx context.Context, title, issueNumber string) *pricing.Record {
	r := *f.record
	r.Title = title
	r.IssueNumber = issueNumber
	return &r
}

func newTestStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()
	key, err := storage.DeriveKey("watch-test")
	require.NoError(t, err)
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "watch.db"), key)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func record(avg float64, source string) *pricing.Record {
	return &pricing.Record{
		Prices:       []pricing.GradePrice{{Grade: "Gem Mint (9.8-10)", Price: avg, Currency: "USD"}},
		AveragePrice: avg,
		LowestPrice:  avg,
		HighestPrice: avg,
		LastUpdated:  time.Now(),
		Source:       source,
	}
}

func TestPollFiresAlertAtOrBelowTarget(t *testing.T) {
	store := newTestStore(t)
	sender := &fakeSender{}
	svc := NewService(store, &fixedSource{record: record(90, pricing.SourcePriceCharting)}, sender, 42)

	alert, err := store.AddPriceAlert("Amazing Spider-Man", "300", 100)
	require.NoError(t, err)

	svc.poll(context.Background())

	require.Len(t, sender.sent, 1)
	msg, ok := sender.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Contains(t, msg.Text, "Amazing Spider-Man #300")
	assert.Contains(t, msg.Text, "$90.00")

	// Fired alert is deactivated
	active, err := store.GetActivePriceAlerts()
	require.NoError(t, err)
	assert.Empty(t, active)
	_ = alert
}

func TestPollDoesNotFireAboveTarget(t *testing.T) {
	store := newTestStore(t)
	sender := &fakeSender{}
	svc := NewService(store, &fixedSource{record: record(150, pricing.SourcePriceCharting)}, sender, 42)

	_, err := store.AddPriceAlert("Amazing Spider-Man", "300", 100)
	require.NoError(t, err)

	svc.poll(context.Background())

	assert.Empty(t, sender.sent)

	// Current price is still recorded
	active, err := store.GetActivePriceAlerts()
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, 150.0, active[0].CurrentPrice)
}

func TestPollSkipsSyntheticPricing(t *testing.T) {
	store := newTestStore(t)
	sender := &fakeSender{}
	svc := NewService(store, &fixedSource{record: record(10, pricing.SourceMock)}, sender, 42)

	_, err := store.AddPriceAlert("Amazing Spider-Man", "300", 100)
	require.NoError(t, err)

	svc.poll(context.Background())

	assert.Empty(t, sender.sent)
	active, err := store.GetActivePriceAlerts()
	require.NoError(t, err)
	assert.Len(t, active, 1)
}
