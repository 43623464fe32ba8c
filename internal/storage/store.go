// Package storage persists collection, want list, dealer inventory,
// recent scans, settings and price alerts in a local SQLite database.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/arilahde/comicscan-bot/internal/comics"
)

// RecentScansCap is how many recent scans are kept, newest first.
const RecentScansCap = 20

// RecentScan is a summary of one completed scan.
type RecentScan struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	IssueNumber  string    `json:"issueNumber"`
	CoverImage   string    `json:"coverImage,omitempty"`
	Grade        string    `json:"grade"`
	AveragePrice float64   `json:"averagePrice"`
	Source       string    `json:"source"`
	ScannedAt    time.Time `json:"scannedAt"`
}

// Store is the persistence surface consumed by the bot and the watcher.
type Store interface {
	// Collection
	AddToCollection(item comics.CollectionItem) error
	GetCollection() ([]comics.CollectionItem, error)
	RemoveFromCollection(id string) error

	// Dealer inventory
	AddInventoryItem(item comics.DealerInventoryItem) error
	GetInventory() ([]comics.DealerInventoryItem, error)
	MarkSold(id string, soldPrice float64, soldDate time.Time) error
	RemoveInventoryItem(id string) error

	// Want list
	AddWantListItem(title string, targetPrice float64, notes string) (comics.WantListItem, error)
	GetWantList() ([]comics.WantListItem, error)
	SetWantListFound(id string, found bool) error
	RemoveWantListItem(id string) error

	// Recent scans (capped at RecentScansCap, newest first)
	AddRecentScan(scan RecentScan) error
	GetRecentScans() ([]RecentScan, error)

	// Settings
	GetSettings() (comics.Settings, error)
	SaveSettings(s comics.Settings) error

	// Price alerts
	AddPriceAlert(title, issueNumber string, targetPrice float64) (comics.PriceAlert, error)
	GetActivePriceAlerts() ([]comics.PriceAlert, error)
	UpdateAlertPrice(id string, currentPrice float64) error
	DeactivatePriceAlert(id string) error

	// Pricing service API keys, encrypted at rest
	SetAPIKey(service, key string) error
	GetAPIKey(service string) (string, error)

	// ClearAll wipes all user data (settings reset)
	ClearAll() error

	Close() error
}

// SQLiteStore implements Store using SQLite with encrypted API keys.
type SQLiteStore struct {
	db            *sql.DB
	encryptionKey []byte
	mu            sync.RWMutex
	now           func() time.Time
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (and if needed initializes) the database at dbPath.
// encryptionKey encrypts stored API keys and must be an AES key length.
func NewSQLiteStore(dbPath string, encryptionKey []byte) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db, encryptionKey: encryptionKey, now: time.Now}
	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) init() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS collection (
			id TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			added_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS dealer_inventory (
			id TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			added_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS want_list (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			added_date DATETIME NOT NULL,
			found INTEGER NOT NULL DEFAULT 0,
			target_price REAL NOT NULL DEFAULT 0,
			notes TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS recent_scans (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			data TEXT NOT NULL,
			scanned_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS settings (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			data TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS price_alerts (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			issue_number TEXT NOT NULL,
			target_price REAL NOT NULL,
			current_price REAL NOT NULL DEFAULT 0,
			active INTEGER NOT NULL DEFAULT 1,
			created_date DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS api_keys (
			service TEXT PRIMARY KEY,
			encrypted_key TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		);`,
	}
	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- collection ---

func (s *SQLiteStore) AddToCollection(item comics.CollectionItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal collection item: %w", err)
	}
	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO collection (id, data, added_at) VALUES (?, ?, ?)",
		item.ID, string(data), item.AddedDate,
	)
	if err != nil {
		return fmt.Errorf("failed to save collection item: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetCollection() ([]comics.CollectionItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT data FROM collection ORDER BY added_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}
	defer rows.Close()

	var items []comics.CollectionItem
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var item comics.CollectionItem
		if err := json.Unmarshal([]byte(data), &item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal collection item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *SQLiteStore) RemoveFromCollection(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM collection WHERE id = ?", id)
	return err
}

// --- dealer inventory ---

func (s *SQLiteStore) AddInventoryItem(item comics.DealerInventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal inventory item: %w", err)
	}
	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO dealer_inventory (id, data, added_at) VALUES (?, ?, ?)",
		item.ID, string(data), item.AddedDate,
	)
	if err != nil {
		return fmt.Errorf("failed to save inventory item: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetInventory() ([]comics.DealerInventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT data FROM dealer_inventory ORDER BY added_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory: %w", err)
	}
	defer rows.Close()

	var items []comics.DealerInventoryItem
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var item comics.DealerInventoryItem
		if err := json.Unmarshal([]byte(data), &item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal inventory item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// MarkSold flags an inventory item as sold with the realized price.
func (s *SQLiteStore) MarkSold(id string, soldPrice float64, soldDate time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var data string
	err := s.db.QueryRow("SELECT data FROM dealer_inventory WHERE id = ?", id).Scan(&data)
	if err == sql.ErrNoRows {
		return fmt.Errorf("inventory item %s not found", id)
	}
	if err != nil {
		return fmt.Errorf("failed to query inventory item: %w", err)
	}

	var item comics.DealerInventoryItem
	if err := json.Unmarshal([]byte(data), &item); err != nil {
		return fmt.Errorf("failed to unmarshal inventory item: %w", err)
	}
	item.Sold = true
	item.SoldPrice = soldPrice
	item.SoldDate = &soldDate

	updated, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal inventory item: %w", err)
	}
	_, err = s.db.Exec("UPDATE dealer_inventory SET data = ? WHERE id = ?", string(updated), id)
	return err
}

func (s *SQLiteStore) RemoveInventoryItem(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM dealer_inventory WHERE id = ?", id)
	return err
}

// --- want list ---

func (s *SQLiteStore) AddWantListItem(title string, targetPrice float64, notes string) (comics.WantListItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := comics.WantListItem{
		ID:          uuid.NewString(),
		Title:       title,
		AddedDate:   s.now(),
		TargetPrice: targetPrice,
		Notes:       notes,
	}
	_, err := s.db.Exec(
		"INSERT INTO want_list (id, title, added_date, found, target_price, notes) VALUES (?, ?, ?, 0, ?, ?)",
		item.ID, item.Title, item.AddedDate, item.TargetPrice, item.Notes,
	)
	if err != nil {
		return comics.WantListItem{}, fmt.Errorf("failed to save want list item: %w", err)
	}
	return item, nil
}

func (s *SQLiteStore) GetWantList() ([]comics.WantListItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		"SELECT id, title, added_date, found, target_price, notes FROM want_list ORDER BY added_date DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query want list: %w", err)
	}
	defer rows.Close()

	var items []comics.WantListItem
	for rows.Next() {
		var item comics.WantListItem
		if err := rows.Scan(&item.ID, &item.Title, &item.AddedDate, &item.Found, &item.TargetPrice, &item.Notes); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *SQLiteStore) SetWantListFound(id string, found bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.Exec("UPDATE want_list SET found = ? WHERE id = ?", found, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("want list item %s not found", id)
	}
	return nil
}

func (s *SQLiteStore) RemoveWantListItem(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM want_list WHERE id = ?", id)
	return err
}

// --- recent scans ---

func (s *SQLiteStore) AddRecentScan(scan RecentScan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if scan.ID == "" {
		scan.ID = uuid.NewString()
	}
	data, err := json.Marshal(scan)
	if err != nil {
		return fmt.Errorf("failed to marshal scan: %w", err)
	}
	if _, err := s.db.Exec(
		"INSERT INTO recent_scans (data, scanned_at) VALUES (?, ?)",
		string(data), scan.ScannedAt,
	); err != nil {
		return fmt.Errorf("failed to save scan: %w", err)
	}

	// Keep only the newest RecentScansCap rows
	_, err = s.db.Exec(`DELETE FROM recent_scans WHERE seq NOT IN (
		SELECT seq FROM recent_scans ORDER BY seq DESC LIMIT ?
	)`, RecentScansCap)
	return err
}

func (s *SQLiteStore) GetRecentScans() ([]RecentScan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT data FROM recent_scans ORDER BY seq DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query recent scans: %w", err)
	}
	defer rows.Close()

	var scans []RecentScan
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var scan RecentScan
		if err := json.Unmarshal([]byte(data), &scan); err != nil {
			return nil, fmt.Errorf("failed to unmarshal scan: %w", err)
		}
		scans = append(scans, scan)
	}
	return scans, rows.Err()
}

// --- settings ---

// GetSettings returns the saved settings, or defaults when none exist.
func (s *SQLiteStore) GetSettings() (comics.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var data string
	err := s.db.QueryRow("SELECT data FROM settings WHERE id = 1").Scan(&data)
	if err == sql.ErrNoRows {
		return comics.DefaultSettings(), nil
	}
	if err != nil {
		return comics.Settings{}, fmt.Errorf("failed to query settings: %w", err)
	}

	var settings comics.Settings
	if err := json.Unmarshal([]byte(data), &settings); err != nil {
		return comics.Settings{}, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	return settings, nil
}

func (s *SQLiteStore) SaveSettings(settings comics.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	_, err = s.db.Exec(
		"INSERT INTO settings (id, data) VALUES (1, ?) ON CONFLICT(id) DO UPDATE SET data = excluded.data",
		string(data),
	)
	return err
}

// --- price alerts ---

func (s *SQLiteStore) AddPriceAlert(title, issueNumber string, targetPrice float64) (comics.PriceAlert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	alert := comics.PriceAlert{
		ID:          uuid.NewString(),
		Title:       title,
		IssueNumber: issueNumber,
		TargetPrice: targetPrice,
		Active:      true,
		CreatedDate: s.now(),
	}
	_, err := s.db.Exec(
		"INSERT INTO price_alerts (id, title, issue_number, target_price, active, created_date) VALUES (?, ?, ?, ?, 1, ?)",
		alert.ID, alert.Title, alert.IssueNumber, alert.TargetPrice, alert.CreatedDate,
	)
	if err != nil {
		return comics.PriceAlert{}, fmt.Errorf("failed to save price alert: %w", err)
	}
	return alert, nil
}

func (s *SQLiteStore) GetActivePriceAlerts() ([]comics.PriceAlert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		"SELECT id, title, issue_number, target_price, current_price, active, created_date FROM price_alerts WHERE active = 1 ORDER BY created_date")
	if err != nil {
		return nil, fmt.Errorf("failed to query price alerts: %w", err)
	}
	defer rows.Close()

	var alerts []comics.PriceAlert
	for rows.Next() {
		var a comics.PriceAlert
		if err := rows.Scan(&a.ID, &a.Title, &a.IssueNumber, &a.TargetPrice, &a.CurrentPrice, &a.Active, &a.CreatedDate); err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func (s *SQLiteStore) UpdateAlertPrice(id string, currentPrice float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("UPDATE price_alerts SET current_price = ? WHERE id = ?", currentPrice, id)
	return err
}

func (s *SQLiteStore) DeactivatePriceAlert(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("UPDATE price_alerts SET active = 0 WHERE id = ?", id)
	return err
}

// --- API keys ---

// SetAPIKey stores a pricing-service API key, encrypted at rest.
func (s *SQLiteStore) SetAPIKey(service, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	encrypted, err := Encrypt([]byte(key), s.encryptionKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt API key: %w", err)
	}
	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO api_keys (service, encrypted_key, updated_at) VALUES (?, ?, ?)",
		service, encrypted, s.now(),
	)
	return err
}

// GetAPIKey returns the stored key for a service, or "" when none is set.
func (s *SQLiteStore) GetAPIKey(service string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var encrypted string
	err := s.db.QueryRow("SELECT encrypted_key FROM api_keys WHERE service = ?", service).Scan(&encrypted)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query API key: %w", err)
	}

	key, err := Decrypt(encrypted, s.encryptionKey)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt API key: %w", err)
	}
	return string(key), nil
}

// --- reset ---

// ClearAll wipes every user-data table.
func (s *SQLiteStore) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{
		"collection", "dealer_inventory", "want_list",
		"recent_scans", "settings", "price_alerts", "api_keys",
	}
	for _, table := range tables {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}
