package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "dexwatch/internal/errors"
	"dexwatch/internal/models"
)

// SQLiteStore implements DataStore using SQLite. Writes are serialized with
// a mutex so that a parallelized poller cannot interleave partial rows.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", apperrors.ErrDatabaseError, dbPath, err)
	}

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: initializing schema: %v", apperrors.ErrDatabaseError, err)
	}

	return store, nil
}

// initSchema creates the append-only tables.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Token snapshots, one row per accepted token per cycle
	CREATE TABLE IF NOT EXISTS token_data (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		token_id TEXT,
		symbol TEXT,
		developer TEXT,
		contract TEXT,
		price REAL,
		liquidity REAL,
		volume REAL,
		price_change REAL,
		bundled INTEGER,
		fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Detected classification events
	CREATE TABLE IF NOT EXISTS coin_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		token_id TEXT,
		event_type TEXT,
		details TEXT,
		event_time DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_token_data_token ON token_data(token_id);
	CREATE INDEX IF NOT EXISTS idx_coin_events_token ON coin_events(token_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveSnapshot appends one snapshot row.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, snap *models.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bundled := 0
	if snap.Bundled {
		bundled = 1
	}

	fetchedAt := snap.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO token_data (token_id, symbol, developer, contract, price, liquidity, volume, price_change, bundled, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.TokenID,
		snap.Symbol,
		snap.Developer,
		snap.Contract,
		nullFloat(snap.Price),
		nullFloat(snap.Liquidity),
		nullFloat(snap.Volume),
		nullFloat(snap.PriceChange),
		bundled,
		fetchedAt,
	)
	if err != nil {
		return apperrors.NewStoreError("save_snapshot", snap.TokenID, err)
	}
	return nil
}

// RecordEvent appends one detected event row.
func (s *SQLiteStore) RecordEvent(ctx context.Context, tokenID string, ev models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO coin_events (token_id, event_type, details, event_time)
		VALUES (?, ?, ?, ?)`,
		tokenID,
		string(ev.Kind),
		ev.Detail(),
		time.Now().UTC(),
	)
	if err != nil {
		return apperrors.NewStoreError("record_event", tokenID, err)
	}
	return nil
}

// GetRecentSnapshots returns the most recent snapshot rows, newest first.
func (s *SQLiteStore) GetRecentSnapshots(ctx context.Context, limit int) ([]models.Snapshot, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT token_id, symbol, developer, contract, price, liquidity, volume, price_change, bundled, fetched_at
		FROM token_data ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []models.Snapshot
	for rows.Next() {
		var snap models.Snapshot
		var price, liquidity, volume, priceChange sql.NullFloat64
		var bundled int
		if err := rows.Scan(&snap.TokenID, &snap.Symbol, &snap.Developer, &snap.Contract,
			&price, &liquidity, &volume, &priceChange, &bundled, &snap.FetchedAt); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		snap.Price = floatPtr(price)
		snap.Liquidity = floatPtr(liquidity)
		snap.Volume = floatPtr(volume)
		snap.PriceChange = floatPtr(priceChange)
		snap.Bundled = bundled != 0
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// GetRecentEvents returns the most recent event rows, newest first.
func (s *SQLiteStore) GetRecentEvents(ctx context.Context, limit int) ([]models.StoredEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT token_id, event_type, details, event_time
		FROM coin_events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// GetEventsForToken returns all event rows for one token, oldest first.
func (s *SQLiteStore) GetEventsForToken(ctx context.Context, tokenID string) ([]models.StoredEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT token_id, event_type, details, event_time
		FROM coin_events WHERE token_id = ? ORDER BY id ASC`, tokenID)
	if err != nil {
		return nil, fmt.Errorf("querying events for %s: %w", tokenID, err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanEvents(rows *sql.Rows) ([]models.StoredEvent, error) {
	var events []models.StoredEvent
	for rows.Next() {
		var ev models.StoredEvent
		var kind string
		if err := rows.Scan(&ev.TokenID, &kind, &ev.Details, &ev.EventTime); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		ev.Kind = models.EventKind(kind)
		events = append(events, ev)
	}
	return events, rows.Err()
}

func nullFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
