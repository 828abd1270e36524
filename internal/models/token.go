// Package models defines the core data types for the token screener.
package models

import (
	"strings"
	"time"
)

// TokenRecord is one polled snapshot of a token's market metadata,
// already normalized from the upstream API shape. It is ephemeral:
// it exists only for a single pipeline pass.
type TokenRecord struct {
	ID        string
	Symbol    string
	Developer string
	Contract  string

	// Market metrics are nullable: the upstream API may omit any of them.
	Price       *float64
	Liquidity   *float64
	Volume      *float64
	PriceChange *float64

	// Bundled marks tokens whose supply concentration was flagged upstream.
	Bundled bool
}

// EffectiveSymbol resolves the symbol used for display and blacklist
// comparisons: the declared symbol, else the token ID, else "UNKNOWN".
func (t *TokenRecord) EffectiveSymbol() string {
	if t.Symbol != "" {
		return strings.ToUpper(t.Symbol)
	}
	if t.ID != "" {
		return strings.ToUpper(t.ID)
	}
	return "UNKNOWN"
}

// Snapshot is the persisted record of one token's metrics at fetch time.
// Snapshots are append-only; repeated polls of an unchanged token produce
// repeated rows.
type Snapshot struct {
	TokenID     string
	Symbol      string
	Developer   string
	Contract    string
	Price       *float64
	Liquidity   *float64
	Volume      *float64
	PriceChange *float64
	Bundled     bool
	FetchedAt   time.Time
}

// SnapshotOf builds the persistable snapshot for a token record.
func SnapshotOf(t *TokenRecord, at time.Time) *Snapshot {
	return &Snapshot{
		TokenID:     t.ID,
		Symbol:      t.Symbol,
		Developer:   t.Developer,
		Contract:    t.Contract,
		Price:       t.Price,
		Liquidity:   t.Liquidity,
		Volume:      t.Volume,
		PriceChange: t.PriceChange,
		Bundled:     t.Bundled,
		FetchedAt:   at,
	}
}

// Float returns a pointer to v. Convenience for building records in tests
// and normalization code.
func Float(v float64) *float64 {
	return &v
}
