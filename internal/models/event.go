package models

import (
	"fmt"
	"time"
)

// EventKind identifies a detected token event.
type EventKind string

const (
	// EventRugged marks a price drop below the rug threshold.
	EventRugged EventKind = "rugged"
	// EventPumped marks a price increase above the pump threshold.
	EventPumped EventKind = "pumped"
	// EventTier1 marks liquidity above the tier-1 threshold.
	EventTier1 EventKind = "tier-1"
	// EventListedOnCEX marks a symbol that trades on major centralized exchanges.
	EventListedOnCEX EventKind = "listed_on_cex"
)

// IsTradeSignal reports whether events of this kind trigger an outbound
// notification. Only pumped and tier-1 qualify.
func (k EventKind) IsTradeSignal() bool {
	return k == EventPumped || k == EventTier1
}

// Event is a detected classification event. The payload carries the observed
// value and the threshold that produced it so that presentation stays
// decoupled from detection.
type Event struct {
	Kind      EventKind
	Symbol    string
	Observed  float64
	Threshold float64
}

// Detail renders the human-readable detail message for the event.
func (e Event) Detail() string {
	switch e.Kind {
	case EventRugged:
		return fmt.Sprintf("Price dropped by %v%% (threshold: %v%%)", e.Observed, e.Threshold)
	case EventPumped:
		return fmt.Sprintf("Price increased by %v%% (threshold: %v%%)", e.Observed, e.Threshold)
	case EventTier1:
		return fmt.Sprintf("High liquidity of %v (threshold: %v)", e.Observed, e.Threshold)
	case EventListedOnCEX:
		return fmt.Sprintf("Token %s is typically listed on major CEXs", e.Symbol)
	default:
		return string(e.Kind)
	}
}

// StoredEvent is the persisted form of a detected event. Rows are
// append-only and never updated or deleted.
type StoredEvent struct {
	TokenID   string
	Kind      EventKind
	Details   string
	EventTime time.Time
}
