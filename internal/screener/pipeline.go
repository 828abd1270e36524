package screener

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"dexwatch/internal/config"
	"dexwatch/internal/models"
	"dexwatch/internal/store"
	"dexwatch/internal/verify"
)

// TradeNotifier delivers a trade-signal notification for one token.
// Delivery failures are the notifier's concern; the pipeline never retries.
type TradeNotifier interface {
	SendTradeSignal(ctx context.Context, symbol string, events []models.Event) error
}

// Pipeline composes blacklist filtering, verification, classification,
// persistence, and notification for batches of token records.
type Pipeline struct {
	cfg      config.Config
	store    store.DataStore
	volume   verify.Verifier
	contract verify.Verifier
	notifier TradeNotifier
	logger   zerolog.Logger
	now      func() time.Time
}

// Options holds the pipeline's collaborators.
type Options struct {
	Config   config.Config
	Store    store.DataStore
	Volume   verify.Verifier
	Contract verify.Verifier
	Notifier TradeNotifier
	Logger   zerolog.Logger
	Now      func() time.Time
}

// New creates a new Pipeline.
func New(opts Options) *Pipeline {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		cfg:      opts.Config,
		store:    opts.Store,
		volume:   opts.Volume,
		contract: opts.Contract,
		notifier: opts.Notifier,
		logger:   opts.Logger,
		now:      now,
	}
}

// CycleStats summarizes one processed batch.
type CycleStats struct {
	Received  int
	Processed int
	Skipped   int
	Events    int
	Notified  int
}

// Process runs the pipeline over one batch. Tokens are processed
// independently and in order; a skip or failure for one token never affects
// the rest of the batch. Every skip is terminal for the cycle and leaves no
// stored rows.
func (p *Pipeline) Process(ctx context.Context, batch []models.TokenRecord) CycleStats {
	stats := CycleStats{Received: len(batch)}
	p.logger.Info().Int("tokens", len(batch)).Msg("Processing tokens")

	for i := range batch {
		token := &batch[i]
		if p.processToken(ctx, token, &stats) {
			stats.Processed++
		} else {
			stats.Skipped++
		}
	}

	p.logger.Info().
		Int("received", stats.Received).
		Int("processed", stats.Processed).
		Int("skipped", stats.Skipped).
		Int("events", stats.Events).
		Int("notified", stats.Notified).
		Msg("Cycle complete")

	return stats
}

// processToken runs one token through the pipeline. It reports whether the
// token was accepted (snapshot persisted).
func (p *Pipeline) processToken(ctx context.Context, token *models.TokenRecord, stats *CycleStats) bool {
	symbol := token.EffectiveSymbol()

	if p.cfg.BlacklistedCoin(symbol) {
		p.logger.Info().Str("symbol", symbol).Msg("Token is blacklisted, skipping")
		return false
	}

	if p.cfg.BlacklistedDev(token.Developer) {
		p.logger.Info().
			Str("symbol", symbol).
			Str("developer", token.Developer).
			Msg("Token is from a blacklisted developer, skipping")
		return false
	}

	if token.Bundled {
		p.logger.Info().Str("symbol", symbol).Msg("Token has bundled supply, skipping")
		return false
	}

	if !p.volume.Verify(ctx, token) {
		p.logger.Info().Str("symbol", symbol).Msg("Token failed volume authenticity check, skipping")
		return false
	}

	if !p.contract.Verify(ctx, token) {
		p.logger.Info().Str("symbol", symbol).Msg("Token failed contract check, skipping")
		return false
	}

	if err := p.store.SaveSnapshot(ctx, models.SnapshotOf(token, p.now().UTC())); err != nil {
		p.logger.Error().Err(err).Str("symbol", symbol).Msg("Failed to persist snapshot")
		return false
	}

	events := Classify(token, p.cfg.Filters)
	for _, ev := range events {
		if err := p.store.RecordEvent(ctx, token.ID, ev); err != nil {
			p.logger.Error().
				Err(err).
				Str("symbol", symbol).
				Str("event", string(ev.Kind)).
				Msg("Failed to record event")
			continue
		}
		p.logger.Info().
			Str("symbol", symbol).
			Str("token", token.ID).
			Str("event", string(ev.Kind)).
			Str("details", ev.Detail()).
			Msg("Detected event")
		stats.Events++
	}

	p.notify(ctx, symbol, events, stats)
	return true
}

// notify sends at most one notification per token, listing every
// trade-signal event from this pass.
func (p *Pipeline) notify(ctx context.Context, symbol string, events []models.Event, stats *CycleStats) {
	if p.notifier == nil {
		return
	}

	var signals []models.Event
	for _, ev := range events {
		if ev.Kind.IsTradeSignal() {
			signals = append(signals, ev)
		}
	}
	if len(signals) == 0 {
		return
	}

	if err := p.notifier.SendTradeSignal(ctx, symbol, signals); err != nil {
		p.logger.Warn().Err(err).Str("symbol", symbol).Msg("Trade signal notification failed")
		return
	}
	stats.Notified++
}
