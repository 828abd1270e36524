package screener

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"dexwatch/internal/config"
	"dexwatch/internal/models"
)

// fakeStore is an in-memory DataStore that records every append and can be
// told to fail.
type fakeStore struct {
	snapshots    []models.Snapshot
	events       []models.StoredEvent
	failSnapshot bool
	failEvent    bool
}

func (f *fakeStore) SaveSnapshot(ctx context.Context, snap *models.Snapshot) error {
	if f.failSnapshot {
		return errors.New("disk full")
	}
	f.snapshots = append(f.snapshots, *snap)
	return nil
}

func (f *fakeStore) RecordEvent(ctx context.Context, tokenID string, ev models.Event) error {
	if f.failEvent {
		return errors.New("disk full")
	}
	f.events = append(f.events, models.StoredEvent{
		TokenID:   tokenID,
		Kind:      ev.Kind,
		Details:   ev.Detail(),
		EventTime: time.Now().UTC(),
	})
	return nil
}

func (f *fakeStore) GetRecentSnapshots(ctx context.Context, limit int) ([]models.Snapshot, error) {
	return f.snapshots, nil
}

func (f *fakeStore) GetRecentEvents(ctx context.Context, limit int) ([]models.StoredEvent, error) {
	return f.events, nil
}

func (f *fakeStore) GetEventsForToken(ctx context.Context, tokenID string) ([]models.StoredEvent, error) {
	var out []models.StoredEvent
	for _, ev := range f.events {
		if ev.TokenID == tokenID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeStore) Close() error { return nil }

// stubVerifier returns a fixed verdict.
type stubVerifier struct{ verdict bool }

func (s stubVerifier) Verify(ctx context.Context, token *models.TokenRecord) bool {
	return s.verdict
}

// fakeNotifier records every trade signal send.
type fakeNotifier struct {
	calls []notifyCall
	fail  bool
}

type notifyCall struct {
	symbol string
	events []models.Event
}

func (f *fakeNotifier) SendTradeSignal(ctx context.Context, symbol string, events []models.Event) error {
	f.calls = append(f.calls, notifyCall{symbol: symbol, events: events})
	if f.fail {
		return errors.New("telegram unreachable")
	}
	return nil
}

func testConfig() config.Config {
	return config.Config{
		Filters: config.FilterConfig{
			RugThreshold:   -80,
			PumpThreshold:  100,
			Tier1Liquidity: 1000000,
		},
	}
}

func newTestPipeline(cfg config.Config, st *fakeStore, notifier *fakeNotifier) *Pipeline {
	return New(Options{
		Config:   cfg,
		Store:    st,
		Volume:   stubVerifier{verdict: true},
		Contract: stubVerifier{verdict: true},
		Notifier: notifier,
		Logger:   zerolog.Nop(),
	})
}

func TestProcessBlacklistedCoin(t *testing.T) {
	cfg := testConfig()
	cfg.CoinBlacklist = []string{"SCAM"}
	st := &fakeStore{}
	notifier := &fakeNotifier{}
	p := newTestPipeline(cfg, st, notifier)

	batch := []models.TokenRecord{
		{ID: "tok1", Symbol: "scam", PriceChange: models.Float(150)},
	}
	stats := p.Process(context.Background(), batch)

	if stats.Skipped != 1 || stats.Processed != 0 {
		t.Errorf("stats = %+v, want 1 skipped 0 processed", stats)
	}
	if len(st.snapshots) != 0 || len(st.events) != 0 {
		t.Errorf("blacklisted token left rows: %d snapshots %d events", len(st.snapshots), len(st.events))
	}
	if len(notifier.calls) != 0 {
		t.Errorf("blacklisted token triggered %d notifications", len(notifier.calls))
	}
}

func TestProcessBlacklistedDev(t *testing.T) {
	cfg := testConfig()
	cfg.DevBlacklist = []string{"0xBadDev"}
	st := &fakeStore{}
	notifier := &fakeNotifier{}
	p := newTestPipeline(cfg, st, notifier)

	batch := []models.TokenRecord{
		{ID: "tok1", Symbol: "FOO", Developer: "0xbaddev", Liquidity: models.Float(2000000)},
	}
	stats := p.Process(context.Background(), batch)

	if stats.Skipped != 1 {
		t.Errorf("stats = %+v, want 1 skipped", stats)
	}
	if len(st.snapshots) != 0 || len(notifier.calls) != 0 {
		t.Error("blacklisted dev token left rows or notifications")
	}
}

func TestProcessBundledSkip(t *testing.T) {
	st := &fakeStore{}
	p := newTestPipeline(testConfig(), st, &fakeNotifier{})

	batch := []models.TokenRecord{
		{ID: "tok1", Symbol: "FOO", Bundled: true, PriceChange: models.Float(150)},
	}
	stats := p.Process(context.Background(), batch)

	if stats.Skipped != 1 || len(st.snapshots) != 0 {
		t.Errorf("bundled token not skipped cleanly: stats=%+v snapshots=%d", stats, len(st.snapshots))
	}
}

func TestProcessVerifierRejections(t *testing.T) {
	tests := []struct {
		name     string
		volume   bool
		contract bool
	}{
		{"volume rejection", false, true},
		{"contract rejection", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &fakeStore{}
			notifier := &fakeNotifier{}
			p := New(Options{
				Config:   testConfig(),
				Store:    st,
				Volume:   stubVerifier{verdict: tt.volume},
				Contract: stubVerifier{verdict: tt.contract},
				Notifier: notifier,
				Logger:   zerolog.Nop(),
			})

			batch := []models.TokenRecord{
				{ID: "tok1", Symbol: "FOO", PriceChange: models.Float(150)},
			}
			stats := p.Process(context.Background(), batch)

			if stats.Skipped != 1 || stats.Processed != 0 {
				t.Errorf("stats = %+v, want token skipped", stats)
			}
			if len(st.snapshots) != 0 || len(st.events) != 0 || len(notifier.calls) != 0 {
				t.Error("rejected token left rows or notifications")
			}
		})
	}
}

func TestProcessRuggedNoNotification(t *testing.T) {
	st := &fakeStore{}
	notifier := &fakeNotifier{}
	p := newTestPipeline(testConfig(), st, notifier)

	batch := []models.TokenRecord{
		{ID: "tok1", Symbol: "FOO", PriceChange: models.Float(-90)},
	}
	stats := p.Process(context.Background(), batch)

	if stats.Processed != 1 || stats.Events != 1 {
		t.Errorf("stats = %+v, want 1 processed 1 event", stats)
	}
	if len(st.snapshots) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(st.snapshots))
	}
	if len(st.events) != 1 || st.events[0].Kind != models.EventRugged {
		t.Errorf("events = %+v, want one rugged", st.events)
	}
	if len(notifier.calls) != 0 {
		t.Errorf("rugged event triggered %d notifications, want 0", len(notifier.calls))
	}
}

func TestProcessPumpedTier1SingleNotification(t *testing.T) {
	st := &fakeStore{}
	notifier := &fakeNotifier{}
	p := newTestPipeline(testConfig(), st, notifier)

	batch := []models.TokenRecord{
		{
			ID: "tok1", Symbol: "FOO",
			PriceChange: models.Float(150),
			Liquidity:   models.Float(2000000),
		},
	}
	stats := p.Process(context.Background(), batch)

	if stats.Events != 2 || stats.Notified != 1 {
		t.Errorf("stats = %+v, want 2 events 1 notified", stats)
	}
	if len(notifier.calls) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifier.calls))
	}

	call := notifier.calls[0]
	if call.symbol != "FOO" {
		t.Errorf("notified symbol = %q, want FOO", call.symbol)
	}
	if len(call.events) != 2 {
		t.Fatalf("notification carries %d events, want 2", len(call.events))
	}
	if call.events[0].Kind != models.EventPumped || call.events[1].Kind != models.EventTier1 {
		t.Errorf("notification events = %v %v, want pumped then tier-1", call.events[0].Kind, call.events[1].Kind)
	}
}

func TestProcessCEXListingNotASignal(t *testing.T) {
	st := &fakeStore{}
	notifier := &fakeNotifier{}
	p := newTestPipeline(testConfig(), st, notifier)

	batch := []models.TokenRecord{
		{ID: "tok1", Symbol: "BTC"},
	}
	p.Process(context.Background(), batch)

	if len(st.events) != 1 || st.events[0].Kind != models.EventListedOnCEX {
		t.Fatalf("events = %+v, want one listed_on_cex", st.events)
	}
	if len(notifier.calls) != 0 {
		t.Errorf("cex listing triggered %d notifications, want 0", len(notifier.calls))
	}
}

func TestProcessSnapshotFailureSkipsClassification(t *testing.T) {
	st := &fakeStore{failSnapshot: true}
	notifier := &fakeNotifier{}
	p := newTestPipeline(testConfig(), st, notifier)

	batch := []models.TokenRecord{
		{ID: "tok1", Symbol: "FOO", PriceChange: models.Float(-90)},
	}
	stats := p.Process(context.Background(), batch)

	if stats.Processed != 0 || stats.Skipped != 1 || stats.Events != 0 {
		t.Errorf("stats = %+v, want failed token counted skipped with no events", stats)
	}
	if len(st.events) != 0 {
		t.Errorf("event recorded without its snapshot: %+v", st.events)
	}
	if len(notifier.calls) != 0 {
		t.Error("notification sent for token whose snapshot failed")
	}
}

func TestProcessEventFailureDoesNotAbortBatch(t *testing.T) {
	st := &fakeStore{failEvent: true}
	notifier := &fakeNotifier{}
	p := newTestPipeline(testConfig(), st, notifier)

	batch := []models.TokenRecord{
		{ID: "tok1", Symbol: "FOO", PriceChange: models.Float(150)},
		{ID: "tok2", Symbol: "BAR", Liquidity: models.Float(5000)},
	}
	stats := p.Process(context.Background(), batch)

	if stats.Processed != 2 {
		t.Errorf("stats = %+v, want both tokens processed despite event failure", stats)
	}
	if stats.Events != 0 {
		t.Errorf("stats.Events = %d, want 0 when every record fails", stats.Events)
	}
	if len(st.snapshots) != 2 {
		t.Errorf("snapshots = %d, want 2", len(st.snapshots))
	}
}

func TestProcessNotificationFailureIsContained(t *testing.T) {
	st := &fakeStore{}
	notifier := &fakeNotifier{fail: true}
	p := newTestPipeline(testConfig(), st, notifier)

	batch := []models.TokenRecord{
		{ID: "tok1", Symbol: "FOO", PriceChange: models.Float(150)},
		{ID: "tok2", Symbol: "BAR", PriceChange: models.Float(200)},
	}
	stats := p.Process(context.Background(), batch)

	if stats.Processed != 2 || stats.Events != 2 {
		t.Errorf("stats = %+v, want both tokens fully processed", stats)
	}
	if stats.Notified != 0 {
		t.Errorf("stats.Notified = %d, want 0 when sends fail", stats.Notified)
	}
	if len(notifier.calls) != 2 {
		t.Errorf("send attempts = %d, want 2 (one per token, no retry)", len(notifier.calls))
	}
}

func TestProcessMixedBatchIndependence(t *testing.T) {
	cfg := testConfig()
	cfg.CoinBlacklist = []string{"SCAM"}
	st := &fakeStore{}
	notifier := &fakeNotifier{}
	p := newTestPipeline(cfg, st, notifier)

	batch := []models.TokenRecord{
		{ID: "tok1", Symbol: "SCAM", PriceChange: models.Float(500)},
		{ID: "tok2", Symbol: "FOO", PriceChange: models.Float(150)},
		{ID: "tok3", Symbol: "BAR", Bundled: true},
		{ID: "tok4", Symbol: "BAZ"},
	}
	stats := p.Process(context.Background(), batch)

	if stats.Received != 4 || stats.Processed != 2 || stats.Skipped != 2 {
		t.Errorf("stats = %+v, want 4 received 2 processed 2 skipped", stats)
	}
	if len(st.snapshots) != 2 {
		t.Errorf("snapshots = %d, want 2", len(st.snapshots))
	}
	if len(notifier.calls) != 1 || notifier.calls[0].symbol != "FOO" {
		t.Errorf("notifications = %+v, want exactly one for FOO", notifier.calls)
	}
}

func TestProcessEmptyBatch(t *testing.T) {
	st := &fakeStore{}
	p := newTestPipeline(testConfig(), st, &fakeNotifier{})

	stats := p.Process(context.Background(), nil)

	if stats.Received != 0 || stats.Processed != 0 || stats.Skipped != 0 {
		t.Errorf("stats = %+v, want all zero", stats)
	}
}

func TestProcessMissingSymbolFallsBackToID(t *testing.T) {
	st := &fakeStore{}
	notifier := &fakeNotifier{}
	p := newTestPipeline(testConfig(), st, notifier)

	batch := []models.TokenRecord{
		{ID: "0xabc", PriceChange: models.Float(150)},
	}
	p.Process(context.Background(), batch)

	if len(notifier.calls) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifier.calls))
	}
	if got := notifier.calls[0].symbol; got != "0XABC" {
		t.Errorf("notified symbol = %q, want uppercased token ID", got)
	}
}

func TestProcessSnapshotTimestamp(t *testing.T) {
	st := &fakeStore{}
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.FixedZone("PST", -8*3600))
	p := New(Options{
		Config:   testConfig(),
		Store:    st,
		Volume:   stubVerifier{verdict: true},
		Contract: stubVerifier{verdict: true},
		Logger:   zerolog.Nop(),
		Now:      func() time.Time { return fixed },
	})

	batch := []models.TokenRecord{{ID: "tok1", Symbol: "FOO"}}
	p.Process(context.Background(), batch)

	if len(st.snapshots) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(st.snapshots))
	}
	got := st.snapshots[0].FetchedAt
	if got.Location() != time.UTC {
		t.Errorf("snapshot timestamp zone = %v, want UTC", got.Location())
	}
	if !got.Equal(fixed) {
		t.Errorf("snapshot timestamp = %v, want %v", got, fixed)
	}
}

func TestProcessEventDetailStored(t *testing.T) {
	st := &fakeStore{}
	p := newTestPipeline(testConfig(), st, &fakeNotifier{})

	batch := []models.TokenRecord{
		{ID: "tok1", Symbol: "FOO", PriceChange: models.Float(-90)},
	}
	p.Process(context.Background(), batch)

	if len(st.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(st.events))
	}
	if !strings.Contains(st.events[0].Details, "threshold: -80%") {
		t.Errorf("stored details = %q, want rendered threshold text", st.events[0].Details)
	}
}
