package models

import "testing"

func TestEventDetail(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want string
	}{
		{
			name: "rugged",
			ev:   Event{Kind: EventRugged, Symbol: "FOO", Observed: -90, Threshold: -80},
			want: "Price dropped by -90% (threshold: -80%)",
		},
		{
			name: "pumped",
			ev:   Event{Kind: EventPumped, Symbol: "FOO", Observed: 150, Threshold: 100},
			want: "Price increased by 150% (threshold: 100%)",
		},
		{
			name: "pumped with fractional change",
			ev:   Event{Kind: EventPumped, Symbol: "FOO", Observed: 120.5, Threshold: 100},
			want: "Price increased by 120.5% (threshold: 100%)",
		},
		{
			name: "tier-1",
			ev:   Event{Kind: EventTier1, Symbol: "FOO", Observed: 2000000, Threshold: 1000000},
			want: "High liquidity of 2e+06 (threshold: 1e+06)",
		},
		{
			name: "cex listing",
			ev:   Event{Kind: EventListedOnCEX, Symbol: "BTC"},
			want: "Token BTC is typically listed on major CEXs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ev.Detail(); got != tt.want {
				t.Errorf("Detail = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEffectiveSymbol(t *testing.T) {
	tests := []struct {
		name  string
		token TokenRecord
		want  string
	}{
		{"symbol uppercased", TokenRecord{ID: "tok1", Symbol: "foo"}, "FOO"},
		{"falls back to id", TokenRecord{ID: "0xabc"}, "0XABC"},
		{"unknown when both absent", TokenRecord{}, "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.token.EffectiveSymbol(); got != tt.want {
				t.Errorf("EffectiveSymbol = %q, want %q", got, tt.want)
			}
		})
	}
}
