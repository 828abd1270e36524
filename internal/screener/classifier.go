// Package screener implements the token classification pipeline: blacklist
// filtering, verification, threshold classification, persistence, and
// trade-signal notification.
package screener

import (
	"dexwatch/internal/config"
	"dexwatch/internal/models"
)

// knownCEXTokens are symbols that trade on major centralized exchanges.
var knownCEXTokens = map[string]bool{
	"BTC":  true,
	"ETH":  true,
	"BNB":  true,
	"USDT": true,
	"USDC": true,
}

// Classify maps one token record and the configured thresholds to an ordered
// list of detected events. It is a pure function: identical inputs always
// produce the identical ordered list. All threshold comparisons are strict;
// an absent metric produces no event of that kind.
func Classify(token *models.TokenRecord, filters config.FilterConfig) []models.Event {
	var events []models.Event
	symbol := token.EffectiveSymbol()

	if token.PriceChange != nil && *token.PriceChange < filters.RugThreshold {
		events = append(events, models.Event{
			Kind:      models.EventRugged,
			Symbol:    symbol,
			Observed:  *token.PriceChange,
			Threshold: filters.RugThreshold,
		})
	}

	if token.PriceChange != nil && *token.PriceChange > filters.PumpThreshold {
		events = append(events, models.Event{
			Kind:      models.EventPumped,
			Symbol:    symbol,
			Observed:  *token.PriceChange,
			Threshold: filters.PumpThreshold,
		})
	}

	if token.Liquidity != nil && *token.Liquidity > filters.Tier1Liquidity {
		events = append(events, models.Event{
			Kind:      models.EventTier1,
			Symbol:    symbol,
			Observed:  *token.Liquidity,
			Threshold: filters.Tier1Liquidity,
		})
	}

	if knownCEXTokens[symbol] {
		events = append(events, models.Event{
			Kind:   models.EventListedOnCEX,
			Symbol: symbol,
		})
	}

	return events
}
