package dexscreener

import (
	"strconv"

	"dexwatch/internal/models"
)

// Upstream key variants. The API has drifted across near-duplicate field
// names; all fallbacks live here so schema drift touches only this file.
var (
	idKeys          = []string{"id", "tokenAddress", "address"}
	symbolKeys      = []string{"symbol", "ticker"}
	developerKeys   = []string{"developer", "creator", "deployer"}
	contractKeys    = []string{"contract", "contractAddress", "tokenAddress"}
	priceKeys       = []string{"price", "priceUsd"}
	liquidityKeys   = []string{"liquidity", "liquidityUsd"}
	volumeKeys      = []string{"volume", "volume24h", "volumeUsd"}
	priceChangeKeys = []string{"price_change", "priceChange", "priceChange24h"}
	bundledKeys     = []string{"bundled", "isBundled"}
)

// Normalize maps one raw upstream token object onto the canonical
// TokenRecord. Missing or malformed numeric fields become absent values,
// never errors.
func Normalize(obj map[string]interface{}) models.TokenRecord {
	return models.TokenRecord{
		ID:          firstString(obj, idKeys),
		Symbol:      firstString(obj, symbolKeys),
		Developer:   firstString(obj, developerKeys),
		Contract:    firstString(obj, contractKeys),
		Price:       firstFloat(obj, priceKeys),
		Liquidity:   firstFloat(obj, liquidityKeys),
		Volume:      firstFloat(obj, volumeKeys),
		PriceChange: firstFloat(obj, priceChangeKeys),
		Bundled:     firstBool(obj, bundledKeys),
	}
}

func firstString(obj map[string]interface{}, keys []string) string {
	for _, k := range keys {
		if v, ok := obj[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func firstFloat(obj map[string]interface{}, keys []string) *float64 {
	for _, k := range keys {
		v, ok := obj[k]
		if !ok {
			continue
		}
		if f, ok := coerceFloat(v); ok {
			return models.Float(f)
		}
	}
	return nil
}

func firstBool(obj map[string]interface{}, keys []string) bool {
	for _, k := range keys {
		if v, ok := obj[k]; ok {
			if b, ok := v.(bool); ok {
				return b
			}
		}
	}
	return false
}

// coerceFloat accepts JSON numbers and numeric strings.
func coerceFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
