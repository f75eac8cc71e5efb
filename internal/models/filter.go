package models

import (
	"encoding/json"
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	FilterSearch    = "search"
	FilterCategory  = "category"
	FilterPrice     = "price"
	FilterLocation  = "location"
	FilterBedrooms  = "bedrooms"
	FilterTags      = "tags"
	FilterAmenities = "amenities"
)

// FilterState maps a filter key to whatever value the client sent for it.
// Absent keys mean no constraint; interpretation happens in the composer.
type FilterState map[string]any

type PriceRange struct {
	Min float64 `json:"min,omitempty"`
	Max float64 `json:"max,omitempty"`
}

func (f FilterState) Clone() FilterState {
	out := make(FilterState, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Text returns the trimmed string value of key.
func (f FilterState) Text(key string) (string, bool) {
	raw, ok := f[key]
	if !ok || raw == nil {
		return "", false
	}
	var s string
	switch v := raw.(type) {
	case string:
		s = v
	case json.Number:
		s = v.String()
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		s = strconv.Itoa(v)
	default:
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// Number coerces numeric JSON values and numeric strings.
func (f FilterState) Number(key string) (float64, bool) {
	raw, ok := f[key]
	if !ok || raw == nil {
		return 0, false
	}
	return toNumber(raw)
}

// Strings returns a cleaned list value. A comma separated string counts as a list.
func (f FilterState) Strings(key string) []string {
	raw, ok := f[key]
	if !ok || raw == nil {
		return nil
	}
	var parts []string
	switch v := raw.(type) {
	case string:
		parts = strings.Split(v, ",")
	case []string:
		parts = v
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
	default:
		return nil
	}
	var result []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}

// Price reads the price range. Both a PriceRange and a decoded JSON object work.
func (f FilterState) Price() PriceRange {
	raw, ok := f[FilterPrice]
	if !ok || raw == nil {
		return PriceRange{}
	}
	switch v := raw.(type) {
	case PriceRange:
		return v
	case *PriceRange:
		if v == nil {
			return PriceRange{}
		}
		return *v
	case map[string]any:
		var pr PriceRange
		if n, ok := toNumber(v["min"]); ok {
			pr.Min = n
		}
		if n, ok := toNumber(v["max"]); ok {
			pr.Max = n
		}
		return pr
	}
	return PriceRange{}
}

// Canonical is the stable JSON form used for cache keys; encoding/json
// sorts map keys.
func (f FilterState) Canonical() ([]byte, error) {
	if f == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(f)
}

// FilterStateFromQuery reads the known filter keys from a query string.
func FilterStateFromQuery(q url.Values) FilterState {
	state := FilterState{}
	for _, key := range []string{FilterSearch, FilterCategory, FilterLocation, FilterBedrooms, FilterTags, FilterAmenities} {
		if v := strings.TrimSpace(q.Get(key)); v != "" {
			state[key] = v
		}
	}

	var price PriceRange
	if v, ok := toNumber(q.Get("price_min")); ok {
		price.Min = v
	}
	if v, ok := toNumber(q.Get("price_max")); ok {
		price.Max = v
	}
	if price.Min > 0 || price.Max > 0 {
		state[FilterPrice] = price
	}
	return state
}

// toNumber accepts finite values only.
func toNumber(raw any) (float64, bool) {
	n, ok := parseNumber(raw)
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func parseNumber(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		n, err := v.Float64()
		return n, err == nil
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return n, err == nil
	}
	return 0, false
}
