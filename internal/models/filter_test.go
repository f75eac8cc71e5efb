package models

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterStateAccessors(t *testing.T) {
	state := FilterState{
		FilterSearch:   "  lamp ",
		FilterBedrooms: json.Number("2"),
		FilterTags:     []any{" wood ", "", 7, "vintage"},
		FilterPrice:    map[string]any{"min": "10", "max": 40.0},
	}

	s, ok := state.Text(FilterSearch)
	assert.True(t, ok)
	assert.Equal(t, "lamp", s)

	n, ok := state.Number(FilterBedrooms)
	assert.True(t, ok)
	assert.Equal(t, 2.0, n)

	assert.Equal(t, []string{"wood", "vintage"}, state.Strings(FilterTags))
	assert.Equal(t, PriceRange{Min: 10, Max: 40}, state.Price())

	_, ok = state.Text(FilterCategory)
	assert.False(t, ok)
	assert.Nil(t, state.Strings(FilterAmenities))
}

func TestFilterStateCanonicalIsKeyOrdered(t *testing.T) {
	a := FilterState{FilterTags: "x", FilterCategory: "books"}
	b := FilterState{FilterCategory: "books", FilterTags: "x"}

	ca, err := a.Canonical()
	require.NoError(t, err)
	cb, err := b.Canonical()
	require.NoError(t, err)
	assert.Equal(t, string(ca), string(cb))

	empty, err := FilterState(nil).Canonical()
	require.NoError(t, err)
	assert.Equal(t, "{}", string(empty))
}

func TestFilterStateFromQuery(t *testing.T) {
	q := url.Values{}
	q.Set("category", "books")
	q.Set("search", "  ")
	q.Set("price_min", "5")
	q.Set("price_max", "oops")
	q.Set("color", "red")

	state := FilterStateFromQuery(q)
	assert.Equal(t, FilterState{
		FilterCategory: "books",
		FilterPrice:    PriceRange{Min: 5},
	}, state)
}

func TestParseListingKind(t *testing.T) {
	kind, err := ParseListingKind(" Properties ")
	require.NoError(t, err)
	assert.Equal(t, KindProperty, kind)

	_, err = ParseListingKind("cars")
	assert.ErrorIs(t, err, ErrInvalidListingKind)
}

func TestListingMissingFields(t *testing.T) {
	assert.Equal(t, []string{"description", "location"}, Listing{Title: "x", Category: "y"}.MissingFields())
	assert.Empty(t, Listing{Title: "a", Description: "b", Category: "c", Location: "d"}.MissingFields())
}

func TestFilterStateRejectsNonFiniteNumbers(t *testing.T) {
	for _, raw := range []any{"NaN", "Inf", "-inf", "+Infinity"} {
		_, ok := FilterState{FilterBedrooms: raw}.Number(FilterBedrooms)
		assert.False(t, ok, "%v", raw)
	}
	assert.Equal(t, PriceRange{}, FilterState{FilterPrice: map[string]any{"min": "NaN", "max": "Inf"}}.Price())

	q := url.Values{}
	q.Set("price_min", "-Inf")
	q.Set("price_max", "Inf")
	assert.Equal(t, FilterState{}, FilterStateFromQuery(q))
}
