package services

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"communityBack/internal/models"
)

var pricePrinter = message.NewPrinter(language.English)

// PriceLabel groups thousands and drops the fraction for whole amounts.
func PriceLabel(price float64) string {
	if price == 0 {
		return "Free"
	}
	if price == math.Trunc(price) {
		return pricePrinter.Sprintf("%d", int64(price))
	}
	return pricePrinter.Sprintf("%.2f", price)
}

func RenderCard(l models.Listing) models.Card {
	card := models.Card{
		ID:             l.ID,
		Kind:           l.Kind,
		Title:          l.Title,
		Subtitle:       l.Location,
		Category:       l.Category,
		Price:          l.Price,
		PriceLabel:     PriceLabel(l.Price),
		Tags:           l.Tags,
		Bedrooms:       l.Bedrooms,
		ApprovalStatus: l.ApprovalStatus,
		CreatedAt:      l.CreatedAt,
	}
	if len(l.Media) > 0 {
		card.Thumbnail = l.Media[0]
	}
	return card
}

// RenderCards keeps row order. The result is never nil.
func RenderCards(listings []models.Listing) []models.Card {
	cards := make([]models.Card, 0, len(listings))
	for _, l := range listings {
		cards = append(cards, RenderCard(l))
	}
	return cards
}
