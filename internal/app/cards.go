package app

import (
	"fmt"
	"strings"
	"time"

	"valentine/pkg/domain"
)

// Static gift catalog.
var gifts = []domain.Gift{
	{ID: 1, Name: "Red Roses Bouquet", Emoji: "🌹", Description: "A classic dozen red roses", Price: "$50-100", Link: "#", Category: "flowers"},
	{ID: 2, Name: "Chocolate Gift Box", Emoji: "🍫", Description: "Luxury chocolates", Price: "$20-50", Link: "#", Category: "sweets"},
	{ID: 3, Name: "Diamond Ring", Emoji: "💎", Description: "Elegant diamond jewelry", Price: "$200-1000+", Link: "#", Category: "jewelry"},
	{ID: 4, Name: "Perfume", Emoji: "💐", Description: "Luxury fragrance", Price: "$30-100", Link: "#", Category: "perfume"},
	{ID: 5, Name: "Love Pendant", Emoji: "❤️", Description: "Matching couple necklaces", Price: "$40-150", Link: "#", Category: "jewelry"},
	{ID: 6, Name: "Romantic Dinner", Emoji: "🍽️", Description: "Dinner reservation at fancy restaurant", Price: "$100-300", Link: "#", Category: "experiences"},
	{ID: 7, Name: "Spa Package", Emoji: "🧖", Description: "Couples spa treatment", Price: "$150-300", Link: "#", Category: "experiences"},
	{ID: 8, Name: "Teddy Bear", Emoji: "🧸", Description: "Big fluffy teddy bear", Price: "$20-80", Link: "#", Category: "gifts"},
}

var cardTemplates = []domain.CardTemplate{
	{ID: 1, Name: "Classic Romance", Bg: "linear-gradient(135deg, #ff1744 0%, #f50057 100%)", Icon: "💕"},
	{ID: 2, Name: "Cute & Sweet", Bg: "linear-gradient(135deg, #ff6b9d 0%, #c44569 100%)", Icon: "🌸"},
	{ID: 3, Name: "Bold & Romantic", Bg: "linear-gradient(135deg, #ff1744 0%, #c51162 100%)", Icon: "💖"},
	{ID: 4, Name: "Playful Love", Bg: "linear-gradient(135deg, #ff6b9d 0%, #ff1744 100%)", Icon: "🎉"},
}

// Gifts returns the gift recommendation catalog.
func (a *App) Gifts() []domain.Gift {
	return gifts
}

// CardTemplates returns the greeting card templates.
func (a *App) CardTemplates() []domain.CardTemplate {
	return cardTemplates
}

// CreateCard stores a greeting card. The recipient is not validated; a
// card to an unknown username simply never shows up anywhere.
func (a *App) CreateCard(from, to string, templateID int, message string) (domain.Card, error) {
	card, err := a.store.AppendCard(domain.Card{
		From:       from,
		To:         strings.TrimSpace(to),
		TemplateID: templateID,
		Message:    strings.TrimSpace(message),
		CreatedAt:  time.Now(),
	})
	if err != nil {
		return domain.Card{}, fmt.Errorf("save card: %w", err)
	}
	return card, nil
}

// ReceivedCards lists cards addressed to the user.
func (a *App) ReceivedCards(username string) ([]domain.Card, error) {
	all, err := a.store.ListCards()
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	received := make([]domain.Card, 0)
	for _, c := range all {
		if c.To == username {
			received = append(received, c)
		}
	}
	return received, nil
}

// ViewCard marks the card viewed. Recipient only; anyone else gets
// NotFound.
func (a *App) ViewCard(username string, id int) (domain.Card, error) {
	all, err := a.store.ListCards()
	if err != nil {
		return domain.Card{}, fmt.Errorf("list cards: %w", err)
	}
	for _, c := range all {
		if c.ID == id && c.To == username {
			c.Viewed = true
			if err := a.store.UpdateCard(c); err != nil {
				return domain.Card{}, fmt.Errorf("update card: %w", err)
			}
			return c, nil
		}
	}
	return domain.Card{}, ErrCardNotFound
}
