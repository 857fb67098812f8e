package progress

import "strings"

// TabRules is the id of the campaign rules tab
const TabRules = "regras"

// TabCard is the minimal card state the tab selector needs
type TabCard struct {
	ID       string
	Complete bool
}

// TabCards pairs each expanded card with its resolved completeness
func TabCards(cards []ExpandedCard, result Result) []TabCard {
	tabs := make([]TabCard, 0, len(cards))
	for _, card := range cards {
		tabs = append(tabs, TabCard{
			ID:       card.ID,
			Complete: result.CardComplete(card),
		})
	}
	return tabs
}

// SelectTab applies the tab transition rule. The current selection is kept
// while it still names an existing expanded card, or the rules tab with
// non-empty rules content. Otherwise: the first card not fully complete, else
// the last card, else the rules tab, else none (empty string).
func SelectTab(current string, cards []TabCard, rules string) string {
	hasRules := strings.TrimSpace(rules) != ""

	if current == TabRules && hasRules {
		return current
	}
	if current != "" {
		for _, card := range cards {
			if card.ID == current {
				return current
			}
		}
	}

	for _, card := range cards {
		if !card.Complete {
			return card.ID
		}
	}
	if len(cards) > 0 {
		return cards[len(cards)-1].ID
	}
	if hasRules {
		return TabRules
	}
	return ""
}
