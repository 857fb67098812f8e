package progress

import (
	"fmt"

	"github.com/incentivar/cartela-board/model"
)

// CardKind tags expanded cards so a virtual card is never persisted or
// submitted against
type CardKind int

const (
	// CardKindReal ...
	CardKindReal CardKind = 1

	// CardKindVirtual ...
	CardKindVirtual CardKind = 2
)

// ExpandedCard ...
type ExpandedCard struct {
	model.Card
	Kind CardKind
}

// Expand returns the real cards plus at most one lookahead card. While a
// campaign is not concluded the seller must always see the next card, fully
// blocked until its predecessor completes. Lookahead depth is exactly one:
// the synthetic card clones card 1's requirement template under the next
// card number.
func Expand(phase Phase, cards []model.Card) []ExpandedCard {
	expanded := make([]ExpandedCard, 0, len(cards)+1)
	for _, card := range cards {
		expanded = append(expanded, ExpandedCard{Card: card, Kind: CardKindReal})
	}

	if phase == PhaseConcluded || len(cards) == 0 {
		return expanded
	}

	var template model.Card
	found := false
	maxNumber := 0
	for _, card := range cards {
		if card.Number == 1 {
			template = card
			found = true
		}
		if card.Number > maxNumber {
			maxNumber = card.Number
		}
	}
	if !found || len(template.Requirements) == 0 {
		return expanded
	}

	next := maxNumber + 1
	requirements := make([]model.Requirement, 0, len(template.Requirements))
	for _, req := range template.Requirements {
		clone := req
		clone.ID = fmt.Sprintf("virtual-req-%d-cartela-%d", req.Ordem, next)
		clone.CardNumber = next
		requirements = append(requirements, clone)
	}

	expanded = append(expanded, ExpandedCard{
		Card: model.Card{
			ID:           fmt.Sprintf("virtual-cartela-%d", next),
			Number:       next,
			Description:  template.Description,
			Requirements: requirements,
		},
		Kind: CardKindVirtual,
	})
	return expanded
}
