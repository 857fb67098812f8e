package progress

import (
	"github.com/incentivar/cartela-board/model"
)

// Status of one (requirement, card) pair
type Status int

const (
	// StatusActive ...
	StatusActive Status = 1

	// StatusComplete ...
	StatusComplete Status = 2

	// StatusBlocked ...
	StatusBlocked Status = 3
)

type pairKey struct {
	requirementID string
	cardNumber    int
}

// Result holds the resolved status of every (requirement, card) pair.
// Pairs never marked by either pass are active.
type Result struct {
	statuses map[pairKey]Status
	counts   map[pairKey]int
}

// Status ...
func (r Result) Status(requirementID string, cardNumber int) Status {
	status, ok := r.statuses[pairKey{requirementID: requirementID, cardNumber: cardNumber}]
	if !ok {
		return StatusActive
	}
	return status
}

// ValidatedCount returns how many validated sales counted toward the pair
func (r Result) ValidatedCount(requirementID string, cardNumber int) int {
	return r.counts[pairKey{requirementID: requirementID, cardNumber: cardNumber}]
}

// CardComplete reports whether every requirement of the card resolved
// complete for that card number. An empty card is never complete.
func (r Result) CardComplete(card ExpandedCard) bool {
	if len(card.Requirements) == 0 {
		return false
	}
	for _, req := range card.Requirements {
		if r.Status(req.ID, card.Number) != StatusComplete {
			return false
		}
	}
	return true
}

// Resolve runs the two passes over the expanded card list. The completion
// pass must finish for the whole card set before any blocking check: blocking
// of card c depends on the completion state of card c-1.
func Resolve(cards []ExpandedCard, idx OrdemIndex, submissions []model.Submission) Result {
	result := Result{
		statuses: map[pairKey]Status{},
		counts:   map[pairKey]int{},
	}

	// completion: a sale counts toward card c when it is validated, targets
	// any recurrence of the requirement's ordem (spillover), and is credited
	// to exactly card c
	for _, card := range cards {
		for _, req := range card.Requirements {
			group := idx.IDs(req.Ordem)
			count := countValidated(submissions, group, card.Number)

			key := pairKey{requirementID: req.ID, cardNumber: card.Number}
			result.counts[key] = count
			if count >= req.Target {
				result.statuses[key] = StatusComplete
			}
		}
	}

	// blocking: an incomplete requirement is blocked while the same logical
	// requirement on the previous card is incomplete. Card 1 has no
	// predecessor; a missing same-ordem recurrence skips the check.
	for _, card := range cards {
		if card.Number <= 1 {
			continue
		}
		for _, req := range card.Requirements {
			key := pairKey{requirementID: req.ID, cardNumber: card.Number}
			if result.statuses[key] == StatusComplete {
				continue
			}

			prev, ok := idx.InstanceOn(req.Ordem, card.Number-1)
			if !ok {
				continue
			}
			prevKey := pairKey{requirementID: prev.RequirementID, cardNumber: card.Number - 1}
			if result.statuses[prevKey] != StatusComplete {
				result.statuses[key] = StatusBlocked
			}
		}
	}

	return result
}

func countValidated(submissions []model.Submission, group []string, cardNumber int) int {
	count := 0
	for _, sub := range submissions {
		if sub.Status != model.SubmissionStatusValidated {
			continue
		}
		if sub.CreditedCard != cardNumber {
			continue
		}
		if !containsID(group, sub.RequirementID) {
			continue
		}
		count++
	}
	return count
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
