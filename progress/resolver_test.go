package progress

import (
	"testing"

	"github.com/incentivar/cartela-board/model"
	"github.com/stretchr/testify/assert"
)

type resolverTest struct {
	cards    []model.Card
	expanded []ExpandedCard
	idx      OrdemIndex
}

func newResolverTest(phase Phase, cards ...model.Card) *resolverTest {
	idx := BuildOrdemIndex(cards)
	return &resolverTest{
		cards:    cards,
		expanded: Expand(phase, cards),
		idx:      idx,
	}
}

func (r *resolverTest) resolve(submissions ...model.Submission) Result {
	return Resolve(r.expanded, r.idx, submissions)
}

func twoCardCampaign() *resolverTest {
	return newResolverTest(PhaseActive,
		newCard(1, newRequirement("a1", 1, 3, 1)),
		newCard(2, newRequirement("b1", 1, 3, 2)),
	)
}

func TestResolveTargetReached(t *testing.T) {
	tc := twoCardCampaign()

	result := tc.resolve(
		newValidated("a1", 1),
		newValidated("a1", 1),
		newValidated("a1", 1),
	)

	assert.Equal(t, StatusComplete, result.Status("a1", 1))
	assert.Equal(t, 3, result.ValidatedCount("a1", 1))

	// card 1 complete, so card 2's recurrence is active, not blocked
	assert.Equal(t, StatusActive, result.Status("b1", 2))
	assert.Equal(t, 0, result.ValidatedCount("b1", 2))
}

func TestResolveBelowTarget(t *testing.T) {
	tc := twoCardCampaign()

	result := tc.resolve(
		newValidated("a1", 1),
		newValidated("a1", 1),
	)

	assert.Equal(t, StatusActive, result.Status("a1", 1))
	assert.Equal(t, 2, result.ValidatedCount("a1", 1))

	// incomplete predecessor blocks the next card's recurrence
	assert.Equal(t, StatusBlocked, result.Status("b1", 2))
}

func TestResolveIgnoresNonValidated(t *testing.T) {
	tc := twoCardCampaign()

	inReview := model.Submission{
		Status:        model.SubmissionStatusInReview,
		RequirementID: "a1",
		CreditedCard:  1,
	}
	rejected := model.Submission{
		Status:        model.SubmissionStatusRejected,
		RequirementID: "a1",
		CreditedCard:  1,
	}

	result := tc.resolve(newValidated("a1", 1), inReview, rejected)
	assert.Equal(t, 1, result.ValidatedCount("a1", 1))
	assert.Equal(t, StatusActive, result.Status("a1", 1))
}

func TestResolveSpillover(t *testing.T) {
	tc := twoCardCampaign()

	// validated against card 2's instance but credited to card 1: counts
	// toward card 1 through the ordem group
	result := tc.resolve(
		newValidated("a1", 1),
		newValidated("a1", 1),
		newValidated("b1", 1),
	)

	assert.Equal(t, StatusComplete, result.Status("a1", 1))
	assert.Equal(t, 3, result.ValidatedCount("a1", 1))
}

func TestResolveNeverPoolsAcrossCards(t *testing.T) {
	tc := twoCardCampaign()

	// credited card numbers differ, so no single card reaches the target
	result := tc.resolve(
		newValidated("a1", 1),
		newValidated("a1", 1),
		newValidated("a1", 2),
	)

	assert.Equal(t, StatusActive, result.Status("a1", 1))
	assert.Equal(t, 2, result.ValidatedCount("a1", 1))
	assert.Equal(t, 1, result.ValidatedCount("b1", 2))
}

func TestResolveCardOneNeverBlocked(t *testing.T) {
	tc := twoCardCampaign()

	result := tc.resolve()
	assert.Equal(t, StatusActive, result.Status("a1", 1))
	assert.Equal(t, StatusBlocked, result.Status("b1", 2))
}

func TestResolveMissingPredecessorOrdem(t *testing.T) {
	tc := newResolverTest(PhaseActive,
		newCard(1, newRequirement("a1", 1, 3, 1)),
		newCard(2, newRequirement("b9", 9, 3, 2)),
	)

	// no ordem 9 recurrence on card 1: blocking check is skipped
	result := tc.resolve()
	assert.Equal(t, StatusActive, result.Status("b9", 2))
}

func TestResolveVirtualCardStartsBlocked(t *testing.T) {
	tc := twoCardCampaign()

	// card 1 complete, card 2 incomplete: the lookahead card is blocked
	result := tc.resolve(
		newValidated("a1", 1),
		newValidated("a1", 1),
		newValidated("a1", 1),
	)
	assert.Equal(t, StatusBlocked, result.Status("virtual-req-1-cartela-3", 3))

	// card 2 also complete: the lookahead card opens up
	result = tc.resolve(
		newValidated("a1", 1),
		newValidated("a1", 1),
		newValidated("a1", 1),
		newValidated("a1", 2),
		newValidated("b1", 2),
		newValidated("b1", 2),
	)
	assert.Equal(t, StatusComplete, result.Status("b1", 2))
	assert.Equal(t, StatusActive, result.Status("virtual-req-1-cartela-3", 3))
}

func TestResolveCardComplete(t *testing.T) {
	tc := newResolverTest(PhaseActive,
		newCard(1, newRequirement("a1", 1, 1, 1), newRequirement("a2", 2, 1, 1)),
		newCard(2, newRequirement("b1", 1, 1, 2), newRequirement("b2", 2, 1, 2)),
	)

	result := tc.resolve(newValidated("a1", 1), newValidated("a2", 1))

	assert.Equal(t, true, result.CardComplete(tc.expanded[0]))
	assert.Equal(t, false, result.CardComplete(tc.expanded[1]))

	// an empty card is never complete
	empty := ExpandedCard{Card: model.Card{ID: "vazia", Number: 9}, Kind: CardKindReal}
	assert.Equal(t, false, result.CardComplete(empty))
}

func TestResolveIdempotent(t *testing.T) {
	tc := twoCardCampaign()
	submissions := []model.Submission{
		newValidated("a1", 1),
		newValidated("a1", 1),
		newValidated("b1", 2),
	}

	first := Resolve(tc.expanded, tc.idx, submissions)
	second := Resolve(tc.expanded, tc.idx, submissions)
	assert.Equal(t, first, second)
}
