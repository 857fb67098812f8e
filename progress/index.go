package progress

import (
	"sort"

	"github.com/incentivar/cartela-board/model"
)

// Instance locates one recurrence of a logical requirement
type Instance struct {
	RequirementID string
	CardNumber    int
}

// OrdemIndex joins requirement recurrences across cards by their shared
// ordem. Validated sales may have been attributed to any recurrence of a
// requirement, so the index is the join key for both completion counting and
// previous-card blocking lookups.
type OrdemIndex struct {
	ids       map[int][]string
	instances map[int][]Instance
}

// BuildOrdemIndex ...
func BuildOrdemIndex(cards []model.Card) OrdemIndex {
	idx := OrdemIndex{
		ids:       map[int][]string{},
		instances: map[int][]Instance{},
	}

	for _, card := range cards {
		for _, req := range card.Requirements {
			idx.ids[req.Ordem] = append(idx.ids[req.Ordem], req.ID)
			idx.instances[req.Ordem] = append(idx.instances[req.Ordem], Instance{
				RequirementID: req.ID,
				CardNumber:    card.Number,
			})
		}
	}

	for ordem := range idx.instances {
		instances := idx.instances[ordem]
		sort.Slice(instances, func(i, j int) bool {
			return instances[i].CardNumber < instances[j].CardNumber
		})
	}

	return idx
}

// IDs returns the instance ids of every recurrence sharing ordem
func (x OrdemIndex) IDs(ordem int) []string {
	return x.ids[ordem]
}

// Instances returns recurrences of ordem sorted ascending by card number
func (x OrdemIndex) Instances(ordem int) []Instance {
	return x.instances[ordem]
}

// InstanceOn finds the recurrence of ordem on the given card
func (x OrdemIndex) InstanceOn(ordem int, cardNumber int) (Instance, bool) {
	for _, inst := range x.instances[ordem] {
		if inst.CardNumber == cardNumber {
			return inst, true
		}
	}
	return Instance{}, false
}
