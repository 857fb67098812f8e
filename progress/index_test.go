package progress

import (
	"testing"

	"github.com/incentivar/cartela-board/model"
	"github.com/stretchr/testify/assert"
)

func TestBuildOrdemIndex(t *testing.T) {
	cards := []model.Card{
		newCard(2, newRequirement("b1", 1, 3, 2), newRequirement("b2", 2, 5, 2)),
		newCard(1, newRequirement("a1", 1, 3, 1), newRequirement("a2", 2, 5, 1)),
	}

	idx := BuildOrdemIndex(cards)

	assert.Equal(t, []string{"b1", "a1"}, idx.IDs(1))
	assert.Equal(t, []string{"b2", "a2"}, idx.IDs(2))

	// instances sorted ascending by card number
	assert.Equal(t, []Instance{
		{RequirementID: "a1", CardNumber: 1},
		{RequirementID: "b1", CardNumber: 2},
	}, idx.Instances(1))

	inst, ok := idx.InstanceOn(1, 1)
	assert.Equal(t, true, ok)
	assert.Equal(t, Instance{RequirementID: "a1", CardNumber: 1}, inst)

	_, ok = idx.InstanceOn(1, 3)
	assert.Equal(t, false, ok)

	_, ok = idx.InstanceOn(99, 1)
	assert.Equal(t, false, ok)

	assert.Nil(t, idx.IDs(99))
}
