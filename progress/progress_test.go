package progress

import (
	"fmt"
	"time"

	"github.com/incentivar/cartela-board/model"
)

func newTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func newRequirement(id string, ordem int, target int, cardNumber int) model.Requirement {
	return model.Requirement{
		ID:          id,
		Description: fmt.Sprintf("requisito %s", id),
		Target:      target,
		UnitType:    "VENDA",
		Ordem:       ordem,
		CardNumber:  cardNumber,
	}
}

func newCard(number int, requirements ...model.Requirement) model.Card {
	return model.Card{
		ID:           fmt.Sprintf("cartela-%d", number),
		Number:       number,
		Description:  fmt.Sprintf("cartela %d", number),
		Requirements: requirements,
	}
}

func newValidated(requirementID string, creditedCard int) model.Submission {
	return model.Submission{
		Status:        model.SubmissionStatusValidated,
		RequirementID: requirementID,
		CreditedCard:  creditedCard,
	}
}

func newCampaign(status model.CampaignStatus, start, end string, cards ...model.Card) model.Campaign {
	return model.Campaign{
		ID:       77,
		Title:    "campanha de teste",
		Status:   status,
		StartsAt: newTime(start),
		EndsAt:   newTime(end),
		Cards:    cards,
	}
}
