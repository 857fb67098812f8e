package progress

import (
	"time"

	"github.com/incentivar/cartela-board/model"
)

// Campaign windows are civil dates in the company timezone, compared as
// instants.
var campaignLocation = mustLoadLocation("America/Sao_Paulo")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// Phase buckets a campaign relative to the current time
type Phase int

const (
	// PhaseFuture means the campaign has not started yet
	PhaseFuture Phase = 1

	// PhaseActive means now is within [start, end], end inclusive
	PhaseActive Phase = 2

	// PhaseConcluded means the campaign window is over
	PhaseConcluded Phase = 3
)

// Classify is a pure function of (now, start, end). When none of the three
// checks match, the campaign's stored status decides.
func Classify(now time.Time, campaign model.Campaign) Phase {
	now = now.In(campaignLocation)

	if now.Before(campaign.StartsAt) {
		return PhaseFuture
	}
	if !now.Before(campaign.StartsAt) && !now.After(campaign.EndsAt) {
		return PhaseActive
	}
	if now.After(campaign.EndsAt) {
		return PhaseConcluded
	}

	switch campaign.Status {
	case model.CampaignStatusClosed:
		return PhaseConcluded
	case model.CampaignStatusActive:
		return PhaseActive
	default:
		return PhaseFuture
	}
}
