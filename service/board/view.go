package board

import (
	"time"

	"github.com/incentivar/cartela-board/model"
	"github.com/incentivar/cartela-board/progress"
)

// BoardView is the assembled seller board: expanded cards with resolved
// requirement statuses. It is what gets cached, snapshotted and served.
type BoardView struct {
	CampaignID  int64  `json:"campanhaId"`
	Title       string `json:"titulo"`
	Description string `json:"descricao,omitempty"`

	// Phase is the classifier output; Bucket is the list-view display
	// group, which folds not-yet-started campaigns into the EXPIRADA
	// bucket the listing screen uses
	Phase  string `json:"fase"`
	Bucket string `json:"grupoExibicao"`

	Rules       string `json:"regras,omitempty"`
	SelectedTab string `json:"abaSelecionada"`

	Cards []CardView `json:"cartelas"`

	Stale     bool      `json:"desatualizado,omitempty"`
	FetchedAt time.Time `json:"consultadoEm"`
}

// CardView ...
type CardView struct {
	ID          string `json:"id"`
	Number      int    `json:"numero"`
	Description string `json:"descricao,omitempty"`
	Virtual     bool   `json:"virtual,omitempty"`
	Complete    bool   `json:"completa"`

	Requirements []RequirementView `json:"requisitos"`
}

// RequirementView ...
type RequirementView struct {
	ID          string `json:"id"`
	Description string `json:"descricao"`
	Ordem       int    `json:"ordem"`
	Target      int    `json:"quantidadeAlvo"`
	Validated   int    `json:"validados"`
	Status      string `json:"status"`
}

// Requirement status labels served to the UI
const (
	StatusLabelActive   = "ATIVO"
	StatusLabelComplete = "COMPLETO"
	StatusLabelBlocked  = "BLOQUEADO"
)

func statusLabel(status progress.Status) string {
	switch status {
	case progress.StatusComplete:
		return StatusLabelComplete
	case progress.StatusBlocked:
		return StatusLabelBlocked
	default:
		return StatusLabelActive
	}
}

func phaseLabel(phase progress.Phase) string {
	switch phase {
	case progress.PhaseFuture:
		return "FUTURA"
	case progress.PhaseConcluded:
		return "ENCERRADA"
	default:
		return "ATIVA"
	}
}

func displayBucket(phase progress.Phase) string {
	switch phase {
	case progress.PhaseFuture:
		return "EXPIRADA"
	case progress.PhaseConcluded:
		return "ENCERRADA"
	default:
		return "ATIVA"
	}
}

func buildView(
	now time.Time, campaign model.Campaign, phase progress.Phase,
	expanded []progress.ExpandedCard, result progress.Result,
) BoardView {
	view := BoardView{
		CampaignID:  campaign.ID,
		Title:       campaign.Title,
		Description: campaign.Description,
		Phase:       phaseLabel(phase),
		Bucket:      displayBucket(phase),
		Rules:       campaign.Rules,
		FetchedAt:   now,
	}

	for _, card := range expanded {
		cardView := CardView{
			ID:          card.ID,
			Number:      card.Number,
			Description: card.Description,
			Virtual:     card.Kind == progress.CardKindVirtual,
			Complete:    result.CardComplete(card),
		}
		for _, req := range card.Requirements {
			cardView.Requirements = append(cardView.Requirements, RequirementView{
				ID:          req.ID,
				Description: req.Description,
				Ordem:       req.Ordem,
				Target:      req.Target,
				Validated:   result.ValidatedCount(req.ID, card.Number),
				Status:      statusLabel(result.Status(req.ID, card.Number)),
			})
		}
		view.Cards = append(view.Cards, cardView)
	}

	return view
}

func viewTabCards(view BoardView) []progress.TabCard {
	tabs := make([]progress.TabCard, 0, len(view.Cards))
	for _, card := range view.Cards {
		tabs = append(tabs, progress.TabCard{ID: card.ID, Complete: card.Complete})
	}
	return tabs
}
