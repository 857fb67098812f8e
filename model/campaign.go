package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Campaign is the seller view of an incentive campaign, already normalized
// from the upstream wire format
type Campaign struct {
	ID          int64  `json:"id"`
	Title       string `json:"titulo"`
	Description string `json:"descricao"`

	Status    CampaignStatus `json:"status"`
	StartsAt  time.Time      `json:"dataInicio"`
	EndsAt    time.Time      `json:"dataFim"`
	OrderType string         `json:"tipoPedido"`
	Rules     string         `json:"regras"`

	ImageURLs        []string            `json:"imagens"`
	MaxPointsPerCard decimal.NullDecimal `json:"maxPontosPorCartela"`

	Cards  []Card         `json:"cartelas"`
	Events []SpecialEvent `json:"eventosAtivos"`
}

// CampaignStatus is the lifecycle status stored by the backend
type CampaignStatus string

const (
	// CampaignStatusDraft ...
	CampaignStatusDraft CampaignStatus = "RASCUNHO"

	// CampaignStatusActive ...
	CampaignStatusActive CampaignStatus = "ATIVA"

	// CampaignStatusClosed ...
	CampaignStatusClosed CampaignStatus = "ENCERRADA"
)

// Card is one tier ("cartela") of a campaign. Card numbers are 1-based and
// contiguous; card 1 is the canonical requirement template.
type Card struct {
	ID           string        `json:"id"`
	Number       int           `json:"numero"`
	Description  string        `json:"descricao"`
	Requirements []Requirement `json:"requisitos"`
}

// Requirement is a goal inside a card. Requirements sharing the same Ordem
// across different cards are recurrences of one logical requirement.
type Requirement struct {
	ID          string      `json:"id"`
	Description string      `json:"descricao"`
	Target      int         `json:"quantidadeAlvo"`
	UnitType    string      `json:"tipoUnidade"`
	Ordem       int         `json:"ordem"`
	CardNumber  int         `json:"numeroCartela"`
	Conditions  []Condition `json:"condicoes"`
}

// Condition restricts which sales count toward a requirement
type Condition struct {
	ID    string `json:"id"`
	Field string `json:"campo"`
	Op    string `json:"operador"`
	Value string `json:"valor"`
}

// SpecialEvent is a temporary point multiplier window
type SpecialEvent struct {
	ID         int64           `json:"id"`
	Name       string          `json:"nome"`
	Multiplier decimal.Decimal `json:"multiplicador"`
	StartsAt   time.Time       `json:"dataInicio"`
	EndsAt     time.Time       `json:"dataFim"`
}
