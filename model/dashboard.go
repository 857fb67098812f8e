package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role of the authenticated user, selecting which dashboard read model applies
type Role string

const (
	// RoleSeller ...
	RoleSeller Role = "vendedor"

	// RoleManager ...
	RoleManager Role = "gerente"

	// RoleAdmin ...
	RoleAdmin Role = "admin"
)

// TeamMember is one row of the manager's team view
type TeamMember struct {
	SellerID    string          `json:"vendedorId"`
	Name        string          `json:"nome"`
	Points      decimal.Decimal `json:"pontos"`
	Validated   int             `json:"vendasValidadas"`
	InReview    int             `json:"vendasEmAnalise"`
	CardsWon    int             `json:"cartelasConcluidas"`
	LastEntryAt time.Time       `json:"ultimoEnvioEm"`
}

// RankingEntry is one row of the manager ranking view
type RankingEntry struct {
	Position         int             `json:"posicao"`
	PreviousPosition int             `json:"posicaoAnterior"`
	SellerID         string          `json:"vendedorId"`
	Name             string          `json:"nome"`
	Points           decimal.Decimal `json:"pontos"`
}

// Analytics is the admin view of a campaign's aggregated numbers
type Analytics struct {
	CampaignID      int64           `json:"campanhaId"`
	TotalPoints     decimal.Decimal `json:"pontosTotais"`
	TotalValidated  int             `json:"totalValidados"`
	TotalInReview   int             `json:"totalEmAnalise"`
	TotalRejected   int             `json:"totalRejeitados"`
	Ranking         []RankingEntry  `json:"ranking"`
	Series          []SeriesPoint   `json:"serieTemporal"`
	Submissions     []Submission    `json:"envios"`
	GeneratedAt     time.Time       `json:"geradoEm"`
}

// SeriesPoint is one bucket of the analytics time series
type SeriesPoint struct {
	Date      time.Time       `json:"data"`
	Validated int             `json:"validados"`
	Points    decimal.Decimal `json:"pontos"`
}

// ColumnMapping maps spreadsheet columns to sale fields for a campaign's
// upload validation flow
type ColumnMapping struct {
	CampaignID  int64             `json:"campanhaId"`
	Columns     map[string]string `json:"colunas"`
	SheetName   string            `json:"nomePlanilha"`
	HeaderRow   int               `json:"linhaCabecalho"`
	ConfiguredBy string           `json:"configuradoPor"`
}

// StagingQuery selects a page of staged spreadsheet products
type StagingQuery struct {
	CampaignID int64  `json:"campanhaId"`
	Search     string `json:"busca"`
	Page       int    `json:"pagina"`
	PageSize   int    `json:"tamanhoPagina"`
}

// StagingPage is one page of staged products awaiting validation
type StagingPage struct {
	Items    []StagingItem `json:"itens"`
	Total    int           `json:"total"`
	Page     int           `json:"pagina"`
	PageSize int           `json:"tamanhoPagina"`
}

// StagingItem is a staged spreadsheet row
type StagingItem struct {
	ID          int64           `json:"id"`
	OrderNumber string          `json:"numeroPedido"`
	ProductCode string          `json:"codigoProduto"`
	Quantity    int             `json:"quantidade"`
	Amount      decimal.Decimal `json:"valor"`
	Status      string          `json:"status"`
}
