package upstream

import (
	"encoding/json"
	"time"

	"github.com/incentivar/cartela-board/model"
	"github.com/incentivar/cartela-board/pkg/wirevalue"
)

// Wire shapes of the incentive backend. Numeric fields come through as
// json.RawMessage and go through wirevalue before reaching the model.

type sellerViewDTO struct {
	ID          int64  `json:"id"`
	Titulo      string `json:"titulo"`
	Descricao   string `json:"descricao"`
	Status      string `json:"status"`
	TipoPedido  string `json:"tipoPedido"`
	Regras      string `json:"regras"`

	DataInicio time.Time `json:"dataInicio"`
	DataFim    time.Time `json:"dataFim"`

	Imagens             []string        `json:"imagens"`
	MaxPontosPorCartela json.RawMessage `json:"maxPontosPorCartela"`

	Cartelas      []cartelaDTO `json:"cartelas"`
	EventosAtivos []eventoDTO  `json:"eventosAtivos"`
}

type cartelaDTO struct {
	ID        string          `json:"id"`
	Numero    json.RawMessage `json:"numero"`
	Descricao string          `json:"descricao"`

	Requisitos []requisitoDTO `json:"requisitos"`
}

type requisitoDTO struct {
	ID             string          `json:"id"`
	Descricao      string          `json:"descricao"`
	QuantidadeAlvo json.RawMessage `json:"quantidadeAlvo"`
	TipoUnidade    string          `json:"tipoUnidade"`
	Ordem          json.RawMessage `json:"ordem"`
	NumeroCartela  json.RawMessage `json:"numeroCartela"`

	Condicoes []condicaoDTO `json:"condicoes"`
}

type condicaoDTO struct {
	ID       string `json:"id"`
	Campo    string `json:"campo"`
	Operador string `json:"operador"`
	Valor    string `json:"valor"`
}

type eventoDTO struct {
	ID            int64           `json:"id"`
	Nome          string          `json:"nome"`
	Multiplicador json.RawMessage `json:"multiplicador"`
	DataInicio    time.Time       `json:"dataInicio"`
	DataFim       time.Time       `json:"dataFim"`
}

func (dto sellerViewDTO) toModel() model.Campaign {
	campaign := model.Campaign{
		ID:          dto.ID,
		Title:       dto.Titulo,
		Description: dto.Descricao,
		Status:      model.CampaignStatus(dto.Status),
		StartsAt:    dto.DataInicio,
		EndsAt:      dto.DataFim,
		OrderType:   dto.TipoPedido,
		Rules:       dto.Regras,
		ImageURLs:   dto.Imagens,

		MaxPointsPerCard: wirevalue.NullDecimal(dto.MaxPontosPorCartela),
	}

	for _, cartela := range dto.Cartelas {
		campaign.Cards = append(campaign.Cards, cartela.toModel())
	}
	for _, evento := range dto.EventosAtivos {
		campaign.Events = append(campaign.Events, model.SpecialEvent{
			ID:         evento.ID,
			Name:       evento.Nome,
			Multiplier: wirevalue.Decimal(evento.Multiplicador),
			StartsAt:   evento.DataInicio,
			EndsAt:     evento.DataFim,
		})
	}
	return campaign
}

func (dto cartelaDTO) toModel() model.Card {
	number, _ := wirevalue.Int(dto.Numero)
	card := model.Card{
		ID:          dto.ID,
		Number:      number,
		Description: dto.Descricao,
	}

	for _, requisito := range dto.Requisitos {
		card.Requirements = append(card.Requirements, requisito.toModel(number))
	}
	return card
}

func (dto requisitoDTO) toModel(cardNumber int) model.Requirement {
	target, _ := wirevalue.Int(dto.QuantidadeAlvo)
	ordem, _ := wirevalue.Int(dto.Ordem)
	if owner, ok := wirevalue.Int(dto.NumeroCartela); ok {
		cardNumber = owner
	}

	req := model.Requirement{
		ID:          dto.ID,
		Description: dto.Descricao,
		Target:      target,
		UnitType:    dto.TipoUnidade,
		Ordem:       ordem,
		CardNumber:  cardNumber,
	}
	for _, condicao := range dto.Condicoes {
		req.Conditions = append(req.Conditions, model.Condition{
			ID:    condicao.ID,
			Field: condicao.Campo,
			Op:    condicao.Operador,
			Value: condicao.Valor,
		})
	}
	return req
}

type envioDTO struct {
	ID           int64  `json:"id"`
	NumeroPedido string `json:"numeroPedido"`
	Status       string `json:"status"`
	RequisitoID  string `json:"requisitoId"`

	NumeroCartelaAtendida json.RawMessage `json:"numeroCartelaAtendida"`
	PontosRecebidos       json.RawMessage `json:"pontosRecebidos"`
	MultiplicadorAplicado json.RawMessage `json:"multiplicadorAplicado"`
	ValorComEvento        json.RawMessage `json:"valorComEvento"`

	CriadoEm time.Time `json:"criadoEm"`
}

func (dto envioDTO) toModel() model.Submission {
	credited, reason := wirevalue.CardNumber(dto.NumeroCartelaAtendida)

	return model.Submission{
		ID:            dto.ID,
		OrderNumber:   dto.NumeroPedido,
		Status:        model.SubmissionStatus(dto.Status),
		RequirementID: dto.RequisitoID,

		CreditedCard:        credited,
		CreditedCardAssumed: reason == wirevalue.ReasonAssumed,

		Points:     wirevalue.Decimal(dto.PontosRecebidos),
		Multiplier: wirevalue.Decimal(dto.MultiplicadorAplicado),
		EventValue: wirevalue.Decimal(dto.ValorComEvento),

		CreatedAt: dto.CriadoEm,
	}
}

type rankingEntryDTO struct {
	Posicao         json.RawMessage `json:"posicao"`
	PosicaoAnterior json.RawMessage `json:"posicaoAnterior"`
	VendedorID      string          `json:"vendedorId"`
	Nome            string          `json:"nome"`
	Pontos          json.RawMessage `json:"pontos"`
}

func (dto rankingEntryDTO) toModel() model.RankingEntry {
	position, _ := wirevalue.Int(dto.Posicao)
	previous, _ := wirevalue.Int(dto.PosicaoAnterior)
	return model.RankingEntry{
		Position:         position,
		PreviousPosition: previous,
		SellerID:         dto.VendedorID,
		Name:             dto.Nome,
		Points:           wirevalue.Decimal(dto.Pontos),
	}
}

type teamMemberDTO struct {
	VendedorID       string          `json:"vendedorId"`
	Nome             string          `json:"nome"`
	Pontos           json.RawMessage `json:"pontos"`
	VendasValidadas  json.RawMessage `json:"vendasValidadas"`
	VendasEmAnalise  json.RawMessage `json:"vendasEmAnalise"`
	CartelasGanhas   json.RawMessage `json:"cartelasConcluidas"`
	UltimoEnvioEm    time.Time       `json:"ultimoEnvioEm"`
}

func (dto teamMemberDTO) toModel() model.TeamMember {
	validated, _ := wirevalue.Int(dto.VendasValidadas)
	inReview, _ := wirevalue.Int(dto.VendasEmAnalise)
	cards, _ := wirevalue.Int(dto.CartelasGanhas)
	return model.TeamMember{
		SellerID:    dto.VendedorID,
		Name:        dto.Nome,
		Points:      wirevalue.Decimal(dto.Pontos),
		Validated:   validated,
		InReview:    inReview,
		CardsWon:    cards,
		LastEntryAt: dto.UltimoEnvioEm,
	}
}

type analyticsDTO struct {
	CampanhaID     int64           `json:"campanhaId"`
	PontosTotais   json.RawMessage `json:"pontosTotais"`
	TotalValidados json.RawMessage `json:"totalValidados"`
	TotalEmAnalise json.RawMessage `json:"totalEmAnalise"`
	TotalRejeitados json.RawMessage `json:"totalRejeitados"`

	Ranking       []rankingEntryDTO `json:"ranking"`
	SerieTemporal []serieDTO        `json:"serieTemporal"`
	Envios        []envioDTO        `json:"envios"`
	GeradoEm      time.Time         `json:"geradoEm"`
}

type serieDTO struct {
	Data      time.Time       `json:"data"`
	Validados json.RawMessage `json:"validados"`
	Pontos    json.RawMessage `json:"pontos"`
}

func (dto analyticsDTO) toModel() model.Analytics {
	totalValidated, _ := wirevalue.Int(dto.TotalValidados)
	totalInReview, _ := wirevalue.Int(dto.TotalEmAnalise)
	totalRejected, _ := wirevalue.Int(dto.TotalRejeitados)

	analytics := model.Analytics{
		CampaignID:     dto.CampanhaID,
		TotalPoints:    wirevalue.Decimal(dto.PontosTotais),
		TotalValidated: totalValidated,
		TotalInReview:  totalInReview,
		TotalRejected:  totalRejected,
		GeneratedAt:    dto.GeradoEm,
	}
	for _, entry := range dto.Ranking {
		analytics.Ranking = append(analytics.Ranking, entry.toModel())
	}
	for _, ponto := range dto.SerieTemporal {
		validated, _ := wirevalue.Int(ponto.Validados)
		analytics.Series = append(analytics.Series, model.SeriesPoint{
			Date:      ponto.Data,
			Validated: validated,
			Points:    wirevalue.Decimal(ponto.Pontos),
		})
	}
	for _, envio := range dto.Envios {
		analytics.Submissions = append(analytics.Submissions, envio.toModel())
	}
	return analytics
}

type stagingPageDTO struct {
	Itens         []stagingItemDTO `json:"itens"`
	Total         json.RawMessage  `json:"total"`
	Pagina        json.RawMessage  `json:"pagina"`
	TamanhoPagina json.RawMessage  `json:"tamanhoPagina"`
}

type stagingItemDTO struct {
	ID            int64           `json:"id"`
	NumeroPedido  string          `json:"numeroPedido"`
	CodigoProduto string          `json:"codigoProduto"`
	Quantidade    json.RawMessage `json:"quantidade"`
	Valor         json.RawMessage `json:"valor"`
	Status        string          `json:"status"`
}

func (dto stagingPageDTO) toModel() model.StagingPage {
	total, _ := wirevalue.Int(dto.Total)
	page, _ := wirevalue.Int(dto.Pagina)
	pageSize, _ := wirevalue.Int(dto.TamanhoPagina)

	result := model.StagingPage{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for _, item := range dto.Itens {
		quantity, _ := wirevalue.Int(item.Quantidade)
		result.Items = append(result.Items, model.StagingItem{
			ID:            item.ID,
			OrderNumber:   item.NumeroPedido,
			ProductCode:   item.CodigoProduto,
			Quantity:      quantity,
			Amount:        wirevalue.Decimal(item.Valor),
			Status:        item.Status,
		})
	}
	return result
}
