package upstream

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/incentivar/cartela-board/config"
	"github.com/incentivar/cartela-board/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.Handler) (Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(config.UpstreamConfig{BaseURL: server.URL})
	return client, server
}

func TestSellerViewNormalization(t *testing.T) {
	var gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/campanhas/55/vendedor-view", r.URL.Path)

		_, _ = w.Write([]byte(`{
			"id": 55,
			"titulo": "Campanha Turbo",
			"status": "ATIVA",
			"dataInicio": "2024-03-01T00:00:00-03:00",
			"dataFim": "2024-03-31T23:59:59-03:00",
			"regras": "valem as regras",
			"maxPontosPorCartela": "150.00",
			"cartelas": [
				{
					"id": "c1",
					"numero": "1",
					"requisitos": [
						{"id": "r1", "quantidadeAlvo": "3", "ordem": 1, "numeroCartela": 1}
					]
				}
			]
		}`))
	})

	client, server := newTestClient(handler)
	defer server.Close()

	ctx := WithToken(context.Background(), "tok-123")
	campaign, err := client.SellerView(ctx, 55)()
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, int64(55), campaign.ID)
	assert.Equal(t, model.CampaignStatusActive, campaign.Status)
	assert.Equal(t, true, campaign.MaxPointsPerCard.Valid)
	assert.Equal(t, "150", campaign.MaxPointsPerCard.Decimal.String())

	require.Equal(t, 1, len(campaign.Cards))
	card := campaign.Cards[0]
	assert.Equal(t, 1, card.Number)
	require.Equal(t, 1, len(card.Requirements))
	assert.Equal(t, 3, card.Requirements[0].Target)
	assert.Equal(t, 1, card.Requirements[0].Ordem)
	assert.Equal(t, 1, card.Requirements[0].CardNumber)
}

func TestMySubmissionsNormalization(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/envios-venda/minhas", r.URL.Path)
		assert.Equal(t, "55", r.URL.Query().Get("campanhaId"))

		_, _ = w.Write([]byte(`[
			{"id": 1, "status": "VALIDADO", "requisitoId": "r1", "numeroCartelaAtendida": 2, "pontosRecebidos": "10.50"},
			{"id": 2, "status": "VALIDADO", "requisitoId": "r1", "numeroCartelaAtendida": null},
			{"id": 3, "status": "EM_ANALISE", "requisitoId": "r1", "numeroCartelaAtendida": "1"}
		]`))
	})

	client, server := newTestClient(handler)
	defer server.Close()

	submissions, err := client.MySubmissions(context.Background(), 55)()
	require.NoError(t, err)
	require.Equal(t, 3, len(submissions))

	assert.Equal(t, 2, submissions[0].CreditedCard)
	assert.Equal(t, false, submissions[0].CreditedCardAssumed)
	assert.Equal(t, "10.5", submissions[0].Points.String())

	// null credited card is attributed to card 1
	assert.Equal(t, 1, submissions[1].CreditedCard)
	assert.Equal(t, true, submissions[1].CreditedCardAssumed)

	assert.Equal(t, 1, submissions[2].CreditedCard)
	assert.Equal(t, model.SubmissionStatusInReview, submissions[2].Status)
}

func TestErrorTaxonomy(t *testing.T) {
	status := http.StatusOK
	message := ""
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		if message != "" {
			_, _ = w.Write([]byte(`{"message": "` + message + `"}`))
		}
	})

	client, server := newTestClient(handler)
	defer server.Close()
	ctx := context.Background()

	// 401 becomes the sentinel
	status = http.StatusUnauthorized
	err := client.ValidateManual(ctx, 9)
	assert.Equal(t, ErrUnauthorized, err)

	// 4xx keeps the backend message verbatim
	status = http.StatusUnprocessableEntity
	message = "pedido já validado"
	err = client.ValidateManual(ctx, 9)
	apiErr, ok := AsAPIError(err)
	require.Equal(t, true, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "pedido já validado", apiErr.Message)
	assert.Equal(t, true, IsClientError(err))

	// 5xx falls back to the generic message
	status = http.StatusInternalServerError
	message = "stacktrace interno"
	err = client.ValidateManual(ctx, 9)
	apiErr, ok = AsAPIError(err)
	require.Equal(t, true, ok)
	assert.Equal(t, GenericMessage, apiErr.Message)
	assert.Equal(t, false, IsClientError(err))
}

func TestTransportFailure(t *testing.T) {
	client := NewClient(config.UpstreamConfig{BaseURL: "http://127.0.0.1:1"})

	err := client.ValidateManual(context.Background(), 9)
	apiErr, ok := AsAPIError(err)
	require.Equal(t, true, ok)
	assert.Equal(t, 0, apiErr.StatusCode)
	assert.Equal(t, GenericMessage, apiErr.Message)
}

func TestRejectManualBody(t *testing.T) {
	var gotBody string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/envios-venda/7/rejeitar-manual", r.URL.Path)
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
	})

	client, server := newTestClient(handler)
	defer server.Close()

	err := client.RejectManual(context.Background(), 7, "nota fiscal ilegível")
	assert.Equal(t, nil, err)
	assert.Equal(t, `{"motivoRejeicao":"nota fiscal ilegível"}`, gotBody)
}

func TestStagingSearchQuery(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/imports/staging", r.URL.Path)
		assert.Equal(t, "55", r.URL.Query().Get("campanhaId"))
		assert.Equal(t, "cabo hdmi", r.URL.Query().Get("busca"))
		assert.Equal(t, "2", r.URL.Query().Get("pagina"))

		_, _ = w.Write([]byte(`{
			"itens": [{"id": 1, "numeroPedido": "PED-1", "quantidade": "4", "valor": 99.9}],
			"total": "37", "pagina": 2, "tamanhoPagina": 20
		}`))
	})

	client, server := newTestClient(handler)
	defer server.Close()

	page, err := client.StagingSearch(context.Background(), model.StagingQuery{
		CampaignID: 55,
		Search:     "cabo hdmi",
		Page:       2,
		PageSize:   20,
	})
	require.NoError(t, err)

	assert.Equal(t, 37, page.Total)
	require.Equal(t, 1, len(page.Items))
	assert.Equal(t, 4, page.Items[0].Quantity)
	assert.Equal(t, "99.9", page.Items[0].Amount.String())
}
