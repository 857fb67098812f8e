package board

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/incentivar/cartela-board/model"
	"github.com/incentivar/cartela-board/upstream"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type serviceStub struct {
	boardFunc  func(ctx context.Context, input BoardInput) (BoardView, error)
	rejectFunc func(ctx context.Context, submissionID int64, reason string) error

	dashboardRole model.Role
}

var _ IService = &serviceStub{}

func (s *serviceStub) Board(ctx context.Context, input BoardInput) (BoardView, error) {
	if s.boardFunc == nil {
		return BoardView{}, errors.New("not stubbed")
	}
	return s.boardFunc(ctx, input)
}

func (s *serviceStub) Analytics(ctx context.Context, campaignID int64) (model.Analytics, error) {
	return model.Analytics{}, nil
}

func (s *serviceStub) Dashboard(ctx context.Context, role model.Role) (json.RawMessage, error) {
	s.dashboardRole = role
	return json.RawMessage(`{"ok":true}`), nil
}

func (s *serviceStub) MyTeam(ctx context.Context) ([]model.TeamMember, error) {
	return nil, nil
}

func (s *serviceStub) ManagerRanking(ctx context.Context) ([]model.RankingEntry, error) {
	return nil, nil
}

func (s *serviceStub) ValidateSubmission(ctx context.Context, submissionID int64) error {
	return nil
}

func (s *serviceStub) RejectSubmission(ctx context.Context, submissionID int64, reason string) error {
	if s.rejectFunc == nil {
		return nil
	}
	return s.rejectFunc(ctx, submissionID, reason)
}

func (s *serviceStub) SaveColumnMapping(ctx context.Context, mapping model.ColumnMapping) error {
	return nil
}

func (s *serviceStub) ColumnMapping(ctx context.Context, campaignID int64) (model.ColumnMapping, error) {
	return model.ColumnMapping{}, nil
}

func (s *serviceStub) StagingSearch(ctx context.Context, query model.StagingQuery) (model.StagingPage, error) {
	return model.StagingPage{}, nil
}

func serveRequest(stub IService, req *http.Request) *httptest.ResponseRecorder {
	server := NewServer(stub, zap.NewNop())
	recorder := httptest.NewRecorder()
	server.Mount().ServeHTTP(recorder, req)
	return recorder
}

func errorMessage(t *testing.T, recorder *httptest.ResponseRecorder) string {
	var body struct {
		Erro string `json:"erro"`
	}
	err := json.Unmarshal(recorder.Body.Bytes(), &body)
	assert.Equal(t, nil, err)
	return body.Erro
}

func TestServerBoard(t *testing.T) {
	stub := &serviceStub{
		boardFunc: func(ctx context.Context, input BoardInput) (BoardView, error) {
			assert.Equal(t, int64(88), input.CampaignID)
			assert.Equal(t, "seller-1", input.SellerID)
			assert.Equal(t, "cartela-2", input.CurrentTab)
			assert.Equal(t, "token-abc", upstream.TokenFrom(ctx))
			return BoardView{CampaignID: 88, SelectedTab: "cartela-2"}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet,
		"/v1/campanhas/88/board?vendedorId=seller-1&aba=cartela-2", nil)
	req.Header.Set("Authorization", "Bearer token-abc")

	recorder := serveRequest(stub, req)
	assert.Equal(t, http.StatusOK, recorder.Code)

	var view BoardView
	err := json.Unmarshal(recorder.Body.Bytes(), &view)
	assert.Equal(t, nil, err)
	assert.Equal(t, int64(88), view.CampaignID)
	assert.Equal(t, "cartela-2", view.SelectedTab)
}

func TestServerBoardMissingSeller(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/campanhas/88/board", nil)
	recorder := serveRequest(&serviceStub{}, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "vendedorId é obrigatório", errorMessage(t, recorder))
}

func TestServerBoardUnauthorized(t *testing.T) {
	stub := &serviceStub{
		boardFunc: func(ctx context.Context, input BoardInput) (BoardView, error) {
			return BoardView{}, upstream.ErrUnauthorized
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/campanhas/88/board?vendedorId=s1", nil)
	recorder := serveRequest(stub, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "Sessão expirada. Faça login novamente.", errorMessage(t, recorder))
}

func TestServerBoardBackendRejection(t *testing.T) {
	stub := &serviceStub{
		boardFunc: func(ctx context.Context, input BoardInput) (BoardView, error) {
			return BoardView{}, &upstream.APIError{
				StatusCode: http.StatusNotFound,
				Message:    "Campanha não encontrada",
			}
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/campanhas/88/board?vendedorId=s1", nil)
	recorder := serveRequest(stub, req)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "Campanha não encontrada", errorMessage(t, recorder))
}

func TestServerBoardUpstreamDown(t *testing.T) {
	stub := &serviceStub{
		boardFunc: func(ctx context.Context, input BoardInput) (BoardView, error) {
			return BoardView{}, &upstream.APIError{
				StatusCode: http.StatusServiceUnavailable,
				Message:    upstream.GenericMessage,
			}
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/campanhas/88/board?vendedorId=s1", nil)
	recorder := serveRequest(stub, req)

	assert.Equal(t, http.StatusBadGateway, recorder.Code)
	assert.Equal(t, upstream.GenericMessage, errorMessage(t, recorder))
}

func TestServerDashboard(t *testing.T) {
	stub := &serviceStub{}

	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard/gerente", nil)
	recorder := serveRequest(stub, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, model.RoleManager, stub.dashboardRole)
}

func TestServerDashboardUnknownRole(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard/estagiario", nil)
	recorder := serveRequest(&serviceStub{}, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "papel desconhecido", errorMessage(t, recorder))
}

func TestServerReject(t *testing.T) {
	var gotID int64
	var gotReason string
	stub := &serviceStub{
		rejectFunc: func(ctx context.Context, submissionID int64, reason string) error {
			gotID = submissionID
			gotReason = reason
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPatch, "/v1/envios-venda/42/rejeitar-manual",
		strings.NewReader(`{"motivoRejeicao":"duplicado"}`))
	recorder := serveRequest(stub, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, int64(42), gotID)
	assert.Equal(t, "duplicado", gotReason)
}

func TestServerRejectMissingReason(t *testing.T) {
	req := httptest.NewRequest(http.MethodPatch, "/v1/envios-venda/42/rejeitar-manual",
		strings.NewReader(`{"motivoRejeicao":"  "}`))
	recorder := serveRequest(&serviceStub{}, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "motivoRejeicao é obrigatório", errorMessage(t, recorder))
}

func TestServerHealth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	recorder := serveRequest(&serviceStub{}, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
}
