package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/incentivar/cartela-board/config"
	"github.com/incentivar/cartela-board/model"
	"github.com/incentivar/cartela-board/pkg/metrics"
	"github.com/incentivar/cartela-board/pkg/otellib"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Client consumes the incentive backend REST API. Campaign and submission
// reads return single-use fetch handles so both requests run concurrently;
// the two reads are independent and may observe different points in time.
type Client interface {
	SellerView(ctx context.Context, campaignID int64) func() (model.Campaign, error)
	MySubmissions(ctx context.Context, campaignID int64) func() ([]model.Submission, error)

	ValidateManual(ctx context.Context, submissionID int64) error
	RejectManual(ctx context.Context, submissionID int64, reason string) error

	Analytics(ctx context.Context, campaignID int64) (model.Analytics, error)
	Dashboard(ctx context.Context, role model.Role) (json.RawMessage, error)
	MyTeam(ctx context.Context) ([]model.TeamMember, error)
	ManagerRanking(ctx context.Context) ([]model.RankingEntry, error)

	SaveColumnMapping(ctx context.Context, mapping model.ColumnMapping) error
	ColumnMapping(ctx context.Context, campaignID int64) (model.ColumnMapping, error)
	StagingSearch(ctx context.Context, query model.StagingQuery) (model.StagingPage, error)
}

type ctxTokenKey struct{}

var tokenKey ctxTokenKey

// WithToken returns ctx carrying the caller's bearer token. Every upstream
// request forwards it; the service never mints its own credentials.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// TokenFrom ...
func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

type clientImpl struct {
	conf   config.UpstreamConfig
	client *http.Client
	tracer trace.Tracer
}

// NewClient ...
func NewClient(conf config.UpstreamConfig) Client {
	timeout := conf.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &clientImpl{
		conf:   conf,
		client: &http.Client{Timeout: timeout},
		tracer: otel.GetTracerProvider().Tracer("upstream"),
	}
}

type upstreamError struct {
	Message string `json:"message"`
}

func (c *clientImpl) do(
	ctx context.Context, method string, route string, path string,
	query url.Values, body interface{}, out interface{},
) error {
	ctx, span := c.tracer.Start(ctx, "upstream::"+route)
	defer span.End()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	fullURL := c.conf.URL(path)
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := TokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		metrics.ObserveUpstreamRequest(route, 0, time.Since(start).Seconds())
		otellib.Extract(ctx).Error("upstream request failed",
			zap.String("route", route), zap.Error(err))
		return &APIError{Message: GenericMessage}
	}
	defer func() { _ = resp.Body.Close() }()

	metrics.ObserveUpstreamRequest(route, resp.StatusCode, time.Since(start).Seconds())

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		var serverErr upstreamError
		_ = json.NewDecoder(resp.Body).Decode(&serverErr)
		if serverErr.Message == "" {
			serverErr.Message = GenericMessage
		}
		return &APIError{StatusCode: resp.StatusCode, Message: serverErr.Message}
	}
	if resp.StatusCode >= 500 {
		otellib.Extract(ctx).Error("upstream server error",
			zap.String("route", route), zap.Int("status", resp.StatusCode))
		return &APIError{StatusCode: resp.StatusCode, Message: GenericMessage}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// SellerView ...
func (c *clientImpl) SellerView(ctx context.Context, campaignID int64) func() (model.Campaign, error) {
	type outcome struct {
		campaign model.Campaign
		err      error
	}

	ch := make(chan outcome, 1)
	go func() {
		var dto sellerViewDTO
		err := c.do(ctx, http.MethodGet, "vendedor-view",
			fmt.Sprintf("/campanhas/%d/vendedor-view", campaignID), nil, nil, &dto)
		if err != nil {
			ch <- outcome{err: err}
			return
		}
		ch <- outcome{campaign: dto.toModel()}
	}()

	fetched := false
	var result outcome
	return func() (model.Campaign, error) {
		if !fetched {
			result = <-ch
			fetched = true
		}
		return result.campaign, result.err
	}
}

// MySubmissions ...
func (c *clientImpl) MySubmissions(ctx context.Context, campaignID int64) func() ([]model.Submission, error) {
	type outcome struct {
		submissions []model.Submission
		err         error
	}

	query := url.Values{}
	query.Set("campanhaId", strconv.FormatInt(campaignID, 10))

	ch := make(chan outcome, 1)
	go func() {
		var dtos []envioDTO
		err := c.do(ctx, http.MethodGet, "envios-venda-minhas",
			"/envios-venda/minhas", query, nil, &dtos)
		if err != nil {
			ch <- outcome{err: err}
			return
		}

		submissions := make([]model.Submission, 0, len(dtos))
		for _, dto := range dtos {
			submissions = append(submissions, dto.toModel())
		}
		ch <- outcome{submissions: submissions}
	}()

	fetched := false
	var result outcome
	return func() ([]model.Submission, error) {
		if !fetched {
			result = <-ch
			fetched = true
		}
		return result.submissions, result.err
	}
}

// ValidateManual ...
func (c *clientImpl) ValidateManual(ctx context.Context, submissionID int64) error {
	return c.do(ctx, http.MethodPatch, "validar-manual",
		fmt.Sprintf("/envios-venda/%d/validar-manual", submissionID), nil, nil, nil)
}

// RejectManual ...
func (c *clientImpl) RejectManual(ctx context.Context, submissionID int64, reason string) error {
	body := map[string]string{"motivoRejeicao": reason}
	return c.do(ctx, http.MethodPatch, "rejeitar-manual",
		fmt.Sprintf("/envios-venda/%d/rejeitar-manual", submissionID), nil, body, nil)
}

// Analytics ...
func (c *clientImpl) Analytics(ctx context.Context, campaignID int64) (model.Analytics, error) {
	var dto analyticsDTO
	err := c.do(ctx, http.MethodGet, "analytics",
		fmt.Sprintf("/campanhas/%d/analytics", campaignID), nil, nil, &dto)
	if err != nil {
		return model.Analytics{}, err
	}
	return dto.toModel(), nil
}

// Dashboard returns the role read model as-is; the backend owns its shape
func (c *clientImpl) Dashboard(ctx context.Context, role model.Role) (json.RawMessage, error) {
	var payload json.RawMessage
	err := c.do(ctx, http.MethodGet, "dashboard",
		fmt.Sprintf("/dashboard/%s", role), nil, nil, &payload)
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// MyTeam ...
func (c *clientImpl) MyTeam(ctx context.Context) ([]model.TeamMember, error) {
	var dtos []teamMemberDTO
	err := c.do(ctx, http.MethodGet, "minha-equipe", "/perfil/minha-equipe", nil, nil, &dtos)
	if err != nil {
		return nil, err
	}

	members := make([]model.TeamMember, 0, len(dtos))
	for _, dto := range dtos {
		members = append(members, dto.toModel())
	}
	return members, nil
}

// ManagerRanking ...
func (c *clientImpl) ManagerRanking(ctx context.Context) ([]model.RankingEntry, error) {
	var dtos []rankingEntryDTO
	err := c.do(ctx, http.MethodGet, "ranking-gerente", "/ranking/gerente", nil, nil, &dtos)
	if err != nil {
		return nil, err
	}

	entries := make([]model.RankingEntry, 0, len(dtos))
	for _, dto := range dtos {
		entries = append(entries, dto.toModel())
	}
	return entries, nil
}

// SaveColumnMapping ...
func (c *clientImpl) SaveColumnMapping(ctx context.Context, mapping model.ColumnMapping) error {
	return c.do(ctx, http.MethodPost, "salvar-mapeamento",
		"/validacao/mapeamento", nil, mapping, nil)
}

// ColumnMapping ...
func (c *clientImpl) ColumnMapping(ctx context.Context, campaignID int64) (model.ColumnMapping, error) {
	query := url.Values{}
	query.Set("campanhaId", strconv.FormatInt(campaignID, 10))

	var mapping model.ColumnMapping
	err := c.do(ctx, http.MethodGet, "mapeamento", "/validacao/mapeamento", query, nil, &mapping)
	if err != nil {
		return model.ColumnMapping{}, err
	}
	return mapping, nil
}

// StagingSearch ...
func (c *clientImpl) StagingSearch(ctx context.Context, q model.StagingQuery) (model.StagingPage, error) {
	query := url.Values{}
	query.Set("campanhaId", strconv.FormatInt(q.CampaignID, 10))
	if q.Search != "" {
		query.Set("busca", q.Search)
	}
	if q.Page > 0 {
		query.Set("pagina", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		query.Set("tamanhoPagina", strconv.Itoa(q.PageSize))
	}

	var dto stagingPageDTO
	err := c.do(ctx, http.MethodGet, "staging-busca", "/imports/staging", query, nil, &dto)
	if err != nil {
		return model.StagingPage{}, err
	}
	return dto.toModel(), nil
}
