package board

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/incentivar/cartela-board/config"
	"github.com/incentivar/cartela-board/model"
	"github.com/incentivar/cartela-board/pkg/metrics"
	"github.com/incentivar/cartela-board/pkg/otellib"
	"github.com/incentivar/cartela-board/progress"
	"github.com/incentivar/cartela-board/repository"
	"github.com/incentivar/cartela-board/upstream"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// IService ...
type IService interface {
	Board(ctx context.Context, input BoardInput) (BoardView, error)

	Analytics(ctx context.Context, campaignID int64) (model.Analytics, error)
	Dashboard(ctx context.Context, role model.Role) (json.RawMessage, error)
	MyTeam(ctx context.Context) ([]model.TeamMember, error)
	ManagerRanking(ctx context.Context) ([]model.RankingEntry, error)

	ValidateSubmission(ctx context.Context, submissionID int64) error
	RejectSubmission(ctx context.Context, submissionID int64, reason string) error

	SaveColumnMapping(ctx context.Context, mapping model.ColumnMapping) error
	ColumnMapping(ctx context.Context, campaignID int64) (model.ColumnMapping, error)
	StagingSearch(ctx context.Context, query model.StagingQuery) (model.StagingPage, error)
}

// BoardInput ...
type BoardInput struct {
	CampaignID int64
	SellerID   string

	// CurrentTab is the selection the client currently shows; the selector
	// keeps it while it remains valid
	CurrentTab string

	// Now overrides the clock, zero means time.Now
	Now time.Time
}

// Service ...
type Service struct {
	client       upstream.Client
	provider     repository.Provider
	snapshotRepo repository.Snapshot

	cache  *viewCache
	poller *poller
	tracer trace.Tracer

	snapshotRetention time.Duration
}

// NewService ...
func NewService(
	client upstream.Client,
	provider repository.Provider,
	snapshotRepo repository.Snapshot,
	cacheConf config.CacheConfig,
	pollConf config.PollConfig,
) *Service {
	snapshotRetention := pollConf.SnapshotRetention
	if snapshotRetention <= 0 {
		snapshotRetention = 7 * 24 * time.Hour
	}

	return &Service{
		client:       client,
		provider:     provider,
		snapshotRepo: snapshotRepo,

		cache:  newViewCache(cacheConf.SizeMB, cacheConf.BoardTTL),
		poller: newPoller(pollConf),
		tracer: otel.GetTracerProvider().Tracer("board"),

		snapshotRetention: snapshotRetention,
	}
}

// Board assembles the seller board for one campaign. Cached views are
// served as-is except for tab selection, which always honors the client's
// current selection. On upstream failure the last snapshot is served
// marked stale.
func (s *Service) Board(ctx context.Context, input BoardInput) (BoardView, error) {
	ctx, span := s.tracer.Start(ctx, "service::board")
	defer span.End()

	now := input.Now
	if now.IsZero() {
		now = time.Now()
	}
	token := upstream.TokenFrom(ctx)

	if view, ok := s.cache.Get(input.CampaignID, input.SellerID, token); ok {
		metrics.RecordCacheLookup("hit")
		view.SelectedTab = progress.SelectTab(input.CurrentTab, viewTabCards(view), view.Rules)
		return view, nil
	}
	metrics.RecordCacheLookup("miss")

	view, err := s.loadBoard(ctx, input, now)
	if err != nil {
		view, ok := s.fromSnapshot(ctx, input, err)
		if !ok {
			return BoardView{}, err
		}
		view.SelectedTab = progress.SelectTab(input.CurrentTab, viewTabCards(view), view.Rules)
		return view, nil
	}

	s.poller.register(input.CampaignID, input.SellerID, token, now)

	view.SelectedTab = progress.SelectTab(input.CurrentTab, viewTabCards(view), view.Rules)
	return view, nil
}

// loadBoard fetches campaign and submissions concurrently, runs the
// progress engine and stores the result in cache and snapshot store
func (s *Service) loadBoard(ctx context.Context, input BoardInput, now time.Time) (BoardView, error) {
	campaignFn := s.client.SellerView(ctx, input.CampaignID)
	submissionsFn := s.client.MySubmissions(ctx, input.CampaignID)

	campaign, err := campaignFn()
	if err != nil {
		return BoardView{}, err
	}
	submissions, err := submissionsFn()
	if err != nil {
		return BoardView{}, err
	}

	for _, sub := range submissions {
		if sub.CreditedCardAssumed {
			otellib.Extract(ctx).Warn("submission without credited card attributed to card 1",
				zap.Int64("submission", sub.ID),
				zap.Int64("campaign", input.CampaignID))
		}
	}

	phase := progress.Classify(now, campaign)
	idx := progress.BuildOrdemIndex(campaign.Cards)
	expanded := progress.Expand(phase, campaign.Cards)
	result := progress.Resolve(expanded, idx, submissions)
	metrics.BoardResolves.Inc()

	view := buildView(now, campaign, phase, expanded, result)

	token := upstream.TokenFrom(ctx)
	s.cache.Set(input.CampaignID, input.SellerID, token, view)
	s.saveSnapshot(ctx, input, view)

	return view, nil
}

// saveSnapshot is best effort; a storage failure never fails the read
func (s *Service) saveSnapshot(ctx context.Context, input BoardInput, view BoardView) {
	if s.provider == nil || s.snapshotRepo == nil {
		return
	}

	payload, err := json.Marshal(view)
	if err != nil {
		return
	}

	err = s.provider.Transact(ctx, func(ctx context.Context) error {
		return s.snapshotRepo.UpsertBoardSnapshot(ctx, repository.BoardSnapshot{
			CampaignID: input.CampaignID,
			SellerID:   input.SellerID,
			Payload:    payload,
			FetchedAt:  view.FetchedAt,
		})
	})
	if err != nil {
		otellib.Extract(ctx).Error("snapshot save failed",
			zap.Int64("campaign", input.CampaignID), zap.Error(err))
	}
}

// fromSnapshot serves the last-known-good view when the upstream is
// unreachable. Authentication and request errors are never masked.
func (s *Service) fromSnapshot(ctx context.Context, input BoardInput, cause error) (BoardView, bool) {
	if cause == upstream.ErrUnauthorized || upstream.IsClientError(cause) {
		return BoardView{}, false
	}
	if s.provider == nil || s.snapshotRepo == nil {
		return BoardView{}, false
	}

	readCtx := s.provider.Readonly(ctx)
	nullSnapshot, err := s.snapshotRepo.FindBoardSnapshot(readCtx, input.CampaignID, input.SellerID)
	if err != nil || !nullSnapshot.Valid {
		return BoardView{}, false
	}

	var view BoardView
	if json.Unmarshal(nullSnapshot.Snapshot.Payload, &view) != nil {
		return BoardView{}, false
	}

	metrics.SnapshotFallbacks.Inc()
	otellib.Extract(ctx).Warn("serving stale board snapshot",
		zap.Int64("campaign", input.CampaignID), zap.Error(cause))

	view.Stale = true
	return view, true
}

// Run drives the background refresher and snapshot pruning until ctx is done
func (s *Service) Run(ctx context.Context) {
	go s.runSnapshotPrune(ctx)

	s.poller.run(ctx, func(ctx context.Context, campaignID int64, sellerID string, token string) {
		ctx = upstream.WithToken(ctx, token)
		input := BoardInput{CampaignID: campaignID, SellerID: sellerID}
		_, err := s.loadBoard(ctx, input, time.Now())
		if err != nil {
			otellib.Extract(ctx).Warn("board refresh failed",
				zap.Int64("campaign", campaignID), zap.Error(err))
		}
	})
}

func (s *Service) runSnapshotPrune(ctx context.Context) {
	if s.provider == nil || s.snapshotRepo == nil {
		return
	}

	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		err := s.provider.Transact(ctx, func(ctx context.Context) error {
			return s.snapshotRepo.DeleteOldSnapshots(ctx, time.Now().Add(-s.snapshotRetention))
		})
		if err != nil {
			otellib.Extract(ctx).Error("snapshot prune failed", zap.Error(err))
		}
	}
}

// Analytics ...
func (s *Service) Analytics(ctx context.Context, campaignID int64) (model.Analytics, error) {
	ctx, span := s.tracer.Start(ctx, "service::analytics")
	defer span.End()

	key := fmt.Sprintf("analytics:%d:%s", campaignID, upstream.TokenFrom(ctx))
	var cached model.Analytics
	if s.cache.GetJSON(key, &cached) {
		metrics.RecordCacheLookup("hit")
		return cached, nil
	}
	metrics.RecordCacheLookup("miss")

	analytics, err := s.client.Analytics(ctx, campaignID)
	if err != nil {
		return model.Analytics{}, err
	}
	s.cache.SetJSON(key, analytics)
	return analytics, nil
}

// Dashboard ...
func (s *Service) Dashboard(ctx context.Context, role model.Role) (json.RawMessage, error) {
	ctx, span := s.tracer.Start(ctx, "service::dashboard")
	defer span.End()

	key := fmt.Sprintf("dashboard:%s:%s", role, upstream.TokenFrom(ctx))
	var cached json.RawMessage
	if s.cache.GetJSON(key, &cached) {
		metrics.RecordCacheLookup("hit")
		return cached, nil
	}
	metrics.RecordCacheLookup("miss")

	payload, err := s.client.Dashboard(ctx, role)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(key, payload)
	return payload, nil
}

// MyTeam ...
func (s *Service) MyTeam(ctx context.Context) ([]model.TeamMember, error) {
	ctx, span := s.tracer.Start(ctx, "service::my-team")
	defer span.End()

	key := "my-team:" + upstream.TokenFrom(ctx)
	var cached []model.TeamMember
	if s.cache.GetJSON(key, &cached) {
		metrics.RecordCacheLookup("hit")
		return cached, nil
	}
	metrics.RecordCacheLookup("miss")

	members, err := s.client.MyTeam(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(key, members)
	return members, nil
}

// ManagerRanking ...
func (s *Service) ManagerRanking(ctx context.Context) ([]model.RankingEntry, error) {
	ctx, span := s.tracer.Start(ctx, "service::manager-ranking")
	defer span.End()

	key := "ranking:" + upstream.TokenFrom(ctx)
	var cached []model.RankingEntry
	if s.cache.GetJSON(key, &cached) {
		metrics.RecordCacheLookup("hit")
		return cached, nil
	}
	metrics.RecordCacheLookup("miss")

	entries, err := s.client.ManagerRanking(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(key, entries)
	return entries, nil
}

// ValidateSubmission passes the manual decision through and drops every
// cached view: the decision changes submission state, and the affected
// boards cannot be enumerated from the submission id
func (s *Service) ValidateSubmission(ctx context.Context, submissionID int64) error {
	ctx, span := s.tracer.Start(ctx, "service::validate-submission")
	defer span.End()

	err := s.client.ValidateManual(ctx, submissionID)
	if err != nil {
		return err
	}
	s.cache.Clear()
	return nil
}

// RejectSubmission ...
func (s *Service) RejectSubmission(ctx context.Context, submissionID int64, reason string) error {
	ctx, span := s.tracer.Start(ctx, "service::reject-submission")
	defer span.End()

	err := s.client.RejectManual(ctx, submissionID, reason)
	if err != nil {
		return err
	}
	s.cache.Clear()
	return nil
}

// SaveColumnMapping ...
func (s *Service) SaveColumnMapping(ctx context.Context, mapping model.ColumnMapping) error {
	ctx, span := s.tracer.Start(ctx, "service::save-column-mapping")
	defer span.End()
	return s.client.SaveColumnMapping(ctx, mapping)
}

// ColumnMapping ...
func (s *Service) ColumnMapping(ctx context.Context, campaignID int64) (model.ColumnMapping, error) {
	ctx, span := s.tracer.Start(ctx, "service::column-mapping")
	defer span.End()
	return s.client.ColumnMapping(ctx, campaignID)
}

// StagingSearch ...
func (s *Service) StagingSearch(ctx context.Context, query model.StagingQuery) (model.StagingPage, error) {
	ctx, span := s.tracer.Start(ctx, "service::staging-search")
	defer span.End()
	return s.client.StagingSearch(ctx, query)
}
