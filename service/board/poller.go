package board

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/incentivar/cartela-board/config"
	"golang.org/x/time/rate"
)

// poller keeps recently served boards warm: every interval it re-fetches
// each registered (campaign, seller) pair behind a rate limiter, so the
// dashboard's fixed-interval polling mostly hits cache. Entries not seen
// for the retention window are dropped.
type poller struct {
	mu      sync.Mutex
	entries map[string]*pollEntry

	interval  time.Duration
	retention time.Duration
	limiter   *rate.Limiter
}

type pollEntry struct {
	campaignID int64
	sellerID   string
	token      string
	lastSeen   time.Time
}

func newPoller(conf config.PollConfig) *poller {
	interval := conf.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	retention := conf.EntryRetention
	if retention <= 0 {
		retention = 15 * time.Minute
	}

	limit := rate.Limit(conf.RatePerSecond)
	if conf.RatePerSecond <= 0 {
		limit = rate.Limit(5)
	}
	burst := conf.Burst
	if burst <= 0 {
		burst = 1
	}

	return &poller{
		entries:   map[string]*pollEntry{},
		interval:  interval,
		retention: retention,
		limiter:   rate.NewLimiter(limit, burst),
	}
}

func (p *poller) register(campaignID int64, sellerID string, token string, now time.Time) {
	key := fmt.Sprintf("%d:%s", campaignID, sellerID)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries[key] = &pollEntry{
		campaignID: campaignID,
		sellerID:   sellerID,
		token:      token,
		lastSeen:   now,
	}
}

func (p *poller) snapshot(now time.Time) []pollEntry {
	p.mu.Lock()
	defer p.mu.Unlock()

	var result []pollEntry
	for key, entry := range p.entries {
		if now.Sub(entry.lastSeen) > p.retention {
			delete(p.entries, key)
			continue
		}
		result = append(result, *entry)
	}
	return result
}

func (p *poller) run(ctx context.Context, refresh func(ctx context.Context, campaignID int64, sellerID string, token string)) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		for _, entry := range p.snapshot(time.Now()) {
			if err := p.limiter.Wait(ctx); err != nil {
				return
			}
			refresh(ctx, entry.campaignID, entry.sellerID, entry.token)
		}
	}
}
