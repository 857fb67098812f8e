package repository

import (
	"context"
	"database/sql"
	"time"
)

// BoardSnapshot is the last successfully assembled board view for one
// (campaign, seller) pair, serialized as JSON. It is served marked stale
// when the upstream API is unavailable.
type BoardSnapshot struct {
	CampaignID int64     `db:"campaign_id"`
	SellerID   string    `db:"seller_id"`
	Payload    []byte    `db:"payload"`
	FetchedAt  time.Time `db:"fetched_at"`
}

// NullBoardSnapshot ...
type NullBoardSnapshot struct {
	Valid    bool
	Snapshot BoardSnapshot
}

// Snapshot ...
type Snapshot interface {
	FindBoardSnapshot(ctx context.Context, campaignID int64, sellerID string) (NullBoardSnapshot, error)
	UpsertBoardSnapshot(ctx context.Context, snapshot BoardSnapshot) error
	DeleteOldSnapshots(ctx context.Context, olderThan time.Time) error
}

type snapshotImpl struct {
}

// NewSnapshot ...
func NewSnapshot() Snapshot {
	return &snapshotImpl{}
}

// FindBoardSnapshot ...
func (s *snapshotImpl) FindBoardSnapshot(
	ctx context.Context, campaignID int64, sellerID string,
) (NullBoardSnapshot, error) {
	query := `
SELECT campaign_id, seller_id, payload, fetched_at
FROM board_snapshot
WHERE campaign_id = ? AND seller_id = ?
`
	var result BoardSnapshot
	err := GetReadonly(ctx).GetContext(ctx, &result, query, campaignID, sellerID)
	if err == sql.ErrNoRows {
		return NullBoardSnapshot{}, nil
	}
	if err != nil {
		return NullBoardSnapshot{}, err
	}
	return NullBoardSnapshot{Valid: true, Snapshot: result}, nil
}

// UpsertBoardSnapshot ...
func (s *snapshotImpl) UpsertBoardSnapshot(ctx context.Context, snapshot BoardSnapshot) error {
	query := `
INSERT INTO board_snapshot (campaign_id, seller_id, payload, fetched_at)
VALUES (:campaign_id, :seller_id, :payload, :fetched_at) AS NEW
ON DUPLICATE KEY UPDATE
	payload = NEW.payload,
	fetched_at = NEW.fetched_at
`
	_, err := GetTx(ctx).NamedExecContext(ctx, query, snapshot)
	return err
}

// DeleteOldSnapshots ...
func (s *snapshotImpl) DeleteOldSnapshots(ctx context.Context, olderThan time.Time) error {
	query := `DELETE FROM board_snapshot WHERE fetched_at < ?`
	_, err := GetTx(ctx).ExecContext(ctx, query, olderThan)
	return err
}
