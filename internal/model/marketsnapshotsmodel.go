package model

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

var _ MarketSnapshotsModel = (*defaultMarketSnapshotsModel)(nil)

type (
	// MarketSnapshotsModel wraps the market_snapshots table, an append-only
	// history of aggregated snapshots with the full payload kept as JSON.
	MarketSnapshotsModel interface {
		Insert(ctx context.Context, data *MarketSnapshots) error
		FindLatest(ctx context.Context, provider, symbol string) (*MarketSnapshots, error)
		ListRecent(ctx context.Context, provider, symbol string, limit int) ([]*MarketSnapshots, error)
	}

	defaultMarketSnapshotsModel struct {
		conn  sqlx.SqlConn
		table string
	}

	MarketSnapshots struct {
		Id           int64           `db:"id"`
		Provider     string          `db:"provider"`
		Symbol       string          `db:"symbol"`
		Price        float64         `db:"price"`
		Funding      sql.NullFloat64 `db:"funding"`
		OpenInterest sql.NullFloat64 `db:"open_interest"`
		Raw          string          `db:"raw"`
		TsMs         int64           `db:"ts_ms"`
		CreatedAt    time.Time       `db:"created_at"`
	}
)

// NewMarketSnapshotsModel returns a model for the database table.
func NewMarketSnapshotsModel(conn sqlx.SqlConn) MarketSnapshotsModel {
	return &defaultMarketSnapshotsModel{
		conn:  conn,
		table: "public.market_snapshots",
	}
}

func (m *defaultMarketSnapshotsModel) Insert(ctx context.Context, data *MarketSnapshots) error {
	query := fmt.Sprintf(`
INSERT INTO %s (provider, symbol, price, funding, open_interest, raw, ts_ms, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())`, m.table)
	_, err := m.conn.ExecCtx(ctx, query,
		data.Provider,
		data.Symbol,
		data.Price,
		data.Funding,
		data.OpenInterest,
		data.Raw,
		data.TsMs,
	)
	return err
}

func (m *defaultMarketSnapshotsModel) FindLatest(ctx context.Context, provider, symbol string) (*MarketSnapshots, error) {
	query := fmt.Sprintf(`
SELECT id, provider, symbol, price, funding, open_interest, raw, ts_ms, created_at
FROM %s WHERE provider = $1 AND symbol = $2 ORDER BY ts_ms DESC LIMIT 1`, m.table)
	var resp MarketSnapshots
	err := m.conn.QueryRowCtx(ctx, &resp, query, provider, symbol)
	switch err {
	case nil:
		return &resp, nil
	case sqlx.ErrNotFound:
		return nil, ErrNotFound
	default:
		return nil, err
	}
}

func (m *defaultMarketSnapshotsModel) ListRecent(ctx context.Context, provider, symbol string, limit int) ([]*MarketSnapshots, error) {
	if limit <= 0 {
		limit = 100
	}
	query := fmt.Sprintf(`
SELECT id, provider, symbol, price, funding, open_interest, raw, ts_ms, created_at
FROM %s WHERE provider = $1 AND symbol = $2 ORDER BY ts_ms DESC LIMIT %d`, m.table, limit)
	var resp []*MarketSnapshots
	err := m.conn.QueryRowsCtx(ctx, &resp, query, provider, symbol)
	if err != nil {
		return nil, err
	}
	return resp, nil
}
