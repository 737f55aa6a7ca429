package model

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

var _ MarketAssetsModel = (*defaultMarketAssetsModel)(nil)

type (
	// MarketAssetsModel wraps the market_assets table: one row per
	// provider/symbol pair of static listing metadata.
	MarketAssetsModel interface {
		Upsert(ctx context.Context, data *MarketAssets) error
		FindOne(ctx context.Context, provider, symbol string) (*MarketAssets, error)
		ListByProvider(ctx context.Context, provider string) ([]*MarketAssets, error)
	}

	defaultMarketAssetsModel struct {
		conn  sqlx.SqlConn
		table string
	}

	MarketAssets struct {
		Id            int64           `db:"id"`
		Provider      string          `db:"provider"`
		Symbol        string          `db:"symbol"`
		Name          sql.NullString  `db:"name"`
		SzDecimals    sql.NullInt64   `db:"sz_decimals"`
		MaxLeverage   sql.NullFloat64 `db:"max_leverage"`
		OnlyIsolated  sql.NullBool    `db:"only_isolated"`
		MarginTableId sql.NullInt64   `db:"margin_table_id"`
		IsDelisted    bool            `db:"is_delisted"`
		CreatedAt     time.Time       `db:"created_at"`
		UpdatedAt     time.Time       `db:"updated_at"`
	}
)

// NewMarketAssetsModel returns a model for the database table.
func NewMarketAssetsModel(conn sqlx.SqlConn) MarketAssetsModel {
	return &defaultMarketAssetsModel{
		conn:  conn,
		table: "public.market_assets",
	}
}

func (m *defaultMarketAssetsModel) Upsert(ctx context.Context, data *MarketAssets) error {
	query := fmt.Sprintf(`
INSERT INTO %s (
    provider, symbol, name, sz_decimals, max_leverage, only_isolated, margin_table_id, is_delisted, created_at, updated_at
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()
)
ON CONFLICT (provider, symbol) DO UPDATE SET
    name = EXCLUDED.name,
    sz_decimals = EXCLUDED.sz_decimals,
    max_leverage = EXCLUDED.max_leverage,
    only_isolated = EXCLUDED.only_isolated,
    margin_table_id = EXCLUDED.margin_table_id,
    is_delisted = EXCLUDED.is_delisted,
    updated_at = NOW()`, m.table)
	_, err := m.conn.ExecCtx(ctx, query,
		data.Provider,
		data.Symbol,
		data.Name,
		data.SzDecimals,
		data.MaxLeverage,
		data.OnlyIsolated,
		data.MarginTableId,
		data.IsDelisted,
	)
	return err
}

func (m *defaultMarketAssetsModel) FindOne(ctx context.Context, provider, symbol string) (*MarketAssets, error) {
	query := fmt.Sprintf(`
SELECT id, provider, symbol, name, sz_decimals, max_leverage, only_isolated, margin_table_id, is_delisted, created_at, updated_at
FROM %s WHERE provider = $1 AND symbol = $2 LIMIT 1`, m.table)
	var resp MarketAssets
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

func (m *defaultMarketAssetsModel) ListByProvider(ctx context.Context, provider string) ([]*MarketAssets, error) {
	query := fmt.Sprintf(`
SELECT id, provider, symbol, name, sz_decimals, max_leverage, only_isolated, margin_table_id, is_delisted, created_at, updated_at
FROM %s WHERE provider = $1 ORDER BY symbol`, m.table)
	var resp []*MarketAssets
	err := m.conn.QueryRowsCtx(ctx, &resp, query, provider)
	if err != nil {
		return nil, err
	}
	return resp, nil
}
