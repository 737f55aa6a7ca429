package marketpersist

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/stores/sqlx"

	"voyager-api/internal/model"
	"voyager-api/pkg/market"
)

// Service implements the provider persistence hooks against Postgres.
type Service struct {
	assetsModel    model.MarketAssetsModel
	snapshotsModel model.MarketSnapshotsModel
}

// Config enumerates dependencies required to persist market data.
type Config struct {
	SQLConn        sqlx.SqlConn
	AssetsModel    model.MarketAssetsModel
	SnapshotsModel model.MarketSnapshotsModel
}

// NewService wires a market persistence service. Returns nil when the
// database is not configured so callers can skip hook installation.
func NewService(cfg Config) market.Persistence {
	if cfg.SQLConn == nil {
		return nil
	}
	assets := cfg.AssetsModel
	if assets == nil {
		assets = model.NewMarketAssetsModel(cfg.SQLConn)
	}
	snapshots := cfg.SnapshotsModel
	if snapshots == nil {
		snapshots = model.NewMarketSnapshotsModel(cfg.SQLConn)
	}
	return &Service{
		assetsModel:    assets,
		snapshotsModel: snapshots,
	}
}

// UpsertAssets persists static listing metadata.
func (s *Service) UpsertAssets(ctx context.Context, provider string, assets []market.Asset) error {
	if s == nil || len(assets) == 0 {
		return nil
	}
	for _, asset := range assets {
		if strings.TrimSpace(asset.Symbol) == "" {
			continue
		}
		row := &model.MarketAssets{
			Provider:   provider,
			Symbol:     asset.Symbol,
			Name:       sql.NullString{String: asset.Symbol, Valid: true},
			IsDelisted: !asset.IsActive,
		}
		if asset.Precision > 0 {
			row.SzDecimals = sql.NullInt64{Int64: int64(asset.Precision), Valid: true}
		}
		if asset.MaxLeverage > 0 {
			row.MaxLeverage = sql.NullFloat64{Float64: asset.MaxLeverage, Valid: true}
		}
		row.MarginTableId = nullIntFromMeta(asset.RawMetadata, "marginTable", "margin_table_id")
		row.OnlyIsolated = nullBoolFromMeta(asset.RawMetadata, "onlyIsolated", "only_isolated")
		if err := s.assetsModel.Upsert(ctx, row); err != nil {
			return err
		}
	}
	return nil
}

// RecordSnapshot appends one aggregated snapshot to the history table.
func (s *Service) RecordSnapshot(ctx context.Context, provider string, snapshot *market.Snapshot) error {
	if s == nil || snapshot == nil || strings.TrimSpace(snapshot.Symbol) == "" {
		return nil
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	row := &model.MarketSnapshots{
		Provider: provider,
		Symbol:   snapshot.Symbol,
		Price:    snapshot.Price.Last,
		Raw:      string(raw),
		TsMs:     time.Now().UTC().UnixMilli(),
	}
	if snapshot.Funding != nil {
		row.Funding = sql.NullFloat64{Float64: snapshot.Funding.Rate, Valid: true}
	}
	if snapshot.OpenInterest != nil {
		row.OpenInterest = sql.NullFloat64{Float64: snapshot.OpenInterest.Latest, Valid: true}
	}
	return s.snapshotsModel.Insert(ctx, row)
}

func nullIntFromMeta(meta map[string]any, keys ...string) sql.NullInt64 {
	for _, key := range keys {
		if v, ok := meta[key]; ok {
			switch t := v.(type) {
			case int:
				return sql.NullInt64{Int64: int64(t), Valid: true}
			case int64:
				return sql.NullInt64{Int64: t, Valid: true}
			case float64:
				return sql.NullInt64{Int64: int64(t), Valid: true}
			case json.Number:
				if val, err := t.Int64(); err == nil {
					return sql.NullInt64{Int64: val, Valid: true}
				}
			case string:
				if val, err := strconv.ParseInt(t, 10, 64); err == nil {
					return sql.NullInt64{Int64: val, Valid: true}
				}
			}
		}
	}
	return sql.NullInt64{}
}

func nullBoolFromMeta(meta map[string]any, keys ...string) sql.NullBool {
	for _, key := range keys {
		if v, ok := meta[key]; ok {
			switch t := v.(type) {
			case bool:
				return sql.NullBool{Bool: t, Valid: true}
			case string:
				if strings.EqualFold(t, "true") {
					return sql.NullBool{Bool: true, Valid: true}
				}
				if strings.EqualFold(t, "false") {
					return sql.NullBool{Bool: false, Valid: true}
				}
			}
		}
	}
	return sql.NullBool{}
}
