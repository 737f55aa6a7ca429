package logic

import (
	"context"
	"fmt"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"voyager-api/internal/svc"
	"voyager-api/internal/types"
)

type MarketLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewMarketLogic(ctx context.Context, svcCtx *svc.ServiceContext) *MarketLogic {
	return &MarketLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Market returns the aggregated snapshot for one symbol. Freshness is
// handled inside the provider's own short-lived cache, so no Redis layer
// sits in front of it.
func (l *MarketLogic) Market(req *types.SymbolReq) (*types.MarketResp, error) {
	symbol := strings.TrimSpace(req.Symbol)
	if symbol == "" {
		return nil, fmt.Errorf("market: symbol must not be empty")
	}

	snapshot, err := l.svcCtx.DefaultMarket.Snapshot(l.ctx, symbol)
	if err != nil {
		return nil, err
	}
	return &types.MarketResp{
		Provider: l.svcCtx.DefaultProvider,
		Snapshot: snapshot,
	}, nil
}
