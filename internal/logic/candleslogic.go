package logic

import (
	"context"
	"fmt"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"voyager-api/internal/cache"
	"voyager-api/internal/svc"
	"voyager-api/internal/types"
)

const maxCandleLimit = 1000

type CandlesLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewCandlesLogic(ctx context.Context, svcCtx *svc.ServiceContext) *CandlesLogic {
	return &CandlesLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *CandlesLogic) Candles(req *types.CandlesReq) (*types.CandlesResp, error) {
	symbol := strings.TrimSpace(req.Symbol)
	if symbol == "" {
		return nil, fmt.Errorf("candles: symbol must not be empty")
	}
	if req.Limit <= 0 || req.Limit > maxCandleLimit {
		return nil, fmt.Errorf("candles: limit must be in 1..%d, got %d", maxCandleLimit, req.Limit)
	}

	key := cache.CandlesKey(l.svcCtx.DefaultProvider, strings.ToUpper(symbol), req.Interval, req.Limit)
	var resp types.CandlesResp
	if l.svcCtx.Cache.Get(l.ctx, key, &resp) {
		return &resp, nil
	}

	series, err := l.svcCtx.DefaultMarket.Candles(l.ctx, symbol, req.Interval, req.Limit)
	if err != nil {
		return nil, err
	}
	resp = types.CandlesResp{
		Symbol:   series.Symbol,
		Interval: req.Interval,
		Bars:     series.Bars,
	}
	l.svcCtx.Cache.Set(l.ctx, key, &resp, cache.CandlesTTL(l.svcCtx.Cache.TTL))
	return &resp, nil
}
