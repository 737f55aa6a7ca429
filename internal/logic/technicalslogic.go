package logic

import (
	"context"
	"fmt"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"voyager-api/internal/cache"
	"voyager-api/internal/svc"
	"voyager-api/internal/types"
	"voyager-api/pkg/indicators"
)

// Indicators are computed over 4h bars; 210 bars leave headroom for the
// longest default moving average.
const (
	technicalsInterval = "4h"
	technicalsLookback = 210
)

type TechnicalsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewTechnicalsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *TechnicalsLogic {
	return &TechnicalsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *TechnicalsLogic) Technicals(req *types.SymbolReq) (*types.TechnicalsResp, error) {
	symbol := strings.TrimSpace(req.Symbol)
	if symbol == "" {
		return nil, fmt.Errorf("technicals: symbol must not be empty")
	}

	key := cache.TechnicalsKey(l.svcCtx.DefaultProvider, strings.ToUpper(symbol))
	var resp types.TechnicalsResp
	if l.svcCtx.Cache.Get(l.ctx, key, &resp) {
		return &resp, nil
	}

	series, err := l.svcCtx.DefaultMarket.Candles(l.ctx, symbol, technicalsInterval, technicalsLookback)
	if err != nil {
		return nil, err
	}
	result, err := indicators.Compute(series, l.svcCtx.IndicatorConfig)
	if err != nil {
		return nil, err
	}

	resp = types.TechnicalsResp{
		Symbol:     series.Symbol,
		Indicators: result,
	}
	l.svcCtx.Cache.Set(l.ctx, key, &resp, cache.TechnicalsTTL(l.svcCtx.Cache.TTL))
	return &resp, nil
}
