package logic

import (
	"context"
	"fmt"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"voyager-api/internal/cache"
	"voyager-api/internal/svc"
	"voyager-api/internal/types"
	"voyager-api/pkg/derivatives"
)

const maxFundingLookbackDays = 30

type DerivativesLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewDerivativesLogic(ctx context.Context, svcCtx *svc.ServiceContext) *DerivativesLogic {
	return &DerivativesLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *DerivativesLogic) Derivatives(req *types.DerivativesReq) (*types.DerivativesResp, error) {
	symbol := strings.TrimSpace(req.Symbol)
	if symbol == "" {
		return nil, fmt.Errorf("derivatives: symbol must not be empty")
	}
	days := req.Days
	if days == 0 {
		days = l.svcCtx.Config.Derivatives.LookbackDays
	}
	if days <= 0 || days > maxFundingLookbackDays {
		return nil, fmt.Errorf("derivatives: days must be in 1..%d, got %d", maxFundingLookbackDays, days)
	}

	key := cache.FundingKey(l.svcCtx.DefaultProvider, strings.ToUpper(symbol), days)
	var resp types.DerivativesResp
	if l.svcCtx.Cache.Get(l.ctx, key, &resp) {
		return &resp, nil
	}

	samples, err := l.svcCtx.DefaultMarket.FundingHistory(l.ctx, symbol, days)
	if err != nil {
		return nil, err
	}
	periods := derivatives.ResolvePeriodsPerYear(float64(l.svcCtx.Config.Derivatives.PeriodsPerYear), samples)
	summary, err := derivatives.Summarize(samples, periods)
	if err != nil {
		return nil, err
	}

	resp = types.DerivativesResp{
		Symbol:       strings.ToUpper(symbol),
		LookbackDays: days,
		Funding:      summary,
	}
	l.svcCtx.Cache.Set(l.ctx, key, &resp, cache.FundingTTL(l.svcCtx.Cache.TTL))
	return &resp, nil
}
