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
	"voyager-api/pkg/predict"
)

type PredictLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewPredictLogic(ctx context.Context, svcCtx *svc.ServiceContext) *PredictLogic {
	return &PredictLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *PredictLogic) Predict(req *types.SymbolReq) (*types.PredictResp, error) {
	symbol := strings.TrimSpace(req.Symbol)
	if symbol == "" {
		return nil, fmt.Errorf("predict: symbol must not be empty")
	}
	if l.svcCtx.PredictClient == nil || !l.svcCtx.PredictClient.Enabled() {
		return nil, predict.ErrDisabled
	}

	key := cache.PredictKey(strings.ToUpper(symbol))
	var resp types.PredictResp
	if l.svcCtx.Cache.Get(l.ctx, key, &resp) {
		return &resp, nil
	}

	snapshot, err := l.svcCtx.DefaultMarket.Snapshot(l.ctx, symbol)
	if err != nil {
		return nil, err
	}

	request := &predict.Request{
		Symbol:   snapshot.Symbol,
		Snapshot: snapshot,
	}
	// Funding context is additive: commentary still works without it.
	days := l.svcCtx.Config.Derivatives.LookbackDays
	if samples, err := l.svcCtx.DefaultMarket.FundingHistory(l.ctx, symbol, days); err == nil {
		periods := derivatives.ResolvePeriodsPerYear(float64(l.svcCtx.Config.Derivatives.PeriodsPerYear), samples)
		if summary, err := derivatives.Summarize(samples, periods); err == nil {
			request.Derivatives = &summary
		}
	} else {
		l.Infof("predict: funding history unavailable for %s: %v", snapshot.Symbol, err)
	}

	outlook, err := l.svcCtx.PredictClient.Outlook(l.ctx, request)
	if err != nil {
		return nil, err
	}

	resp = types.PredictResp{
		Symbol:     outlook.Symbol,
		Summary:    outlook.Summary,
		Bias:       outlook.Bias,
		Confidence: outlook.Confidence,
		Model:      outlook.Model,
	}
	l.svcCtx.Cache.Set(l.ctx, key, &resp, cache.PredictTTL(l.svcCtx.Cache.TTL))
	return &resp, nil
}
