package logic

import (
	"context"
	"fmt"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"voyager-api/internal/cache"
	"voyager-api/internal/svc"
	"voyager-api/internal/types"
	"voyager-api/pkg/options"
)

type OptionsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewOptionsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *OptionsLogic {
	return &OptionsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *OptionsLogic) Options(req *types.OptionsReq) (*types.OptionsResp, error) {
	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
	if ticker == "" {
		return nil, fmt.Errorf("options: ticker must not be empty")
	}

	key := cache.OptionsKey(ticker)
	var resp types.OptionsResp
	if l.svcCtx.Cache.Get(l.ctx, key, &resp) {
		return &resp, nil
	}

	chain, err := l.svcCtx.YahooClient.GetChain(l.ctx, ticker)
	if err != nil {
		return nil, err
	}

	resp = types.OptionsResp{
		Ticker:    chain.Ticker,
		Spot:      chain.Spot,
		Contracts: len(chain.Contracts),
		Analytics: options.Summarize(chain.Contracts),
		ATMIV:     options.ATMIV(chain.Contracts, chain.Spot),
		OTMSkew:   options.OTMSkew(chain.Contracts, chain.Spot),
	}
	if !chain.Expiry.IsZero() {
		resp.Expiry = chain.Expiry.Format("2006-01-02")
	}
	l.svcCtx.Cache.Set(l.ctx, key, &resp, cache.OptionsTTL(l.svcCtx.Cache.TTL))
	return &resp, nil
}
