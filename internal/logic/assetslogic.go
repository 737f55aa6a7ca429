package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"voyager-api/internal/cache"
	"voyager-api/internal/svc"
	"voyager-api/internal/types"
)

type AssetsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewAssetsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *AssetsLogic {
	return &AssetsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *AssetsLogic) Assets() (*types.AssetsResp, error) {
	provider := l.svcCtx.DefaultProvider
	key := cache.AssetsKey(provider)

	var resp types.AssetsResp
	if l.svcCtx.Cache.Get(l.ctx, key, &resp) {
		return &resp, nil
	}

	assets, err := l.svcCtx.DefaultMarket.ListAssets(l.ctx)
	if err != nil {
		return nil, err
	}
	resp = types.AssetsResp{Provider: provider, Assets: assets}
	l.svcCtx.Cache.Set(l.ctx, key, &resp, cache.AssetsTTL(l.svcCtx.Cache.TTL))
	return &resp, nil
}
