package hyperliquid

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	marketpkg "voyager-api/pkg/market"
)

// persistSnapshot writes the given snapshot to the persistence hook (if
// configured) and logs errors without blocking the data path.
func (p *Provider) persistSnapshot(ctx context.Context, symbol string, snap *marketpkg.Snapshot) {
	if p.persistence == nil || snap == nil {
		return
	}
	if err := p.persistence.RecordSnapshot(ctx, p.providerName(), snap); err != nil {
		logx.WithContext(ctx).Errorf("hyperliquid: persist snapshot provider=%s symbol=%s err=%v", p.providerName(), symbol, err)
	}
}
