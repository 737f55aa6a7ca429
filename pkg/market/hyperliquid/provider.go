package hyperliquid

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"voyager-api/pkg/derivatives"
	"voyager-api/pkg/indicators"
	"voyager-api/pkg/market"
	"voyager-api/pkg/series"
)

const defaultProviderTimeout = 8 * time.Second

const (
	snapshotCacheTTL = 15 * time.Second
	assetCacheTTL    = 5 * time.Minute
)

// Provider wraps Hyperliquid client calls behind the generic market.Provider
// contract.
type Provider struct {
	client       *Client
	timeout      time.Duration
	indicatorCfg indicators.Config
	persistence  market.Persistence
	providerID   string

	cacheMu   sync.RWMutex
	snapshots map[string]cachedSnapshot
	assets    cachedAssets
}

type providerConfig struct {
	timeout       time.Duration
	indicatorCfg  indicators.Config
	clientOptions []Option
}

// ProviderOption customises the Hyperliquid provider.
type ProviderOption func(*providerConfig)

// WithTimeout overrides the default per-call timeout.
func WithTimeout(timeout time.Duration) ProviderOption {
	return func(cfg *providerConfig) {
		if timeout > 0 {
			cfg.timeout = timeout
		}
	}
}

// WithIndicatorConfig overrides the indicator periods used for snapshots.
func WithIndicatorConfig(ic indicators.Config) ProviderOption {
	return func(cfg *providerConfig) {
		cfg.indicatorCfg = ic
	}
}

// WithClientOptions passes options to the underlying Hyperliquid client.
func WithClientOptions(options ...Option) ProviderOption {
	return func(cfg *providerConfig) {
		cfg.clientOptions = append(cfg.clientOptions, options...)
	}
}

// NewProvider constructs a Hyperliquid market provider.
func NewProvider(opts ...ProviderOption) *Provider {
	cfg := &providerConfig{
		timeout:      defaultProviderTimeout,
		indicatorCfg: indicators.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Provider{
		client:       NewClient(cfg.clientOptions...),
		timeout:      cfg.timeout,
		indicatorCfg: cfg.indicatorCfg,
		snapshots:    make(map[string]cachedSnapshot),
	}
}

func init() {
	market.RegisterProvider("hyperliquid", func(name string, cfg *market.ProviderConfig) (market.Provider, error) {
		opts := []ProviderOption{}
		clientOptions := []Option{}
		if cfg.Timeout > 0 {
			opts = append(opts, WithTimeout(cfg.Timeout))
		}
		if cfg.HTTPTimeout > 0 {
			clientOptions = append(clientOptions, WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}))
		}
		if cfg.BaseURL != "" {
			clientOptions = append(clientOptions, WithBaseURL(cfg.BaseURL))
		}
		if cfg.MaxRetries > 0 {
			clientOptions = append(clientOptions, WithMaxRetries(cfg.MaxRetries))
		}
		if len(clientOptions) > 0 {
			opts = append(opts, WithClientOptions(clientOptions...))
		}
		provider := NewProvider(opts...)
		provider.providerID = name
		return provider, nil
	})
}

// Snapshot implements market.Provider by returning an aggregated market
// snapshot, served from a short-lived cache when fresh.
func (p *Provider) Snapshot(ctx context.Context, symbol string) (*market.Snapshot, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()
	if snap, ok := p.loadSnapshot(symbol); ok {
		return snap, nil
	}
	snap, err := p.client.buildSnapshot(ctx, symbol, p.indicatorCfg)
	if err != nil {
		return nil, err
	}
	p.persistSnapshot(ctx, symbol, snap)
	p.storeSnapshot(symbol, snap)
	return snap, nil
}

// Candles implements market.Provider.
func (p *Provider) Candles(ctx context.Context, symbol, interval string, limit int) (series.Series, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()
	return p.client.GetCandles(ctx, symbol, interval, limit)
}

// FundingHistory implements market.Provider.
func (p *Provider) FundingHistory(ctx context.Context, symbol string, days int) ([]derivatives.Sample, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()
	return p.client.GetFundingHistory(ctx, symbol, days)
}

// ListAssets implements market.Provider by returning all supported symbols.
func (p *Provider) ListAssets(ctx context.Context) ([]market.Asset, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()
	if assets, ok := p.loadAssets(); ok {
		return assets, nil
	}

	if err := p.client.refreshSymbolDirectory(ctx); err != nil {
		return nil, err
	}
	assets := p.collectAssets()
	if p.persistence != nil && len(assets) > 0 {
		if err := p.persistence.UpsertAssets(ctx, p.providerName(), assets); err != nil {
			logx.WithContext(ctx).Errorf("hyperliquid: persist assets err=%v", err)
		}
	}
	p.storeAssets(assets)
	return assets, nil
}

func (p *Provider) collectAssets() []market.Asset {
	p.client.symbolsMu.RLock()
	defer p.client.symbolsMu.RUnlock()

	assets := make([]market.Asset, 0, len(p.client.symbolIndex))
	for _, canonical := range p.client.symbolIndex {
		meta := p.client.universeMeta[canonical]
		ctxData := p.client.assetCtxBySymbol[canonical]
		assets = append(assets, market.Asset{
			Symbol:      canonical,
			Precision:   meta.SzDecimals,
			MaxLeverage: meta.MaxLeverage,
			IsActive:    !meta.IsDelisted,
			RawMetadata: map[string]any{
				"marginTable":  meta.MarginTableID,
				"onlyIsolated": meta.OnlyIsolated,
				"funding":      ctxData.Funding,
				"openInterest": ctxData.OpenInterest,
				"dayBaseVlm":   ctxData.DayBaseVlm,
				"dayNtlVlm":    ctxData.DayNtlVlm,
				"prevDayPx":    ctxData.PrevDayPx,
			},
		})
	}

	sort.Slice(assets, func(i, j int) bool {
		return assets[i].Symbol < assets[j].Symbol
	})
	return assets
}

func (p *Provider) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, p.timeout)
}

// SetPersistence wires a persistence layer for market data.
func (p *Provider) SetPersistence(persist market.Persistence) {
	p.persistence = persist
}

type cachedSnapshot struct {
	Snapshot *market.Snapshot
	Fetched  time.Time
}

type cachedAssets struct {
	Assets  []market.Asset
	Fetched time.Time
}

func (p *Provider) loadSnapshot(symbol string) (*market.Snapshot, bool) {
	p.cacheMu.RLock()
	defer p.cacheMu.RUnlock()
	entry, ok := p.snapshots[strings.ToUpper(symbol)]
	if !ok || time.Since(entry.Fetched) > snapshotCacheTTL || entry.Snapshot == nil {
		return nil, false
	}
	copied := *entry.Snapshot
	return &copied, true
}

func (p *Provider) storeSnapshot(symbol string, snapshot *market.Snapshot) {
	if snapshot == nil {
		return
	}
	copied := *snapshot
	p.cacheMu.Lock()
	defer p.cacheMu.Unlock()
	if p.snapshots == nil {
		p.snapshots = make(map[string]cachedSnapshot)
	}
	p.snapshots[strings.ToUpper(symbol)] = cachedSnapshot{Snapshot: &copied, Fetched: time.Now()}
}

func (p *Provider) loadAssets() ([]market.Asset, bool) {
	p.cacheMu.RLock()
	defer p.cacheMu.RUnlock()
	if len(p.assets.Assets) == 0 || time.Since(p.assets.Fetched) > assetCacheTTL {
		return nil, false
	}
	assets := make([]market.Asset, len(p.assets.Assets))
	copy(assets, p.assets.Assets)
	return assets, true
}

func (p *Provider) storeAssets(assets []market.Asset) {
	p.cacheMu.Lock()
	defer p.cacheMu.Unlock()
	clone := make([]market.Asset, len(assets))
	copy(clone, assets)
	p.assets = cachedAssets{Assets: clone, Fetched: time.Now()}
}

func (p *Provider) providerName() string {
	if strings.TrimSpace(p.providerID) != "" {
		return p.providerID
	}
	return "hyperliquid"
}
