package svc

import (
	"log"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx driver
	"github.com/zeromicro/go-zero/core/stores/redis"
	"github.com/zeromicro/go-zero/core/stores/sqlx"

	"voyager-api/internal/cache"
	"voyager-api/internal/config"
	"voyager-api/internal/model"
	marketpersist "voyager-api/internal/persistence/market"
	"voyager-api/pkg/indicators"
	marketpkg "voyager-api/pkg/market"
	_ "voyager-api/pkg/market/hyperliquid"
	yahoopkg "voyager-api/pkg/market/yahoo"
	predictpkg "voyager-api/pkg/predict"
)

type ServiceContext struct {
	Config config.Config

	IndicatorConfig indicators.Config

	MarketConfig    *marketpkg.Config
	MarketProviders map[string]marketpkg.Provider
	DefaultMarket   marketpkg.Provider
	DefaultProvider string

	YahooClient   *yahoopkg.Client
	PredictClient *predictpkg.Client

	Redis *redis.Redis
	Cache *cache.Store

	DBConn         sqlx.SqlConn
	AssetsModel    model.MarketAssetsModel
	SnapshotsModel model.MarketSnapshotsModel
	Persistence    marketpkg.Persistence
}

func NewServiceContext(c config.Config) *ServiceContext {
	svc := &ServiceContext{
		Config:      c,
		YahooClient: yahoopkg.NewClient(),
	}

	indicatorCfg, err := c.IndicatorConfig()
	if err != nil {
		log.Fatalf("invalid indicator config: %v", err)
	}
	svc.IndicatorConfig = indicatorCfg

	if c.Market.Value != nil {
		svc.MarketConfig = c.Market.Value
		providers, err := svc.MarketConfig.BuildProviders()
		if err != nil {
			log.Fatalf("failed to build market providers: %v", err)
		}
		svc.MarketProviders = providers
		svc.DefaultProvider = svc.MarketConfig.Default
		if svc.DefaultProvider == "" {
			for name := range providers {
				svc.DefaultProvider = name
				break
			}
		}
		svc.DefaultMarket = providers[svc.DefaultProvider]
	}
	if svc.DefaultMarket == nil {
		log.Fatalf("no default market provider configured")
	}

	if c.Predict.Value != nil {
		client, err := predictpkg.NewClient(c.Predict.Value)
		if err != nil {
			log.Fatalf("failed to init predict client: %v", err)
		}
		svc.PredictClient = client
	}

	ttl := cache.NewTTLSet(c.TTL)
	if c.Redis.Host != "" {
		rds, err := redis.NewRedis(c.Redis)
		if err != nil {
			log.Fatalf("failed to init redis: %v", err)
		}
		svc.Redis = rds
	}
	svc.Cache = cache.NewStore(svc.Redis, ttl)

	if strings.TrimSpace(c.Postgres.DSN) != "" {
		conn := sqlx.NewSqlConn("pgx", c.Postgres.DSN)
		if db, err := conn.RawDB(); err == nil {
			db.SetMaxOpenConns(c.Postgres.MaxOpen)
			db.SetMaxIdleConns(c.Postgres.MaxIdle)
		}
		svc.DBConn = conn
		svc.AssetsModel = model.NewMarketAssetsModel(conn)
		svc.SnapshotsModel = model.NewMarketSnapshotsModel(conn)
		svc.Persistence = marketpersist.NewService(marketpersist.Config{
			SQLConn:        conn,
			AssetsModel:    svc.AssetsModel,
			SnapshotsModel: svc.SnapshotsModel,
		})
	}

	if svc.Persistence != nil {
		for _, provider := range svc.MarketProviders {
			if sink, ok := provider.(marketpkg.PersistenceAware); ok {
				sink.SetPersistence(svc.Persistence)
			}
		}
	}

	return svc
}
