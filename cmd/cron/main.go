package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx driver
	"github.com/zeromicro/go-zero/core/stores/sqlx"

	"voyager-api/internal/cli"
	"voyager-api/internal/config"
	marketpersist "voyager-api/internal/persistence/market"
	"voyager-api/pkg/derivatives"
	"voyager-api/pkg/market"

	// Import for side-effects: registers the hyperliquid provider
	_ "voyager-api/pkg/market/hyperliquid"
)

const (
	warmInterval    = 2 * time.Minute  // snapshot warm/persist interval
	assetsInterval  = 10 * time.Minute // asset directory refresh interval
	apiTimeout      = 8 * time.Second  // timeout for individual API calls
	shutdownTimeout = 10 * time.Second // grace period for shutdown
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Println("[main] Starting cron monitor...")

	configPath := "etc/voyager.yaml"
	appCfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("[main] Failed to load app config: %v", err)
	}

	log.Printf("[main] Configuration loaded:")
	for _, line := range cli.ConfigSummaryLines(appCfg) {
		log.Printf("  - %s", line)
	}

	marketCfg := appCfg.Market.Value
	if marketCfg == nil {
		marketCfg = market.MustLoad()
	}

	providers, err := marketCfg.BuildProviders()
	if err != nil {
		log.Fatalf("[main] Failed to build market providers: %v", err)
	}
	provider, ok := providers[marketCfg.Default]
	if !ok {
		log.Fatalf("[main] Default market provider %q not found", marketCfg.Default)
	}

	if appCfg.Postgres.DSN != "" {
		conn := sqlx.NewSqlConn("pgx", appCfg.Postgres.DSN)
		if db, err := conn.RawDB(); err == nil {
			db.SetMaxOpenConns(appCfg.Postgres.MaxOpen)
			db.SetMaxIdleConns(appCfg.Postgres.MaxIdle)
		}
		persist := marketpersist.NewService(marketpersist.Config{SQLConn: conn})
		if persist != nil {
			for _, p := range providers {
				if sink, ok := p.(market.PersistenceAware); ok {
					sink.SetPersistence(persist)
				}
			}
			log.Println("[main] Snapshot persistence enabled")
		}
	}

	log.Printf("  - Symbols: %v", appCfg.Symbols)
	log.Printf("  - Intervals: warm=%s, assets=%s", warmInterval, assetsInterval)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		runSnapshotWarmer(ctx, provider, appCfg)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		runAssetRefresher(ctx, provider)
	}()

	log.Println("[main] Cron monitor started. Press Ctrl+C to stop.")

	<-ctx.Done()
	log.Println("[main] Shutdown signal received, stopping tasks...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("[main] All tasks stopped cleanly")
	case <-shutdownCtx.Done():
		log.Println("[main] Shutdown timeout exceeded, forcing exit")
	}

	log.Println("[main] Cron monitor stopped")
}

// runSnapshotWarmer periodically fetches snapshots and funding for the
// configured watchlist, which also drives the persistence hooks.
func runSnapshotWarmer(ctx context.Context, provider market.Provider, cfg *config.Config) {
	ticker := time.NewTicker(warmInterval)
	defer ticker.Stop()

	warmSnapshots(ctx, provider, cfg)

	for {
		select {
		case <-ctx.Done():
			log.Println("[warm] Stopping snapshot warmer")
			return
		case <-ticker.C:
			warmSnapshots(ctx, provider, cfg)
		}
	}
}

func runAssetRefresher(ctx context.Context, provider market.Provider) {
	ticker := time.NewTicker(assetsInterval)
	defer ticker.Stop()

	refreshAssets(ctx, provider)

	for {
		select {
		case <-ctx.Done():
			log.Println("[assets] Stopping asset refresher")
			return
		case <-ticker.C:
			refreshAssets(ctx, provider)
		}
	}
}

func warmSnapshots(parentCtx context.Context, provider market.Provider, cfg *config.Config) {
	if parentCtx.Err() != nil {
		return
	}
	for _, symbol := range cfg.Symbols {
		func(sym string) {
			ctx, cancel := context.WithTimeout(parentCtx, apiTimeout)
			defer cancel()

			start := time.Now()
			snapshot, err := provider.Snapshot(ctx, sym)
			elapsed := time.Since(start)
			if err != nil {
				log.Printf("[warm.snapshot] [ERROR] symbol=%s err=%v, took %dms", sym, err, elapsed.Milliseconds())
				return
			}
			log.Printf("[warm.snapshot] [OK] symbol=%s price=%.4f, took %dms",
				snapshot.Symbol, snapshot.Price.Last, elapsed.Milliseconds())
		}(symbol)

		func(sym string) {
			ctx, cancel := context.WithTimeout(parentCtx, apiTimeout)
			defer cancel()

			samples, err := provider.FundingHistory(ctx, sym, cfg.Derivatives.LookbackDays)
			if err != nil {
				log.Printf("[warm.funding] [ERROR] symbol=%s err=%v", sym, err)
				return
			}
			periods := derivatives.ResolvePeriodsPerYear(float64(cfg.Derivatives.PeriodsPerYear), samples)
			summary, err := derivatives.Summarize(samples, periods)
			if err != nil {
				log.Printf("[warm.funding] [ERROR] symbol=%s err=%v", sym, err)
				return
			}
			if summary.AnnualizedRate != nil {
				log.Printf("[warm.funding] [OK] symbol=%s samples=%d annualized=%.4f%%",
					sym, summary.SampleCount, *summary.AnnualizedRate*100)
			} else {
				log.Printf("[warm.funding] [OK] symbol=%s samples=0 (no data)", sym)
			}
		}(symbol)
	}
}

func refreshAssets(parentCtx context.Context, provider market.Provider) {
	if parentCtx.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(parentCtx, apiTimeout)
	defer cancel()

	start := time.Now()
	assets, err := provider.ListAssets(ctx)
	elapsed := time.Since(start)
	if err != nil {
		log.Printf("[assets.list] [ERROR] %v, took %dms", err, elapsed.Milliseconds())
		return
	}
	log.Printf("[assets.list] [OK] found %d assets, took %dms", len(assets), elapsed.Milliseconds())
}
