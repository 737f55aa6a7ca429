package market

import "context"

// Persistence hooks allow providers to persist market data to external
// stores without coupling to a specific database.
type Persistence interface {
	// UpsertAssets persists static asset metadata for the provider.
	UpsertAssets(ctx context.Context, provider string, assets []Asset) error
	// RecordSnapshot persists a single aggregated market snapshot.
	RecordSnapshot(ctx context.Context, provider string, snapshot *Snapshot) error
}

// PersistenceAware is implemented by providers that accept persistence hooks
// after construction.
type PersistenceAware interface {
	SetPersistence(persist Persistence)
}
