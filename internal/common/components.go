package common

const (
	ComponentSyncer        = "syncer"
	ComponentBatchFetcher  = "batch-fetcher"
	ComponentStore         = "store"
	ComponentReorgDetector = "reorg-detector"
	ComponentChainClient   = "chain-client"
	ComponentMaintenance   = "maintenance"
	ComponentAPI           = "api"
	ComponentMetrics       = "metrics"
)

var AllComponents = map[string]struct{}{
	ComponentSyncer:        {},
	ComponentBatchFetcher:  {},
	ComponentStore:         {},
	ComponentReorgDetector: {},
	ComponentChainClient:   {},
	ComponentMaintenance:   {},
	ComponentAPI:           {},
	ComponentMetrics:       {},
}
