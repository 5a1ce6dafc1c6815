package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/computechain/explorer/internal/chain"
	"github.com/computechain/explorer/internal/common"
	"github.com/computechain/explorer/internal/db"
	"github.com/computechain/explorer/internal/logger"
	"github.com/computechain/explorer/internal/metrics"
	"github.com/computechain/explorer/internal/migrations"
	"github.com/computechain/explorer/internal/store"
	"github.com/computechain/explorer/internal/syncer"
	"github.com/computechain/explorer/pkg/api"
	"github.com/computechain/explorer/pkg/config"
	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	version = "1.0.0"
	banner  = `
╔═══════════════════════════════════════════╗
║     ComputeChain Explorer v%s          ║
║   Block Indexing and Query Backend        ║
╚═══════════════════════════════════════════╝
`
)

var (
	configPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "explorer",
	Short: "ComputeChain Explorer - block indexing and query backend",
	Long: `ComputeChain Explorer continuously indexes blocks and transactions from a
ComputeChain node into a local database and serves them through an HTTP
query API. It verifies block and transaction hashes, tracks per-account
activity, and rewinds automatically on chain reorganizations.`,
	Version: version,
	RunE:    runExplorer,
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the configuration file JSON Schema",
	Long:  `Print a JSON Schema describing the configuration file format, suitable for editor validation and documentation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reflector := jsonschema.Reflector{ExpandedStruct: true}
		schema := reflector.Reflect(&config.Config{})

		out, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal schema: %w", err)
		}

		fmt.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "path to configuration file")
	rootCmd.AddCommand(schemaCmd)
}

func componentLogger(cfg *config.Config, component string) *logger.Logger {
	if cfg.Logging == nil {
		return logger.GetDefaultLogger().WithComponent(component)
	}

	return logger.NewComponentLoggerFromConfig(component, cfg.Logging)
}

func runExplorer(cmd *cobra.Command, args []string) error {
	fmt.Printf(banner, version)

	// Load configuration
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\n\nShutting down gracefully...")
		cancel()
	}()

	log := componentLogger(cfg, common.ComponentSyncer)

	// Initialize metrics server if enabled
	if cfg.Metrics != nil && cfg.Metrics.Enabled {
		metricsServer := metrics.NewServer(cfg.Metrics, componentLogger(cfg, common.ComponentMetrics))
		if err := metricsServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
		defer func() {
			if err := metricsServer.Stop(ctx); err != nil {
				log.Warnf("Failed to stop metrics server: %v", err)
			}
		}()
	}

	// Run database migrations
	log.Info("Running database migrations...")
	if err := migrations.RunMigrations(cfg.DB.Path); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize database
	database, err := db.NewSQLiteDBFromConfig(cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer database.Close()

	// Initialize maintenance coordinator
	dbMaintenance := db.NewMaintenanceCoordinator(
		cfg.DB.Path,
		database,
		cfg.DB.Maintenance,
		componentLogger(cfg, common.ComponentMaintenance),
	)
	if err := dbMaintenance.Start(ctx); err != nil {
		return fmt.Errorf("failed to start database maintenance: %w", err)
	}
	defer func() {
		if err := dbMaintenance.Stop(); err != nil {
			log.Warnf("Failed to stop database maintenance: %v", err)
		}
	}()

	// Initialize node client
	nodeClient := chain.NewClient(&cfg.Node)
	log.Infof("Using ComputeChain node at %s", cfg.Node.URL)

	// Initialize store and syncer
	st := store.NewStore(database, componentLogger(cfg, common.ComponentStore), dbMaintenance)
	sync := syncer.New(nodeClient, st, &cfg.Syncer, componentLogger(cfg, common.ComponentSyncer))

	group, groupCtx := errgroup.WithContext(ctx)

	// Start API server if enabled
	if cfg.API != nil && cfg.API.Enabled {
		apiServer := api.NewServer(cfg.API, st, nodeClient, componentLogger(cfg, common.ComponentAPI))
		group.Go(func() error {
			return apiServer.Start(groupCtx)
		})
		log.Infof("API server listening on %s", cfg.API.ListenAddress)
	}

	// Start indexing
	log.Info("Starting ComputeChain Explorer...")
	group.Go(func() error {
		return sync.Run(groupCtx)
	})

	if err := group.Wait(); err != nil && err != context.Canceled {
		return fmt.Errorf("explorer failed: %w", err)
	}

	log.Info("ComputeChain Explorer stopped successfully")
	return nil
}
