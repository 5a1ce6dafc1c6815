package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/computechain/explorer/internal/logger"
	"github.com/computechain/explorer/pkg/api/docs"
	"github.com/computechain/explorer/pkg/config"
)

// Ensure docs are initialized
var _ = docs.SwaggerInfo

const shutdownCtxTimeout = 10 * time.Second

// Server represents the API HTTP server.
type Server struct {
	config  *config.APIConfig
	handler *Handler
	server  *http.Server
	log     *logger.Logger
}

// NewServer creates a new API server.
func NewServer(cfg *config.APIConfig, querier Querier, node NodeClient, log *logger.Logger) *Server {
	handler := NewHandler(querier, node, cfg, log)

	mux := http.NewServeMux()

	// Health endpoint
	mux.HandleFunc("GET /health", handler.Health)

	// Block endpoints
	mux.HandleFunc("GET /api/v1/blocks", handler.GetBlocks)
	mux.HandleFunc("GET /api/v1/blocks/latest", handler.GetLatestBlock)
	mux.HandleFunc("GET /api/v1/blocks/{id}", handler.GetBlock)
	mux.HandleFunc("GET /api/v1/blocks/{height}/transactions", handler.GetBlockTransactionList)

	// Transaction endpoints
	mux.HandleFunc("GET /api/v1/transactions", handler.GetTransactions)
	mux.HandleFunc("GET /api/v1/transactions/recent", handler.GetRecentTransactions)
	mux.HandleFunc("GET /api/v1/transactions/types", handler.GetTxTypes)
	mux.HandleFunc("GET /api/v1/transactions/{hash}", handler.GetTransaction)

	// Account endpoints
	mux.HandleFunc("GET /api/v1/accounts", handler.GetAccounts)
	mux.HandleFunc("GET /api/v1/accounts/{address}", handler.GetAccount)
	mux.HandleFunc("GET /api/v1/accounts/{address}/transactions", handler.GetAccountTransactions)

	// Validator and stats endpoints
	mux.HandleFunc("GET /api/v1/validators", handler.GetValidators)
	mux.HandleFunc("GET /api/v1/stats", handler.GetStats)
	mux.HandleFunc("GET /api/v1/stats/tx-types", handler.GetTxTypeCounts)
	mux.HandleFunc("GET /api/v1/stats/tps", handler.GetTPS)

	// Swagger documentation endpoints
	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:3001/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
	))

	// Apply middleware
	var h http.Handler = mux
	h = RecoveryMiddleware(log)(h)
	h = LoggingMiddleware(log)(h)

	if cfg.CORS.Enabled {
		h = CORSMiddleware(cfg.CORS.AllowedOrigins)(h)
	}

	// Use configured timeouts (defaults already applied in config.ApplyDefaults)
	httpServer := &http.Server{
		Addr:         cfg.ListenAddress,
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout.Duration,
		WriteTimeout: cfg.WriteTimeout.Duration,
		IdleTimeout:  cfg.IdleTimeout.Duration,
	}

	return &Server{
		config:  cfg,
		handler: handler,
		server:  httpServer,
		log:     log,
	}
}

// Start starts the API server and blocks until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if !s.config.Enabled {
		s.log.Info("API server is disabled")
		return nil
	}

	s.log.Infof("Starting API server on %s", s.config.ListenAddress)

	// Start server in goroutine
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Errorf("API server error: %v", err)
		}
	}()

	// Wait for context cancellation
	<-ctx.Done()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownCtxTimeout)
	defer cancel()

	s.log.Info("Shutting down API server...")
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("API server shutdown error: %w", err)
	}

	s.log.Info("API server stopped")
	return nil
}
