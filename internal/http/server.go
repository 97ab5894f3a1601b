package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"budget/internal/core"
	"budget/internal/ledger"
	applog "budget/internal/log"
	"budget/internal/middleware/security"
)

// TransactionStore is the subset of ledger.Store the handlers use.
type TransactionStore interface {
	All() []core.Transaction
	Add(ctx context.Context, in ledger.NewTransaction) (core.Transaction, error)
	Update(ctx context.Context, position int, in ledger.Edit) (core.Transaction, error)
	UpdateByID(ctx context.Context, id string, in ledger.Edit) (core.Transaction, error)
	Delete(ctx context.Context, position int) (core.Transaction, error)
	DeleteByID(ctx context.Context, id string) (core.Transaction, error)
	Position(id string) (int, error)
	Summary() core.Breakdown
}

type Server struct {
	http.Server
	store  TransactionStore
	logger *applog.Logger

	shutdownOnce sync.Once
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, store TransactionStore, logger *applog.Logger) *Server {
	if logger == nil {
		logger = applog.Discard()
	}
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadTimeout:       10 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
			MaxHeaderBytes:    1 << 16,
		},
		store:  store,
		logger: logger.WithComponent(applog.ComponentHTTP),
	}

	// Transaction log and input sections
	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions/{section}", s.handleCreateTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)
	mux.HandleFunc("PUT /api/positions/{position}", s.handleUpdateAtPosition)
	mux.HandleFunc("DELETE /api/positions/{position}", s.handleDeleteAtPosition)

	// Aggregates
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /chart.svg", s.handleChart)
	mux.HandleFunc("GET /api/categories", handleCategories)

	mux.HandleFunc("GET /healthz", handleHealth)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	s.Handler = applog.RequestMiddleware(logger)(headers.Middleware(mux))
	return s
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.logger.InfoContext(ctx, "Shutting down HTTP server", applog.FieldOperation, applog.OpShutdown)
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
