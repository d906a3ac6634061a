// Package http exposes the account, ledger, budget and insight operations
// as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
)

// Ports consumed by the handlers. The services package provides the
// concrete implementations.
type (
	AccountAPI interface {
		CreateAccount(ctx context.Context, ownerID, name, accountType, balance string, requestedDefault bool) (core.Account, error)
		ListAccounts(ctx context.Context, ownerID string) ([]core.Account, error)
		SetDefault(ctx context.Context, ownerID, accountID string) (core.Account, error)
	}

	LedgerAPI interface {
		Record(ctx context.Context, ownerID, accountID, kind, amount string, occurredOn time.Time) (core.Transaction, error)
		List(ctx context.Context, ownerID string, limit, offset int) ([]core.Transaction, error)
	}

	BudgetAPI interface {
		Get(ctx context.Context, ownerID string) (core.Money, error)
		Set(ctx context.Context, ownerID, amount string) (core.Money, error)
	}

	InsightAPI interface {
		BuildSnapshot(ctx context.Context, ownerID, accountID string) (core.Snapshot, error)
		Generate(ctx context.Context, ownerID, accountID string) (string, error)
	}
)

type Server struct {
	http.Server

	accounts AccountAPI
	ledger   LedgerAPI
	budgets  BudgetAPI
	insights InsightAPI

	limiter      *ratelimit.Limiter
	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(addr string, accounts AccountAPI, ledger LedgerAPI, budgets BudgetAPI, insights InsightAPI) *Server {
	mux := http.NewServeMux()

	s := &Server{
		accounts: accounts,
		ledger:   ledger,
		budgets:  budgets,
		insights: insights,
		limiter:  ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.Handle("POST /api/accounts", s.authed(s.handleCreateAccount))
	mux.Handle("GET /api/accounts", s.authed(s.handleListAccounts))
	mux.Handle("POST /api/accounts/{id}/default", s.authed(s.handleSetDefault))
	mux.Handle("GET /api/accounts/{id}/insight", s.authed(s.handleInsight))
	mux.Handle("GET /api/accounts/{id}/snapshot", s.authed(s.handleSnapshot))
	mux.Handle("GET /api/insight", s.authed(s.handleInsight))

	mux.Handle("POST /api/transactions", s.authed(s.handleCreateTransaction))
	mux.Handle("GET /api/transactions", s.authed(s.handleListTransactions))

	mux.Handle("GET /api/budget", s.authed(s.handleGetBudget))
	mux.Handle("PUT /api/budget", s.authed(s.handleSetBudget))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(extractClientIP)
	limited := s.limiter.Middleware(extractClientIP, nil)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           tracer.Middleware(headers.Middleware(limited(mux))),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Shutdown drains in-flight requests and stops the rate limiter cleanup
// goroutine.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		err = s.Server.Shutdown(ctx)
	})
	return err
}
