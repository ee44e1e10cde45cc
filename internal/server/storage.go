package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/mbd888/hispayment/internal/customer"
	"github.com/mbd888/hispayment/internal/fraud"
	"github.com/mbd888/hispayment/internal/health"
	"github.com/mbd888/hispayment/internal/ledger"
	"github.com/mbd888/hispayment/internal/metrics"
	"github.com/mbd888/hispayment/internal/retry"
)

// stores groups the three persistence stores behind one backend.
type stores struct {
	backend   string
	customers customer.Store
	ledger    ledger.Store
	alerts    fraud.Store
}

type migrator interface {
	Migrate(ctx context.Context) error
}

// openStorage selects Postgres, JSON files or memory from the config and
// registers the matching health checks.
func (s *Server) openStorage(ctx context.Context) (*stores, error) {
	switch s.cfg.StorageBackend() {
	case "postgres":
		db, err := s.connectDB(ctx)
		if err != nil {
			return nil, err
		}
		s.db = db

		cs := customer.NewPostgresStore(db)
		ls := ledger.NewPostgresStore(db)
		as := fraud.NewPostgresStore(db)
		for _, m := range []struct {
			table string
			store migrator
		}{
			{"customers", cs},
			{"transactions", ls},
			{"fraud_alerts", as},
		} {
			if err := m.store.Migrate(ctx); err != nil {
				return nil, fmt.Errorf("migrate %s: %w", m.table, err)
			}
		}
		st := &stores{backend: "postgres", customers: cs, ledger: ls, alerts: as}
		s.health.Register("database", health.PingChecker(db, 2*time.Second))
		s.logger.Info("using PostgreSQL storage", "url", maskDSN(s.cfg.DatabaseURL))
		metrics.SetStorageBackend(st.backend)
		return st, nil

	case "file":
		cs, err := customer.NewFileStore(s.cfg.DataDir)
		if err != nil {
			return nil, err
		}
		ls, err := ledger.NewFileStore(s.cfg.DataDir)
		if err != nil {
			return nil, err
		}
		as, err := fraud.NewFileStore(s.cfg.DataDir)
		if err != nil {
			return nil, err
		}
		s.health.Register("storage", health.StaticChecker("file"))
		s.logger.Info("using JSON file storage", "dir", s.cfg.DataDir)
		metrics.SetStorageBackend("file")
		return &stores{backend: "file", customers: cs, ledger: ls, alerts: as}, nil

	default:
		s.health.Register("storage", health.StaticChecker("memory"))
		s.logger.Info("using in-memory storage (data will not persist)")
		metrics.SetStorageBackend("memory")
		return &stores{
			backend:   "memory",
			customers: customer.NewMemoryStore(),
			ledger:    ledger.NewMemoryStore(),
			alerts:    fraud.NewMemoryStore(),
		}, nil
	}
}

// connectDB opens the pool and waits for Postgres to accept connections.
func (s *Server) connectDB(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("postgres", s.cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	err = retry.DoNotify(ctx, 5, 500*time.Millisecond, func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		return db.PingContext(pingCtx)
	}, func(err error, next time.Duration) {
		s.logger.Warn("database not reachable, retrying", "error", err, "retry_in", next)
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// maskDSN hides the password in a connection string for logging.
func maskDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "***"
	}
	if u.User != nil {
		u.User = url.UserPassword(u.User.Username(), "***")
	}
	return u.String()
}
