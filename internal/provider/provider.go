package provider

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/AdamDragMarqo/stock-mate/internal/adapters/rds"
	"github.com/AdamDragMarqo/stock-mate/internal/config"
	"github.com/AdamDragMarqo/stock-mate/internal/logging"
	"github.com/AdamDragMarqo/stock-mate/internal/routing"
)

// Provider lazily builds and caches the two expensive process-wide
// dependencies: the store gateway and the topic router. Configuration is
// resolved at first access, not at process start, so tests can adjust the
// environment before anything is constructed. Reset tears the cache down
// for the next test case.
type Provider struct {
	mu      sync.Mutex
	gateway *rds.Client
	router  *routing.Router
}

func New() *Provider { return &Provider{} }

// Gateway returns the cached store client, building the pool on first use.
func (p *Provider) Gateway(ctx context.Context) (*rds.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.gateway != nil {
		return p.gateway, nil
	}

	cfg := config.Load()
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		logging.LogError("pgx pool setup failed", err, logrus.Fields{
			"host": cfg.DB.Host, "db_name": cfg.DB.Name,
		})
		return nil, err
	}
	logging.LogInfo("pgx pool created", logrus.Fields{
		"host": cfg.DB.Host, "db_name": cfg.DB.Name,
	})
	p.gateway = rds.NewClient(pool)
	return p.gateway, nil
}

// Router returns the cached routing table, building it on first use.
func (p *Provider) Router() (*routing.Router, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.router != nil {
		return p.router, nil
	}

	cfg := config.Load()
	r, err := routing.New(cfg.Kafka.Topics...)
	if err != nil {
		logging.LogError("routing table rejected", err, logrus.Fields{
			"topics": cfg.Kafka.Topics,
		})
		return nil, err
	}
	p.router = r
	return p.router, nil
}

// Reset drops the cached instances, closing the pool. The next access
// rebuilds from the environment as it stands then.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.gateway != nil {
		p.gateway.Close()
	}
	p.gateway = nil
	p.router = nil
}
