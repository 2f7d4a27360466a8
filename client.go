package docmap

import (
	"context"
	"errors"
	"fmt"
	"time"

	dbRedis "github.com/kailas-cloud/docmap/internal/db/redis"
	"github.com/kailas-cloud/docmap/internal/store/redisearch"
	"github.com/kailas-cloud/docmap/internal/store/xapiand"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the docmap entry point. It owns the store connection and
// hands out Managers bound to model definitions.
type Client struct {
	store  StoreClient
	obs    *observer
	cfg    *clientConfig
	closer func()
}

// New creates a Client and connects to the configured store.
// The provided context bounds the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	store, closer, err := createStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		if closer != nil {
			closer()
		}
		return nil, err
	}

	return &Client{store: store, obs: obs, cfg: cfg, closer: closer}, nil
}

func createStore(ctx context.Context, cfg *clientConfig) (StoreClient, func(), error) {
	if cfg.store != nil {
		return cfg.store, nil, nil
	}

	switch cfg.driver {
	case "redis", "valkey":
		// Valkey speaks the same wire protocol; one driver serves both.
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
			DB:       cfg.db,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("docmap: create %s store: %w", cfg.driver, err)
		}
		if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			s.Close()
			return nil, nil, fmt.Errorf("docmap: store not ready: %w", err)
		}
		inner := redisearch.New(s, redisearch.Config{KeyPrefix: cfg.keyPrefix})
		return &storeAdapter{inner: inner}, s.Close, nil
	case "xapiand":
		inner, err := xapiand.New(xapiand.Config{
			BaseURL:    cfg.baseURL,
			HTTPClient: cfg.httpClient,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("docmap: create xapiand store: %w", err)
		}
		return &storeAdapter{inner: inner}, nil, nil
	case "":
		return nil, nil, errors.New("docmap: store required (use WithRedis, WithValkey, WithXapiand or WithStore)")
	default:
		return nil, nil, fmt.Errorf("docmap: unknown driver %q", cfg.driver)
	}
}

// Bind validates a definition and returns the Manager for it. Managers
// are cheap; bind one per model type.
func (c *Client) Bind(def Definition) (*Manager, error) {
	return newManager(c.store, def, c.obs, c.cfg.logger)
}

// Close releases the store connection.
func (c *Client) Close() {
	if c.closer != nil {
		c.closer()
	}
}
