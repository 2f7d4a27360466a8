package docmap

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "redis", "valkey" or "xapiand"
	addrs    []string
	password string
	db       int

	baseURL    string
	httpClient *http.Client

	keyPrefix string

	store StoreClient

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithRedis configures the client to back models with a Redis instance
// running the search module.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithValkey configures the client to back models with a Valkey instance
// running the search module.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithDB selects a logical Redis/Valkey database.
func WithDB(db int) Option {
	return optionFunc(func(c *clientConfig) {
		c.db = db
	})
}

// WithXapiand configures the client to back models with a Xapiand server
// reachable at baseURL.
func WithXapiand(baseURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "xapiand"
		c.baseURL = baseURL
	})
}

// WithHTTPClient overrides the HTTP client used by HTTP-backed stores.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithKeyPrefix namespaces every document key and index name written by
// Redis/Valkey-backed stores.
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithStore plugs in a custom StoreClient implementation, bypassing the
// built-in drivers.
func WithStore(s StoreClient) Option {
	return optionFunc(func(c *clientConfig) {
		c.store = s
	})
}

// WithLogger enables structured logging for mapper operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers mapper metrics (operation counts and
// durations) on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
