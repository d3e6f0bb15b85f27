package cli

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pearls/pkg/cache"
	"github.com/matzehuels/pearls/pkg/gallery"
	"github.com/matzehuels/pearls/pkg/observability"
	"github.com/matzehuels/pearls/pkg/pipeline"
	"github.com/matzehuels/pearls/pkg/server"
)

// serveOpts holds the flags of the serve command.
type serveOpts struct {
	addr        string
	redisURL    string
	mongoURI    string
	mongoDB     string
	cachePrefix string
	noCache     bool
	metrics     bool
	timeout     time.Duration
}

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:    server.DefaultAddr,
		mongoDB: appName,
		metrics: true,
		timeout: 30 * time.Second,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render and gallery HTTP API",
		Long: `Serve the HTTP API.

Renders are cached in Redis when --redis is given and in the local cache
directory otherwise. Gallery entries are stored in MongoDB when --mongo is
given and in memory otherwise. Prometheus metrics are served at /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redisURL, "redis", "", "Redis URL for the render cache (e.g. redis://localhost:6379/0)")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo", "", "MongoDB URI for the gallery (e.g. mongodb://localhost:27017)")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", opts.mongoDB, "MongoDB database name")
	cmd.Flags().StringVar(&opts.cachePrefix, "cache-prefix", "", "prefix for cache keys shared with other deployments")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", opts.metrics, "expose Prometheus metrics at /metrics")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", opts.timeout, "per-request timeout")

	return cmd
}

// runServe wires cache, store and metrics into the server and serves until
// ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	cfg := server.Config{
		Addr:           opts.addr,
		Logger:         c.Logger,
		RequestTimeout: opts.timeout,
	}

	if opts.metrics {
		handler, err := registerMetrics()
		if err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
		defer observability.Reset()
		cfg.Metrics = handler
	}

	runner, err := c.serveRunner(ctx, opts)
	if err != nil {
		return err
	}
	defer runner.Close()
	cfg.Runner = runner

	store, err := c.serveStore(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			c.Logger.Warn("close gallery store", "error", err)
		}
	}()
	cfg.Store = store

	printSuccess("Serving on %s", StyleLink.Render(displayAddr(opts.addr)))
	return server.New(cfg).ListenAndServe(ctx)
}

// registerMetrics installs Prometheus hooks globally and returns the
// /metrics handler. Hooks must be installed before runners are created.
func registerMetrics() (http.Handler, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom, err := observability.NewPrometheus(reg)
	if err != nil {
		return nil, err
	}
	observability.SetPipelineHooks(prom)
	observability.SetCacheHooks(prom)
	observability.SetHTTPHooks(prom)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), nil
}

func (c *CLI) serveRunner(ctx context.Context, opts serveOpts) (*pipeline.Runner, error) {
	var keyer cache.Keyer
	if opts.cachePrefix != "" {
		keyer = cache.NewScopedKeyer(nil, strings.TrimSuffix(opts.cachePrefix, ":")+":")
	}

	if opts.redisURL == "" || opts.noCache {
		cc, err := newCache(opts.noCache)
		if err != nil {
			return nil, fmt.Errorf("initialize cache: %w", err)
		}
		return pipeline.NewRunner(cc, keyer, c.Logger), nil
	}

	rc, err := cache.NewRedisCache(ctx, opts.redisURL)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	c.Logger.Info("using redis cache")
	return pipeline.NewRunner(rc, keyer, c.Logger), nil
}

func (c *CLI) serveStore(ctx context.Context, opts serveOpts) (gallery.Store, error) {
	if opts.mongoURI == "" {
		c.Logger.Warn("gallery is kept in memory; entries are lost on exit")
		return gallery.NewMemoryStore(), nil
	}
	store, err := gallery.NewMongoStore(ctx, opts.mongoURI, opts.mongoDB)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	c.Logger.Info("using mongo gallery", "database", opts.mongoDB)
	return store, nil
}

// displayAddr turns a listen address into a URL for humans.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
