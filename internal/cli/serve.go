package cli

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/molline/pkg/observability"
	"github.com/matzehuels/molline/pkg/observability/prom"
	"github.com/matzehuels/molline/pkg/pipeline"
	"github.com/matzehuels/molline/pkg/server"
)

type serveOpts struct {
	addr     string
	noCache  bool
	maxBatch int
	line     lineFlags
}

// serveCommand creates the serve command, which runs the HTTP API until
// interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve canonicalization, batch and registry endpoints over HTTP.

Routes:
  POST /v1/canonicalize     one molecule
  POST /v1/batch            many molecules
  POST /v1/molecules        register a molecule
  GET  /v1/molecules        look up by ?smiles=
  GET  /v1/molecules/{id}   fetch by id
  GET  /healthz             liveness
  GET  /metrics             Prometheus metrics

Line flags set the defaults for requests that carry no options.`,
		Example: `  molline serve
  molline serve --addr :9000 --no-cache`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			popts, err := c.options(cmd, &opts.line)
			if err != nil {
				return err
			}
			cfg := c.Config.Server
			if cmd.Flags().Changed("addr") {
				cfg.Addr = opts.addr
			}
			if cmd.Flags().Changed("max-batch") {
				cfg.MaxBatch = opts.maxBatch
			}
			return c.runServe(cmd.Context(), cfg, popts, opts.noCache)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().IntVar(&opts.maxBatch, "max-batch", server.DefaultMaxBatch, "largest accepted batch")
	opts.line.register(cmd)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg pipeline.ServerConfig, opts pipeline.Options, noCache bool) error {
	logger := loggerFromContext(ctx)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom.New(reg).Register()
	defer observability.Reset()

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	store, err := c.newRegistry(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := server.New(server.Config{
		Runner:   runner,
		Registry: store,
		Logger:   logger,
		Options:  &opts,
		Metrics:  promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		MaxBatch: cfg.MaxBatch,
	})

	printInfo("Serving on %s", cfg.Addr)
	printDetail("Cache: %s  Registry: %s", c.cacheBackend(noCache), c.Config.Registry.Backend)
	if c.Config.Registry.Backend == pipeline.RegistryMemory {
		printWarning("Registry is in memory; registrations are lost on exit")
	}
	return srv.ListenAndServe(ctx, cfg.Addr, cfg.ReadTimeout, cfg.WriteTimeout)
}

func (c *CLI) cacheBackend(noCache bool) string {
	if noCache {
		return pipeline.CacheNone
	}
	return c.Config.Cache.Backend
}
