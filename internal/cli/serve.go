package cli

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/beanchain/pkg/config"
	"github.com/matzehuels/beanchain/pkg/errors"
	"github.com/matzehuels/beanchain/pkg/observability"
	"github.com/matzehuels/beanchain/pkg/observability/prom"
	"github.com/matzehuels/beanchain/pkg/server"
	"github.com/matzehuels/beanchain/pkg/service"
)

// serveCommand creates the serve command for the HTTP explorer.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		port      int
		staticDir string
		watch     bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the bean dependency explorer over HTTP",
		Long: `Serve the bean dependency explorer over HTTP.

The graph is built once at startup. With --watch, a file source is reloaded
whenever the file changes; requests keep being answered from the previous
graph until the new one is ready.`,
		Example: `  beanchain serve
  beanchain serve --port 9000 --static ./web
  beanchain serve --data beans.json --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("static") {
				cfg.Server.StaticDir = staticDir
			}
			if cmd.Flags().Changed("watch") {
				cfg.Server.Watch = watch
			}
			if err := errors.ValidatePort(cfg.Server.Port); err != nil {
				return err
			}
			return c.serve(ctx, cfg)
		},
	}

	cmd.Flags().IntVar(&port, "port", config.DefaultPort, "port to expose the web interface on")
	cmd.Flags().StringVar(&staticDir, "static", config.DefaultStaticDir, "directory with index.html and static assets")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload the data file when it changes")

	return cmd
}

func (c *CLI) serve(ctx context.Context, cfg config.Config) error {
	logger := loggerFromContext(ctx)

	prom.Register(prometheus.DefaultRegisterer)
	defer observability.Reset()

	svc, err := c.loadService(ctx, cfg)
	if err != nil {
		return err
	}

	srv := server.New(svc, server.Options{
		StaticDir: cfg.Server.StaticDir,
		Logger:    logger,
	})

	if cfg.Server.Watch {
		if cfg.Source.Kind != config.SourceFile {
			printWarning("--watch only applies to file sources; %s sources are loaded once", cfg.Source.Kind)
		} else {
			reload := func(ctx context.Context) (*service.Service, error) {
				return c.loadService(ctx, cfg)
			}
			if err := srv.Watch(ctx, cfg.Source.Path, reload, server.DefaultDebounce); err != nil {
				return err
			}
		}
	}

	url := fmt.Sprintf("http://localhost:%d/", cfg.Server.Port)
	printInfo("Bean dependency explorer available at %s", StyleLink.Render(url))
	printDetail("Press Ctrl+C to stop.")

	return srv.ListenAndServe(ctx, fmt.Sprintf(":%d", cfg.Server.Port))
}
