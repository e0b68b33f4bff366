package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/beanchain/pkg/buildinfo"
	"github.com/matzehuels/beanchain/pkg/cache"
	"github.com/matzehuels/beanchain/pkg/config"
	"github.com/matzehuels/beanchain/pkg/service"
	"github.com/matzehuels/beanchain/pkg/source"

	// Register the remote source kinds.
	_ "github.com/matzehuels/beanchain/pkg/source/mongo"
	_ "github.com/matzehuels/beanchain/pkg/source/redis"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "beanchain"

	// envConfig names a config file when --config is not given.
	envConfig = "BEANCHAIN_CONFIG"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// errOut receives progress output such as the load spinner.
	errOut io.Writer

	// Global flags
	configPath string
	dataPath   string
	sourceKind string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), errOut: w}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Beanchain explores bean dependency chains",
		Long:         `Beanchain builds a dependency graph from extracted bean descriptors and answers which beans each root pulls in, which chains are never referenced from outside, and how the picture changes without framework or third-party beans.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (.toml, .yaml or .yml; default $"+envConfig+")")
	flags.StringVar(&c.dataPath, "data", "", "bean description JSON file (default "+config.DefaultDataPath+")")
	flags.StringVar(&c.sourceKind, "source", "", "record source: file, mongo or redis")

	// Register all subcommands
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.rootsCommand())
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.packagesCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration and Loading
// =============================================================================

// loadConfig reads the config file and applies the global flags on top.
func (c *CLI) loadConfig() (config.Config, error) {
	path := c.configPath
	if path == "" {
		path = os.Getenv(envConfig)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if c.dataPath != "" {
		cfg.Source.Path = c.dataPath
	}
	if c.sourceKind != "" {
		cfg.Source.Kind = c.sourceKind
	}
	return cfg, cfg.Validate()
}

// loadService loads the records described by cfg and builds a service.
func (c *CLI) loadService(ctx context.Context, cfg config.Config) (*service.Service, error) {
	logger := loggerFromContext(ctx)

	loader, err := source.Open(cfg.Source)
	if err != nil {
		return nil, err
	}

	prog := newProgress(logger)
	records, err := loadRecords(ctx, c.errOut, cfg.Source.Kind, loader)
	if err != nil {
		return nil, err
	}
	entries := source.Entries(records, cfg.Classifier())
	prog.done(fmt.Sprintf("Loaded %d beans from %v", len(entries), loader))

	views, err := cache.NewViews(cfg.Cache.Capacity)
	if err != nil {
		return nil, err
	}
	return service.Build(ctx, entries, service.WithLogger(logger), service.WithViews(views)), nil
}
