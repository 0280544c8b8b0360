// Command tracker is the admin CLI of the job tracker. It talks to the configured
// storage directly rather than through the HTTP API.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	infraconfig "github.com/jonesrussell/north-cloud/job-tracker/infrastructure/config"
	"github.com/jonesrussell/north-cloud/job-tracker/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/job-tracker/internal/bootstrap"
	"github.com/jonesrussell/north-cloud/job-tracker/internal/domain"
	"github.com/jonesrussell/north-cloud/job-tracker/internal/service"
)

const ownerEnv = "JOB_TRACKER_OWNER"

// commandDeps are what every subcommand needs.
type commandDeps struct {
	Handlers *service.Handlers
	Close    func()
}

type depsFactory func(ctx context.Context, configPath string) (*commandDeps, error)

type rootOptions struct {
	configPath string
	owner      string
	newDeps    depsFactory
}

func main() {
	if err := newRootCommand(newCommandDeps).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand(factory depsFactory) *cobra.Command {
	opts := &rootOptions{newDeps: factory}

	root := &cobra.Command{
		Use:           "tracker",
		Short:         "Manage tracked job applications",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"config file (default is $CONFIG_PATH or ./config.yml)")
	root.PersistentFlags().StringVar(&opts.owner, "owner", os.Getenv(ownerEnv),
		"owner whose applications are managed (default $"+ownerEnv+")")

	root.AddCommand(
		newListCommand(opts),
		newShowCommand(opts),
		newExportCommand(opts),
		newImportCommand(opts),
	)
	return root
}

// open resolves the owner and builds the dependencies.
func (o *rootOptions) open(ctx context.Context) (*commandDeps, string, error) {
	owner := strings.TrimSpace(o.owner)
	if owner == "" {
		return nil, "", fmt.Errorf("--owner is required: %w", domain.ErrUnauthenticated)
	}

	deps, err := o.newDeps(ctx, o.configPath)
	if err != nil {
		return nil, "", err
	}
	return deps, owner, nil
}

func newCommandDeps(ctx context.Context, configPath string) (*commandDeps, error) {
	if configPath == "" {
		configPath = infraconfig.GetConfigPath("config.yml")
	}

	cfg, err := bootstrap.LoadConfigFrom(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      "console",
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	storage, err := bootstrap.SetupStorage(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("set up storage: %w", err)
	}

	publisher, closePublisher := bootstrap.SetupEventPublisher(ctx, cfg, log)
	deps := service.Dependencies{Repository: storage.Repository, Logger: log}
	if publisher != nil {
		deps.Publisher = publisher
	}

	return &commandDeps{
		Handlers: service.NewHandlers(deps),
		Close: func() {
			closePublisher()
			if closeErr := storage.Close(); closeErr != nil {
				log.Warn("Failed to close storage", logger.Error(closeErr))
			}
			_ = log.Sync()
		},
	}, nil
}
