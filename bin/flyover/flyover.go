package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/UnownHash/Flyover/feature_repo"
	"github.com/UnownHash/Flyover/httpserver"
	"github.com/UnownHash/Flyover/overlay"
	"github.com/UnownHash/Flyover/pyroscope"
	"github.com/UnownHash/Flyover/stats_collector"
	"github.com/UnownHash/Flyover/tui"
)

const (
	DEFAULT_CONFIG_FILENAME = "configs/flyover.toml"
	DEFAULT_ENV_FILENAME    = ".env"
)

var (
	configFilename string
	debugFlag      bool
	noTuiFlag      bool
)

var rootCmd = &cobra.Command{
	Use:   "flyover",
	Short: "Fly between locations on a terminal map with GeoJSON overlays",
	Long: `Flyover draws a map of Denmark in the terminal with a fixed region
overlay and a set of location markers. Selecting a marker flies the map
there and loads that location's overlay.

PUBLIC_URL (from the environment or .env) sets where overlays are fetched
from: <PUBLIC_URL>/geojson/<id>.json. Without it they are read from
resources.dir.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVarP(&configFilename, "config", "f", DEFAULT_CONFIG_FILENAME, "config file to use")
	rootCmd.Flags().BoolVar(&debugFlag, "debug", false, "override config and turn on debug logging")
	rootCmd.Flags().BoolVar(&noTuiFlag, "no-tui", false, "only run the resource/debug http server")
}

func main() {
	_ = godotenv.Load(DEFAULT_ENV_FILENAME)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig(configFilename, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}

	if debugFlag {
		cfg.Logging.Debug = true
	}

	runTui := !noTuiFlag
	if !runTui && !cfg.HTTP.Enabled() {
		return errors.New("--no-tui needs 'http.addr' to be configured")
	}

	logger := cfg.CreateLogger(!runTui)
	logger.Infof("STARTUP: Config loaded.")
	if cfg.ignoredPublicPath != "" {
		logger.Warnf("STARTUP: %s '%s' is a path prefix, not a url; ignoring it", PUBLIC_URL_ENV, cfg.ignoredPublicPath)
	}

	statsCollector := stats_collector.GetStatsCollector(cfg)
	logger.Infof("STARTUP: using %s stats collector", statsCollector.Name())

	if cfg.Pyroscope.Enabled() {
		mode := pyroscope.MODE_TUI
		if !runTui {
			mode = pyroscope.MODE_HEADLESS
		}
		stopFn, err := pyroscope.Run(logger, cfg.Pyroscope, mode)
		if err != nil {
			logger.Errorf("STARTUP: Failed to Initialized pyroscope: %v", err)
		} else {
			logger.Info("STARTUP: Initialized pyroscope")
			defer stopFn()
		}
	}

	ctx, cancelFn := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancelFn()

	catalog, err := cfg.Locations.Catalog()
	if err != nil {
		return err
	}
	logger.Infof("STARTUP: %d location(s) in catalog", catalog.Len())

	repo, err := feature_repo.NewRepository(logger, cfg.Resources)
	if err != nil {
		logger.Errorf("STARTUP: failed to create feature repository: %v", err)
		return err
	}
	logger.Infof("STARTUP: reading overlays from %s repository", repo.Name())

	loader, err := overlay.NewLoader(logger, repo, statsCollector, cfg.Overlay)
	if err != nil {
		return err
	}

	model, err := tui.New(ctx, logger, catalog, repo, loader, statsCollector, cfg.Map)
	if err != nil {
		return err
	}
	defer model.Coordinator().Close()

	group, groupCtx := errgroup.WithContext(ctx)

	if cfg.HTTP.Enabled() {
		httpServer, err := httpserver.NewHTTPServer(logger, catalog, loader, model.Coordinator(), statsCollector, cfg.Resources.Dir)
		if err != nil {
			logger.Errorf("STARTUP: failed to create http server: %v", err)
			return err
		}

		group.Go(func() error {
			logger.Infof("STARTUP: http server listening on %s", cfg.HTTP.Addr)
			return httpServer.Run(groupCtx, cfg.HTTP.Addr, cfg.HTTP.ShutdownWait())
		})
	}

	if runTui {
		group.Go(func() error {
			// quitting the map takes everything else down with it
			defer cancelFn()

			program := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithMouseAllMotion(),
				tea.WithContext(groupCtx),
			)
			_, err := program.Run()
			if errors.Is(err, tea.ErrProgramKilled) && groupCtx.Err() != nil {
				return nil
			}
			return err
		})
	} else {
		// The terminal UI normally loads the overlay; /api/overlay still
		// wants it.
		group.Go(func() error {
			loader.Load(groupCtx)
			return nil
		})
	}

	err = group.Wait()
	if err != nil {
		logger.Errorf("exiting: %v", err)
		return err
	}

	logger.Infof("exiting")
	return nil
}
