package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/deploywatch/deploywatch/internal/accounts"
	"github.com/deploywatch/deploywatch/internal/config"
	"github.com/deploywatch/deploywatch/internal/credstore"
	"github.com/deploywatch/deploywatch/internal/engine"
	"github.com/deploywatch/deploywatch/internal/notify"
	"github.com/deploywatch/deploywatch/internal/provider"
	"github.com/deploywatch/deploywatch/internal/scheduler"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch deployments and notify on status changes",
	Long: `Watch polls every enabled account on an adaptive interval: fast while
builds are running, slower after recent activity, and slowest when idle.
Status transitions raise desktop notifications.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().String("config", "", "Path to configuration file (YAML format)")
	watchCmd.Flags().Bool("log-notifications", false, "Log notifications instead of raising desktop ones")

	if err := viper.BindPFlag("config", watchCmd.Flags().Lookup("config")); err != nil {
		slog.Error("Error binding config flag", "error", err)
	}
}

// loadConfig resolves the config file from the --config flag, then the
// XDG default location, then built-in defaults.
func loadConfig() (*config.Config, error) {
	path := viper.GetString("config")
	if path == "" {
		if def := config.DefaultPath(); def != "" {
			if _, err := os.Stat(def); err == nil {
				path = def
			}
		}
	}
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadConfig(config.WithConfigPath(path))
}

// buildEngine wires the production collaborators: real provider clients,
// the OS keyring and the on-disk account list.
func buildEngine(cfg *config.Config) (*engine.Engine, error) {
	repository, err := accounts.NewFileRepository()
	if err != nil {
		return nil, err
	}

	clients := provider.NewClients(cfg.HTTPTimeout)
	return engine.New(clients, credstore.NewKeyringStore(), repository,
		engine.WithDeploymentsPerProject(cfg.DeploymentsPerProject))
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	eng, err := buildEngine(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize engine: %w", err)
	}

	if len(eng.Accounts()) == 0 {
		slog.Warn("No accounts configured; add one with 'deploywatch accounts add'")
	}

	logOnly, err := cmd.Flags().GetBool("log-notifications")
	if err != nil {
		return err
	}
	var inner notify.Dispatcher = notify.NewDesktopDispatcher()
	if logOnly {
		inner = notify.NewLogDispatcher()
	}
	dispatcher := notify.NewFilteredDispatcher(inner, notify.Preferences{
		Enabled:        *cfg.Notifications.Enabled,
		OnBuildStart:   *cfg.Notifications.OnBuildStart,
		OnBuildSuccess: *cfg.Notifications.OnBuildSuccess,
		OnBuildFailure: *cfg.Notifications.OnBuildFailure,
	})

	sched := scheduler.New(eng, notify.NewDetector(), dispatcher, cfg.Polling)
	sched.Start(context.Background())

	slog.Info("Watching deployments",
		"accounts", len(eng.Accounts()),
		"active_interval", cfg.Polling.ActiveInterval.String(),
		"idle_interval", cfg.Polling.IdleInterval.String())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down...")

	sched.Stop()
	return nil
}
