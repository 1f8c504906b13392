package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/astrbotdevs/astrctl/client/internal/workspace"
	"github.com/astrbotdevs/astrctl/util"
)

const (
	rootFlag            = "root"
	logLevelFlag        = "log-level"
	logFileFlag         = "log-file"
	metricsEndpointFlag = "metrics-endpoint"
)

var (
	rootDir         string
	logLevel        string
	logFile         string
	metricsEndpoint string
	rootCmd         = &cobra.Command{
		Use:               "astrctl",
		Short:             "AstrBot operator utility",
		Long:              "astrctl installs and updates the AstrBot dashboard and reports anonymous usage statistics.",
		SilenceUsage:      true,
		PersistentPreRunE: preRun,
	}
)

// Execute executes the root command.
func Execute() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	SetupCloseHandler(ctx, cancel)

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDir, rootFlag, "", "AstrBot root directory (default is the current directory)")
	rootCmd.PersistentFlags().StringVarP(&logLevel, logLevelFlag, "l", "info", "sets astrctl log level")
	rootCmd.PersistentFlags().StringVar(&logFile, logFileFlag, util.LogConsole, "sets astrctl log path. If console is specified the log will be output to stderr")
	rootCmd.PersistentFlags().StringVar(&metricsEndpoint, metricsEndpointFlag, "", "telemetry collector URL")
	_ = rootCmd.PersistentFlags().MarkHidden(metricsEndpointFlag)

	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(versionCmd)

	dashboardCmd.AddCommand(dashboardStatusCmd)

	metricsCmd.AddCommand(metricsUploadCmd)
	metricsCmd.AddCommand(metricsIDCmd)
	metricsCmd.AddCommand(metricsStatsCmd)
}

func preRun(cmd *cobra.Command, _ []string) error {
	util.SetFlagsFromEnvVars(cmd)
	cmd.SetOut(cmd.OutOrStdout())

	return util.InitLog(logLevel, logFile)
}

// SetupCloseHandler handles SIGTERM signal and cancels the command context
func SetupCloseHandler(ctx context.Context, cancel context.CancelFunc) {
	termCh := make(chan os.Signal, 1)
	signal.Notify(termCh, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		defer signal.Stop(termCh)
		select {
		case <-ctx.Done():
		case <-termCh:
			log.Info("shutdown signal received")
			cancel()
		}
	}()
}

// resolveRoot returns the --root directory or the current working directory
func resolveRoot() (string, error) {
	if rootDir != "" {
		return rootDir, nil
	}
	return workspace.Root()
}
