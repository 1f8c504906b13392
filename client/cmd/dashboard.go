package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/astrbotdevs/astrctl/client/internal/dashboard"
	"github.com/astrbotdevs/astrctl/client/internal/prompt"
	"github.com/astrbotdevs/astrctl/client/internal/workspace"
	"github.com/astrbotdevs/astrctl/version"
)

const (
	channelFlag         = "channel"
	yesFlag             = "yes"
	githubProxyFlag     = "github-proxy"
	stableURLFlag       = "stable-url"
	stableLatestURLFlag = "stable-latest-url"
	nightlyURLFlag      = "nightly-url"
)

var (
	dashboardChannel string
	assumeYes        bool
	githubProxy      string
	stableURL        string
	stableLatestURL  string
	nightlyURL       string

	dashboardCmd = &cobra.Command{
		Use:   "dashboard",
		Short: "install or update the AstrBot dashboard",
		Long: "Checks the dashboard installed in the AstrBot root and installs, upgrades or " +
			"re-initializes it from the configured channel when needed.",
		Args: cobra.NoArgs,
		RunE: dashboardFunc,
	}

	dashboardStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "shows the installed dashboard and the pending action",
		Args:  cobra.NoArgs,
		RunE:  dashboardStatusFunc,
	}
)

func init() {
	dashboardCmd.PersistentFlags().StringVar(&dashboardChannel, channelFlag, "", "dashboard channel [stable|nightly] (default from cmd_config.json, then stable)")
	dashboardCmd.Flags().BoolVarP(&assumeYes, yesFlag, "y", false, "answer yes to the installation prompt")
	dashboardCmd.Flags().StringVar(&githubProxy, githubProxyFlag, "", "proxy prefix for github.com downloads (default from cmd_config.json)")
	dashboardCmd.Flags().StringVar(&stableURL, stableURLFlag, dashboard.DefaultStableURL, "stable archive URL template, %version is replaced by the release tag")
	dashboardCmd.Flags().StringVar(&stableLatestURL, stableLatestURLFlag, dashboard.DefaultStableLatestURL, "latest stable archive URL")
	dashboardCmd.Flags().StringVar(&nightlyURL, nightlyURLFlag, dashboard.DefaultNightlyURL, "nightly archive URL")
}

func dashboardFunc(cmd *cobra.Command, _ []string) error {
	root, cfg, channel, err := loadDashboardSettings()
	if err != nil {
		return err
	}

	releases := dashboard.Releases{
		StableURL:       stableURL,
		StableLatestURL: stableLatestURL,
		NightlyURL:      nightlyURL,
		GitHubProxy:     githubProxy,
	}
	if releases.GitHubProxy == "" {
		releases.GitHubProxy = cfg.Dashboard.GitHubProxy
	}

	appVersion := version.AstrBotVersion()
	driver := dashboard.NewDriver(root, appVersion, dashboard.NewArchiveFetcher(releases), newConfirmer(cmd), cmd.OutOrStdout())
	checker := dashboard.NewChecker(dashboard.NewProber(root), driver, channel, appVersion, cmd.OutOrStdout())

	decision, err := checker.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("check dashboard: %w", err)
	}

	reporter, closeFn := newReporter(root)
	defer closeFn()
	reporter.Upload(cmd.Context(), map[string]any{
		"event":    "dashboard",
		"decision": decision.Kind.String(),
		"channel":  channel.String(),
	})

	return nil
}

func dashboardStatusFunc(cmd *cobra.Command, _ []string) error {
	root, _, channel, err := loadDashboardSettings()
	if err != nil {
		return err
	}

	appVersion := version.AstrBotVersion()
	checker := dashboard.NewChecker(dashboard.NewProber(root), nil, channel, appVersion, cmd.OutOrStdout())
	state, decision, err := checker.Plan(cmd.Context())
	if err != nil {
		return fmt.Errorf("check dashboard: %w", err)
	}

	cmd.Printf("Root: %s\n", root)
	cmd.Printf("Channel: %s\n", channel)
	cmd.Printf("AstrBot version: %s\n", appVersion)
	cmd.Printf("Dashboard: %s\n", state)
	cmd.Printf("Action: %s\n", decision)
	return nil
}

func loadDashboardSettings() (string, *dashboard.Config, dashboard.Channel, error) {
	root, err := resolveRoot()
	if err != nil {
		return "", nil, dashboard.ChannelStable, fmt.Errorf("resolve AstrBot root: %w", err)
	}

	if !workspace.IsRoot(root) {
		return "", nil, dashboard.ChannelStable, fmt.Errorf("%s is not an AstrBot root directory: %s not found", root, workspace.MarkerFile)
	}

	cfg, err := dashboard.LoadConfig(workspace.ConfigPath(root))
	if err != nil {
		return "", nil, dashboard.ChannelStable, err
	}

	channel, err := cfg.ChannelFor(dashboardChannel)
	if err != nil {
		return "", nil, dashboard.ChannelStable, err
	}
	log.Debugf("using dashboard channel %s for %s", channel, root)

	return root, cfg, channel, nil
}

func newConfirmer(cmd *cobra.Command) *prompt.Terminal {
	if in, ok := cmd.InOrStdin().(*os.File); ok && in == os.Stdin {
		return prompt.NewStdinTerminal(cmd.OutOrStdout(), assumeYes)
	}
	return prompt.NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout(), assumeYes)
}
