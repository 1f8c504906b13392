package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/astrbotdevs/astrctl/client/internal/metrics"
	"github.com/astrbotdevs/astrctl/client/internal/workspace"
	"github.com/astrbotdevs/astrctl/util"
)

var (
	metricsCmd = &cobra.Command{
		Use:   "metrics",
		Short: "anonymous usage statistics",
		Long:  "Anonymous usage statistics. Set " + metrics.DisableEnv + "=1 to turn reporting off.",
	}

	metricsUploadCmd = &cobra.Command{
		Use:   "upload key=value...",
		Short: "sends one usage event to the collector",
		Args:  cobra.MinimumNArgs(1),
		RunE:  metricsUploadFunc,
	}

	metricsIDCmd = &cobra.Command{
		Use:   "id",
		Short: "prints the installation identifier",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(newIDProvider().InstallationID())
		},
	}

	metricsStatsCmd = &cobra.Command{
		Use:   "stats",
		Short: "prints the locally recorded platform statistics",
		Args:  cobra.NoArgs,
		RunE:  metricsStatsFunc,
	}
)

func metricsUploadFunc(cmd *cobra.Command, args []string) error {
	fields, err := parseFields(args)
	if err != nil {
		return err
	}

	root, err := resolveRoot()
	if err != nil {
		log.Debugf("failed to resolve AstrBot root: %v", err)
	}

	reporter, closeFn := newReporter(root)
	defer closeFn()
	reporter.Upload(cmd.Context(), fields)
	return nil
}

func metricsStatsFunc(cmd *cobra.Command, _ []string) error {
	root, err := resolveRoot()
	if err != nil {
		return fmt.Errorf("resolve AstrBot root: %w", err)
	}

	dataDir := workspace.DataPath(root)
	if !util.FileExists(filepath.Join(dataDir, metrics.StatsDBFile)) {
		cmd.Println("No platform statistics recorded")
		return nil
	}

	store, err := metrics.NewSQLStatsStore(dataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.PlatformStats(cmd.Context())
	if err != nil {
		return fmt.Errorf("read platform statistics: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "HOUR\tPLATFORM\tTYPE\tCOUNT")
	for _, s := range stats {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", s.Timestamp.UTC().Format("2006-01-02 15:04"), s.PlatformID, s.PlatformType, s.Count)
	}
	return w.Flush()
}

// parseFields converts key=value arguments to telemetry fields
func parseFields(args []string) (map[string]any, error) {
	fields := make(map[string]any, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid field %q: expected key=value", arg)
		}
		fields[key] = value
	}
	return fields, nil
}

func newIDProvider() *metrics.FileIDProvider {
	path, err := metrics.DefaultIDPath()
	if err != nil {
		log.Debugf("failed to locate installation id: %v", err)
	}
	return metrics.NewFileIDProvider(path)
}

// newReporter builds the telemetry reporter. The statistics database is only opened when
// telemetry is enabled and the data directory of root exists.
func newReporter(root string) (*metrics.Reporter, func()) {
	reporter := metrics.NewReporter(newIDProvider(), nil)
	if metricsEndpoint != "" {
		reporter.WithEndpoint(metricsEndpoint)
	}

	closeFn := func() {}
	if !reporter.Enabled() || root == "" || !util.DirExists(workspace.DataPath(root)) {
		return reporter, closeFn
	}

	store, err := metrics.NewSQLStatsStore(workspace.DataPath(root))
	if err != nil {
		log.Errorf("failed to open platform statistics: %v", err)
		return reporter, closeFn
	}

	return reporter.WithStore(store), func() {
		if err := store.Close(); err != nil {
			log.Debugf("failed to close platform statistics: %v", err)
		}
	}
}
