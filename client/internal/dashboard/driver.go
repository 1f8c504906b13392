package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/astrbotdevs/astrctl/client/internal/prompt"
	"github.com/astrbotdevs/astrctl/client/internal/workspace"
)

const archiveName = "dashboard.zip"

// Confirmer asks the operator a yes/no question
type Confirmer interface {
	Confirm(message string, def bool) (bool, error)
}

// Driver executes a Decision against the install root
type Driver struct {
	root       string
	appVersion string
	fetcher    Fetcher
	confirmer  Confirmer
	out        io.Writer
}

// NewDriver creates a Driver writing progress to out. A nil out discards progress.
func NewDriver(root, appVersion string, fetcher Fetcher, confirmer Confirmer, out io.Writer) *Driver {
	if out == nil {
		out = io.Discard
	}
	return &Driver{
		root:       root,
		appVersion: appVersion,
		fetcher:    fetcher,
		confirmer:  confirmer,
		out:        out,
	}
}

// Apply performs the action for decision. A declined confirmation is not an error.
// Fetch failures are returned as *UpdateError and are never retried.
func (d *Driver) Apply(ctx context.Context, decision Decision, channel Channel) error {
	switch decision.Kind {
	case NoActionNeeded:
		d.println("Dashboard is already up to date")
		return nil
	case FreshInstall:
		return d.install(ctx, decision, channel)
	case Upgrade:
		return d.upgrade(ctx, decision, channel)
	case Reinitialize:
		return d.reinitialize(ctx, decision, channel)
	default:
		panic(fmt.Sprintf("unhandled decision kind %s", decision.Kind))
	}
}

func (d *Driver) install(ctx context.Context, decision Decision, channel Channel) error {
	d.println("Dashboard is not installed")

	ok, err := d.confirmer.Confirm("Install the dashboard?", true)
	if err != nil && !errors.Is(err, prompt.ErrAborted) {
		log.Debugf("confirmation failed: %v", err)
	}
	if err != nil || !ok {
		d.println("Dashboard installation cancelled")
		return nil
	}

	d.println("Installing dashboard...")
	if err := d.fetch(ctx, decision, channel, d.archivePath()); err != nil {
		return err
	}
	d.println("Dashboard installed")
	return nil
}

func (d *Driver) upgrade(ctx context.Context, decision Decision, channel Channel) error {
	if v, ok := displayVersion(decision.From); ok {
		d.println("Dashboard version: " + v)
	} else {
		log.Debugf("skip displaying unrecognized dashboard version %q", decision.From)
	}

	if err := d.fetch(ctx, decision, channel, d.archivePath()); err != nil {
		return err
	}
	d.println("Dashboard updated to " + decision.To)
	return nil
}

func (d *Driver) reinitialize(ctx context.Context, decision Decision, channel Channel) error {
	d.println("Initializing dashboard directory...")

	dataDir := workspace.DataPath(d.root)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return &UpdateError{
			Kind:     ErrKindTransfer,
			Decision: decision,
			Err:      &TransferError{Op: "create data directory", Err: err},
		}
	}

	if err := d.fetch(ctx, decision, channel, filepath.Join(d.root, archiveName)); err != nil {
		return err
	}
	d.println("Dashboard directory initialized")
	return nil
}

func (d *Driver) fetch(ctx context.Context, decision Decision, channel Channel, archivePath string) error {
	opts := fetchOptions(channel, d.appVersion)
	log.Debugf("fetching dashboard for %s: archive=%s options=%+v", decision, archivePath, opts)

	if err := d.fetcher.Fetch(ctx, archivePath, d.root, opts); err != nil {
		return &UpdateError{Kind: ErrKindTransfer, Decision: decision, Err: err}
	}
	return nil
}

func (d *Driver) archivePath() string {
	return filepath.Join(workspace.DataPath(d.root), archiveName)
}

func (d *Driver) println(msg string) {
	_, _ = fmt.Fprintln(d.out, msg)
}

// fetchOptions pins stable installs to the release tag of the running application.
// Nightly is a rolling build without a version.
func fetchOptions(channel Channel, appVersion string) FetchOptions {
	if channel == ChannelNightly {
		return FetchOptions{Channel: ChannelNightly}
	}
	return FetchOptions{
		Channel: ChannelStable,
		Version: "v" + strings.TrimPrefix(appVersion, "v"),
		Latest:  false,
	}
}

// displayVersion returns the part of a marker version after the first "v".
// Markers without one are not shown.
func displayVersion(marker string) (string, bool) {
	parts := strings.Split(marker, "v")
	if len(parts) < 2 {
		return "", false
	}
	return parts[1], true
}
