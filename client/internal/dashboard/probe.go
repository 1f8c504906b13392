package dashboard

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/astrbotdevs/astrctl/client/internal/workspace"
)

// Prober reads the dashboard installation state below an AstrBot root
type Prober struct {
	root string
}

// NewProber creates a Prober for the AstrBot root directory
func NewProber(root string) *Prober {
	return &Prober{root: root}
}

// MarkerPath is the file holding the installed dashboard version
func MarkerPath(root string) string {
	return filepath.Join(workspace.DataPath(root), "dist", "assets", "version")
}

// Probe returns the installation state. It never writes.
//
// The data directory is checked first: if it does not exist the state is DirectoryMissing.
// A missing marker inside an existing data directory is Absent. Any other failure is
// returned as a *ProbeError.
func (p *Prober) Probe() (State, error) {
	dataDir := workspace.DataPath(p.root)

	info, err := os.Stat(dataDir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Debugf("dashboard data directory %s does not exist", dataDir)
		return DirectoryMissing(), nil
	case err != nil:
		return State{}, &ProbeError{Path: dataDir, Err: err}
	case !info.IsDir():
		return State{}, &ProbeError{Path: dataDir, Err: fmt.Errorf("not a directory")}
	}

	marker := MarkerPath(p.root)
	content, err := os.ReadFile(marker)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Debugf("dashboard version marker %s not found", marker)
		return Absent(), nil
	case err != nil:
		return State{}, &ProbeError{Path: marker, Err: err}
	}

	v := strings.TrimSpace(string(content))
	if v == "" {
		log.Debugf("dashboard version marker %s is empty", marker)
		return Absent(), nil
	}

	return Installed(v), nil
}
