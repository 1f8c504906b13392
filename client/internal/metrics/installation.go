package metrics

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/astrbotdevs/astrctl/util"
)

// UnknownInstallationID is reported when the identifier can be neither read nor persisted
const UnknownInstallationID = "null"

// IDProvider returns the anonymous identifier of this installation
type IDProvider interface {
	InstallationID() string
}

// DefaultIDPath is ~/.astrbot/.installation_id
func DefaultIDPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".astrbot", ".installation_id"), nil
}

// FileIDProvider persists a random UUID in a file. The file is read, or created, on the first
// call only and the result is cached for the lifetime of the process.
type FileIDProvider struct {
	path string
	once sync.Once
	id   string
}

// NewFileIDProvider creates an IDProvider persisting the identifier at path
func NewFileIDProvider(path string) *FileIDProvider {
	return &FileIDProvider{path: path}
}

func (p *FileIDProvider) InstallationID() string {
	p.once.Do(func() {
		p.id = p.load()
	})
	return p.id
}

func (p *FileIDProvider) load() string {
	if p.path == "" {
		return UnknownInstallationID
	}

	content, err := os.ReadFile(p.path)
	if err == nil {
		if id := strings.TrimSpace(string(content)); id != "" {
			return id
		}
	} else if !os.IsNotExist(err) {
		log.Debugf("failed to read installation id %s: %v", p.path, err)
	}

	id := uuid.New().String()
	if err := util.WriteBytesAtomic(context.Background(), p.path, []byte(id)); err != nil {
		log.Debugf("failed to persist installation id %s: %v", p.path, err)
		return UnknownInstallationID
	}

	return id
}
