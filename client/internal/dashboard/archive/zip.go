// Package archive unpacks dashboard release archives.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Unzip extracts the zip archive src into dst. Existing files are overwritten in place,
// entries escaping dst are rejected.
func Unzip(src, dst string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("open archive %s: %w", src, err)
	}
	defer func() {
		if err := r.Close(); err != nil {
			log.Warnf("failed to close archive %s: %v", src, err)
		}
	}()

	root, err := filepath.Abs(dst)
	if err != nil {
		return fmt.Errorf("resolve extract path %s: %w", dst, err)
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("create extract path %s: %w", root, err)
	}

	buf := make([]byte, 32*1024)
	for _, f := range r.File {
		target, err := entryPath(root, f.Name)
		if err != nil {
			return err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("create directory %s: %w", target, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", filepath.Dir(target), err)
		}

		if err := extractEntry(f, target, buf); err != nil {
			return fmt.Errorf("extract %s: %w", f.Name, err)
		}
	}

	log.Debugf("extracted %d entries from %s to %s", len(r.File), src, root)
	return nil
}

func entryPath(root, name string) (string, error) {
	target := filepath.Join(root, filepath.FromSlash(name))
	if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("illegal file path in archive: %s", name)
	}
	return target, nil
}

func extractEntry(f *zip.File, target string, buf []byte) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	mode := f.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}

	if _, err := io.CopyBuffer(out, rc, buf); err != nil {
		_ = out.Close()
		return err
	}

	return out.Close()
}
