package dashboard

//go:generate go run github.com/golang/mock/mockgen -package dashboard -destination=fetcher_mock.go -source=./fetcher.go -build_flags=-mod=mod

import (
	"context"
	"os"

	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"

	clierrors "github.com/astrbotdevs/astrctl/client/errors"
	"github.com/astrbotdevs/astrctl/client/internal/dashboard/archive"
	"github.com/astrbotdevs/astrctl/client/internal/dashboard/downloader"
)

// Fetcher downloads a dashboard archive to archivePath and extracts it into extractRoot.
// Every failure is reported as a *TransferError.
type Fetcher interface {
	Fetch(ctx context.Context, archivePath, extractRoot string, opts FetchOptions) error
}

type downloadFunc func(ctx context.Context, url, dstFile string) error

// ArchiveFetcher is the Fetcher backed by the release URLs, the downloader and zip extraction
type ArchiveFetcher struct {
	releases Releases
	download downloadFunc
	extract  func(src, dst string) error
}

// NewArchiveFetcher creates a Fetcher downloading from releases with the default downloader
func NewArchiveFetcher(releases Releases) *ArchiveFetcher {
	return &ArchiveFetcher{
		releases: releases,
		download: downloader.DownloadToFile,
		extract:  archive.Unzip,
	}
}

// WithDownloader replaces the downloader, e.g. one with a custom HTTP or S3 client
func (f *ArchiveFetcher) WithDownloader(d *downloader.Downloader) *ArchiveFetcher {
	f.download = d.DownloadToFile
	return f
}

func (f *ArchiveFetcher) Fetch(ctx context.Context, archivePath, extractRoot string, opts FetchOptions) error {
	url, err := f.releases.URL(opts)
	if err != nil {
		return &TransferError{Op: "resolve archive URL", Err: err}
	}

	log.Infof("downloading dashboard archive from %s", url)
	if err := f.download(ctx, url, archivePath); err != nil {
		return &TransferError{Op: "download", URL: url, Err: err}
	}

	if err := f.extract(archivePath, extractRoot); err != nil {
		// only the archive is removed, entries already extracted into extractRoot stay as they
		// are and the next run overwrites them
		var merr *multierror.Error
		merr = multierror.Append(merr, err)
		if rerr := removeArchive(archivePath); rerr != nil {
			merr = multierror.Append(merr, rerr)
		}
		return &TransferError{Op: "extract", URL: url, Err: clierrors.FormatErrorOrNil(merr)}
	}

	if err := removeArchive(archivePath); err != nil {
		log.Warnf("failed to remove dashboard archive %s: %v", archivePath, err)
	}

	return nil
}

func removeArchive(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
