package dashboard

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrbotdevs/astrctl/client/internal/dashboard/downloader"
)

func distArchive(t *testing.T, version string) []byte {
	t.Helper()

	buf := &bytes.Buffer{}
	w := zip.NewWriter(buf)
	for name, content := range map[string]string{
		"data/dist/index.html":     "<html></html>",
		"data/dist/assets/version": version,
	} {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestArchiveFetcherFetch(t *testing.T) {
	requested := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested <- r.URL.Path
		_, _ = w.Write(distArchive(t, "v1.2.0"))
	}))
	defer srv.Close()

	root := t.TempDir()
	archivePath := filepath.Join(root, "data", "dashboard.zip")
	require.NoError(t, os.Mkdir(filepath.Join(root, "data"), 0o755))

	f := NewArchiveFetcher(Releases{StableURL: srv.URL + "/%version/dist.zip"}).
		WithDownloader(downloader.New().WithHTTPClient(srv.Client()))
	err := f.Fetch(context.Background(), archivePath, root, FetchOptions{Channel: ChannelStable, Version: "v1.2.0"})
	require.NoError(t, err)

	assert.Equal(t, "/v1.2.0/dist.zip", <-requested)
	assert.NoFileExists(t, archivePath, "archive is removed after extraction")

	state, err := NewProber(root).Probe()
	require.NoError(t, err)
	assert.Equal(t, Installed("v1.2.0"), state)
}

func TestArchiveFetcherDownloadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	root := t.TempDir()
	f := NewArchiveFetcher(Releases{NightlyURL: srv.URL + "/nightly/dist.zip"})
	err := f.Fetch(context.Background(), filepath.Join(root, "dashboard.zip"), root, FetchOptions{Channel: ChannelNightly})

	var transferErr *TransferError
	require.True(t, errors.As(err, &transferErr), "unexpected error %v", err)
	assert.Equal(t, "download", transferErr.Op)
	assert.Equal(t, srv.URL+"/nightly/dist.zip", transferErr.URL)
}

func TestArchiveFetcherExtractFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not a zip"))
	}))
	defer srv.Close()

	root := t.TempDir()
	archivePath := filepath.Join(root, "dashboard.zip")
	f := NewArchiveFetcher(Releases{StableLatestURL: srv.URL + "/latest/dist.zip"})
	err := f.Fetch(context.Background(), archivePath, root, FetchOptions{Channel: ChannelStable, Latest: true})

	var transferErr *TransferError
	require.True(t, errors.As(err, &transferErr), "unexpected error %v", err)
	assert.Equal(t, "extract", transferErr.Op)
	assert.NoFileExists(t, archivePath)
}

func TestArchiveFetcherUnresolvedURL(t *testing.T) {
	f := NewArchiveFetcher(DefaultReleases())
	err := f.Fetch(context.Background(), filepath.Join(t.TempDir(), "dashboard.zip"), t.TempDir(), FetchOptions{Channel: ChannelStable})

	var transferErr *TransferError
	assert.True(t, errors.As(err, &transferErr), "unexpected error %v", err)
}

func TestArchiveFetcherExtractFailureKeepsTree(t *testing.T) {
	buf := &bytes.Buffer{}
	w := zip.NewWriter(buf)
	for _, e := range []struct{ name, content string }{
		{"data/dist/index.html", "<html>new</html>"},
		// collides with the existing assets directory
		{"data/dist/assets", "not a directory"},
	} {
		fw, err := w.Create(e.name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(e.content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		_, _ = rw.Write(buf.Bytes())
	}))
	defer srv.Close()

	root := t.TempDir()
	writeMarker(t, root, "v1.0.0")
	archivePath := filepath.Join(root, "data", "dashboard.zip")

	f := NewArchiveFetcher(Releases{StableURL: srv.URL + "/%version/dist.zip"})
	err := f.Fetch(context.Background(), archivePath, root, FetchOptions{Channel: ChannelStable, Version: "v1.2.0"})

	var transferErr *TransferError
	require.True(t, errors.As(err, &transferErr), "unexpected error %v", err)
	assert.Equal(t, "extract", transferErr.Op)
	assert.NoFileExists(t, archivePath)

	content, err := os.ReadFile(filepath.Join(root, "data", "dist", "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "<html>new</html>", string(content), "entries extracted before the failure are kept")

	state, err := NewProber(root).Probe()
	require.NoError(t, err)
	assert.Equal(t, Installed("v1.0.0"), state, "the previous installation is not rolled back or removed")
}
