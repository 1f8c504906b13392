package dashboard

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChecker(t *testing.T, root string, fetcher Fetcher, confirmer Confirmer, out *bytes.Buffer) *Checker {
	t.Helper()
	driver := NewDriver(root, "1.2.0", fetcher, confirmer, out)
	return NewChecker(NewProber(root), driver, ChannelStable, "1.2.0", out)
}

func TestCheckerDeclinedInstall(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "data"), 0o755))

	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	out := &bytes.Buffer{}

	decision, err := newTestChecker(t, root, fetcher, confirmWith(false, nil), out).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Decision{Kind: FreshInstall}, decision)
}

func TestCheckerUpgrade(t *testing.T) {
	root := t.TempDir()
	writeMarker(t, root, "v1.0.0")

	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	fetcher.EXPECT().
		Fetch(gomock.Any(), gomock.Any(), root, FetchOptions{Channel: ChannelStable, Version: "v1.2.0", Latest: false}).
		Return(nil)

	decision, err := newTestChecker(t, root, fetcher, &mockConfirmer{}, &bytes.Buffer{}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Decision{Kind: Upgrade, From: "v1.0.0", To: "1.2.0"}, decision)
}

func TestCheckerReinitialize(t *testing.T) {
	root := t.TempDir()

	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	fetcher.EXPECT().Fetch(gomock.Any(), filepath.Join(root, "dashboard.zip"), root, gomock.Any()).Return(nil)

	decision, err := newTestChecker(t, root, fetcher, &mockConfirmer{}, &bytes.Buffer{}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Decision{Kind: Reinitialize}, decision)
	assert.DirExists(t, filepath.Join(root, "data"))
}

func TestCheckerReportsTransferFailure(t *testing.T) {
	root := t.TempDir()
	writeMarker(t, root, "v1.0.0")

	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	fetcher.EXPECT().
		Fetch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&TransferError{Op: "download", Err: errors.New("connection reset")}).
		Times(1)
	out := &bytes.Buffer{}

	decision, err := newTestChecker(t, root, fetcher, &mockConfirmer{}, out).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Upgrade, decision.Kind)
	assert.Contains(t, out.String(), "download dashboard failed: download: connection reset")

	content, err := os.ReadFile(MarkerPath(root))
	require.NoError(t, err)
	assert.Equal(t, "v1.0.0", string(content), "installation is left as it was")
}

func TestCheckerUpToDate(t *testing.T) {
	root := t.TempDir()
	writeMarker(t, root, "v1.2.0")

	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	out := &bytes.Buffer{}

	decision, err := newTestChecker(t, root, fetcher, &mockConfirmer{}, out).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Decision{Kind: NoActionNeeded}, decision)
	assert.Contains(t, out.String(), "already up to date")
}

func TestCheckerProbeError(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "data"), []byte("x"), 0o644))

	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)

	_, err := newTestChecker(t, root, fetcher, &mockConfirmer{}, &bytes.Buffer{}).Run(context.Background())
	var probeErr *ProbeError
	assert.True(t, errors.As(err, &probeErr), "unexpected error %v", err)
}

func TestCheckerPlan(t *testing.T) {
	root := t.TempDir()
	writeMarker(t, root, "v1.0.0")

	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)

	state, decision, err := newTestChecker(t, root, fetcher, &mockConfirmer{}, &bytes.Buffer{}).Plan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Installed("v1.0.0"), state)
	assert.Equal(t, Upgrade, decision.Kind)
}
