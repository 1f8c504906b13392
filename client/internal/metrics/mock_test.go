package metrics

import (
	"context"
)

type mockIDProvider struct {
	InstallationIDFunc func() string
	calls              int
}

func (m *mockIDProvider) InstallationID() string {
	m.calls++
	if m.InstallationIDFunc != nil {
		return m.InstallationIDFunc()
	}
	return "00000000-0000-0000-0000-000000000000"
}

type mockStatsStore struct {
	InsertPlatformStatsFunc func(ctx context.Context, platformID, platformType string) error
	calls                   int
}

func (m *mockStatsStore) InsertPlatformStats(ctx context.Context, platformID, platformType string) error {
	m.calls++
	if m.InsertPlatformStatsFunc != nil {
		return m.InsertPlatformStatsFunc(ctx, platformID, platformType)
	}
	return nil
}
