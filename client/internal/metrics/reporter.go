// Package metrics reports anonymous usage telemetry. Every report is best effort: failures
// never reach the caller.
package metrics

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/astrbotdevs/astrctl/version"
)

const (
	// DefaultEndpoint is the telemetry collector
	DefaultEndpoint = "https://tickstats.soulter.top/api/metric/90a6c2a1"
	// DisableEnv turns telemetry off when set to "1"
	DisableEnv = "ASTRBOT_DISABLE_METRICS"

	uploadTimeout = 3 * time.Second
)

// Reporter uploads telemetry events
type Reporter struct {
	endpoint   string
	httpClient *http.Client
	ids        IDProvider
	store      StatsStore
	getenv     func(string) string
}

// NewReporter creates a Reporter. store may be nil, in which case platform statistics are not recorded.
func NewReporter(ids IDProvider, store StatsStore) *Reporter {
	return &Reporter{
		endpoint:   DefaultEndpoint,
		httpClient: http.DefaultClient,
		ids:        ids,
		store:      store,
		getenv:     os.Getenv,
	}
}

func (r *Reporter) WithEndpoint(endpoint string) *Reporter {
	r.endpoint = endpoint
	return r
}

func (r *Reporter) WithHTTPClient(client *http.Client) *Reporter {
	r.httpClient = client
	return r
}

func (r *Reporter) WithStore(store StatsStore) *Reporter {
	r.store = store
	return r
}

// Enabled reports whether telemetry is allowed by the environment
func (r *Reporter) Enabled() bool {
	return r.getenv(DisableEnv) != "1"
}

// Upload sends fields to the collector together with the application version, the operating
// system and the installation id. When an adapter_name field is present the adapter is also
// counted in the local statistics store. Nothing is read or sent when telemetry is disabled.
func (r *Reporter) Upload(ctx context.Context, fields map[string]any) {
	if !r.Enabled() {
		return
	}

	data := make(map[string]any, len(fields)+3)
	for k, v := range fields {
		data[k] = v
	}
	data["v"] = version.AstrBotVersion()
	data["os"] = runtime.GOOS
	if r.ids != nil {
		data["iid"] = r.ids.InstallationID()
	}

	r.recordPlatform(ctx, data)
	r.post(ctx, data)
}

func (r *Reporter) recordPlatform(ctx context.Context, data map[string]any) {
	name, ok := data["adapter_name"]
	if !ok || r.store == nil {
		return
	}

	platformType := "unknown"
	if t, ok := data["adapter_type"]; ok {
		platformType = toString(t)
	}

	if err := r.store.InsertPlatformStats(ctx, toString(name), platformType); err != nil {
		log.Errorf("failed to save platform stats: %v", err)
	}
}

func (r *Reporter) post(ctx context.Context, data map[string]any) {
	body, err := json.Marshal(map[string]any{"metrics_data": data})
	if err != nil {
		log.Debugf("failed to encode metrics: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		log.Debugf("failed to create metrics request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		log.Debugf("failed to upload metrics: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Debugf("metrics collector responded with %s", resp.Status)
	}
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "unknown"
	}
	return string(b)
}
