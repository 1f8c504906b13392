package dashboard

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/astrbotdevs/astrctl/util"
)

// Config is the part of cmd_config.json read by the CLI
type Config struct {
	Dashboard DashboardConfig `json:"dashboard"`
}

type DashboardConfig struct {
	Channel     string `json:"channel"`
	GitHubProxy string `json:"github_proxy"`
}

// LoadConfig reads the CLI configuration. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := util.ReadJson(path, cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return cfg, nil
}

// ChannelFor returns the channel named by override, or by the config file when override is empty
func (c *Config) ChannelFor(override string) (Channel, error) {
	if override != "" {
		return ParseChannel(override)
	}
	return ParseChannel(c.Dashboard.Channel)
}
