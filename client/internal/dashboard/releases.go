package dashboard

import (
	"errors"
	"strings"
)

const (
	DefaultStableURL       = "https://github.com/AstrBotDevs/AstrBot/releases/download/%version/dist.zip"
	DefaultStableLatestURL = "https://github.com/AstrBotDevs/AstrBot/releases/latest/download/dist.zip"
	DefaultNightlyURL      = "https://github.com/AstrBotDevs/AstrBot/releases/download/nightly/dist.zip"

	githubPrefix = "https://github.com/"
)

// FetchOptions selects the archive to fetch
type FetchOptions struct {
	Channel Channel
	// Version is the release tag, e.g. v4.5.0. Only used on the stable channel when Latest is false.
	Version string
	// Latest fetches the newest stable release instead of Version
	Latest bool
}

// Releases maps fetch options to archive URLs. Templates may contain %version and may use
// any scheme the downloader understands, including s3:// for private mirrors.
type Releases struct {
	StableURL       string
	StableLatestURL string
	NightlyURL      string
	// GitHubProxy is prepended to github.com URLs when set
	GitHubProxy string
}

// DefaultReleases points at the public GitHub releases
func DefaultReleases() Releases {
	return Releases{
		StableURL:       DefaultStableURL,
		StableLatestURL: DefaultStableLatestURL,
		NightlyURL:      DefaultNightlyURL,
	}
}

// URL returns the archive URL for opts
func (r Releases) URL(opts FetchOptions) (string, error) {
	var url string
	switch {
	case opts.Channel == ChannelNightly:
		url = r.NightlyURL
	case opts.Latest:
		url = r.StableLatestURL
	default:
		if opts.Version == "" {
			return "", errors.New("a release version is required for the stable channel")
		}
		url = strings.ReplaceAll(r.StableURL, "%version", opts.Version)
	}

	if url == "" {
		return "", errors.New("no archive URL configured for the " + opts.Channel.String() + " channel")
	}

	return r.withProxy(url), nil
}

func (r Releases) withProxy(url string) string {
	proxy := strings.TrimRight(strings.TrimSpace(r.GitHubProxy), "/")
	if proxy == "" || !strings.HasPrefix(url, githubPrefix) {
		return url
	}
	return proxy + "/" + url
}
