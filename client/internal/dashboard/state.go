// Package dashboard decides whether the AstrBot web dashboard has to be installed, upgraded
// or re-initialized, and drives the download of the release archive.
//
// The flow is strictly sequential: Prober -> Resolve -> Driver. Each invocation makes a single
// attempt; failures are reported to the operator and never retried.
package dashboard

import (
	"fmt"
	"strings"
)

// Channel is the distribution track the dashboard archive is taken from
type Channel int

const (
	// ChannelStable installs the release matching the AstrBot version
	ChannelStable Channel = iota
	// ChannelNightly installs the rolling nightly build
	ChannelNightly
)

func (c Channel) String() string {
	switch c {
	case ChannelStable:
		return "stable"
	case ChannelNightly:
		return "nightly"
	default:
		return fmt.Sprintf("Channel(%d)", int(c))
	}
}

// ParseChannel maps a configured channel name to a Channel. An empty name selects stable.
func ParseChannel(name string) (Channel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "stable", "official":
		return ChannelStable, nil
	case "nightly", "nebula":
		return ChannelNightly, nil
	default:
		return ChannelStable, fmt.Errorf("unknown dashboard channel %q: must be stable or nightly", name)
	}
}

// StateKind enumerates the possible installation states
type StateKind int

const (
	// StateAbsent means the data directory exists but no dashboard is installed
	StateAbsent StateKind = iota
	// StateInstalled means a version marker was read
	StateInstalled
	// StateDirectoryMissing means the data directory itself does not exist
	StateDirectoryMissing
)

func (k StateKind) String() string {
	switch k {
	case StateAbsent:
		return "absent"
	case StateInstalled:
		return "installed"
	case StateDirectoryMissing:
		return "directory-missing"
	default:
		return fmt.Sprintf("StateKind(%d)", int(k))
	}
}

// State is the result of probing the installation. Version is only set for StateInstalled.
type State struct {
	Kind    StateKind
	Version string
}

// Absent is the state of a data directory without a dashboard
func Absent() State {
	return State{Kind: StateAbsent}
}

// Installed is the state of a dashboard whose marker holds version
func Installed(version string) State {
	return State{Kind: StateInstalled, Version: version}
}

// DirectoryMissing is the state of a root without a data directory
func DirectoryMissing() State {
	return State{Kind: StateDirectoryMissing}
}

func (s State) String() string {
	if s.Kind == StateInstalled {
		return fmt.Sprintf("%s(%s)", s.Kind, s.Version)
	}
	return s.Kind.String()
}

// DecisionKind enumerates the actions the Driver can take
type DecisionKind int

const (
	NoActionNeeded DecisionKind = iota
	FreshInstall
	Upgrade
	Reinitialize
)

func (k DecisionKind) String() string {
	switch k {
	case NoActionNeeded:
		return "no-action-needed"
	case FreshInstall:
		return "fresh-install"
	case Upgrade:
		return "upgrade"
	case Reinitialize:
		return "reinitialize"
	default:
		return fmt.Sprintf("DecisionKind(%d)", int(k))
	}
}

// Decision is what Resolve tells the Driver to do. From and To are only set for Upgrade.
type Decision struct {
	Kind DecisionKind
	From string
	To   string
}

func (d Decision) String() string {
	if d.Kind == Upgrade {
		return fmt.Sprintf("%s(%s -> %s)", d.Kind, d.From, d.To)
	}
	return d.Kind.String()
}
