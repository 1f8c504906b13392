package dashboard

import (
	"fmt"

	"github.com/astrbotdevs/astrctl/version"
)

// Resolve decides what has to happen to reach appVersion from state.
//
// The channel never changes the result, it only selects the archive the Driver fetches.
func Resolve(state State, _ Channel, appVersion string) Decision {
	switch state.Kind {
	case StateDirectoryMissing:
		return Decision{Kind: Reinitialize}
	case StateAbsent:
		return Decision{Kind: FreshInstall}
	case StateInstalled:
		if version.Compare(appVersion, state.Version) <= 0 {
			return Decision{Kind: NoActionNeeded}
		}
		return Decision{Kind: Upgrade, From: state.Version, To: appVersion}
	default:
		panic(fmt.Sprintf("unhandled installation state %s", state.Kind))
	}
}
