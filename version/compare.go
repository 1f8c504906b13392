package version

import (
	"regexp"
	"strconv"
	"strings"

	goversion "github.com/hashicorp/go-version"
)

var digitRuns = regexp.MustCompile(`\d+`)

// Compare returns -1, 0 or 1 depending on whether a is older than, equal to or newer than b.
//
// Versions understood by go-version (an optional leading "v", semver pre-release and
// metadata) are compared semantically. Anything else, such as nightly build tags, falls
// back to comparing the numeric runs found in both strings and finally the strings
// themselves, so the result is defined for every pair of inputs.
func Compare(a, b string) int {
	na, nb := normalize(a), normalize(b)

	va, errA := goversion.NewVersion(na)
	vb, errB := goversion.NewVersion(nb)
	if errA == nil && errB == nil {
		return va.Compare(vb)
	}

	if c := compareNumbers(digitRuns.FindAllString(na, -1), digitRuns.FindAllString(nb, -1)); c != 0 {
		return c
	}
	return strings.Compare(na, nb)
}

func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func compareNumbers(a, b []string) int {
	for i := 0; i < len(a) || i < len(b); i++ {
		var x, y uint64
		if i < len(a) {
			x, _ = strconv.ParseUint(a[i], 10, 64)
		}
		if i < len(b) {
			y, _ = strconv.ParseUint(b[i], 10, 64)
		}
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
	}
	return 0
}
