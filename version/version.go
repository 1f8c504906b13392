package version

// will be replaced with the release version when using goreleaser
var version = "4.5.0"

// AstrBotVersion returns the AstrBot version the dashboard artifact has to match
func AstrBotVersion() string {
	return version
}
