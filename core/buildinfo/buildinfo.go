package buildinfo

import "fmt"

// Set at link time, for example:
//
//	-X 'github.com/m3rciful/groupbot/core/buildinfo.Version=v0.3.0'
//	-X 'github.com/m3rciful/groupbot/core/buildinfo.Commit=abcdef0'
//	-X 'github.com/m3rciful/groupbot/core/buildinfo.Date=2026-01-30T12:00:00Z'
var (
	// Version reports the release tag of the build.
	Version = "dev"
	// Commit reports the source control commit used for the build.
	Commit = "local"
	// Date reports the build timestamp in RFC3339 format.
	Date = ""
)

// String renders the build identity as "version (commit, date)".
func String() string {
	if Date == "" {
		return fmt.Sprintf("%s (%s)", Version, Commit)
	}
	return fmt.Sprintf("%s (%s, %s)", Version, Commit, Date)
}
