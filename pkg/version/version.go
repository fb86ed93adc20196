// Package version reports the dataviewer build version.
package version

import (
	"github.com/Masterminds/semver/v3"
)

// Version is set at build time via
// -ldflags "-X github.com/rshade/dataviewer/pkg/version.Version=v1.2.3".
var Version = "0.0.0-dev" //nolint:gochecknoglobals // Set by the linker.

// DevVersion is reported when Version is not valid semver.
const DevVersion = "0.0.0-dev"

// GetVersion returns Version normalised to semver without a leading "v".
func GetVersion() string {
	v, err := semver.NewVersion(Version)
	if err != nil {
		return DevVersion
	}
	return v.String()
}
