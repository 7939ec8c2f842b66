// Package version exposes build metadata injected with -ldflags.
package version

import "runtime/debug"

//nolint:gochecknoglobals // Set at link time.
var (
	version   = "dev"
	commit    = ""
	buildDate = ""
)

// GetVersion returns the release version, falling back to the module version
// recorded by `go install` when no -ldflags value was given.
func GetVersion() string {
	if version != "dev" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return version
}

// GetCommit returns the VCS revision the binary was built from, if known.
func GetCommit() string {
	if commit != "" {
		return commit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return ""
}

// GetBuildDate returns the build timestamp, if known.
func GetBuildDate() string {
	return buildDate
}
