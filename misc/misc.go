// Package misc holds build time information about the program.
package misc

import "runtime/debug"

// Set with -ldflags "-X csi/misc.version=... -X csi/misc.gitHash=..."
var (
	version = "dev"
	gitHash = ""
	appName = "csi"
)

// GetAppName returns short program name used for logs and temporary files.
func GetAppName() string {
	return appName
}

// GetVersion returns program version.
func GetVersion() string {
	return version
}

// GetGitHash returns git revision the program was built from. When not set
// at link time it falls back to VCS information embedded by the toolchain.
func GetGitHash() string {
	if len(gitHash) > 0 {
		return gitHash
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}

// IsStdin reports whether name denotes standard input on the command line.
func IsStdin(name string) bool {
	return name == "" || name == "-"
}

