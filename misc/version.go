package misc

import (
	"runtime/debug"
)

const appName = "swb"

// GetAppName returns short program name for logs, reports and the user agent.
func GetAppName() string {
	return appName
}

// GetVersion returns module version recorded in the build info.
func GetVersion() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok || len(bi.Main.Version) == 0 {
		return "unknown"
	}
	return bi.Main.Version
}

// GetGitHash returns VCS revision recorded in the build info, shortened to 12
// characters, with "-dirty" appended when the working tree was modified.
func GetGitHash() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	var rev, modified string
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			if s.Value == "true" {
				modified = "-dirty"
			}
		}
	}
	if len(rev) == 0 {
		return "unknown"
	}
	if len(rev) > 12 {
		rev = rev[:12]
	}
	return rev + modified
}
