package version

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"
)

// Set with -ldflags "-X github.com/go-authgate/oauth1gate/internal/version.Version=...".
var (
	App       = "OAuth1Gate"
	Version   string
	GitCommit string
	BuildTime string
)

// PrintVersion writes the build description to stdout.
func PrintVersion() {
	Fprint(os.Stdout)
}

// Fprint writes the build description to w. Values not stamped at link time
// fall back to the module build info.
func Fprint(w io.Writer) {
	fmt.Fprintf(w, "%s version %s\n", App, version())
	if c := commit(); c != "" {
		fmt.Fprintf(w, "Git commit: %s\n", c)
	}
	if BuildTime != "" {
		fmt.Fprintf(w, "Build time: %s\n", BuildTime)
	}
	fmt.Fprintf(w, "Go version: %s\n", runtime.Version())
	fmt.Fprintf(w, "Built for: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

// String returns a one-line version label for logs.
func String() string {
	if c := commit(); c != "" {
		return version() + "+" + c
	}
	return version()
}

func version() string {
	if Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}

func commit() string {
	c := GitCommit
	if c == "" {
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" {
					c = s.Value
				}
			}
		}
	}
	if len(c) > 7 {
		return c[:7]
	}
	return c
}
