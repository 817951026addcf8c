package app

import "fmt"

// Version, Commit, and BuildTime are injected via ldflags, e.g.
// go build -ldflags "-X github.com/jhapy/app-i18n-server/internal/app.Version=1.2.0".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildVersion formats the build identity for startup logs and the health
// endpoint.
func BuildVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime)
}
