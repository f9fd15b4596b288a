// Package version reports the build of the running binary
package version

// BuildInfo holds version information about the service build
type BuildInfo struct {
	Service string `json:"service" example:"insight-api"`
	Version string `json:"version" example:"v0.3.1"`
	Commit  string `json:"commit"  example:"4f2a9c1"`
	Date    string `json:"date"    example:"2026-10-01"`
}

// Info returns the build information; the values are stamped with
// -ldflags "-X insightbff/internal/core/version.version=v0.3.1" and friends
func Info() BuildInfo {
	return BuildInfo{
		Service: service,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

var (
	service = "insight-api"
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
