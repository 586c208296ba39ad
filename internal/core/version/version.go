// Package version reports what was built; the values are stamped with -ldflags -X
package version

// BuildInfo is served by /meta/version and printed by the lint CLI
type BuildInfo struct {
	Service string `json:"service" example:"postfilter-api"`
	Version string `json:"version" example:"v0.1.0"`
	Commit  string `json:"commit"  example:"3f2c1ab"`
	Date    string `json:"date"    example:"2025-09-02"`
}

// set with -X postfilter/internal/core/version.version=v0.1.0 and likewise commit and date
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Info returns the stamped build values
func Info() BuildInfo {
	return BuildInfo{Service: "postfilter-api", Version: version, Commit: commit, Date: date}
}

// String renders the one line the lint CLI prints for -version
func (b BuildInfo) String() string { return b.Version + " (" + b.Commit + ", " + b.Date + ")" }
