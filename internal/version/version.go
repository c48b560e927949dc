package version

import (
	"runtime/debug"
	"strings"
	"sync"
)

const (
	versionDevel   = "devel"
	versionUnknown = "unknown"
)

// version is set via ldflags at build time:
//
//	go build -ldflags "-X github.com/garrettladley/fitgate/internal/version.version=v1.2.0"
var version = versionDevel

// resolved falls back to the module version recorded by go install.
var resolved = sync.OnceValue(func() string {
	if version != versionDevel {
		return version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return versionUnknown
	}
	if v := info.Main.Version; v != "" && v != "("+versionDevel+")" {
		return v
	}
	return versionDevel
})

// Get is reported in the User-Agent, the CLI's --version, and server logs.
func Get() string {
	return resolved()
}

// IsDevelopment reports whether v is a local or unreleased build.
func IsDevelopment(v string) bool {
	return v == versionDevel || v == versionUnknown || v == "" ||
		strings.Contains(v, "dirty") ||
		strings.Contains(v, "-0.")
}
