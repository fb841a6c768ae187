// Package settings holds build metadata and the per-run options of the
// iterminator CLI.
package settings

import (
	"fmt"
	"runtime"
	"strings"
)

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "iterminator"

// VersionInformation is populated at build time via ldflags.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo describes the running binary.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// String renders "iterminator <version> (go <version>)".
func (v VersionInfo) String() string {
	return fmt.Sprintf("%s %s (go %s)", CliBinaryName, v.BuildVersion, strings.TrimPrefix(runtime.Version(), "go"))
}

// Run holds the options of a single invocation that are not part of the
// config file.
type Run struct {
	MinLogLevel int8
	Quiet       bool
	NoColor     bool
	Verbose     bool
	AllowTmux   bool
	Watch       bool
}

// NewCliParams returns the defaults for a CLI run.
func NewCliParams() *Run {
	return &Run{}
}
