package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version returns the semantic version embedded at build time.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the command name. It appears in help text and names the
	// configuration and cache directories.
	Name = "skoobert"
	// Description is a short summary used in help output.
	Description = "Lazy lambda-calculus expression language"
	// PathEnv names the environment variable listing directories searched for
	// program files.
	PathEnv = "SKOOBERT_PATH"
)
