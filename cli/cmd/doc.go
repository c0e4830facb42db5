// Package cmd implements the skoobert subcommands.
//
// Every command reads one or more program files, resolved against the
// working directory and then the directories of the program search path
// (see [WithSearchPath]). A source of "-", or no source at all, reads
// standard input after every named file.
//
// Language errors are rendered as source excerpts by [RenderError].
package cmd

import (
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/skoobert/lang"
)

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"

	// SectionIdentifier is the kong variable identifier containing the name
	// of the section of the configuration file holding flag values.
	SectionIdentifier = "section"
)

// Vars returns the kong variables referenced by command flags.
func Vars() kong.Vars {
	return kong.Vars{
		"maxDepth": strconv.Itoa(lang.DefaultMaxDepth),
	}
}
