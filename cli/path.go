package cli

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ardnew/skoobert/pkg"
)

const (
	// baseConfig is the name of the configuration section read from the
	// configuration file.
	baseConfig = "config"
	// configFile is the base name of the configuration file.
	configFile = baseConfig + ".yaml"
)

// pathListSeparator separates directories of the program search path.
const pathListSeparator = string(os.PathListSeparator)

// defaultDirMode is the permission mode of created directories.
const defaultDirMode os.FileMode = 0o700

// debugBinary matches the executable names chosen by dlv.
var debugBinary = regexp.MustCompile(`^__debug_bin\d*$`)

// appName names the per-user configuration and cache directories. It is the
// executable's base name without extension or leading dots, or [pkg.Name]
// when running under the debugger.
var appName = sync.OnceValue(func() string {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}

	return executableName(exe)
})

func executableName(path string) string {
	base := strings.TrimLeft(filepath.Base(path), ".")
	base = strings.TrimSuffix(base, filepath.Ext(base))

	if base == "" || debugBinary.MatchString(base) {
		return pkg.Name
	}

	return base
}

// userDir joins appName to the directory returned by lookup, or to
// $HOME/fallback (then the working directory) when lookup fails.
func userDir(lookup func() (string, error), fallback string) string {
	dir, err := lookup()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, fallback)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, appName())
}

var (
	configDir = sync.OnceValue(func() string { return userDir(os.UserConfigDir, ".config") })
	cacheDir  = sync.OnceValue(func() string { return userDir(os.UserCacheDir, ".cache") })
)

// configPath joins elem to the configuration directory.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	for _, dir := range []string{configDir(), cacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}
