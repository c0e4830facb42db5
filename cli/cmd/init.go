package cmd

import (
	"cmp"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/skoobert/log"
	"github.com/ardnew/skoobert/profile"
)

// configIndent is the indentation width of generated configuration files.
const configIndent = 2

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run writes the flag values in effect to the configuration file. An
// existing file is replaced only with --force.
func (i *Init) Run(ctx context.Context) error {
	ktx := kongContextFrom(ctx)
	vars := ktx.Model.Vars()

	path, ok := vars[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	section := cmp.Or(vars[SectionIdentifier], SectionIdentifier)
	fileErr := func(e *Error, cause error) error {
		return e.With(slog.String(fileAttr, path)).Wrap(cause)
	}

	data, err := yaml.MarshalContext(ctx,
		map[string]map[string]any{section: i.flagValues(ktx)},
		yaml.Indent(configIndent))
	if err != nil {
		return fileErr(ErrYAMLMarshal, err)
	}

	flag := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !i.Force {
		flag |= os.O_EXCL
	}

	f, err := os.OpenFile(path, flag, 0o600)
	if errors.Is(err, fs.ErrExist) {
		return fileErr(ErrWriteConfig, ErrFileExists)
	}

	if err != nil {
		return fileErr(ErrWriteConfig, err)
	}

	if _, err = f.Write(data); err == nil {
		err = f.Close()
	} else {
		_ = f.Close()
	}

	if err != nil {
		return fileErr(ErrWriteConfig, err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", path),
		slog.String("section", section))

	return nil
}

// flagValues collects the current values of the application flags, keyed by
// flag name. Unset and empty values are left out.
func (i *Init) flagValues(ktx *kong.Context) map[string]any {
	values := make(map[string]any)

	prefixIgnore := []string{"help", "path", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if val, ok := configValue(ktx.FlagValue(flag)); ok {
			values[flag.Name] = val
		}
	}

	return values
}

// configValue converts a flag value to its configuration file form.
func configValue(val any) (any, bool) {
	if val == nil {
		return nil, false
	}

	rv := reflect.ValueOf(val)

	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), true

	case reflect.String:
		if rv.Len() == 0 {
			return nil, false
		}

		return rv.String(), true

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), true

	case reflect.Float32, reflect.Float64:
		return rv.Float(), true

	case reflect.Slice:
		if rv.Len() == 0 {
			return nil, false
		}

		items := make([]any, 0, rv.Len())
		for j := range rv.Len() {
			if item, ok := configValue(rv.Index(j).Interface()); ok {
				items = append(items, item)
			}
		}

		return items, true

	default:
		return nil, false
	}
}
