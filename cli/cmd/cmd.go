package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/ardnew/mung"

	"github.com/ardnew/skoobert/lang"
	"github.com/ardnew/skoobert/log"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type searchPathKey struct{}

// WithSearchPath returns a new context.Context carrying the program search
// path, a list of directories separated by [os.PathListSeparator].
//
// The list is normalized: the working directory comes first, duplicates and
// entries that are not directories are dropped.
func WithSearchPath(ctx context.Context, list string) context.Context {
	norm := mung.Make(
		mung.WithSubjectItems(list),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems("."),
		mung.WithFilter(isDir),
	).String()

	var dirs []string
	if norm != "" {
		dirs = strings.Split(norm, string(os.PathListSeparator))
	}

	return context.WithValue(ctx, searchPathKey{}, dirs)
}

// searchPathFrom returns the directories stored by [WithSearchPath], or the
// working directory alone if none were stored.
func searchPathFrom(ctx context.Context) []string {
	dirs, ok := ctx.Value(searchPathKey{}).([]string)
	if !ok || len(dirs) == 0 {
		return []string{"."}
	}

	return dirs
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

// lookPath resolves a program file name against the search path. Absolute
// names and names containing a directory are returned unchanged.
func lookPath(dirs []string, name string) string {
	if filepath.IsAbs(name) || strings.ContainsRune(name, filepath.Separator) {
		return name
	}

	for _, dir := range dirs {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}

	return name
}

type (
	source struct {
		name string
		r    io.Reader
	}
	sourceFiles struct {
		read     []source
		hasStdin bool
	}

	// Source is the complete text of one program file.
	Source struct {
		Name string
		Text string
	}

	// SourceFiles reads the program files named on the command line.
	SourceFiles interface {
		IsZero() bool
		Stdin() io.Reader
		Sources() ([]Source, error)
		Programs(ctx context.Context, opts ...lang.Option) ([]Program, error)
	}

	// Program is a parsed program file.
	Program struct {
		*lang.Program

		Name string
	}
)

// stdinName names standard input in diagnostics.
const stdinName = "<stdin>"

// IsZero reports whether there are no source files.
func (s *sourceFiles) IsZero() bool { return len(s.read) == 0 && !s.hasStdin }

// Stdin returns os.Stdin if stdin was included as a source, or nil otherwise.
func (s *sourceFiles) Stdin() io.Reader {
	if s.hasStdin {
		return os.Stdin
	}

	return nil
}

// Sources reads every source file in order, stdin last, closing each file
// once read.
func (s *sourceFiles) Sources() ([]Source, error) {
	readers := s.read
	if s.hasStdin {
		readers = append(readers, source{name: stdinName, r: os.Stdin})
	}

	texts := make([]Source, 0, len(readers))

	for _, src := range readers {
		data, err := io.ReadAll(src.r)

		if c, ok := src.r.(io.Closer); ok && src.r != os.Stdin {
			_ = c.Close()
		}

		if err != nil {
			return nil, ErrReadSource.
				With(slog.String("file", src.name)).
				Wrap(err)
		}

		texts = append(texts, Source{Name: src.name, Text: string(data)})
	}

	return texts, nil
}

// Programs parses every source file into its own program.
func (s *sourceFiles) Programs(
	ctx context.Context,
	opts ...lang.Option,
) ([]Program, error) {
	texts, err := s.Sources()
	if err != nil {
		return nil, err
	}

	progs := make([]Program, 0, len(texts))

	for _, text := range texts {
		prog, err := lang.ParseString(ctx, text.Text, opts...)
		if err != nil {
			return nil, sourceError(text.Name, err)
		}

		progs = append(progs, Program{Program: prog, Name: text.Name})
	}

	return progs, nil
}

// sourceError attributes a language error to the named source file.
func sourceError(name string, err error) error {
	if err == nil {
		return nil
	}

	return ErrProgram.With(slog.String(fileAttr, name)).Wrap(err)
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// OpenSources opens the named program files, resolving each against the
// search path stored in ctx.
//
// Readers are deduplicated by resolving symlinks and comparing device/inode
// pairs. All occurrences of "-" are replaced with a single stdin reader placed
// last so it reads after all regular files. With no names, stdin alone is
// read.
func OpenSources(ctx context.Context, names []string) (SourceFiles, error) {
	if len(names) == 0 {
		names = []string{stdinSource}
	}

	var srcs sourceFiles

	srcs.read = make([]source, 0, len(names))
	seen := make(map[fileKey]struct{})
	dirs := searchPathFrom(ctx)

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, hasStdinKey := makeFileKey(stdinInfo)

	for _, name := range names {
		if name == stdinSource {
			srcs.hasStdin = true

			if hasStdinKey {
				seen[stdinKey] = struct{}{}
			}

			continue
		}

		path := lookPath(dirs, name)

		reader, err := openUniqueFile(path, seen)
		if err != nil {
			srcs.close()

			return nil, ErrOpenSource.
				With(slog.String("file", name)).
				Wrap(err)
		}

		if reader == nil {
			continue
		}

		log.DebugContext(ctx, "open source",
			slog.String("name", name),
			slog.String("path", path))

		srcs.read = append(srcs.read, source{name: name, r: reader})
	}

	return &srcs, nil
}

func (s *sourceFiles) close() {
	for _, src := range s.read {
		if c, ok := src.r.(io.Closer); ok {
			_ = c.Close()
		}
	}
}

// openUniqueFile opens the file at path if it hasn't been seen before.
// It resolves symlinks and uses device/inode to detect duplicates.
// Returns a nil reader and nil error if the file is a duplicate.
func openUniqueFile(
	path string,
	seen map[fileKey]struct{},
) (io.Reader, error) {
	// Resolve to absolute path to handle relative path duplicates.
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	// Resolve symlinks to their target.
	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, err
	}

	// Get file info to extract device and inode.
	info, err := os.Stat(resolved)
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		return nil, errIsDir
	}

	if key, ok := makeFileKey(info); ok {
		if _, exists := seen[key]; exists {
			return nil, nil
		}

		seen[key] = struct{}{}
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, err
	}

	return file, nil
}

var errIsDir = errors.New("is a directory")

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}
