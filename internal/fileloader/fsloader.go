package fileloader

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
)

// FSLoader reads game files from a plain directory tree, e.g. one produced
// by extracting the archives with a cat unpacking tool. The folder hierarchy
// must match the game paths.
type FSLoader struct {
	fs billy.Filesystem
}

// NewFSLoader creates a loader over a filesystem rooted at the extracted
// game files.
func NewFSLoader(fs billy.Filesystem) *FSLoader {
	return &FSLoader{fs: fs}
}

// resolve turns a game path into a path for the backing filesystem.
func (l *FSLoader) resolve(path string) string {
	return l.fs.Join(SplitGamePath(path)...)
}

// Open opens a game file.
func (l *FSLoader) Open(path string) (io.ReadCloser, error) {
	f, err := l.fs.Open(l.resolve(path))
	if err != nil {
		return nil, fmt.Errorf("open game file %s: %w", path, err)
	}
	return f, nil
}

// Exists reports whether a game file exists at path.
func (l *FSLoader) Exists(path string) bool {
	info, err := l.fs.Stat(l.resolve(path))
	return err == nil && !info.IsDir()
}

// List lists the game files directly under a game directory.
func (l *FSLoader) List(path string) ([]Entry, error) {
	parts := SplitGamePath(path)

	infos, err := l.fs.ReadDir(l.fs.Join(parts...))
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", ErrNotFound, path, err)
	}

	var out []Entry
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		out = append(out, Entry{
			Path: strings.Join(append(append([]string{}, parts...), info.Name()), "/"),
			Name: info.Name(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Extensions returns the names of the extension directories present in the
// game tree.
func (l *FSLoader) Extensions() []string {
	infos, err := l.fs.ReadDir(extensionsDir)
	if err != nil {
		return nil
	}

	var names []string
	for _, info := range infos {
		if info.IsDir() {
			names = append(names, strings.ToLower(info.Name()))
		}
	}
	sort.Strings(names)
	return names
}
