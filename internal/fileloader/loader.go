// Package fileloader provides access to X4 Foundations game files, either
// from an extracted directory tree or directly from the game's cat/dat
// archive pairs.
package fileloader

import (
	"io"
	"strings"
)

// Entry describes one game file returned by List.
// Path is the full game-root-relative path, Name the file name alone.
type Entry struct {
	Path string
	Name string
}

// Loader is the interface consumed by the macro database, the object loaders
// and the language resolver. Paths are '/'-separated, case-insensitive and
// relative to the game root.
type Loader interface {
	// Open opens a game file for reading.
	Open(path string) (io.ReadCloser, error)
	// Exists reports whether a game file exists at path.
	Exists(path string) bool
	// List lists the game files directly under a game directory.
	List(path string) ([]Entry, error)
	// Extensions returns the names of the extensions known to this loader.
	Extensions() []string
}

// SplitGamePath splits a game path into its components.
// Empty components caused by doubled slashes are dropped.
func SplitGamePath(path string) []string {
	parts := strings.Split(path, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
