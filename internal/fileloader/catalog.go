package fileloader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-git/go-billy/v5"
)

// ErrMalformedIndex reports a cat index file with an entry line that does not
// parse. The whole index is rejected: a partially merged archive would leave
// the file tree with wrong offsets.
var ErrMalformedIndex = errors.New("malformed cat index")

// catEntry locates one game file inside a dat blob.
type catEntry struct {
	// fs and datPath identify the dat blob holding the file bytes.
	fs      billy.Filesystem
	datPath string
	name    string
	size    int64
	offset  int64
}

// parsedEntry pairs a cat entry with the directory components it lives under.
type parsedEntry struct {
	dir   []string
	entry catEntry
}

// parseCatalog parses a cat index stream into entries referencing datPath.
//
// Each line is "<path> <size> <timestamp> <hash>" where the path itself may
// contain spaces, so fields are split from the right. Byte offsets accumulate
// from zero in line order, matching the layout of the paired dat blob.
// Offsets keep accumulating over entries skipped for an empty path, otherwise
// every following entry would point at the wrong bytes.
//
// Entries are lowercased: game paths are case-insensitive.
func parseCatalog(r io.Reader, catPath string, fs billy.Filesystem, datPath string) ([]parsedEntry, []string, error) {
	var entries []parsedEntry
	var problems []string
	var offset int64

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.ToLower(scanner.Text())
		if line == "" {
			continue
		}

		path, size, err := splitCatalogLine(line)
		if err != nil {
			return nil, problems, fmt.Errorf("%w: %s line %d: %v", ErrMalformedIndex, catPath, lineNo, err)
		}

		entryOffset := offset
		offset += size

		gamePath := SplitGamePath(path)
		if len(gamePath) == 0 {
			problems = append(problems, fmt.Sprintf("%s line %d: malformed game path %q", catPath, lineNo, path))
			continue
		}

		name := gamePath[len(gamePath)-1]
		entries = append(entries, parsedEntry{
			dir: gamePath[:len(gamePath)-1],
			entry: catEntry{
				fs:      fs,
				datPath: datPath,
				name:    name,
				size:    size,
				offset:  entryOffset,
			},
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, problems, fmt.Errorf("read cat index %s: %w", catPath, err)
	}

	return entries, problems, nil
}

// splitCatalogLine splits an index line from the right into exactly 4 fields
// and returns the path and size. Timestamp and hash are not used.
func splitCatalogLine(line string) (string, int64, error) {
	rest := line
	var fields [3]string
	for i := 2; i >= 0; i-- {
		idx := strings.LastIndexByte(rest, ' ')
		if idx < 0 {
			return "", 0, errors.New("expected 4 fields")
		}
		fields[i] = rest[idx+1:]
		rest = rest[:idx]
	}

	size, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("bad size field %q", fields[0])
	}
	if size < 0 {
		return "", 0, fmt.Errorf("negative size %d", size)
	}

	return rest, size, nil
}
