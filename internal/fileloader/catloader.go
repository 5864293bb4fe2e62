package fileloader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/sirupsen/logrus"
)

// ErrNotFound reports a game path that could not be resolved after all
// loadable cat files were exhausted.
var ErrNotFound = errors.New("game path not found")

// extensionsDir is the reserved tree node under which extension loaders are
// mounted.
const extensionsDir = "extensions"

// dirNode is one directory in the reconstructed game file tree. A child is
// either another *dirNode, a catEntry (a file), or a *CatLoader (a mounted
// extension).
type dirNode struct {
	children map[string]any
}

func newDirNode() *dirNode {
	return &dirNode{children: map[string]any{}}
}

// insert adds a child under name. The first registration wins: inserting over
// an existing child is rejected, which is what makes higher-priority archives
// override lower-priority ones (they are loaded first).
func (n *dirNode) insert(name string, child any) bool {
	if _, ok := n.children[name]; ok {
		return false
	}
	n.children[name] = child
	return true
}

// catPair is one not-yet-loaded archive pair.
type catPair struct {
	cat string
	dat string
}

// CatLoader reads game files directly from the cat/dat archives of a game
// installation. The file tree is assembled lazily: archive pairs sit on a
// priority stack and are parsed only when a lookup cannot be answered from
// the entries merged so far.
//
// CatLoader is not safe for concurrent use: lookups mutate the pending stack
// and the file tree in place.
type CatLoader struct {
	fs       billy.Filesystem
	tree     *dirNode
	pending  []catPair
	loaded   map[string]struct{}
	problems []string
}

// NewCatLoader creates a loader over a filesystem rooted at the directory
// holding the numbered cat/dat pairs.
func NewCatLoader(fs billy.Filesystem) *CatLoader {
	return &CatLoader{
		fs:     fs,
		tree:   newDirNode(),
		loaded: map[string]struct{}{},
	}
}

// Problems returns the non-fatal issues recorded while loading archives:
// rejected cat files and skipped entries.
func (c *CatLoader) Problems() []string {
	return c.problems
}

// scanPairs records contiguous numbered cat/dat pairs starting at
// <prefix>01 and stopping at the first missing number. Recorded pairs are
// pushed so that the highest-numbered one is consumed first.
func (c *CatLoader) scanPairs(prefix string) int {
	var found []catPair

	for i := 1; i < 100; i++ {
		cat := fmt.Sprintf("%s%02d.cat", prefix, i)
		dat := fmt.Sprintf("%s%02d.dat", prefix, i)

		if !c.fileExists(cat) || !c.fileExists(dat) {
			break
		}
		found = append(found, catPair{cat: cat, dat: dat})
	}

	c.pending = append(found, c.pending...)
	return len(found)
}

func (c *CatLoader) fileExists(path string) bool {
	info, err := c.fs.Stat(path)
	return err == nil && !info.IsDir()
}

// LoadFromGameRoot records the numbered archive pairs of the game root
// (01.cat/01.dat, 02.cat/02.dat, ...) for lazy loading and returns how many
// pairs were found. Higher-numbered archives override lower-numbered ones.
func (c *CatLoader) LoadFromGameRoot() int {
	return c.scanPairs("")
}

// loadCat parses one cat file and merges its entries into the file tree
// without overwriting existing entries. A malformed index is rejected as a
// whole; already merged archives are unaffected.
func (c *CatLoader) loadCat(pair catPair) bool {
	logrus.Debugf("loading cat file %s", pair.cat)

	f, err := c.fs.Open(pair.cat)
	if err != nil {
		c.problems = append(c.problems, fmt.Sprintf("open cat file %s: %v", pair.cat, err))
		logrus.Errorf("open cat file %s: %v", pair.cat, err)
		return false
	}

	entries, problems, err := parseCatalog(f, pair.cat, c.fs, pair.dat)
	_ = f.Close()
	c.problems = append(c.problems, problems...)
	if err != nil {
		c.problems = append(c.problems, err.Error())
		logrus.Errorf("load cat file %s: %v", pair.cat, err)
		return false
	}

	for _, pe := range entries {
		node := c.tree
		conflict := false
		for _, dir := range pe.dir {
			child, ok := node.children[dir]
			if !ok {
				next := newDirNode()
				node.children[dir] = next
				node = next
				continue
			}

			next, ok := child.(*dirNode)
			if !ok {
				c.problems = append(c.problems, fmt.Sprintf(
					"%s: entry %s: %s is a file, cannot contain children", pair.cat, pe.entry.name, dir))
				conflict = true
				break
			}
			node = next
		}
		if conflict {
			continue
		}

		node.insert(pe.entry.name, pe.entry)
	}

	c.loaded[pair.cat] = struct{}{}
	return true
}

// loadNextCat pops archive pairs from the top of the priority stack until one
// loads successfully. It reports false when no pair is left to load.
func (c *CatLoader) loadNextCat() bool {
	for len(c.pending) > 0 {
		pair := c.pending[len(c.pending)-1]
		c.pending = c.pending[:len(c.pending)-1]

		if _, done := c.loaded[pair.cat]; done {
			continue
		}
		if c.loadCat(pair) {
			return true
		}
	}
	return false
}

// findEntry walks the file tree along parts, loading further archive pairs
// whenever a component is missing. It returns the loader owning the final
// node so that extension lookups resolve against the extension's own tree.
func (c *CatLoader) findEntry(parts []string) (*CatLoader, any) {
	var node any = c.tree

	for len(parts) > 0 {
		switch k := node.(type) {
		case catEntry:
			// A file cannot contain children.
			return nil, nil
		case *CatLoader:
			return k.findEntry(parts)
		case *dirNode:
			part := parts[0]
			parts = parts[1:]

			next, ok := k.children[part]
			for !ok && c.loadNextCat() {
				next, ok = k.children[part]
			}
			if !ok {
				return nil, nil
			}
			node = next
		default:
			return nil, nil
		}
	}

	return c, node
}

// Open opens a game file. The returned stream is a Region over a freshly
// opened dat handle, so streams from the same archive may be read
// independently.
func (c *CatLoader) Open(path string) (io.ReadCloser, error) {
	parts := SplitGamePath(strings.ToLower(path))
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: empty path %q", ErrNotFound, path)
	}

	_, node := c.findEntry(parts)
	if node == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	entry, ok := node.(catEntry)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a file", ErrNotFound, path)
	}

	dat, err := entry.fs.Open(entry.datPath)
	if err != nil {
		return nil, fmt.Errorf("open dat file %s: %w", entry.datPath, err)
	}

	region, err := NewRegion(dat, entry.offset, entry.size)
	if err != nil {
		_ = dat.Close()
		return nil, fmt.Errorf("open %s in %s: %w", path, entry.datPath, err)
	}

	return region, nil
}

// Exists reports whether path resolves to a game file.
func (c *CatLoader) Exists(path string) bool {
	parts := SplitGamePath(strings.ToLower(path))

	_, node := c.findEntry(parts)
	_, ok := node.(catEntry)
	return ok
}

// List lists the game files directly under a game directory. Lazy loading
// gives no lower bound on the completeness of a directory, so all remaining
// archive pairs of the owning loader are forced in first.
func (c *CatLoader) List(path string) ([]Entry, error) {
	parts := SplitGamePath(strings.ToLower(path))

	owner, node := c.findEntry(parts)
	switch k := node.(type) {
	case *CatLoader:
		nested, err := k.List("")
		if err != nil {
			return nil, err
		}
		out := make([]Entry, 0, len(nested))
		for _, e := range nested {
			out = append(out, Entry{
				Path: strings.Join(append(append([]string{}, parts...), e.Path), "/"),
				Name: e.Name,
			})
		}
		return out, nil
	case *dirNode:
		for owner.loadNextCat() {
		}

		var out []Entry
		for name, child := range k.children {
			if _, ok := child.(catEntry); !ok {
				continue
			}
			out = append(out, Entry{
				Path: strings.Join(append(append([]string{}, parts...), name), "/"),
				Name: name,
			})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s is not a directory", ErrNotFound, path)
	}
}

// Extensions returns the names of the mounted extensions. Mounting is
// explicit, so no archive loading is triggered.
func (c *CatLoader) Extensions() []string {
	node, ok := c.tree.children[extensionsDir]
	if !ok {
		return nil
	}

	extNode, ok := node.(*dirNode)
	if !ok {
		return nil
	}

	names := make([]string, 0, len(extNode.children))
	for name := range extNode.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadExtension mounts the extension found at dir (relative to the game
// root) under extensions/<name> and records its ext_NN archive pairs for
// lazy loading. Mounting the same name twice is an error.
func (c *CatLoader) LoadExtension(name, dir string) (int, error) {
	name = strings.ToLower(name)

	node, ok := c.tree.children[extensionsDir]
	if !ok {
		node = newDirNode()
		c.tree.children[extensionsDir] = node
	}
	extNode, ok := node.(*dirNode)
	if !ok {
		return 0, fmt.Errorf("%s is shadowed by an archive entry", extensionsDir)
	}

	extFS, err := c.fs.Chroot(dir)
	if err != nil {
		return 0, fmt.Errorf("extension root %s: %w", dir, err)
	}

	ext := NewCatLoader(extFS)
	if !extNode.insert(name, ext) {
		return 0, fmt.Errorf("extension %s already present", name)
	}

	return ext.scanPairs("ext_"), nil
}

// MountExtensions discovers extension directories under extensions/ in the
// game root and mounts each of them. It returns the number of extensions
// mounted.
func (c *CatLoader) MountExtensions() (int, error) {
	infos, err := c.fs.ReadDir(extensionsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("list extensions: %w", err)
	}

	mounted := 0
	for _, info := range infos {
		if !info.IsDir() {
			continue
		}

		pairs, err := c.LoadExtension(info.Name(), c.fs.Join(extensionsDir, info.Name()))
		if err != nil {
			return mounted, err
		}

		logrus.Debugf("mounted extension %s with %d archive pairs", info.Name(), pairs)
		mounted++
	}

	return mounted, nil
}
