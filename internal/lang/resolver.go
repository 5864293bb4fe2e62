// Package lang resolves language-aware strings. X4 uses a template system
// where a string can contain '{page_id, text_id}' fields which are
// substituted using the language files found under 't/' in the game tree.
package lang

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/beevik/etree"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
)

// ErrUnknownLanguage reports a resolve request for a language that was never
// loaded. There is no fallback language.
var ErrUnknownLanguage = errors.New("language not loaded")

var (
	fieldRe    = regexp.MustCompile(`\{\s*(\d+)\s*,\s*(\d+)\s*\}`)
	unescapeRe = regexp.MustCompile(`\\(.)`)
)

// cacheSize bounds the resolved-string memoization. The same template shows
// up once per macro referencing it, which for ships and equipment means a lot
// of repeat resolutions.
const cacheSize = 4096

// ResolveOptions selects the language and post-processing for one resolve
// call. A zero value means the default language with no trimming.
type ResolveOptions struct {
	// Language names a loaded language. Empty selects the default.
	Language string
	// Trim strips leading and trailing whitespace from the result.
	Trim bool
}

// Resolver expands template fields in strings using loaded game language
// documents.
//
// Resolution iterates to a fixed point because resolved texts may themselves
// contain further fields. A cyclic reference between text entries would
// therefore never terminate; the game files do not contain such cycles and
// the resolver does not guard against them.
type Resolver struct {
	docs        map[string]*etree.Document
	defaultLang string
	cache       *lru.Cache[string, string]
	problems    []string
}

// NewResolver creates an empty Resolver.
func NewResolver() *Resolver {
	cache, _ := lru.New[string, string](cacheSize)
	return &Resolver{
		docs:  map[string]*etree.Document{},
		cache: cache,
	}
}

// Load parses a game language document and registers it under name. The
// first loaded language becomes the default unless SetDefault was called.
func (r *Resolver) Load(name string, src io.Reader) error {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(src); err != nil {
		return fmt.Errorf("parse language file for %s: %w", name, err)
	}
	if doc.Root() == nil {
		return fmt.Errorf("language file for %s has no root element", name)
	}

	r.docs[name] = doc
	if r.defaultLang == "" {
		r.defaultLang = name
	}
	return nil
}

// SetDefault sets the default language.
func (r *Resolver) SetDefault(name string) {
	r.defaultLang = name
}

// Languages returns the names of the loaded languages.
func (r *Resolver) Languages() []string {
	names := make([]string, 0, len(r.docs))
	for name := range r.docs {
		names = append(names, name)
	}
	return names
}

// Problems returns the non-fatal issues recorded while resolving strings,
// one per template field that had no matching text entry.
func (r *Resolver) Problems() []string {
	return r.problems
}

// Resolve expands every template field in template, then strips parenthetical
// comments and unescapes backslash sequences. Fields with no matching entry
// are kept literally and recorded as problems. Requesting an unloaded
// language is an error.
func (r *Resolver) Resolve(template string, opts ResolveOptions) (string, error) {
	if template == "" {
		return template, nil
	}

	langName := opts.Language
	if langName == "" {
		langName = r.defaultLang
	}

	doc, ok := r.docs[langName]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownLanguage, langName)
	}

	key := langName + "\x00" + template
	if opts.Trim {
		key = "t\x00" + key
	}
	if cached, ok := r.cache.Get(key); ok {
		return cached, nil
	}

	// Substitute fields until a pass changes nothing. Resolved texts can
	// reference further pages. An unresolvable field survives every pass, so
	// it is recorded only the first time it is seen.
	unresolved := map[string]struct{}{}
	prev := ""
	cur := template
	for cur != prev {
		prev = cur
		cur = fieldRe.ReplaceAllStringFunc(cur, func(field string) string {
			m := fieldRe.FindStringSubmatch(field)
			text, ok := r.lookup(doc, m[1], m[2])
			if !ok {
				if _, dup := unresolved[field]; !dup {
					unresolved[field] = struct{}{}
					r.problems = append(r.problems, fmt.Sprintf("cannot resolve field %s", field))
					logrus.Errorf("failure while resolving string: cannot resolve field %s", field)
				}
				return field
			}
			return text
		})
	}

	out := unescapeRe.ReplaceAllString(stripComments(cur), "$1")
	if opts.Trim {
		out = strings.TrimSpace(out)
	}

	r.cache.Add(key, out)
	return out, nil
}

// lookup finds the text entry addressed by a page/text id pair.
func (r *Resolver) lookup(doc *etree.Document, pageID, textID string) (string, bool) {
	path := fmt.Sprintf("./page[@id='%s']/t[@id='%s']", pageID, textID)
	node := doc.Root().FindElement(path)
	if node == nil {
		return "", false
	}
	return node.Text(), true
}

// stripComments removes parenthetical comments in a single pass. A comment
// runs from an unescaped '(' to the next unescaped ')' on the same line; an
// opener without a closer is kept literally.
func stripComments(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		c := rs[i]

		if c == '\\' && i+1 < len(rs) {
			b.WriteRune(c)
			i++
			b.WriteRune(rs[i])
			continue
		}

		if c == '(' {
			end := -1
			for j := i + 1; j < len(rs); j++ {
				if rs[j] == '\n' {
					break
				}
				if rs[j] == '\\' {
					j++
					continue
				}
				if rs[j] == ')' {
					end = j
					break
				}
			}
			if end >= 0 {
				i = end
				continue
			}
		}

		b.WriteRune(c)
	}

	return b.String()
}
