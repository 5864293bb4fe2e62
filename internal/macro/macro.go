// Package macro loads game macro and component files and resolves the
// references between them.
package macro

import (
	"fmt"

	"github.com/beevik/etree"
)

// Connection is one outgoing reference of a macro: a connection slot and the
// name of the macro attached to it.
type Connection struct {
	ID  string
	Ref string
}

// Macro is one typed asset record.
//
// References to other macros are names, not pointers: macros form cycles and
// the database arena owns every record.
type Macro struct {
	// Name is the in-game id of the macro.
	Name string
	// Type is the macro class, e.g. engine, shieldgenerator, ship_xl.
	Type string
	// Connections lists connected macros in document order.
	Connections []Connection
	// Properties holds the data extracted by the per-type parser.
	Properties map[string]any
}

func (m *Macro) addConnection(connID, ref string) {
	m.Connections = append(m.Connections, Connection{ID: connID, Ref: ref})
}

// Parser extracts typed properties from a macro's <properties> node.
type Parser func(name, class string, props *etree.Element) map[string]any

// ComponentParser extracts typed properties from a shared <component> node.
type ComponentParser func(name, class string, comp *etree.Element) map[string]any

// NoopParser ignores the document and returns no properties. It is the
// default for both parser slots.
func NoopParser(string, string, *etree.Element) map[string]any {
	return map[string]any{}
}

// Report collects the non-fatal issues of a load or resolve call so that
// callers can inspect failures instead of scraping logs.
type Report struct {
	Problems []string
}

func (r *Report) addf(format string, args ...any) {
	r.Problems = append(r.Problems, fmt.Sprintf(format, args...))
}

// OK reports whether no problems were recorded.
func (r *Report) OK() bool {
	return len(r.Problems) == 0
}
