package macro

import (
	"fmt"
	"sort"
	"strings"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"

	"github.com/bno1/X4FProjector/internal/fileloader"
)

// DB loads macros and components from a game file loader and resolves the
// references between them.
//
// Macros live in a flat arena keyed by name. Loading a macro file records
// every referenced-but-unknown name in a pending set; ResolveDependencies
// drains that set to a fixed point. Because records are memoized by name and
// never reloaded, cyclic references terminate naturally.
type DB struct {
	loader   fileloader.Loader
	resolver PathResolver

	// Macros is the record arena, keyed by macro name.
	Macros map[string]*Macro
	// MacrosByType lists macro names per class, in load order.
	MacrosByType map[string][]string

	pending map[string]struct{}

	macroParser     Parser
	componentParser ComponentParser
}

// NewDB creates a macro database over loader. Name resolution uses the
// game's index documents; a tree without them falls back to the legacy
// naming-convention resolver.
func NewDB(loader fileloader.Loader) *DB {
	resolver, err := NewIndexResolver(loader)
	if err != nil {
		logrus.Warnf("no usable index documents, falling back to naming conventions: %v", err)
		return NewDBWithResolver(loader, NewPatternResolver())
	}
	return NewDBWithResolver(loader, resolver)
}

// NewDBWithResolver creates a macro database with an explicit path
// resolution strategy.
func NewDBWithResolver(loader fileloader.Loader, resolver PathResolver) *DB {
	return &DB{
		loader:          loader,
		resolver:        resolver,
		Macros:          map[string]*Macro{},
		MacrosByType:    map[string][]string{},
		pending:         map[string]struct{}{},
		macroParser:     NoopParser,
		componentParser: NoopParser,
	}
}

// SetMacroParser sets the per-type macro properties parser.
func (db *DB) SetMacroParser(p Parser) {
	db.macroParser = p
}

// SetComponentParser sets the per-type component properties parser.
func (db *DB) SetComponentParser(p ComponentParser) {
	db.componentParser = p
}

// Pending returns the names referenced by loaded macros that have not been
// loaded yet.
func (db *DB) Pending() []string {
	out := make([]string, 0, len(db.pending))
	for name := range db.pending {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// LoadMacroFile loads every macro defined in a game XML file.
//
// Per macro: the properties node goes through the macro parser, a component
// reference is resolved and merged (component fields never override fields
// the macro parser already set), and the connection list is recorded with
// unknown references added to the pending set.
func (db *DB) LoadMacroFile(path string, rep *Report) error {
	f, err := db.loader.Open(path)
	if err != nil {
		return fmt.Errorf("open macro file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(f); err != nil {
		return fmt.Errorf("parse macro file %s: %w", path, err)
	}
	root := doc.Root()
	if root == nil {
		return fmt.Errorf("macro file %s has no root element", path)
	}

	found := false
	for _, macroNode := range root.FindElements("./macro[@name][@class]") {
		found = true
		name := macroNode.SelectAttrValue("name", "")
		class := macroNode.SelectAttrValue("class", "")

		properties := map[string]any{}
		propNodes := macroNode.FindElements("./properties")
		if len(propNodes) > 1 {
			rep.addf("%s: macro %s has more than one <properties> node", path, name)
			logrus.Errorf("failed to load macro properties from %s: too many <properties> nodes", path)
		} else if len(propNodes) == 1 {
			properties = db.macroParser(name, class, propNodes[0])
		}

		compNodes := macroNode.FindElements("./component")
		if len(compNodes) > 1 {
			rep.addf("%s: macro %s has more than one <component> node", path, name)
			logrus.Errorf("failed to load component properties from %s: too many <component> nodes", path)
		} else if len(compNodes) == 1 {
			compProps := db.LoadComponentProperties(compNodes[0].SelectAttrValue("ref", ""), rep)
			// Macro parsing happens first; the component only fills gaps.
			for k, v := range compProps {
				if _, ok := properties[k]; !ok {
					properties[k] = v
				}
			}
		}

		m := &Macro{Name: name, Type: class, Properties: properties}

		for _, connNode := range macroNode.FindElements("./connections/connection[@ref]") {
			connRef := connNode.SelectAttrValue("ref", "")
			for _, refNode := range connNode.FindElements("./macro[@ref]") {
				macroRef := refNode.SelectAttrValue("ref", "")
				if _, ok := db.Macros[macroRef]; !ok {
					db.pending[macroRef] = struct{}{}
				}
				m.addConnection(connRef, macroRef)
			}
		}

		db.Macros[name] = m
		delete(db.pending, name)
		db.MacrosByType[class] = append(db.MacrosByType[class], name)
	}

	if !found {
		rep.addf("no macros found in file %s", path)
		logrus.Warnf("no macros found in file %s", path)
	}

	return nil
}

// LoadComponentProperties loads a shared component definition and runs it
// through the component parser. Failures are recorded and yield empty
// properties; a missing component never fails the macro that references it.
func (db *DB) LoadComponentProperties(name string, rep *Report) map[string]any {
	path, ok := db.resolver.ComponentPath(name)
	if !ok {
		rep.addf("component %s not found in index", name)
		logrus.Errorf("failed to load component %s, not found in index", name)
		return map[string]any{}
	}

	f, err := db.loader.Open(path)
	if err != nil {
		rep.addf("component %s: open %s: %v", name, path, err)
		logrus.Errorf("failed to load component %s from %s: %v", name, path, err)
		return map[string]any{}
	}
	defer func() { _ = f.Close() }()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(f); err != nil {
		rep.addf("component %s: parse %s: %v", name, path, err)
		logrus.Errorf("failed to parse component file %s: %v", path, err)
		return map[string]any{}
	}
	root := doc.Root()
	if root == nil {
		rep.addf("component %s: %s has no root element", name, path)
		return map[string]any{}
	}

	compNodes := root.FindElements(fmt.Sprintf("./component[@name='%s']", name))
	switch {
	case len(compNodes) > 1:
		rep.addf("component %s: too many matching nodes in %s", name, path)
		logrus.Errorf("failed to load component properties from %s: too many component nodes", path)
	case len(compNodes) == 1:
		node := compNodes[0]
		// Some pesky component has a space in its class.
		class := strings.TrimSpace(node.SelectAttrValue("class", ""))
		return db.componentParser(name, class, node)
	default:
		rep.addf("no component with name %s in file %s", name, path)
		logrus.Warnf("no component with name %s in file %s", name, path)
	}

	return map[string]any{}
}

// resolveStep performs one iteration of dependency resolution and reports
// whether the pending set changed.
func (db *DB) resolveStep(rep *Report) bool {
	// Drop names that have been satisfied since the last step.
	for name := range db.pending {
		if _, ok := db.Macros[name]; ok {
			delete(db.pending, name)
		}
	}

	before := make(map[string]struct{}, len(db.pending))
	snapshot := make([]string, 0, len(db.pending))
	for name := range db.pending {
		before[name] = struct{}{}
		snapshot = append(snapshot, name)
	}
	sort.Strings(snapshot)

	for _, name := range snapshot {
		path, ok := db.resolver.MacroPath(name)
		if !ok {
			rep.addf("reference %s not found in index", name)
			logrus.Errorf("failed to load ref %s, not found in index", name)
			continue
		}

		if !db.loader.Exists(path) {
			rep.addf("reference %s: file %s not found", name, path)
			logrus.Errorf("failed to load ref %s, file %s not found", name, path)
			continue
		}

		if err := db.LoadMacroFile(path, rep); err != nil {
			rep.addf("reference %s: %v", name, err)
			logrus.Errorf("failed to load ref %s: %v", name, err)
		}
	}

	if len(before) != len(db.pending) {
		return true
	}
	for name := range db.pending {
		if _, ok := before[name]; !ok {
			return true
		}
	}
	return false
}

// ResolveDependencies loads macros that are referenced by loaded macros but
// not loaded themselves, iterating until the pending set is empty or an
// iteration makes no progress. It reports whether every reference resolved;
// permanently unresolvable names are listed in the report and dropped, never
// retried.
func (db *DB) ResolveDependencies() (bool, *Report) {
	rep := &Report{}

	for len(db.pending) > 0 {
		if !db.resolveStep(rep) {
			rep.addf("failed to resolve all dependencies, remaining: %s", strings.Join(db.Pending(), ", "))
			logrus.Errorf("failed to resolve all dependencies. Remaining: %v", db.Pending())
			break
		}
	}

	return len(db.pending) == 0, rep
}
