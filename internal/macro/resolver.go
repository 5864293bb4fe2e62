package macro

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/beevik/etree"

	"github.com/bno1/X4FProjector/internal/fileloader"
)

// PathResolver maps macro and component names to the game XML files defining
// them.
type PathResolver interface {
	MacroPath(name string) (string, bool)
	ComponentPath(name string) (string, bool)
}

// IndexResolver resolves names through the index documents the game ships
// (index/macros.xml and index/components.xml). This is the authoritative
// strategy: it survives new naming conventions without code changes.
type IndexResolver struct {
	macros     map[string]string
	components map[string]string
}

// NewIndexResolver loads both index documents from the game tree.
func NewIndexResolver(loader fileloader.Loader) (*IndexResolver, error) {
	r := &IndexResolver{
		macros:     map[string]string{},
		components: map[string]string{},
	}

	if err := loadIndex(loader, "index/macros.xml", r.macros); err != nil {
		return nil, err
	}
	if err := loadIndex(loader, "index/components.xml", r.components); err != nil {
		return nil, err
	}

	r.repair()
	return r, nil
}

// loadIndex parses one index document into dest. Entries are
// <entry name="..." value="..."/> where value is a backslash-separated path
// without the .xml suffix.
func loadIndex(loader fileloader.Loader, path string, dest map[string]string) error {
	f, err := loader.Open(path)
	if err != nil {
		return fmt.Errorf("open index %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(f); err != nil {
		return fmt.Errorf("parse index %s: %w", path, err)
	}
	root := doc.Root()
	if root == nil {
		return fmt.Errorf("index %s has no root element", path)
	}

	for _, entry := range root.FindElements("./entry[@name][@value]") {
		name := entry.SelectAttrValue("name", "")
		value := entry.SelectAttrValue("value", "")
		dest[name] = strings.ReplaceAll(value, "\\", "/") + ".xml"
	}

	return nil
}

// repair patches entries the shipped indexes are missing or have wrong.
func (r *IndexResolver) repair() {
	r.components["cockpit_invisible_escapepod"] = "assets/units/size_s/cockpit_invisible_escapepod.xml"
}

// MacroPath implements PathResolver.
func (r *IndexResolver) MacroPath(name string) (string, bool) {
	path, ok := r.macros[name]
	return path, ok
}

// ComponentPath implements PathResolver.
func (r *IndexResolver) ComponentPath(name string) (string, bool) {
	path, ok := r.components[name]
	return path, ok
}

// patternRule maps a naming convention to an asset directory. $1..$n in dir
// expand to the capture groups of re.
type patternRule struct {
	re  *regexp.Regexp
	dir string
}

// macroRules covers the naming conventions of the vanilla game. Extensions
// routinely break these, which is why the index resolver is preferred.
var macroRules = []patternRule{
	{regexp.MustCompile(`^ship_[a-z]+_(xs|s|m|l|xl)_`), "assets/units/size_$1/macros"},
	{regexp.MustCompile(`^(?:engine|thruster)_`), "assets/props/Engines/macros"},
	{regexp.MustCompile(`^shield_`), "assets/props/SurfaceElements/macros"},
	{regexp.MustCompile(`^(?:bullet|bomb)_`), "assets/fx/weaponFx/macros"},
	{regexp.MustCompile(`^missile_`), "assets/props/WeaponSystems/missile/macros"},
	{regexp.MustCompile(`^storage_[a-z]+_(xs|s|m|l|xl)_`), "assets/props/StorageModules/macros"},
}

var componentRules = []patternRule{
	{regexp.MustCompile(`^ship_[a-z]+_(xs|s|m|l|xl)_`), "assets/units/size_$1"},
	{regexp.MustCompile(`^(?:engine|thruster)_`), "assets/props/Engines"},
	{regexp.MustCompile(`^shield_`), "assets/props/SurfaceElements"},
	{regexp.MustCompile(`^(?:bullet|bomb)_`), "assets/fx/weaponFx"},
}

// PatternResolver is the legacy strategy: a hand-maintained table of naming
// conventions. It is only used when a game tree ships no index documents
// (very old unpacks); names outside the table simply do not resolve.
type PatternResolver struct{}

// NewPatternResolver creates the legacy naming-convention resolver.
func NewPatternResolver() *PatternResolver {
	return &PatternResolver{}
}

func resolvePattern(rules []patternRule, name string) (string, bool) {
	for _, rule := range rules {
		m := rule.re.FindStringSubmatchIndex(name)
		if m == nil {
			continue
		}
		dir := string(rule.re.ExpandString(nil, rule.dir, name, m))
		return dir + "/" + name + ".xml", true
	}
	return "", false
}

// MacroPath implements PathResolver.
func (r *PatternResolver) MacroPath(name string) (string, bool) {
	return resolvePattern(macroRules, name)
}

// ComponentPath implements PathResolver.
func (r *PatternResolver) ComponentPath(name string) (string, bool) {
	return resolvePattern(componentRules, strings.TrimSuffix(name, "_macro"))
}
