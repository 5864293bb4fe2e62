// Package xmlq provides small query helpers over etree documents, used by
// the per-type macro parsers to pull attributes out of game XML files.
package xmlq

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"
)

// Attr returns an attribute of the first element selected by path, or def if
// no element matches or the attribute is missing. More than one match is
// legal in the game files but suspicious, so it is logged.
func Attr(node *etree.Element, path, attrib, def string) string {
	matches := node.FindElements(path)
	if len(matches) == 0 {
		return def
	}
	if len(matches) > 1 {
		logrus.Warnf("more than one node matched path %s", path)
	}
	return matches[0].SelectAttrValue(attrib, def)
}

// Attrs returns the attribute map of the first element selected by path, or
// nil if nothing matches.
func Attrs(node *etree.Element, path string) map[string]string {
	matches := node.FindElements(path)
	if len(matches) == 0 {
		return nil
	}
	if len(matches) > 1 {
		logrus.Warnf("more than one node matched path %s", path)
	}

	out := make(map[string]string, len(matches[0].Attr))
	for _, a := range matches[0].Attr {
		out[a.Key] = a.Value
	}
	return out
}

// AttrInt is Attr with integer conversion.
func AttrInt(node *etree.Element, path, attrib string, def int64) int64 {
	return ParseInt(Attr(node, path, attrib, ""), def)
}

// AttrFloat is Attr with float conversion.
func AttrFloat(node *etree.Element, path, attrib string, def float64) float64 {
	return ParseFloat(Attr(node, path, attrib, ""), def)
}

// MapStr returns m[key] or def when the key is absent or empty.
func MapStr(m map[string]string, key, def string) string {
	if v, ok := m[key]; ok && v != "" {
		return v
	}
	return def
}

// MapInt returns m[key] as an integer, or def when absent or unparsable.
func MapInt(m map[string]string, key string, def int64) int64 {
	return ParseInt(m[key], def)
}

// MapFloat returns m[key] as a float, or def when absent or unparsable.
func MapFloat(m map[string]string, key string, def float64) float64 {
	return ParseFloat(m[key], def)
}

// ParseInt converts s, falling back to def for empty or malformed values.
func ParseInt(s string, def int64) int64 {
	if s == "" {
		return def
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		logrus.Warnf("bad integer value %q", s)
		return def
	}
	return v
}

// ParseFloat converts s, falling back to def for empty or malformed values.
func ParseFloat(s string, def float64) float64 {
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		logrus.Warnf("bad float value %q", s)
		return def
	}
	return v
}

// NodesWithTag selects the elements under path whose tags attribute contains
// tag as a whole word.
func NodesWithTag(node *etree.Element, path, tag string) []*etree.Element {
	tagRe := regexp.MustCompile(`\b` + regexp.QuoteMeta(tag) + `\b`)

	var out []*etree.Element
	for _, el := range node.FindElements(path) {
		if tagRe.MatchString(el.SelectAttrValue("tags", "")) {
			out = append(out, el)
		}
	}
	return out
}

// PathInExtension rebases a path relative to an extension root onto the game
// root. An empty extension name means the base game.
func PathInExtension(path, extName string) string {
	if extName == "" {
		return path
	}
	return fmt.Sprintf("extensions/%s/%s", extName, path)
}
