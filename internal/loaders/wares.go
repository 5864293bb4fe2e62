package loaders

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/bno1/X4FProjector/internal/fileloader"
	"github.com/bno1/X4FProjector/internal/lang"
	"github.com/bno1/X4FProjector/internal/xmlq"
)

// LoadWares parses libraries/wares.xml of the base game (extName empty) or an
// extension and returns a ware id to properties map. Wares are not macros:
// one document defines them all, so there is nothing to resolve afterwards.
func LoadWares(floader fileloader.Loader, lr *lang.Resolver, extName string) (map[string]map[string]any, error) {
	path := xmlq.PathInExtension("libraries/wares.xml", extName)

	f, err := floader.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wares file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("parse wares file %s: %w", path, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("wares file %s has no root element", path)
	}

	wares := map[string]map[string]any{}
	for _, ware := range root.FindElements("./ware") {
		id := ware.SelectAttrValue("id", "")
		if id == "" {
			continue
		}
		wares[id] = parseWare(ware, lr)
	}

	return wares, nil
}

func parseWare(ware *etree.Element, lr *lang.Resolver) map[string]any {
	props := map[string]any{}

	props["name"] = rstr(lr, ware.SelectAttrValue("name", ""))
	props["description"] = rstr(lr, ware.SelectAttrValue("description", ""))
	props["factoryname"] = rstr(lr, ware.SelectAttrValue("factoryname", ""))
	props["group"] = ware.SelectAttrValue("transport", "")
	props["volume"] = xmlq.ParseInt(ware.SelectAttrValue("volume", ""), 0)
	props["tags"] = strings.Fields(ware.SelectAttrValue("tags", ""))
	props["illegal"] = strings.Fields(ware.SelectAttrValue("illegal", ""))

	price := xmlq.Attrs(ware, "./price")
	props["price_min"] = xmlq.MapInt(price, "min", 0)
	props["price_avg"] = xmlq.MapInt(price, "average", 0)
	props["price_max"] = xmlq.MapInt(price, "max", 0)

	productions := []map[string]any{}
	for _, production := range ware.FindElements("./production") {
		pprops := map[string]any{
			"time":   xmlq.ParseFloat(production.SelectAttrValue("time", ""), 0),
			"amount": xmlq.ParseInt(production.SelectAttrValue("amount", ""), 0),
			"method": production.SelectAttrValue("method", ""),
			"name":   rstr(lr, production.SelectAttrValue("name", "")),
		}

		consumption := map[string]int64{}
		for _, cw := range production.FindElements("./primary/ware") {
			consumption[cw.SelectAttrValue("ware", "")] = xmlq.ParseInt(cw.SelectAttrValue("amount", ""), 0)
		}
		pprops["consumption"] = consumption

		productions = append(productions, pprops)
	}
	props["production"] = productions

	props["licence"] = xmlq.Attr(ware, "./restriction[@licence]", "licence", "")

	var owners []string
	for _, owner := range ware.FindElements("./owner[@faction]") {
		owners = append(owners, owner.SelectAttrValue("faction", ""))
	}
	props["owners"] = owners

	return props
}
