package loaders

import (
	"regexp"
	"strings"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"

	"github.com/bno1/X4FProjector/internal/macro"
	"github.com/bno1/X4FProjector/internal/xmlq"
)

// connectionsPath selects the tagged connection slots of a component.
const connectionsPath = "./connections/connection[@tags]"

var sizeTagRe = regexp.MustCompile(`\b(spacesuit|extrasmall|small|medium|large|extralarge)\b`)

// sizeFromTags extracts the size class of a tagged connection slot, e.g. the
// "medium" in tags="medium engine platformcollision".
func sizeFromTags(tags string) string {
	m := sizeTagRe.FindStringSubmatch(tags)
	if m == nil {
		return ""
	}
	return m[1]
}

// componentSize finds the size class of the slot an equipment component plugs
// into. Components declare exactly one slot with the given tag; anything else
// is logged and yields an empty size.
func componentSize(name string, comp *etree.Element, tag string) string {
	slots := xmlq.NodesWithTag(comp, connectionsPath, tag)
	if len(slots) != 1 {
		logrus.Errorf("component %s has %d connections tagged %s, expected 1", name, len(slots), tag)
		return ""
	}
	return sizeFromTags(slots[0].SelectAttrValue("tags", ""))
}

// ComponentParser builds the per-type component properties parser. Component
// files carry the physical layout of an asset: for ships that means slot
// counts, for equipment the size class of the mount.
func ComponentParser() macro.ComponentParser {
	return func(name, class string, comp *etree.Element) map[string]any {
		if strings.HasPrefix(class, "ship_") {
			return parseShipComponent(comp)
		}

		switch class {
		case "shieldgenerator":
			return map[string]any{"size": componentSize(name, comp, "shield")}
		case "engine":
			return parseEngineComponent(name, comp)
		case "weapon", "bomblauncher":
			return map[string]any{"size": componentSize(name, comp, "weapon")}
		case "turret":
			return map[string]any{"size": componentSize(name, comp, "turret")}
		case "missilelauncher", "missileturret":
			return map[string]any{"size": componentSize(name, comp, "missile")}
		case "bullet", "missile", "bomb", "storage", "dockingbay", "dockarea",
			"cockpit", "spacesuit", "buildmodule", "buildprocessor", "destructible":
			return map[string]any{}
		}

		logrus.Errorf("failed to load component properties: unhandled type %s for %s", class, name)
		return map[string]any{}
	}
}

func parseShipComponent(comp *etree.Element) map[string]any {
	return map[string]any{
		"num_engines":         int64(len(xmlq.NodesWithTag(comp, connectionsPath, "engine"))),
		"num_shields":         int64(len(xmlq.NodesWithTag(comp, connectionsPath, "shield"))),
		"num_weapons":         int64(len(xmlq.NodesWithTag(comp, connectionsPath, "weapon"))),
		"num_turrets":         int64(len(xmlq.NodesWithTag(comp, connectionsPath, "turret"))),
		"num_countermeasures": int64(len(xmlq.NodesWithTag(comp, connectionsPath, "countermeasures"))),
	}
}

// parseEngineComponent handles the three families sharing the engine class:
// engines proper, thrusters, and generic effect-only props with no mount.
func parseEngineComponent(name string, comp *etree.Element) map[string]any {
	switch {
	case strings.HasPrefix(name, "engine_"):
		return map[string]any{"size": componentSize(name, comp, "engine")}
	case strings.HasPrefix(name, "thruster_"):
		return map[string]any{"size": componentSize(name, comp, "thruster")}
	case strings.HasPrefix(name, "generic_"):
		return map[string]any{}
	}

	logrus.Errorf("cannot determine engine family of component %s", name)
	return map[string]any{}
}
