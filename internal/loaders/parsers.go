// Package loaders extracts typed data about ships and equipment from game
// macro files into property maps, and loads ware definitions.
package loaders

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"

	"github.com/bno1/X4FProjector/internal/lang"
	"github.com/bno1/X4FProjector/internal/macro"
	"github.com/bno1/X4FProjector/internal/xmlq"
)

// parserFunc extracts properties for one macro class.
type parserFunc func(name, class string, node *etree.Element, lr *lang.Resolver) map[string]any

// ignore handles classes with nothing of interest.
func ignore(string, string, *etree.Element, *lang.Resolver) map[string]any {
	return map[string]any{}
}

// macroParsers dispatches on the macro class attribute. Classes missing here
// fall through to a logged empty result, never to silent data loss.
var macroParsers = map[string]parserFunc{
	"cockpit":         ignore,
	"spacesuit":       parseSpacesuit,
	"storage":         parseStorage,
	"engine":          parseEngine,
	"dockingbay":      parseDockingbay,
	"dockarea":        parseDockarea,
	"shieldgenerator": parseShieldGenerator,
	"weapon":          parseWeapon,
	"turret":          parseWeapon,
	"bomblauncher":    parseWeapon,
	"bullet":          parseBullet,
	"missilelauncher": parseMissileLauncher,
	"missileturret":   parseMissileLauncher,
	"missile":         parseMissile,
	"bomb":            parseMissile,
	"buildmodule":     ignore,
	"buildprocessor":  ignore,
	"destructible":    ignore,
}

// MacroParser builds the per-type properties parser used by the macro
// database. Localized name and description attributes are resolved through
// lr.
func MacroParser(lr *lang.Resolver) macro.Parser {
	return func(name, class string, node *etree.Element) map[string]any {
		if strings.HasPrefix(class, "ship_") {
			return parseShip(name, class, node, lr)
		}
		if fn, ok := macroParsers[class]; ok {
			return fn(name, class, node, lr)
		}

		logrus.Errorf("failed to load macro properties: unhandled type %s for %s", class, name)
		return map[string]any{}
	}
}

// rstr resolves a localized template string, trimming whitespace. The
// language was validated at startup, so a resolve error here means a broken
// template; the raw text is better than nothing.
func rstr(lr *lang.Resolver, s string) string {
	out, err := lr.Resolve(s, lang.ResolveOptions{Trim: true})
	if err != nil {
		logrus.Errorf("resolve string %q: %v", s, err)
		return s
	}
	return out
}

func parseShip(_, class string, node *etree.Element, lr *lang.Resolver) map[string]any {
	props := map[string]any{}

	props["name"] = rstr(lr, xmlq.Attr(node, "./identification", "name", ""))
	props["class"] = strings.TrimPrefix(class, "ship_")
	props["missile_storage"] = xmlq.AttrInt(node, "./storage[@missile]", "missile", 0)
	props["hull"] = xmlq.AttrInt(node, "./hull", "max", 0)
	props["purpose"] = xmlq.Attr(node, "./purpose", "primary", "")
	props["type"] = xmlq.Attr(node, "./ship", "type", "")
	props["people"] = xmlq.AttrInt(node, "./people", "capacity", 0)
	props["mass"] = xmlq.AttrFloat(node, "./physics", "mass", 0)
	props["gas_gatherrate"] = xmlq.AttrInt(node, "./gatherrate", "gas", 0)

	inertia := xmlq.Attrs(node, "./physics/inertia")
	props["inertia_pitch"] = xmlq.MapFloat(inertia, "pitch", 0)
	props["inertia_yaw"] = xmlq.MapFloat(inertia, "yaw", 0)
	props["inertia_roll"] = xmlq.MapFloat(inertia, "roll", 0)

	addDrag(props, node)

	return props
}

// addDrag extracts the shared physics drag attributes.
func addDrag(props map[string]any, node *etree.Element) {
	drag := xmlq.Attrs(node, "./physics/drag")
	props["drag_forward"] = xmlq.MapFloat(drag, "forward", 0)
	props["drag_reverse"] = xmlq.MapFloat(drag, "reverse", 0)
	props["drag_horizontal"] = xmlq.MapFloat(drag, "horizontal", 0)
	props["drag_vertical"] = xmlq.MapFloat(drag, "vertical", 0)
	props["drag_pitch"] = xmlq.MapFloat(drag, "pitch", 0)
	props["drag_yaw"] = xmlq.MapFloat(drag, "yaw", 0)
	props["drag_roll"] = xmlq.MapFloat(drag, "roll", 0)
}

// addHull extracts the shared equipment hull attributes.
func addHull(props map[string]any, node *etree.Element) {
	hull := xmlq.Attrs(node, "./hull")
	props["hull"] = xmlq.MapInt(hull, "max", -1)
	props["hull_integrated"] = xmlq.MapInt(hull, "integrated", 0)
	props["hull_threshold"] = xmlq.MapFloat(hull, "threshold", 0)
}

// addIdentification extracts the localized identification attributes.
func addIdentification(props map[string]any, node *etree.Element, lr *lang.Resolver) {
	ident := xmlq.Attrs(node, "./identification")
	props["name"] = rstr(lr, xmlq.MapStr(ident, "name", ""))
	props["makerrace"] = xmlq.MapStr(ident, "makerrace", "")
	props["description"] = rstr(lr, xmlq.MapStr(ident, "description", ""))
}

func parseSpacesuit(_, _ string, node *etree.Element, lr *lang.Resolver) map[string]any {
	props := map[string]any{}

	props["name"] = rstr(lr, xmlq.Attr(node, "./identification", "name", ""))
	props["hull"] = xmlq.AttrInt(node, "./hull", "max", 0)
	props["mass"] = xmlq.AttrFloat(node, "./physics", "mass", 0)

	oxygen := xmlq.Attrs(node, "./oxygen")
	props["oxygen_maxtime"] = xmlq.MapInt(oxygen, "maxtime", 0)
	props["oxygen_warningtime"] = xmlq.MapInt(oxygen, "warningtime", 0)

	return props
}

func parseStorage(_, _ string, node *etree.Element, _ *lang.Resolver) map[string]any {
	cargo := xmlq.Attrs(node, "./cargo")
	return map[string]any{
		"cargobay":     xmlq.MapInt(cargo, "max", 0),
		"storage_type": xmlq.MapStr(cargo, "tags", ""),
	}
}

func parseEngine(_, _ string, node *etree.Element, lr *lang.Resolver) map[string]any {
	props := map[string]any{}
	addIdentification(props, node, lr)

	boost := xmlq.Attrs(node, "./boost")
	props["boost_duration"] = xmlq.MapFloat(boost, "duration", 0)
	props["boost_thrust"] = xmlq.MapFloat(boost, "thrust", 0)
	props["boost_release"] = xmlq.MapFloat(boost, "release", 0)
	props["boost_attack"] = xmlq.MapFloat(boost, "attack", 0)

	travel := xmlq.Attrs(node, "./travel")
	props["travel_charge"] = xmlq.MapFloat(travel, "charge", 0)
	props["travel_attack"] = xmlq.MapFloat(travel, "attack", 0)
	props["travel_thrust"] = xmlq.MapFloat(travel, "thrust", 0)
	props["travel_release"] = xmlq.MapFloat(travel, "release", 0)

	thrust := xmlq.Attrs(node, "./thrust")
	props["thrust_forward"] = xmlq.MapFloat(thrust, "forward", 0)
	props["thrust_reverse"] = xmlq.MapFloat(thrust, "reverse", 0)
	props["thrust_strafe"] = xmlq.MapFloat(thrust, "strafe", 0)
	props["thrust_pitch"] = xmlq.MapFloat(thrust, "pitch", 0)
	props["thrust_yaw"] = xmlq.MapFloat(thrust, "yaw", 0)
	props["thrust_roll"] = xmlq.MapFloat(thrust, "roll", 0)

	angular := xmlq.Attrs(node, "./angular")
	props["angular_pitch"] = xmlq.MapFloat(angular, "pitch", 0)
	props["angular_roll"] = xmlq.MapFloat(angular, "roll", 0)

	addHull(props, node)

	return props
}

func parseDockingbay(_, _ string, node *etree.Element, lr *lang.Resolver) map[string]any {
	props := map[string]any{}

	ident := xmlq.Attrs(node, "./identification")
	props["name"] = rstr(lr, xmlq.MapStr(ident, "name", ""))
	props["description"] = rstr(lr, xmlq.MapStr(ident, "description", ""))

	props["docksize"] = xmlq.Attr(node, "./docksize", "tags", "")

	dock := xmlq.Attrs(node, "./dock")
	props["dock_external"] = xmlq.MapInt(dock, "external", 0)
	props["dock_capacity"] = xmlq.MapInt(dock, "capacity", 1)
	props["dock_allow"] = xmlq.MapInt(dock, "allow", 1)
	props["dock_storage"] = xmlq.MapInt(dock, "storage", 0)

	return props
}

func parseDockarea(_, _ string, node *etree.Element, lr *lang.Resolver) map[string]any {
	props := map[string]any{}

	ident := xmlq.Attrs(node, "./identification")
	props["name"] = rstr(lr, xmlq.MapStr(ident, "name", ""))
	props["description"] = rstr(lr, xmlq.MapStr(ident, "description", ""))

	return props
}

func parseShieldGenerator(_, _ string, node *etree.Element, lr *lang.Resolver) map[string]any {
	props := map[string]any{}
	addIdentification(props, node, lr)

	recharge := xmlq.Attrs(node, "./recharge")
	props["capacity"] = xmlq.MapInt(recharge, "max", 0)
	props["recharge_rate"] = xmlq.MapFloat(recharge, "rate", 0)
	props["recharge_delay"] = xmlq.MapFloat(recharge, "delay", 0)

	addHull(props, node)

	return props
}

func parseWeapon(_, _ string, node *etree.Element, lr *lang.Resolver) map[string]any {
	props := map[string]any{}
	addIdentification(props, node, lr)

	props["bullet_class"] = xmlq.Attr(node, "./bullet", "class", "")

	heat := xmlq.Attrs(node, "./heat")
	props["heat_overheat"] = xmlq.MapInt(heat, "overheat", 0)
	props["heat_cooldelay"] = xmlq.MapFloat(heat, "cooldelay", 0)
	props["heat_coolrate"] = xmlq.MapInt(heat, "coolrate", 0)
	props["heat_reenable"] = xmlq.MapInt(heat, "reenable", 0)

	props["rotation_speed"] = xmlq.AttrFloat(node, "./rotationspeed", "max", 0)
	props["rotation_accel"] = xmlq.AttrFloat(node, "./rotationacceleration", "max", 0)

	reload := xmlq.Attrs(node, "./reload")
	props["reload_rate"] = xmlq.MapFloat(reload, "rate", 0)
	props["reload_time"] = xmlq.MapFloat(reload, "time", 0)

	zoom := xmlq.Attrs(node, "./zoom")
	props["zoom_factor"] = xmlq.MapFloat(zoom, "factor", 0)
	props["zoom_time"] = xmlq.MapFloat(zoom, "time", 0)
	props["zoom_delay"] = xmlq.MapFloat(zoom, "delay", 0)

	addHull(props, node)
	hull := xmlq.Attrs(node, "./hull")
	props["hull_hittable"] = xmlq.MapInt(hull, "hittable", 1)

	return props
}

func parseBullet(_, _ string, node *etree.Element, _ *lang.Resolver) map[string]any {
	props := map[string]any{}

	bullet := xmlq.Attrs(node, "./bullet")
	props["speed"] = xmlq.MapInt(bullet, "speed", 0)
	props["lifetime"] = xmlq.MapFloat(bullet, "lifetime", 0)
	props["range"] = xmlq.MapInt(bullet, "range", 0)
	props["amount"] = xmlq.MapInt(bullet, "amount", 0)
	props["barrelamount"] = xmlq.MapInt(bullet, "barrelamount", 0)
	props["timediff"] = xmlq.MapFloat(bullet, "timediff", 0)
	props["angle"] = xmlq.MapFloat(bullet, "angle", 0)
	props["maxhits"] = xmlq.MapInt(bullet, "maxhits", 0)
	props["ricochet"] = xmlq.MapFloat(bullet, "ricochet", 0)
	props["restitution"] = xmlq.MapFloat(bullet, "restitution", 0)
	props["scale"] = xmlq.MapInt(bullet, "scale", 0)
	props["attach"] = xmlq.MapInt(bullet, "attach", 0)
	props["chargetime"] = xmlq.MapFloat(bullet, "chargetime", 0)

	heat := xmlq.Attrs(node, "./heat")
	props["heat"] = xmlq.MapInt(heat, "value", 0)
	props["heat_initial"] = xmlq.MapInt(heat, "initial", 0)

	reload := xmlq.Attrs(node, "./reload")
	props["reload_rate"] = xmlq.MapFloat(reload, "rate", 0)
	props["reload_time"] = xmlq.MapFloat(reload, "time", 0)

	damage := xmlq.Attrs(node, "./damage")
	dmgVal := xmlq.MapInt(damage, "value", 0)
	props["dmg_hull"] = xmlq.MapInt(damage, "hull", dmgVal)
	props["dmg_shields"] = xmlq.MapInt(damage, "shield", dmgVal)
	props["dmg_min"] = xmlq.MapInt(damage, "min", -1)
	props["dmg_max"] = xmlq.MapInt(damage, "max", -1)
	props["dmg_repair"] = xmlq.MapInt(damage, "repair", 0)
	props["dmg_delay"] = xmlq.MapInt(damage, "delay", 0)
	props["dmg_mining_mult"] = xmlq.AttrInt(node, "./damage/multiplier[@mining]", "mining", 1)

	return props
}

func parseMissileLauncher(_, _ string, node *etree.Element, lr *lang.Resolver) map[string]any {
	props := map[string]any{}
	addIdentification(props, node, lr)

	props["bullet_class"] = xmlq.Attr(node, "./bullet", "class", "")
	props["rotation_speed"] = xmlq.AttrFloat(node, "./rotationspeed", "max", 0)
	props["capacity"] = xmlq.AttrInt(node, "./storage", "capacity", 0)
	props["ammunition"] = xmlq.Attr(node, "./ammunition", "tags", "")

	addHull(props, node)
	hull := xmlq.Attrs(node, "./hull")
	props["hull_hittable"] = xmlq.MapInt(hull, "hittable", 1)

	return props
}

func parseMissile(_, _ string, node *etree.Element, lr *lang.Resolver) map[string]any {
	props := map[string]any{}
	addIdentification(props, node, lr)

	missile := xmlq.Attrs(node, "./missile")
	props["amount"] = xmlq.MapInt(missile, "amount", 1)
	props["barrelamount"] = xmlq.MapInt(missile, "barrelamount", 1)
	props["lifetime"] = xmlq.MapFloat(missile, "lifetime", 0)
	props["range"] = xmlq.MapInt(missile, "range", 0)
	props["retarget"] = xmlq.MapInt(missile, "retarget", 0)
	props["guided"] = xmlq.MapInt(missile, "guided", 0)
	props["distribute"] = xmlq.MapInt(missile, "distribute", 0)

	explDmg := xmlq.Attrs(node, "./explosiondamage")
	explVal := xmlq.MapInt(explDmg, "value", 0)
	props["damage_hull"] = xmlq.MapInt(explDmg, "hull", explVal)
	props["damage_shield"] = xmlq.MapInt(explDmg, "shield", explVal)

	props["reload_time"] = xmlq.AttrFloat(node, "./reload", "time", 0)
	props["hull"] = xmlq.AttrInt(node, "./hull", "max", 0)
	props["countermeasure_resilience"] = xmlq.AttrFloat(node, "./countermeasure", "resilience", -1)

	lock := xmlq.Attrs(node, "./lock")
	props["lock_time"] = xmlq.MapInt(lock, "time", 0)
	props["lock_range"] = xmlq.MapInt(lock, "range", -1)
	props["lock_angle"] = xmlq.MapFloat(lock, "angle", -1)

	props["mass"] = xmlq.AttrFloat(node, "./physics", "mass", 0)

	inertia := xmlq.Attrs(node, "./physics/inertia")
	props["inertia_pitch"] = xmlq.MapFloat(inertia, "pitch", 0)
	props["inertia_yaw"] = xmlq.MapFloat(inertia, "yaw", 0)
	props["inertia_roll"] = xmlq.MapFloat(inertia, "roll", 0)

	addDrag(props, node)

	return props
}
