package export

import (
	"github.com/bno1/X4FProjector/internal/macro"
)

var engineCols = []string{
	"name",
	"makerrace",
	"size",
	"thrust_forward",
	"thrust_reverse",
	"thrust_strafe",
	"thrust_pitch",
	"thrust_yaw",
	"thrust_roll",
	"boost_thrust",
	"boost_duration",
	"boost_attack",
	"boost_release",
	"travel_thrust",
	"travel_charge",
	"travel_attack",
	"travel_release",
	"angular_pitch",
	"angular_roll",
	"hull",
}

var shieldCols = []string{
	"name",
	"makerrace",
	"size",
	"capacity",
	"recharge_rate",
	"recharge_delay",
	"hull",
	"hull_integrated",
	"hull_threshold",
}

var weaponCols = []string{
	"name",
	"makerrace",
	"size",
	"class",
	"bullet_class",
	"rotation_speed",
	"reload_rate",
	"reload_time",
	"heat_overheat",
	"heat_coolrate",
	"heat_cooldelay",
	"bullet_dmg_hull",
	"bullet_dmg_shields",
	"bullet_speed",
	"bullet_range",
	"bullet_amount",
	"bullet_reload_rate",
	"bullet_reload_time",
	"hull",
}

var missileLauncherCols = []string{
	"name",
	"makerrace",
	"size",
	"class",
	"bullet_class",
	"capacity",
	"ammunition",
	"rotation_speed",
	"reload_rate",
	"reload_time",
	"hull",
}

// collectByTypes flattens the macros of the given classes into exportable
// property maps. The macro class is kept under "class" so that merged kinds
// (guns and turrets, launchers and missile turrets) stay distinguishable.
func collectByTypes(db *macro.DB, types ...string) map[string]map[string]any {
	out := map[string]map[string]any{}
	for _, typ := range types {
		for _, id := range db.MacrosByType[typ] {
			m := db.Macros[id]
			props := make(map[string]any, len(m.Properties)+1)
			for k, v := range m.Properties {
				props[k] = v
			}
			props["class"] = m.Type
			out[id] = props
		}
	}
	return out
}

// mergeBullet copies the referenced bullet macro's properties into each
// weapon under "bullet_"-prefixed keys. Weapon stats without the projectile
// they fire are meaningless.
func mergeBullet(db *macro.DB, weapons map[string]map[string]any) {
	for _, props := range weapons {
		ref, _ := props["bullet_class"].(string)
		bullet, ok := db.Macros[ref]
		if !ok {
			continue
		}
		for k, v := range bullet.Properties {
			props["bullet_"+k] = v
		}
	}
}

// Engines exports every loaded engine and thruster.
func Engines(db *macro.DB, dest string, format Format) error {
	engines := collectByTypes(db, "engine")
	return write(dest, format, "engines", func() [][]any {
		return tabulate(engines, engineCols)
	}, engines)
}

// Shields exports every loaded shield generator.
func Shields(db *macro.DB, dest string, format Format) error {
	shields := collectByTypes(db, "shieldgenerator")
	return write(dest, format, "shields", func() [][]any {
		return tabulate(shields, shieldCols)
	}, shields)
}

// Weapons exports every loaded gun, turret and bomb launcher, with the
// properties of the bullet each one fires folded in.
func Weapons(db *macro.DB, dest string, format Format) error {
	weapons := collectByTypes(db, "weapon", "turret", "bomblauncher")
	mergeBullet(db, weapons)
	return write(dest, format, "weapons", func() [][]any {
		return tabulate(weapons, weaponCols)
	}, weapons)
}

// MissileLaunchers exports every loaded missile launcher and missile turret,
// with the properties of the fired missile folded in.
func MissileLaunchers(db *macro.DB, dest string, format Format) error {
	launchers := collectByTypes(db, "missilelauncher", "missileturret")
	mergeBullet(db, launchers)
	return write(dest, format, "missilelaunchers", func() [][]any {
		return tabulate(launchers, missileLauncherCols)
	}, launchers)
}
