package loaders

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/bno1/X4FProjector/internal/fileloader"
	"github.com/bno1/X4FProjector/internal/macro"
	"github.com/bno1/X4FProjector/internal/xmlq"
)

// ObjectLoader feeds the macro files of one object kind from a game tree (or
// one of its extensions) into the macro database. Connections recorded along
// the way are resolved later by the caller.
type ObjectLoader func(floader fileloader.Loader, db *macro.DB, extName string, rep *macro.Report) error

// Objects maps the exportable object kinds to their loaders. Wares are not
// macro-based and are handled separately.
var Objects = map[string]ObjectLoader{
	"ships":            LoadShips,
	"shields":          LoadShields,
	"engines":          LoadEngines,
	"weapons":          LoadWeapons,
	"missilelaunchers": LoadMissileLaunchers,
}

// shipSizes are the size classes ships come in, smallest first.
var shipSizes = []string{"xs", "s", "m", "l", "xl"}

// loadMacroDir loads every macro file in one game directory, keeping the
// files whose name passes filter (nil accepts everything). A missing
// directory is normal: extensions only ship the asset classes they add.
func loadMacroDir(floader fileloader.Loader, db *macro.DB, dir, extName string, filter func(string) bool, rep *macro.Report) error {
	dir = xmlq.PathInExtension(dir, extName)

	entries, err := floader.List(dir)
	if err != nil {
		logrus.Debugf("no macro directory %s: %v", dir, err)
		return nil
	}

	for _, e := range entries {
		if filter != nil && !filter(e.Name) {
			continue
		}
		if err := db.LoadMacroFile(e.Path, rep); err != nil {
			return fmt.Errorf("load %s: %w", e.Path, err)
		}
	}
	return nil
}

// hasPrefix builds a file name filter for one naming-convention prefix.
func hasPrefix(prefix string) func(string) bool {
	return func(name string) bool {
		return strings.HasPrefix(name, prefix)
	}
}

// hasAnyPrefix builds a file name filter accepting several prefixes.
func hasAnyPrefix(prefixes ...string) func(string) bool {
	return func(name string) bool {
		for _, p := range prefixes {
			if strings.HasPrefix(name, p) {
				return true
			}
		}
		return false
	}
}

// LoadShips loads the ship macros of every size class.
func LoadShips(floader fileloader.Loader, db *macro.DB, extName string, rep *macro.Report) error {
	for _, size := range shipSizes {
		dir := fmt.Sprintf("assets/units/size_%s/macros", size)
		if err := loadMacroDir(floader, db, dir, extName, hasPrefix("ship_"), rep); err != nil {
			return err
		}
	}
	return nil
}

// LoadShields loads the shield generator macros.
func LoadShields(floader fileloader.Loader, db *macro.DB, extName string, rep *macro.Report) error {
	return loadMacroDir(floader, db, "assets/props/SurfaceElements/macros", extName, hasPrefix("shield_"), rep)
}

// LoadEngines loads the engine and thruster macros.
func LoadEngines(floader fileloader.Loader, db *macro.DB, extName string, rep *macro.Report) error {
	filter := func(name string) bool {
		return strings.HasPrefix(name, "engine_") || strings.HasPrefix(name, "thruster_")
	}
	return loadMacroDir(floader, db, "assets/props/Engines/macros", extName, filter, rep)
}

// weaponDirs are the per-family weapon macro directories.
var weaponDirs = []string{
	"assets/props/WeaponSystems/capital/macros",
	"assets/props/WeaponSystems/heavy/macros",
	"assets/props/WeaponSystems/mining/macros",
	"assets/props/WeaponSystems/standard/macros",
	"assets/props/WeaponSystems/spacesuit/macros",
	"assets/props/WeaponSystems/energy/macros",
	"assets/props/WeaponSystems/xref_parts/macros",
}

// LoadWeapons loads gun and turret macros of every weapon family, plus the
// bullet macros their properties reference. The weapon directories also hold
// part and effect macros, so only the weapon naming conventions are loaded.
func LoadWeapons(floader fileloader.Loader, db *macro.DB, extName string, rep *macro.Report) error {
	filter := hasAnyPrefix("weapon_", "turret_", "spacesuit_gen_laser_", "spacesuit_gen_repairweapon_")
	for _, dir := range weaponDirs {
		if err := loadMacroDir(floader, db, dir, extName, filter, rep); err != nil {
			return err
		}
	}
	return loadMacroDir(floader, db, "assets/fx/weaponFx/macros", extName, hasPrefix("bullet_"), rep)
}

// missileLauncherDirs are the per-family missile launcher macro directories.
var missileLauncherDirs = []string{
	"assets/props/WeaponSystems/dumbfire/macros",
	"assets/props/WeaponSystems/guided/macros",
	"assets/props/WeaponSystems/torpedo/macros",
	"assets/props/WeaponSystems/spacesuit/macros",
}

// LoadMissileLaunchers loads launcher macros of every missile family, plus
// the missile and bomb macros they fire.
func LoadMissileLaunchers(floader fileloader.Loader, db *macro.DB, extName string, rep *macro.Report) error {
	filter := hasAnyPrefix("weapon_", "turret_", "spacesuit_gen_bomblauncher_")
	for _, dir := range missileLauncherDirs {
		if err := loadMacroDir(floader, db, dir, extName, filter, rep); err != nil {
			return err
		}
	}
	if err := loadMacroDir(floader, db, "assets/props/WeaponSystems/missile/macros", extName, hasPrefix("missile_"), rep); err != nil {
		return err
	}
	return loadMacroDir(floader, db, "assets/fx/weaponFx/macros", extName, hasPrefix("bomb_"), rep)
}
