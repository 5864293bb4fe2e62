package loaders

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bno1/X4FProjector/internal/fileloader"
	"github.com/bno1/X4FProjector/internal/macro"
)

const shipMacroXML = `<macros>
  <macro name="ship_arg_s_test_01_macro" class="ship_s">
    <properties><hull max="1000"/></properties>
  </macro>
</macros>`

const engineMacroXML = `<macros>
  <macro name="engine_arg_s_test_01_macro" class="engine">
    <properties><hull max="100"/></properties>
  </macro>
</macros>`

func TestLoadShips(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs,
		"assets/units/size_s/macros/ship_arg_s_test_01_macro.xml", []byte(shipMacroXML), 0o644))
	// Non-ship files in the same directory are skipped.
	require.NoError(t, util.WriteFile(fs,
		"assets/units/size_s/macros/cockpit_gen_01_macro.xml", []byte("<macros/>"), 0o644))

	loader := fileloader.NewFSLoader(fs)
	db := macro.NewDBWithResolver(loader, macro.NewPatternResolver())

	rep := &macro.Report{}
	require.NoError(t, LoadShips(loader, db, "", rep))
	assert.True(t, rep.OK(), "problems: %v", rep.Problems)

	assert.Contains(t, db.Macros, "ship_arg_s_test_01_macro")
	assert.Equal(t, []string{"ship_arg_s_test_01_macro"}, db.MacrosByType["ship_s"])
}

func TestLoadEngines_FiltersByPrefix(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs,
		"assets/props/Engines/macros/engine_arg_s_test_01_macro.xml", []byte(engineMacroXML), 0o644))
	require.NoError(t, util.WriteFile(fs,
		"assets/props/Engines/macros/generic_engine_fx_macro.xml", []byte("<macros/>"), 0o644))

	loader := fileloader.NewFSLoader(fs)
	db := macro.NewDBWithResolver(loader, macro.NewPatternResolver())

	rep := &macro.Report{}
	require.NoError(t, LoadEngines(loader, db, "", rep))
	assert.True(t, rep.OK(), "problems: %v", rep.Problems)
	assert.Len(t, db.Macros, 1)
}

func TestLoadWeapons_FiltersByPrefix(t *testing.T) {
	fs := memfs.New()
	write := func(path, name, class string) {
		xml := `<macros><macro name="` + name + `" class="` + class + `"><properties/></macro></macros>`
		require.NoError(t, util.WriteFile(fs, path+"/"+name+".xml", []byte(xml), 0o644))
	}
	write("assets/props/WeaponSystems/standard/macros", "weapon_gen_s_laser_01_mk1_macro", "weapon")
	write("assets/props/WeaponSystems/spacesuit/macros", "spacesuit_gen_laser_01_mk1_macro", "weapon")
	write("assets/fx/weaponFx/macros", "bullet_gen_s_laser_01_mk1_macro", "bullet")
	// Part and effect macros sharing the directories are skipped.
	write("assets/props/WeaponSystems/standard/macros", "anim_weaponpart_01_macro", "part")
	write("assets/props/WeaponSystems/spacesuit/macros", "spacesuit_gen_bomblauncher_01_mk1_macro", "missilelauncher")
	write("assets/fx/weaponFx/macros", "fx_impact_01_macro", "effect")

	loader := fileloader.NewFSLoader(fs)
	db := macro.NewDBWithResolver(loader, macro.NewPatternResolver())

	rep := &macro.Report{}
	require.NoError(t, LoadWeapons(loader, db, "", rep))
	assert.True(t, rep.OK(), "problems: %v", rep.Problems)

	assert.Len(t, db.Macros, 3)
	assert.Contains(t, db.Macros, "weapon_gen_s_laser_01_mk1_macro")
	assert.Contains(t, db.Macros, "spacesuit_gen_laser_01_mk1_macro")
	assert.Contains(t, db.Macros, "bullet_gen_s_laser_01_mk1_macro")
}

func TestLoadMissileLaunchers_FiltersByPrefix(t *testing.T) {
	fs := memfs.New()
	write := func(path, name, class string) {
		xml := `<macros><macro name="` + name + `" class="` + class + `"><properties/></macro></macros>`
		require.NoError(t, util.WriteFile(fs, path+"/"+name+".xml", []byte(xml), 0o644))
	}
	write("assets/props/WeaponSystems/dumbfire/macros", "weapon_gen_s_dumbfire_01_mk1_macro", "missilelauncher")
	write("assets/props/WeaponSystems/spacesuit/macros", "spacesuit_gen_bomblauncher_01_mk1_macro", "missilelauncher")
	write("assets/props/WeaponSystems/missile/macros", "missile_gen_s_dumbfire_01_macro", "missile")
	// Spacesuit lasers and effect macros belong to other loaders.
	write("assets/props/WeaponSystems/spacesuit/macros", "spacesuit_gen_laser_01_mk1_macro", "weapon")
	write("assets/fx/weaponFx/macros", "bullet_gen_s_laser_01_mk1_macro", "bullet")

	loader := fileloader.NewFSLoader(fs)
	db := macro.NewDBWithResolver(loader, macro.NewPatternResolver())

	rep := &macro.Report{}
	require.NoError(t, LoadMissileLaunchers(loader, db, "", rep))
	assert.True(t, rep.OK(), "problems: %v", rep.Problems)

	assert.Len(t, db.Macros, 3)
	assert.Contains(t, db.Macros, "weapon_gen_s_dumbfire_01_mk1_macro")
	assert.Contains(t, db.Macros, "spacesuit_gen_bomblauncher_01_mk1_macro")
	assert.Contains(t, db.Macros, "missile_gen_s_dumbfire_01_macro")
}

func TestObjectLoaders_TolerateMissingDirectories(t *testing.T) {
	loader := fileloader.NewFSLoader(memfs.New())
	db := macro.NewDBWithResolver(loader, macro.NewPatternResolver())

	rep := &macro.Report{}
	for name, load := range Objects {
		assert.NoError(t, load(loader, db, "", rep), name)
	}
	assert.Empty(t, db.Macros)
}

func TestLoadShips_ExtensionTree(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs,
		"extensions/split/assets/units/size_s/macros/ship_spl_s_test_01_macro.xml",
		[]byte(`<macros><macro name="ship_spl_s_test_01_macro" class="ship_s"><properties/></macro></macros>`),
		0o644))

	loader := fileloader.NewFSLoader(fs)
	db := macro.NewDBWithResolver(loader, macro.NewPatternResolver())

	rep := &macro.Report{}
	require.NoError(t, LoadShips(loader, db, "split", rep))
	assert.Contains(t, db.Macros, "ship_spl_s_test_01_macro")
}
