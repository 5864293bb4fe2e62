package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bno1/X4FProjector/internal/macro"
)

func testWeaponDB() *macro.DB {
	return &macro.DB{
		Macros: map[string]*macro.Macro{
			"weapon_test_macro": {
				Name: "weapon_test_macro",
				Type: "weapon",
				Properties: map[string]any{
					"name":         "Test Gun",
					"bullet_class": "bullet_test_macro",
				},
			},
			"turret_test_macro": {
				Name: "turret_test_macro",
				Type: "turret",
				Properties: map[string]any{
					"name":         "Test Turret",
					"bullet_class": "bullet_missing_macro",
				},
			},
			"bullet_test_macro": {
				Name: "bullet_test_macro",
				Type: "bullet",
				Properties: map[string]any{
					"dmg_hull": int64(120),
					"speed":    int64(2000),
				},
			},
		},
		MacrosByType: map[string][]string{
			"weapon": {"weapon_test_macro"},
			"turret": {"turret_test_macro"},
			"bullet": {"bullet_test_macro"},
		},
	}
}

func TestCollectByTypes_MergesKindsAndKeepsClass(t *testing.T) {
	weapons := collectByTypes(testWeaponDB(), "weapon", "turret", "bomblauncher")
	require.Len(t, weapons, 2)

	assert.Equal(t, "weapon", weapons["weapon_test_macro"]["class"])
	assert.Equal(t, "turret", weapons["turret_test_macro"]["class"])
}

func TestMergeBullet(t *testing.T) {
	db := testWeaponDB()
	weapons := collectByTypes(db, "weapon", "turret")
	mergeBullet(db, weapons)

	gun := weapons["weapon_test_macro"]
	assert.Equal(t, int64(120), gun["bullet_dmg_hull"])
	assert.Equal(t, int64(2000), gun["bullet_speed"])

	// A missing bullet macro leaves the weapon untouched.
	turret := weapons["turret_test_macro"]
	assert.NotContains(t, turret, "bullet_dmg_hull")
}
