package loaders

import (
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bno1/X4FProjector/internal/lang"
)

const testLang = `<language id="44">
 <page id="10">
  <t id="20">Nemesis</t>
  <t id="21"> Sturdy shield (Mk1) </t>
 </page>
</language>`

func newTestLang(t *testing.T) *lang.Resolver {
	t.Helper()
	r := lang.NewResolver()
	require.NoError(t, r.Load("en", strings.NewReader(testLang)))
	return r
}

func parseElem(t *testing.T, xml string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(xml))
	require.NotNil(t, doc.Root())
	return doc.Root()
}

func TestMacroParser_Ship(t *testing.T) {
	props := parseElem(t, `<properties>
	  <identification name="{10,20}"/>
	  <hull max="5000"/>
	  <people capacity="12"/>
	  <purpose primary="fight"/>
	  <ship type="fighter"/>
	  <storage missile="30"/>
	  <gatherrate gas="5"/>
	  <physics mass="100.5">
	    <inertia pitch="1.5" yaw="2.5" roll="3.5"/>
	    <drag forward="4.5" reverse="5.5"/>
	  </physics>
	</properties>`)

	parser := MacroParser(newTestLang(t))
	got := parser("ship_arg_m_test_01_macro", "ship_m", props)

	assert.Equal(t, "Nemesis", got["name"])
	assert.Equal(t, "m", got["class"])
	assert.Equal(t, int64(5000), got["hull"])
	assert.Equal(t, int64(12), got["people"])
	assert.Equal(t, "fight", got["purpose"])
	assert.Equal(t, "fighter", got["type"])
	assert.Equal(t, int64(30), got["missile_storage"])
	assert.Equal(t, int64(5), got["gas_gatherrate"])
	assert.Equal(t, 100.5, got["mass"])
	assert.Equal(t, 1.5, got["inertia_pitch"])
	assert.Equal(t, 4.5, got["drag_forward"])
	assert.Equal(t, 5.5, got["drag_reverse"])
	// Absent attributes fall back to zero, not to a missing key.
	assert.Equal(t, float64(0), got["drag_roll"])
}

func TestMacroParser_ShieldGenerator(t *testing.T) {
	props := parseElem(t, `<properties>
	  <identification name="{10,21}" makerrace="argon" description="{10,21}"/>
	  <recharge max="2000" rate="55.5" delay="1.2"/>
	  <hull max="700" integrated="1" threshold="0.25"/>
	</properties>`)

	parser := MacroParser(newTestLang(t))
	got := parser("shield_arg_m_standard_01_macro", "shieldgenerator", props)

	// Localized strings are trimmed, comments stripped.
	assert.Equal(t, "Sturdy shield", got["name"])
	assert.Equal(t, "argon", got["makerrace"])
	assert.Equal(t, int64(2000), got["capacity"])
	assert.Equal(t, 55.5, got["recharge_rate"])
	assert.Equal(t, 1.2, got["recharge_delay"])
	assert.Equal(t, int64(700), got["hull"])
	assert.Equal(t, int64(1), got["hull_integrated"])
	assert.Equal(t, 0.25, got["hull_threshold"])
}

func TestMacroParser_Engine(t *testing.T) {
	props := parseElem(t, `<properties>
	  <identification name="{10,20}" makerrace="teladi"/>
	  <thrust forward="800" reverse="600" strafe="400" pitch="50" yaw="60" roll="70"/>
	  <boost duration="10" thrust="8"/>
	  <travel charge="2" thrust="11"/>
	  <hull max="450"/>
	</properties>`)

	parser := MacroParser(newTestLang(t))
	got := parser("engine_tel_m_combat_01_macro", "engine", props)

	assert.Equal(t, float64(800), got["thrust_forward"])
	assert.Equal(t, float64(8), got["boost_thrust"])
	assert.Equal(t, float64(10), got["boost_duration"])
	assert.Equal(t, float64(11), got["travel_thrust"])
	assert.Equal(t, int64(450), got["hull"])
}

func TestMacroParser_Bullet(t *testing.T) {
	props := parseElem(t, `<properties>
	  <bullet speed="2000" lifetime="2.5" range="5000" amount="1"/>
	  <reload rate="4"/>
	  <damage value="50" min="10"/>
	</properties>`)

	parser := MacroParser(newTestLang(t))
	got := parser("bullet_gen_test_01_macro", "bullet", props)

	assert.Equal(t, int64(2000), got["speed"])
	assert.Equal(t, 2.5, got["lifetime"])
	assert.Equal(t, float64(4), got["reload_rate"])
	// Hull and shield damage default to the generic damage value.
	assert.Equal(t, int64(50), got["dmg_hull"])
	assert.Equal(t, int64(50), got["dmg_shields"])
	assert.Equal(t, int64(10), got["dmg_min"])
	assert.Equal(t, int64(-1), got["dmg_max"])
}

func TestMacroParser_IgnoredClass(t *testing.T) {
	props := parseElem(t, `<properties><anything/></properties>`)

	parser := MacroParser(newTestLang(t))
	assert.Empty(t, parser("cockpit_gen_01_macro", "cockpit", props))
}

func TestMacroParser_UnknownClass(t *testing.T) {
	props := parseElem(t, `<properties><anything/></properties>`)

	parser := MacroParser(newTestLang(t))
	got := parser("weird_macro", "somethingnew", props)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMacroParser_Storage(t *testing.T) {
	props := parseElem(t, `<properties><cargo max="8000" tags="container solid"/></properties>`)

	parser := MacroParser(newTestLang(t))
	got := parser("storage_arg_m_test_01_macro", "storage", props)

	assert.Equal(t, int64(8000), got["cargobay"])
	assert.Equal(t, "container solid", got["storage_type"])
}
