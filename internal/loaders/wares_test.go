package loaders

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bno1/X4FProjector/internal/fileloader"
)

const testWaresXML = `<wares>
  <ware id="energycells" name="{10,20}" transport="container" volume="1" tags="economy stationbuilding">
    <price min="10" average="16" max="22"/>
    <production time="60" amount="175" method="default" name="{10,20}">
      <primary>
        <ware ware="water" amount="50"/>
      </primary>
    </production>
    <owner faction="argon"/>
    <owner faction="teladi"/>
  </ware>
  <ware id="spaceweed" name="{10,20}" transport="container" volume="3" illegal="argon paranid">
    <price min="50" average="75" max="100"/>
    <restriction licence="smuggling"/>
  </ware>
</wares>`

func TestLoadWares(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "libraries/wares.xml", []byte(testWaresXML), 0o644))

	wares, err := LoadWares(fileloader.NewFSLoader(fs), newTestLang(t), "")
	require.NoError(t, err)
	require.Len(t, wares, 2)

	ec := wares["energycells"]
	require.NotNil(t, ec)
	assert.Equal(t, "Nemesis", ec["name"])
	assert.Equal(t, "container", ec["group"])
	assert.Equal(t, int64(1), ec["volume"])
	assert.Equal(t, []string{"economy", "stationbuilding"}, ec["tags"])
	assert.Equal(t, int64(10), ec["price_min"])
	assert.Equal(t, int64(16), ec["price_avg"])
	assert.Equal(t, int64(22), ec["price_max"])
	assert.Equal(t, []string{"argon", "teladi"}, ec["owners"])

	prods := ec["production"].([]map[string]any)
	require.Len(t, prods, 1)
	assert.Equal(t, float64(60), prods[0]["time"])
	assert.Equal(t, int64(175), prods[0]["amount"])
	assert.Equal(t, "default", prods[0]["method"])
	assert.Equal(t, map[string]int64{"water": 50}, prods[0]["consumption"])

	sw := wares["spaceweed"]
	require.NotNil(t, sw)
	assert.Equal(t, []string{"argon", "paranid"}, sw["illegal"])
	assert.Equal(t, "smuggling", sw["licence"])
	assert.Empty(t, sw["production"])
}

func TestLoadWares_ExtensionPath(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "extensions/split/libraries/wares.xml",
		[]byte(`<wares><ware id="extware" name="plain" volume="2"/></wares>`), 0o644))

	loader := fileloader.NewFSLoader(fs)

	wares, err := LoadWares(loader, newTestLang(t), "split")
	require.NoError(t, err)
	require.Contains(t, wares, "extware")
	assert.Equal(t, int64(2), wares["extware"]["volume"])

	// Base game tree has no wares file at all.
	_, err = LoadWares(loader, newTestLang(t), "")
	assert.Error(t, err)
}
