package export

// wareCols is the tabular column selection for wares. Productions and owners
// stay structured-only.
var wareCols = []string{
	"name",
	"factoryname",
	"group",
	"tags",
	"volume",
	"price_min",
	"price_max",
}

// Wares exports the ware map produced by the ware loader.
func Wares(wares map[string]map[string]any, dest string, format Format) error {
	return write(dest, format, "wares", func() [][]any {
		return tabulate(wares, wareCols)
	}, wares)
}
