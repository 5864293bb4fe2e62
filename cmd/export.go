package cmd

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bno1/X4FProjector/internal/export"
	"github.com/bno1/X4FProjector/internal/loaders"
	"github.com/bno1/X4FProjector/internal/macro"
	"github.com/bno1/X4FProjector/internal/xmlq"
)

var (
	exportDir    string
	exportFormat string
)

// exporters maps object kinds to their export backends. Wares are handled
// separately because they do not live in the macro database.
var exporters = map[string]func(*macro.DB, string, export.Format) error{
	"ships":            export.Ships,
	"shields":          export.Shields,
	"engines":          export.Engines,
	"weapons":          export.Weapons,
	"missilelaunchers": export.MissileLaunchers,
}

func init() {
	exportCmd.Flags().StringVarP(&exportDir, "dir", "d", "", "Directory to export game data to (default: current directory)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: csv, json, yaml or sqlite (default: csv)")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [objects...]",
	Short: "Export data about game objects",
	Long: `Export loads the selected object kinds from the base game and every
installed extension, resolves the references between them and writes one
output file per kind. Objects may be any of: all, engines, missilelaunchers,
shields, ships, wares, weapons.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		objects, err := selectObjects(args)
		if err != nil {
			return err
		}

		format, err := export.ParseFormat(exportFormat)
		if err != nil {
			return err
		}

		sess, err := newSession()
		if err != nil {
			return err
		}

		db := macro.NewDB(sess.loader)
		db.SetMacroParser(loaders.MacroParser(sess.lang))
		db.SetComponentParser(loaders.ComponentParser())

		wares := map[string]map[string]any{}

		// Pass over the base game first, then every extension, resolving
		// references after each pass so extension macros can point at base
		// game assets.
		for _, extName := range append([]string{""}, sess.loader.Extensions()...) {
			for _, obj := range objects {
				if obj == "wares" {
					if err := loadWares(sess, extName, wares); err != nil {
						return err
					}
					continue
				}

				rep := &macro.Report{}
				if err := loaders.Objects[obj](sess.loader, db, extName, rep); err != nil {
					return err
				}
				logProblems(obj, extName, rep)
			}

			ok, rep := db.ResolveDependencies()
			if !ok {
				logProblems("resolve", extName, rep)
			}
		}

		for _, obj := range objects {
			dest := exportPath(obj, format)
			logrus.Infof("exporting %s to %s", obj, dest)

			if obj == "wares" {
				err = export.Wares(wares, dest, format)
			} else {
				err = exporters[obj](db, dest, format)
			}
			if err != nil {
				return fmt.Errorf("export %s: %w", obj, err)
			}
		}

		return nil
	},
}

// selectObjects normalizes and validates the object kinds given on the
// command line. No arguments or "all" selects everything.
func selectObjects(args []string) ([]string, error) {
	set := map[string]struct{}{}
	for _, arg := range args {
		set[strings.ToLower(strings.TrimSpace(arg))] = struct{}{}
	}

	if _, ok := set["all"]; ok || len(set) == 0 {
		return []string{"engines", "missilelaunchers", "shields", "ships", "wares", "weapons"}, nil
	}

	objects := make([]string, 0, len(set))
	for obj := range set {
		if _, ok := exporters[obj]; !ok && obj != "wares" {
			return nil, fmt.Errorf("unknown object type %q", obj)
		}
		objects = append(objects, obj)
	}
	sort.Strings(objects)
	return objects, nil
}

// exportPath places one object kind's output under the export directory.
// SQLite output shares a single database file, one table per kind.
func exportPath(obj string, format export.Format) string {
	name := obj + "." + format.Extension()
	if format == export.FormatSQLite {
		name = "x4data." + format.Extension()
	}
	return filepath.Join(exportDir, name)
}

// loadWares merges one game tree's wares into the accumulated map. The base
// game must have a wares file; extensions often have none.
func loadWares(sess *session, extName string, wares map[string]map[string]any) error {
	loaded, err := loaders.LoadWares(sess.loader, sess.lang, extName)
	if err != nil {
		if extName != "" && !sess.loader.Exists(xmlq.PathInExtension("libraries/wares.xml", extName)) {
			logrus.Debugf("extension %s ships no wares file", extName)
			return nil
		}
		return err
	}

	for id, props := range loaded {
		wares[id] = props
	}
	return nil
}

func logProblems(what, extName string, rep *macro.Report) {
	if extName == "" {
		extName = "base game"
	}
	for _, p := range rep.Problems {
		logrus.Warnf("%s (%s): %s", what, extName, p)
	}
}
