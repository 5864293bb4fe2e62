// Package cmd implements the x4fprojector command line interface.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bno1/X4FProjector/internal/config"
	"github.com/bno1/X4FProjector/internal/fileloader"
	"github.com/bno1/X4FProjector/internal/lang"
)

// langTable maps each language file the game ships to the names users may
// ask for it by. Some of the aliases come from Wikipedia; corrections
// welcome.
var langTable = map[string][]string{
	"t/0001-L007.xml": {"ru", "rus", "russian", "russkij", "russkiy", "русский"},
	"t/0001-L033.xml": {"fr", "fra", "fre", "french", "français"},
	"t/0001-L034.xml": {"es", "sp", "spa", "spanish", "español"},
	"t/0001-L039.xml": {"it", "ita", "italian", "italiano"},
	"t/0001-L044.xml": {"en", "eng", "english"},
	"t/0001-L049.xml": {"ge", "de", "ger", "deu", "german", "deutsch", "deutsche"},
	"t/0001-L055.xml": {"pt", "por", "portuguese", "português"},
	"t/0001-L081.xml": {"ja", "jpn", "japanese", "日本語", "nihongo"},
	"t/0001-L082.xml": {"ko", "kor", "korean", "한국어", "韓國語", "hangugeo"},
	"t/0001-L086.xml": {"zh", "zh-cn", "chi", "chi-cn", "zho", "zho-cn", "chinese", "chinese-cn", "汉语", "hànyǔ"},
	"t/0001-L088.xml": {"zh-tw", "chi-tw", "zho-tw", "chinese-tw", "漢語"},
}

var (
	verbose    bool
	cfgPath    string
	gameRoot   string
	loaderKind string
	language   string
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	pf.StringVar(&cfgPath, "config", config.DefaultPath, "Path to the configuration file")
	pf.StringVarP(&gameRoot, "game-root", "g", "", "Path to the game installation (default: current directory)")
	pf.StringVar(&loaderKind, "file-loader", "", "File loader to use, cat or fs (default: cat)")
	pf.StringVarP(&language, "lang", "l", "", "Language used for names (default: english)")
}

var rootCmd = &cobra.Command{
	Use:   "x4fprojector",
	Short: "Extract and export X4 Foundations game data",
	Long: `x4fprojector reads the data files of an X4 Foundations installation,
either directly from the cat/dat archives or from an extracted tree, and
exports data about ships, equipment and wares to CSV, JSON, YAML or SQLite.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		} else {
			logrus.SetLevel(logrus.WarnLevel)
		}

		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		applyConfig(cfg)
		return nil
	},
}

// applyConfig fills in settings the command line left unset: first from the
// configuration file, then from the built-in defaults.
func applyConfig(cfg *config.Config) {
	pick := func(flag *string, fromCfg, def string) {
		if *flag == "" {
			*flag = fromCfg
		}
		if *flag == "" {
			*flag = def
		}
	}

	pick(&gameRoot, cfg.GameRoot, ".")
	pick(&loaderKind, cfg.FileLoader, "cat")
	pick(&language, cfg.Language, "en")
	pick(&exportDir, cfg.ExportDir, ".")
	pick(&exportFormat, cfg.ExportFormat, "csv")
}

// session holds the game file access and language resolution shared by the
// subcommands.
type session struct {
	loader fileloader.Loader
	lang   *lang.Resolver
}

func newSession() (*session, error) {
	loader, err := buildLoader()
	if err != nil {
		return nil, err
	}

	lr, err := buildLangResolver(loader)
	if err != nil {
		return nil, err
	}

	return &session{loader: loader, lang: lr}, nil
}

func buildLoader() (fileloader.Loader, error) {
	switch strings.ToLower(strings.TrimSpace(loaderKind)) {
	case "cat":
		c := fileloader.NewCatLoader(osfs.New(gameRoot))
		if c.LoadFromGameRoot() == 0 {
			logrus.Warnf("no catalog files found under %s", gameRoot)
		}
		if _, err := c.MountExtensions(); err != nil {
			return nil, fmt.Errorf("mount extensions: %w", err)
		}
		for _, p := range c.Problems() {
			logrus.Warnf("catalog: %s", p)
		}
		return c, nil
	case "fs":
		return fileloader.NewFSLoader(osfs.New(gameRoot)), nil
	}
	return nil, fmt.Errorf("invalid file loader %q", loaderKind)
}

// buildLangResolver loads the language file matching the requested language
// alias.
func buildLangResolver(loader fileloader.Loader) (*lang.Resolver, error) {
	want := strings.ToLower(strings.TrimSpace(language))

	lr := lang.NewResolver()
	for path, aliases := range langTable {
		for _, alias := range aliases {
			if alias != want {
				continue
			}

			f, err := loader.Open(path)
			if err != nil {
				return nil, fmt.Errorf("open language file %s: %w", path, err)
			}
			err = lr.Load(want, f)
			_ = f.Close()
			if err != nil {
				return nil, err
			}
			return lr, nil
		}
	}

	return nil, fmt.Errorf("unknown language %q", language)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
