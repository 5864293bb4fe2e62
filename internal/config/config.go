// Package config loads the optional HCL configuration file. Everything in it
// can also be given on the command line; flags win over the file.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/hclsimple"
)

// DefaultPath is where Load looks when no explicit path is given.
const DefaultPath = "x4fprojector.hcl"

// Config mirrors the command line defaults. Empty fields mean "not set".
type Config struct {
	// GameRoot is the path to the game installation.
	GameRoot string `hcl:"game_root,optional"`
	// Language selects the language used for names, by any of its aliases.
	Language string `hcl:"language,optional"`
	// FileLoader selects the game file access strategy, "cat" or "fs".
	FileLoader string `hcl:"file_loader,optional"`
	// ExportDir is the directory export files are written to.
	ExportDir string `hcl:"export_dir,optional"`
	// ExportFormat is the default export format.
	ExportFormat string `hcl:"export_format,optional"`
}

// Load reads the configuration file at path. When path is DefaultPath and the
// file does not exist, an empty configuration is returned; an explicitly
// given path must exist.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) && path == DefaultPath {
		return &Config{}, nil
	}

	var cfg Config
	if err := hclsimple.DecodeFile(path, nil, &cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return &cfg, nil
}
