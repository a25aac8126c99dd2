// Package config loads a BreadLang project's optional bread.toml
// manifest. Absent a manifest, every project uses the fixed
// src/main.bread → bin/program.crumbs layout; the manifest only lets a
// project override those defaults.
//
// Structure and load/save shape follow
// lookbusy1344-arm_emulator/config/config.go: a plain struct with
// toml tags, a DefaultConfig constructor, and a Load that falls back to
// defaults when no file is present.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Config is a BreadLang project manifest.
type Config struct {
	Build struct {
		// EntryFile is the root source file, relative to the project
		// directory. Its "main" subroutine is the program's entry point.
		EntryFile string `toml:"entry_file"`
		// OutputImage is where the emitted byte image is written.
		OutputImage string `toml:"output_image"`
	} `toml:"build"`

	Microcode struct {
		// OutputDir receives the four generated ROM byte-plane files.
		OutputDir string `toml:"output_dir"`
	} `toml:"microcode"`

	Upload struct {
		BaudRate  int `toml:"baud_rate"`
		ChunkSize int `toml:"chunk_size"`
	} `toml:"upload"`
}

// DefaultConfig returns the defaults used when no bread.toml is present.
func DefaultConfig() *Config {
	c := &Config{}
	c.Build.EntryFile = "src/main.bread"
	c.Build.OutputImage = "bin/program.crumbs"
	c.Microcode.OutputDir = "bin/microcode"
	c.Upload.BaudRate = 9600
	c.Upload.ChunkSize = 60
	return c
}

// Load reads bread.toml from the project directory. A missing file is
// not an error: DefaultConfig is returned instead.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	return cfg, nil
}

// Save writes cfg to path as TOML, creating a fresh bread.toml for
// `bread new` to scaffold.
func Save(path string, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return errors.Wrap(err, "failed to encode config")
	}
	return nil
}
