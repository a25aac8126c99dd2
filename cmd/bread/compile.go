package main

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/bloofirephoenix/BreadLang/config"
	"github.com/bloofirephoenix/BreadLang/diag"
	"github.com/bloofirephoenix/BreadLang/emit"
	"github.com/bloofirephoenix/BreadLang/layout"
	"github.com/bloofirephoenix/BreadLang/parser"
)

// loadProjectConfig reads bread.toml from the current directory, or
// returns the fixed src/main.bread → bin/program.crumbs defaults if
// none is present.
func loadProjectConfig() (*config.Config, error) {
	return config.Load("bread.toml")
}

// compile runs the full lex/parse/layout/emit pipeline for cfg's entry
// file, printing every diagnostic along the way, and returns the
// emitted image.
func compile(cfg *config.Config) ([]byte, error) {
	prog, bag := parser.Parse(cfg.Build.EntryFile, parser.OSReader)
	reportDiagnostics(bag)
	if bag.HasCritical() {
		return nil, errors.New("compilation aborted due to a critical error")
	}

	layout.Resolve(prog)

	image, err := emit.Program(prog)
	if err != nil {
		return nil, errors.Wrap(err, "emission failed")
	}
	return image, nil
}

func reportDiagnostics(bag *diag.Bag) {
	for _, d := range bag.Items() {
		if d.IsCritical() {
			errColor.Fprintf(os.Stderr, "[Error] %s\n", d)
		} else {
			warn("%s", d)
		}
	}
}

// writeImage writes image to path, creating any missing parent
// directories (bin/ does not exist until the first build).
func writeImage(path string, image []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create output directory for %s", path)
	}
	if err := os.WriteFile(path, image, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
