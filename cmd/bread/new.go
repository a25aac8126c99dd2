package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/bloofirephoenix/BreadLang/config"
)

const scaffoldMain = `main:
    HLT
`

func cmdNew(args []string) error {
	fs := flag.NewFlagSet("new", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: bread new <project-directory>")
	}
	dir := fs.Arg(0)

	if _, err := os.Stat(dir); err == nil {
		return errors.Errorf("%s already exists", dir)
	}

	srcDir := filepath.Join(dir, "src")
	if err := os.MkdirAll(srcDir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create project directory")
	}

	cfg := config.DefaultConfig()
	if err := config.Save(filepath.Join(dir, "bread.toml"), cfg); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, cfg.Build.EntryFile), []byte(scaffoldMain), 0o644); err != nil {
		return errors.Wrap(err, "failed to write scaffold main.bread")
	}

	ok("Created new BreadLang project in %s", dir)
	return nil
}
