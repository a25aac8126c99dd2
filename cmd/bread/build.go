package main

import "flag"

func cmdBuild(args []string) error {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}
	image, err := compile(cfg)
	if err != nil {
		return err
	}
	if err := writeImage(cfg.Build.OutputImage, image); err != nil {
		return err
	}
	ok("Built %s (%d bytes)", cfg.Build.OutputImage, len(image))
	return nil
}
