package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bloofirephoenix/BreadLang/interp"
)

func cmdRun(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	debug := fs.Bool("debug", false, "trace each executed instruction")
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

	var opts []interp.Option
	if *debug {
		opts = append(opts, interp.WithDebug(func(line string) {
			fmt.Fprintln(os.Stderr, line)
		}))
	}
	opts = append(opts, interp.WithOutput(func(b byte) {
		fmt.Printf("OUT %d\n", b)
	}))

	state := interp.New(image, opts...)
	return state.Run()
}
