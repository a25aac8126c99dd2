// Command bread is the BreadLang toolchain's CLI: run, build, new and
// upload, dispatched the way db47h-ngaro's single-command cmd/retro
// parses flags (stdlib flag, functional atExit-style error reporting),
// generalized to a flag.FlagSet per subcommand since BreadLang exposes
// several distinct verbs instead of ngaro's one.
//
// Per the toolchain's own component boundaries, this package is kept
// thin: every subcommand only parses flags, loads the project config,
// and calls into the library packages that do the real work.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

var errColor = color.New(color.FgRed, color.Bold)
var warnColor = color.New(color.FgYellow, color.Bold)
var okColor = color.New(color.FgGreen)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "run":
		err = cmdRun(os.Args[2:])
	case "build":
		err = cmdBuild(os.Args[2:])
	case "new":
		err = cmdNew(os.Args[2:])
	case "upload":
		err = cmdUpload(os.Args[2:])
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", os.Args[1])
		usage()
		os.Exit(1)
	}

	atExit(err)
}

func usage() {
	fmt.Fprintln(os.Stderr, `bread - the BreadLang toolchain

Usage:
  bread run [--debug]        compile and run the project's program
  bread build                compile the project's program to bin/program.crumbs
  bread new <name>           scaffold a new project directory
  bread upload [path]        upload a compiled image to the EEPROM programmer
  bread upload --display     upload the 7-segment display decoder ROM
  bread upload --brain N     upload microcode ROM plane N (0-3)`)
}

func atExit(err error) {
	if err == nil {
		return
	}
	errColor.Fprintf(os.Stderr, "[Error] %v\n", err)
	os.Exit(1)
}

func warn(format string, args ...interface{}) {
	warnColor.Fprintf(os.Stderr, "[Warning] "+format+"\n", args...)
}

func ok(format string, args ...interface{}) {
	okColor.Fprintf(os.Stdout, format+"\n", args...)
}
