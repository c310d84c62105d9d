package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/xyproto/env/v2"
)

// A small compiler for the FDL language, targeting 32-bit x86.

const versionString = "fdlc 0.1.0"

// VerboseMode enables progress and diagnostic output on stderr.
var VerboseMode bool

func main() {
	verbose := flag.Bool("v", env.Bool("FDLC_VERBOSE"), "verbose output")
	version := flag.Bool("version", false, "print version and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: fdlc [flags] <command> [args]\n\n")
		fmt.Fprintf(os.Stderr, "Run 'fdlc help' for the list of commands.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *version {
		fmt.Println(versionString)
		return
	}

	VerboseMode = *verbose

	if err := RunCLI(flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
