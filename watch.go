package main

import (
	"fmt"
	"os"
)

// Rebuild-on-change support for the watch subcommand. The watcher owns the
// whole loop: it runs the compile pipeline, reports diagnostics in the same
// positioned format as a one-shot build, then blocks in waitForChange
// (platform-specific) until the program is written again. FDL has no import
// system, so a program is always a single source file and the watch set is
// exactly that file.
type rebuildWatcher struct {
	source string // the .fdl program
	output string // executable path handed to buildExecutable
	builds int
}

func newRebuildWatcher(source, output string) *rebuildWatcher {
	return &rebuildWatcher{source: source, output: output}
}

// run rebuilds once up front, then once per change, forever. A compile or
// link failure is reported and waited out, never fatal: the next save gets
// a fresh attempt.
func (w *rebuildWatcher) run() error {
	for {
		w.rebuild()
		if err := w.waitForChange(); err != nil {
			return err
		}
	}
}

func (w *rebuildWatcher) rebuild() {
	w.builds++
	if VerboseMode {
		fmt.Fprintf(os.Stderr, "build #%d of %s\n", w.builds, w.source)
	}
	if err := buildExecutable(w.source, w.output); err != nil {
		fmt.Fprintln(os.Stderr, "build error:", err)
		return
	}
	fmt.Fprintf(os.Stderr, "built %s\n", w.output)
}
