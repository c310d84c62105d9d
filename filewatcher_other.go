//go:build !linux

package main

import (
	"fmt"
	"os"
	"time"
)

// waitForChange blocks until the watched program is written again, by
// polling its modification time and size. A momentarily missing file is
// treated as mid-save, not an error: rename-based saves make the path
// vanish for an instant.
func (w *rebuildWatcher) waitForChange() error {
	baseTime, baseSize := statSource(w.source)
	for {
		time.Sleep(200 * time.Millisecond)
		modTime, size := statSource(w.source)
		if modTime.IsZero() || (modTime.Equal(baseTime) && size == baseSize) {
			continue
		}
		// Wait for the write to settle: rebuild only once the file has
		// been stable for a full tick.
		for {
			time.Sleep(200 * time.Millisecond)
			nextTime, nextSize := statSource(w.source)
			if nextTime.Equal(modTime) && nextSize == size {
				break
			}
			modTime, size = nextTime, nextSize
		}
		if VerboseMode {
			fmt.Fprintf(os.Stderr, "change detected in %s\n", w.source)
		}
		return nil
	}
}

func statSource(path string) (time.Time, int64) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, 0
	}
	return info.ModTime(), info.Size()
}
