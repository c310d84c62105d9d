//go:build linux

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// waitForChange blocks until the watched program is written again, using
// inotify. The watch goes on the containing directory rather than the file:
// editors that save by rename replace the inode, and a file-level watch
// dies with the old one.
func (w *rebuildWatcher) waitForChange() error {
	dir := filepath.Dir(w.source)
	base := filepath.Base(w.source)

	fd, err := unix.InotifyInit1(unix.IN_CLOEXEC)
	if err != nil {
		return fmt.Errorf("inotify_init failed: %v", err)
	}
	defer unix.Close(fd)

	if _, err := unix.InotifyAddWatch(fd, dir, unix.IN_CLOSE_WRITE|unix.IN_MOVED_TO|unix.IN_CREATE); err != nil {
		return fmt.Errorf("failed to watch %s: %v", dir, err)
	}

	buf := make([]byte, 64*(unix.SizeofInotifyEvent+unix.NAME_MAX+1))
	for {
		n, err := unix.Read(fd, buf)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return fmt.Errorf("reading inotify events for %s: %v", dir, err)
		}
		offset := 0
		for offset+unix.SizeofInotifyEvent <= n {
			event := (*unix.InotifyEvent)(unsafe.Pointer(&buf[offset]))
			nameBytes := buf[offset+unix.SizeofInotifyEvent : offset+unix.SizeofInotifyEvent+int(event.Len)]
			offset += unix.SizeofInotifyEvent + int(event.Len)

			name := strings.TrimRight(string(nameBytes), "\x00")
			if name != base {
				continue
			}
			if VerboseMode {
				fmt.Fprintf(os.Stderr, "change detected in %s\n", w.source)
			}
			// Let the editor finish its save burst before recompiling.
			time.Sleep(50 * time.Millisecond)
			return nil
		}
	}
}
