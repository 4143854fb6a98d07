package logging

import (
	"fmt"
	"os"
)

const (
	// maxLogSize is the size at which the current log file is rotated.
	maxLogSize = 1_000_000

	// maxLogFiles is the number of rotated files kept alongside the current one.
	maxLogFiles = 5
)

// rotateLogs shifts overlap.log aside once it exceeds maxLogSize:
// overlap.log.4 is deleted, .3 becomes .4, and so on, with the current
// file becoming overlap.log.1. Rotation failures are ignored; a log that
// cannot rotate keeps appending.
func rotateLogs(path string) {
	info, err := os.Stat(path)
	if err != nil || info.Size() < maxLogSize {
		return
	}

	for i := maxLogFiles - 1; i > 0; i-- {
		old := fmt.Sprintf("%s.%d", path, i)
		if _, err := os.Stat(old); err != nil {
			continue
		}
		if i == maxLogFiles-1 {
			os.Remove(old)
		} else {
			os.Rename(old, fmt.Sprintf("%s.%d", path, i+1))
		}
	}

	os.Rename(path, path+".1")
}
