//go:build !linux && !freebsd && !openbsd && !netbsd && !dragonfly && !darwin && !windows

package browser

import (
	"fmt"
	"runtime"
)

func command(string) (string, []string, error) {
	return "", nil, fmt.Errorf("no link handler for %s", runtime.GOOS)
}
