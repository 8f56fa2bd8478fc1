//go:build !linux

package platform

import (
	"runtime"
	"strings"
)

// Current describes the running host from GOOS and GOARCH.  No default
// family matches these descriptors.
func Current() string {
	goos := runtime.GOOS
	return describe(strings.ToUpper(goos[:1])+goos[1:], "unknown", runtime.GOARCH, "", "")
}
