//go:build linux

package platform

import (
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

// Current describes the running host, for example
// "Linux-3.10.25+-armv6l-with-debian-7.4".  It returns "" when the kernel
// cannot be queried.
//
// Debian derivatives (Raspbian included) report themselves as debian with
// the contents of /etc/debian_version, as the families expect; other
// distributions use ID and VERSION_ID from /etc/os-release.
func Current() string {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return ""
	}
	var id, version string
	if b, err := os.ReadFile("/etc/debian_version"); err == nil {
		id, version = "debian", strings.TrimSpace(string(b))
	} else if f, err := os.Open("/etc/os-release"); err == nil {
		id, version = osRelease(f)
		f.Close()
	}
	return describe(
		unix.ByteSliceToString(u.Sysname[:]),
		unix.ByteSliceToString(u.Release[:]),
		unix.ByteSliceToString(u.Machine[:]),
		id, version,
	)
}
