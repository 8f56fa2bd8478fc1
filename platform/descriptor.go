package platform

import (
	"bufio"
	"io"
	"strings"
)

// describe joins the parts of a descriptor in the
// <system>-<release>-<machine>-with-<distro>-<version> shape.
func describe(system, release, machine, distro, version string) string {
	d := system + "-" + release + "-" + machine
	if distro != "" {
		d += "-with-" + distro
		if version != "" {
			d += "-" + version
		}
	}
	return d
}

// osRelease reads ID and VERSION_ID from an os-release file.
func osRelease(r io.Reader) (id, version string) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		k, v, ok := strings.Cut(strings.TrimSpace(sc.Text()), "=")
		if !ok {
			continue
		}
		v = strings.Trim(v, `"'`)
		switch k {
		case "ID":
			id = v
		case "VERSION_ID":
			version = v
		}
	}
	return id, version
}
