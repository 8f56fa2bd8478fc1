package platform

import (
	"strings"
	"testing"
)

func TestDescribe(t *testing.T) {
	cases := []struct {
		parts [5]string
		want  string
	}{
		{[5]string{"Linux", "3.10.25+", "armv6l", "debian", "7.4"}, "Linux-3.10.25+-armv6l-with-debian-7.4"},
		{[5]string{"Linux", "6.1.0", "x86_64", "fedora", ""}, "Linux-6.1.0-x86_64-with-fedora"},
		{[5]string{"Darwin", "unknown", "arm64", "", ""}, "Darwin-unknown-arm64"},
	}
	for _, c := range cases {
		p := c.parts
		if got := describe(p[0], p[1], p[2], p[3], p[4]); got != c.want {
			t.Errorf("describe(%v) = %q, want %q", p, got, c.want)
		}
	}
}

func TestOSRelease(t *testing.T) {
	const f = `PRETTY_NAME="Debian GNU/Linux 12 (bookworm)"
NAME="Debian GNU/Linux"
VERSION_ID="12"
ID=debian
# comment
`
	id, v := osRelease(strings.NewReader(f))
	if id != "debian" || v != "12" {
		t.Fatalf("got %q %q", id, v)
	}
}

func TestCurrentNotEmpty(t *testing.T) {
	if Current() == "" {
		t.Skip("uname unavailable")
	}
}
