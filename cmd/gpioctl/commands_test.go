package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gpiohal/gpio"
	"gpiohal/gpio/gpiotest"
	"gpiohal/platform"
)

const piDescriptor = "Linux-3.10.25+-armv6l-with-debian-7.4"

func fakeResolver(mem *gpiotest.Memory, gotMode *string) *platform.Resolver {
	return platform.NewResolver(platform.Family{
		Name:  "fakepi",
		Token: "armv6l-with-debian",
		New: func(o platform.Options) (gpio.GPIO, error) {
			if gotMode != nil {
				*gotMode = o.NumberingMode
			}
			return mem, nil
		},
	})
}

func run(t *testing.T, res *platform.Resolver, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(res)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPlatformCommand(t *testing.T) {
	res := fakeResolver(gpiotest.NewMemory(), nil)
	out, err := run(t, res, "--platform", piDescriptor, "platform")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "family: fakepi") {
		t.Fatalf("output = %q", out)
	}
	_, err = run(t, res, "--platform", "Darwin-unrelated-string", "platform")
	if !errors.Is(err, platform.ErrUnsupportedPlatform) {
		t.Fatalf("err = %v", err)
	}
}

func TestWriteReadCommands(t *testing.T) {
	mem := gpiotest.NewMemory()
	var mode string
	res := fakeResolver(mem, &mode)

	if _, err := run(t, res, "--platform", piDescriptor, "--mode", "BOARD", "setup", "11", "out"); err != nil {
		t.Fatal(err)
	}
	if mode != "BOARD" {
		t.Fatalf("mode forwarded as %q", mode)
	}
	if _, err := run(t, res, "--platform", piDescriptor, "write", "11", "1"); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, res, "--platform", piDescriptor, "read", "11")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "high" {
		t.Fatalf("read output = %q", out)
	}
	if _, err := run(t, res, "--platform", piDescriptor, "low", "11"); err != nil {
		t.Fatal(err)
	}
	if lo, _ := gpio.IsLow(mem, "11"); !lo {
		t.Fatal("low command did not drive pin low")
	}
	if _, err := run(t, res, "--platform", piDescriptor, "high", "11"); err != nil {
		t.Fatal(err)
	}
	if hi, _ := gpio.IsHigh(mem, "11"); !hi {
		t.Fatal("high command did not drive pin high")
	}
}

func TestInvalidArguments(t *testing.T) {
	res := fakeResolver(gpiotest.NewMemory(), nil)
	if _, err := run(t, res, "--platform", piDescriptor, "setup", "11", "sideways"); !errors.Is(err, gpio.ErrInvalidArgument) {
		t.Fatalf("setup err = %v", err)
	}
	if _, err := run(t, res, "--platform", piDescriptor, "write", "11", "maybe"); !errors.Is(err, gpio.ErrInvalidArgument) {
		t.Fatalf("write err = %v", err)
	}
}

func TestConfigAliasesAndPlatform(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gpiohal.yaml")
	doc := "http_port: 8443\nplatform: " + piDescriptor + "\npins:\n  - name: led\n    pin: \"17\"\nusers: []\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	mem := gpiotest.NewMemory()
	res := fakeResolver(mem, nil)
	if _, err := run(t, res, "--config", path, "high", "led"); err != nil {
		t.Fatal(err)
	}
	if hi, _ := gpio.IsHigh(mem, "17"); !hi {
		t.Fatalf("alias not resolved: %v", mem.Calls())
	}
}
