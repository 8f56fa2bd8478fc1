// Command gpioctl drives GPIO pins on a Raspberry Pi or BeagleBone Black
// and can serve them over an HTTPS API.
package main

import (
	"context"
	"os"

	"gpiohal/platform"
)

func main() {
	if err := newRootCmd(platform.Default()).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
