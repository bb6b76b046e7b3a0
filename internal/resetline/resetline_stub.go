//go:build !linux

package resetline

import (
	"fmt"
	"time"
)

// Stub for platforms without the GPIO character device.
func Pulse(pin int, hold time.Duration) error {
	return fmt.Errorf("resetline: gpio unsupported on this platform")
}
