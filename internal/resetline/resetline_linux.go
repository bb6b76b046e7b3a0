//go:build linux

package resetline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// Pulse drives the given BCM GPIO low for hold and returns it high,
// then releases the line. Intended for a BNO055 NRST pin wired to the
// host: a hardware reset before the bus is touched, for boards where a
// previous crash can leave the chip wedged.
//
// NRST is active low; the line idles high.
func Pulse(pin int, hold time.Duration) error {
	if pin <= 0 {
		return fmt.Errorf("resetline: invalid gpio pin %d", pin)
	}

	// On Pi-class boards header GPIOs are named "GPIO18" etc. Probe
	// gpiochip0 first, then anything else the kernel exposes.
	lineName := fmt.Sprintf("GPIO%d", pin)

	chipCandidates := []string{"/dev/gpiochip0"}
	entries, _ := os.ReadDir("/dev")
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, "gpiochip") {
			chipCandidates = append(chipCandidates, filepath.Join("/dev", name))
		}
	}

	for _, chipPath := range chipCandidates {
		chip, err := gpiocdev.NewChip(chipPath)
		if err != nil {
			continue
		}
		offset, err := chip.FindLine(lineName)
		if err != nil {
			_ = chip.Close()
			continue
		}
		line, err := chip.RequestLine(offset, gpiocdev.AsOutput(1), gpiocdev.WithConsumer("imuviz-reset"))
		if err != nil {
			_ = chip.Close()
			continue
		}

		err = pulseLine(line, hold)
		_ = line.Close()
		_ = chip.Close()
		return err
	}

	return fmt.Errorf("resetline: gpio line %q not found (or busy)", lineName)
}

func pulseLine(line *gpiocdev.Line, hold time.Duration) error {
	if err := line.SetValue(0); err != nil {
		return fmt.Errorf("resetline: drive low: %w", err)
	}
	time.Sleep(hold)
	if err := line.SetValue(1); err != nil {
		return fmt.Errorf("resetline: release: %w", err)
	}
	return nil
}
