package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"imuviz/internal/config"
	"imuviz/internal/orient"
	"imuviz/internal/render"
	"imuviz/internal/resetline"
	"imuviz/internal/sensors/bno055"
	"imuviz/internal/sim"
)

func init() {
	// GLFW and GL must stay on the thread that runs main.
	runtime.LockOSThread()
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := parseFlags(args)
	if err != nil {
		log.Printf("invalid configuration: %v", err)
		return 2
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	src, err := openSource(cfg)
	if err != nil {
		log.Printf("sensor init failed: %v", err)
		return 1
	}
	defer src.Close()

	scene := render.NewWindow(cfg.Width, cfg.Height)
	if err := scene.Init(); err != nil {
		log.Printf("renderer init failed: %v", err)
		return 1
	}
	defer scene.Close()

	log.Printf("visualization started at %g Hz (ESC to quit)", cfg.RateHz)
	if err := runLoop(ctx, src, scene, cfg.RateHz); err != nil {
		log.Printf("session failed: %v", err)
		return 1
	}
	log.Printf("visualization closed")
	return 0
}

func parseFlags(args []string) (config.Config, error) {
	cfg := config.Default()

	fs := flag.NewFlagSet("imuviz", flag.ContinueOnError)
	fs.BoolVar(&cfg.Synthetic, "synthetic", false, "use the synthetic source (no hardware)")
	fs.StringVar(&cfg.Scenario, "scenario", "", "YAML keyframe script for the synthetic source")
	fs.IntVar(&cfg.Bus, "bus", cfg.Bus, "I2C bus number")
	addr := fmt.Sprintf("0x%02x", cfg.Addr)
	fs.StringVar(&addr, "addr", addr, "I2C device address (decimal or 0x literal)")
	fs.IntVar(&cfg.ResetPin, "reset-pin", 0, "BCM GPIO wired to the sensor NRST pin (0 = none)")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "window width")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "window height")
	fs.Float64Var(&cfg.RateHz, "rate", cfg.RateHz, "update rate in Hz")
	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}

	a, err := config.ParseAddr(addr)
	if err != nil {
		return config.Config{}, err
	}
	cfg.Addr = a

	if err := config.Validate(cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func openSource(cfg config.Config) (orient.Source, error) {
	if cfg.Synthetic {
		if cfg.Scenario != "" {
			script, err := sim.LoadScript(cfg.Scenario)
			if err != nil {
				return nil, fmt.Errorf("scenario %s: %w", cfg.Scenario, err)
			}
			sc, err := sim.NewScenario(script)
			if err != nil {
				return nil, fmt.Errorf("scenario %s: %w", cfg.Scenario, err)
			}
			log.Printf("using synthetic source with scenario %s (%s)", cfg.Scenario, sc.Duration())
			return sim.NewScenarioSource(sc), nil
		}
		log.Printf("using synthetic source (no hardware)")
		return sim.NewSource(), nil
	}

	if cfg.ResetPin > 0 {
		log.Printf("pulsing NRST on GPIO%d", cfg.ResetPin)
		if err := resetline.Pulse(cfg.ResetPin, 10*time.Millisecond); err != nil {
			return nil, err
		}
		// Same reboot settle the soft reset needs.
		time.Sleep(650 * time.Millisecond)
	}

	log.Printf("connecting to BNO055 on bus %d, address 0x%02X", cfg.Bus, cfg.Addr)
	return bno055.Open(cfg.Bus, cfg.Addr)
}
