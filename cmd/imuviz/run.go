package main

import (
	"context"
	"fmt"
	"time"

	"imuviz/internal/orient"
	"imuviz/internal/render"
)

// runLoop is the whole session: one thread, strictly sequential per
// frame. Quit check, sensor poll, draw, then block on the ticker until
// the next scheduled frame (best-effort pacing, not a deadline). A
// failed poll ends the session; there is no retry.
func runLoop(ctx context.Context, src orient.Source, scene render.Scene, rateHz float64) error {
	ticker := time.NewTicker(frameInterval(rateHz))
	defer ticker.Stop()

	for {
		if scene.ShouldQuit() {
			return nil
		}

		snap, err := src.Orientation()
		if err != nil {
			return fmt.Errorf("orientation poll: %w", err)
		}
		cal, err := src.Calibration()
		if err != nil {
			return fmt.Errorf("calibration poll: %w", err)
		}

		scene.DrawFrame(snap, cal)

		select {
		case <-ctx.Done():
			// Interrupt is a clean shutdown, not an error.
			return nil
		case <-ticker.C:
		}
	}
}

func frameInterval(rateHz float64) time.Duration {
	return time.Duration(float64(time.Second) / rateHz)
}
