package main

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"imuviz/internal/orient"
)

type fakeSource struct {
	polls    int
	orientE  error
	calibE   error
	closed   int
	snapshot orient.Snapshot
}

func (f *fakeSource) Orientation() (orient.Snapshot, error) {
	f.polls++
	if f.orientE != nil {
		return orient.Snapshot{}, f.orientE
	}
	return f.snapshot, nil
}

func (f *fakeSource) Calibration() (orient.Calibration, error) {
	if f.calibE != nil {
		return orient.Calibration{}, f.calibE
	}
	return orient.Calibration{Sys: 3, Gyro: 3, Accel: 3, Mag: 3}, nil
}

func (f *fakeSource) Close() error {
	f.closed++
	return nil
}

type fakeScene struct {
	frames    int
	quitAfter int
	snaps     []orient.Snapshot
}

func (f *fakeScene) Init() error { return nil }

func (f *fakeScene) DrawFrame(s orient.Snapshot, _ orient.Calibration) {
	f.frames++
	f.snaps = append(f.snaps, s)
}

func (f *fakeScene) ShouldQuit() bool { return f.frames >= f.quitAfter }

func (f *fakeScene) Close() {}

func TestRunLoop_QuitStopsCleanly(t *testing.T) {
	src := &fakeSource{snapshot: orient.NewSnapshot(orient.FromEuler(45, 0, 0))}
	scene := &fakeScene{quitAfter: 3}

	err := runLoop(context.Background(), src, scene, 1000)
	if err != nil {
		t.Fatalf("runLoop: %v", err)
	}
	if scene.frames != 3 {
		t.Fatalf("frames=%d want 3", scene.frames)
	}
	if src.polls != 3 {
		t.Fatalf("polls=%d want 3", src.polls)
	}
	for _, s := range scene.snaps {
		if s != src.snapshot {
			t.Fatalf("scene got %+v want %+v", s, src.snapshot)
		}
	}
}

func TestRunLoop_SensorFailureEndsSession(t *testing.T) {
	src := &fakeSource{orientE: errors.New("i2c: transfer on /dev/i2c-2 addr 0x29: remote I/O error")}
	scene := &fakeScene{quitAfter: 100}

	err := runLoop(context.Background(), src, scene, 1000)
	if err == nil || !strings.Contains(err.Error(), "orientation poll") {
		t.Fatalf("err=%v want orientation poll failure", err)
	}
	if scene.frames != 0 {
		t.Fatalf("frames=%d want 0 (no draw after failed poll)", scene.frames)
	}
}

func TestRunLoop_CalibrationFailureEndsSession(t *testing.T) {
	src := &fakeSource{calibE: errors.New("nack")}
	scene := &fakeScene{quitAfter: 100}

	err := runLoop(context.Background(), src, scene, 1000)
	if err == nil || !strings.Contains(err.Error(), "calibration poll") {
		t.Fatalf("err=%v want calibration poll failure", err)
	}
}

func TestRunLoop_InterruptIsClean(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &fakeSource{}
	scene := &fakeScene{quitAfter: 100}

	// Already-cancelled context: the loop must exit nil after at most
	// one frame.
	err := runLoop(ctx, src, scene, 1000)
	if err != nil {
		t.Fatalf("runLoop: %v", err)
	}
	if scene.frames > 1 {
		t.Fatalf("frames=%d want <=1", scene.frames)
	}
}

func TestFrameInterval(t *testing.T) {
	if got := frameInterval(50); got != 20*time.Millisecond {
		t.Fatalf("frameInterval(50)=%s want 20ms", got)
	}
	if got := frameInterval(1); got != time.Second {
		t.Fatalf("frameInterval(1)=%s want 1s", got)
	}

	// Every rate that survives validation must yield an interval
	// time.NewTicker accepts; check both ends of the admitted range.
	for _, rate := range []float64{0.001, 1000} {
		if got := frameInterval(rate); got <= 0 {
			t.Fatalf("frameInterval(%v)=%s want > 0", rate, got)
		}
	}
}

func TestParseFlags(t *testing.T) {
	cfg, err := parseFlags([]string{"-synthetic", "-rate", "30", "-width", "640", "-height", "480"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if !cfg.Synthetic || cfg.RateHz != 30 || cfg.Width != 640 || cfg.Height != 480 {
		t.Fatalf("cfg=%+v", cfg)
	}

	cfg, err = parseFlags([]string{"-addr", "0x28", "-bus", "1"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.Addr != 0x28 || cfg.Bus != 1 {
		t.Fatalf("cfg=%+v", cfg)
	}

	// Decimal address literals are accepted too.
	cfg, err = parseFlags([]string{"-addr", "40"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.Addr != 40 {
		t.Fatalf("addr=%d want 40", cfg.Addr)
	}

	if _, err := parseFlags([]string{"-addr", "0xZZ"}); err == nil {
		t.Fatalf("expected malformed address error")
	}
	if _, err := parseFlags([]string{"-rate", "0"}); err == nil {
		t.Fatalf("expected rate validation error")
	}
	// Extreme rates would truncate or overflow the ticker interval;
	// they must die at flag parsing, not at runtime.
	if _, err := parseFlags([]string{"-rate", "1e10"}); err == nil {
		t.Fatalf("expected rate validation error for 1e10")
	}
	if _, err := parseFlags([]string{"-rate", "1e-300"}); err == nil {
		t.Fatalf("expected rate validation error for 1e-300")
	}
	if _, err := parseFlags([]string{"-scenario", "s.yaml"}); err == nil {
		t.Fatalf("expected scenario-without-synthetic error")
	}
}
