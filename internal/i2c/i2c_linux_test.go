//go:build linux

package i2c

import (
	"os"
	"strings"
	"testing"
)

func TestTx_InvalidAddr(t *testing.T) {
	f, err := os.OpenFile("/dev/null", os.O_RDWR, 0)
	if err != nil {
		t.Fatalf("OpenFile /dev/null: %v", err)
	}
	defer f.Close()

	b := &Bus{f: f, path: "/dev/null"}

	for _, addr := range []uint16{0, 0x80} {
		d := &Dev{bus: b, addr: addr}
		err := d.WriteReg(0x00, 0x00)
		if err == nil || !strings.Contains(err.Error(), "invalid addr") {
			t.Fatalf("addr=0x%X err=%v want invalid addr", addr, err)
		}
	}
}

func TestTx_ClosedDevice(t *testing.T) {
	var d *Dev
	if err := d.WriteReg(0x00, 0x00); err == nil {
		t.Fatalf("nil dev should error")
	}

	b := &Bus{}
	d = b.Dev(0x29)
	if err := d.ReadReg(0x00, make([]byte, 1)); err == nil {
		t.Fatalf("closed bus should error")
	}
}

func TestOpenBus_RejectsNegative(t *testing.T) {
	if _, err := OpenBus(-1); err == nil {
		t.Fatalf("expected error for negative bus number")
	}
}

func TestClose_Idempotent(t *testing.T) {
	b := &Bus{}
	if err := b.Close(); err != nil {
		t.Fatalf("Close on closed bus: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
