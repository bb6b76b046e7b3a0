//go:build !linux

package i2c

import "fmt"

// Non-Linux stub. The hardware source needs /dev/i2c-*; the synthetic
// source works everywhere.

type Bus struct{}

type Dev struct{}

func OpenBus(n int) (*Bus, error) { return nil, fmt.Errorf("i2c: unsupported OS (need linux)") }

func Open(path string) (*Bus, error) { return nil, fmt.Errorf("i2c: unsupported OS (need linux)") }

func (b *Bus) Close() error { return nil }

func (b *Bus) Dev(addr uint16) *Dev { return nil }

func (d *Dev) ReadReg(reg byte, dst []byte) error { return fmt.Errorf("i2c: unsupported OS") }
func (d *Dev) ReadRegU8(reg byte) (byte, error)   { return 0, fmt.Errorf("i2c: unsupported OS") }
func (d *Dev) WriteReg(reg, value byte) error     { return fmt.Errorf("i2c: unsupported OS") }
