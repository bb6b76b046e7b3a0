//go:build linux

package i2c

import (
	"errors"
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Register-oriented I2C transport backed by /dev/i2c-*.
//
// Register reads go through I2C_RDWR so the register-address write and
// the data read happen in one combined transaction (repeated start);
// the BNO055 requires this for burst reads.

const (
	i2cMrd  = 0x0001
	i2cRdwr = 0x0707
)

type msg struct {
	addr  uint16
	flags uint16
	len   uint16
	buf   uintptr
}

type rdwrData struct {
	msgs  uintptr
	nmsgs uint32
}

// Bus is an opened I2C adapter. A single visualization session owns
// exactly one Bus for its whole lifetime; transfers are not safe for
// concurrent use, which the single-threaded poll loop never needs.
type Bus struct {
	f    *os.File
	path string
}

// OpenBus opens adapter n as /dev/i2c-<n>.
func OpenBus(n int) (*Bus, error) {
	if n < 0 {
		return nil, fmt.Errorf("i2c: invalid bus number %d", n)
	}
	return Open(fmt.Sprintf("/dev/i2c-%d", n))
}

func Open(path string) (*Bus, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("i2c: open %s: %w", path, err)
	}
	return &Bus{f: f, path: path}, nil
}

// Close releases the adapter. Closing an already-closed Bus is a no-op.
func (b *Bus) Close() error {
	if b == nil || b.f == nil {
		return nil
	}
	err := b.f.Close()
	b.f = nil
	return err
}

// Dev returns a handle for the device at a 7-bit address on b.
func (b *Bus) Dev(addr uint16) *Dev {
	if b == nil {
		return nil
	}
	return &Dev{bus: b, addr: addr}
}

// Dev addresses one device on an open Bus.
type Dev struct {
	bus  *Bus
	addr uint16
}

// ReadReg reads len(dst) bytes starting at register reg.
func (d *Dev) ReadReg(reg byte, dst []byte) error {
	return d.tx([]byte{reg}, dst)
}

// ReadRegU8 reads a single register byte.
func (d *Dev) ReadRegU8(reg byte) (byte, error) {
	var b [1]byte
	if err := d.ReadReg(reg, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// WriteReg writes one byte to register reg.
func (d *Dev) WriteReg(reg, value byte) error {
	return d.tx([]byte{reg, value}, nil)
}

func (d *Dev) tx(w, r []byte) error {
	if d == nil || d.bus == nil || d.bus.f == nil {
		return errors.New("i2c: device is closed")
	}
	if d.addr == 0 || d.addr > 0x7F {
		return fmt.Errorf("i2c: invalid addr 0x%X", d.addr)
	}

	msgs := make([]msg, 0, 2)
	if len(w) > 0 {
		msgs = append(msgs, msg{addr: d.addr, flags: 0, len: uint16(len(w)), buf: uintptr(unsafe.Pointer(&w[0]))})
	}
	if len(r) > 0 {
		msgs = append(msgs, msg{addr: d.addr, flags: i2cMrd, len: uint16(len(r)), buf: uintptr(unsafe.Pointer(&r[0]))})
	}
	if len(msgs) == 0 {
		return nil
	}

	data := rdwrData{msgs: uintptr(unsafe.Pointer(&msgs[0])), nmsgs: uint32(len(msgs))}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, d.bus.f.Fd(), uintptr(i2cRdwr), uintptr(unsafe.Pointer(&data)))
	if errno != 0 {
		return fmt.Errorf("i2c: transfer on %s addr 0x%02X: %w", d.bus.path, d.addr, errno)
	}
	return nil
}
