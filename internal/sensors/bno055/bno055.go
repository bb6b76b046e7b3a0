package bno055

import (
	"fmt"
	"io"
	"time"

	"imuviz/internal/i2c"
	"imuviz/internal/orient"
)

var sleep = time.Sleep

// BNO055 9-DOF IMU driver.
//
// The chip runs its own NDOF fusion; we only sequence it into fusion
// mode and burst-read the fused quaternion. Register addresses and mode
// values are from the Bosch BNO055 datasheet.

// Device addresses: 0x29 with the ADR pin high, 0x28 with it low.
const (
	regChipID     = 0x00
	chipIDVal     = 0xA0
	regOprMode    = 0x3D
	regPwrMode    = 0x3E
	regSysTrigger = 0x3F
	regUnitSel    = 0x3B
	regEulerHLSB  = 0x1A // on-chip Euler output; unused, rendering is driven off the quaternion
	regQuatWLSB   = 0x20 // 8 bytes: w,x,y,z little-endian int16
	regCalibStat  = 0x35

	modeConfig = 0x00
	modeNDOF   = 0x0C

	pwrNormal   = 0x00
	unitsDegC   = 0x00 // degrees, Celsius, m/s²
	bitSysReset = 0x20

	// Quaternion registers are Q14 fixed point.
	quatScale = 1.0 / 16384.0
)

// Settle delays between configuration writes. Empirically required by
// the device firmware; the 650ms reset settle covers a full reboot and
// omitting it leaves the chip in an undefined state. Order matters.
const (
	settleConfig = 25 * time.Millisecond
	settleReset  = 650 * time.Millisecond
	settlePower  = 10 * time.Millisecond
	settleUnits  = 10 * time.Millisecond
	settleNDOF   = 20 * time.Millisecond
)

type regIO interface {
	ReadRegU8(reg byte) (byte, error)
	ReadReg(reg byte, dst []byte) error
	WriteReg(reg, value byte) error
}

// Device is the hardware orientation source. It owns the bus handle for
// the whole session and implements orient.Source.
type Device struct {
	dev    regIO
	closer io.Closer
}

// Open opens /dev/i2c-<bus>, probes the chip and sequences it into
// NDOF fusion mode. On any failure the bus is closed before returning.
func Open(bus int, addr uint16) (*Device, error) {
	b, err := i2c.OpenBus(bus)
	if err != nil {
		return nil, fmt.Errorf("bno055: %w", err)
	}
	d, err := newWithIO(b.Dev(addr), b)
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	return d, nil
}

func newWithIO(dev regIO, closer io.Closer) (*Device, error) {
	if dev == nil {
		return nil, fmt.Errorf("bno055: dev is nil")
	}
	d := &Device{dev: dev, closer: closer}

	id, err := d.dev.ReadRegU8(regChipID)
	if err != nil {
		return nil, fmt.Errorf("bno055: chip id read failed: %w", err)
	}
	if id != chipIDVal {
		return nil, fmt.Errorf("bno055: chip id=0x%02X want 0x%02X", id, chipIDVal)
	}

	if err := d.init(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Device) init() error {
	steps := []struct {
		reg, val byte
		settle   time.Duration
	}{
		{regOprMode, modeConfig, settleConfig},
		{regSysTrigger, bitSysReset, settleReset},
		{regPwrMode, pwrNormal, settlePower},
		{regUnitSel, unitsDegC, settleUnits},
		{regOprMode, modeNDOF, settleNDOF},
	}
	for _, s := range steps {
		if err := d.dev.WriteReg(s.reg, s.val); err != nil {
			return fmt.Errorf("bno055: config write reg 0x%02X failed: %w", s.reg, err)
		}
		sleep(s.settle)
	}
	return nil
}

// Orientation burst-reads the fused quaternion and returns a fresh
// snapshot in the scene frame.
func (d *Device) Orientation() (orient.Snapshot, error) {
	if d == nil {
		return orient.Snapshot{}, fmt.Errorf("bno055: device is nil")
	}
	var buf [8]byte
	if err := d.dev.ReadReg(regQuatWLSB, buf[:]); err != nil {
		return orient.Snapshot{}, fmt.Errorf("bno055: quaternion read failed: %w", err)
	}
	raw := decodeQuat(buf)
	return orient.NewSnapshot(orient.RemapAxes(raw)), nil
}

// decodeQuat unpacks the 8-byte quaternion burst: four little-endian
// signed 16-bit values in w,x,y,z device order, Q14 scale.
func decodeQuat(buf [8]byte) orient.Quaternion {
	s16 := func(lo, hi byte) float64 {
		return float64(int16(uint16(hi)<<8|uint16(lo))) * quatScale
	}
	return orient.Quaternion{
		W: s16(buf[0], buf[1]),
		X: s16(buf[2], buf[3]),
		Y: s16(buf[4], buf[5]),
		Z: s16(buf[6], buf[7]),
	}
}

// Calibration reads CALIB_STAT: four 2-bit fields packed sys(7:6),
// gyro(5:4), accel(3:2), mag(1:0).
func (d *Device) Calibration() (orient.Calibration, error) {
	if d == nil {
		return orient.Calibration{}, fmt.Errorf("bno055: device is nil")
	}
	b, err := d.dev.ReadRegU8(regCalibStat)
	if err != nil {
		return orient.Calibration{}, fmt.Errorf("bno055: calibration read failed: %w", err)
	}
	return unpackCalib(b), nil
}

func unpackCalib(b byte) orient.Calibration {
	return orient.Calibration{
		Sys:   int(b >> 6 & 0x03),
		Gyro:  int(b >> 4 & 0x03),
		Accel: int(b >> 2 & 0x03),
		Mag:   int(b & 0x03),
	}
}

// Close releases the bus handle. Safe to call more than once.
func (d *Device) Close() error {
	if d == nil || d.closer == nil {
		return nil
	}
	err := d.closer.Close()
	d.closer = nil
	return err
}
