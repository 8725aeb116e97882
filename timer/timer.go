// Package timer drives the four 16-bit hardware timers and builds a
// polling timeout on a cascaded pair of them.
package timer

import (
	"errors"
	"time"

	"advance/bitfield"
	"advance/mmio"
)

// ErrTimeout is returned by Timeout.Wait when the budget runs out first.
var ErrTimeout = errors.New("timer: timed out")

// ClockHz is the CPU clock every timer counts from.
const ClockHz = 1 << 24

// Prescaler divides the CPU clock for a timer.
type Prescaler uint8

const (
	Div1 Prescaler = iota
	Div64
	Div256
	Div1024
)

// Divisor returns the clock division.
func (p Prescaler) Divisor() uint32 {
	return [...]uint32{1, 64, 256, 1024}[p&3]
}

// Control is the TMxCNT_H register.
type Control uint16

func (c Control) Prescaler() Prescaler { return Prescaler(bitfield.Get(c, 0, 2)) }

// Cascade reports whether the timer counts overflows of the timer below it
// instead of clock ticks. Timer 0 ignores it.
func (c Control) Cascade() bool { return bitfield.Bit(c, 2) }
func (c Control) IRQ() bool     { return bitfield.Bit(c, 6) }
func (c Control) Enabled() bool { return bitfield.Bit(c, 7) }

func (c Control) WithPrescaler(p Prescaler) Control { return bitfield.Set(c, 0, 2, Control(p)) }
func (c Control) WithCascade(on bool) Control       { return bitfield.SetBit(c, 2, on) }
func (c Control) WithIRQ(on bool) Control           { return bitfield.SetBit(c, 6, on) }
func (c Control) WithEnabled(on bool) Control       { return bitfield.SetBit(c, 7, on) }

const base = 0x04000100

// Timer is a timer number, 0-3.
type Timer uint8

// Counter reads the running count.
func (t Timer) Counter() mmio.RO[uint16] { return mmio.RO[uint16](base + 4*uintptr(t)) }

// Reload is written at the same address as Counter. It is loaded into the
// counter when the timer is enabled and on every overflow.
func (t Timer) Reload() mmio.WO[uint16] { return mmio.WO[uint16](base + 4*uintptr(t)) }

// CNT is the control register.
func (t Timer) CNT() mmio.RW[Control] { return mmio.RW[Control](base + 4*uintptr(t) + 2) }

// Start loads reload and enables the timer with ctl. A timer already
// running is restarted.
func (t Timer) Start(reload uint16, ctl Control) {
	t.CNT().Write(0)
	t.Reload().Write(reload)
	t.CNT().Write(ctl.WithEnabled(true))
}

// Stop disables the timer. The counter keeps its value.
func (t Timer) Stop() {
	t.CNT().Write(t.CNT().Read().WithEnabled(false))
}

// TimeoutTicksPerSecond is the resolution of a Timeout.
const TimeoutTicksPerSecond = ClockHz / 1024

// Timeout is a deadline measured by two timers: lo counts at ClockHz/1024
// and lo+1 counts its overflows. It occupies both until Stop.
type Timeout struct {
	lo    Timer
	ticks uint32
}

// StartTimeout starts a deadline d from now on timers lo and lo+1. lo must
// be 0, 1 or 2.
func StartTimeout(lo Timer, d time.Duration) Timeout {
	ticks := uint64(d) * TimeoutTicksPerSecond / uint64(time.Second)
	if ticks == 0 && d > 0 {
		ticks = 1
	}
	if ticks > 0xFFFFFFFF {
		ticks = 0xFFFFFFFF
	}
	hi := lo + 1
	hi.Start(0, Control(0).WithCascade(true))
	lo.Start(0, Control(0).WithPrescaler(Div1024))
	return Timeout{lo: lo, ticks: uint32(ticks)}
}

// Elapsed returns the ticks counted since the timeout started.
func (t Timeout) Elapsed() uint32 {
	hi := t.lo + 1
	for {
		h := hi.Counter().Read()
		l := t.lo.Counter().Read()
		if hi.Counter().Read() == h {
			return uint32(h)<<16 | uint32(l)
		}
	}
}

// Expired reports whether the deadline has passed.
func (t Timeout) Expired() bool {
	return t.Elapsed() >= t.ticks
}

// Wait polls done until it reports true or the deadline passes. done is
// checked once more after the deadline, so a condition met at the last
// moment is not reported as a timeout.
func (t Timeout) Wait(done func() bool) error {
	for !t.Expired() {
		if done() {
			return nil
		}
	}
	if done() {
		return nil
	}
	return ErrTimeout
}

// Stop releases both timers.
func (t Timeout) Stop() {
	t.lo.Stop()
	(t.lo + 1).Stop()
}
