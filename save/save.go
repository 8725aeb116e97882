// Package save reads and writes the cartridge save chip: battery-backed
// SRAM or a serial EEPROM.
//
// A Media is used from one side at a time. Every operation takes the
// media's lock without waiting; a call that finds it held, typically from
// the interrupt handler while the foreground is mid-write, gets ErrBusy.
package save

import (
	"errors"
	"fmt"
	"time"

	"advance/critical"
	"advance/startup"
	"advance/timer"
)

var (
	ErrNoMedia     = errors.New("save: no save media")
	ErrOutOfBounds = errors.New("save: access out of bounds")
	ErrBusy        = errors.New("save: media in use")
	ErrKind        = errors.New("save: a different save media is already selected")
)

// Kind is a type of save chip.
type Kind uint8

const (
	None Kind = iota
	SRAM
	EEPROM512
	EEPROM8K
)

func (k Kind) String() string {
	switch k {
	case SRAM:
		return "SRAM"
	case EEPROM512:
		return "EEPROM 512B"
	case EEPROM8K:
		return "EEPROM 8KiB"
	}
	return "none"
}

// Size returns the capacity in bytes.
func (k Kind) Size() int {
	switch k {
	case SRAM:
		return 0x8000
	case EEPROM512:
		return 512
	case EEPROM8K:
		return 8192
	}
	return 0
}

// WriteTimeout bounds how long an EEPROM block write may stay busy. Parts
// need up to about 7ms.
const WriteTimeout = 10 * time.Millisecond

// TimeoutTimer is the first of the two timers an EEPROM write borrows for
// its timeout.
const TimeoutTimer timer.Timer = 2

// Media is an open save chip.
type Media struct {
	kind Kind
	mu   critical.Mutex
}

// New configures the bus for k and returns it.
func New(k Kind) (*Media, error) {
	w := startup.WAITCNT.Read()
	switch k {
	case SRAM:
		w = w.WithSRAM(startup.Wait8)
	case EEPROM512, EEPROM8K:
		w = w.WithROM(2, startup.Wait8, false)
	default:
		return nil, ErrNoMedia
	}
	startup.WAITCNT.Write(w)
	return &Media{kind: k}, nil
}

var shared critical.Once[*Media]

// Init selects the save chip for the whole program and returns it. The
// first call with a real chip decides; later calls return the same Media,
// or ErrKind if they ask for something else. None never selects anything.
func Init(k Kind) (*Media, error) {
	if k.Size() == 0 {
		return nil, ErrNoMedia
	}
	var err error
	m, onceErr := shared.Get(func() *Media {
		var m *Media
		m, err = New(k)
		return m
	})
	switch {
	case onceErr != nil:
		return nil, onceErr
	case err != nil:
		return nil, err
	case m == nil:
		return nil, ErrNoMedia
	case m.kind != k:
		return m, fmt.Errorf("%w: %v", ErrKind, m.kind)
	}
	return m, nil
}

// Kind returns the chip type.
func (m *Media) Kind() Kind { return m.kind }

// Size returns the capacity in bytes.
func (m *Media) Size() int64 { return int64(m.kind.Size()) }

func (m *Media) check(n int, off int64) error {
	if off < 0 || int64(n) > m.Size() || off > m.Size()-int64(n) {
		return fmt.Errorf("%w: %d bytes at %d of %d", ErrOutOfBounds, n, off, m.Size())
	}
	return nil
}

// ReadAt implements io.ReaderAt.
func (m *Media) ReadAt(p []byte, off int64) (int, error) {
	if err := m.check(len(p), off); err != nil {
		return 0, err
	}
	g, ok := m.mu.TryLock()
	if !ok {
		return 0, ErrBusy
	}
	defer g.Unlock()

	if m.kind == SRAM {
		return sramRead(p, off), nil
	}
	return m.eepromRead(p, off), nil
}

// WriteAt implements io.WriterAt.
func (m *Media) WriteAt(p []byte, off int64) (int, error) {
	if err := m.check(len(p), off); err != nil {
		return 0, err
	}
	g, ok := m.mu.TryLock()
	if !ok {
		return 0, ErrBusy
	}
	defer g.Unlock()

	if m.kind == SRAM {
		return sramWrite(p, off), nil
	}
	return m.eepromWrite(p, off)
}
