// Package serial opens the host end of a link cable: a USB serial adapter
// wired to the link port's UART pins.
package serial

import (
	"io"
	"time"
)

// Port is an open serial port.
type Port interface {
	io.ReadWriteCloser

	// Flush discards anything received but not yet read
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM3")
	Device string

	// Baud must match the rate the device configured, one of 9600, 38400,
	// 57600 or 115200
	Baud int

	// ReadTimeout bounds each Read; 0 blocks until data arrives
	ReadTimeout time.Duration
}

// DefaultConfig returns the configuration the device side uses by default
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 100 * time.Millisecond,
	}
}
