// Command advance-log prints the log records a device sends over the link
// cable.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"golang.org/x/term"

	"advance/host/serial"
	"advance/protocol"
)

var (
	device   = flag.String("device", "/dev/ttyUSB0", "Serial device path")
	baud     = flag.Int("baud", 115200, "Baud rate the device set with debug.UseLink")
	maxLevel = flag.Int("level", 4, "Most verbose level shown (0 fatal .. 4 debug)")
	color    = flag.String("color", "auto", "Colour output: auto, always or never")
)

var levelNames = [...]string{"FATAL", "ERROR", "WARN", "INFO", "DEBUG"}

// ANSI colours per level
var levelColors = [...]string{"\x1b[1;31m", "\x1b[31m", "\x1b[33m", "", "\x1b[2m"}

const reset = "\x1b[0m"

func main() {
	flag.Parse()

	useColor, err := colorMode(*color, term.IsTerminal(int(os.Stdout.Fd())))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud
	port, err := serial.Open(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := port.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: flush: %v\n", err)
	}

	reader := protocol.NewRecordReader(port)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		reader.Close()
	}()

	fmt.Fprintf(os.Stderr, "Listening on %s at %d baud\n", cfg.Device, cfg.Baud)
	n := printRecords(os.Stdout, reader.Records(), uint8(*maxLevel), useColor)

	reader.Close()
	fmt.Fprintf(os.Stderr, "%d records, %d lost, %d corrupt\n", n, reader.Lost(), reader.Corrupt())
	if err := reader.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func colorMode(mode string, tty bool) (bool, error) {
	switch mode {
	case "auto":
		return tty, nil
	case "always":
		return true, nil
	case "never":
		return false, nil
	}
	return false, fmt.Errorf("unknown -color %q", mode)
}

// printRecords writes every record at or below maxLevel and returns how many
// it received.
func printRecords(w io.Writer, records <-chan protocol.Record, maxLevel uint8, useColor bool) int {
	n := 0
	for rec := range records {
		n++
		if rec.Level > maxLevel {
			continue
		}
		fmt.Fprintln(w, format(rec, useColor))
	}
	return n
}

func format(rec protocol.Record, useColor bool) string {
	name := fmt.Sprintf("L%d", rec.Level)
	if int(rec.Level) < len(levelNames) {
		name = levelNames[rec.Level]
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%10d %-5s %s", rec.Stamp, name, rec.Text)
	if !useColor || int(rec.Level) >= len(levelColors) || levelColors[rec.Level] == "" {
		return b.String()
	}
	return levelColors[rec.Level] + b.String() + reset
}
