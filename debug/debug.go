// Package debug is leveled logging for the device. Records go to whichever
// debug port is present: the mGBA or no$gba emulator ports, or the link
// port as framed records for a host running advance-log. On hardware with
// none of these, logging costs a level check and nothing else.
//
// Logging never waits. A record written from the interrupt handler while
// the foreground is in the middle of one is dropped and counted.
package debug

import (
	"fmt"
	"strconv"
	"strings"

	"advance/critical"
)

// Level orders records by severity. The values match mGBA's.
type Level uint8

const (
	Fatal Level = iota
	Error
	Warn
	Info
	Debug
)

func (l Level) String() string {
	switch l {
	case Fatal:
		return "FATAL"
	case Error:
		return "ERROR"
	case Warn:
		return "WARN"
	case Info:
		return "INFO"
	case Debug:
		return "DEBUG"
	}
	return "Level(" + strconv.Itoa(int(l)) + ")"
}

// Output selects where records go.
type Output uint8

const (
	Auto Output = iota // detect on first use
	None
	MGBA
	Nocash
	Link
)

func (o Output) String() string {
	switch o {
	case Auto:
		return "auto"
	case None:
		return "none"
	case MGBA:
		return "mGBA"
	case Nocash:
		return "no$gba"
	case Link:
		return "link"
	}
	return "Output(" + strconv.Itoa(int(o)) + ")"
}

// Writer receives every record that passes the level check.
type Writer func(l Level, msg string)

// Entry is a record kept in the recent history.
type Entry struct {
	Level Level
	Text  string
}

// HistorySize is how many records Recent can return.
const HistorySize = 8

var (
	output   critical.Static[Output]
	detected critical.Once[Output]
	level    = critical.NewStatic(Info)
	dropped  critical.Static[uint32]

	// mu guards the port and everything below.
	mu          critical.Mutex
	writer      Writer
	clock       func() uint32
	seq         uint8
	history     [HistorySize]Entry
	historyHead uint8
	historyLen  uint8
)

func init() {
	critical.SetFatalWriter(func(msg string) {
		// Interrupts are off for good; take the port even if the
		// foreground was interrupted holding it.
		g, ok := mu.TryLock()
		emit(Fatal, msg)
		if ok {
			g.Unlock()
		}
	})
}

// SetOutput forces the output. Auto goes back to detection.
func SetOutput(o Output) {
	output.Write(o)
}

// Current returns the output in use, detecting it if needed.
func Current() Output {
	o := output.Read()
	if o != Auto {
		return o
	}
	d, err := detected.Get(detect)
	if err != nil {
		// Detection is running in the foreground.
		return None
	}
	return d
}

// SetLevel sets the most verbose level that is written.
func SetLevel(l Level) {
	level.Write(l)
}

// Enabled reports whether records at l are written.
func Enabled(l Level) bool {
	return l <= level.Read()
}

// SetWriter sends records to w instead of the debug port. nil restores the
// port.
func SetWriter(w Writer) {
	critical.Run(func() { writer = w })
}

// SetClock sets the source of the time stamp on link records, typically a
// frame counter. Without one the stamp is 0.
func SetClock(fn func() uint32) {
	critical.Run(func() { clock = fn })
}

// Dropped returns how many records were lost because the port was busy.
func Dropped() uint32 {
	return dropped.Read()
}

// Log writes msg at level l.
func Log(l Level, msg string) {
	if !Enabled(l) {
		return
	}
	msg = strings.TrimRight(msg, "\n")

	g, ok := mu.TryLock()
	if !ok {
		critical.Run(func() { dropped.Write(dropped.Read() + 1) })
		return
	}
	defer g.Unlock()

	history[historyHead] = Entry{Level: l, Text: msg}
	historyHead = (historyHead + 1) % HistorySize
	if historyLen < HistorySize {
		historyLen++
	}
	emit(l, msg)
}

// emit writes one record. The caller holds mu.
func emit(l Level, msg string) {
	if w := writer; w != nil {
		w(l, msg)
		return
	}
	switch Current() {
	case MGBA:
		writeMGBA(l, msg)
	case Nocash:
		writeNocash(msg)
	case Link:
		var stamp uint32
		if clock != nil {
			stamp = clock()
		}
		writeLink(seq, l, stamp, msg)
		seq++
	}
}

// Recent returns up to HistorySize of the latest records, oldest first. It
// returns nil if a record is being written.
func Recent() []Entry {
	g, ok := mu.TryLock()
	if !ok {
		return nil
	}
	defer g.Unlock()

	out := make([]Entry, historyLen)
	start := int(historyHead) - int(historyLen) + HistorySize
	for i := range out {
		out[i] = history[(start+i)%HistorySize]
	}
	return out
}

func Errorf(format string, args ...any) {
	if Enabled(Error) {
		Log(Error, fmt.Sprintf(format, args...))
	}
}

func Warnf(format string, args ...any) {
	if Enabled(Warn) {
		Log(Warn, fmt.Sprintf(format, args...))
	}
}

func Infof(format string, args ...any) {
	if Enabled(Info) {
		Log(Info, fmt.Sprintf(format, args...))
	}
}

func Debugf(format string, args ...any) {
	if Enabled(Debug) {
		Log(Debug, fmt.Sprintf(format, args...))
	}
}

// Println writes its operands at Info, spaced as fmt.Println does.
func Println(args ...any) {
	if Enabled(Info) {
		Log(Info, fmt.Sprintln(args...))
	}
}

// Fatalf logs and stops the program through critical.Fatal.
func Fatalf(format string, args ...any) {
	critical.Fatal(fmt.Sprintf(format, args...))
}
