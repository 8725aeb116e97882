package protocol

// InputBuffer is the receive side of a byte stream the Decoder consumes
type InputBuffer interface {
	// Data returns the bytes not yet consumed
	Data() []byte

	// Available returns the number of bytes available
	Available() int

	// Pop removes n bytes from the front of the buffer
	Pop(n int)
}

// OutputBuffer is where frames are encoded
type OutputBuffer interface {
	// Output writes data to the buffer
	Output(data []byte)

	// CurPosition returns the current write position
	CurPosition() int

	// Update patches a byte already written (the frame length)
	Update(pos int, val byte)

	// DataSince returns data from a specific position to current
	DataSince(pos int) []byte
}

// SliceInputBuffer is an InputBuffer over a fixed slice
type SliceInputBuffer struct {
	data []byte
}

// NewSliceInputBuffer wraps data
func NewSliceInputBuffer(data []byte) *SliceInputBuffer {
	return &SliceInputBuffer{data: data}
}

func (s *SliceInputBuffer) Data() []byte {
	return s.data
}

func (s *SliceInputBuffer) Available() int {
	return len(s.data)
}

func (s *SliceInputBuffer) Pop(n int) {
	if n > len(s.data) {
		n = len(s.data)
	}
	s.data = s.data[n:]
}

// ScratchOutput is an OutputBuffer with room for one frame. It does not
// allocate, so the device can keep one in a global.
type ScratchOutput struct {
	buf [MessageMax]byte
	pos int
}

// NewScratchOutput returns an empty ScratchOutput
func NewScratchOutput() *ScratchOutput {
	return &ScratchOutput{pos: 0}
}

func (s *ScratchOutput) Output(data []byte) {
	n := copy(s.buf[s.pos:], data)
	s.pos += n
}

func (s *ScratchOutput) CurPosition() int {
	return s.pos
}

func (s *ScratchOutput) Update(pos int, val byte) {
	if pos < len(s.buf) {
		s.buf[pos] = val
	}
}

func (s *ScratchOutput) DataSince(pos int) []byte {
	if pos > s.pos {
		return nil
	}
	return s.buf[pos:s.pos]
}

// Result returns the accumulated output data
func (s *ScratchOutput) Result() []byte {
	return s.buf[:s.pos]
}

// Reset clears the buffer
func (s *ScratchOutput) Reset() {
	s.pos = 0
}

// StreamBuffer holds bytes between a serial reader and the Decoder. Data
// is always one contiguous slice; Write moves the unread bytes to the
// front when it runs out of room at the end.
type StreamBuffer struct {
	buf        []byte
	start, end int
}

// NewStreamBuffer returns a StreamBuffer that holds up to capacity bytes
func NewStreamBuffer(capacity int) *StreamBuffer {
	return &StreamBuffer{buf: make([]byte, capacity)}
}

// Write appends as much of data as fits and returns how much did
func (b *StreamBuffer) Write(data []byte) int {
	if len(data) > len(b.buf)-b.end && b.start > 0 {
		b.end = copy(b.buf, b.buf[b.start:b.end])
		b.start = 0
	}
	n := copy(b.buf[b.end:], data)
	b.end += n
	return n
}

func (b *StreamBuffer) Data() []byte {
	return b.buf[b.start:b.end]
}

func (b *StreamBuffer) Available() int {
	return b.end - b.start
}

// Free returns how many more bytes fit
func (b *StreamBuffer) Free() int {
	return len(b.buf) - b.Available()
}

func (b *StreamBuffer) Pop(n int) {
	b.start += min(n, b.Available())
	if b.start == b.end {
		b.Reset()
	}
}

// Reset drops everything buffered
func (b *StreamBuffer) Reset() {
	b.start, b.end = 0, 0
}
