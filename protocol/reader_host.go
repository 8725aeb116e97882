//go:build !tinygo

package protocol

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// RecordReader decodes records from a serial port on a background
// goroutine.
type RecordReader struct {
	port io.ReadCloser

	records chan Record
	buffer  *StreamBuffer
	decoder *Decoder

	// next expected sequence number, valid once the first record arrived
	next    uint8
	started bool

	lost    atomic.Uint64
	corrupt atomic.Uint64

	err      error
	stopOnce sync.Once
	stopChan chan struct{}
	doneChan chan struct{}
}

// NewRecordReader starts reading port. Records arrive on Records until the
// port returns an error or Close is called.
func NewRecordReader(port io.ReadCloser) *RecordReader {
	r := &RecordReader{
		port:     port,
		records:  make(chan Record, 64),
		buffer:   NewStreamBuffer(4 * MessageMax),
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
	r.decoder = NewDecoder(r.deliver)

	go r.readLoop()

	return r
}

// Records returns the channel of decoded records. It is closed when the
// reader stops.
func (r *RecordReader) Records() <-chan Record {
	return r.records
}

// Lost returns how many records were skipped, judging by gaps in the
// sequence numbers.
func (r *RecordReader) Lost() uint64 {
	return r.lost.Load()
}

// Corrupt returns how many frames failed their length or CRC check.
func (r *RecordReader) Corrupt() uint64 {
	return r.corrupt.Load()
}

// Err returns the error that stopped the reader, or nil after Close or a
// clean end of stream. It is valid once Records is closed.
func (r *RecordReader) Err() error {
	<-r.doneChan
	return r.err
}

func (r *RecordReader) readLoop() {
	defer close(r.doneChan)
	defer close(r.records)

	chunk := make([]byte, MessageMax)

	for {
		select {
		case <-r.stopChan:
			return
		default:
		}

		n, err := r.port.Read(chunk)
		if n > 0 {
			data := chunk[:n]
			for len(data) > 0 {
				w := r.buffer.Write(data)
				data = data[w:]
				r.decoder.Receive(r.buffer)
				if w == 0 {
					// A full buffer without a frame in it is garbage.
					r.buffer.Reset()
				}
			}
			r.corrupt.Store(uint64(r.decoder.Corrupt))
		}

		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			return
		default:
			select {
			case <-r.stopChan:
			default:
				r.err = err
			}
			return
		}

		if n == 0 {
			// Ports opened with a read timeout return 0, nil when idle.
			time.Sleep(10 * time.Millisecond)
		}
	}
}

func (r *RecordReader) deliver(rec Record) {
	if r.started && rec.Seq != r.next {
		r.lost.Add(uint64(rec.Seq - r.next))
	}
	r.started = true
	r.next = rec.Seq + 1

	select {
	case r.records <- rec:
	case <-r.stopChan:
	}
}

// Close stops the reader and closes the port.
func (r *RecordReader) Close() error {
	var err error
	r.stopOnce.Do(func() {
		close(r.stopChan)
		if r.port != nil {
			err = r.port.Close()
		}
		<-r.doneChan
	})
	return err
}
