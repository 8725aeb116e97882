package protocol

// EncodeRecord appends r as one frame. Text that would not fit in a
// frame is cut short.
func EncodeRecord(output OutputBuffer, r Record) {
	cursor := output.CurPosition()
	output.Output([]byte{0, r.Seq, r.Level})
	EncodeVLQUint(output, r.Stamp)

	room := RecordLengthMax - (output.CurPosition() - cursor) - MessageTrailer - 2
	text := r.Text
	if len(text) > room {
		text = text[:room]
	}
	EncodeVLQString(output, text)

	length := len(output.DataSince(cursor)) + MessageTrailer
	output.Update(cursor, uint8(length))

	crc := CRC16(output.DataSince(cursor))
	output.Output([]byte{
		uint8(crc >> 8),
		uint8(crc),
		ValueSync,
	})
}

// Decoder splits a byte stream into records. It starts synchronized; after
// a corrupt frame it discards bytes up to the next sync byte.
type Decoder struct {
	synchronized bool
	handler      func(Record)

	// Corrupt counts frames dropped for a bad length, CRC or body.
	Corrupt int
}

// NewDecoder returns a Decoder that passes every good record to handler.
func NewDecoder(handler func(Record)) *Decoder {
	return &Decoder{synchronized: true, handler: handler}
}

// Receive consumes every complete frame in input and leaves a partial one
// for the next call.
func (d *Decoder) Receive(input InputBuffer) {
	data := input.Data()

	for len(data) > 0 {
		if !d.synchronized {
			syncPos := -1
			for i, b := range data {
				if b == ValueSync {
					syncPos = i
					break
				}
			}
			if syncPos < 0 {
				data = nil
				break
			}
			data = data[syncPos+1:]
			d.synchronized = true
			continue
		}

		if data[0] == ValueSync {
			data = data[1:]
			continue
		}
		if len(data) < RecordLengthMin {
			break
		}

		msgLen := int(data[PositionLen])
		if msgLen < RecordLengthMin {
			d.desync()
			continue
		}
		if len(data) < msgLen {
			break
		}
		if data[msgLen-TrailerSync] != ValueSync {
			d.desync()
			continue
		}

		frameCRC := uint16(data[msgLen-TrailerCRC])<<8 | uint16(data[msgLen-TrailerCRC+1])
		if frameCRC != CRC16(data[:msgLen-MessageTrailer]) {
			d.desync()
			continue
		}

		r, err := parseRecord(data[:msgLen])
		data = data[msgLen:]
		if err != nil {
			d.Corrupt++
			continue
		}
		if d.handler != nil {
			d.handler(r)
		}
	}

	consumed := input.Available() - len(data)
	if consumed > 0 {
		input.Pop(consumed)
	}
}

func (d *Decoder) desync() {
	d.synchronized = false
	d.Corrupt++
}

func parseRecord(frame []byte) (Record, error) {
	r := Record{Seq: frame[PositionSeq], Level: frame[PositionLevel]}
	body := frame[MessageHeader : len(frame)-MessageTrailer]

	var err error
	if r.Stamp, err = DecodeVLQUint(&body); err != nil {
		return Record{}, err
	}
	if r.Text, err = DecodeVLQString(&body); err != nil {
		return Record{}, err
	}
	if len(body) != 0 {
		return Record{}, ErrInvalidVLQ
	}
	return r, nil
}
