package resp

import (
	"errors"
	"io"
)

// ErrConnectionReset is returned when the stream ends in the middle of a
// frame.
var ErrConnectionReset = errors.New("resp: connection reset by peer")

// DefaultReadSize is the minimum free space the decoder keeps for each read.
const DefaultReadSize = 4096

// Decoder reads frames from a byte stream.
//
// It owns a growable buffer of received bytes that have not yet formed a
// complete frame. Bytes consumed by a successful parse are dropped and never
// parsed again.
type Decoder struct {
	r        io.Reader
	parser   Parser
	buf      []byte
	readSize int
}

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithParser sets the parser (and therefore the length limits) used by the decoder.
func WithParser(p Parser) DecoderOption {
	return func(d *Decoder) {
		d.parser = p
	}
}

// WithReadSize sets the minimum free buffer space per read.
func WithReadSize(n int) DecoderOption {
	return func(d *Decoder) {
		if n > 0 {
			d.readSize = n
		}
	}
}

// NewDecoder creates a decoder reading from r.
func NewDecoder(r io.Reader, opts ...DecoderOption) *Decoder {
	d := &Decoder{
		r:        r,
		readSize: DefaultReadSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.buf = make([]byte, 0, d.readSize)
	return d
}

// ReadFrame returns the next frame, reading from the stream as needed.
//
// It returns io.EOF when the stream ends cleanly between frames and
// ErrConnectionReset when it ends with a partial frame buffered. Malformed
// input is reported with an error wrapping ErrProtocol.
func (d *Decoder) ReadFrame() (Frame, error) {
	for {
		if f, ok, err := d.TryFrame(); err != nil || ok {
			return f, err
		}

		if err := d.fill(); err != nil {
			if errors.Is(err, io.EOF) {
				if len(d.buf) == 0 {
					return nil, io.EOF
				}
				return nil, ErrConnectionReset
			}
			return nil, err
		}
	}
}

// TryFrame parses a frame from the bytes already buffered without reading.
// ok is false when more input is needed.
func (d *Decoder) TryFrame() (f Frame, ok bool, err error) {
	if len(d.buf) == 0 {
		return nil, false, nil
	}
	f, n, err := d.parser.Parse(d.buf)
	if err != nil {
		return nil, false, err
	}
	if f == nil {
		return nil, false, nil
	}
	d.consume(n)
	return f, true, nil
}

// Buffered returns the number of received bytes not yet consumed.
func (d *Decoder) Buffered() int {
	return len(d.buf)
}

func (d *Decoder) consume(n int) {
	rest := copy(d.buf, d.buf[n:])
	d.buf = d.buf[:rest]
}

func (d *Decoder) fill() error {
	if cap(d.buf)-len(d.buf) < d.readSize {
		grown := make([]byte, len(d.buf), 2*cap(d.buf)+d.readSize)
		copy(grown, d.buf)
		d.buf = grown
	}

	n, err := d.r.Read(d.buf[len(d.buf):cap(d.buf)])
	d.buf = d.buf[:len(d.buf)+n]
	if n > 0 {
		return nil
	}
	return err
}
