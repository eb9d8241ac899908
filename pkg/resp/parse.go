package resp

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"
)

// Type bytes.
const (
	TagSimpleString = '+'
	TagError        = '-'
	TagInteger      = ':'
	TagBulkString   = '$'
	TagArray        = '*'
	TagNull         = '_'
)

var crlf = []byte("\r\n")

var (
	// ErrProtocol is the parent of every malformed-input error.
	ErrProtocol = errors.New("resp: protocol error")

	// ErrInvalidData reports an unknown type byte or a broken terminator.
	ErrInvalidData = fmt.Errorf("%w: invalid data", ErrProtocol)

	// ErrInvalidNumber reports a length, count or integer that is not a
	// non-negative decimal.
	ErrInvalidNumber = fmt.Errorf("%w: invalid number", ErrProtocol)

	// ErrInvalidString reports text that is not valid UTF-8.
	ErrInvalidString = fmt.Errorf("%w: invalid utf-8 sequence", ErrProtocol)

	// ErrLimitExceeded reports a declared length above the parser limits.
	ErrLimitExceeded = fmt.Errorf("%w: limit exceeded", ErrProtocol)
)

// errIncomplete never leaves this file; Parse turns it into the
// "need more input" result.
var errIncomplete = errors.New("resp: incomplete frame")

// Parser parses frames from a byte buffer.
//
// The zero value is ready to use and places no bound on declared lengths.
type Parser struct {
	// MaxBulkLen bounds the declared length of a bulk string (0 = unlimited).
	MaxBulkLen int
	// MaxArrayLen bounds the declared element count of an array (0 = unlimited).
	MaxArrayLen int
}

// Parse parses one frame from the start of buf with an unbounded Parser.
func Parse(buf []byte) (Frame, int, error) {
	var p Parser
	return p.Parse(buf)
}

// Parse parses one frame from the start of buf.
//
// It returns the frame and the number of bytes it occupies. When buf holds
// only a prefix of a frame, Parse returns a nil frame, zero and a nil error:
// the caller should append more input and try again. Any returned error wraps
// ErrProtocol.
func (p *Parser) Parse(buf []byte) (Frame, int, error) {
	c := cursor{buf: buf, p: p}
	f, err := c.frame()
	if err == errIncomplete {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}
	return f, c.pos, nil
}

type cursor struct {
	buf []byte
	pos int
	p   *Parser
}

func (c *cursor) frame() (Frame, error) {
	if c.pos >= len(c.buf) {
		return nil, errIncomplete
	}
	tag := c.buf[c.pos]
	c.pos++

	switch tag {
	case TagSimpleString:
		s, err := c.text()
		if err != nil {
			return nil, err
		}
		return SimpleString(s), nil
	case TagError:
		s, err := c.text()
		if err != nil {
			return nil, err
		}
		return Error(s), nil
	case TagInteger:
		n, err := c.number()
		if err != nil {
			return nil, err
		}
		return Integer(n), nil
	case TagBulkString:
		return c.bulk()
	case TagArray:
		return c.array()
	case TagNull:
		line, err := c.line()
		if err != nil {
			return nil, err
		}
		if len(line) != 0 {
			return nil, fmt.Errorf("%w: unexpected payload after null", ErrInvalidData)
		}
		return Null{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown type byte %q", ErrInvalidData, tag)
	}
}

// line returns the bytes up to the next CRLF and moves past the CRLF.
func (c *cursor) line() ([]byte, error) {
	i := bytes.Index(c.buf[c.pos:], crlf)
	if i < 0 {
		return nil, errIncomplete
	}
	line := c.buf[c.pos : c.pos+i]
	c.pos += i + len(crlf)
	return line, nil
}

func (c *cursor) text() (string, error) {
	line, err := c.line()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(line) {
		return "", ErrInvalidString
	}
	return string(line), nil
}

func (c *cursor) number() (uint64, error) {
	line, err := c.line()
	if err != nil {
		return 0, err
	}
	return parseUint(line)
}

// length reads a length or count line and checks it against limit.
func (c *cursor) length(limit int) (int, error) {
	n, err := c.number()
	if err != nil {
		return 0, err
	}
	if limit > 0 && n > uint64(limit) {
		return 0, fmt.Errorf("%w: length %d exceeds limit %d", ErrLimitExceeded, n, limit)
	}
	if n > uint64(math.MaxInt-len(crlf)) {
		return 0, fmt.Errorf("%w: length %d out of range", ErrInvalidNumber, n)
	}
	return int(n), nil
}

// bulk reads exactly the declared number of bytes; CRLF pairs inside the
// payload belong to the value.
func (c *cursor) bulk() (Frame, error) {
	n, err := c.length(c.p.MaxBulkLen)
	if err != nil {
		return nil, err
	}
	if len(c.buf)-c.pos < n+len(crlf) {
		return nil, errIncomplete
	}
	body := c.buf[c.pos : c.pos+n]
	if !bytes.Equal(c.buf[c.pos+n:c.pos+n+len(crlf)], crlf) {
		return nil, fmt.Errorf("%w: bulk string not terminated by CRLF", ErrInvalidData)
	}
	if !utf8.Valid(body) {
		return nil, ErrInvalidString
	}
	c.pos += n + len(crlf)
	return BulkString(body), nil
}

func (c *cursor) array() (Frame, error) {
	n, err := c.length(c.p.MaxArrayLen)
	if err != nil {
		return nil, err
	}
	// Every element needs at least three bytes, so the remaining input caps
	// what is worth preallocating for an untrusted count.
	out := make(Array, 0, min(n, (len(c.buf)-c.pos)/3))
	for i := 0; i < n; i++ {
		f, err := c.frame()
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func parseUint(b []byte) (uint64, error) {
	if len(b) == 0 {
		return 0, fmt.Errorf("%w: empty", ErrInvalidNumber)
	}
	for _, ch := range b {
		if ch < '0' || ch > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, b)
		}
	}
	n, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, b)
	}
	return n, nil
}
