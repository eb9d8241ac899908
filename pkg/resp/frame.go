package resp

// Frame is one decoded wire value.
//
// The set of implementations is closed: SimpleString, Error, Integer,
// BulkString, Array and Null. Consumers dispatch with a type switch.
type Frame interface {
	frame()
}

// SimpleString is a single-line status reply ("+OK").
type SimpleString string

// Error is a single-line error reply ("-ERR ...").
type Error string

// Integer is a non-negative 64-bit integer.
type Integer uint64

// BulkString is a length-prefixed string.
type BulkString string

// Array is an ordered sequence of frames.
type Array []Frame

// Null is the null value ("_").
type Null struct{}

func (SimpleString) frame() {}
func (Error) frame()        {}
func (Integer) frame()      {}
func (BulkString) frame()   {}
func (Array) frame()        {}
func (Null) frame()         {}

// Text returns the text carried by a BulkString or SimpleString.
// Other frame types report false.
func Text(f Frame) (string, bool) {
	switch v := f.(type) {
	case BulkString:
		return string(v), true
	case SimpleString:
		return string(v), true
	default:
		return "", false
	}
}

// NewCommand builds the array of bulk strings a client sends for a command.
func NewCommand(args ...string) Array {
	out := make(Array, len(args))
	for i, a := range args {
		out[i] = BulkString(a)
	}
	return out
}

// TypeName returns a short human-readable name for the frame type.
func TypeName(f Frame) string {
	switch f.(type) {
	case SimpleString:
		return "simple-string"
	case Error:
		return "error"
	case Integer:
		return "integer"
	case BulkString:
		return "bulk-string"
	case Array:
		return "array"
	case Null:
		return "null"
	default:
		return "unknown"
	}
}
