package resp

import (
	"fmt"
	"io"
	"strconv"
)

// AppendFrame appends the wire encoding of f to dst.
func AppendFrame(dst []byte, f Frame) []byte {
	switch v := f.(type) {
	case SimpleString:
		dst = append(dst, TagSimpleString)
		dst = append(dst, v...)
		return append(dst, crlf...)
	case Error:
		dst = append(dst, TagError)
		dst = append(dst, v...)
		return append(dst, crlf...)
	case Integer:
		dst = append(dst, TagInteger)
		dst = strconv.AppendUint(dst, uint64(v), 10)
		return append(dst, crlf...)
	case BulkString:
		dst = append(dst, TagBulkString)
		dst = strconv.AppendInt(dst, int64(len(v)), 10)
		dst = append(dst, crlf...)
		dst = append(dst, v...)
		return append(dst, crlf...)
	case Array:
		dst = append(dst, TagArray)
		dst = strconv.AppendInt(dst, int64(len(v)), 10)
		dst = append(dst, crlf...)
		for _, elem := range v {
			dst = AppendFrame(dst, elem)
		}
		return dst
	case Null:
		dst = append(dst, TagNull)
		return append(dst, crlf...)
	default:
		panic(fmt.Sprintf("resp: cannot encode frame of type %T", f))
	}
}

// Marshal returns the wire encoding of f.
func Marshal(f Frame) []byte {
	return AppendFrame(nil, f)
}

// WriteFrame writes the wire encoding of f to w.
func WriteFrame(w io.Writer, f Frame) error {
	_, err := w.Write(Marshal(f))
	return err
}
