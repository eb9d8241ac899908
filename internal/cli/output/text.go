package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yndnr/memkv-go/pkg/resp"
)

// TextFormatter renders reply frames the way redis-cli does and any other
// data as a table.
type TextFormatter struct {
	Table TableFormatter
}

// Format writes data in human-readable form.
func (f *TextFormatter) Format(w io.Writer, data any) error {
	frame, ok := data.(resp.Frame)
	if !ok {
		return f.Table.Format(w, data)
	}
	var b strings.Builder
	writeFrame(&b, frame, 0)
	_, err := io.WriteString(w, b.String())
	return err
}

// FormatFrame returns the text rendering of f without a trailing newline.
func FormatFrame(f resp.Frame) string {
	var b strings.Builder
	writeFrame(&b, f, 0)
	return strings.TrimSuffix(b.String(), "\n")
}

func writeFrame(b *strings.Builder, f resp.Frame, indent int) {
	switch v := f.(type) {
	case resp.SimpleString:
		b.WriteString(string(v))
	case resp.Error:
		b.WriteString("(error) ")
		b.WriteString(string(v))
	case resp.Integer:
		fmt.Fprintf(b, "(integer) %d", uint64(v))
	case resp.BulkString:
		b.WriteString(strconv.Quote(string(v)))
	case resp.Null:
		b.WriteString("(nil)")
	case resp.Array:
		if len(v) == 0 {
			b.WriteString("(empty array)")
			break
		}
		width := len(strconv.Itoa(len(v)))
		for i, elem := range v {
			if i > 0 {
				b.WriteString(strings.Repeat(" ", indent))
			}
			prefix := fmt.Sprintf("%*d) ", width, i+1)
			b.WriteString(prefix)
			writeFrame(b, elem, indent+len(prefix))
		}
		return
	default:
		fmt.Fprintf(b, "(unknown %T)", f)
	}
	b.WriteByte('\n')
}

// FrameValue converts a frame into plain values for structured encoders:
// text frames become strings, Integer a uint64, Null nil, Array a slice
// and Error a map with an "error" key.
func FrameValue(f resp.Frame) any {
	switch v := f.(type) {
	case resp.SimpleString:
		return string(v)
	case resp.BulkString:
		return string(v)
	case resp.Integer:
		return uint64(v)
	case resp.Error:
		return map[string]string{"error": string(v)}
	case resp.Array:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = FrameValue(elem)
		}
		return out
	default:
		return nil
	}
}
