package output

import (
	"encoding/json"
	"io"

	"github.com/yndnr/memkv-go/pkg/resp"
)

// JSONFormatter formats data as JSON.
type JSONFormatter struct{}

// Format formats data as indented JSON.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	if frame, ok := data.(resp.Frame); ok {
		data = FrameValue(frame)
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
