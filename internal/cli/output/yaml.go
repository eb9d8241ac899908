package output

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/memkv-go/pkg/resp"
)

// YAMLFormatter formats data as YAML.
type YAMLFormatter struct{}

// Format formats data as a YAML document.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	if frame, ok := data.(resp.Frame); ok {
		data = FrameValue(frame)
	}
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}
