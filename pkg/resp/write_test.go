package resp

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

func TestMarshal(t *testing.T) {
	tests := []struct {
		name string
		in   Frame
		want string
	}{
		{"simple string", SimpleString("PONG"), "+PONG\r\n"},
		{"error", Error("ERR boom"), "-ERR boom\r\n"},
		{"integer", Integer(1000), ":1000\r\n"},
		{"bulk string", BulkString("bar"), "$3\r\nbar\r\n"},
		{"bulk string counts bytes", BulkString("héllo"), "$6\r\nhéllo\r\n"},
		{"null", Null{}, "_\r\n"},
		{"empty array", Array{}, "*0\r\n"},
		{
			name: "command",
			in:   NewCommand("GET", "foo"),
			want: "*2\r\n$3\r\nGET\r\n$3\r\nfoo\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(Marshal(tt.in)); got != tt.want {
				t.Errorf("Marshal() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAppendFrame_KeepsPrefix(t *testing.T) {
	got := AppendFrame([]byte("prefix"), Integer(1))
	if string(got) != "prefix:1\r\n" {
		t.Errorf("AppendFrame() = %q", got)
	}
}

func TestWriteFrame(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, SimpleString("OK")); err != nil {
		t.Fatalf("WriteFrame() error = %v", err)
	}
	if buf.String() != "+OK\r\n" {
		t.Errorf("WriteFrame() wrote %q", buf.String())
	}
}

// roundTripFrames covers every frame shape, including payloads that look
// like protocol syntax.
var roundTripFrames = []Frame{
	SimpleString(""),
	SimpleString("OK"),
	Error("ERR something went wrong"),
	Integer(0),
	Integer(1<<64 - 1),
	BulkString(""),
	BulkString("hello"),
	BulkString("line1\r\nline2\r\n"),
	BulkString("$3\r\n*1\r\n"),
	BulkString(strings.Repeat("x", 10000)),
	BulkString("日本語"),
	Null{},
	Array{},
	NewCommand("SET", "foo", "bar", "PX", "100"),
	Array{Integer(1), Array{Array{}, Null{}}, Error("e"), SimpleString("s")},
}

func TestRoundTrip(t *testing.T) {
	for i, f := range roundTripFrames {
		encoded := Marshal(f)

		got, n, err := Parse(encoded)
		if err != nil {
			t.Fatalf("[%d] Parse(Marshal(%#v)) error = %v", i, f, err)
		}
		if n != len(encoded) {
			t.Errorf("[%d] consumed = %d, want %d", i, n, len(encoded))
		}
		if !reflect.DeepEqual(got, f) {
			t.Errorf("[%d] round trip = %#v, want %#v", i, got, f)
		}
	}
}

func TestMarshal_UnknownFramePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Marshal(nil) should panic")
		}
	}()
	Marshal(nil)
}
