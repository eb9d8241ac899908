// Package resp implements the memkv wire format, a RESP-like framing of
// CRLF-terminated lines and length-prefixed payloads.
//
// The package is split into:
//
//   - frame.go: the closed set of frame types
//   - parse.go: incremental, buffer-driven parsing
//   - write.go: serialization
//   - decoder.go: a connection buffer that feeds a stream into the parser
//
// Parsing never blocks and never treats a short buffer as an error: when the
// buffer does not yet hold a complete frame, Parse reports that more input is
// needed and consumes nothing.
//
// Usage:
//
//	dec := resp.NewDecoder(conn)
//	f, err := dec.ReadFrame()
//	...
//	_, err = conn.Write(resp.Marshal(resp.SimpleString("OK")))
package resp
