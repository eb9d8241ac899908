// Package redisserver serves the memkv key-value store over a Redis-style
// wire protocol.
//
// Supported commands:
//   - PING
//   - ECHO message
//   - GET key
//   - SET key value [PX milliseconds]
//
// Each connection runs on its own goroutine. A malformed frame, an unknown
// command or a malformed command closes the connection without a reply
// unless Config.ReplyErrors is set, in which case command errors are
// answered with an error frame.
package redisserver
