package redisserver

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/yndnr/memkv-go/pkg/resp"
)

// Command errors. Both are fatal to the connection unless the server is
// configured to reply with an error frame instead.
var (
	// ErrCommandShape means the frame is not a well-formed command.
	ErrCommandShape = errors.New("wrong command shape")
	// ErrUnknownCommand means the command word is not recognized.
	ErrUnknownCommand = errors.New("unknown command")
)

// Command is a decoded client request.
type Command interface {
	// Name returns the lower-case command word.
	Name() string
	command()
}

// Ping requests a PONG reply.
type Ping struct{}

// Echo requests its message back.
type Echo struct {
	Message string
}

// Get reads a key.
type Get struct {
	Key string
}

// Set writes a key, optionally expiring after TTL.
type Set struct {
	Key    string
	Value  string
	TTL    time.Duration
	HasTTL bool
}

func (Ping) Name() string { return "ping" }
func (Echo) Name() string { return "echo" }
func (Get) Name() string  { return "get" }
func (Set) Name() string  { return "set" }

func (Ping) command() {}
func (Echo) command() {}
func (Get) command()  {}
func (Set) command()  {}

// Interpret converts a frame into a Command.
//
// Only a non-empty array whose first element is a bulk string is a command.
// Arguments may be bulk or simple strings.
func Interpret(f resp.Frame) (Command, error) {
	arr, ok := f.(resp.Array)
	if !ok {
		return nil, fmt.Errorf("%w: expected array, got %s", ErrCommandShape, resp.TypeName(f))
	}
	if len(arr) == 0 {
		return nil, fmt.Errorf("%w: empty array", ErrCommandShape)
	}
	word, ok := arr[0].(resp.BulkString)
	if !ok {
		return nil, fmt.Errorf("%w: command name must be a bulk string", ErrCommandShape)
	}

	name := normalizeCommandName(string(word))
	args := arr[1:]

	switch name {
	case "ping":
		return Ping{}, nil
	case "echo":
		msg, err := singleArg(name, args)
		if err != nil {
			return nil, err
		}
		return Echo{Message: msg}, nil
	case "get":
		key, err := singleArg(name, args)
		if err != nil {
			return nil, err
		}
		return Get{Key: key}, nil
	case "set":
		return interpretSet(args)
	default:
		return nil, fmt.Errorf("%w '%s'", ErrUnknownCommand, name)
	}
}

// normalizeCommandName lower-cases and trims a command word.
func normalizeCommandName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func singleArg(name string, args []resp.Frame) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: wrong number of arguments for '%s'", ErrCommandShape, name)
	}
	s, ok := resp.Text(args[0])
	if !ok {
		return "", fmt.Errorf("%w: '%s' argument must be a string", ErrCommandShape, name)
	}
	return s, nil
}

// interpretSet parses SET key value [PX millis]. A trailing shape other than
// PX followed by a number is ignored and yields no expiry.
func interpretSet(args []resp.Frame) (Command, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("%w: wrong number of arguments for 'set'", ErrCommandShape)
	}
	key, ok := resp.Text(args[0])
	if !ok {
		return nil, fmt.Errorf("%w: 'set' key must be a string", ErrCommandShape)
	}
	value, ok := resp.Text(args[1])
	if !ok {
		return nil, fmt.Errorf("%w: 'set' value must be a string", ErrCommandShape)
	}

	cmd := Set{Key: key, Value: value}
	if len(args) >= 4 {
		if opt, ok := resp.Text(args[2]); ok && strings.EqualFold(opt, "px") {
			if ms, ok := millis(args[3]); ok {
				cmd.TTL = millisToDuration(ms)
				cmd.HasTTL = true
			}
		}
	}
	return cmd, nil
}

// millis extracts a non-negative millisecond count from an integer frame or
// from numeric text.
func millis(f resp.Frame) (uint64, bool) {
	if n, ok := f.(resp.Integer); ok {
		return uint64(n), true
	}
	s, ok := resp.Text(f)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// millisToDuration converts milliseconds to a Duration, saturating at the
// largest representable Duration.
func millisToDuration(ms uint64) time.Duration {
	if ms > uint64(math.MaxInt64/int64(time.Millisecond)) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(ms) * time.Millisecond
}
