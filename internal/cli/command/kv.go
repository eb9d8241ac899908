package command

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/memkv-go/internal/cli/connection"
)

// PingCommand returns the ping command.
func PingCommand() *cli.Command {
	return &cli.Command{
		Name:  "ping",
		Usage: "Check that the server answers",
		Action: func(c *cli.Context) error {
			return sendCommand(c, "PING")
		},
	}
}

// EchoCommand returns the echo command.
func EchoCommand() *cli.Command {
	return &cli.Command{
		Name:      "echo",
		Usage:     "Ask the server to repeat a message",
		ArgsUsage: "MESSAGE",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("echo takes exactly one MESSAGE")
			}
			return sendCommand(c, "ECHO", c.Args().First())
		},
	}
}

// GetCommand returns the get command.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Read the value of a key",
		ArgsUsage: "KEY",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("get takes exactly one KEY")
			}
			return sendCommand(c, "GET", c.Args().First())
		},
	}
}

// SetCommand returns the set command.
func SetCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Store a value, optionally expiring after --px milliseconds",
		ArgsUsage: "KEY VALUE",
		Flags: []cli.Flag{
			&cli.Uint64Flag{
				Name:  "px",
				Usage: "time to live in milliseconds (0 keeps the key forever)",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return fmt.Errorf("set takes KEY and VALUE")
			}
			args := []string{"SET", c.Args().Get(0), c.Args().Get(1)}
			if px := c.Uint64("px"); px > 0 {
				args = append(args, "PX", strconv.FormatUint(px, 10))
			}
			return sendCommand(c, args...)
		},
	}
}

// RawCommand returns the raw command.
func RawCommand() *cli.Command {
	return &cli.Command{
		Name:      "raw",
		Usage:     "Send arbitrary arguments as a command",
		ArgsUsage: "ARG...",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("raw needs at least one argument")
			}
			return sendCommand(c, c.Args().Slice()...)
		},
	}
}

// sendCommand dials the server, sends one command and prints the reply.
func sendCommand(c *cli.Context, args ...string) error {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}

	client, err := connection.Dial(c.Context, flags.Server, flags.Timeout)
	if err != nil {
		return err
	}
	defer client.Close()

	reply, err := client.Do(c.Context, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	return printResult(c, flags, reply)
}
