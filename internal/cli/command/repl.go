package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/memkv-go/internal/cli/connection"
	"github.com/yndnr/memkv-go/internal/cli/repl"
)

// REPLCommand returns the interactive mode command.
func REPLCommand() *cli.Command {
	return &cli.Command{
		Name:  "repl",
		Usage: "Start an interactive session",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "history-file",
				Usage: "history file path",
				Value: repl.DefaultHistoryFile(),
			},
		},
		Action: func(c *cli.Context) error {
			flags, err := ParseGlobalFlags(c)
			if err != nil {
				return err
			}

			r := repl.New(connection.NewManager(flags.Timeout), flags.Server,
				repl.WithIO(c.App.Reader, stdout(c)),
				repl.WithHistory(repl.NewHistory(c.String("history-file"))))
			return r.Run(c.Context)
		},
	}
}
