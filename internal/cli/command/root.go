package command

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/memkv-go/internal/cli/config"
	"github.com/yndnr/memkv-go/internal/cli/connection"
	"github.com/yndnr/memkv-go/internal/cli/output"
	"github.com/yndnr/memkv-go/internal/infra/buildinfo"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "memkv-cli",
		Usage:   "memkv command-line client",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			PingCommand(),
			EchoCommand(),
			GetCommand(),
			SetCommand(),
			RawCommand(),
			HealthCommand(),
			MetricsCommand(),
			BenchCommand(),
			REPLCommand(),
		},
		Before: applyProfile,
	}
}

// globalFlags returns the global CLI flags. Defaults of server, admin and
// output come from the profile when the flag is not set.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "memkv server address",
			EnvVars: []string{"MEMKV_SERVER"},
			Value:   config.DefaultServer,
		},
		&cli.StringFlag{
			Name:    "admin",
			Usage:   "admin HTTP server address",
			EnvVars: []string{"MEMKV_ADMIN"},
			Value:   config.DefaultAdmin,
		},
		&cli.StringFlag{
			Name:    "token",
			Usage:   "admin bearer token",
			EnvVars: []string{"MEMKV_ADMIN_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: text, json, yaml",
			Value:   config.DefaultOutput,
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "dial and request timeout",
			Value: connection.DefaultTimeout,
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.StringFlag{
			Name:    "profile",
			Usage:   "CLI profile path",
			EnvVars: []string{"MEMKV_CLI_PROFILE"},
			Value:   config.DefaultConfigPath(),
		},
	}
}

// applyProfile fills unset global flags from the profile.
func applyProfile(c *cli.Context) error {
	profile, err := config.Load(c.String("profile"))
	if err != nil {
		return err
	}

	defaults := map[string]string{
		"server": profile.Server,
		"admin":  profile.Admin,
		"output": profile.Output,
		"token":  profile.AdminToken,
	}
	for name, value := range defaults {
		if c.IsSet(name) || value == "" {
			continue
		}
		if err := c.Set(name, value); err != nil {
			return fmt.Errorf("apply profile %s: %w", name, err)
		}
	}
	return nil
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Server  string
	Admin   string
	Token   string
	Output  output.Format
	Timeout time.Duration
	Wide    bool
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) (*GlobalFlags, error) {
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		return nil, err
	}
	return &GlobalFlags{
		Server:  c.String("server"),
		Admin:   c.String("admin"),
		Token:   c.String("token"),
		Output:  format,
		Timeout: c.Duration("timeout"),
		Wide:    c.Bool("wide"),
	}, nil
}

// printResult renders data to the app's writer in the selected format.
func printResult(c *cli.Context, flags *GlobalFlags, data any) error {
	return output.NewFormatter(flags.Output, flags.Wide).Format(stdout(c), data)
}

func stdout(c *cli.Context) io.Writer {
	if c.App.Writer != nil {
		return c.App.Writer
	}
	return os.Stdout
}

func stderr(c *cli.Context) io.Writer {
	if c.App.ErrWriter != nil {
		return c.App.ErrWriter
	}
	return os.Stderr
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
