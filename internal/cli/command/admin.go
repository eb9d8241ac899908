package command

import (
	"fmt"
	"io"
	"net/http"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/memkv-go/internal/cli/connection"
)

// HealthReport is the rendered result of the health command.
type HealthReport struct {
	Status    string `json:"status" yaml:"status"`
	Ready     bool   `json:"ready" yaml:"ready"`
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Time      string `json:"time" yaml:"time"`
}

type healthBody struct {
	Status string `json:"status"`
	Time   string `json:"time"`
	Build  struct {
		Version   string `json:"version"`
		Commit    string `json:"commit"`
		GoVersion string `json:"go_version"`
	} `json:"build"`
}

// HealthCommand returns the health command.
func HealthCommand() *cli.Command {
	return &cli.Command{
		Name:   "health",
		Usage:  "Show admin health and readiness",
		Action: healthAction,
	}
}

func healthAction(c *cli.Context) error {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}
	client := connection.NewHTTPClient(flags.Admin, flags.Token, flags.Timeout)

	resp, err := client.Get(c.Context, "/health")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	var health healthBody
	if err := connection.ParseResponse(resp, &health); err != nil {
		return err
	}

	// Readiness is reported, not treated as a failure.
	resp, err = client.Get(c.Context, "/ready")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	return printResult(c, flags, HealthReport{
		Status:    health.Status,
		Ready:     resp.StatusCode == http.StatusOK,
		Version:   health.Build.Version,
		Commit:    health.Build.Commit,
		GoVersion: health.Build.GoVersion,
		Time:      health.Time,
	})
}

// MetricsCommand returns the metrics command.
func MetricsCommand() *cli.Command {
	return &cli.Command{
		Name:  "metrics",
		Usage: "Print the server's Prometheus metrics",
		Action: func(c *cli.Context) error {
			flags, err := ParseGlobalFlags(c)
			if err != nil {
				return err
			}
			client := connection.NewHTTPClient(flags.Admin, flags.Token, flags.Timeout)

			text, err := client.GetText(c.Context, "/metrics")
			if err != nil {
				return err
			}
			_, err = io.WriteString(stdout(c), text)
			return err
		},
	}
}
