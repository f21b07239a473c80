// Package command provides CLI command definitions for lorikv-cli.
//
// It uses urfave/cli/v2 for command parsing and supports both
// single-command mode and interactive REPL mode.
package command

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/lorikv/lorikv-go/internal/cli/connection"
	"github.com/lorikv/lorikv-go/internal/infra/buildinfo"
)

// App creates the CLI application.
func App() *cli.App {
	app := &cli.App{
		Name:    "lorikv-cli",
		Usage:   "LoriKV command-line client",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			PingCommand(),
			EchoCommand(),
			GetCommand(),
			SetCommand(),
			RPushCommand(),
			LRangeCommand(),
			ZAddCommand(),
			ZRangeCommand(),
			ZRemCommand(),
			REPLCommand(),
		},
	}

	return app
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "LoriKV server address (e.g., localhost:6379)",
			EnvVars: []string{"LORIKV_SERVER"},
			Value:   "127.0.0.1:6379",
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Aliases: []string{"t"},
			Usage:   "Dial and per-command timeout",
			Value:   5 * time.Second,
		},
	}
}

// dial connects to the server selected by the global flags.
func dial(c *cli.Context) (*connection.Client, error) {
	client, err := connection.Dial(c.String("server"), c.Duration("timeout"))
	if err != nil {
		return nil, cli.Exit(err.Error(), 1)
	}
	return client, nil
}

// execute runs one command against the server and prints the reply.
func execute(c *cli.Context, args ...string) error {
	client, err := dial(c)
	if err != nil {
		return err
	}
	defer client.Close()

	reply, err := client.Do(args...)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	fmt.Fprintln(c.App.Writer, reply.Format())
	if reply.IsError() {
		return cli.Exit("", 1)
	}
	return nil
}
