package command

import (
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/lorikv/lorikv-go/internal/cli/repl"
)

// PingCommand checks server liveness.
func PingCommand() *cli.Command {
	return &cli.Command{
		Name:      "ping",
		Usage:     "Ping the server",
		ArgsUsage: "[message]",
		Action: func(c *cli.Context) error {
			if c.NArg() > 1 {
				return cli.Exit("usage: ping [message]", 2)
			}
			args := append([]string{"PING"}, c.Args().Slice()...)
			return execute(c, args...)
		},
	}
}

// EchoCommand returns its argument.
func EchoCommand() *cli.Command {
	return &cli.Command{
		Name:      "echo",
		Usage:     "Echo a message back",
		ArgsUsage: "<message>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("usage: echo <message>", 2)
			}
			return execute(c, "ECHO", c.Args().First())
		},
	}
}

// GetCommand reads a string key.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Get the value of a key",
		ArgsUsage: "<key>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("usage: get <key>", 2)
			}
			return execute(c, "GET", c.Args().First())
		},
	}
}

// SetCommand writes a string key, optionally with a TTL.
func SetCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Set a key to a string value",
		ArgsUsage: "<key> <value>",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:  "px",
				Usage: "Expire the key after the given number of milliseconds",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return cli.Exit("usage: set <key> <value>", 2)
			}
			args := []string{"SET", c.Args().Get(0), c.Args().Get(1)}
			if ms := c.Int64("px"); ms > 0 {
				args = append(args, "PX", strconv.FormatInt(ms, 10))
			}
			return execute(c, args...)
		},
	}
}

// RPushCommand appends values to a list.
func RPushCommand() *cli.Command {
	return &cli.Command{
		Name:      "rpush",
		Usage:     "Append values to a list",
		ArgsUsage: "<key> <value> [value ...]",
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return cli.Exit("usage: rpush <key> <value> [value ...]", 2)
			}
			args := append([]string{"RPUSH"}, c.Args().Slice()...)
			return execute(c, args...)
		},
	}
}

// LRangeCommand reads a list slice.
func LRangeCommand() *cli.Command {
	return &cli.Command{
		Name:      "lrange",
		Usage:     "Get a range of list elements",
		ArgsUsage: "<key> <start> <stop>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 3 {
				return cli.Exit("usage: lrange <key> <start> <stop>", 2)
			}
			args := append([]string{"LRANGE"}, c.Args().Slice()...)
			return execute(c, args...)
		},
	}
}

// ZAddCommand adds members to a sorted set.
func ZAddCommand() *cli.Command {
	return &cli.Command{
		Name:      "zadd",
		Usage:     "Add members to a sorted set",
		ArgsUsage: "<key> <score> <member> [score member ...]",
		Action: func(c *cli.Context) error {
			if c.NArg() < 3 || (c.NArg()-1)%2 != 0 {
				return cli.Exit("usage: zadd <key> <score> <member> [score member ...]", 2)
			}
			args := append([]string{"ZADD"}, c.Args().Slice()...)
			return execute(c, args...)
		},
	}
}

// ZRangeCommand reads a sorted set slice by rank.
func ZRangeCommand() *cli.Command {
	return &cli.Command{
		Name:      "zrange",
		Usage:     "Get a range of sorted set members by rank",
		ArgsUsage: "<key> <start> <stop>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 3 {
				return cli.Exit("usage: zrange <key> <start> <stop>", 2)
			}
			args := append([]string{"ZRANGE"}, c.Args().Slice()...)
			return execute(c, args...)
		},
	}
}

// ZRemCommand removes members from a sorted set.
func ZRemCommand() *cli.Command {
	return &cli.Command{
		Name:      "zrem",
		Usage:     "Remove members from a sorted set",
		ArgsUsage: "<key> <member> [member ...]",
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return cli.Exit("usage: zrem <key> <member> [member ...]", 2)
			}
			args := append([]string{"ZREM"}, c.Args().Slice()...)
			return execute(c, args...)
		},
	}
}

// REPLCommand starts the interactive shell.
func REPLCommand() *cli.Command {
	return &cli.Command{
		Name:  "repl",
		Usage: "Start an interactive shell",
		Action: func(c *cli.Context) error {
			client, err := dial(c)
			if err != nil {
				return err
			}
			defer client.Close()

			return repl.New(client).Run()
		},
	}
}
