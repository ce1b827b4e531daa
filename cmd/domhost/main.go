// Command domhost mounts bridge guests into an HTML page and drives them
// from the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

const version = "0.1.0"

var flags = []cli.Flag{
	&cli.StringFlag{
		Name:    "log-level",
		Usage:   "set logging `level` to debug, info, warn or error",
		Value:   "warn",
		EnvVars: []string{"DOMHOST_LOG_LEVEL"},
	},
	&cli.StringFlag{
		Name:    "log-format",
		Usage:   "`format` logs as console or json",
		Value:   "console",
		EnvVars: []string{"DOMHOST_LOG_FORMAT"},
	},
}

var commands = []*cli.Command{
	describeCommand(),
	renderCommand(),
	interactiveCommand(),
}

func main() {
	app := &cli.App{
		Name:      "domhost",
		Usage:     "mount wasm UI components into an HTML document",
		UsageText: "domhost [global options] command [command options] <guest.wasm>",
		Version:   version,
		Flags:     flags,
		Commands:  commands,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
