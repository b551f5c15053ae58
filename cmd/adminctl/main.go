package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.NewApp()
	app.Name = "adminctl"
	app.Usage = "Manage admindesk users from the terminal"
	app.Commands = []*cli.Command{
		loginCommand,
		logoutCommand,
		userCommand,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}
