package main

import (
	"fmt"
	"os"
	"syscall"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"admindesk/client"
)

var loginCommand = &cli.Command{
	Name:  "login",
	Usage: "Log in to an admindesk server and store the session",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     flagServer,
			Aliases:  []string{"s"},
			Usage:    "Base address of the API server, e.g. http://localhost:8080 (required)",
			Required: true,
		},
		&cli.StringFlag{
			Name:     flagEmail,
			Aliases:  []string{"e"},
			Usage:    "Email address to log in with (required)",
			Required: true,
		},
	},
	Action: login,
}

var logoutCommand = &cli.Command{
	Name:   "logout",
	Usage:  "Discard the stored session",
	Action: logout,
}

func login(c *cli.Context) error {
	apiAddress := c.String(flagServer)
	email := c.String(flagEmail)

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	apiClient := client.New(apiAddress, nil, nil)
	result, err := apiClient.Login(c.Context, email, password)
	if err != nil {
		return errors.Wrap(err, "login failed")
	}

	if err := saveConfig(&sessionConfig{
		APIAddress: apiAddress,
		Token:      result.Token,
	}); err != nil {
		return errors.Wrap(err, "error persisting session")
	}

	fmt.Printf("Logged in as %s (%s).\n", result.User.Email, result.User.Role)
	return nil
}

func logout(c *cli.Context) error {
	if err := deleteConfig(); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		// Not a terminal; fall back to a plain line read so the command
		// still works in scripts.
		var password string
		if _, scanErr := fmt.Fscanln(os.Stdin, &password); scanErr != nil {
			return "", errors.Wrap(err, "error reading password")
		}
		return password, nil
	}
	return string(passwordBytes), nil
}
