package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/ghodss/yaml"
	"github.com/gosuri/uitable"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"admindesk/client"
	"admindesk/internal/model"
)

var userCommand = &cli.Command{
	Name:  "user",
	Usage: "Manage users",
	Subcommands: []*cli.Command{
		{
			Name:  "list",
			Usage: "Retrieve a page of users",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    flagQuery,
					Aliases: []string{"q"},
					Usage:   "Only show users whose email or name contains this text",
				},
				&cli.StringFlag{
					Name:  flagSort,
					Usage: "Sort by this key; one of createdAt, name, email, role",
				},
				&cli.StringFlag{
					Name:  flagDir,
					Usage: "Sort direction; asc or desc",
				},
				&cli.IntFlag{
					Name:  flagPage,
					Usage: "Start from the specified page",
					Value: 1,
				},
				cliFlagOutput,
			},
			Action: userList,
		},
		{
			Name:  "get",
			Usage: "Retrieve a user",
			Flags: []cli.Flag{
				&cli.UintFlag{
					Name:     flagID,
					Aliases:  []string{"i"},
					Usage:    "Retrieve the specified user (required)",
					Required: true,
				},
				cliFlagOutput,
			},
			Action: userGet,
		},
		{
			Name:  "create",
			Usage: "Create a user with a temporary password",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     flagEmail,
					Aliases:  []string{"e"},
					Usage:    "Email address of the new user (required)",
					Required: true,
				},
				&cli.StringFlag{
					Name:     flagName,
					Aliases:  []string{"n"},
					Usage:    "Display name of the new user (required)",
					Required: true,
				},
				&cli.StringFlag{
					Name:  flagRole,
					Usage: "Role of the new user; ADMIN or USER (default USER)",
				},
				cliFlagOutput,
			},
			Action: userCreate,
		},
		{
			Name:  "update",
			Usage: "Change a user's name or role; omitted flags leave fields untouched",
			Flags: []cli.Flag{
				&cli.UintFlag{
					Name:     flagID,
					Aliases:  []string{"i"},
					Usage:    "Update the specified user (required)",
					Required: true,
				},
				&cli.StringFlag{
					Name:    flagName,
					Aliases: []string{"n"},
					Usage:   "New display name",
				},
				&cli.StringFlag{
					Name:  flagRole,
					Usage: "New role; ADMIN or USER",
				},
				cliFlagOutput,
			},
			Action: userUpdate,
		},
		{
			Name:  "delete",
			Usage: "Delete a user",
			Flags: []cli.Flag{
				&cli.UintFlag{
					Name:     flagID,
					Aliases:  []string{"i"},
					Usage:    "Delete the specified user (required)",
					Required: true,
				},
				&cli.BoolFlag{
					Name:    flagYes,
					Aliases: []string{"y"},
					Usage:   "Skip the confirmation prompt",
				},
			},
			Action: userDelete,
		},
	},
}

func userList(c *cli.Context) error {
	output := c.String(flagOutput)
	if err := validateOutputFormat(output); err != nil {
		return err
	}

	apiClient, err := getClient()
	if err != nil {
		return err
	}

	opts := client.ListOptions{
		Page: c.Int(flagPage),
		Q:    c.String(flagQuery),
		Sort: c.String(flagSort),
		Dir:  c.String(flagDir),
	}

	for {
		page, err := apiClient.ListUsers(c.Context, opts)
		if err != nil {
			return err
		}

		if len(page.Items) == 0 {
			fmt.Println("No users found.")
			return nil
		}

		switch strings.ToLower(output) {
		case "table":
			table := uitable.New()
			table.AddRow("ID", "EMAIL", "NAME", "ROLE", "CREATED")
			for _, user := range page.Items {
				table.AddRow(
					user.ID,
					user.Email,
					user.Name,
					user.Role,
					user.CreatedAt,
				)
			}
			fmt.Println(table)
			fmt.Printf("\nPage %d of %d (%d users total)\n", page.Page, page.Pages, page.Total)

		case "yaml":
			yamlBytes, err := yaml.Marshal(page)
			if err != nil {
				return errors.Wrap(err, "error formatting output from list users operation")
			}
			fmt.Println(string(yamlBytes))

		case "json":
			prettyJSON, err := json.MarshalIndent(page, "", "  ")
			if err != nil {
				return errors.Wrap(err, "error formatting output from list users operation")
			}
			fmt.Println(string(prettyJSON))
		}

		if page.Page >= page.Pages {
			break
		}

		// Exit after one page of output if this isn't a terminal
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			break
		}

		var shouldContinue bool
		fmt.Println()
		if err := survey.AskOne(
			&survey.Confirm{
				Message: fmt.Sprintf("%d pages remain. Fetch more?", page.Pages-page.Page),
			},
			&shouldContinue,
		); err != nil {
			return errors.Wrap(err, "error confirming if user wishes to continue")
		}
		fmt.Println()
		if !shouldContinue {
			break
		}

		opts.Page = page.Page + 1
	}

	return nil
}

func userGet(c *cli.Context) error {
	id := uint(c.Uint(flagID))
	output := c.String(flagOutput)
	if err := validateOutputFormat(output); err != nil {
		return err
	}

	apiClient, err := getClient()
	if err != nil {
		return err
	}

	user, err := apiClient.GetUser(c.Context, id)
	if err != nil {
		return err
	}
	return printUser(user, output)
}

func userCreate(c *cli.Context) error {
	output := c.String(flagOutput)
	if err := validateOutputFormat(output); err != nil {
		return err
	}

	role, err := parseRole(c.String(flagRole))
	if err != nil {
		return err
	}

	apiClient, err := getClient()
	if err != nil {
		return err
	}

	user, err := apiClient.CreateUser(c.Context, client.CreateUserOptions{
		Email: c.String(flagEmail),
		Name:  c.String(flagName),
		Role:  role,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Created user %d.\n\n", user.ID)
	return printUser(user, output)
}

func userUpdate(c *cli.Context) error {
	id := uint(c.Uint(flagID))
	output := c.String(flagOutput)
	if err := validateOutputFormat(output); err != nil {
		return err
	}

	opts := client.UpdateUserOptions{}
	if c.IsSet(flagName) {
		name := c.String(flagName)
		opts.Name = &name
	}
	if c.IsSet(flagRole) {
		role, err := parseRole(c.String(flagRole))
		if err != nil {
			return err
		}
		opts.Role = &role
	}
	if opts.Name == nil && opts.Role == nil {
		return errors.New("nothing to update; supply --name or --role")
	}

	apiClient, err := getClient()
	if err != nil {
		return err
	}

	user, err := apiClient.UpdateUser(c.Context, id, opts)
	if err != nil {
		return err
	}

	fmt.Printf("Updated user %d.\n\n", user.ID)
	return printUser(user, output)
}

func userDelete(c *cli.Context) error {
	id := uint(c.Uint(flagID))

	if !c.Bool(flagYes) {
		var confirmed bool
		if err := survey.AskOne(
			&survey.Confirm{
				Message: fmt.Sprintf("Delete user %d?", id),
			},
			&confirmed,
		); err != nil {
			return errors.Wrap(err, "error confirming delete")
		}
		if !confirmed {
			fmt.Println("Aborted.")
			return nil
		}
	}

	apiClient, err := getClient()
	if err != nil {
		return err
	}

	if err := apiClient.DeleteUser(c.Context, id); err != nil {
		return err
	}

	fmt.Printf("Deleted user %d.\n", id)
	return nil
}

func printUser(user *model.User, output string) error {
	switch strings.ToLower(output) {
	case "table":
		table := uitable.New()
		table.AddRow("ID", "EMAIL", "NAME", "ROLE", "CREATED")
		table.AddRow(user.ID, user.Email, user.Name, user.Role, user.CreatedAt)
		fmt.Println(table)

	case "yaml":
		yamlBytes, err := yaml.Marshal(user)
		if err != nil {
			return errors.Wrap(err, "error formatting user")
		}
		fmt.Println(string(yamlBytes))

	case "json":
		prettyJSON, err := json.MarshalIndent(user, "", "  ")
		if err != nil {
			return errors.Wrap(err, "error formatting user")
		}
		fmt.Println(string(prettyJSON))
	}
	return nil
}

func parseRole(raw string) (model.Role, error) {
	if raw == "" {
		return "", nil
	}
	role := model.Role(strings.ToUpper(raw))
	if !role.Valid() {
		return "", errors.Errorf("invalid role %q; must be ADMIN or USER", raw)
	}
	return role, nil
}

func validateOutputFormat(output string) error {
	switch strings.ToLower(output) {
	case "table", "json", "yaml":
		return nil
	default:
		return errors.Errorf("unknown output format %q", output)
	}
}
