package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/wopihost/cmd/app/commands"
	"github.com/allisson/wopihost/internal/app"
	"github.com/allisson/wopihost/internal/config"
)

func getUserCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-user",
			Usage: "Create a new user account with a generated secret",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Human-readable user name",
				},
				&cli.BoolFlag{
					Name:    "active",
					Aliases: []string{"a"},
					Value:   true,
					Usage:   "Whether the user can mint tokens immediately",
				},
				&cli.StringFlag{
					Name:    "permissions",
					Aliases: []string{"p"},
					Value:   "read,update",
					Usage:   "Comma-separated permission list (create, read, update, delete)",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				userUseCase, err := container.UserUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateUser(
					ctx,
					userUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("name"),
					cmd.Bool("active"),
					cmd.String("permissions"),
					cmd.String("format"),
				)
			},
		},
	}
}
