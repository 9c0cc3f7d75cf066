package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/requestguard/cmd/app/commands"
	"github.com/allisson/requestguard/internal/app"
	"github.com/allisson/requestguard/internal/config"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-master-key",
			Usage: "Generate a new SECRETS_MASTER_KEY, optionally sealed with a KMS",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "encoding",
					Aliases: []string{"e"},
					Value:   commands.EncodingBase64,
					Usage:   "Passphrase encoding: 'base64' or 'hex'",
				},
				&cli.StringFlag{
					Name:  "kms-key-uri",
					Value: "",
					Usage: "KMS key URI used to seal the passphrase (e.g., base64key://, gcpkms://projects/.../cryptoKeys/...)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunCreateMasterKey(
					ctx,
					container.KMSService(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("encoding"),
					cmd.String("kms-key-uri"),
				)
			},
		},
		{
			Name:  "derive-key-fingerprint",
			Usage: "Print the fingerprint of the vault key derived from SECRETS_MASTER_KEY",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunDeriveKeyFingerprint(ctx, container.KeySource(), commands.DefaultIO().Writer)
			},
		},
	}
}
