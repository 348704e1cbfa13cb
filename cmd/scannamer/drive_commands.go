package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scannamer/internal/drive"
)

func newFoldersCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "folders",
		Short: "List the Drive folders visible to the authorized account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := buildLogger(cfg)
			if err != nil {
				return err
			}

			client, err := drive.NewClient(cmd.Context(), cfg.Drive.CredentialsFile, cfg.Drive.TokenFile, logger)
			if err != nil {
				return err
			}
			folders, err := client.ListFolders(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(folders))
			for _, folder := range folders {
				rows = append(rows, []string{folder.Name, folder.ID})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Name", "Folder ID"}, rows))
			return nil
		},
	}
}

func newAuthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authorize Drive access and store the OAuth token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := drive.Authorize(cmd.Context(), cfg.Drive.CredentialsFile, cfg.Drive.TokenFile,
				cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Token stored at %s\n", cfg.Drive.TokenFile)
			return nil
		},
	}
}
