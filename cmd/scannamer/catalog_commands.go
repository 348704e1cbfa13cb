package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

func newProvidersCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List the configured LLM providers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			names := make([]string, 0, len(cfg.LLM.Providers))
			for name := range cfg.LLM.Providers {
				names = append(names, name)
			}
			sort.Strings(names)

			rows := make([][]string, 0, len(names))
			for _, name := range names {
				provider := cfg.LLM.Providers[name]
				active := ""
				if name == cfg.LLM.Provider {
					active = "*"
				}
				rows = append(rows, []string{
					name + active,
					provider.DefaultModel,
					provider.APIKeyEnv,
					fmt.Sprintf("%d", len(provider.PDFModels)),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(),
				renderTable([]string{"Provider", "Default Model", "Credential Env", "PDF Models"}, rows, 4))
			return nil
		},
	}
}

func newModelsCommand(ctx *commandContext) *cobra.Command {
	var providerFlag string

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the known models for a provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			name := strings.ToLower(strings.TrimSpace(providerFlag))
			if name == "" {
				name = cfg.LLM.Provider
			}
			provider, ok := cfg.LLM.Providers[name]
			if !ok {
				return fmt.Errorf("unknown provider %q", name)
			}

			rows := make([][]string, 0, len(provider.AvailableModels))
			for _, model := range provider.AvailableModels {
				isDefault := ""
				if model == provider.DefaultModel {
					isDefault = "*"
				}
				rows = append(rows, []string{
					model + isDefault,
					yesNo(provider.SupportsPDF(model)),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(),
				renderTable([]string{"Model", "PDF Upload"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&providerFlag, "provider", "", "Provider to list (defaults to the configured one)")
	return cmd
}
