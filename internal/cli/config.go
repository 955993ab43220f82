package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arishali16742/SOW/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management commands",
	}

	cmd.AddCommand(newConfigValidateCmd())
	return cmd
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			path := config.Path(cfgFile)
			fmt.Fprintf(w, "Validating config: %s\n", path)

			cfg, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if errs := config.Validate(cfg); len(errs) > 0 {
				fmt.Fprintln(w, "\nValidation errors:")
				for _, e := range errs {
					colorFail.Fprintf(w, "  - %v\n", e)
				}
				return fmt.Errorf("configuration is invalid")
			}

			colorPass.Fprintln(w, "\nConfiguration is valid!")
			fmt.Fprintf(w, "  - Model: %s (%s)\n", cfg.LLM.Model, cfg.LLM.Provider)
			fmt.Fprintf(w, "  - Storage: %s\n", cfg.Storage.Driver)
			fmt.Fprintf(w, "  - MinIO archive: %t\n", cfg.Minio.Enabled)
			fmt.Fprintf(w, "  - API clients: %d\n", len(cfg.Server.APIKeys))
			return nil
		},
	}
}
