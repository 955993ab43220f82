package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arishali16742/SOW/internal/bootstrap"
	"github.com/arishali16742/SOW/internal/config"
	"github.com/arishali16742/SOW/internal/domain/ai"
	"github.com/arishali16742/SOW/internal/logging"
)

var (
	cfgFile    string
	jsonOutput bool
	version    = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "sowctl",
	Short: "Statement-of-Work compliance auditor",
	Long: `sowctl audits Statement-of-Work documents against a list of natural-language
checks using an LLM, keeps a history of scans and reports trends over it.

Supported documents: .docx, .pdf, .html, .htm, .txt`,
	SilenceUsage: true,
}

// Execute runs the root command; ctx is cancelled on interrupt by main.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion is called from main with the build version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default $CONFIG_PATH or config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print machine readable JSON")

	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newAskCmd())
	rootCmd.AddCommand(newSuggestCmd())
	rootCmd.AddCommand(newHighlightCmd())
	rootCmd.AddCommand(newChecksCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newMCPCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sowctl version %s\n", version)
		},
	}
}

// loadConfig reads the config and validates it. Commands that never call the
// model skip the llm section.
func loadConfig(needLLM bool) (*config.Config, error) {
	path := config.Path(cfgFile)
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var errs []error
	for _, e := range config.Validate(cfg) {
		if !needLLM {
			var ve config.ValidationError
			if errors.As(e, &ve) && strings.HasPrefix(ve.Field, "llm.") {
				continue
			}
		}
		errs = append(errs, e)
	}
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "config error: %v\n", e)
		}
		return nil, fmt.Errorf("invalid configuration (%s)", path)
	}
	return cfg, nil
}

// loadApp wires the application for one command run.
func loadApp(ctx context.Context, needLLM bool) (*bootstrap.App, error) {
	cfg, err := loadConfig(needLLM)
	if err != nil {
		return nil, err
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	var client ai.Client
	if !needLLM {
		client = offlineClient{}
	}
	return bootstrap.New(ctx, cfg, logger, client)
}

// offlineClient backs commands that only read or edit stored data.
type offlineClient struct{}

func (offlineClient) Generate(context.Context, ai.Prompt) (string, error) {
	return "", fmt.Errorf("%w: command runs without a model", ai.ErrModelUnavailable)
}
