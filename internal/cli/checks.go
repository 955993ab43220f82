package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arishali16742/SOW/internal/domain/checks"
	"github.com/arishali16742/SOW/internal/middleware"
)

func newChecksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checks",
		Short: "Manage the registered compliance checks",
	}

	cmd.AddCommand(newChecksListCmd())
	cmd.AddCommand(newChecksAddCmd())
	cmd.AddCommand(newChecksUpdateCmd())
	cmd.AddCommand(newChecksRemoveCmd())
	cmd.AddCommand(newChecksResetCmd())
	return cmd
}

func newChecksListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the registered checks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer app.Close()

			list, err := app.Checks.List(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), list)
			}
			printChecks(cmd.OutOrStdout(), list)
			return nil
		},
	}
}

func newChecksAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add [title] [prompt]",
		Short: "Register a new check",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := middleware.ValidateTitle(args[0]); err != nil {
				return err
			}
			if err := middleware.ValidatePrompt(args[1]); err != nil {
				return err
			}
			app, err := loadApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer app.Close()

			c, err := app.Checks.Add(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), c)
			}
			colorPass.Fprint(cmd.OutOrStdout(), "Added ")
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", c.Title, c.ID)
			return nil
		},
	}
}

func newChecksUpdateCmd() *cobra.Command {
	var title, prompt string

	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Change the title or prompt of a check",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := middleware.ValidateCheckID(args[0]); err != nil {
				return err
			}
			if title == "" && prompt == "" {
				return fmt.Errorf("nothing to update: pass --title and/or --prompt")
			}
			app, err := loadApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer app.Close()

			list, err := app.Checks.List(cmd.Context())
			if err != nil {
				return err
			}
			i := checks.IndexOf(list, args[0])
			if i < 0 {
				return fmt.Errorf("%w: %s", checks.ErrCheckNotFound, args[0])
			}
			if title == "" {
				title = list[i].Title
			}
			if prompt == "" {
				prompt = list[i].Prompt
			}

			c, err := app.Checks.Update(cmd.Context(), args[0], title, prompt)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), c)
			}
			colorPass.Fprint(cmd.OutOrStdout(), "Updated ")
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", c.Title, c.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&prompt, "prompt", "", "new prompt")
	return cmd
}

func newChecksRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove [id]",
		Aliases: []string{"rm"},
		Short:   "Remove a check",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := middleware.ValidateCheckID(args[0]); err != nil {
				return err
			}
			app, err := loadApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Checks.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			colorWarn.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
}

func newChecksResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the built-in check list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer app.Close()

			list, err := app.Checks.Reset(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), list)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %d built-in checks\n", len(list))
			return nil
		},
	}
}
