package main

import (
	"context"
	"os"

	"github.com/aretw0/smolbox/internal/cli"
	"github.com/aretw0/smolbox/internal/presentation/tui"
	"github.com/aretw0/smolbox/pkg/domain"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Start a fresh pipeline",
	Long:  `Deletes any existing state, history and allocated directories, then creates an empty record.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.engine.Init(cmd.Context()); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if f, ok := out.(*os.File); ok && tui.IsTerminal(f) {
			tui.PrintBanner(out)
		}
		tui.Success(out, "Initialized empty pipeline in "+a.engine.Root())
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all pipeline state",
	Long:  `Irreversibly removes the state record, the history and every allocated directory.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.engine.Reset(cmd.Context()); err != nil {
			return err
		}
		cli.PrintSystemMessage(cmd.OutOrStdout(), "Removed %s", a.engine.Root())
		return nil
	},
}

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Advance to the next stage",
	Long: `Archives the current record, then moves every output path into its input
slot and clears the outputs.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var diff *domain.RecordDiff
		a, err := setup(domain.LifecycleHooks{
			OnAdvance: func(ctx context.Context, e *domain.AdvanceEvent) {
				diff = e.Diff
			},
		})
		if err != nil {
			return err
		}
		defer a.Close()

		rec, err := a.engine.Advance(cmd.Context())
		if err != nil {
			return err
		}

		raw, _ := cmd.Flags().GetBool("json")
		if err := cli.PrintDocument(cmd.OutOrStdout(), "Next Stage", rec, raw); err != nil {
			return err
		}
		cli.PrintDiff(cmd.ErrOrStderr(), diff)
		return nil
	},
}

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Append the current record to the history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.engine.Commit(cmd.Context(), nil); err != nil {
			return err
		}
		cli.PrintSystemMessage(cmd.OutOrStdout(), "Committed current state to history.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(commitCmd)

	nextCmd.Flags().Bool("json", false, "Print raw JSON even on a terminal")
}
