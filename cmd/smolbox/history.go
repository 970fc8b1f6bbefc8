package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/smolbox/internal/cli"
	"github.com/aretw0/smolbox/pkg/domain"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the archived records, oldest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.Close()

		entries, err := a.engine.History(cmd.Context())
		if err != nil {
			return err
		}
		if entries == nil {
			entries = []domain.Record{}
		}
		raw, _ := cmd.Flags().GetBool("json")
		return cli.PrintDocument(cmd.OutOrStdout(), "History", entries, raw)
	},
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List allocated model directories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		models, err := a.engine.ListModels(cmd.Context())
		if errors.Is(err, domain.ErrNoModelsDir) {
			fmt.Fprintln(out, "No models directory found.")
			return nil
		}
		if err != nil {
			return err
		}
		for _, m := range models {
			fmt.Fprintln(out, m)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(modelsCmd)

	historyCmd.Flags().Bool("json", false, "Print raw JSON even on a terminal")
}
