package main

import (
	"github.com/aretw0/smolbox/internal/cli"
	"github.com/aretw0/smolbox/pkg/domain"
	"github.com/spf13/cobra"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the current record",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.Close()

		rec, err := a.engine.Current(cmd.Context())
		if err != nil {
			return err
		}
		raw, _ := cmd.Flags().GetBool("json")
		return cli.PrintDocument(cmd.OutOrStdout(), "State", rec, raw)
	},
}

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the value stored under a key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.engine.Get(cmd.Context(), domain.Key(args[0]))
		if err != nil {
			return err
		}
		cli.PrintWarnings(cmd.ErrOrStderr(), a.logger, res)
		return cli.PrintValue(cmd.OutOrStdout(), res.Value)
	},
}

var setCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a path under a key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.engine.Set(cmd.Context(), domain.Key(args[0]), args[1])
		if err != nil {
			return err
		}
		cli.PrintWarnings(cmd.ErrOrStderr(), a.logger, res)
		if res.HasWarnings() {
			return nil
		}
		return cli.PrintValue(cmd.OutOrStdout(), res.Value)
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <key> [value]",
	Short: "Resolve the path a stage should read from or write to",
	Long: `Prints the path to use for key. An explicit value is stored and echoed.
Without a value (or with ` + domain.AutoResolve + `) the stored value is used; with --write
a fresh output directory is allocated when nothing is stored yet.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.Close()

		value := domain.Auto()
		if len(args) == 2 {
			value = domain.ParseValue(args[1])
		}
		write, _ := cmd.Flags().GetBool("write")

		resolved, err := a.engine.Resolve(cmd.Context(), domain.Key(args[0]), value, write)
		if err != nil {
			return err
		}
		return cli.PrintValue(cmd.OutOrStdout(), resolved)
	},
}

var updateCmd = &cobra.Command{
	Use:   "update key=value...",
	Short: "Merge several fields into the record",
	Long:  `Sets each key=value pair. An empty value (key=) clears the field. Unknown keys are skipped with a warning.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		partial, err := cli.ParseAssignments(args)
		if err != nil {
			return err
		}

		a, err := setup()
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.engine.Update(cmd.Context(), partial)
		if err != nil {
			return err
		}
		cli.PrintWarnings(cmd.ErrOrStderr(), a.logger, res)
		return cli.PrintJSON(cmd.OutOrStdout(), res.Value)
	},
}

func init() {
	rootCmd.AddCommand(stateCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(updateCmd)

	stateCmd.Flags().Bool("json", false, "Print raw JSON even on a terminal")
	resolveCmd.Flags().BoolP("write", "w", false, "Resolve in output role (allocate when unset)")
}
