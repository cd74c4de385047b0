package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "costeo",
		Short:        "Product cost allocation from a snapshot file",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(calcCmd())
	rootCmd.AddCommand(projectCmd())
	rootCmd.AddCommand(compareCmd())
	rootCmd.AddCommand(requirementsCmd())
	return rootCmd
}

func calcCmd() *cobra.Command {
	var (
		file   string
		month  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Allocate indirect costs for the snapshot's target month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCalc(cmd.OutOrStdout(), file, month, asJSON)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "snapshot file (YAML or JSON)")
	cmd.Flags().StringVarP(&month, "month", "m", "", "override the snapshot's target month (YYYY-MM)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func projectCmd() *cobra.Command {
	var (
		file     string
		from, to string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Cost every month of a period using the snapshot's monthly plans",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProject(cmd.OutOrStdout(), file, from, to, asJSON)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "snapshot file (YAML or JSON)")
	cmd.Flags().StringVar(&from, "from", "", "first projected month (YYYY-MM)")
	cmd.Flags().StringVar(&to, "to", "", "last projected month (YYYY-MM)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func compareCmd() *cobra.Command {
	var (
		file   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the snapshot's scenarios against its base allocation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompare(cmd.OutOrStdout(), file, asJSON)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "snapshot file (YAML or JSON)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func requirementsCmd() *cobra.Command {
	var (
		file   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "requirements",
		Short: "List the raw materials the snapshot's plan consumes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRequirements(cmd.OutOrStdout(), file, asJSON)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "snapshot file (YAML or JSON)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
