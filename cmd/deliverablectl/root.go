package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand(build appBuilder) *cobra.Command {
	var adminFlag string
	var jsonFlag bool

	ctx := newCommandContext(&adminFlag, &jsonFlag, build)

	rootCmd := &cobra.Command{
		Use:           "deliverablectl",
		Short:         "Inspect and repair creator deliverable reviews",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&adminFlag, "admin", "", "Admin user id recorded on changes made by the CLI")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Print JSON instead of tables")

	rootCmd.AddCommand(newStatusesCommand(ctx))
	rootCmd.AddCommand(newShowCommand(ctx))
	rootCmd.AddCommand(newUnlockCommand(ctx))
	rootCmd.AddCommand(newTokenCommand())

	return rootCmd
}
