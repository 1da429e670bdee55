package cli

import (
	"github.com/spf13/cobra"
)

// RootCmd returns the playbook command tree. Running it without a
// subcommand performs a build.
func RootCmd() *cobra.Command {
	f := &buildFlags{}
	rootCmd := &cobra.Command{
		Use:   "playbook",
		Short: "Build and inspect the LLM playbook dataset",
		Long: `playbook compiles a directory of markdown documents with YAML front-matter
into a single validated JSON dataset of patterns, workflows, tools, prompts,
metrics and risks.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, f)
		},
	}
	addBuildFlags(rootCmd, f)

	rootCmd.AddCommand(BuildCmd())
	rootCmd.AddCommand(ValidateCmd())
	rootCmd.AddCommand(SearchCmd())
	rootCmd.AddCommand(GraphCmd())
	return rootCmd
}
