package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/duynguyendang/llm-playbook/internal/logger"
	"github.com/duynguyendang/llm-playbook/pkg/config"
	"github.com/duynguyendang/llm-playbook/pkg/ingest"
	"github.com/duynguyendang/llm-playbook/pkg/playbook"
)

type buildFlags struct {
	configPath string
	corpus     string
	out        string
	version    string
	strict     bool
	workers    int
	logMode    string
}

func addBuildFlags(cmd *cobra.Command, f *buildFlags) {
	defaults := config.DefaultConfig()
	cmd.Flags().StringVar(&f.configPath, "config", "", "YAML config file")
	cmd.Flags().StringVar(&f.corpus, "corpus", defaults.CorpusDir, "directory of markdown source documents")
	cmd.Flags().StringVarP(&f.out, "out", "o", defaults.Output, "path of the JSON artifact")
	cmd.Flags().StringVar(&f.version, "version", defaults.Version, "dataset version string")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "fail when any document is skipped")
	cmd.Flags().IntVar(&f.workers, "workers", defaults.Workers, "parallel document parsers")
	cmd.Flags().StringVar(&f.logMode, "log-mode", defaults.LogMode, "log encoder: dev or prod")
}

// resolveConfig loads the config file if one was given, then applies
// every flag the user set explicitly.
func (f *buildFlags) resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.DefaultConfig()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("corpus") {
		cfg.CorpusDir = f.corpus
	}
	if flags.Changed("out") {
		cfg.Output = f.out
	}
	if flags.Changed("version") {
		cfg.Version = f.version
	}
	if flags.Changed("strict") {
		cfg.Strict = f.strict
	}
	if flags.Changed("workers") {
		cfg.Workers = f.workers
	}
	if flags.Changed("log-mode") {
		cfg.LogMode = f.logMode
	}
	return cfg, cfg.Validate()
}

func runBuild(cmd *cobra.Command, f *buildFlags) error {
	cfg, err := f.resolveConfig(cmd)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	res, err := ingest.Build(cmd.Context(), cfg, ingest.Options{Log: log})
	if err != nil {
		return err
	}
	printBuildSummary(cmd.OutOrStdout(), res)
	return nil
}

// BuildCmd returns the build command
func BuildCmd() *cobra.Command {
	f := &buildFlags{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile the markdown corpus into the JSON dataset",
		Long: `Reads every markdown document under the corpus directory, validates the
resulting dataset and atomically replaces the artifact. Nothing is written
unless the whole dataset is valid.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, f)
		},
	}
	addBuildFlags(cmd, f)
	return cmd
}

func printBuildSummary(w io.Writer, res *ingest.Result) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintf(w, "%s wrote %s (version %s, %s)\n", green("✓"), res.Output, res.Dataset.Version, res.Dataset.UpdatedAt)
	for _, k := range playbook.Kinds() {
		fmt.Fprintf(w, "  %-10s %d\n", k.Plural(), res.Report.Counts[k])
	}
	for _, s := range res.Report.Skipped {
		fmt.Fprintf(w, "%s skipped %s: %s%s\n", yellow("!"), s.Path, s.Reason, didYouMean(s.Suggestion))
	}
	for _, warn := range res.Report.Warnings {
		fmt.Fprintf(w, "%s %s %q: %s%s\n", yellow("!"), warn.Kind, warn.ID, warn.Message, didYouMean(warn.Suggestion))
	}
}

func didYouMean(s string) string {
	if s == "" {
		return ""
	}
	return fmt.Sprintf(" (did you mean %q?)", s)
}
