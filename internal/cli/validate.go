package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	apperrors "github.com/duynguyendang/llm-playbook/pkg/common/errors"
	"github.com/duynguyendang/llm-playbook/pkg/config"
	"github.com/duynguyendang/llm-playbook/pkg/playbook"
)

// loadArtifact opens and validates a dataset artifact. A missing or
// unreadable file is rejected the same way a malformed one is.
func loadArtifact(path string) (*playbook.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidArtifact, err)
	}
	defer f.Close()
	return playbook.Decode(f)
}

// ValidateCmd returns the validate command
func ValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [artifact]",
		Short: "Check an existing artifact against the dataset contract",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultConfig().Output
			if len(args) == 1 {
				path = args[0]
			}

			ds, err := loadArtifact(path)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s %s is valid: %d entities (version %s, %s)\n",
				color.GreenString("✓"), path, ds.Len(), ds.Version, ds.UpdatedAt)
			for _, k := range playbook.Kinds() {
				fmt.Fprintf(w, "  %-10s %d\n", k.Plural(), ds.Count(k))
			}
			return nil
		},
	}
}
