package cli

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/duynguyendang/llm-playbook/pkg/config"
	"github.com/duynguyendang/llm-playbook/pkg/search"
)

// SearchCmd returns the search command
func SearchCmd() *cobra.Command {
	var (
		data   string
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Rank dataset entities against a query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadArtifact(data)
			if err != nil {
				return err
			}

			hits := search.NewIndex(ds).Search(args[0], limit)
			w := cmd.OutOrStdout()
			if asJSON {
				if hits == nil {
					hits = []search.Hit{}
				}
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(hits)
			}

			if len(hits) == 0 {
				fmt.Fprintf(w, "no matches for %q\n", args[0])
				return nil
			}
			bold := color.New(color.Bold).SprintFunc()
			faint := color.New(color.Faint).SprintFunc()
			for _, h := range hits {
				fmt.Fprintf(w, "%.2f  %-9s %s  %s\n", h.Score, h.Kind, bold(h.Label), faint(h.ID))
				if h.Excerpt != "" {
					fmt.Fprintf(w, "      %s\n", h.Excerpt)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&data, "data", config.DefaultConfig().Output, "artifact to search")
	cmd.Flags().IntVarP(&limit, "limit", "n", search.DefaultLimit, "maximum number of hits")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print hits as JSON")
	return cmd
}
