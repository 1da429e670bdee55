package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/duynguyendang/llm-playbook/pkg/config"
	"github.com/duynguyendang/llm-playbook/pkg/export"
	"github.com/duynguyendang/llm-playbook/pkg/playbook"
)

// GraphCmd returns the graph command
func GraphCmd() *cobra.Command {
	var (
		data           string
		out            string
		excludeMissing bool
		kinds          []string
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Export entity relations as a D3 node/link graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadArtifact(data)
			if err != nil {
				return err
			}

			transformer := export.NewD3Transformer()
			transformer.ExcludeMissing = excludeMissing
			if len(kinds) > 0 {
				transformer.Kinds = make(map[playbook.Kind]bool, len(kinds))
				for _, name := range kinds {
					k, ok := playbook.ParseKind(name)
					if !ok {
						return fmt.Errorf("unknown kind %q", name)
					}
					transformer.Kinds[k] = true
				}
			}

			graph := transformer.Transform(ds)
			if out == "" {
				return export.EncodeD3Graph(cmd.OutOrStdout(), graph)
			}
			if err := export.SaveD3Graph(graph, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d nodes and %d links to %s\n", len(graph.Nodes), len(graph.Links), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&data, "data", config.DefaultConfig().Output, "artifact to read")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (stdout when empty)")
	cmd.Flags().BoolVar(&excludeMissing, "exclude-missing", false, "drop relations to unknown entities")
	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "only include these entity kinds")
	return cmd
}
