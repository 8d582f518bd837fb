package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ppiankov/ideajudge/internal/model"
	"github.com/ppiankov/ideajudge/internal/rubric"
)

// policiesCmd lists the built-in rubric policies
var policiesCmd = &cobra.Command{
	Use:   "policies",
	Short: "List rubric policies, their categories and dimension weights",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writePolicies(rubric.DefaultRegistry())
	},
}

func init() {
	rootCmd.AddCommand(policiesCmd)
}

func writePolicies(registry *rubric.Registry) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	for _, p := range registry.Policies() {
		weights := p.Weights()
		fmt.Fprintf(w, "%s\t%s\n", p.Name(), p.Label())
		fmt.Fprintf(w, "  weights\t")
		for _, dim := range model.DimensionKeys {
			fmt.Fprintf(w, "%s=%g ", dim, weights[dim])
		}
		fmt.Fprintln(w)
		for _, c := range p.Categories() {
			fmt.Fprintf(w, "  %s\t%s\n", c.Code, c.Label)
		}
		fmt.Fprintln(w)
	}

	return w.Flush()
}
