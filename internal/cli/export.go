package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/ideajudge/internal/pipeline"
)

var exportDir string

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <report.json>",
	Short: "Export a saved JSON report as a paginated PDF",
	Long: `Export renders a report written by 'ideajudge evaluate --json' to PDF
without calling the model again.

Example:
  ideajudge export report.json
  ideajudge export report.json --dir ./pdf`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		report, err := pipeline.LoadJSON(args[0])
		if err != nil {
			return err
		}

		dir := exportDir
		if dir == "" {
			dir = cfg.Export.OutputDir
		}

		path, err := exportReport(context.Background(), cfg, report, dir)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote PDF: %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportDir, "dir", "", "output directory (default: export.output_dir)")
}
