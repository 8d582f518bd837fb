package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/ideajudge/internal/export"
	"github.com/ppiankov/ideajudge/internal/pipeline"
	"github.com/ppiankov/ideajudge/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	batchPDF     bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Evaluate multiple ideas from a YAML file in parallel",
	Long: `Batch evaluates many ideas concurrently:
- Read ideas from a YAML file (a list, or a document with an "ideas" key)
- Evaluate ideas in parallel, sharing one provider rate limit
- Write a JSON and Markdown report per idea
- Print a ranking by overall score

Example:
  ideajudge batch ideas.yaml
  ideajudge batch ideas.yaml --concurrency 4 --output-dir ./reviews
  ideajudge batch ideas.yaml --provider ollama --model qwen2.5:14b --pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: concurrency.workers)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./ideajudge-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&batchPDF, "pdf", false, "also export each report as PDF")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	addLLMFlags(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyFlags(cfg, cmd.Flags().Changed)

	workers := cfg.Concurrency.Workers
	if cmd.Flags().Changed("concurrency") {
		workers = concurrency
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  ideajudge Batch Evaluation\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, release, err := buildPipeline(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, pipeline.UserMessage(err))
		return err
	}
	defer release()

	var exporter *export.Exporter
	if batchPDF {
		if exporter, err = export.NewExporter(cfg.Export); err != nil {
			return fmt.Errorf("create exporter: %w", err)
		}
	}

	processor := worker.NewBatchProcessor(p, workers)

	fmt.Fprintf(os.Stderr, "⚙️  Evaluating ideas with %d workers...\n\n", workers)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	successCount := 0
	failureCount := 0
	renderer := p.Renderer()

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %s (%v)\n", result.Idea.Title, result.Message, result.Error)
			continue
		}

		stem := fmt.Sprintf("%02d-%s", result.Index+1, strings.TrimSuffix(export.FileName(result.Idea.Title), ".pdf"))
		jsonPath := filepath.Join(outputDir, stem+".json")
		mdPath := filepath.Join(outputDir, stem+".md")

		if err := renderer.RenderJSON(result.Report, jsonPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.Idea.Title, err)
			continue
		}
		if err := renderer.RenderMarkdown(result.Report, mdPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", result.Idea.Title, err)
			continue
		}
		if exporter != nil {
			if _, err := exporter.Export(ctx, result.Report, outputDir); err != nil {
				fmt.Fprintf(os.Stderr, "✗ %s: failed to export PDF: %v\n", result.Idea.Title, err)
			}
		}

		successCount++
		fmt.Fprintf(os.Stderr, "✓ %s (overall: %g/100)\n", result.Idea.Title, result.Report.Result.OverallScore)
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d ideas\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	// Ranking goes to stdout so it can be piped
	rank := 0
	for _, result := range worker.SortByScore(results) {
		if result.Report == nil {
			continue
		}
		rank++
		fmt.Printf("%2d. %5.1f  %s\n", rank, result.Report.Result.OverallScore, result.Idea.Title)
	}

	if failureCount > 0 && successCount == 0 {
		return fmt.Errorf("all %d evaluations failed", failureCount)
	}
	return nil
}
