package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/ideajudge/internal/export"
	"github.com/ppiankov/ideajudge/internal/model"
	"github.com/ppiankov/ideajudge/internal/pipeline"
)

var (
	ideaTitle       string
	ideaDescription string
	ideaTrack       string
	ideaCategory    string
	ideaFile        string
	outJSON         string
	outMD           string
	pdfDir          string
	evalTimeout     time.Duration
	exportPDF       bool
)

// evaluateCmd represents the evaluate command
var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate one idea and render the expert review",
	Long: `Evaluate sends one project idea to the expert panel and renders the review:
- Compile the category's rubric into a single structured request
- Validate the answer against the response contract
- Flag inconsistent totals, weak dimensions and shallow comments
- Write JSON, Markdown and PDF outputs on request

Example:
  ideajudge evaluate --title 智能拐杖 --description "..." --track 高教主赛道 --category MED_DEVICE_ROBOT
  ideajudge evaluate --idea-file idea.yaml --json report.json --md report.md
  ideajudge evaluate --idea-file idea.yaml --provider openai --model gpt-4o --pdf`,
	Args: cobra.NoArgs,
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	// Idea flags
	evaluateCmd.Flags().StringVar(&ideaTitle, "title", "", "project title")
	evaluateCmd.Flags().StringVar(&ideaDescription, "description", "", "project description (at least 20 characters)")
	evaluateCmd.Flags().StringVar(&ideaTrack, "track", string(model.TrackHigherEdu), "competition track")
	evaluateCmd.Flags().StringVar(&ideaCategory, "category", "", "category code (see 'ideajudge policies')")
	evaluateCmd.Flags().StringVar(&ideaFile, "idea-file", "", "YAML file with title, description, track and category")

	// Output flags
	evaluateCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path (empty to skip)")
	evaluateCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	evaluateCmd.Flags().BoolVar(&exportPDF, "pdf", false, "export the report as a paginated PDF")
	evaluateCmd.Flags().StringVar(&pdfDir, "pdf-dir", "", "directory for the PDF (default: export.output_dir)")
	evaluateCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	evaluateCmd.Flags().DurationVar(&evalTimeout, "timeout", 5*time.Minute, "overall evaluation timeout")

	addLLMFlags(evaluateCmd)
}

func addLLMFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&llmProvider, "provider", "", "LLM provider (gemini, openai, anthropic, ollama)")
	cmd.Flags().StringVar(&llmModel, "model", "", "LLM model name")
	cmd.Flags().IntVar(&llmTimeout, "llm-timeout", 0, "per-request LLM timeout in seconds")
	cmd.Flags().StringVar(&rubricPin, "policy", "", "pin a rubric policy (eng, med, agri, arts, frontier)")
	cmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	cmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyFlags(cfg, cmd.Flags().Changed)

	idea, err := ideaFromFlags(cmd)
	if err != nil {
		return err
	}

	p, release, err := buildPipeline(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, pipeline.UserMessage(err))
		return err
	}
	defer release()

	// Ctrl-C cancels the evaluation instead of killing the process mid-write
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if verbose {
		fmt.Fprintf(os.Stderr, "Evaluating: %s\n", idea.Title)
		fmt.Fprintf(os.Stderr, "Provider: %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", evalTimeout)
		fmt.Fprintln(os.Stderr)
	}

	session := pipeline.NewSession(p)
	if _, err := session.Submit(ctx, idea); err != nil {
		fmt.Fprintln(os.Stderr, pipeline.UserMessage(err))
		return err
	}

	waitCtx, cancel := context.WithTimeout(ctx, evalTimeout)
	defer cancel()

	snap, err := session.Wait(waitCtx)
	if err != nil {
		session.Cancel()
		if errors.Is(ctx.Err(), context.Canceled) {
			return fmt.Errorf("evaluation cancelled")
		}
		return fmt.Errorf("evaluation timed out after %v", evalTimeout)
	}

	if snap.State == pipeline.StateFailed {
		fmt.Fprintln(os.Stderr, snap.Message)
		return fmt.Errorf("evaluation failed: %w", snap.Err)
	}

	report := snap.Report
	if err := p.RenderReport(report, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if exportPDF {
		dir := pdfDir
		if dir == "" {
			dir = cfg.Export.OutputDir
		}
		path, err := exportReport(ctx, cfg, report, dir)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote PDF: %s\n", path)
	}

	return nil
}

// ideaFromFlags reads the idea from --idea-file, letting explicit flags override it
func ideaFromFlags(cmd *cobra.Command) (model.Idea, error) {
	var idea model.Idea
	if ideaFile != "" {
		data, err := os.ReadFile(ideaFile)
		if err != nil {
			return idea, fmt.Errorf("read idea file: %w", err)
		}
		if err := yaml.Unmarshal(data, &idea); err != nil {
			return idea, fmt.Errorf("parse idea file: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("title") || idea.Title == "" {
		idea.Title = ideaTitle
	}
	if flags.Changed("description") || idea.Description == "" {
		idea.Description = ideaDescription
	}
	if flags.Changed("track") || idea.Track == "" {
		idea.Track = model.Track(ideaTrack)
	}
	if flags.Changed("category") || idea.Category == "" {
		idea.Category = ideaCategory
	}
	return idea, nil
}

func exportReport(ctx context.Context, cfg *model.Config, report *model.Report, dir string) (string, error) {
	exporter, err := export.NewExporter(cfg.Export)
	if err != nil {
		return "", fmt.Errorf("create exporter: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path, err := exporter.Export(ctx, report, dir)
	if err != nil {
		return "", fmt.Errorf("export PDF: %w", err)
	}
	return path, nil
}
