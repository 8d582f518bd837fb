package worker

import (
	"context"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/ideajudge/internal/model"
	"github.com/ppiankov/ideajudge/internal/pipeline"
	"github.com/ppiankov/ideajudge/internal/util"
)

// IdeaJob evaluates one idea in its own session
type IdeaJob struct {
	Index     int
	Idea      model.Idea
	Evaluator pipeline.Evaluator
}

// Execute runs the evaluation to completion or until ctx is done
func (j *IdeaJob) Execute(ctx context.Context) Result {
	res := &IdeaResult{Index: j.Index, Idea: j.Idea}

	session := pipeline.NewSession(j.Evaluator)
	if _, err := session.Submit(ctx, j.Idea); err != nil {
		res.Error = err
		res.Message = pipeline.UserMessage(err)
		return res
	}

	snap, err := session.Wait(ctx)
	if err != nil {
		session.Cancel()
		res.Error = err
		res.Message = pipeline.UserMessage(err)
		return res
	}

	switch snap.State {
	case pipeline.StateReady:
		res.Report = snap.Report
	case pipeline.StateFailed:
		res.Error = snap.Err
		res.Message = snap.Message
	default:
		res.Error = fmt.Errorf("evaluation ended in state %s", snap.State)
		res.Message = pipeline.UserMessage(res.Error)
	}
	return res
}

// IdeaResult represents the result of an idea job
type IdeaResult struct {
	Index   int
	Idea    model.Idea
	Report  *model.Report
	Error   error
	Message string // user-facing text for Error
}

// GetError returns the error from the idea result
func (r *IdeaResult) GetError() error {
	return r.Error
}

// BatchProcessor evaluates many ideas concurrently, one session per idea
type BatchProcessor struct {
	evaluator   pipeline.Evaluator
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(evaluator pipeline.Evaluator, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		evaluator:   evaluator,
		concurrency: concurrency,
	}
}

// ProcessIdeas evaluates ideas and returns one result per idea in input order
func (b *BatchProcessor) ProcessIdeas(ctx context.Context, ideas []model.Idea) []*IdeaResult {
	if len(ideas) == 0 {
		return []*IdeaResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, idea := range ideas {
		job := &IdeaJob{
			Index:     i,
			Idea:      idea,
			Evaluator: b.evaluator,
		}
		if !pool.Submit(job) {
			break
		}
	}

	results := pool.Wait()

	ordered := make([]*IdeaResult, len(ideas))
	for _, result := range results {
		r := result.(*IdeaResult)
		ordered[r.Index] = r
	}

	// Ideas never run because the batch was cancelled
	for i, r := range ordered {
		if r == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			ordered[i] = &IdeaResult{Index: i, Idea: ideas[i], Error: err, Message: pipeline.UserMessage(err)}
		}
	}

	return ordered
}

// ProcessFile reads ideas from a YAML file and evaluates them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*IdeaResult, error) {
	ideas, err := ReadIdeasFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read ideas: %w", err)
	}

	return b.ProcessIdeas(ctx, ideas), nil
}

// ideaFile accepts either a bare list or a document with an ideas key
type ideaFile struct {
	Ideas []model.Idea `yaml:"ideas"`
}

// ReadIdeasFromFile reads ideas from a YAML file. Exact duplicates after
// whitespace normalization are evaluated once.
func ReadIdeasFromFile(filePath string) ([]model.Idea, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	var ideas []model.Idea
	var list []model.Idea
	if err := yaml.Unmarshal(data, &list); err == nil {
		ideas = list
	} else {
		var doc ideaFile
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse %s: %w", filePath, err)
		}
		ideas = doc.Ideas
	}

	seen := make(map[model.Idea]bool)
	unique := make([]model.Idea, 0, len(ideas))
	for _, idea := range ideas {
		key := idea.Normalized()
		if seen[key] {
			util.Log.WithField("title", key.Title).Debug("Skipping duplicate idea")
			continue
		}
		seen[key] = true
		unique = append(unique, idea)
	}

	return unique, nil
}

// SortByScore orders successful results by overall score, best first.
// Failed results keep their relative order at the end.
func SortByScore(results []*IdeaResult) []*IdeaResult {
	sorted := append([]*IdeaResult(nil), results...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if (a.Report == nil) != (b.Report == nil) {
			return a.Report != nil
		}
		if a.Report == nil {
			return false
		}
		return a.Report.Result.OverallScore > b.Report.Result.OverallScore
	})
	return sorted
}
