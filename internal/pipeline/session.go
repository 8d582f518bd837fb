package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ppiankov/ideajudge/internal/llm"
	"github.com/ppiankov/ideajudge/internal/model"
	"github.com/ppiankov/ideajudge/internal/util"
)

// Evaluator produces a report for one idea
type Evaluator interface {
	Evaluate(ctx context.Context, idea model.Idea) (*model.Report, error)
}

// State is the session lifecycle state
type State int

const (
	StateIdle State = iota
	StateEvaluating
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEvaluating:
		return "evaluating"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Snapshot is a consistent view of the session
type Snapshot struct {
	State      State
	Generation uint64
	Idea       model.Idea
	Report     *model.Report // set in StateReady
	Err        error         // set in StateFailed
	Message    string        // user-facing text for Err
}

// flight is one in-flight evaluation
type flight struct {
	gen    uint64
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func (f *flight) settle() {
	f.once.Do(func() { close(f.done) })
}

// Session holds at most one in-flight evaluation and its outcome.
// Submitting while an evaluation is running is a no-op.
type Session struct {
	evaluator Evaluator

	mu      sync.Mutex
	state   State
	gen     uint64
	idea    model.Idea
	report  *model.Report
	err     error
	current *flight
}

// NewSession creates an idle session
func NewSession(evaluator Evaluator) *Session {
	return &Session{evaluator: evaluator}
}

// Submit starts evaluating idea. Incomplete input is rejected before any state
// change. It returns false without error when an evaluation is already running.
func (s *Session) Submit(ctx context.Context, idea model.Idea) (bool, error) {
	if err := idea.Validate(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateEvaluating {
		util.Log.Debug("Submit ignored: evaluation already in flight")
		return false, nil
	}

	s.gen++
	evalCtx, cancel := context.WithCancel(ctx)
	f := &flight{gen: s.gen, cancel: cancel, done: make(chan struct{})}

	s.state = StateEvaluating
	s.idea = idea.Normalized()
	s.report = nil
	s.err = nil
	s.current = f

	util.Log.WithFields(logrus.Fields{"state": s.state, "generation": f.gen}).Debug("Evaluation started")

	go s.run(evalCtx, f, s.idea)
	return true, nil
}

func (s *Session) run(ctx context.Context, f *flight, idea model.Idea) {
	defer f.settle()

	report, err := s.evaluator.Evaluate(ctx, idea)
	if err == nil && report == nil {
		err = fmt.Errorf("%w: empty report", llm.ErrExternalCall)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	f.cancel()

	if s.current != f {
		// Cancelled; the outcome belongs to nobody
		util.Log.WithField("generation", f.gen).Debug("Discarding cancelled evaluation")
		return
	}
	s.current = nil

	if err != nil {
		s.state = StateFailed
		s.err = err
		util.Log.WithError(err).WithFields(logrus.Fields{"state": s.state, "generation": f.gen}).Warn("Evaluation failed")
		return
	}

	s.state = StateReady
	s.report = report
	util.Log.WithFields(logrus.Fields{"state": s.state, "generation": f.gen, "report_id": report.ID}).Debug("Evaluation ready")
}

// Cancel discards the in-flight evaluation and returns the session to Idle
// without recording an error. It reports whether anything was cancelled.
func (s *Session) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateEvaluating || s.current == nil {
		return false
	}

	f := s.current
	s.current = nil
	s.state = StateIdle
	s.report = nil
	s.err = nil
	f.cancel()
	f.settle()

	util.Log.WithFields(logrus.Fields{"state": s.state, "generation": f.gen}).Info("Evaluation cancelled")
	return true
}

// Wait blocks until the current evaluation settles or ctx is done
func (s *Session) Wait(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	f := s.current
	s.mu.Unlock()

	if f != nil {
		select {
		case <-f.done:
		case <-ctx.Done():
			return s.Snapshot(), ctx.Err()
		}
	}
	return s.Snapshot(), nil
}

// Snapshot returns the current state
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		State:      s.state,
		Generation: s.gen,
		Idea:       s.idea,
		Report:     s.report,
		Err:        s.err,
		Message:    UserMessage(s.err),
	}
}
