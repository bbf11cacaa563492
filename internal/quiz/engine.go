package quiz

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/conorfennell/verbivisa/internal/answer"
	"github.com/conorfennell/verbivisa/internal/domain"
)

// Errors returned by Engine methods. A failed call leaves the session unchanged.
var (
	ErrUnknownPackage     = errors.New("quiz: unknown package")
	ErrNotAwaitingAnswer  = errors.New("quiz: answer already submitted")
	ErrNotAwaitingAdvance = errors.New("quiz: no submitted answer to advance past")
	ErrSessionDone        = errors.New("quiz: session is complete")
)

// Engine drives sessions. It holds no session state of its own.
type Engine struct {
	shuffle func([]int)
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithShuffle replaces the random shuffle used by Start.
func WithShuffle(fn func([]int)) Option {
	return func(e *Engine) { e.shuffle = fn }
}

// WithClock replaces time.Now.
func WithClock(fn func() time.Time) Option {
	return func(e *Engine) { e.now = fn }
}

// NewEngine returns an engine that shuffles with an unseeded source.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		shuffle: func(s []int) {
			rand.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start builds a fresh session for sel over the given packages.
// A selection matching no words yields a session that is already complete.
func (e *Engine) Start(cat *domain.Catalog, pm domain.PackageMap, sel Selection) (*Session, error) {
	var candidates []int
	if sel.Package == domain.AllPackages {
		candidates = pm.AllIndices()
	} else {
		pkg, ok := pm.Lookup(sel.Package)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPackage, sel.Package)
		}
		candidates = pkg.Indices
	}

	queue := make([]int, 0, len(candidates))
	for _, idx := range candidates {
		entry, ok := cat.Entry(idx)
		if !ok {
			return nil, fmt.Errorf("quiz: package index %d outside word list of %d entries", idx, cat.Len())
		}
		if sel.Subset.Matches(entry) {
			queue = append(queue, idx)
		}
	}
	e.shuffle(queue)

	s := &Session{
		ID:             uuid.New(),
		Selection:      sel,
		Queue:          queue,
		FirstPassTotal: len(queue),
		StartedAt:      e.now(),
		catalog:        cat,
		scored:         make([]bool, len(queue)),
		done:           len(queue) == 0,
	}
	if s.done {
		s.FinishedAt = s.StartedAt
	}
	slog.Debug("quiz session started",
		"session", s.ID, "list", cat.ID(), "package", sel.Package,
		"subset", sel.Subset.String(), "mode", sel.Mode.String(), "questions", len(queue))
	return s, nil
}

// CurrentQuestion returns the prompt and expected answer at the session pointer.
func (e *Engine) CurrentQuestion(s *Session) (Question, error) {
	if s.done {
		return Question{}, ErrSessionDone
	}
	idx := s.Queue[s.Pointer]
	entry, _ := s.catalog.Entry(idx)
	q := Question{Index: idx, Prompt: entry.SourceTerm, Expected: entry.TargetTerm}
	if s.Direction == domain.TargetToSource {
		q.Prompt, q.Expected = entry.TargetTerm, entry.SourceTerm
	}
	return q, nil
}

// Submit checks raw against the current question and stores the feedback.
// Scoring and requeueing happen in Advance.
func (e *Engine) Submit(s *Session, raw string) (Feedback, error) {
	switch s.State() {
	case Completed:
		return Feedback{}, ErrSessionDone
	case AwaitingAdvance:
		return Feedback{}, ErrNotAwaitingAnswer
	}

	q, err := e.CurrentQuestion(s)
	if err != nil {
		return Feedback{}, err
	}
	fb := Feedback{
		IsCorrect:       answer.Matches(q.Expected, raw),
		CanonicalAnswer: q.Expected,
		SubmittedAnswer: raw,
		QuestionIndex:   q.Index,
	}
	s.Pending = &fb
	return fb, nil
}

// Advance commits the pending feedback and moves to the next question.
func (e *Engine) Advance(s *Session) error {
	if s.State() != AwaitingAdvance {
		return ErrNotAwaitingAdvance
	}
	fb := *s.Pending

	if fb.IsCorrect && s.Pointer < s.FirstPassTotal && !s.scored[s.Pointer] {
		s.scored[s.Pointer] = true
		s.FirstPassCorrect++
	}
	if !fb.IsCorrect && s.Mode == domain.RetryUntilCorrect {
		s.Queue = append(s.Queue, fb.QuestionIndex)
	}

	s.Pointer++
	s.Pending = nil
	if s.Pointer >= len(s.Queue) {
		s.done = true
		s.FinishedAt = e.now()
		slog.Debug("quiz session completed",
			"session", s.ID, "correct", s.FirstPassCorrect, "total", s.FirstPassTotal, "asked", len(s.Queue))
	}
	return nil
}

// Result summarizes the first pass of a session.
type Result struct {
	Correct        int
	Total          int
	Percentage     float64
	Duration       time.Duration
	AverageSeconds float64 // zero when duration or total is zero
}

// Summary computes the first-pass result of s. The duration runs up to
// FinishedAt, or up to the engine's current time while s is still running.
func (e *Engine) Summary(s *Session) Result {
	end := s.FinishedAt
	if end.IsZero() {
		end = e.now()
	}
	r := Result{
		Correct:  s.FirstPassCorrect,
		Total:    s.FirstPassTotal,
		Duration: end.Sub(s.StartedAt).Truncate(time.Second),
	}
	r.Percentage = round1(100 * float64(r.Correct) / float64(max(1, r.Total)))
	if secs := r.Duration.Seconds(); secs > 0 && r.Total > 0 {
		r.AverageSeconds = round1(secs / float64(r.Total))
	}
	return r
}

// ScoreRecord converts a result into the record offered to the score board.
func (r Result) ScoreRecord(at time.Time) domain.ScoreRecord {
	secs := int(r.Duration / time.Second)
	return domain.ScoreRecord{
		Correct:         r.Correct,
		Total:           r.Total,
		Percentage:      r.Percentage,
		Timestamp:       at,
		DurationSeconds: &secs,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Now returns the engine's current time.
func (e *Engine) Now() time.Time { return e.now() }
