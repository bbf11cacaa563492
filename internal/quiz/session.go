package quiz

import (
	"time"

	"github.com/google/uuid"

	"github.com/conorfennell/verbivisa/internal/domain"
)

// State is the position of a session in the drill state machine.
type State int

const (
	// AwaitingAnswer means the current question has not been answered yet.
	AwaitingAnswer State = iota
	// AwaitingAdvance means feedback for the current question is pending.
	AwaitingAdvance
	// Completed means every queued question has been asked.
	Completed
)

func (s State) String() string {
	switch s {
	case AwaitingAdvance:
		return "awaiting-advance"
	case Completed:
		return "completed"
	}
	return "awaiting-answer"
}

// Selection is the configuration a session is started with.
type Selection struct {
	Package   string // a package id or domain.AllPackages
	Subset    domain.WordSubset
	Direction domain.Direction
	Mode      domain.Mode
}

// Feedback is the outcome of the most recently submitted answer.
type Feedback struct {
	IsCorrect       bool
	CanonicalAnswer string
	SubmittedAnswer string
	QuestionIndex   int
}

// Question is what the caller shows for the current queue position.
type Question struct {
	Index    int
	Prompt   string
	Expected string
}

// Session is one drill run. It is owned by the caller and mutated only through an Engine.
type Session struct {
	ID uuid.UUID
	Selection

	Queue            []int
	Pointer          int
	FirstPassTotal   int
	FirstPassCorrect int
	StartedAt        time.Time
	FinishedAt       time.Time // zero until the last question is advanced past
	Pending          *Feedback

	// ResultSaved is set by the caller once the result has been offered to the score board.
	ResultSaved bool

	catalog *domain.Catalog
	scored  []bool // first-pass positions already counted
	done    bool
}

// State returns the current state of the session.
func (s *Session) State() State {
	switch {
	case s.done:
		return Completed
	case s.Pending != nil:
		return AwaitingAdvance
	}
	return AwaitingAnswer
}

// Done reports whether the session is complete.
func (s *Session) Done() bool { return s.done }

// Empty reports whether the session was started with no matching words.
func (s *Session) Empty() bool { return s.FirstPassTotal == 0 }

// Position returns the 1-based number of the current question.
func (s *Session) Position() int { return min(s.Pointer+1, len(s.Queue)) }

// Remaining returns how many queued questions are still to be asked, including the current one.
func (s *Session) Remaining() int { return len(s.Queue) - s.Pointer }

// CatalogID returns the list the session was started on.
func (s *Session) CatalogID() string {
	if s.catalog == nil {
		return ""
	}
	return s.catalog.ID()
}
