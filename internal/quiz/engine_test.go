package quiz

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/verbivisa/internal/answer"
	"github.com/conorfennell/verbivisa/internal/catalog"
	"github.com/conorfennell/verbivisa/internal/domain"
)

func noShuffle([]int) {}

func reverse(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// testCatalog holds words s0..s(n-1) / t0..t(n-1); every odd index is irregular.
func testCatalog(n int) *domain.Catalog {
	entries := make([]domain.WordEntry, n)
	for i := range entries {
		entries[i] = domain.WordEntry{
			SourceTerm: fmt.Sprintf("s%d", i),
			TargetTerm: fmt.Sprintf("t%d", i),
			Irregular:  i%2 == 1,
		}
	}
	return domain.NewCatalog("verbit", entries)
}

func onePackage(n int) domain.PackageMap {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return domain.PackageMap{Packages: []domain.Package{{ID: "Package 1", Indices: idx}}}
}

func answerCurrent(t *testing.T, e *Engine, s *Session, correct bool) {
	t.Helper()
	q, err := e.CurrentQuestion(s)
	require.NoError(t, err)
	raw := q.Expected
	if !correct {
		raw = "wrong"
	}
	fb, err := e.Submit(s, raw)
	require.NoError(t, err)
	require.Equal(t, correct, fb.IsCorrect)
	require.NoError(t, e.Advance(s))
}

func TestStartSelectsPackageAndSubset(t *testing.T) {
	e := NewEngine(WithShuffle(noShuffle))
	cat := testCatalog(6)
	pm := domain.PackageMap{Packages: []domain.Package{
		{ID: "Package 1", Indices: []int{0, 1, 2, 3}},
		{ID: "Package 2", Indices: []int{4, 5}},
	}}

	testCases := []struct {
		name string
		sel  Selection
		want []int
	}{
		{name: "single package", sel: Selection{Package: "Package 2"}, want: []int{4, 5}},
		{name: "all packages", sel: Selection{Package: domain.AllPackages}, want: []int{0, 1, 2, 3, 4, 5}},
		{name: "irregular only", sel: Selection{Package: "Package 1", Subset: domain.IrregularOnly}, want: []int{1, 3}},
		{name: "regular only", sel: Selection{Package: domain.AllPackages, Subset: domain.RegularOnly}, want: []int{0, 2, 4}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := e.Start(cat, pm, tc.sel)
			require.NoError(t, err)
			assert.Equal(t, tc.want, s.Queue)
			assert.Equal(t, len(tc.want), s.FirstPassTotal)
			assert.Equal(t, 0, s.FirstPassCorrect)
			assert.Equal(t, 0, s.Pointer)
			assert.Equal(t, AwaitingAnswer, s.State())
			assert.Equal(t, "verbit", s.CatalogID())
		})
	}
}

func TestStartUnknownPackage(t *testing.T) {
	_, err := NewEngine().Start(testCatalog(3), onePackage(3), Selection{Package: "Package 9"})
	assert.ErrorIs(t, err, ErrUnknownPackage)
}

func TestStartShufflesPerSession(t *testing.T) {
	e := NewEngine()
	cat := testCatalog(40)
	pm := onePackage(40)

	first, err := e.Start(cat, pm, Selection{Package: "Package 1"})
	require.NoError(t, err)
	assert.ElementsMatch(t, pm.Packages[0].Indices, first.Queue)

	differs := false
	for i := 0; i < 5 && !differs; i++ {
		next, err := e.Start(cat, pm, Selection{Package: "Package 1"})
		require.NoError(t, err)
		differs = fmt.Sprint(next.Queue) != fmt.Sprint(first.Queue)
	}
	assert.True(t, differs, "expected a different order across sessions")
}

func TestEmptySelectionIsCompleted(t *testing.T) {
	e := NewEngine()
	cat := domain.NewCatalog("verbit", []domain.WordEntry{{SourceTerm: "casa", TargetTerm: "talo"}})
	s, err := e.Start(cat, onePackage(1), Selection{Package: "Package 1", Subset: domain.IrregularOnly})
	require.NoError(t, err)

	assert.True(t, s.Done())
	assert.True(t, s.Empty())
	assert.Equal(t, Completed, s.State())
	_, err = e.CurrentQuestion(s)
	assert.ErrorIs(t, err, ErrSessionDone)
	_, err = e.Submit(s, "talo")
	assert.ErrorIs(t, err, ErrSessionDone)
}

func TestCurrentQuestionDirection(t *testing.T) {
	e := NewEngine()
	cat := domain.NewCatalog("verbit", []domain.WordEntry{{SourceTerm: "casa", TargetTerm: "talo"}})

	s, err := e.Start(cat, onePackage(1), Selection{Package: "Package 1", Direction: domain.SourceToTarget})
	require.NoError(t, err)
	q, err := e.CurrentQuestion(s)
	require.NoError(t, err)
	assert.Equal(t, Question{Index: 0, Prompt: "casa", Expected: "talo"}, q)

	s, err = e.Start(cat, onePackage(1), Selection{Package: "Package 1", Direction: domain.TargetToSource})
	require.NoError(t, err)
	q, err = e.CurrentQuestion(s)
	require.NoError(t, err)
	assert.Equal(t, Question{Index: 0, Prompt: "talo", Expected: "casa"}, q)
}

func TestSubmitNormalizesAnswer(t *testing.T) {
	e := NewEngine()
	cat := domain.NewCatalog("verbit", []domain.WordEntry{{SourceTerm: "casa", TargetTerm: "talo"}})
	s, err := e.Start(cat, onePackage(1), Selection{Package: "Package 1"})
	require.NoError(t, err)

	fb, err := e.Submit(s, "Talo ")
	require.NoError(t, err)
	assert.Equal(t, Feedback{IsCorrect: true, CanonicalAnswer: "talo", SubmittedAnswer: "Talo ", QuestionIndex: 0}, fb)
	assert.Equal(t, AwaitingAdvance, s.State())
	require.NotNil(t, s.Pending)
	assert.Equal(t, fb, *s.Pending)
	// Scoring is deferred to Advance.
	assert.Equal(t, 0, s.FirstPassCorrect)
}

func TestSubmitAlternatives(t *testing.T) {
	e := NewEngine()
	cat := domain.NewCatalog("verbit", []domain.WordEntry{{SourceTerm: "x", TargetTerm: "a;b;c"}})

	for raw, want := range map[string]bool{"A": true, " b ": true, "C": true, "d": false} {
		s, err := e.Start(cat, onePackage(1), Selection{Package: "Package 1"})
		require.NoError(t, err)
		fb, err := e.Submit(s, raw)
		require.NoError(t, err)
		assert.Equal(t, want, fb.IsCorrect, "submission %q", raw)
	}
}

func TestMisuseDoesNotMutate(t *testing.T) {
	e := NewEngine(WithShuffle(noShuffle))
	s, err := e.Start(testCatalog(2), onePackage(2), Selection{Package: "Package 1"})
	require.NoError(t, err)

	assert.ErrorIs(t, e.Advance(s), ErrNotAwaitingAdvance)
	assert.Equal(t, 0, s.Pointer)

	_, err = e.Submit(s, "wrong")
	require.NoError(t, err)
	_, err = e.Submit(s, "t0")
	assert.ErrorIs(t, err, ErrNotAwaitingAnswer)
	assert.False(t, s.Pending.IsCorrect)
	assert.Equal(t, "wrong", s.Pending.SubmittedAnswer)
}

func TestSinglePassScoring(t *testing.T) {
	e := NewEngine(WithShuffle(noShuffle))
	s, err := e.Start(testCatalog(5), onePackage(5), Selection{Package: "Package 1", Mode: domain.SinglePass})
	require.NoError(t, err)

	for _, correct := range []bool{true, false, true, false, true} {
		answerCurrent(t, e, s, correct)
	}

	assert.True(t, s.Done())
	assert.Equal(t, 3, s.FirstPassCorrect)
	assert.Equal(t, 5, s.FirstPassTotal)
	assert.Len(t, s.Queue, 5)
	assert.Equal(t, len(s.Queue), s.Pointer)
}

func TestRetryUntilCorrect(t *testing.T) {
	e := NewEngine(WithShuffle(noShuffle))
	s, err := e.Start(testCatalog(3), onePackage(3), Selection{Package: "Package 1", Mode: domain.RetryUntilCorrect})
	require.NoError(t, err)

	// First pass: index 1 and 2 are missed and requeued.
	answerCurrent(t, e, s, true)
	answerCurrent(t, e, s, false)
	answerCurrent(t, e, s, false)
	assert.Equal(t, []int{0, 1, 2, 1, 2}, s.Queue)
	assert.False(t, s.Done())

	// Retry pass: index 1 missed again, index 2 right.
	answerCurrent(t, e, s, false)
	answerCurrent(t, e, s, true)
	assert.Equal(t, []int{0, 1, 2, 1, 2, 1}, s.Queue)

	// Correct answers on retries never count toward the first pass.
	answerCurrent(t, e, s, true)
	assert.True(t, s.Done())
	assert.Equal(t, len(s.Queue), s.Pointer)
	assert.Equal(t, 1, s.FirstPassCorrect)
	assert.Equal(t, 3, s.FirstPassTotal)
}

func TestRetryUntilCorrectAllEventuallyRight(t *testing.T) {
	e := NewEngine(WithShuffle(reverse))
	s, err := e.Start(testCatalog(20), onePackage(20), Selection{Package: "Package 1", Mode: domain.RetryUntilCorrect})
	require.NoError(t, err)

	misses := make(map[int]int)
	for steps := 0; !s.Done(); steps++ {
		require.Less(t, steps, 1000)
		q, err := e.CurrentQuestion(s)
		require.NoError(t, err)
		// Every word is missed as many times as its index modulo three.
		correct := misses[q.Index] >= q.Index%3
		if !correct {
			misses[q.Index]++
		}
		answerCurrent(t, e, s, correct)
		assert.LessOrEqual(t, s.FirstPassCorrect, s.FirstPassTotal)
	}

	assert.Equal(t, len(s.Queue), s.Pointer)
	assert.Equal(t, 20, s.FirstPassTotal)
	// Indices divisible by three are right the first time.
	assert.Equal(t, 7, s.FirstPassCorrect)
}

func TestLoadedEntriesAreAlwaysAnswerable(t *testing.T) {
	csv := "italia,suomi\ncasa; dimora ;,talo; ;koti\nessere,olla\n;andare,mennä;\n"
	entries, err := catalog.Parse(strings.NewReader(csv), catalog.DefaultColumns, ',')
	require.NoError(t, err)
	cat := domain.NewCatalog("verbit", entries)

	for _, dir := range []domain.Direction{domain.SourceToTarget, domain.TargetToSource} {
		e := NewEngine(WithShuffle(noShuffle))
		s, err := e.Start(cat, onePackage(cat.Len()), Selection{Package: "Package 1", Direction: dir, Mode: domain.RetryUntilCorrect})
		require.NoError(t, err)

		for !s.Done() {
			require.Less(t, s.Pointer, cat.Len(), "a word was requeued")
			q, err := e.CurrentQuestion(s)
			require.NoError(t, err)
			alts := answer.Alternatives(q.Expected)
			require.NotEmpty(t, alts, "no accepted answer for %q", q.Prompt)
			fb, err := e.Submit(s, alts[len(alts)-1])
			require.NoError(t, err)
			require.True(t, fb.IsCorrect)
			require.NoError(t, e.Advance(s))
		}
		assert.Equal(t, cat.Len(), s.FirstPassCorrect)
	}
}

func TestSummary(t *testing.T) {
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	now := start
	e := NewEngine(WithShuffle(noShuffle), WithClock(func() time.Time { return now }))

	s, err := e.Start(testCatalog(3), onePackage(3), Selection{Package: "Package 1"})
	require.NoError(t, err)
	answerCurrent(t, e, s, true)
	answerCurrent(t, e, s, true)
	now = start.Add(20*time.Second + 400*time.Millisecond)
	answerCurrent(t, e, s, false)

	r := e.Summary(s)
	assert.Equal(t, 2, r.Correct)
	assert.Equal(t, 3, r.Total)
	assert.Equal(t, 66.7, r.Percentage)
	assert.Equal(t, 20*time.Second, r.Duration)
	assert.Equal(t, 6.7, r.AverageSeconds)

	rec := r.ScoreRecord(now)
	assert.Equal(t, 2, rec.Correct)
	require.NotNil(t, rec.DurationSeconds)
	assert.Equal(t, 20, *rec.DurationSeconds)
}

func TestSummaryMeasuresUntilCompletion(t *testing.T) {
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	now := start
	e := NewEngine(WithShuffle(noShuffle), WithClock(func() time.Time { return now }))

	s, err := e.Start(testCatalog(2), onePackage(2), Selection{Package: "Package 1"})
	require.NoError(t, err)
	answerCurrent(t, e, s, true)
	now = start.Add(5 * time.Second)
	assert.Equal(t, 5*time.Second, e.Summary(s).Duration)

	now = start.Add(12 * time.Second)
	answerCurrent(t, e, s, true)
	assert.Equal(t, now, s.FinishedAt)

	// Asking again later, e.g. after a failed save, reports the same duration.
	now = start.Add(10 * time.Minute)
	assert.Equal(t, 12*time.Second, e.Summary(s).Duration)
	assert.Equal(t, 6.0, e.Summary(s).AverageSeconds)
}

func TestSummaryEmptySession(t *testing.T) {
	e := NewEngine()
	s, err := e.Start(testCatalog(1), onePackage(1), Selection{Package: "Package 1", Subset: domain.IrregularOnly})
	require.NoError(t, err)

	r := e.Summary(s)
	assert.Equal(t, 0.0, r.Percentage)
	assert.Equal(t, 0.0, r.AverageSeconds)
}

func TestProgress(t *testing.T) {
	e := NewEngine(WithShuffle(noShuffle))
	s, err := e.Start(testCatalog(3), onePackage(3), Selection{Package: "Package 1"})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Position())
	assert.Equal(t, 3, s.Remaining())

	answerCurrent(t, e, s, true)
	assert.Equal(t, 2, s.Position())
	assert.Equal(t, 2, s.Remaining())
}
