package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/conorfennell/verbivisa/internal/catalog"
	"github.com/conorfennell/verbivisa/internal/domain"
	"github.com/conorfennell/verbivisa/internal/drill"
	"github.com/conorfennell/verbivisa/internal/packages"
	"github.com/conorfennell/verbivisa/internal/quiz"
)

func runLists(loader *catalog.Loader, out io.Writer) error {
	lists, err := loader.Discover()
	if err != nil {
		return err
	}
	for _, l := range lists {
		fmt.Fprintln(out, l)
	}
	return nil
}

func runPackages(ctx context.Context, desk *drill.Desk, regenerate bool, out io.Writer) error {
	pm, status := desk.Packages()
	switch {
	case regenerate:
		var err error
		if pm, err = desk.Regenerate(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "New package map created.")
	case status == packages.Absent:
		fmt.Fprintln(out, "No packages yet. Run `packages --regenerate` to create them.")
		return nil
	case status == packages.Stale:
		fmt.Fprintln(out, "Warning: the word list has changed since packages were created. Run `packages --regenerate`.")
		return nil
	}

	cat := desk.Catalog()
	fmt.Fprintf(out, "%d words, %d packages (package size %d)\n", cat.Len(), len(pm.Packages), desk.PackageSize())
	for _, p := range pm.Packages {
		fmt.Fprintf(out, "\n%s — %d words\n", p.ID, len(p.Indices))
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "  %s\t%s\tirregular\n", desk.Languages().Source, desk.Languages().Target)
		for _, idx := range p.Indices {
			e, _ := cat.Entry(idx)
			mark := ""
			if e.Irregular {
				mark = "x"
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", e.SourceTerm, e.TargetTerm, mark)
		}
		tw.Flush()
	}
	return nil
}

// runQuiz drives one session: an answer line per question, then an empty line to continue.
func runQuiz(ctx context.Context, desk *drill.Desk, sel quiz.Selection, in io.Reader, out io.Writer) error {
	s, err := desk.Start(sel)
	if err != nil {
		return err
	}
	if s.Empty() {
		fmt.Fprintln(out, "No words matched this combination.")
		return nil
	}

	engine := desk.Engine()
	scanner := bufio.NewScanner(in)
	for !s.Done() {
		if err := ctx.Err(); err != nil {
			desk.Reset()
			return err
		}
		q, err := engine.CurrentQuestion(s)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nQuestion %d/%d  (correct so far %d/%d)\n", s.Position(), len(s.Queue), s.FirstPassCorrect, s.FirstPassTotal)
		fmt.Fprintf(out, "Word: %s\n> ", q.Prompt)
		if !scanner.Scan() {
			return inputClosed(desk, scanner)
		}

		fb, err := engine.Submit(s, scanner.Text())
		if err != nil {
			return err
		}
		if fb.IsCorrect {
			fmt.Fprintln(out, "✓ Correct!")
		} else {
			fmt.Fprintf(out, "✗ Wrong. Correct answer: %s\n", fb.CanonicalAnswer)
		}
		fmt.Fprint(out, "(Enter = next) ")
		if !scanner.Scan() {
			return inputClosed(desk, scanner)
		}

		if err := engine.Advance(s); err != nil {
			return err
		}
	}

	outcome, err := desk.Finish(ctx)
	printOutcome(out, outcome, sel)
	return err
}

func inputClosed(desk *drill.Desk, scanner *bufio.Scanner) error {
	desk.Reset()
	return errors.Join(errors.New("input closed, quiz discarded"), scanner.Err())
}

func printOutcome(out io.Writer, o drill.Outcome, sel quiz.Selection) {
	r := o.Result
	line := fmt.Sprintf("%d/%d (%.1f%%)", r.Correct, r.Total, r.Percentage)
	if secs := int(r.Duration.Seconds()); secs > 0 {
		line += fmt.Sprintf(" — time %d s, on average %.1f s/word", secs, r.AverageSeconds)
	}

	if sel.Package == domain.AllPackages {
		fmt.Fprintf(out, "\nFirst round total: %s\n", line)
		fmt.Fprintln(out, "The all-packages total is not recorded as a best score.")
		return
	}
	fmt.Fprintf(out, "\nFirst round correct: %s\n", line)
	switch {
	case !o.Recorded:
		fmt.Fprintln(out, "Result could not be recorded.")
	case o.Submission.Saved:
		fmt.Fprintln(out, "New best score saved.")
	default:
		fmt.Fprintln(out, "Did not beat the previous best score, not saved.")
	}
}

type scoreAction struct {
	reset    string
	resetAll bool
	purge    bool
}

func runScores(ctx context.Context, desk *drill.Desk, action scoreAction, out io.Writer) error {
	switch {
	case action.purge:
		if err := desk.PurgeScores(ctx); err != nil {
			return err
		}
		fmt.Fprintf(out, "Removed the score store of %s.\n", desk.Catalog().ID())
		return nil
	case action.resetAll:
		n, err := desk.ResetAllScores(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Reset %d records for this word list.\n", n)
		return nil
	case action.reset != "":
		if err := desk.ResetScore(ctx, action.reset); err != nil {
			return err
		}
		fmt.Fprintln(out, "Selected record reset.")
		return nil
	}

	entries, err := desk.Scores(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No best scores for this word list yet.")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Key\tCorrect\tTotal\t%\tDuration (s)\tTimestamp")
	for _, e := range entries {
		duration := "-"
		if e.Record.DurationSeconds != nil {
			duration = fmt.Sprint(*e.Record.DurationSeconds)
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.1f\t%s\t%s\n",
			e.Key, e.Record.Correct, e.Record.Total, e.Record.Percentage, duration,
			e.Record.Timestamp.Local().Format("2006-01-02T15:04:05"))
	}
	return tw.Flush()
}
