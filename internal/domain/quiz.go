package domain

import (
	"fmt"
	"strings"
)

// Direction selects which side of a WordEntry is shown as the prompt.
type Direction int

const (
	// SourceToTarget shows the source term and expects the target term.
	SourceToTarget Direction = iota
	// TargetToSource shows the target term and expects the source term.
	TargetToSource
)

// Languages holds the short codes of both sides of a word list, e.g. "it" and "fi".
type Languages struct {
	Source string
	Target string
}

// DefaultLanguages matches the Italian–Finnish lists the tool was built for.
var DefaultLanguages = Languages{Source: "it", Target: "fi"}

// Label renders the direction as it appears in score keys, e.g. "it → fi".
func (d Direction) Label(l Languages) string {
	if d == TargetToSource {
		return fmt.Sprintf("%s → %s", l.Target, l.Source)
	}
	return fmt.Sprintf("%s → %s", l.Source, l.Target)
}

// ParseDirection accepts "forward"/"reverse" or a label such as "fi → it".
func ParseDirection(s string, l Languages) (Direction, error) {
	v := strings.TrimSpace(strings.ToLower(s))
	switch v {
	case "forward", "source-target", strings.ToLower(SourceToTarget.Label(l)), strings.ToLower(l.Source + "-" + l.Target):
		return SourceToTarget, nil
	case "reverse", "target-source", strings.ToLower(TargetToSource.Label(l)), strings.ToLower(l.Target + "-" + l.Source):
		return TargetToSource, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// Mode is the scoring mode of a quiz session.
type Mode int

const (
	// SinglePass asks every word once.
	SinglePass Mode = iota
	// RetryUntilCorrect requeues missed words until they are answered correctly.
	RetryUntilCorrect
)

func (m Mode) String() string {
	if m == RetryUntilCorrect {
		return "retry"
	}
	return "single"
}

// ParseMode accepts "single" or "retry".
func ParseMode(s string) (Mode, error) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "single", "single-pass", "eka kierros":
		return SinglePass, nil
	case "retry", "retry-until-correct", "kunnes kaikki oikein":
		return RetryUntilCorrect, nil
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// WordSubset filters a quiz by the irregular flag.
type WordSubset int

const (
	AllWords WordSubset = iota
	IrregularOnly
	RegularOnly
)

var subsetLabels = map[WordSubset]string{
	AllWords:      "kaikki",
	IrregularOnly: "epäsäännölliset",
	RegularOnly:   "säännölliset",
}

// String returns the label stored in score keys.
func (w WordSubset) String() string { return subsetLabels[w] }

// Matches reports whether an entry belongs to the subset.
func (w WordSubset) Matches(e WordEntry) bool {
	switch w {
	case IrregularOnly:
		return e.Irregular
	case RegularOnly:
		return !e.Irregular
	}
	return true
}

// ParseWordSubset accepts a stored label or one of "all", "irregular", "regular".
func ParseWordSubset(s string) (WordSubset, error) {
	v := strings.TrimSpace(strings.ToLower(s))
	switch v {
	case "all":
		return AllWords, nil
	case "irregular":
		return IrregularOnly, nil
	case "regular":
		return RegularOnly, nil
	}
	for subset, label := range subsetLabels {
		if v == label {
			return subset, nil
		}
	}
	return 0, fmt.Errorf("unknown word subset %q", s)
}

// AllPackages selects the union of every package.
const AllPackages = "all"
