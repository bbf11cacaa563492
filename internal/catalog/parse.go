package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/conorfennell/verbivisa/internal/answer"
	"github.com/conorfennell/verbivisa/internal/domain"
)

// Columns names the CSV header fields holding each part of an entry.
type Columns struct {
	Source    string `validate:"required"`
	Target    string `validate:"required"`
	Irregular string // optional
}

// DefaultColumns matches the Italian–Finnish verb lists.
var DefaultColumns = Columns{
	Source:    "italia",
	Target:    "suomi",
	Irregular: "epäsäännöllinen",
}

// row is the validated shape of one CSV record.
type row struct {
	Source string `validate:"required,answerable"`
	Target string `validate:"required,answerable"`
	Flag   string
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// A term made only of delimiters has no alternative a learner could type.
	if err := v.RegisterValidation("answerable", func(fl validator.FieldLevel) bool {
		return len(answer.Alternatives(fl.Field().String())) > 0
	}); err != nil {
		panic(err)
	}
	return v
}

// Parse reads a header line followed by records and returns the entries in file order.
// Errors wrap ErrEmpty or ErrMalformed.
func Parse(r io.Reader, cols Columns, delimiter rune) ([]domain.WordEntry, error) {
	if err := validate.Struct(cols); err != nil {
		return nil, fmt.Errorf("%w: column names: %v", ErrMalformed, err)
	}

	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	pos := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		pos[strings.TrimSpace(name)] = i
	}
	srcCol, ok := pos[cols.Source]
	if !ok {
		return nil, fmt.Errorf("%w: missing column %q", ErrMalformed, cols.Source)
	}
	tgtCol, ok := pos[cols.Target]
	if !ok {
		return nil, fmt.Errorf("%w: missing column %q", ErrMalformed, cols.Target)
	}
	flagCol := -1
	if cols.Irregular != "" {
		if i, ok := pos[cols.Irregular]; ok {
			flagCol = i
		}
	}

	var entries []domain.WordEntry
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if blank(record) {
			continue
		}

		rw := row{
			Source: field(record, srcCol),
			Target: field(record, tgtCol),
			Flag:   field(record, flagCol),
		}
		if err := validate.Struct(rw); err != nil {
			return nil, fmt.Errorf("%w: line %d: missing or unanswerable source or target term", ErrMalformed, line)
		}
		entries = append(entries, domain.WordEntry{
			SourceTerm: rw.Source,
			TargetTerm: rw.Target,
			Irregular:  irregular(rw.Flag),
		})
	}

	if len(entries) == 0 {
		return nil, ErrEmpty
	}
	return entries, nil
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// irregular reads the flag cell; lists mark irregular words with an "x".
func irregular(flag string) bool {
	switch strings.ToLower(flag) {
	case "x", "true", "yes", "1":
		return true
	}
	return false
}
