package domain

import "time"

// ScoreRecord is the best first-pass result for one score key.
type ScoreRecord struct {
	Correct         int
	Total           int
	Percentage      float64
	Timestamp       time.Time
	DurationSeconds *int // nil when the duration is unknown
}
