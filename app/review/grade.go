// Package review schedules cards and runs review sessions
package review

import (
	"github.com/rbhz/tg-vocab-trainer/app/ai"
)

// Grade is the recall quality of a single review
type Grade int

// grades
const (
	Again Grade = iota + 1
	Hard
	Good
	Easy
)

var gradeNames = map[Grade]string{
	Again: "Again",
	Hard:  "Hard",
	Good:  "Good",
	Easy:  "Easy",
}

// Valid returns true for known grades
func (g Grade) Valid() bool {
	_, ok := gradeNames[g]
	return ok
}

func (g Grade) String() string {
	if name, ok := gradeNames[g]; ok {
		return name
	}
	return "Unknown"
}

// Passed returns true if the card was recalled
func (g Grade) Passed() bool {
	return g >= Hard
}

// GradeFor maps an evaluation verdict to a grade.
// Partially correct answers are a pass.
func GradeFor(verdict ai.Verdict) Grade {
	if verdict.Passed() {
		return Good
	}
	return Again
}
