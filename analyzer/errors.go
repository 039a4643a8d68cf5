package analyzer

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInput is returned by Analyze when the transcript is empty
	// after trimming or is not valid UTF-8 text.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDegenerateAggregate marks insights where at least one statistic had
	// too few data points to be defined.
	ErrDegenerateAggregate = errors.New("degenerate aggregate")

	// ErrInvalidLexicon is returned when a lexicon file is malformed.
	ErrInvalidLexicon = errors.New("invalid lexicon")
)

// DegenerateError lists the metric paths that are undefined.
type DegenerateError struct {
	Undefined []string
}

func (e *DegenerateError) Error() string {
	return fmt.Sprintf("%s: undefined %s", ErrDegenerateAggregate, strings.Join(e.Undefined, ", "))
}

func (e *DegenerateError) Unwrap() error { return ErrDegenerateAggregate }
