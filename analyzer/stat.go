package analyzer

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Stat is an aggregate that may be undefined, e.g. the mean of no values.
// Undefined stats encode as JSON null, never as 0.
type Stat struct {
	Value float64
	Valid bool
}

func Defined(v float64) Stat { return Stat{Value: v, Valid: true} }

func (s Stat) String() string {
	if !s.Valid {
		return "n/a"
	}
	return strconv.FormatFloat(s.Value, 'f', 4, 64)
}

func (s Stat) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

func (s *Stat) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*s = Stat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*s = Defined(v)
	return nil
}

func mean(xs []float64) Stat {
	if len(xs) == 0 {
		return Stat{}
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return Defined(sum / float64(len(xs)))
}

// popStdDev needs two samples; a single value has no spread to report.
func popStdDev(xs []float64) Stat {
	if len(xs) < 2 {
		return Stat{}
	}
	m := mean(xs).Value
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return Defined(math.Sqrt(ss / float64(len(xs))))
}
