// Package status classifies numeric deltas between computed and recorded
// values into OK, WARN, FAIL or NA.
package status

import (
	"math"
	"sort"
	"strings"
)

// Status is a classification label written to output tables.
type Status string

// Classification labels.
const (
	OK   Status = "OK"
	Warn Status = "WARN"
	Fail Status = "FAIL"
	NA   Status = "NA"

	// Range marks a date derived from a JD range midpoint rather than a comparison.
	Range Status = "RANGE"

	// NoAMYear marks an AM label that carries no readable year.
	NoAMYear Status = "NA (no AM year)"

	errorPrefix = "ERROR: "
)

// Error builds the status recorded when a row could not be evaluated.
func Error(err error) Status {
	return Status(errorPrefix + err.Error())
}

// IsError reports whether the status is an error marker.
func (s Status) IsError() bool {
	return strings.HasPrefix(string(s), errorPrefix)
}

// String returns the label text.
func (s Status) String() string {
	return string(s)
}

// Thresholds are the inclusive upper bounds of the OK and WARN tiers.
type Thresholds struct {
	OK   float64
	Warn float64
}

// Threshold profiles for the two checks run over master tables.
var (
	JD = Thresholds{OK: 0.5, Warn: 5.0}
	AM = Thresholds{OK: 1e-6, Warn: 1e-3}
)

// Classify labels |delta| against the thresholds. NaN is NA.
func (t Thresholds) Classify(delta float64) Status {
	if math.IsNaN(delta) {
		return NA
	}
	d := math.Abs(delta)
	switch {
	case d <= t.OK:
		return OK
	case d <= t.Warn:
		return Warn
	default:
		return Fail
	}
}

// ClassifyPtr is Classify for an optional delta; nil is NA.
func (t Thresholds) ClassifyPtr(delta *float64) Status {
	if delta == nil {
		return NA
	}
	return t.Classify(*delta)
}

// Counts tallies statuses. Error markers are folded into one "ERROR" bucket.
type Counts map[Status]int

// Add counts one status.
func (c Counts) Add(s Status) {
	if s.IsError() {
		s = "ERROR"
	}
	c[s]++
}

// Total returns the number of statuses counted.
func (c Counts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// Keys returns the counted statuses in a stable order: OK, WARN, FAIL first,
// everything else alphabetically.
func (c Counts) Keys() []Status {
	rank := map[Status]int{OK: 0, Warn: 1, Fail: 2}
	keys := make([]Status, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, iok := rank[keys[i]]
		rj, jok := rank[keys[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok:
			return true
		case jok:
			return false
		}
		return keys[i] < keys[j]
	})
	return keys
}
