// Package filter selects reconciled events by kind, key pattern, status,
// JD source and JD range.
package filter

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/agentstation/amjd/pkg/errors"
	"github.com/agentstation/amjd/pkg/events"
)

// EventFilter applies filters to event lists. Text comparisons ignore case.
type EventFilter struct {
	Kind     string
	Key      string // glob, e.g. SE_20*
	StatusJD string
	StatusAM string
	Source   string // jd_ut_source
	FromJD   *float64
	ToJD     *float64
	Search   string // substring of key or label
}

// Validate checks the key pattern and the JD range.
func (f *EventFilter) Validate() error {
	if f == nil {
		return nil
	}
	if f.Key != "" && !doublestar.ValidatePattern(f.Key) {
		return errors.NewValidationError("key", f.Key, "invalid glob pattern")
	}
	if f.FromJD != nil && f.ToJD != nil && *f.FromJD > *f.ToJD {
		return errors.NewValidationError("jd", *f.FromJD, "from must not exceed to")
	}
	return nil
}

// Apply filters a slice of records, keeping their order.
func (f *EventFilter) Apply(records []*events.Record) []*events.Record {
	if f == nil || f.isEmpty() {
		return records
	}

	var filtered []*events.Record
	for _, rec := range records {
		if f.matches(rec) {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

func (f *EventFilter) isEmpty() bool {
	return f.Kind == "" &&
		f.Key == "" &&
		f.StatusJD == "" &&
		f.StatusAM == "" &&
		f.Source == "" &&
		f.FromJD == nil &&
		f.ToJD == nil &&
		f.Search == ""
}

func (f *EventFilter) matches(rec *events.Record) bool {
	if !equalFold(rec.Kind, f.Kind) || !equalFold(rec.StatusJD, f.StatusJD) ||
		!equalFold(rec.StatusAM, f.StatusAM) || !equalFold(rec.JDUTSource, f.Source) {
		return false
	}

	if f.Key != "" {
		ok, err := doublestar.Match(strings.ToUpper(f.Key), strings.ToUpper(rec.Key))
		if err != nil || !ok {
			return false
		}
	}

	if f.FromJD != nil || f.ToJD != nil {
		if rec.JDUT == nil {
			return false
		}
		if f.FromJD != nil && *rec.JDUT < *f.FromJD {
			return false
		}
		if f.ToJD != nil && *rec.JDUT > *f.ToJD {
			return false
		}
	}

	if f.Search != "" {
		term := strings.ToLower(f.Search)
		label := ""
		if rec.Label != nil {
			label = *rec.Label
		}
		if !strings.Contains(strings.ToLower(rec.Key), term) && !strings.Contains(strings.ToLower(label), term) {
			return false
		}
	}

	return true
}

// equalFold reports whether an unset want matches, or v equals want.
func equalFold(v *string, want string) bool {
	if want == "" {
		return true
	}
	return v != nil && strings.EqualFold(*v, want)
}
