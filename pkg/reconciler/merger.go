package reconciler

import (
	"fmt"

	"github.com/agentstation/amjd/pkg/events"
	"github.com/agentstation/amjd/pkg/provenance"
	"github.com/agentstation/amjd/pkg/sources"
)

// merger applies source values to records under the policy table and
// records each outcome.
type merger struct {
	policies Policies
	tracker  provenance.Tracker
	applied  int
	rejected int
}

func newMerger(policies Policies, tracker provenance.Tracker) *merger {
	return &merger{policies: policies, tracker: tracker}
}

// write offers v for field f of rec on behalf of src. It reports whether
// the record changed. A nil v is an absent value and never written.
func (m *merger) write(rec *events.Record, src sources.ID, f events.Field, v any) (bool, error) {
	if v == nil {
		return false, nil
	}
	policy := m.policies.For(src, f)
	prev := rec.Get(f)

	switch policy {
	case Accumulate:
		n, ok := v.(int)
		if !ok {
			return false, fmt.Errorf("%s: accumulate needs an int, got %T", f, v)
		}
		if err := rec.Add(f, n); err != nil {
			return false, err
		}
	case Force:
		if err := rec.Set(f, v); err != nil {
			return false, err
		}
	default:
		if prev != nil {
			if prev != v {
				m.rejected++
				m.track(rec.Key, src, f, v, prev, policy, false, "kept existing value")
			}
			return false, nil
		}
		if err := rec.Set(f, v); err != nil {
			return false, err
		}
	}

	m.applied++
	reason := "field was unset"
	switch {
	case policy == Accumulate:
		reason = "counter incremented"
	case policy == Force && prev != nil:
		reason = "forced over existing value"
	}
	m.track(rec.Key, src, f, v, prev, policy, true, reason)
	return true, nil
}

func (m *merger) track(key string, src sources.ID, f events.Field, v, prev any, policy Policy, applied bool, reason string) {
	if m.tracker == nil {
		return
	}
	m.tracker.Track(key, string(f), provenance.Provenance{
		Source:        string(src),
		Field:         string(f),
		Value:         v,
		Policy:        policy.String(),
		Applied:       applied,
		Reason:        reason,
		PreviousValue: prev,
	})
}
