package reconciler

import (
	"fmt"
	"maps"
	"sort"
	"strings"

	"github.com/agentstation/amjd/pkg/errors"
	"github.com/agentstation/amjd/pkg/events"
	"github.com/agentstation/amjd/pkg/sources"
)

// Policy decides how a source's value for a field combines with the
// record's current value.
type Policy int

const (
	// Once writes only while the field is unset: the first writer wins.
	Once Policy = iota
	// Force writes regardless of the current value.
	Force
	// Accumulate adds to an integer counter.
	Accumulate
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case Once:
		return "once"
	case Force:
		return "force"
	case Accumulate:
		return "accumulate"
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// Allows reports whether the policy can be applied to f. Accumulate only
// fits counter fields.
func (p Policy) Allows(f events.Field) error {
	if p == Accumulate && events.KindOf(f) != events.Counter {
		return errors.NewValidationError("policy", string(f), "accumulate applies only to counter fields")
	}
	return nil
}

// ParsePolicy parses a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "once":
		return Once, nil
	case "force":
		return Force, nil
	case "accumulate":
		return Accumulate, nil
	}
	return Once, fmt.Errorf("unknown merge policy %q", s)
}

// Policies is the field precedence table: a default policy per field plus
// per-source overrides. Fields absent from both use Once.
type Policies struct {
	fields    map[events.Field]Policy
	overrides map[sources.ID]map[events.Field]Policy
}

// DefaultPolicies returns the standard table. Because passes run in a fixed
// order, Once makes pass order the source priority for scalar fields.
func DefaultPolicies() Policies {
	return Policies{
		fields: map[events.Field]Policy{
			events.FieldJDUTSource:       Force,
			events.FieldTopoSolarSites:   Accumulate,
			events.FieldTopoSolarVisible: Accumulate,
			events.FieldTopoLunarSites:   Accumulate,
			events.FieldTopoLunarVisible: Accumulate,
		},
		overrides: map[sources.ID]map[events.Field]Policy{
			sources.VolcanoID:       {events.FieldKind: Force},
			sources.RawMasterlikeID: {events.FieldRawPresent: Force},
		},
	}
}

// For returns the policy applied when src writes f.
func (p Policies) For(src sources.ID, f events.Field) Policy {
	if byField, ok := p.overrides[src]; ok {
		if policy, ok := byField[f]; ok {
			return policy
		}
	}
	if policy, ok := p.fields[f]; ok {
		return policy
	}
	return Once
}

// With returns a copy with one override added.
func (p Policies) With(src sources.ID, f events.Field, policy Policy) Policies {
	out := Policies{
		fields:    maps.Clone(p.fields),
		overrides: make(map[sources.ID]map[events.Field]Policy, len(p.overrides)+1),
	}
	if out.fields == nil {
		out.fields = make(map[events.Field]Policy)
	}
	for id, byField := range p.overrides {
		out.overrides[id] = maps.Clone(byField)
	}
	if out.overrides[src] == nil {
		out.overrides[src] = make(map[events.Field]Policy)
	}
	out.overrides[src][f] = policy
	return out
}

// Validate checks every entry of the table against its field's kind.
func (p Policies) Validate() error {
	for f, policy := range p.fields {
		if err := policy.Allows(f); err != nil {
			return err
		}
	}
	for src, byField := range p.overrides {
		for f, policy := range byField {
			if policy.Allows(f) != nil {
				return errors.NewValidationError("policy", nil,
					fmt.Sprintf("%s:%s=%s: accumulate applies only to counter fields", src, f, policy))
			}
		}
	}
	return nil
}

// Rule is one row of the rendered policy table.
type Rule struct {
	Source string `json:"source" yaml:"source"`
	Field  string `json:"field" yaml:"field"`
	Policy string `json:"policy" yaml:"policy"`
}

// Rules lists the non-default entries, field defaults first ("*" source).
func (p Policies) Rules() []Rule {
	var rules []Rule
	for f, policy := range p.fields {
		rules = append(rules, Rule{Source: "*", Field: string(f), Policy: policy.String()})
	}
	for src, byField := range p.overrides {
		for f, policy := range byField {
			rules = append(rules, Rule{Source: string(src), Field: string(f), Policy: policy.String()})
		}
	}
	sort.Slice(rules, func(i, j int) bool {
		if (rules[i].Source == "*") != (rules[j].Source == "*") {
			return rules[i].Source == "*"
		}
		if rules[i].Source != rules[j].Source {
			return rules[i].Source < rules[j].Source
		}
		return rules[i].Field < rules[j].Field
	})
	return rules
}
