package reconciler

import (
	"github.com/agentstation/amjd/pkg/errors"
	"github.com/agentstation/amjd/pkg/sources"
)

// options configures a reconciler.
type options struct {
	policies Policies
	tracking bool
	observer Observer
	runID    string
	only     map[sources.ID]bool
}

func defaultOptions() *options {
	return &options{
		policies: DefaultPolicies(),
		tracking: true,
		observer: nopObserver{},
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (options *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

// newOptions returns reconciler options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithPolicies replaces the field precedence table.
func WithPolicies(policies Policies) Option {
	return func(o *options) error {
		if policies.fields == nil && policies.overrides == nil {
			return &errors.ValidationError{
				Field:   "policies",
				Message: "cannot be empty",
			}
		}
		if err := policies.Validate(); err != nil {
			return err
		}
		o.policies = policies
		return nil
	}
}

// WithProvenance enables field-level tracking.
func WithProvenance(enabled bool) Option {
	return func(o *options) error {
		o.tracking = enabled
		return nil
	}
}

// WithObserver receives per-source counts, e.g. for metrics.
func WithObserver(observer Observer) Option {
	return func(o *options) error {
		if observer == nil {
			return &errors.ValidationError{
				Field:   "observer",
				Message: "cannot be nil",
			}
		}
		o.observer = observer
		return nil
	}
}

// WithRunID fixes the run identifier instead of generating one.
func WithRunID(id string) Option {
	return func(o *options) error {
		if id == "" {
			return &errors.ValidationError{
				Field:   "run_id",
				Message: "cannot be empty",
			}
		}
		o.runID = id
		return nil
	}
}

// WithOnly restricts the run to the named passes.
func WithOnly(ids ...sources.ID) Option {
	return func(o *options) error {
		o.only = make(map[sources.ID]bool, len(ids))
		for _, id := range ids {
			if !id.IsValid() {
				return errors.NewValidationError("source", string(id), "unknown source")
			}
			o.only[id] = true
		}
		return nil
	}
}
