package rolemapping

import (
	"errors"
	"slices"
)

// Logger defines an optional logging interface compatible with log/slog.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Resolver picks at most one rule out of a RuleSet. It never mutates the
// rule set and is safe for concurrent use.
type Resolver struct {
	rules     RuleSet
	accountID string
	logger    Logger
}

// Option configures a Resolver.
type Option func(*Resolver) error

// WithAccountID sets the AWS account the role ARNs are built in (REQUIRED).
func WithAccountID(accountID string) Option {
	return func(r *Resolver) error {
		if accountID == "" {
			return errors.New("account id cannot be empty")
		}
		r.accountID = accountID
		return nil
	}
}

// WithLogger sets an optional logger that receives the candidate set and the
// chosen rule of every resolution.
func WithLogger(logger Logger) Option {
	return func(r *Resolver) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		r.logger = logger
		return nil
	}
}

// NewResolver builds a Resolver over rules.
func NewResolver(rules RuleSet, opts ...Option) (*Resolver, error) {
	r := &Resolver{rules: slices.Clone(rules)}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	if r.accountID == "" {
		return nil, errors.New("account id is required but not set (use WithAccountID)")
	}

	return r, nil
}

// Resolve returns the rule with the smallest priority among those matching
// environment and domain whose role ARN the caller holds. Rules sharing the
// smallest priority are resolved in rule-file order. The boolean is false
// when no rule matches, which is the ordinary "not entitled" outcome.
func (r *Resolver) Resolve(domain, environment string, callerRoles []string) (Rule, bool) {
	var candidates []Rule
	for _, rule := range r.rules {
		if rule.Environment != environment || rule.AssociatedDomain != domain {
			continue
		}
		if !slices.Contains(callerRoles, rule.RoleARN(r.accountID)) {
			continue
		}
		candidates = append(candidates, rule)
	}

	if r.logger != nil {
		r.logger.Info("role candidates",
			"domain", domain,
			"environment", environment,
			"candidates", candidates)
	}

	if len(candidates) == 0 {
		return Rule{}, false
	}

	slices.SortStableFunc(candidates, Rule.Compare)
	chosen := candidates[0]

	if r.logger != nil {
		r.logger.Info("role chosen",
			"role", chosen.RoleName,
			"role_arn", chosen.RoleARN(r.accountID),
			"priority", chosen.Priority)
	}

	return chosen, true
}

// RoleARN returns the ARN of rule in the resolver's account.
func (r *Resolver) RoleARN(rule Rule) string {
	return rule.RoleARN(r.accountID)
}
