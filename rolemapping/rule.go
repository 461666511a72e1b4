// Package rolemapping selects the IAM role an identity token is allowed to
// assume for a given API domain and deployment environment.
//
// Cognito attaches every role of every group a user belongs to in the
// cognito:roles claim. The rule set narrows that list down to the one role
// bound to the requested domain, using the rule priority to pick between
// several entitled roles.
package rolemapping

import (
	"cmp"
	"errors"
	"fmt"
)

// ErrInvalidRule is returned when a rule file entry lacks a required field.
var ErrInvalidRule = errors.New("invalid role mapping rule")

// Rule binds a role to an API domain in one environment.
//
// Rules are ordered by Priority alone, lower values first. Two rules with the
// same priority compare equal whatever their other fields hold.
type Rule struct {
	RoleName         string `json:"roleName"`
	Priority         int    `json:"priority"`
	AssociatedDomain string `json:"associatedDomain"`
	Environment      string `json:"environment"`
	ServiceName      string `json:"serviceName"`
}

// RoleARN returns the IAM role ARN of the rule inside accountID.
func (r Rule) RoleARN(accountID string) string {
	return fmt.Sprintf("arn:aws:iam::%s:role/%s", accountID, r.RoleName)
}

// Compare orders rules by priority.
func (r Rule) Compare(other Rule) int {
	return cmp.Compare(r.Priority, other.Priority)
}

func (r Rule) validate() error {
	switch {
	case r.RoleName == "":
		return fmt.Errorf("%w: roleName is required", ErrInvalidRule)
	case r.AssociatedDomain == "":
		return fmt.Errorf("%w: associatedDomain is required for role %q", ErrInvalidRule, r.RoleName)
	case r.Environment == "":
		return fmt.Errorf("%w: environment is required for role %q", ErrInvalidRule, r.RoleName)
	}
	return nil
}

// RuleSet is the ordered list of rules loaded from the role mapping file.
type RuleSet []Rule
