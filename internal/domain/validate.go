package domain

import (
	"fmt"
	"net/mail"
	"strings"
)

// ValidationError carries a comma-joined list of every violated constraint,
// so callers see all problems in a single round trip.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// fieldRule is one declarative constraint. Rules are enumerated as data per
// record type instead of annotations on the entity structs.
type fieldRule struct {
	field string
	min   int
	max   int
	email bool
}

func (r fieldRule) check(value string) []string {
	var violations []string
	length := len(value)
	if r.min > 0 && length < r.min {
		violations = append(violations,
			fmt.Sprintf("%s must be longer than or equal to %d characters", r.field, r.min))
	}
	if r.max > 0 && length > r.max {
		violations = append(violations,
			fmt.Sprintf("%s must be shorter than or equal to %d characters", r.field, r.max))
	}
	if r.email {
		if _, err := mail.ParseAddress(value); err != nil {
			violations = append(violations, fmt.Sprintf("%s must be an email", r.field))
		}
	}
	return violations
}

var credentialRules = []fieldRule{
	{field: "id", min: 1},
	{field: "password", min: 8, max: 100},
	{field: "activationToken", min: 64, max: 64},
}

var userRules = []fieldRule{
	{field: "id", min: 1},
	{field: "name", min: 3, max: 50},
	{field: "last", min: 3, max: 50},
	{field: "email", email: true, max: 100},
}

// CredentialFields holds the credential fields under validation. Nil means
// the field was not supplied; with skipMissing it is then ignored (partial
// validation), otherwise it violates its rule like an empty value would.
type CredentialFields struct {
	ID              *string
	Password        *string
	ActivationToken *string
}

func (f CredentialFields) lookup(name string) *string {
	switch name {
	case "id":
		return f.ID
	case "password":
		return f.Password
	case "activationToken":
		return f.ActivationToken
	}
	return nil
}

// UserFields mirrors CredentialFields for the identity record.
type UserFields struct {
	ID    *string
	Name  *string
	Last  *string
	Email *string
	Roles *RoleList
}

func (f UserFields) lookup(name string) *string {
	switch name {
	case "id":
		return f.ID
	case "name":
		return f.Name
	case "last":
		return f.Last
	case "email":
		return f.Email
	}
	return nil
}

// ValidateCredentialFields applies the credential rule table and returns a
// ValidationError joining every violation, or nil.
func ValidateCredentialFields(fields CredentialFields, skipMissing bool) error {
	return applyRules(credentialRules, fields.lookup, skipMissing, nil)
}

// ValidateUserFields applies the identity rule table. The roles constraint
// (non-empty list) has no string representation, so it is handled apart from
// the table.
func ValidateUserFields(fields UserFields, skipMissing bool) error {
	var extra []string
	if fields.Roles == nil {
		if !skipMissing {
			extra = append(extra, "roles should not be empty")
		}
	} else if len(*fields.Roles) == 0 {
		extra = append(extra, "roles should not be empty")
	}
	return applyRules(userRules, fields.lookup, skipMissing, extra)
}

func applyRules(rules []fieldRule, lookup func(string) *string, skipMissing bool, extra []string) error {
	var violations []string
	for _, rule := range rules {
		value := lookup(rule.field)
		if value == nil {
			if skipMissing {
				continue
			}
			violations = append(violations, rule.check("")...)
			continue
		}
		violations = append(violations, rule.check(*value)...)
	}
	violations = append(violations, extra...)
	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{Message: strings.Join(violations, ", ")}
}
