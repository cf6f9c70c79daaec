// Package plan defines the closed set of subscription plans and the
// immutable mapping from payment-processor price/product tokens to plans.
package plan

import "strings"

// Plan identifies one of the sellable subscription tiers.
type Plan string

const (
	Basic Plan = "Basic"
	Pro   Plan = "Pro"
	Elite Plan = "Elite"
)

// UnlimitedUsage is the sentinel usage limit stored for plans without a cap.
const UnlimitedUsage = "unlimited"

// All lists every plan. The mapping table must cover each of them.
func All() []Plan {
	return []Plan{Basic, Pro, Elite}
}

// Parse matches a plan name case-insensitively, so URL segments and request
// payloads can use lower-case names.
func Parse(s string) (Plan, bool) {
	for _, p := range All() {
		if strings.EqualFold(string(p), s) {
			return p, true
		}
	}
	return "", false
}

// Valid reports whether p is one of the known plans.
func (p Plan) Valid() bool {
	switch p {
	case Basic, Pro, Elite:
		return true
	}
	return false
}

// UsageLimit returns the canonical usage limit for the plan. Limits are
// stored as strings because the durable record keeps "unlimited" alongside
// numeric values.
func (p Plan) UsageLimit() string {
	switch p {
	case Basic:
		return "10"
	case Pro:
		return "100"
	case Elite:
		return UnlimitedUsage
	}
	return ""
}
