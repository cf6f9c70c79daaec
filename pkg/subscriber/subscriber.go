// Package subscriber owns the subscriber record and the store that
// persists plan entitlements keyed by email.
package subscriber

import (
	"strings"

	"github.com/planbridge/planbridge/pkg/plan"
)

// Record is one subscriber row: an email key and the entitlement fields
// reconciliation maintains. Timestamp columns are owned by the database.
type Record struct {
	Email      string
	Plan       plan.Plan
	UsageLimit string
}

// NormalizeEmail canonicalizes an email for use as a record key. Every
// write path must pass emails through here so lookups stay consistent.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
