package capacity

import (
	"github.com/shopspring/decimal"
)

// Override supersedes a resource's computed base capacity for one
// month, for reporting purposes. It can never be set below the hours
// already assigned for that period; that rule is enforced at write time.
type Override struct {
	ID         string
	ResourceID string
	Month      int
	Year       int
	TotalHours decimal.Decimal
}

// BusinessRuleError is a domain rule violation detected before any
// write, carrying a machine-readable code next to the message.
type BusinessRuleError struct {
	Code    string
	Message string
}

func (e *BusinessRuleError) Error() string {
	return e.Message
}

const (
	CodeInactiveResource      = "INACTIVE_RESOURCE"
	CodeCapacityBelowAssigned = "CAPACITY_BELOW_ASSIGNED"
)
