package resource

import (
	"github.com/shopspring/decimal"
)

var twenty = decimal.NewFromInt(20)

func parseHours(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// Resource is a named person whose hours are allocated across projects.
type Resource struct {
	ID   string
	Code string
	Name string
	// DefaultCapacity is the base monthly capacity in hours (e.g. 160).
	DefaultCapacity decimal.Decimal
	Team            string
	Active          bool
	// Skills is the ordered list of skill names the resource covers.
	Skills []string
}

// DailyBaseHours is the theoretical capacity of one working day,
// derived from the monthly default (DefaultCapacity / 20).
func (r Resource) DailyBaseHours() decimal.Decimal {
	return r.DefaultCapacity.Div(twenty)
}

// DailyCapacity is the whole-hour daily limit used by conflict checks:
// floor(DefaultCapacity / 20).
func (r Resource) DailyCapacity() decimal.Decimal {
	return r.DefaultCapacity.Div(twenty).Floor()
}
