package ledger

import (
	"fmt"
	"time"

	"github.com/capaplan/capaplan/pkg/assignment"
	"github.com/capaplan/capaplan/pkg/calendar"
	"github.com/capaplan/capaplan/pkg/resource"
	"github.com/shopspring/decimal"
)

// Entry is the derived per-resource, per-day ledger tuple. Entries are
// recomputed on every query and never cached across requests.
type Entry struct {
	ResourceID     string
	Date           time.Time
	BaseHours      decimal.Decimal
	AbsenceHours   decimal.Decimal
	CommittedHours decimal.Decimal
	// AvailableHours is max(0, base - absence - committed). The floor
	// at zero is a derived-value clamp, never an error.
	AvailableHours decimal.Decimal
}

// MonthEntry aggregates the day entries of one calendar month.
type MonthEntry struct {
	ResourceID     string
	Year           int
	Month          time.Month
	BaseHours      decimal.Decimal
	AbsenceHours   decimal.Decimal
	CommittedHours decimal.Decimal
	AvailableHours decimal.Decimal
}

// BuildDayEntries derives one Entry per day of the inclusive range from
// the resource's base capacity and its assignment rows. Weekend days
// have zero base hours. Commitment rows without an assigned resource
// contribute nothing.
func BuildDayEntries(res resource.Resource, assignments []assignment.Assignment, from, to time.Time) []Entry {
	absenceByDay, committedByDay := sumByDay(assignments)

	days := calendar.EnumerateDays(from, to)
	entries := make([]Entry, 0, len(days))
	for _, day := range days {
		key := calendar.DayKey(day)
		entries = append(entries, newEntry(res, day, absenceByDay[key], committedByDay[key]))
	}
	return entries
}

// BuildMonthEntry derives the month-level ledger entry by summing the
// month's 28-31 day entries.
func BuildMonthEntry(res resource.Resource, assignments []assignment.Assignment, year int, month time.Month) MonthEntry {
	first, last := calendar.MonthBounds(year, month)
	entries := BuildDayEntries(res, assignments, first, last)

	total := MonthEntry{
		ResourceID:     res.ID,
		Year:           year,
		Month:          month,
		BaseHours:      decimal.Zero,
		AbsenceHours:   decimal.Zero,
		CommittedHours: decimal.Zero,
		AvailableHours: decimal.Zero,
	}
	for _, e := range entries {
		total.BaseHours = total.BaseHours.Add(e.BaseHours)
		total.AbsenceHours = total.AbsenceHours.Add(e.AbsenceHours)
		total.CommittedHours = total.CommittedHours.Add(e.CommittedHours)
		total.AvailableHours = total.AvailableHours.Add(e.AvailableHours)
	}
	return total
}

func newEntry(res resource.Resource, day time.Time, absence, committed decimal.Decimal) Entry {
	base := decimal.Zero
	if !calendar.IsWeekend(day) {
		base = res.DailyBaseHours()
	}
	available := decimal.Max(decimal.Zero, base.Sub(absence).Sub(committed))
	return Entry{
		ResourceID:     res.ID,
		Date:           calendar.Midnight(day),
		BaseHours:      base,
		AbsenceHours:   absence,
		CommittedHours: committed,
		AvailableHours: available,
	}
}

func sumByDay(assignments []assignment.Assignment) (absence, committed map[string]decimal.Decimal) {
	absence = map[string]decimal.Decimal{}
	committed = map[string]decimal.Decimal{}
	for _, a := range assignments {
		key := calendar.DayKey(a.EffectiveDate())
		if a.IsAbsence() {
			absence[key] = absence[key].Add(a.Hours)
			continue
		}
		if !a.HasResource() {
			continue
		}
		committed[key] = committed[key].Add(a.Hours)
	}
	return absence, committed
}

// AbsenceFitError reports an interactive absence edit that would push
// absence + committed above the day's base hours.
type AbsenceFitError struct {
	ResourceID string
	Date       string
	Base       decimal.Decimal
	Committed  decimal.Decimal
	Proposed   decimal.Decimal
}

func (e *AbsenceFitError) Error() string {
	return fmt.Sprintf("absence of %s hours on %s does not fit: %s committed of %s base",
		e.Proposed, e.Date, e.Committed, e.Base)
}

// CheckDailyAbsenceFit enforces absence + committed <= base for a
// single day when an absence cell is edited directly. The caller must
// reject the edit (and revert the value) on error. The batch-save path
// deliberately does not run this check; see the conflict validator for
// the commitment-only rule applied there.
func CheckDailyAbsenceFit(res resource.Resource, day time.Time, committed, proposedAbsence decimal.Decimal) error {
	base := decimal.Zero
	if !calendar.IsWeekend(day) {
		base = res.DailyBaseHours()
	}
	if proposedAbsence.Add(committed).GreaterThan(base) {
		return &AbsenceFitError{
			ResourceID: res.ID,
			Date:       calendar.DayKey(day),
			Base:       base,
			Committed:  committed,
			Proposed:   proposedAbsence,
		}
	}
	return nil
}
