package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

// dateKey is the key format of LeaveDetails and LeaveHistory.
const dateKey = "2006-01-02"

var (
	oneDay  = decimal.NewFromInt(1)
	halfDay = decimal.NewFromFloat(0.5)
)

// BuildLeaveDetails returns one entry per calendar day in [start, end]
// inclusive, each defaulted to FullDay. Callers validate start <= end
// before invoking; on an inverted range the result is empty.
func BuildLeaveDetails(start, end time.Time) map[string]DayClass {
	details := make(map[string]DayClass)
	for d := truncateToDay(start); !d.After(truncateToDay(end)); d = d.AddDate(0, 0, 1) {
		details[d.Format(dateKey)] = FullDay
	}
	return details
}

// ApplyHalfDayOverrides folds client-supplied half-day sessions into
// details. Only dates already present are touched; keys outside the
// request's range are ignored rather than inserted, tolerating extra
// client data. Any session other than FirstHalf or SecondHalf collapses
// back to FullDay.
func ApplyHalfDayOverrides(details map[string]DayClass, overrides map[string]string) map[string]DayClass {
	for date, session := range overrides {
		if _, ok := details[date]; !ok {
			continue
		}
		switch DayClass(session) {
		case FirstHalf, SecondHalf:
			details[date] = DayClass(session)
		default:
			details[date] = FullDay
		}
	}
	return details
}

// TotalDays sums the classifications: a full day counts 1, either half
// counts 0.5. Decimal arithmetic keeps repeated half-day sums exact.
func TotalDays(details map[string]DayClass) decimal.Decimal {
	total := decimal.Zero
	for _, class := range details {
		switch class {
		case FirstHalf, SecondHalf:
			total = total.Add(halfDay)
		default:
			total = total.Add(oneDay)
		}
	}
	return total
}

// MergeHistory reconciles an edit against the stored history. For every
// date present in both the old and new details whose classification
// changed, the old classification is recorded, overwriting any earlier
// history entry for that date. Dates that only appear on one side (the
// range grew or shrank) contribute nothing. Existing entries are never
// removed.
func MergeHistory(oldDetails, newDetails, history map[string]DayClass) map[string]DayClass {
	merged := make(map[string]DayClass, len(history))
	for date, class := range history {
		merged[date] = class
	}
	for date, newClass := range newDetails {
		oldClass, ok := oldDetails[date]
		if ok && oldClass != newClass {
			merged[date] = oldClass
		}
	}
	return merged
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
