package leave

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildLeaveDetails(t *testing.T) {
	t.Run("single day", func(t *testing.T) {
		details := BuildLeaveDetails(day(2025, 3, 10), day(2025, 3, 10))
		require.Len(t, details, 1)
		assert.Equal(t, FullDay, details["2025-03-10"])
	})

	t.Run("inclusive range", func(t *testing.T) {
		details := BuildLeaveDetails(day(2025, 3, 10), day(2025, 3, 14))
		require.Len(t, details, 5)
		for _, key := range []string{"2025-03-10", "2025-03-11", "2025-03-12", "2025-03-13", "2025-03-14"} {
			assert.Equal(t, FullDay, details[key], key)
		}
	})

	t.Run("crosses month boundary", func(t *testing.T) {
		details := BuildLeaveDetails(day(2025, 1, 30), day(2025, 2, 2))
		require.Len(t, details, 4)
		assert.Contains(t, details, "2025-01-31")
		assert.Contains(t, details, "2025-02-01")
	})

	t.Run("time of day is ignored", func(t *testing.T) {
		start := time.Date(2025, 3, 10, 23, 45, 0, 0, time.UTC)
		end := time.Date(2025, 3, 11, 0, 15, 0, 0, time.UTC)
		details := BuildLeaveDetails(start, end)
		require.Len(t, details, 2)
	})

	t.Run("inverted range yields nothing", func(t *testing.T) {
		details := BuildLeaveDetails(day(2025, 3, 14), day(2025, 3, 10))
		assert.Empty(t, details)
	})
}

func TestApplyHalfDayOverrides(t *testing.T) {
	base := func() map[string]DayClass {
		return BuildLeaveDetails(day(2025, 3, 10), day(2025, 3, 12))
	}

	t.Run("marks existing dates", func(t *testing.T) {
		details := ApplyHalfDayOverrides(base(), map[string]string{
			"2025-03-10": "First Half",
			"2025-03-12": "Second Half",
		})
		assert.Equal(t, FirstHalf, details["2025-03-10"])
		assert.Equal(t, FullDay, details["2025-03-11"])
		assert.Equal(t, SecondHalf, details["2025-03-12"])
	})

	t.Run("dates outside the range never appear", func(t *testing.T) {
		details := ApplyHalfDayOverrides(base(), map[string]string{
			"2025-03-20": "First Half",
		})
		require.Len(t, details, 3)
		assert.NotContains(t, details, "2025-03-20")
	})

	t.Run("unknown session collapses to full day", func(t *testing.T) {
		details := ApplyHalfDayOverrides(base(), map[string]string{
			"2025-03-11": "Morning",
		})
		assert.Equal(t, FullDay, details["2025-03-11"])
	})

	t.Run("nil overrides are a no-op", func(t *testing.T) {
		details := ApplyHalfDayOverrides(base(), nil)
		require.Len(t, details, 3)
		for _, class := range details {
			assert.Equal(t, FullDay, class)
		}
	})
}

func TestTotalDays(t *testing.T) {
	details := map[string]DayClass{
		"2025-03-10": FullDay,
		"2025-03-11": FirstHalf,
		"2025-03-12": SecondHalf,
		"2025-03-13": FullDay,
	}
	assert.True(t, TotalDays(details).Equal(decimal.NewFromFloat(3)))
	assert.True(t, TotalDays(nil).IsZero())
}

func TestMergeHistory(t *testing.T) {
	t.Run("records prior class for changed dates", func(t *testing.T) {
		oldDetails := map[string]DayClass{
			"2025-03-10": FullDay,
			"2025-03-11": FirstHalf,
		}
		newDetails := map[string]DayClass{
			"2025-03-10": SecondHalf,
			"2025-03-11": FirstHalf,
		}
		history := MergeHistory(oldDetails, newDetails, nil)
		require.Len(t, history, 1)
		assert.Equal(t, FullDay, history["2025-03-10"])
	})

	t.Run("dates only on one side are not recorded", func(t *testing.T) {
		oldDetails := map[string]DayClass{"2025-03-10": FullDay}
		newDetails := map[string]DayClass{"2025-03-11": FullDay}
		history := MergeHistory(oldDetails, newDetails, nil)
		assert.Empty(t, history)
	})

	t.Run("later edits overwrite earlier history", func(t *testing.T) {
		existing := map[string]DayClass{"2025-03-10": FullDay}
		oldDetails := map[string]DayClass{"2025-03-10": FirstHalf}
		newDetails := map[string]DayClass{"2025-03-10": SecondHalf}
		history := MergeHistory(oldDetails, newDetails, existing)
		assert.Equal(t, FirstHalf, history["2025-03-10"])
	})

	t.Run("untouched history entries survive", func(t *testing.T) {
		existing := map[string]DayClass{"2025-03-01": FullDay}
		oldDetails := map[string]DayClass{"2025-03-10": FullDay}
		newDetails := map[string]DayClass{"2025-03-10": FullDay}
		history := MergeHistory(oldDetails, newDetails, existing)
		assert.Equal(t, FullDay, history["2025-03-01"])
	})

	t.Run("does not mutate the input history", func(t *testing.T) {
		existing := map[string]DayClass{"2025-03-01": FullDay}
		oldDetails := map[string]DayClass{"2025-03-10": FullDay}
		newDetails := map[string]DayClass{"2025-03-10": FirstHalf}
		_ = MergeHistory(oldDetails, newDetails, existing)
		require.Len(t, existing, 1)
	})
}
