package leave_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZainabRupawala2805/employee-management-system/internal/domain/auth"
	"github.com/ZainabRupawala2805/employee-management-system/internal/domain/fault"
	"github.com/ZainabRupawala2805/employee-management-system/internal/domain/leave"
	"github.com/ZainabRupawala2805/employee-management-system/internal/testutil"
)

func newFixture() (*leave.Service, *testutil.FakeLeaveStore, *testutil.FakeUserStore) {
	userStore := testutil.NewFakeUserStore()
	leaveStore := testutil.NewFakeLeaveStore(userStore)
	return leave.NewService(leaveStore, userStore), leaveStore, userStore
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCreateLeave(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path returns balances and sorted leaves", func(t *testing.T) {
		svc, _, userStore := newFixture()
		userID := userStore.Seed("Asha", auth.RoleEmployee, 24, 8, 16, 0, 0)

		_, err := svc.CreateLeave(ctx, leave.CreateInput{
			UserID:    userID,
			StartDate: day(2025, 4, 1),
			EndDate:   day(2025, 4, 3),
			Reason:    "family visit",
			LeaveType: leave.TypePaid,
		})
		require.NoError(t, err)

		overview, err := svc.CreateLeave(ctx, leave.CreateInput{
			UserID:    userID,
			StartDate: day(2025, 5, 1),
			EndDate:   day(2025, 5, 1),
			Reason:    "errand",
			LeaveType: leave.TypeSick,
		})
		require.NoError(t, err)

		assert.Equal(t, 24.0, overview.User.AvailableLeaves)
		require.Len(t, overview.Leaves, 2)
		assert.Equal(t, day(2025, 5, 1), overview.Leaves[0].StartDate)
		assert.Equal(t, leave.StatusPending, overview.Leaves[0].Status)
		assert.Len(t, overview.Leaves[1].LeaveDetails, 3)
	})

	t.Run("half day overrides land in the details", func(t *testing.T) {
		svc, store, userStore := newFixture()
		userID := userStore.Seed("Asha", auth.RoleEmployee, 24, 8, 16, 0, 0)

		overview, err := svc.CreateLeave(ctx, leave.CreateInput{
			UserID:    userID,
			StartDate: day(2025, 4, 1),
			EndDate:   day(2025, 4, 2),
			Reason:    "appointment",
			LeaveType: leave.TypePaid,
			HalfDayDates: map[string]string{
				"2025-04-02": "Second Half",
				"2025-04-09": "First Half",
			},
		})
		require.NoError(t, err)
		require.Len(t, overview.Leaves, 1)

		details := store.Leaves[overview.Leaves[0].ID].LeaveDetails
		assert.Equal(t, leave.FullDay, details["2025-04-01"])
		assert.Equal(t, leave.SecondHalf, details["2025-04-02"])
		assert.NotContains(t, details, "2025-04-09")
	})

	t.Run("no balance check at submission", func(t *testing.T) {
		svc, _, userStore := newFixture()
		userID := userStore.Seed("Asha", auth.RoleEmployee, 1, 0, 1, 0, 0)

		_, err := svc.CreateLeave(ctx, leave.CreateInput{
			UserID:    userID,
			StartDate: day(2025, 4, 1),
			EndDate:   day(2025, 4, 30),
			Reason:    "sabbatical",
			LeaveType: leave.TypePaid,
		})
		assert.NoError(t, err)
	})

	t.Run("missing required fields", func(t *testing.T) {
		svc, _, userStore := newFixture()
		userID := userStore.Seed("Asha", auth.RoleEmployee, 24, 8, 16, 0, 0)

		_, err := svc.CreateLeave(ctx, leave.CreateInput{
			UserID:    userID,
			StartDate: day(2025, 4, 1),
			EndDate:   day(2025, 4, 2),
			LeaveType: leave.TypePaid,
		})
		require.Error(t, err)
		assert.Equal(t, fault.KindValidation, fault.KindOf(err))
		assert.EqualError(t, err, "all required fields must be filled")
	})

	t.Run("start after end", func(t *testing.T) {
		svc, _, userStore := newFixture()
		userID := userStore.Seed("Asha", auth.RoleEmployee, 24, 8, 16, 0, 0)

		_, err := svc.CreateLeave(ctx, leave.CreateInput{
			UserID:    userID,
			StartDate: day(2025, 4, 5),
			EndDate:   day(2025, 4, 1),
			Reason:    "trip",
			LeaveType: leave.TypePaid,
		})
		require.Error(t, err)
		assert.EqualError(t, err, "start date cannot be after end date")
	})

	t.Run("malformed user id", func(t *testing.T) {
		svc, _, _ := newFixture()
		_, err := svc.CreateLeave(ctx, leave.CreateInput{
			UserID:    "not-a-uuid",
			StartDate: day(2025, 4, 1),
			EndDate:   day(2025, 4, 1),
			Reason:    "trip",
			LeaveType: leave.TypePaid,
		})
		require.Error(t, err)
		assert.Equal(t, fault.KindValidation, fault.KindOf(err))
	})
}

func TestUpdateLeave(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T) (*leave.Service, *testutil.FakeLeaveStore, string, string) {
		svc, store, userStore := newFixture()
		userID := userStore.Seed("Asha", auth.RoleEmployee, 24, 8, 16, 0, 0)
		overview, err := svc.CreateLeave(ctx, leave.CreateInput{
			UserID:    userID,
			StartDate: day(2025, 4, 1),
			EndDate:   day(2025, 4, 3),
			Reason:    "trip",
			LeaveType: leave.TypePaid,
		})
		require.NoError(t, err)
		return svc, store, userID, overview.Leaves[0].ID
	}

	strPtr := func(s string) *string { return &s }
	datePtr := func(d time.Time) *time.Time { return &d }

	t.Run("shifting the range rebuilds details and records history", func(t *testing.T) {
		svc, store, userID, leaveID := seed(t)

		_, err := svc.UpdateLeave(ctx, userID, leaveID, leave.Patch{
			StartDate: datePtr(day(2025, 4, 2)),
			EndDate:   datePtr(day(2025, 4, 4)),
			HalfDayDates: map[string]string{
				"2025-04-02": "First Half",
			},
		})
		require.NoError(t, err)

		updated := store.Leaves[leaveID]
		assert.Len(t, updated.LeaveDetails, 3)
		assert.NotContains(t, updated.LeaveDetails, "2025-04-01")
		assert.Equal(t, leave.FirstHalf, updated.LeaveDetails["2025-04-02"])

		// 2025-04-02 was Full Day before the edit and changed class;
		// 2025-04-03 kept its class; 2025-04-01 left the range entirely.
		require.Len(t, updated.LeaveHistory, 1)
		assert.Equal(t, leave.FullDay, updated.LeaveHistory["2025-04-02"])
	})

	t.Run("history accumulates across edits", func(t *testing.T) {
		svc, store, userID, leaveID := seed(t)

		_, err := svc.UpdateLeave(ctx, userID, leaveID, leave.Patch{
			HalfDayDates: map[string]string{"2025-04-01": "First Half"},
		})
		require.NoError(t, err)

		_, err = svc.UpdateLeave(ctx, userID, leaveID, leave.Patch{
			HalfDayDates: map[string]string{"2025-04-01": "Second Half", "2025-04-02": "First Half"},
		})
		require.NoError(t, err)

		history := store.Leaves[leaveID].LeaveHistory
		assert.Equal(t, leave.FirstHalf, history["2025-04-01"])
		assert.Equal(t, leave.FullDay, history["2025-04-02"])
	})

	t.Run("status change is refused", func(t *testing.T) {
		svc, _, userID, leaveID := seed(t)

		_, err := svc.UpdateLeave(ctx, userID, leaveID, leave.Patch{
			Status: strPtr(leave.StatusApproved),
		})
		require.Error(t, err)
		assert.Equal(t, fault.KindBusinessRule, fault.KindOf(err))
	})

	t.Run("same status in the patch is ignored", func(t *testing.T) {
		svc, _, userID, leaveID := seed(t)

		_, err := svc.UpdateLeave(ctx, userID, leaveID, leave.Patch{
			Status: strPtr(leave.StatusPending),
			Reason: strPtr("longer trip"),
		})
		assert.NoError(t, err)
	})

	t.Run("malformed leave id", func(t *testing.T) {
		svc, _, userID, _ := seed(t)
		_, err := svc.UpdateLeave(ctx, userID, "nope", leave.Patch{})
		require.Error(t, err)
		assert.Equal(t, fault.KindValidation, fault.KindOf(err))
	})

	t.Run("unknown leave id", func(t *testing.T) {
		svc, _, userID, _ := seed(t)
		_, err := svc.UpdateLeave(ctx, userID, "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee", leave.Patch{})
		require.Error(t, err)
		assert.Equal(t, fault.KindNotFound, fault.KindOf(err))
	})
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()

	submit := func(t *testing.T, svc *leave.Service, userID, leaveType string, start, end time.Time, overrides map[string]string) string {
		overview, err := svc.CreateLeave(ctx, leave.CreateInput{
			UserID:       userID,
			StartDate:    start,
			EndDate:      end,
			Reason:       "time off",
			LeaveType:    leaveType,
			HalfDayDates: overrides,
		})
		require.NoError(t, err)
		return overview.Leaves[0].ID
	}

	t.Run("sick approval deducts sick and available, credits total", func(t *testing.T) {
		svc, _, userStore := newFixture()
		userID := userStore.Seed("Asha", auth.RoleEmployee, 10, 5, 16, 0, 0)
		leaveID := submit(t, svc, userID, leave.TypeSick, day(2025, 4, 1), day(2025, 4, 3), nil)

		req, err := svc.UpdateStatus(ctx, leaveID, leave.StatusApproved)
		require.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, req.Status)

		bal, err := userStore.FindBalances(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 2.0, bal.SickLeave)
		assert.Equal(t, 7.0, bal.AvailableLeaves)
		assert.Equal(t, 16.0, bal.PaidLeave)
		assert.Equal(t, 3.0, bal.TotalLeaves)
	})

	t.Run("half days count as half", func(t *testing.T) {
		svc, _, userStore := newFixture()
		userID := userStore.Seed("Asha", auth.RoleEmployee, 10, 5, 16, 0, 0)
		leaveID := submit(t, svc, userID, leave.TypePaid, day(2025, 4, 1), day(2025, 4, 2), map[string]string{
			"2025-04-01": "First Half",
			"2025-04-02": "Second Half",
		})

		_, err := svc.UpdateStatus(ctx, leaveID, leave.StatusApproved)
		require.NoError(t, err)

		bal, err := userStore.FindBalances(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 15.0, bal.PaidLeave)
		assert.Equal(t, 9.0, bal.AvailableLeaves)
		assert.Equal(t, 1.0, bal.TotalLeaves)
	})

	t.Run("insufficient paid leave leaves balances untouched", func(t *testing.T) {
		svc, _, userStore := newFixture()
		userID := userStore.Seed("Asha", auth.RoleEmployee, 20, 8, 3, 0, 0)
		leaveID := submit(t, svc, userID, leave.TypePaid, day(2025, 4, 1), day(2025, 4, 5), nil)

		_, err := svc.UpdateStatus(ctx, leaveID, leave.StatusApproved)
		require.Error(t, err)
		assert.Equal(t, fault.KindBusinessRule, fault.KindOf(err))
		assert.EqualError(t, err, "not enough paid leaves available")

		bal, err := userStore.FindBalances(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 3.0, bal.PaidLeave)
		assert.Equal(t, 20.0, bal.AvailableLeaves)
		assert.Equal(t, 0.0, bal.TotalLeaves)
	})

	t.Run("insufficient available leave is its own message", func(t *testing.T) {
		svc, _, userStore := newFixture()
		userID := userStore.Seed("Asha", auth.RoleEmployee, 2, 8, 10, 0, 0)
		leaveID := submit(t, svc, userID, leave.TypePaid, day(2025, 4, 1), day(2025, 4, 5), nil)

		_, err := svc.UpdateStatus(ctx, leaveID, leave.StatusApproved)
		require.Error(t, err)
		assert.EqualError(t, err, "not enough available leaves")
	})

	t.Run("unpaid approval accrues without deduction", func(t *testing.T) {
		svc, _, userStore := newFixture()
		userID := userStore.Seed("Asha", auth.RoleEmployee, 0, 0, 0, 2, 5)
		leaveID := submit(t, svc, userID, leave.TypeUnpaid, day(2025, 4, 1), day(2025, 4, 2), nil)

		_, err := svc.UpdateStatus(ctx, leaveID, leave.StatusApproved)
		require.NoError(t, err)

		bal, err := userStore.FindBalances(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 4.0, bal.UnpaidLeave)
		assert.Equal(t, 0.0, bal.AvailableLeaves)
		assert.Equal(t, 7.0, bal.TotalLeaves)
	})

	t.Run("rejection never touches balances", func(t *testing.T) {
		svc, _, userStore := newFixture()
		userID := userStore.Seed("Asha", auth.RoleEmployee, 10, 5, 16, 0, 0)
		leaveID := submit(t, svc, userID, leave.TypePaid, day(2025, 4, 1), day(2025, 4, 3), nil)

		req, err := svc.UpdateStatus(ctx, leaveID, leave.StatusRejected)
		require.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, req.Status)

		bal, err := userStore.FindBalances(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 16.0, bal.PaidLeave)
		assert.Equal(t, 10.0, bal.AvailableLeaves)
	})

	t.Run("decided requests cannot be decided again", func(t *testing.T) {
		svc, _, userStore := newFixture()
		userID := userStore.Seed("Asha", auth.RoleEmployee, 10, 5, 16, 0, 0)
		leaveID := submit(t, svc, userID, leave.TypePaid, day(2025, 4, 1), day(2025, 4, 1), nil)

		_, err := svc.UpdateStatus(ctx, leaveID, leave.StatusApproved)
		require.NoError(t, err)

		_, err = svc.UpdateStatus(ctx, leaveID, leave.StatusApproved)
		require.Error(t, err)
		assert.Equal(t, fault.KindBusinessRule, fault.KindOf(err))

		// One deduction only.
		bal, err := userStore.FindBalances(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 15.0, bal.PaidLeave)
	})

	t.Run("unknown leave type", func(t *testing.T) {
		svc, _, userStore := newFixture()
		userID := userStore.Seed("Asha", auth.RoleEmployee, 10, 5, 16, 0, 0)
		leaveID := submit(t, svc, userID, "Casual", day(2025, 4, 1), day(2025, 4, 1), nil)

		_, err := svc.UpdateStatus(ctx, leaveID, leave.StatusApproved)
		require.Error(t, err)
		assert.EqualError(t, err, "invalid leave type")
	})

	t.Run("status outside the decision set", func(t *testing.T) {
		svc, _, userStore := newFixture()
		userID := userStore.Seed("Asha", auth.RoleEmployee, 10, 5, 16, 0, 0)
		leaveID := submit(t, svc, userID, leave.TypePaid, day(2025, 4, 1), day(2025, 4, 1), nil)

		_, err := svc.UpdateStatus(ctx, leaveID, "Cancelled")
		require.Error(t, err)
		assert.Equal(t, fault.KindValidation, fault.KindOf(err))
	})

	t.Run("concurrent approvals deduct exactly once", func(t *testing.T) {
		svc, _, userStore := newFixture()
		userID := userStore.Seed("Asha", auth.RoleEmployee, 10, 5, 16, 0, 0)
		leaveID := submit(t, svc, userID, leave.TypePaid, day(2025, 4, 1), day(2025, 4, 2), nil)

		var wg sync.WaitGroup
		errs := make([]error, 8)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = svc.UpdateStatus(ctx, leaveID, leave.StatusApproved)
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
			}
		}
		assert.Equal(t, 1, succeeded)

		bal, err := userStore.FindBalances(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 14.0, bal.PaidLeave)
		assert.Equal(t, 8.0, bal.AvailableLeaves)
	})
}

func TestFilteredLeaves(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T) (*leave.Service, string, string, string) {
		svc, _, userStore := newFixture()
		a := userStore.Seed("Asha", auth.RoleEmployee, 24, 8, 16, 0, 0)
		b := userStore.Seed("Bilal", auth.RoleEmployee, 24, 8, 16, 0, 0)
		c := userStore.Seed("Chen", auth.RoleEmployee, 24, 8, 16, 0, 0)
		for _, id := range []string{a, b, c} {
			_, err := svc.CreateLeave(ctx, leave.CreateInput{
				UserID:    id,
				StartDate: day(2025, 4, 1),
				EndDate:   day(2025, 4, 1),
				Reason:    "time off",
				LeaveType: leave.TypePaid,
			})
			require.NoError(t, err)
		}
		return svc, a, b, c
	}

	t.Run("founder sees everything", func(t *testing.T) {
		svc, _, _, _ := seed(t)
		leaves, err := svc.FilteredLeaves(ctx, auth.RoleFounder, nil)
		require.NoError(t, err)
		assert.Len(t, leaves, 3)
	})

	t.Run("manager sees direct reports only", func(t *testing.T) {
		svc, a, b, _ := seed(t)
		leaves, err := svc.FilteredLeaves(ctx, auth.RoleManager, []string{a, b})
		require.NoError(t, err)
		assert.Len(t, leaves, 2)
	})

	t.Run("empty report set yields empty, not all", func(t *testing.T) {
		svc, _, _, _ := seed(t)

		leaves, err := svc.FilteredLeaves(ctx, auth.RoleManager, nil)
		require.NoError(t, err)
		assert.Empty(t, leaves)

		leaves, err = svc.FilteredLeaves(ctx, auth.RoleManager, []string{"", "  "})
		require.NoError(t, err)
		assert.Empty(t, leaves)
	})
}

func TestLeavesByUser(t *testing.T) {
	ctx := context.Background()
	svc, _, userStore := newFixture()
	userID := userStore.Seed("Asha", auth.RoleEmployee, 24, 8, 16, 0, 0)

	_, err := svc.CreateLeave(ctx, leave.CreateInput{
		UserID:    userID,
		StartDate: day(2025, 4, 1),
		EndDate:   day(2025, 4, 1),
		Reason:    "time off",
		LeaveType: leave.TypePaid,
	})
	require.NoError(t, err)

	overview, err := svc.LeavesByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Asha", overview.User.Name)
	assert.Len(t, overview.Leaves, 1)

	_, err = svc.LeavesByUser(ctx, "bad-id")
	require.Error(t, err)
	assert.Equal(t, fault.KindValidation, fault.KindOf(err))
}
