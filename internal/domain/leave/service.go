package leave

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ZainabRupawala2805/employee-management-system/internal/domain/auth"
	"github.com/ZainabRupawala2805/employee-management-system/internal/domain/fault"
)

type Service struct {
	store    StoreAPI
	balances BalanceStore
	locks    *userLocks
}

func NewService(store StoreAPI, balances BalanceStore) *Service {
	return &Service{store: store, balances: balances, locks: newUserLocks()}
}

type CreateInput struct {
	UserID         string
	StartDate      time.Time
	EndDate        time.Time
	Reason         string
	LeaveType      string
	HalfDayDates   map[string]string
	Attachment     string
	AttachmentName string
}

// CreateLeave files a new pending request. Balance sufficiency is not
// checked here; it is enforced once, at approval time.
func (s *Service) CreateLeave(ctx context.Context, in CreateInput) (*Overview, error) {
	if in.StartDate.IsZero() || in.EndDate.IsZero() || strings.TrimSpace(in.Reason) == "" || strings.TrimSpace(in.LeaveType) == "" {
		return nil, fault.Validation("all required fields must be filled")
	}
	if in.StartDate.After(in.EndDate) {
		return nil, fault.Validation("start date cannot be after end date")
	}
	if _, err := uuid.Parse(in.UserID); err != nil {
		return nil, fault.Validation("invalid user id format")
	}

	details := ApplyHalfDayOverrides(BuildLeaveDetails(in.StartDate, in.EndDate), in.HalfDayDates)

	if _, err := s.store.Create(ctx, Request{
		UserID:         in.UserID,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		Reason:         in.Reason,
		LeaveType:      in.LeaveType,
		Status:         StatusPending,
		LeaveDetails:   details,
		Attachment:     in.Attachment,
		AttachmentName: in.AttachmentName,
	}); err != nil {
		return nil, err
	}

	return s.overview(ctx, in.UserID)
}

// UpdateLeave edits an existing request. The date range may move or
// resize; leaveDetails is regenerated from scratch for the effective
// range and classification changes are folded into leaveHistory. Status
// changes are refused here: they go through UpdateStatus only.
func (s *Service) UpdateLeave(ctx context.Context, userID, leaveID string, patch Patch) (*Overview, error) {
	if _, err := uuid.Parse(strings.TrimSpace(leaveID)); err != nil {
		return nil, fault.Validation("invalid leave id format")
	}

	existing, err := s.store.FindByID(ctx, strings.TrimSpace(leaveID))
	if err != nil {
		return nil, err
	}

	if patch.Status != nil && *patch.Status != existing.Status {
		return nil, fault.BusinessRule("use the status endpoint to change leave status")
	}

	start := existing.StartDate
	if patch.StartDate != nil {
		start = *patch.StartDate
	}
	end := existing.EndDate
	if patch.EndDate != nil {
		end = *patch.EndDate
	}
	if start.After(end) {
		return nil, fault.Validation("start date cannot be after end date")
	}

	details := ApplyHalfDayOverrides(BuildLeaveDetails(start, end), patch.HalfDayDates)
	history := MergeHistory(existing.LeaveDetails, details, existing.LeaveHistory)

	update := Update{
		StartDate:      start,
		EndDate:        end,
		Reason:         existing.Reason,
		LeaveType:      existing.LeaveType,
		LeaveDetails:   details,
		LeaveHistory:   history,
		Attachment:     patch.Attachment,
		AttachmentName: patch.AttachmentName,
	}
	if patch.Reason != nil {
		update.Reason = *patch.Reason
	}
	if patch.LeaveType != nil {
		update.LeaveType = *patch.LeaveType
	}

	if _, err := s.store.Update(ctx, existing.ID, update); err != nil {
		return nil, err
	}

	return s.overview(ctx, userID)
}

// UpdateStatus decides a pending request. Approval computes the day total
// from the stored classifications, enforces sufficiency for the consuming
// types, and persists the balance mutation together with the status. A
// request that is already decided cannot be decided again; repeating an
// approval would deduct the balances twice.
func (s *Service) UpdateStatus(ctx context.Context, leaveID, status string) (Request, error) {
	if _, err := uuid.Parse(strings.TrimSpace(leaveID)); err != nil {
		return Request{}, fault.Validation("invalid leave id format")
	}
	if status != StatusApproved && status != StatusRejected {
		return Request{}, fault.Validation("invalid status %q", status)
	}

	req, err := s.store.FindByID(ctx, strings.TrimSpace(leaveID))
	if err != nil {
		return Request{}, err
	}

	unlock := s.locks.lock(req.UserID)
	defer unlock()

	// Re-read under the lock: a concurrent decision may have landed
	// between the first read and the lock acquisition.
	req, err = s.store.FindByID(ctx, req.ID)
	if err != nil {
		return Request{}, err
	}
	if req.Status != StatusPending {
		return Request{}, fault.BusinessRule("leave request is already %s", strings.ToLower(req.Status))
	}

	if status == StatusRejected {
		if err := s.store.ApplyDecision(ctx, req.ID, StatusRejected, nil); err != nil {
			return Request{}, err
		}
		req.Status = StatusRejected
		return req, nil
	}

	bal, err := s.balances.FindBalances(ctx, req.UserID)
	if err != nil {
		return Request{}, err
	}

	total := TotalDays(req.LeaveDetails)

	switch req.LeaveType {
	case TypePaid:
		if decimal.NewFromFloat(bal.PaidLeave).LessThan(total) {
			return Request{}, fault.BusinessRule("not enough paid leaves available")
		}
		if decimal.NewFromFloat(bal.AvailableLeaves).LessThan(total) {
			return Request{}, fault.BusinessRule("not enough available leaves")
		}
		bal.PaidLeave = decimal.NewFromFloat(bal.PaidLeave).Sub(total).InexactFloat64()
		bal.AvailableLeaves = decimal.NewFromFloat(bal.AvailableLeaves).Sub(total).InexactFloat64()

	case TypeSick:
		if decimal.NewFromFloat(bal.SickLeave).LessThan(total) {
			return Request{}, fault.BusinessRule("not enough sick leaves available")
		}
		if decimal.NewFromFloat(bal.AvailableLeaves).LessThan(total) {
			return Request{}, fault.BusinessRule("not enough available leaves")
		}
		bal.SickLeave = decimal.NewFromFloat(bal.SickLeave).Sub(total).InexactFloat64()
		bal.AvailableLeaves = decimal.NewFromFloat(bal.AvailableLeaves).Sub(total).InexactFloat64()

	case TypeUnpaid:
		// Unpaid leave tracks consumption above the allowance; nothing is
		// deducted and no sufficiency applies.
		bal.UnpaidLeave = decimal.NewFromFloat(bal.UnpaidLeave).Add(total).InexactFloat64()

	default:
		return Request{}, fault.Validation("invalid leave type")
	}

	bal.TotalLeaves = decimal.NewFromFloat(bal.TotalLeaves).Add(total).InexactFloat64()

	if err := s.store.ApplyDecision(ctx, req.ID, StatusApproved, &bal); err != nil {
		return Request{}, err
	}
	req.Status = StatusApproved
	return req, nil
}

// GetLeave resolves a single request with the owner's name populated.
func (s *Service) GetLeave(ctx context.Context, leaveID string) (Request, error) {
	if _, err := uuid.Parse(strings.TrimSpace(leaveID)); err != nil {
		return Request{}, fault.Validation("invalid leave id format")
	}
	return s.store.FindByID(ctx, strings.TrimSpace(leaveID))
}

// LeavesByUser returns the balance snapshot and the user's requests,
// newest start date first.
func (s *Service) LeavesByUser(ctx context.Context, userID string) (*Overview, error) {
	if _, err := uuid.Parse(strings.TrimSpace(userID)); err != nil {
		return nil, fault.Validation("invalid user id format")
	}
	return s.overview(ctx, strings.TrimSpace(userID))
}

// FilteredLeaves scopes the listing to the requester's authority. The
// Founder sees everything; anyone else sees the requests of the users
// they manage. An empty or all-blank reportBy set yields an empty result,
// never the full listing.
func (s *Service) FilteredLeaves(ctx context.Context, role string, reportBy []string) ([]Request, error) {
	if role == auth.RoleFounder {
		return s.store.ListAll(ctx)
	}

	owners := make([]string, 0, len(reportBy))
	for _, id := range reportBy {
		if strings.TrimSpace(id) != "" {
			owners = append(owners, id)
		}
	}
	if len(owners) == 0 {
		return []Request{}, nil
	}
	return s.store.ListByOwners(ctx, owners)
}

func (s *Service) overview(ctx context.Context, userID string) (*Overview, error) {
	bal, err := s.balances.FindBalances(ctx, userID)
	if err != nil {
		return nil, err
	}
	leaves, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Overview{User: bal, Leaves: leaves}, nil
}
