// Package testutil provides in-memory store fakes for service and
// handler tests.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ZainabRupawala2805/employee-management-system/internal/domain/fault"
	"github.com/ZainabRupawala2805/employee-management-system/internal/domain/leave"
	"github.com/ZainabRupawala2805/employee-management-system/internal/domain/users"
)

// FakeUserStore implements users.StoreAPI and leave.BalanceStore over a
// map guarded by a mutex.
type FakeUserStore struct {
	mu        sync.Mutex
	Users     map[string]users.User
	Passwords map[string]string
}

func NewFakeUserStore() *FakeUserStore {
	return &FakeUserStore{
		Users:     map[string]users.User{},
		Passwords: map[string]string{},
	}
}

func (f *FakeUserStore) Create(ctx context.Context, u users.User, passwordHash string) (users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.Users {
		if existing.Email == u.Email {
			return users.User{}, fault.BusinessRule("email already registered")
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()
	f.Users[u.ID] = u
	f.Passwords[u.ID] = passwordHash
	return u, nil
}

func (f *FakeUserStore) FindByID(ctx context.Context, id string) (users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.Users[id]
	if !ok {
		return users.User{}, fault.NotFound("user not found")
	}
	return u, nil
}

func (f *FakeUserStore) FindByEmail(ctx context.Context, email string) (users.User, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, u := range f.Users {
		if u.Email == email {
			return u, f.Passwords[id], nil
		}
	}
	return users.User{}, "", fault.NotFound("user not found")
}

func (f *FakeUserStore) FindBalances(ctx context.Context, id string) (users.Balance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.Users[id]
	if !ok {
		return users.Balance{}, fault.NotFound("user not found")
	}
	return users.Balance{
		UserID:          u.ID,
		Name:            u.Name,
		AvailableLeaves: u.AvailableLeaves,
		SickLeave:       u.SickLeave,
		PaidLeave:       u.PaidLeave,
		UnpaidLeave:     u.UnpaidLeave,
		TotalLeaves:     u.TotalLeaves,
	}, nil
}

func (f *FakeUserStore) List(ctx context.Context) ([]users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]users.User, 0, len(f.Users))
	for _, u := range f.Users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Seed inserts a user with fixed balances and returns its id.
func (f *FakeUserStore) Seed(name, role string, available, sick, paid, unpaid, total float64) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.NewString()
	f.Users[id] = users.User{
		ID:              id,
		Name:            name,
		Email:           fmt.Sprintf("%s@example.com", id[:8]),
		Role:            role,
		AvailableLeaves: available,
		SickLeave:       sick,
		PaidLeave:       paid,
		UnpaidLeave:     unpaid,
		TotalLeaves:     total,
		CreatedAt:       time.Now().UTC(),
	}
	return id
}

// FakeLeaveStore implements leave.StoreAPI in memory. ApplyDecision
// writes balances back through the linked user store so balance fakes
// stay consistent with decisions.
type FakeLeaveStore struct {
	mu     sync.Mutex
	Leaves map[string]leave.Request
	User   *FakeUserStore

	ApplyDecisionErr error
}

func NewFakeLeaveStore(u *FakeUserStore) *FakeLeaveStore {
	return &FakeLeaveStore{Leaves: map[string]leave.Request{}, User: u}
}

func (f *FakeLeaveStore) Create(ctx context.Context, req leave.Request) (leave.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req.ID = uuid.NewString()
	req.CreatedAt = time.Now().UTC()
	if u, ok := f.User.Users[req.UserID]; ok {
		req.UserName = u.Name
	}
	f.Leaves[req.ID] = req
	return req, nil
}

func (f *FakeLeaveStore) FindByID(ctx context.Context, id string) (leave.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.Leaves[id]
	if !ok {
		return leave.Request{}, fault.NotFound("leave not found")
	}
	return req, nil
}

func (f *FakeLeaveStore) ListByUser(ctx context.Context, userID string) ([]leave.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []leave.Request{}
	for _, req := range f.Leaves {
		if req.UserID == userID {
			out = append(out, req)
		}
	}
	sortByStartDesc(out)
	return out, nil
}

func (f *FakeLeaveStore) ListAll(ctx context.Context) ([]leave.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []leave.Request{}
	for _, req := range f.Leaves {
		out = append(out, req)
	}
	sortByStartDesc(out)
	return out, nil
}

func (f *FakeLeaveStore) ListByOwners(ctx context.Context, ownerIDs []string) ([]leave.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	owners := map[string]bool{}
	for _, id := range ownerIDs {
		owners[id] = true
	}
	out := []leave.Request{}
	for _, req := range f.Leaves {
		if owners[req.UserID] {
			out = append(out, req)
		}
	}
	sortByStartDesc(out)
	return out, nil
}

func (f *FakeLeaveStore) Update(ctx context.Context, id string, update leave.Update) (leave.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.Leaves[id]
	if !ok {
		return leave.Request{}, fault.NotFound("leave not found")
	}
	req.StartDate = update.StartDate
	req.EndDate = update.EndDate
	req.Reason = update.Reason
	req.LeaveType = update.LeaveType
	req.LeaveDetails = update.LeaveDetails
	req.LeaveHistory = update.LeaveHistory
	if update.Attachment != nil {
		req.Attachment = *update.Attachment
	}
	if update.AttachmentName != nil {
		req.AttachmentName = *update.AttachmentName
	}
	f.Leaves[id] = req
	return req, nil
}

func (f *FakeLeaveStore) ApplyDecision(ctx context.Context, id, status string, bal *users.Balance) error {
	if f.ApplyDecisionErr != nil {
		return f.ApplyDecisionErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.Leaves[id]
	if !ok {
		return fault.NotFound("leave not found")
	}
	if bal != nil {
		f.User.mu.Lock()
		u := f.User.Users[bal.UserID]
		u.AvailableLeaves = bal.AvailableLeaves
		u.SickLeave = bal.SickLeave
		u.PaidLeave = bal.PaidLeave
		u.UnpaidLeave = bal.UnpaidLeave
		u.TotalLeaves = bal.TotalLeaves
		f.User.Users[bal.UserID] = u
		f.User.mu.Unlock()
	}
	req.Status = status
	f.Leaves[id] = req
	return nil
}

func sortByStartDesc(reqs []leave.Request) {
	sort.Slice(reqs, func(i, j int) bool {
		return reqs[i].StartDate.After(reqs[j].StartDate)
	})
}
