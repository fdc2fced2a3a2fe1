package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ZainabRupawala2805/employee-management-system/internal/domain/attendance"
	"github.com/ZainabRupawala2805/employee-management-system/internal/domain/fault"
)

// FakeAttendanceStore implements attendance.StoreAPI in memory.
type FakeAttendanceStore struct {
	mu      sync.Mutex
	Records map[string]attendance.Record
	User    *FakeUserStore
}

func NewFakeAttendanceStore(u *FakeUserStore) *FakeAttendanceStore {
	return &FakeAttendanceStore{Records: map[string]attendance.Record{}, User: u}
}

func (f *FakeAttendanceStore) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now().UTC()
	if u, ok := f.User.Users[rec.UserID]; ok {
		rec.UserName = u.Name
	}
	f.Records[rec.ID] = rec
	return rec, nil
}

func (f *FakeAttendanceStore) FindByID(ctx context.Context, id string) (attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.Records[id]
	if !ok {
		return attendance.Record{}, fault.NotFound("attendance not found")
	}
	return rec, nil
}

func (f *FakeAttendanceStore) FindOpen(ctx context.Context, userID string, day time.Time) (attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.Records {
		if rec.UserID == userID && rec.Date.Equal(day) && rec.CheckOut == nil {
			return rec, nil
		}
	}
	return attendance.Record{}, fault.NotFound("attendance not found")
}

func (f *FakeAttendanceStore) ListByUser(ctx context.Context, userID string) ([]attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []attendance.Record{}
	for _, rec := range f.Records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	sortByDateDesc(out)
	return out, nil
}

func (f *FakeAttendanceStore) ListAll(ctx context.Context) ([]attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []attendance.Record{}
	for _, rec := range f.Records {
		out = append(out, rec)
	}
	sortByDateDesc(out)
	return out, nil
}

func (f *FakeAttendanceStore) ListByOwners(ctx context.Context, ownerIDs []string) ([]attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	owners := map[string]bool{}
	for _, id := range ownerIDs {
		owners[id] = true
	}
	out := []attendance.Record{}
	for _, rec := range f.Records {
		if owners[rec.UserID] {
			out = append(out, rec)
		}
	}
	sortByDateDesc(out)
	return out, nil
}

func (f *FakeAttendanceStore) Close(ctx context.Context, id string, checkOut time.Time, checkOutIP, location string, totalHours float64) (attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.Records[id]
	if !ok {
		return attendance.Record{}, fault.NotFound("attendance not found")
	}
	rec.CheckOut = &checkOut
	rec.CheckOutIP = checkOutIP
	if location != "" {
		rec.Location = location
	}
	rec.TotalHours = &totalHours
	f.Records[id] = rec
	return rec, nil
}

func (f *FakeAttendanceStore) SetStatus(ctx context.Context, id, status string) (attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.Records[id]
	if !ok {
		return attendance.Record{}, fault.NotFound("attendance not found")
	}
	rec.Status = status
	f.Records[id] = rec
	return rec, nil
}

func (f *FakeAttendanceStore) SetApproval(ctx context.Context, id, approval, approverID string) (attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.Records[id]
	if !ok {
		return attendance.Record{}, fault.NotFound("attendance not found")
	}
	rec.Approval = approval
	rec.ApprovedBy = approverID
	f.Records[id] = rec
	return rec, nil
}

func (f *FakeAttendanceStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.Records[id]; !ok {
		return fault.NotFound("attendance not found")
	}
	delete(f.Records, id)
	return nil
}

func sortByDateDesc(recs []attendance.Record) {
	sort.Slice(recs, func(i, j int) bool {
		return recs[i].Date.After(recs[j].Date)
	})
}
