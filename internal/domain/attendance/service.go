package attendance

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ZainabRupawala2805/employee-management-system/internal/domain/auth"
	"github.com/ZainabRupawala2805/employee-management-system/internal/domain/fault"
)

type Service struct {
	store    StoreAPI
	officeIP string
	now      func() time.Time
}

func NewService(store StoreAPI, officeIP string) *Service {
	return &Service{store: store, officeIP: officeIP, now: time.Now}
}

// NewServiceWithClock is NewService with an injected clock, for tests.
func NewServiceWithClock(store StoreAPI, officeIP string, now func() time.Time) *Service {
	return &Service{store: store, officeIP: officeIP, now: now}
}

type MarkInput struct {
	UserID   string
	IP       string
	Location string
}

// CheckIn opens today's record. The location is recorded only for
// off-site check-ins; on the office network the IP already places the
// user.
func (s *Service) CheckIn(ctx context.Context, in MarkInput) (Record, error) {
	if _, err := uuid.Parse(in.UserID); err != nil {
		return Record{}, fault.Validation("invalid user id format")
	}

	now := s.now().UTC()
	today := truncateToDay(now)

	if _, err := s.store.FindOpen(ctx, in.UserID, today); err == nil {
		return Record{}, fault.BusinessRule("already checked in today")
	} else if fault.KindOf(err) != fault.KindNotFound {
		return Record{}, err
	}

	location := in.Location
	if in.IP == s.officeIP {
		location = ""
	}

	return s.store.Create(ctx, Record{
		UserID:    in.UserID,
		Date:      today,
		CheckIn:   now,
		CheckInIP: in.IP,
		Location:  location,
		Status:    StatusPresent,
		Approval:  ApprovalPending,
	})
}

// CheckOut closes today's open record and computes the hours worked,
// rounded to two decimals.
func (s *Service) CheckOut(ctx context.Context, in MarkInput) (Record, error) {
	if _, err := uuid.Parse(in.UserID); err != nil {
		return Record{}, fault.Validation("invalid user id format")
	}

	now := s.now().UTC()
	open, err := s.store.FindOpen(ctx, in.UserID, truncateToDay(now))
	if err != nil {
		if fault.KindOf(err) == fault.KindNotFound {
			return Record{}, fault.BusinessRule("no open check-in found for today")
		}
		return Record{}, err
	}

	location := in.Location
	if in.IP == s.officeIP {
		location = ""
	}

	hours := math.Round(now.Sub(open.CheckIn).Hours()*100) / 100
	if hours < 0 {
		hours = 0
	}
	return s.store.Close(ctx, open.ID, now, in.IP, location, hours)
}

// AttendanceByUser returns the user's records, newest first.
func (s *Service) AttendanceByUser(ctx context.Context, userID string) ([]Record, error) {
	if _, err := uuid.Parse(strings.TrimSpace(userID)); err != nil {
		return nil, fault.Validation("invalid user id format")
	}
	records, err := s.store.ListByUser(ctx, strings.TrimSpace(userID))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fault.NotFound("no attendance recorded")
	}
	return records, nil
}

// FilteredAttendance groups records per user, sorted by total hours
// descending. The Founder sees every user; anyone else sees only the
// users they manage.
func (s *Service) FilteredAttendance(ctx context.Context, role string, reportBy []string) ([]Summary, error) {
	var records []Record
	var err error

	if role == auth.RoleFounder {
		records, err = s.store.ListAll(ctx)
	} else {
		owners := make([]string, 0, len(reportBy))
		for _, id := range reportBy {
			if strings.TrimSpace(id) != "" {
				owners = append(owners, id)
			}
		}
		if len(owners) == 0 {
			return []Summary{}, nil
		}
		records, err = s.store.ListByOwners(ctx, owners)
	}
	if err != nil {
		return nil, err
	}

	byUser := map[string]*Summary{}
	order := []string{}
	for _, rec := range records {
		sum, ok := byUser[rec.UserID]
		if !ok {
			sum = &Summary{UserID: rec.UserID, UserName: rec.UserName}
			byUser[rec.UserID] = sum
			order = append(order, rec.UserID)
		}
		sum.Records = append(sum.Records, rec)
		if rec.TotalHours != nil {
			sum.TotalHours += *rec.TotalHours
		}
	}

	summaries := make([]Summary, 0, len(order))
	for _, id := range order {
		summaries = append(summaries, *byUser[id])
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].TotalHours > summaries[j].TotalHours
	})
	return summaries, nil
}

// UpdateStatus sets the day's presence marker. Only managers and the
// Founder may reclassify a day.
func (s *Service) UpdateStatus(ctx context.Context, id, role, status string) (Record, error) {
	if _, err := uuid.Parse(strings.TrimSpace(id)); err != nil {
		return Record{}, fault.Validation("invalid attendance id format")
	}
	if role != auth.RoleFounder && role != auth.RoleManager {
		return Record{}, fault.BusinessRule("not permitted to update attendance status")
	}
	switch status {
	case StatusPresent, StatusAbsent, StatusOnLeave:
	default:
		return Record{}, fault.Validation("invalid attendance status %q", status)
	}

	if _, err := s.store.FindByID(ctx, strings.TrimSpace(id)); err != nil {
		return Record{}, err
	}
	return s.store.SetStatus(ctx, strings.TrimSpace(id), status)
}

// Decide approves or rejects a pending record.
func (s *Service) Decide(ctx context.Context, id, approverID, action string) (Record, error) {
	if _, err := uuid.Parse(strings.TrimSpace(id)); err != nil {
		return Record{}, fault.Validation("invalid attendance id format")
	}

	var approval string
	switch strings.ToLower(strings.TrimSpace(action)) {
	case "approve":
		approval = ApprovalApproved
	case "reject":
		approval = ApprovalRejected
	default:
		return Record{}, fault.Validation("invalid action %q", action)
	}

	rec, err := s.store.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Record{}, err
	}
	if rec.Approval != ApprovalPending {
		return Record{}, fault.BusinessRule("attendance is already %s", strings.ToLower(rec.Approval))
	}
	return s.store.SetApproval(ctx, rec.ID, approval, approverID)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(strings.TrimSpace(id)); err != nil {
		return fault.Validation("invalid attendance id format")
	}
	if _, err := s.store.FindByID(ctx, strings.TrimSpace(id)); err != nil {
		return err
	}
	return s.store.Delete(ctx, strings.TrimSpace(id))
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
