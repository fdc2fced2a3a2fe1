package leave

import (
	"time"

	"github.com/ZainabRupawala2805/employee-management-system/internal/domain/users"
)

// DayClass labels how much of a calendar day counts as leave.
type DayClass string

const (
	FullDay    DayClass = "Full Day"
	FirstHalf  DayClass = "First Half"
	SecondHalf DayClass = "Second Half"
)

const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

const (
	TypePaid   = "Paid"
	TypeSick   = "Sick"
	TypeUnpaid = "Unpaid"
)

// Request is a leave application over an inclusive date range.
//
// LeaveDetails holds one entry per calendar day in [StartDate, EndDate],
// keyed by ISO date. LeaveHistory is sparse: per date it records the
// classification that the most recent edit overwrote. It only ever gains
// entries, and each key holds a single prior value, not a chain.
type Request struct {
	ID             string              `json:"id"`
	UserID         string              `json:"userId"`
	UserName       string              `json:"userName,omitempty"`
	StartDate      time.Time           `json:"startDate"`
	EndDate        time.Time           `json:"endDate"`
	Reason         string              `json:"reason"`
	LeaveType      string              `json:"leaveType"`
	Status         string              `json:"status"`
	LeaveDetails   map[string]DayClass `json:"leaveDetails"`
	LeaveHistory   map[string]DayClass `json:"leaveHistory,omitempty"`
	Attachment     string              `json:"attachment,omitempty"`
	AttachmentName string              `json:"attachmentOriginalName,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
}

// Overview is what the mutating operations hand back: the calling surface
// re-renders the balance card and the listing together after a change.
type Overview struct {
	User   users.Balance `json:"user"`
	Leaves []Request     `json:"leaves"`
}

// Patch is a partial update applied through UpdateLeave. Nil fields keep
// the stored value. Status is carried only so the service can reject
// attempts to change it outside the dedicated transition operation.
type Patch struct {
	StartDate      *time.Time
	EndDate        *time.Time
	Reason         *string
	LeaveType      *string
	Status         *string
	HalfDayDates   map[string]string
	Attachment     *string
	AttachmentName *string
}
