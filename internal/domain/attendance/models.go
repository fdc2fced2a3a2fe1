package attendance

import "time"

const (
	StatusPresent = "P"
	StatusAbsent  = "A"
	StatusOnLeave = "L"
)

const (
	ApprovalPending  = "Pending"
	ApprovalApproved = "Approved"
	ApprovalRejected = "Rejected"
)

// Record is one working day for one user. CheckOut and TotalHours stay
// nil until the user checks out.
type Record struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	UserName   string     `json:"userName,omitempty"`
	Date       time.Time  `json:"date"`
	CheckIn    time.Time  `json:"checkIn"`
	CheckOut   *time.Time `json:"checkOut,omitempty"`
	CheckInIP  string     `json:"checkInIp"`
	CheckOutIP string     `json:"checkOutIp,omitempty"`
	Location   string     `json:"location,omitempty"`
	TotalHours *float64   `json:"totalHours,omitempty"`
	Status     string     `json:"status"`
	Approval   string     `json:"approval"`
	ApprovedBy string     `json:"approvedBy,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Summary aggregates a user's records for the listing endpoints.
type Summary struct {
	UserID     string   `json:"userId"`
	UserName   string   `json:"userName"`
	TotalHours float64  `json:"totalHours"`
	Records    []Record `json:"records"`
}
