package users

import "time"

// User is an employee account. The leave counters live directly on the
// user record: availableLeaves, sickLeave and paidLeave are allowances
// consumed by approvals, unpaidLeave accumulates consumption above the
// allowance, and totalLeaves accumulates every approved leave-day ever
// granted regardless of type.
type User struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	ReportBy        []string  `json:"reportBy,omitempty"`
	AvailableLeaves float64   `json:"availableLeaves"`
	SickLeave       float64   `json:"sickLeave"`
	PaidLeave       float64   `json:"paidLeave"`
	UnpaidLeave     float64   `json:"unpaidLeave"`
	TotalLeaves     float64   `json:"totalLeaves"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Balance is the projection of a user visible to the leave subsystem:
// the display name plus the five counters, never the credentials.
type Balance struct {
	UserID          string  `json:"userId"`
	Name            string  `json:"name"`
	AvailableLeaves float64 `json:"availableLeaves"`
	SickLeave       float64 `json:"sickLeave"`
	PaidLeave       float64 `json:"paidLeave"`
	UnpaidLeave     float64 `json:"unpaidLeave"`
	TotalLeaves     float64 `json:"totalLeaves"`
}
