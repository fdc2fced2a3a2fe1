package leave

import (
	"context"
	"time"

	"github.com/ZainabRupawala2805/employee-management-system/internal/domain/users"
)

// StoreAPI is the persistence surface consumed by the service. Listings
// come back sorted by start date descending with the owning user's name
// populated.
type StoreAPI interface {
	Create(ctx context.Context, req Request) (Request, error)
	FindByID(ctx context.Context, id string) (Request, error)
	ListByUser(ctx context.Context, userID string) ([]Request, error)
	ListAll(ctx context.Context) ([]Request, error)
	ListByOwners(ctx context.Context, ownerIDs []string) ([]Request, error)
	Update(ctx context.Context, id string, update Update) (Request, error)
	// ApplyDecision persists the status and, when bal is non-nil, the
	// balance mutation in the same transaction so an approval can never be
	// half-applied.
	ApplyDecision(ctx context.Context, id, status string, bal *users.Balance) error
}

// BalanceStore is the slice of the user store the leave service reads.
type BalanceStore interface {
	FindBalances(ctx context.Context, userID string) (users.Balance, error)
}

// Update is a fully resolved edit: the service merges the caller's patch
// with the stored request before handing it to the store.
type Update struct {
	StartDate      time.Time
	EndDate        time.Time
	Reason         string
	LeaveType      string
	LeaveDetails   map[string]DayClass
	LeaveHistory   map[string]DayClass
	Attachment     *string
	AttachmentName *string
}
