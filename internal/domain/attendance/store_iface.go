package attendance

import (
	"context"
	"time"
)

type StoreAPI interface {
	Create(ctx context.Context, rec Record) (Record, error)
	FindByID(ctx context.Context, id string) (Record, error)
	// FindOpen returns the user's record for the given day that has no
	// check-out yet.
	FindOpen(ctx context.Context, userID string, day time.Time) (Record, error)
	ListByUser(ctx context.Context, userID string) ([]Record, error)
	ListAll(ctx context.Context) ([]Record, error)
	ListByOwners(ctx context.Context, ownerIDs []string) ([]Record, error)
	Close(ctx context.Context, id string, checkOut time.Time, checkOutIP, location string, totalHours float64) (Record, error)
	SetStatus(ctx context.Context, id, status string) (Record, error)
	SetApproval(ctx context.Context, id, approval, approverID string) (Record, error)
	Delete(ctx context.Context, id string) error
}
