package users

import "context"

type StoreAPI interface {
	Create(ctx context.Context, user User, passwordHash string) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, string, error)
	FindBalances(ctx context.Context, id string) (Balance, error)
	List(ctx context.Context) ([]User, error)
}
