package users

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/ZainabRupawala2805/employee-management-system/internal/domain/auth"
	"github.com/ZainabRupawala2805/employee-management-system/internal/domain/fault"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

type RegisterInput struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Role     string   `json:"role"`
	ReportBy []string `json:"reportBy"`
}

// Yearly allowances granted to a fresh account. Only leave approvals
// mutate the counters afterwards.
const (
	defaultAvailableLeaves = 24
	defaultSickLeaves      = 8
	defaultPaidLeaves      = 16
)

func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return User{}, fault.Validation("name, email and password are required")
	}
	switch in.Role {
	case auth.RoleFounder, auth.RoleManager, auth.RoleEmployee:
	default:
		return User{}, fault.Validation("invalid role %q", in.Role)
	}
	for _, id := range in.ReportBy {
		if _, err := uuid.Parse(id); err != nil {
			return User{}, fault.Validation("invalid user id in reportBy")
		}
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return User{}, fault.Upstream("hashing password", err)
	}

	return s.store.Create(ctx, User{
		Name:            strings.TrimSpace(in.Name),
		Email:           strings.ToLower(strings.TrimSpace(in.Email)),
		Role:            in.Role,
		ReportBy:        in.ReportBy,
		AvailableLeaves: defaultAvailableLeaves,
		SickLeave:       defaultSickLeaves,
		PaidLeave:       defaultPaidLeaves,
	}, hash)
}

func (s *Service) Get(ctx context.Context, id string) (User, error) {
	if _, err := uuid.Parse(strings.TrimSpace(id)); err != nil {
		return User{}, fault.Validation("invalid user id format")
	}
	return s.store.FindByID(ctx, strings.TrimSpace(id))
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.store.List(ctx)
}

func (s *Service) Balances(ctx context.Context, id string) (Balance, error) {
	if _, err := uuid.Parse(strings.TrimSpace(id)); err != nil {
		return Balance{}, fault.Validation("invalid user id format")
	}
	return s.store.FindBalances(ctx, strings.TrimSpace(id))
}

// Authenticate verifies the credentials and returns the matching user.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return User{}, fault.Validation("email and password are required")
	}
	user, hash, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if fault.IsKind(err, fault.KindNotFound) {
			return User{}, fault.BusinessRule("invalid credentials")
		}
		return User{}, err
	}
	if err := auth.CheckPassword(hash, password); err != nil {
		return User{}, fault.BusinessRule("invalid credentials")
	}
	return user, nil
}
