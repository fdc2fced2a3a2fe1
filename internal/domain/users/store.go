package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ZainabRupawala2805/employee-management-system/internal/domain/fault"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Create(ctx context.Context, user User, passwordHash string) (User, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO users (name, email, password_hash, role, report_by,
                       available_leaves, sick_leave, paid_leave, unpaid_leave, total_leaves)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    RETURNING id, created_at
  `, user.Name, user.Email, passwordHash, user.Role, user.ReportBy,
		user.AvailableLeaves, user.SickLeave, user.PaidLeave, user.UnpaidLeave, user.TotalLeaves,
	).Scan(&user.ID, &user.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return User{}, fault.BusinessRule("email already registered")
	}
	if err != nil {
		return User{}, fault.Upstream("creating user", err)
	}
	return user, nil
}

func (s *Store) FindByID(ctx context.Context, id string) (User, error) {
	var user User
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, email, role, COALESCE(report_by, '{}'),
           available_leaves, sick_leave, paid_leave, unpaid_leave, total_leaves, created_at
    FROM users
    WHERE id = $1
  `, id).Scan(&user.ID, &user.Name, &user.Email, &user.Role, &user.ReportBy,
		&user.AvailableLeaves, &user.SickLeave, &user.PaidLeave, &user.UnpaidLeave, &user.TotalLeaves, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, fault.NotFound("user not found")
	}
	if err != nil {
		return User{}, fault.Upstream("loading user", err)
	}
	return user, nil
}

func (s *Store) FindByEmail(ctx context.Context, email string) (User, string, error) {
	var user User
	var hash string
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, email, password_hash, role, COALESCE(report_by, '{}'),
           available_leaves, sick_leave, paid_leave, unpaid_leave, total_leaves, created_at
    FROM users
    WHERE lower(email) = lower($1)
  `, email).Scan(&user.ID, &user.Name, &user.Email, &hash, &user.Role, &user.ReportBy,
		&user.AvailableLeaves, &user.SickLeave, &user.PaidLeave, &user.UnpaidLeave, &user.TotalLeaves, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, "", fault.NotFound("user not found")
	}
	if err != nil {
		return User{}, "", fault.Upstream("loading user", err)
	}
	return user, hash, nil
}

// FindBalances selects only the name and counter fields, mirroring the
// projection the leave subsystem is allowed to see.
func (s *Store) FindBalances(ctx context.Context, id string) (Balance, error) {
	var bal Balance
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, available_leaves, sick_leave, paid_leave, unpaid_leave, total_leaves
    FROM users
    WHERE id = $1
  `, id).Scan(&bal.UserID, &bal.Name, &bal.AvailableLeaves, &bal.SickLeave, &bal.PaidLeave, &bal.UnpaidLeave, &bal.TotalLeaves)
	if errors.Is(err, pgx.ErrNoRows) {
		return Balance{}, fault.NotFound("user not found")
	}
	if err != nil {
		return Balance{}, fault.Upstream("loading balances", err)
	}
	return bal, nil
}

func (s *Store) List(ctx context.Context) ([]User, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, email, role, COALESCE(report_by, '{}'),
           available_leaves, sick_leave, paid_leave, unpaid_leave, total_leaves, created_at
    FROM users
    ORDER BY name
  `)
	if err != nil {
		return nil, fault.Upstream("listing users", err)
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.Role, &user.ReportBy,
			&user.AvailableLeaves, &user.SickLeave, &user.PaidLeave, &user.UnpaidLeave, &user.TotalLeaves, &user.CreatedAt); err != nil {
			return nil, fault.Upstream("scanning user", err)
		}
		out = append(out, user)
	}
	return out, rows.Err()
}
