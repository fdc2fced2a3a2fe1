package leave

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ZainabRupawala2805/employee-management-system/internal/domain/fault"
	"github.com/ZainabRupawala2805/employee-management-system/internal/domain/users"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const requestColumns = `
    r.id, r.user_id, u.name, r.start_date, r.end_date, r.reason, r.leave_type,
    r.status, r.leave_details, r.leave_history, r.attachment, r.attachment_name, r.created_at
`

func scanRequest(row pgx.Row) (Request, error) {
	var req Request
	if err := row.Scan(
		&req.ID,
		&req.UserID,
		&req.UserName,
		&req.StartDate,
		&req.EndDate,
		&req.Reason,
		&req.LeaveType,
		&req.Status,
		&req.LeaveDetails,
		&req.LeaveHistory,
		&req.Attachment,
		&req.AttachmentName,
		&req.CreatedAt,
	); err != nil {
		return Request{}, err
	}
	return req, nil
}

func (s *Store) Create(ctx context.Context, req Request) (Request, error) {
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_requests (user_id, start_date, end_date, reason, leave_type, status, leave_details, leave_history, attachment, attachment_name)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    RETURNING id
  `, req.UserID, req.StartDate, req.EndDate, req.Reason, req.LeaveType, req.Status,
		req.LeaveDetails, req.LeaveHistory, req.Attachment, req.AttachmentName).Scan(&id); err != nil {
		return Request{}, fault.Upstream("create leave request", err)
	}
	return s.FindByID(ctx, id)
}

func (s *Store) FindByID(ctx context.Context, id string) (Request, error) {
	req, err := scanRequest(s.DB.QueryRow(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests r
    JOIN users u ON u.id = r.user_id
    WHERE r.id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Request{}, fault.NotFound("leave not found")
	}
	if err != nil {
		return Request{}, fault.Upstream("find leave request", err)
	}
	return req, nil
}

func (s *Store) ListByUser(ctx context.Context, userID string) ([]Request, error) {
	return s.list(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests r
    JOIN users u ON u.id = r.user_id
    WHERE r.user_id = $1
    ORDER BY r.start_date DESC
  `, userID)
}

func (s *Store) ListAll(ctx context.Context) ([]Request, error) {
	return s.list(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests r
    JOIN users u ON u.id = r.user_id
    ORDER BY r.start_date DESC
  `)
}

func (s *Store) ListByOwners(ctx context.Context, ownerIDs []string) ([]Request, error) {
	return s.list(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests r
    JOIN users u ON u.id = r.user_id
    WHERE r.user_id = ANY($1)
    ORDER BY r.start_date DESC
  `, ownerIDs)
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]Request, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fault.Upstream("list leave requests", err)
	}
	defer rows.Close()

	requests := []Request{}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fault.Upstream("scan leave request", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fault.Upstream("list leave requests", err)
	}
	return requests, nil
}

func (s *Store) Update(ctx context.Context, id string, update Update) (Request, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE leave_requests
    SET start_date = $1, end_date = $2, reason = $3, leave_type = $4,
        leave_details = $5, leave_history = $6,
        attachment = COALESCE($7, attachment),
        attachment_name = COALESCE($8, attachment_name)
    WHERE id = $9
  `, update.StartDate, update.EndDate, update.Reason, update.LeaveType,
		update.LeaveDetails, update.LeaveHistory, update.Attachment, update.AttachmentName, id)
	if err != nil {
		return Request{}, fault.Upstream("update leave request", err)
	}
	if tag.RowsAffected() == 0 {
		return Request{}, fault.NotFound("leave not found")
	}
	return s.FindByID(ctx, id)
}

// ApplyDecision writes the status change and, when bal is non-nil, the
// balance mutation in a single transaction. Either both land or neither
// does.
func (s *Store) ApplyDecision(ctx context.Context, id, status string, bal *users.Balance) error {
	if bal == nil {
		tag, err := s.DB.Exec(ctx, `
      UPDATE leave_requests SET status = $1 WHERE id = $2
    `, status, id)
		if err != nil {
			return fault.Upstream("update leave status", err)
		}
		if tag.RowsAffected() == 0 {
			return fault.NotFound("leave not found")
		}
		return nil
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return fault.Upstream("begin decision transaction", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
    UPDATE users
    SET available_leaves = $1, sick_leave = $2, paid_leave = $3, unpaid_leave = $4, total_leaves = $5
    WHERE id = $6
  `, bal.AvailableLeaves, bal.SickLeave, bal.PaidLeave, bal.UnpaidLeave, bal.TotalLeaves, bal.UserID); err != nil {
		return fault.Upstream("update user balances", err)
	}

	tag, err := tx.Exec(ctx, `
    UPDATE leave_requests SET status = $1 WHERE id = $2
  `, status, id)
	if err != nil {
		return fault.Upstream("update leave status", err)
	}
	if tag.RowsAffected() == 0 {
		return fault.NotFound("leave not found")
	}

	if err := tx.Commit(ctx); err != nil {
		return fault.Upstream("commit decision transaction", err)
	}
	return nil
}
