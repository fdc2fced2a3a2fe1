package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ZainabRupawala2805/employee-management-system/internal/domain/fault"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const recordColumns = `
    a.id, a.user_id, u.name, a.date, a.check_in, a.check_out, a.check_in_ip,
    a.check_out_ip, a.location, a.total_hours, a.status, a.approval, a.approved_by, a.created_at
`

func scanRecord(row pgx.Row) (Record, error) {
	var rec Record
	if err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.UserName,
		&rec.Date,
		&rec.CheckIn,
		&rec.CheckOut,
		&rec.CheckInIP,
		&rec.CheckOutIP,
		&rec.Location,
		&rec.TotalHours,
		&rec.Status,
		&rec.Approval,
		&rec.ApprovedBy,
		&rec.CreatedAt,
	); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *Store) Create(ctx context.Context, rec Record) (Record, error) {
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO attendance_records (user_id, date, check_in, check_in_ip, location, status, approval)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, rec.UserID, rec.Date, rec.CheckIn, rec.CheckInIP, rec.Location, rec.Status, rec.Approval).Scan(&id); err != nil {
		return Record{}, fault.Upstream("create attendance record", err)
	}
	return s.FindByID(ctx, id)
}

func (s *Store) FindByID(ctx context.Context, id string) (Record, error) {
	rec, err := scanRecord(s.DB.QueryRow(ctx, `
    SELECT `+recordColumns+`
    FROM attendance_records a
    JOIN users u ON u.id = a.user_id
    WHERE a.id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, fault.NotFound("attendance not found")
	}
	if err != nil {
		return Record{}, fault.Upstream("find attendance record", err)
	}
	return rec, nil
}

func (s *Store) FindOpen(ctx context.Context, userID string, day time.Time) (Record, error) {
	rec, err := scanRecord(s.DB.QueryRow(ctx, `
    SELECT `+recordColumns+`
    FROM attendance_records a
    JOIN users u ON u.id = a.user_id
    WHERE a.user_id = $1 AND a.date = $2 AND a.check_out IS NULL
  `, userID, day))
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, fault.NotFound("attendance not found")
	}
	if err != nil {
		return Record{}, fault.Upstream("find open attendance record", err)
	}
	return rec, nil
}

func (s *Store) ListByUser(ctx context.Context, userID string) ([]Record, error) {
	return s.list(ctx, `
    SELECT `+recordColumns+`
    FROM attendance_records a
    JOIN users u ON u.id = a.user_id
    WHERE a.user_id = $1
    ORDER BY a.date DESC
  `, userID)
}

func (s *Store) ListAll(ctx context.Context) ([]Record, error) {
	return s.list(ctx, `
    SELECT `+recordColumns+`
    FROM attendance_records a
    JOIN users u ON u.id = a.user_id
    ORDER BY a.date DESC
  `)
}

func (s *Store) ListByOwners(ctx context.Context, ownerIDs []string) ([]Record, error) {
	return s.list(ctx, `
    SELECT `+recordColumns+`
    FROM attendance_records a
    JOIN users u ON u.id = a.user_id
    WHERE a.user_id = ANY($1)
    ORDER BY a.date DESC
  `, ownerIDs)
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fault.Upstream("list attendance records", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fault.Upstream("scan attendance record", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fault.Upstream("list attendance records", err)
	}
	return records, nil
}

func (s *Store) Close(ctx context.Context, id string, checkOut time.Time, checkOutIP, location string, totalHours float64) (Record, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE attendance_records
    SET check_out = $1, check_out_ip = $2,
        location = CASE WHEN $3 <> '' THEN $3 ELSE location END,
        total_hours = $4
    WHERE id = $5
  `, checkOut, checkOutIP, location, totalHours, id)
	if err != nil {
		return Record{}, fault.Upstream("close attendance record", err)
	}
	if tag.RowsAffected() == 0 {
		return Record{}, fault.NotFound("attendance not found")
	}
	return s.FindByID(ctx, id)
}

func (s *Store) SetStatus(ctx context.Context, id, status string) (Record, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE attendance_records SET status = $1 WHERE id = $2
  `, status, id)
	if err != nil {
		return Record{}, fault.Upstream("update attendance status", err)
	}
	if tag.RowsAffected() == 0 {
		return Record{}, fault.NotFound("attendance not found")
	}
	return s.FindByID(ctx, id)
}

func (s *Store) SetApproval(ctx context.Context, id, approval, approverID string) (Record, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE attendance_records SET approval = $1, approved_by = $2 WHERE id = $3
  `, approval, approverID, id)
	if err != nil {
		return Record{}, fault.Upstream("update attendance approval", err)
	}
	if tag.RowsAffected() == 0 {
		return Record{}, fault.NotFound("attendance not found")
	}
	return s.FindByID(ctx, id)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM attendance_records WHERE id = $1
  `, id)
	if err != nil {
		return fault.Upstream("delete attendance record", err)
	}
	if tag.RowsAffected() == 0 {
		return fault.NotFound("attendance not found")
	}
	return nil
}
