package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgxDB is the subset of the pgx pool used by PostgresRepository.
// It allows injecting a mock database for testing.
type pgxDB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores appointments in the relational database.
type PostgresRepository struct {
	db pgxDB
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting a mock database for testing.
func NewPostgresRepositoryWithDB(db pgxDB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const appointmentColumns = `id, name, email, phone, procedure, preferred_date, message, status, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Email,
		&a.Phone,
		&a.Procedure,
		&a.PreferredDate,
		&a.Message,
		&a.Status,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns all appointments ordered by created_at descending.
func (r *PostgresRepository) List(ctx context.Context) ([]Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("appointments: list: %w", err)
	}
	defer rows.Close()

	var out []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("appointments: scan: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: rows: %w", err)
	}
	return out, nil
}

// Create inserts a new row with pending status and server timestamps.
func (r *PostgresRepository) Create(ctx context.Context, req NewAppointment) (*Appointment, error) {
	id := uuid.New()
	query := `
		INSERT INTO appointments (id, name, email, phone, procedure, preferred_date, message, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + appointmentColumns
	row := r.db.QueryRow(ctx, query,
		id,
		req.Name,
		req.Email,
		req.Phone,
		req.Procedure,
		req.PreferredDate,
		req.Message,
		StatusPending,
	)
	appt, err := scanAppointment(row)
	if err != nil {
		return nil, fmt.Errorf("appointments: insert: %w", err)
	}
	return appt, nil
}

// Update applies the non-nil fields of upd, sets updated_at to now(),
// and returns the updated row.
func (r *PostgresRepository) Update(ctx context.Context, id string, upd UpdateRequest) (*Appointment, error) {
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	sets := []string{"updated_at = now()"}
	args := []any{id}
	next := 2

	addSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, next))
		args = append(args, value)
		next++
	}

	if upd.Name != nil {
		addSet("name", *upd.Name)
	}
	if upd.Email != nil {
		addSet("email", *upd.Email)
	}
	if upd.Phone != nil {
		addSet("phone", *upd.Phone)
	}
	if upd.Procedure != nil {
		addSet("procedure", *upd.Procedure)
	}
	if upd.PreferredDate != nil {
		addSet("preferred_date", *upd.PreferredDate)
	}
	if upd.Message != nil {
		addSet("message", *upd.Message)
	}
	if upd.Status != nil {
		addSet("status", *upd.Status)
	}

	query := `UPDATE appointments SET ` + strings.Join(sets, ", ") +
		` WHERE id = $1 RETURNING ` + appointmentColumns
	appt, err := scanAppointment(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("appointments: update: %w", err)
	}
	return appt, nil
}

// Delete removes an appointment by id.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("appointments: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
