package team

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

type pgxDB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores team members in the relational database.
type PostgresRepository struct {
	db pgxDB
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("team: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting a mock database for testing.
func NewPostgresRepositoryWithDB(db pgxDB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const memberColumns = `id, name, role, bio, image_url, display_order, created_at, updated_at`

func scanMember(row pgx.Row) (*Member, error) {
	var m Member
	err := row.Scan(&m.ID, &m.Name, &m.Role, &m.Bio, &m.ImageURL, &m.DisplayOrder, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]Member, error) {
	rows, err := r.db.Query(ctx, `SELECT `+memberColumns+` FROM team_members ORDER BY display_order ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("team: list: %w", err)
	}
	defer rows.Close()

	var out []Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("team: scan: %w", err)
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Create(ctx context.Context, req NewMember) (*Member, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	query := `
		INSERT INTO team_members (id, name, role, bio, image_url, display_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + memberColumns
	member, err := scanMember(r.db.QueryRow(ctx, query,
		uuid.New(), req.Name, req.Role, req.Bio, req.ImageURL, req.DisplayOrder))
	if err != nil {
		return nil, fmt.Errorf("team: insert: %w", err)
	}
	return member, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, upd UpdateMember) (*Member, error) {
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
	if upd.Role != nil {
		addSet("role", *upd.Role)
	}
	if upd.Bio != nil {
		addSet("bio", *upd.Bio)
	}
	if upd.ImageURL != nil {
		addSet("image_url", *upd.ImageURL)
	}
	if upd.DisplayOrder != nil {
		addSet("display_order", *upd.DisplayOrder)
	}

	query := `UPDATE team_members SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 RETURNING ` + memberColumns
	member, err := scanMember(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("team: update: %w", err)
	}
	return member, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM team_members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("team: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
