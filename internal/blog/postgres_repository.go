package blog

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

// PostgresRepository stores blog posts in the relational database.
type PostgresRepository struct {
	db pgxDB
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("blog: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting a mock database for testing.
func NewPostgresRepositoryWithDB(db pgxDB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const postColumns = `id, title, excerpt, content, image_url, status, created_at, updated_at`

func scanPost(row pgx.Row) (*Post, error) {
	var p Post
	err := row.Scan(&p.ID, &p.Title, &p.Excerpt, &p.Content, &p.ImageURL, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]Post, error) {
	rows, err := r.db.Query(ctx, `SELECT `+postColumns+` FROM blog_posts ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("blog: list: %w", err)
	}
	defer rows.Close()

	var out []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("blog: scan: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Create(ctx context.Context, req NewPost) (*Post, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	query := `
		INSERT INTO blog_posts (id, title, excerpt, content, image_url, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + postColumns
	post, err := scanPost(r.db.QueryRow(ctx, query,
		uuid.New(), req.Title, req.Excerpt, req.Content, req.ImageURL, req.Status))
	if err != nil {
		return nil, fmt.Errorf("blog: insert: %w", err)
	}
	return post, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, upd UpdatePost) (*Post, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}
	next := 2
	addSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, next))
		args = append(args, value)
		next++
	}
	if upd.Title != nil {
		addSet("title", *upd.Title)
	}
	if upd.Excerpt != nil {
		addSet("excerpt", *upd.Excerpt)
	}
	if upd.Content != nil {
		addSet("content", *upd.Content)
	}
	if upd.ImageURL != nil {
		addSet("image_url", *upd.ImageURL)
	}
	if upd.Status != nil {
		addSet("status", *upd.Status)
	}

	query := `UPDATE blog_posts SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 RETURNING ` + postColumns
	post, err := scanPost(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("blog: update: %w", err)
	}
	return post, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("blog: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
