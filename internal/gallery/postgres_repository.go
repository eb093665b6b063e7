package gallery

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores gallery images in the relational database.
type PostgresRepository struct {
	db pgxDB
}

type pgxDB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("gallery: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting a mock database for testing.
func NewPostgresRepositoryWithDB(db pgxDB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const imageColumns = `id, title, description, category, image_url, storage_name, created_at`

func scanImage(row pgx.Row) (*Image, error) {
	var img Image
	err := row.Scan(&img.ID, &img.Title, &img.Description, &img.Category, &img.ImageURL, &img.StorageName, &img.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]Image, error) {
	rows, err := r.db.Query(ctx, `SELECT `+imageColumns+` FROM gallery_images ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("gallery: list: %w", err)
	}
	defer rows.Close()

	var out []Image
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("gallery: scan: %w", err)
		}
		out = append(out, *img)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Create(ctx context.Context, req NewImage) (*Image, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	query := `
		INSERT INTO gallery_images (id, title, description, category, image_url, storage_name)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + imageColumns
	img, err := scanImage(r.db.QueryRow(ctx, query,
		uuid.New(), req.Title, req.Description, req.Category, req.ImageURL, req.StorageName))
	if err != nil {
		return nil, fmt.Errorf("gallery: insert: %w", err)
	}
	return img, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*Image, error) {
	img, err := scanImage(r.db.QueryRow(ctx, `SELECT `+imageColumns+` FROM gallery_images WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("gallery: get: %w", err)
	}
	return img, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM gallery_images WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("gallery: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
