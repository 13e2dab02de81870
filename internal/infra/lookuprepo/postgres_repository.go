package lookuprepo

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/taapman/internal/domain/dashboard"
)

// PostgresRepository implements dashboard.LookupLog using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Record inserts one lookup row.
func (r *PostgresRepository) Record(ctx context.Context, entry dashboard.Lookup) error {
	id, err := uuid.Parse(entry.ID)
	if err != nil {
		id = uuid.New()
	}
	var country any
	if entry.Place.Country != "" {
		country = entry.Place.Country
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO lookups (id, query, source, place_name, country, latitude, longitude, condition, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, id, entry.Query, string(entry.Source), entry.Place.Name, country,
		entry.Place.Latitude, entry.Place.Longitude, entry.Condition, entry.CreatedAt)
	return err
}

// Recent returns the newest lookups first.
func (r *PostgresRepository) Recent(ctx context.Context, limit int) ([]dashboard.Lookup, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, query, source, place_name, country, latitude, longitude, condition, created_at
		FROM lookups
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]dashboard.Lookup, 0, limit)
	for rows.Next() {
		entry, err := scanLookup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLookup(row rowScanner) (dashboard.Lookup, error) {
	var (
		entry   dashboard.Lookup
		id      uuid.UUID
		source  string
		country sql.NullString
	)
	if err := row.Scan(&id, &entry.Query, &source, &entry.Place.Name, &country,
		&entry.Place.Latitude, &entry.Place.Longitude, &entry.Condition, &entry.CreatedAt); err != nil {
		return dashboard.Lookup{}, err
	}
	entry.ID = id.String()
	entry.Source = dashboard.LookupSource(source)
	if country.Valid {
		entry.Place.Country = country.String
	}
	entry.CreatedAt = entry.CreatedAt.UTC()
	return entry, nil
}

var _ dashboard.LookupLog = (*PostgresRepository)(nil)
