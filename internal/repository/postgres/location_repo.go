// internal/repository/postgres/location_repository.go
package postgres

import (
	"context"
	"fmt"

	"tracksafe-service/internal/domain/location"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LocationRepository persists the per-account location log. The log is
// append-only: there is deliberately no update method here.
type LocationRepository struct {
	db *pgxpool.Pool
}

func NewLocationRepository(db *pgxpool.Pool) *LocationRepository {
	return &LocationRepository{db: db}
}

// AppendSample inserts one sample into the account's log
func (r *LocationRepository) AppendSample(ctx context.Context, sample *location.Sample) error {
	query := `
		INSERT INTO location_logs (id, account_id, latitude, longitude, accuracy_m, captured_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	return r.db.QueryRow(ctx, query,
		sample.ID, sample.AccountID, sample.Latitude, sample.Longitude,
		sample.AccuracyMeters, sample.CapturedAt,
	).Scan(&sample.CreatedAt)
}

// ListSamples returns the newest samples first, bounded by limit
func (r *LocationRepository) ListSamples(ctx context.Context, accountID string, limit int) ([]*location.Sample, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := `
		SELECT id, account_id, latitude, longitude, accuracy_m, captured_at, created_at
		FROM location_logs
		WHERE account_id = $1
		ORDER BY captured_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list samples: %w", err)
	}
	defer rows.Close()

	var samples []*location.Sample
	for rows.Next() {
		var s location.Sample
		if err := rows.Scan(
			&s.ID, &s.AccountID, &s.Latitude, &s.Longitude,
			&s.AccuracyMeters, &s.CapturedAt, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		samples = append(samples, &s)
	}

	return samples, rows.Err()
}
