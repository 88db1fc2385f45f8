package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"marketchat/internal/pkg/profile/port"
)

// PgDirectory reads display names from the marketplace's profile table.
type PgDirectory struct {
	pool *pgxpool.Pool
}

func NewPgDirectory(pool *pgxpool.Pool) *PgDirectory {
	return &PgDirectory{pool: pool}
}

var _ port.Directory = (*PgDirectory)(nil)

func (d *PgDirectory) DisplayName(ctx context.Context, userID string) (string, error) {
	if d == nil || d.pool == nil {
		return "", errors.New("PgDirectory: nil pool")
	}
	var name string
	err := d.pool.QueryRow(ctx,
		`SELECT display_name FROM profile."user" WHERE id = $1`,
		userID,
	).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", port.ErrUnknownUser
	}
	return name, err
}
