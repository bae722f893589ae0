package storage

import (
	"context"
	"database/sql"

	"github.com/attestra/go-anoncred-infra/internal/anoncred"
	"github.com/pkg/errors"
)

// PostgresStore keeps the engine state in PostgreSQL for deployments that
// need the registry, rings and counter to survive restarts. Uniqueness and
// insertion order are enforced by the schema; the counter lives in a
// single-row table bumped inside one UPDATE so increments never get lost.
type PostgresStore struct {
	db *sql.DB
}

// Schema is the DDL the store expects. Applied by `anoncred db migrate`.
const Schema = `
CREATE TABLE IF NOT EXISTS engine_admin (
    singleton  BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (singleton),
    identity   TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS issuers (
    position   BIGSERIAL PRIMARY KEY,
    public_key BYTEA NOT NULL UNIQUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS attribute_rings (
    attribute  TEXT PRIMARY KEY,
    members    BYTEA NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS verification_counter (
    singleton BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (singleton),
    count     BIGINT NOT NULL DEFAULT 0
);
INSERT INTO verification_counter (singleton, count)
    VALUES (TRUE, 0) ON CONFLICT DO NOTHING;
`

// pointSize mirrors group.PointSize; members are stored as one BYTEA blob of
// concatenated 96-byte points to keep ring replacement a single row write.
const pointSize = 96

// NewPostgresStore creates a PostgreSQL-backed state store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) InitAdmin(ctx context.Context, admin string) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO engine_admin (singleton, identity) VALUES (TRUE, $1) ON CONFLICT DO NOTHING`, admin)
	if err != nil {
		return errors.Wrap(err, "failed to set admin")
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read insert result")
	}
	if rows == 0 {
		return anoncred.ErrAlreadyInitialized
	}
	return nil
}

func (s *PostgresStore) Admin(ctx context.Context) (string, error) {
	var admin string
	err := s.db.QueryRowContext(ctx, `SELECT identity FROM engine_admin`).Scan(&admin)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "failed to get admin")
	}
	return admin, nil
}

func (s *PostgresStore) AppendIssuer(ctx context.Context, pub []byte) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO issuers (public_key) VALUES ($1) ON CONFLICT (public_key) DO NOTHING`, pub)
	if err != nil {
		return errors.Wrap(err, "failed to append issuer")
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read insert result")
	}
	if rows == 0 {
		return anoncred.ErrDuplicateIssuer
	}
	return nil
}

func (s *PostgresStore) Issuers(ctx context.Context) ([][]byte, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT public_key FROM issuers ORDER BY position`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list issuers")
	}
	defer rows.Close()

	var issuers [][]byte
	for rows.Next() {
		var pub []byte
		if err := rows.Scan(&pub); err != nil {
			return nil, errors.Wrap(err, "failed to scan issuer")
		}
		issuers = append(issuers, pub)
	}
	return issuers, errors.Wrap(rows.Err(), "failed to iterate issuers")
}

func (s *PostgresStore) HasIssuer(ctx context.Context, pub []byte) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM issuers WHERE public_key = $1)`, pub).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "failed to check issuer")
	}
	return exists, nil
}

func (s *PostgresStore) SaveRing(ctx context.Context, attribute string, members [][]byte) error {
	blob := make([]byte, 0, len(members)*pointSize)
	for _, m := range members {
		blob = append(blob, m...)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attribute_rings (attribute, members, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (attribute) DO UPDATE SET members = EXCLUDED.members, updated_at = now()`,
		attribute, blob)
	return errors.Wrapf(err, "failed to save ring for attribute %q", attribute)
}

func (s *PostgresStore) GetRing(ctx context.Context, attribute string) ([][]byte, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT members FROM attribute_rings WHERE attribute = $1`, attribute).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, anoncred.ErrRingNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get ring for attribute %q", attribute)
	}
	if len(blob)%pointSize != 0 {
		return nil, errors.Errorf("stored ring for attribute %q is corrupt", attribute)
	}
	members := make([][]byte, 0, len(blob)/pointSize)
	for off := 0; off < len(blob); off += pointSize {
		members = append(members, blob[off:off+pointSize])
	}
	return members, nil
}

func (s *PostgresStore) IncrementVerifications(ctx context.Context) (uint64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`UPDATE verification_counter SET count = count + 1 RETURNING count`).Scan(&count)
	if err != nil {
		return 0, errors.Wrap(err, "failed to increment verification counter")
	}
	return uint64(count), nil
}

func (s *PostgresStore) VerificationCount(ctx context.Context) (uint64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT count FROM verification_counter`).Scan(&count)
	if err != nil {
		return 0, errors.Wrap(err, "failed to read verification counter")
	}
	return uint64(count), nil
}
