package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/parkease/parkeased/internal/data/database"
	"github.com/parkease/parkeased/internal/data/pgxutil"
	domainauth "github.com/parkease/parkeased/internal/domain/auth"
	"github.com/parkease/parkeased/internal/ports"
)

// ProfileRepo persists profile records in Postgres, keyed by the identity
// UID. It satisfies both the ports.ProfileStore document contract used by
// the session manager and the listing surface used by the admin endpoints.
type ProfileRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

var _ ports.ProfileStore = (*ProfileRepo)(nil)

// NewProfileRepo creates a new ProfileRepo with real time provider.
func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewProfileRepoWithTimeProvider creates a new ProfileRepo with a custom time provider.
func NewProfileRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ProfileRepo {
	return &ProfileRepo{DB: db, timeProvider: tp}
}

// Get fetches the profile record for id.
func (r *ProfileRepo) Get(ctx context.Context, id string) (*domainauth.Profile, error) {
	return r.getByQuery(ctx, profileGetByIDQuery, "failed to get profile by ID", id)
}

// GetByEmail fetches the profile record for an email address.
func (r *ProfileRepo) GetByEmail(ctx context.Context, email string) (*domainauth.Profile, error) {
	return r.getByQuery(ctx, profileGetByEmailQuery, "failed to get profile by email", email)
}

// Set writes the profile record. With merge true, empty fields of the
// incoming record keep whatever the stored row already holds; otherwise the
// row is overwritten wholesale.
func (r *ProfileRepo) Set(ctx context.Context, profile domainauth.Profile, merge bool) error {
	if strings.TrimSpace(profile.ID) == "" {
		return errors.New("profile id is required")
	}
	if profile.Role != "" && !profile.Role.Valid() {
		return fmt.Errorf("unsupported role %q", profile.Role)
	}

	createdAt := profile.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.timeProvider.Now().UTC()
	}

	query := profileUpsertOverwriteQuery
	if merge {
		query = profileUpsertMergeQuery
	}

	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, query,
			profile.ID,
			profile.Email,
			string(profile.Role),
			profile.DisplayName,
			createdAt,
		)
		return err
	}); err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// List retrieves profiles with pagination, newest first.
func (r *ProfileRepo) List(ctx context.Context, limit, offset int) ([]*domainauth.Profile, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query, args := database.BuildListQuery(database.NewListQueryOptions("profiles",
		database.WithColumns(profileColumns()...),
		database.WithOrderBy("created_at", sortDirDesc),
		database.WithLimit(limit),
		database.WithOffset(offset),
	))

	var rowsOut []domainauth.Profile
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[domainauth.Profile])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	res := make([]*domainauth.Profile, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Count returns the total number of profile records.
func (r *ProfileRepo) Count(ctx context.Context) (int, error) {
	query, args := database.BuildListQuery(database.NewListQueryOptions("profiles",
		database.WithCountOnly(),
	))

	var count int
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, query, args...).Scan(&count)
	}); err != nil {
		return 0, fmt.Errorf("failed to count profiles: %w", err)
	}
	return count, nil
}

// --- helpers ---

const (
	profileGetByIDQuery = `
		SELECT id, email, role, display_name, created_at
		FROM profiles
		WHERE id = $1`

	profileGetByEmailQuery = `
		SELECT id, email, role, display_name, created_at
		FROM profiles
		WHERE email = $1`

	// Overwrite replaces every field, including created_at, with the
	// incoming record. Register flows use this.
	profileUpsertOverwriteQuery = `
		INSERT INTO profiles (id, email, role, display_name, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			role = EXCLUDED.role,
			display_name = EXCLUDED.display_name,
			created_at = EXCLUDED.created_at`

	// Merge keeps the stored value wherever the incoming field is empty.
	// Federated logins use this so a repeat login never downgrades a row.
	profileUpsertMergeQuery = `
		INSERT INTO profiles (id, email, role, display_name, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			email = COALESCE(NULLIF(EXCLUDED.email, ''), profiles.email),
			role = COALESCE(NULLIF(EXCLUDED.role, ''), profiles.role),
			display_name = COALESCE(NULLIF(EXCLUDED.display_name, ''), profiles.display_name),
			created_at = profiles.created_at`
)

// profileColumns returns the standard column list for profile queries.
func profileColumns() []string {
	return []string{"id", "email", "role", "display_name", "created_at"}
}

// getByQuery executes a query expected to return a single profile.
func (r *ProfileRepo) getByQuery(
	ctx context.Context,
	q string,
	errMsg string,
	args ...any,
) (*domainauth.Profile, error) {
	var profile domainauth.Profile
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		profile, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[domainauth.Profile])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrProfileNotFound
		}
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	return &profile, nil
}
