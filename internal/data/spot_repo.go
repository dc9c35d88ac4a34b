package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/parkease/parkeased/internal/data/database"
	"github.com/parkease/parkeased/internal/data/pgxutil"
	"github.com/parkease/parkeased/internal/domain/model"
)

// SpotRepo provides database operations for parking spots.
type SpotRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewSpotRepo creates a new SpotRepo with real time provider.
func NewSpotRepo(db *sql.DB) *SpotRepo {
	return &SpotRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewSpotRepoWithTimeProvider creates a new SpotRepo with a custom time provider (useful for tests).
func NewSpotRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *SpotRepo {
	return &SpotRepo{DB: db, timeProvider: tp}
}

// Create inserts a new parking spot.
func (r *SpotRepo) Create(ctx context.Context, req *model.CreateSpotRequest) (*model.ParkingSpot, error) {
	if req == nil {
		return nil, errors.New("create spot request is required")
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Default available to true if not specified (matches DB default)
	available := true
	if req.Available != nil {
		available = *req.Available
	}

	createdAt := r.timeProvider.Now().UTC()
	var out model.ParkingSpot
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO parking_spots (
				name, address, price_per_hour, available, created_at, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $5
			) RETURNING id, name, address, price_per_hour, available, created_at, updated_at
		`,
			strings.TrimSpace(req.Name),
			strings.TrimSpace(req.Address),
			req.PricePerHour,
			available,
			createdAt,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.ParkingSpot])
		return err
	}); err != nil {
		return nil, r.mapWriteErr(err, false)
	}
	return &out, nil
}

// GetByID retrieves a parking spot by ID.
func (r *SpotRepo) GetByID(ctx context.Context, id string) (*model.ParkingSpot, error) {
	var spot model.ParkingSpot
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, spotGetByIDQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		spot, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.ParkingSpot])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSpotNotFound
		}
		return nil, fmt.Errorf("failed to get spot by ID: %w", err)
	}
	return &spot, nil
}

// List retrieves parking spots with optional filters and pagination.
func (r *SpotRepo) List(ctx context.Context, opts model.SpotsListOptions) ([]*model.ParkingSpot, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	queryOpts := append(spotFilterOptions(opts),
		database.WithColumns(spotColumns()...),
		database.WithOrderBy("name", sortDirAsc),
		database.WithLimit(limit),
		database.WithOffset(offset),
	)
	query, args := database.BuildListQuery(database.NewListQueryOptions("parking_spots", queryOpts...))

	var rowsOut []model.ParkingSpot
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.ParkingSpot])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list spots: %w", err)
	}

	res := make([]*model.ParkingSpot, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Count returns the number of parking spots matching the filters.
func (r *SpotRepo) Count(ctx context.Context, opts model.SpotsListOptions) (int, error) {
	queryOpts := append(spotFilterOptions(opts), database.WithCountOnly())
	query, args := database.BuildListQuery(database.NewListQueryOptions("parking_spots", queryOpts...))

	var count int
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, query, args...).Scan(&count)
	}); err != nil {
		return 0, fmt.Errorf("failed to count spots: %w", err)
	}
	return count, nil
}

// Update updates fields of a parking spot. Nil request fields are left unchanged.
func (r *SpotRepo) Update(
	ctx context.Context,
	id string,
	req model.UpdateSpotRequest,
) (*model.ParkingSpot, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.ParkingSpot
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		setClause, args := r.buildUpdateClause(req)
		if setClause == "" {
			rows, err := conn.Query(ctx, spotGetByIDQuery, id)
			if err != nil {
				return err
			}
			defer rows.Close()
			var e error
			out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.ParkingSpot])
			return e
		}
		args = append(args, id)
		query := "UPDATE parking_spots SET " + setClause + " WHERE id = $" + strconv.Itoa(
			len(args),
		) + " RETURNING id, name, address, price_per_hour, available, created_at, updated_at"
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.ParkingSpot])
		return e
	})
	if err != nil {
		return nil, r.mapWriteErr(err, true)
	}
	return &out, nil
}

// buildUpdateClause builds the SQL SET clause and args for updating a spot based on the request.
func (r *SpotRepo) buildUpdateClause(req model.UpdateSpotRequest) (string, []any) {
	setParts := make([]string, 0, 5)
	args := make([]any, 0, 5)
	nextIdx := func() int { return len(args) + 1 }

	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Name))
	}
	if req.Address != nil {
		setParts = append(setParts, fmt.Sprintf("address = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Address))
	}
	if req.PricePerHour != nil {
		setParts = append(setParts, fmt.Sprintf("price_per_hour = $%d", nextIdx()))
		args = append(args, *req.PricePerHour)
	}
	if req.Available != nil {
		setParts = append(setParts, fmt.Sprintf("available = $%d", nextIdx()))
		args = append(args, *req.Available)
	}

	if len(setParts) == 0 {
		return "", nil
	}

	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())
	return strings.Join(setParts, ", "), args
}

// Delete deletes a parking spot by ID.
func (r *SpotRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM parking_spots WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete spot: %w", err)
	}
	return rows > 0, nil
}

// --- helpers ---

const (
	sortDirAsc  = "ASC"
	sortDirDesc = "DESC"
)

const spotGetByIDQuery = `
	SELECT id, name, address, price_per_hour, available, created_at, updated_at
	FROM parking_spots
	WHERE id = $1`

// spotColumns returns the standard column list for spot queries.
func spotColumns() []string {
	return []string{
		"id",
		"name",
		"address",
		"price_per_hour",
		"available",
		"created_at",
		"updated_at",
	}
}

// spotFilterOptions translates the listing filters into query conditions,
// shared between List and Count so both always agree.
func spotFilterOptions(opts model.SpotsListOptions) []database.ListQueryOption {
	var queryOpts []database.ListQueryOption

	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("name", database.ILike, "%"+strings.TrimSpace(*opts.Q)+"%"),
		))
	}
	if opts.Available != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("available", database.Equal, *opts.Available),
		))
	}
	return queryOpts
}

func (r *SpotRepo) mapWriteErr(err error, includeNotFound bool) error {
	if err == nil {
		return nil
	}
	if includeNotFound && errors.Is(err, pgx.ErrNoRows) {
		return ErrSpotNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrSpotNameExists
	}
	return err
}
