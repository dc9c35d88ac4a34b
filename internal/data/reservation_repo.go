package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/parkease/parkeased/internal/core"
	"github.com/parkease/parkeased/internal/data/pgxutil"
	"github.com/parkease/parkeased/internal/domain/model"
)

// ReservationRepo provides database operations for reservations.
type ReservationRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewReservationRepo creates a new ReservationRepo with real time provider.
func NewReservationRepo(db *sql.DB) *ReservationRepo {
	return &ReservationRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewReservationRepoWithTimeProvider creates a new ReservationRepo with a custom time provider.
func NewReservationRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ReservationRepo {
	return &ReservationRepo{DB: db, timeProvider: tp}
}

// Create inserts a new reservation for a user.
func (r *ReservationRepo) Create(
	ctx context.Context,
	params core.CreateReservationParams,
) (*model.Reservation, error) {
	if params.Req == nil {
		return nil, errors.New("create reservation request is required")
	}
	if strings.TrimSpace(params.UserID) == "" {
		return nil, errors.New("user id is required")
	}
	if err := params.Req.Validate(); err != nil {
		return nil, err
	}

	status := params.Status
	if status == "" {
		status = model.ReservationStatusUpcoming
	}
	if !status.Valid() {
		return nil, fmt.Errorf("unsupported reservation status %q", status)
	}

	createdAt := r.timeProvider.Now().UTC()
	var out model.Reservation
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO reservations (
				spot_id, user_id, date, time_start, time_end, status, verified, created_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, FALSE, $7
			) RETURNING id, spot_id, user_id, date, time_start, time_end, status, verified, created_at
		`,
			params.Req.SpotID,
			params.UserID,
			params.Req.Date,
			params.Req.TimeStart,
			params.Req.TimeEnd,
			status,
			createdAt,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Reservation])
		return err
	}); err != nil {
		return nil, r.mapWriteErr(err)
	}
	return &out, nil
}

// GetByID retrieves a reservation by ID.
func (r *ReservationRepo) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	var res model.Reservation
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, reservationGetByIDQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		res, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Reservation])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to get reservation by ID: %w", err)
	}
	return &res, nil
}

// GetDetailByID retrieves a reservation joined with spot and user display data.
func (r *ReservationRepo) GetDetailByID(ctx context.Context, id string) (*model.ReservationDetail, error) {
	var res model.ReservationDetail
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, reservationDetailBaseQuery+` WHERE r.id = $1`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		res, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.ReservationDetail])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to get reservation detail: %w", err)
	}
	return &res, nil
}

// List retrieves reservation details with optional filters and pagination.
// The join keeps the inspector screen a single round trip.
func (r *ReservationRepo) List(
	ctx context.Context,
	opts model.ReservationsListOptions,
) ([]*model.ReservationDetail, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	where, args := buildReservationFilters(opts, 1)
	query := reservationDetailBaseQuery + where +
		fmt.Sprintf(" ORDER BY r.date DESC, r.time_start DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var rowsOut []model.ReservationDetail
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.ReservationDetail])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}

	res := make([]*model.ReservationDetail, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Count returns the number of reservations matching the filters.
func (r *ReservationRepo) Count(ctx context.Context, opts model.ReservationsListOptions) (int, error) {
	where, args := buildReservationFilters(opts, 1)
	query := `
		SELECT COUNT(*)
		FROM reservations r
		JOIN parking_spots s ON s.id = r.spot_id
		LEFT JOIN profiles p ON p.id = r.user_id` + where

	var count int
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, query, args...).Scan(&count)
	}); err != nil {
		return 0, fmt.Errorf("failed to count reservations: %w", err)
	}
	return count, nil
}

// SetStatus updates the lifecycle status of a reservation.
func (r *ReservationRepo) SetStatus(
	ctx context.Context,
	id string,
	status model.ReservationStatus,
) (*model.Reservation, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("unsupported reservation status %q", status)
	}
	return r.updateOne(ctx, `
		UPDATE reservations SET status = $2 WHERE id = $1
		RETURNING id, spot_id, user_id, date, time_start, time_end, status, verified, created_at`,
		id, status)
}

// SetVerified flips the inspector verification flag on a reservation.
func (r *ReservationRepo) SetVerified(
	ctx context.Context,
	params core.VerifyReservationParams,
) (*model.Reservation, error) {
	return r.updateOne(ctx, `
		UPDATE reservations SET verified = $2 WHERE id = $1
		RETURNING id, spot_id, user_id, date, time_start, time_end, status, verified, created_at`,
		params.ID, params.Verified)
}

// HasOverlap reports whether an active or upcoming reservation already
// occupies the spot for an overlapping window on the same date. Two windows
// overlap when each starts before the other ends. This check is advisory;
// the ex_reservations_no_overlap exclusion constraint is what rejects
// concurrent double bookings at insert time.
func (r *ReservationRepo) HasOverlap(
	ctx context.Context,
	req *model.CreateReservationRequest,
) (bool, error) {
	if req == nil {
		return false, errors.New("create reservation request is required")
	}

	var exists bool
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM reservations
				WHERE spot_id = $1
				  AND date = $2
				  AND status IN ('active', 'upcoming')
				  AND time_start < $4
				  AND time_end > $3
			)`,
			req.SpotID, req.Date, req.TimeStart, req.TimeEnd,
		).Scan(&exists)
	}); err != nil {
		return false, fmt.Errorf("failed to check reservation overlap: %w", err)
	}
	return exists, nil
}

// --- helpers ---

const (
	reservationGetByIDQuery = `
		SELECT id, spot_id, user_id, date, time_start, time_end, status, verified, created_at
		FROM reservations
		WHERE id = $1`

	// User name falls back to the profile email so the inspector screen is
	// never blank for accounts without a display name.
	reservationDetailBaseQuery = `
		SELECT r.id, r.spot_id, r.user_id, r.date, r.time_start, r.time_end, r.status, r.verified, r.created_at,
		       s.name AS spot_name, s.address AS spot_address,
		       COALESCE(NULLIF(p.display_name, ''), p.email, '') AS user_name
		FROM reservations r
		JOIN parking_spots s ON s.id = r.spot_id
		LEFT JOIN profiles p ON p.id = r.user_id`
)

// buildReservationFilters builds the WHERE clause and args for reservation
// listings. The query builder is not used here because the filters span
// joined tables.
func buildReservationFilters(opts model.ReservationsListOptions, startIdx int) (string, []any) {
	conds := make([]string, 0, 4)
	args := make([]any, 0, 4)
	next := func() int { return startIdx + len(args) }

	if opts.UserID != nil && strings.TrimSpace(*opts.UserID) != "" {
		conds = append(conds, fmt.Sprintf("r.user_id = $%d", next()))
		args = append(args, strings.TrimSpace(*opts.UserID))
	}
	if opts.Date != nil && strings.TrimSpace(*opts.Date) != "" {
		conds = append(conds, fmt.Sprintf("r.date = $%d", next()))
		args = append(args, strings.TrimSpace(*opts.Date))
	}
	if opts.Status != nil && *opts.Status != "" {
		conds = append(conds, fmt.Sprintf("r.status = $%d", next()))
		args = append(args, *opts.Status)
	}
	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		idx := next()
		conds = append(conds, fmt.Sprintf(
			"(s.name ILIKE $%d OR COALESCE(p.display_name, '') ILIKE $%d)", idx, idx))
		args = append(args, "%"+strings.TrimSpace(*opts.Q)+"%")
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *ReservationRepo) updateOne(
	ctx context.Context,
	query string,
	args ...any,
) (*model.Reservation, error) {
	var out model.Reservation
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Reservation])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, r.mapWriteErr(err)
	}
	return &out, nil
}

func (r *ReservationRepo) mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.ExclusionViolation:
			// The ex_reservations_no_overlap constraint rejected the row.
			return ErrReservationOverlap
		case pgerrcode.ForeignKeyViolation:
			return ErrSpotNotFound
		}
	}
	return err
}
