package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildListQuerySelectsAllColumnsByDefault(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("parking_spots"))

	assert.Equal(t, `SELECT * FROM "parking_spots"`, query)
	assert.Empty(t, args)
}

func TestBuildListQuerySanitizesColumnsAndTable(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("parking_spots",
		WithColumns("id", "name", "price_per_hour"),
	))

	assert.Equal(t, `SELECT "id", "name", "price_per_hour" FROM "parking_spots"`, query)
	assert.Empty(t, args)
}

func TestBuildListQueryQualifiedColumn(t *testing.T) {
	query, _ := BuildListQuery(NewListQueryOptions("parking_spots",
		WithColumns("parking_spots.name"),
	))

	assert.Equal(t, `SELECT "parking_spots"."name" FROM "parking_spots"`, query)
}

func TestBuildListQueryConditionsBecomePlaceholders(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("parking_spots",
		WithColumns("id", "name"),
		WithCondition(WhereCond("available", Equal, true)),
		WithCondition(WhereCond("name", ILike, "%garage%")),
	))

	assert.Equal(t,
		`SELECT "id", "name" FROM "parking_spots" WHERE "available" = $1 AND "name" ILIKE $2`,
		query)
	assert.Equal(t, []any{true, "%garage%"}, args)
}

func TestBuildListQueryAllOperators(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("reservations",
		WithConditions(
			WhereCond("status", NotEqual, "cancelled"),
			WhereCond("date", Equal, "2026-09-01"),
			WhereCond("user_id", Like, "uid-%"),
		),
	))

	assert.Equal(t,
		`SELECT * FROM "reservations" WHERE "status" != $1 AND "date" = $2 AND "user_id" LIKE $3`,
		query)
	assert.Equal(t, []any{"cancelled", "2026-09-01", "uid-%"}, args)
}

func TestBuildListQueryOrderLimitOffset(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("parking_spots",
		WithColumns("id"),
		WithCondition(WhereCond("available", Equal, true)),
		WithOrderBy("name", "asc"),
		WithLimit(25),
		WithOffset(50),
	))

	assert.Equal(t,
		`SELECT "id" FROM "parking_spots" WHERE "available" = $1 ORDER BY "name" ASC LIMIT $2 OFFSET $3`,
		query)
	assert.Equal(t, []any{true, 25, 50}, args)
}

func TestBuildListQueryZeroLimitIsExplicit(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("parking_spots",
		WithLimit(0),
	))

	assert.Equal(t, `SELECT * FROM "parking_spots" LIMIT $1`, query)
	assert.Equal(t, []any{0}, args)
}

func TestBuildListQueryCountOnly(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("profiles",
		WithCountOnly(),
		WithCondition(WhereCond("role", Equal, "inspector")),
		// Ordering and pagination are dropped for counts.
		WithOrderBy("created_at", "DESC"),
		WithLimit(10),
	))

	assert.Equal(t, `SELECT COUNT(*) FROM "profiles" WHERE "role" = $1`, query)
	assert.Equal(t, []any{"inspector"}, args)
}

func TestBuildListQueryInvalidOrderDirDropped(t *testing.T) {
	query, _ := BuildListQuery(NewListQueryOptions("parking_spots",
		WithOrderBy("name", "SIDEWAYS"),
	))

	assert.Equal(t, `SELECT * FROM "parking_spots" ORDER BY "name"`, query)
}

func TestBuildListQueryQuotesHostileIdentifiers(t *testing.T) {
	// A field name carrying SQL must end up quoted, not executed.
	query, args := BuildListQuery(NewListQueryOptions("parking_spots",
		WithCondition(WhereCond(`name"; DROP TABLE parking_spots; --`, Equal, "x")),
	))

	assert.Contains(t, query, `"name""; DROP TABLE parking_spots; --"`)
	assert.Equal(t, []any{"x"}, args)
}

func TestBuildListQuerySkipsMalformedConditions(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("parking_spots",
		WithCondition(WhereCond("", Equal, "ignored")),
		WithCondition(Condition{Field: "name", Type: ConditionType(">="), Value: "ignored"}),
		WithCondition(WhereCond("available", Equal, true)),
	))

	assert.Equal(t, `SELECT * FROM "parking_spots" WHERE "available" = $1`, query)
	assert.Equal(t, []any{true}, args)
}

func TestBuildListQueryNilOptions(t *testing.T) {
	query, args := BuildListQuery(nil)
	assert.Empty(t, query)
	assert.Nil(t, args)
}
