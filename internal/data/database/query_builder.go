// Package database holds the shared list-query builder the repositories use
// for single-table listings. Identifiers are quoted with pgx.Identifier;
// values always travel as placeholders, never inline.
package database

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// ConditionType is a comparison operator for a WHERE condition.
type ConditionType string

const (
	Equal    ConditionType = "="
	NotEqual ConditionType = "!="
	Like     ConditionType = "LIKE"
	ILike    ConditionType = "ILIKE"

	// Sentinels distinguishing "not set" from an explicit zero.
	defaultLimit  = -1
	defaultOffset = -1
)

// Condition is a single field comparison in a WHERE clause.
type Condition struct {
	Field string
	Type  ConditionType
	Value any
}

// WhereCond builds a field comparison condition.
func WhereCond(field string, condType ConditionType, value any) Condition {
	return Condition{Field: field, Type: condType, Value: value}
}

// ListQueryOptions describes a listing or count query over one table.
type ListQueryOptions struct {
	Table      string
	Columns    []string
	CountOnly  bool
	Conditions []Condition
	OrderBy    string
	OrderDir   string
	Limit      int
	Offset     int
}

// ListQueryOption mutates ListQueryOptions.
type ListQueryOption func(*ListQueryOptions)

// NewListQueryOptions builds options for a query against table.
func NewListQueryOptions(table string, opts ...ListQueryOption) *ListQueryOptions {
	options := &ListQueryOptions{
		Table:      table,
		Columns:    []string{},
		Conditions: []Condition{},
		Limit:      defaultLimit,
		Offset:     defaultOffset,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// WithColumns sets the columns to select.
func WithColumns(cols ...string) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.Columns = cols
	}
}

// WithCondition adds a single condition.
func WithCondition(cond Condition) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.Conditions = append(o.Conditions, cond)
	}
}

// WithConditions sets the entire list of conditions.
func WithConditions(conds ...Condition) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.Conditions = conds
	}
}

// WithOrderBy sets the ordering column and direction.
func WithOrderBy(column, direction string) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.OrderBy = column
		o.OrderDir = direction
	}
}

// WithLimit sets the limit. Accepts 0.
func WithLimit(limit int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if limit >= 0 {
			o.Limit = limit
		}
	}
}

// WithOffset sets the offset. Accepts 0.
func WithOffset(offset int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if offset >= 0 {
			o.Offset = offset
		}
	}
}

// WithCountOnly turns the query into SELECT COUNT(*).
func WithCountOnly() ListQueryOption {
	return func(o *ListQueryOptions) {
		o.CountOnly = true
	}
}

// sanitizeIdentifier quotes a single identifier.
func sanitizeIdentifier(ident string) string {
	return pgx.Identifier{ident}.Sanitize()
}

// sanitizeQualifiedIdentifier quotes identifiers like "table.column",
// splitting on '.' so each part is quoted on its own.
func sanitizeQualifiedIdentifier(ident string) string {
	return pgx.Identifier(strings.Split(ident, ".")).Sanitize()
}

// BuildListQuery constructs a SQL query string and arguments from options.
// It handles SELECT, WHERE, ORDER BY, LIMIT, and OFFSET clauses.
//
// Example usage:
//
//	options := NewListQueryOptions("parking_spots",
//		WithColumns("id", "name", "available"),
//		WithCondition(WhereCond("available", Equal, true)),
//		WithCondition(WhereCond("name", ILike, "%garage%")),
//		WithOrderBy("name", "ASC"),
//		WithLimit(10),
//		WithOffset(0),
//	)
//
//	query, args := BuildListQuery(options)
func BuildListQuery(options *ListQueryOptions) (string, []any) {
	if options == nil {
		return "", nil
	}

	var query strings.Builder
	query.WriteString(buildSelectClause(options))
	query.WriteString("FROM ")
	query.WriteString(sanitizeIdentifier(options.Table))

	whereClause, whereArgs, nextParamCount := buildWhereClause(options.Conditions, 1)
	if whereClause != "" {
		query.WriteString(" ")
		query.WriteString(whereClause)
	}

	// Count queries carry no ordering or pagination.
	if options.CountOnly {
		return query.String(), whereArgs
	}

	paginationOrderClause, finalArgs := buildPaginationAndOrderClause(
		options,
		nextParamCount,
		whereArgs,
	)
	if paginationOrderClause != "" {
		query.WriteString(paginationOrderClause)
	}

	return query.String(), finalArgs
}

// buildSelectClause generates the SELECT part with sanitized columns.
func buildSelectClause(options *ListQueryOptions) string {
	if options.CountOnly {
		return "SELECT COUNT(*) "
	}
	if len(options.Columns) == 0 {
		return "SELECT * "
	}

	sanitized := make([]string, len(options.Columns))
	for i, col := range options.Columns {
		sanitized[i] = sanitizeQualifiedIdentifier(col)
	}
	return fmt.Sprintf("SELECT %s ", strings.Join(sanitized, ", "))
}

// buildWhereClause generates the WHERE part with sanitized fields. Conditions
// with an empty field or an unknown operator are dropped rather than risking
// malformed SQL.
func buildWhereClause(inputConditions []Condition, startParamIndex int) (string, []any, int) {
	conditions := make([]string, 0, len(inputConditions))
	args := make([]any, 0, len(inputConditions))
	paramCount := startParamIndex

	for _, cond := range inputConditions {
		if cond.Field == "" {
			continue
		}
		switch cond.Type {
		case Equal, NotEqual, Like, ILike:
		default:
			continue
		}
		conditions = append(conditions, fmt.Sprintf(
			"%s %s $%d", sanitizeIdentifier(cond.Field), cond.Type, paramCount))
		args = append(args, cond.Value)
		paramCount++
	}

	if len(conditions) == 0 {
		return "", args, paramCount
	}
	return "WHERE " + strings.Join(conditions, " AND "), args, paramCount
}

// buildPaginationAndOrderClause generates ORDER BY, LIMIT, OFFSET parts with
// a sanitized OrderBy column and a validated direction.
func buildPaginationAndOrderClause(
	options *ListQueryOptions,
	startParamIndex int,
	initialArgs []any,
) (string, []any) {
	var clause strings.Builder
	args := initialArgs
	paramCount := startParamIndex

	if options.OrderBy != "" {
		clause.WriteString(" ORDER BY ")
		clause.WriteString(sanitizeQualifiedIdentifier(options.OrderBy))
		upperOrderDir := strings.ToUpper(options.OrderDir)
		if upperOrderDir == "ASC" || upperOrderDir == "DESC" {
			clause.WriteString(" ")
			clause.WriteString(upperOrderDir)
		}
	}

	if options.Limit != defaultLimit {
		clause.WriteString(fmt.Sprintf(" LIMIT $%d", paramCount))
		args = append(args, options.Limit)
		paramCount++
	}
	if options.Offset != defaultOffset {
		clause.WriteString(fmt.Sprintf(" OFFSET $%d", paramCount))
		args = append(args, options.Offset)
	}

	return clause.String(), args
}
