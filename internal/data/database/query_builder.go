// Package database builds parameterized list queries for the repositories.
//
// Identifiers (table, columns, order column) are validated before being
// interpolated into SQL; values are always bound as positional parameters.
package database

import (
	"fmt"
	"strings"
)

// Condition restricts a list query to rows where a column equals a value.
// Multiple conditions are combined with AND.
type Condition struct {
	Column string
	Value  any
}

// ListQueryOptions describes a paginated SELECT over a single table.
type ListQueryOptions struct {
	Table      string
	Columns    []string
	Conditions []Condition
	OrderBy    string
	OrderDir   string
	Limit      int
	Offset     int
	CountOnly  bool
}

// ListQueryOption configures a ListQueryOptions.
type ListQueryOption func(*ListQueryOptions)

// NewListQueryOptions creates query options for the given table.
func NewListQueryOptions(table string, opts ...ListQueryOption) *ListQueryOptions {
	options := &ListQueryOptions{Table: table}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// WithColumns sets the columns to select. Without columns the query
// selects *.
func WithColumns(cols ...string) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.Columns = append(o.Columns, cols...)
	}
}

// WithCondition adds an equality condition on a column. The value is
// bound as a parameter.
func WithCondition(column string, value any) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.Conditions = append(o.Conditions, Condition{Column: column, Value: value})
	}
}

// WithOrderBy sets the sort column and direction (ASC or DESC).
func WithOrderBy(column, direction string) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.OrderBy = column
		o.OrderDir = direction
	}
}

// WithLimit caps the number of rows returned.
func WithLimit(limit int) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.Limit = limit
	}
}

// WithOffset skips the first offset rows.
func WithOffset(offset int) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.Offset = offset
	}
}

// WithCountOnly makes the query select COUNT(*) instead of rows.
// Ordering and pagination are ignored in count mode.
func WithCountOnly() ListQueryOption {
	return func(o *ListQueryOptions) {
		o.CountOnly = true
	}
}

// BuildListQuery renders the options into a SQL statement and its bound
// arguments. Invalid identifiers are dropped rather than interpolated.
func BuildListQuery(options *ListQueryOptions) (string, []any) {
	var sb strings.Builder
	var args []any

	sb.WriteString("SELECT ")
	sb.WriteString(buildSelectClause(options))
	sb.WriteString(" FROM ")
	sb.WriteString(options.Table)

	args = appendWhereClause(&sb, options.Conditions, args)

	if !options.CountOnly {
		appendOrderClause(&sb, options.OrderBy, options.OrderDir)
		args = appendPaginationClause(&sb, options.Limit, options.Offset, args)
	}

	return sb.String(), args
}

func buildSelectClause(options *ListQueryOptions) string {
	if options.CountOnly {
		return "COUNT(*)"
	}
	cols := make([]string, 0, len(options.Columns))
	for _, col := range options.Columns {
		if isValidIdentifier(col) {
			cols = append(cols, col)
		}
	}
	if len(cols) == 0 {
		return "*"
	}
	return strings.Join(cols, ", ")
}

func appendWhereClause(sb *strings.Builder, conditions []Condition, args []any) []any {
	wrote := false
	for _, cond := range conditions {
		if !isValidIdentifier(cond.Column) {
			continue
		}
		if wrote {
			sb.WriteString(" AND ")
		} else {
			sb.WriteString(" WHERE ")
			wrote = true
		}
		args = append(args, cond.Value)
		fmt.Fprintf(sb, "%s = $%d", cond.Column, len(args))
	}
	return args
}

func appendOrderClause(sb *strings.Builder, column, direction string) {
	if !isValidIdentifier(column) {
		return
	}
	dir := strings.ToUpper(direction)
	if dir != "ASC" && dir != "DESC" {
		dir = "ASC"
	}
	fmt.Fprintf(sb, " ORDER BY %s %s", column, dir)
}

func appendPaginationClause(sb *strings.Builder, limit, offset int, args []any) []any {
	if limit > 0 {
		args = append(args, limit)
		fmt.Fprintf(sb, " LIMIT $%d", len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		fmt.Fprintf(sb, " OFFSET $%d", len(args))
	}
	return args
}

// isValidIdentifier accepts plain or schema-qualified SQL identifiers.
// Anything else is rejected so callers cannot interpolate expressions.
func isValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, part := range strings.Split(s, ".") {
		if !isValidIdentifierPart(part) {
			return false
		}
	}
	return true
}

func isValidIdentifierPart(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
