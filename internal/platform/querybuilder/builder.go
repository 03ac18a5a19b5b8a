package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// statement accumulates SQL text and its bound arguments. The next
// placeholder index is always len(args)+1, so placeholders can never drift
// from the argument list.
type statement struct {
	sql  strings.Builder
	args []any
}

func (st *statement) raw(s string) {
	st.sql.WriteString(s)
}

// bind appends one argument and writes its $n placeholder.
func (st *statement) bind(value any) {
	st.args = append(st.args, value)
	st.sql.WriteString("$" + strconv.Itoa(len(st.args)))
}

// bindRow writes a parenthesized placeholder tuple binding every value.
func (st *statement) bindRow(row []any) {
	st.raw("(")
	for i, value := range row {
		if i > 0 {
			st.raw(", ")
		}
		st.bind(value)
	}
	st.raw(")")
}

// Condition renders one WHERE predicate into the statement.
type Condition interface {
	render(st *statement)
}

type equals struct {
	column string
	value  any
}

// Eq matches column = value with a bound parameter.
func Eq(column string, value any) Condition {
	return equals{column: column, value: value}
}

func (c equals) render(st *statement) {
	st.raw(c.column + " = ")
	st.bind(c.value)
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	switch {
	case len(b.columns) == 0:
		return "", nil, fmt.Errorf("select columns are required")
	case strings.TrimSpace(b.table) == "":
		return "", nil, fmt.Errorf("select table is required")
	}

	st := &statement{args: make([]any, 0, len(b.where))}
	st.raw("SELECT " + strings.Join(b.columns, ", ") + " FROM " + b.table)
	renderWhere(st, b.where)
	if len(b.orderBy) > 0 {
		st.raw(" ORDER BY " + strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		st.raw(" LIMIT " + strconv.Itoa(b.limit))
	}
	return st.sql.String(), st.args, nil
}

type InsertBuilder struct {
	table   string
	columns []string
	rows    [][]any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

// Values adds one row. Call it repeatedly for a multi-row insert.
func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

// Suffix appends raw SQL after the VALUES list, e.g. an ON CONFLICT clause.
func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	switch {
	case strings.TrimSpace(b.table) == "":
		return "", nil, fmt.Errorf("insert table is required")
	case len(b.columns) == 0:
		return "", nil, fmt.Errorf("insert columns are required")
	case len(b.rows) == 0:
		return "", nil, fmt.Errorf("insert values are required")
	}

	st := &statement{args: make([]any, 0, len(b.rows)*len(b.columns))}
	st.raw("INSERT INTO " + b.table + " (" + strings.Join(b.columns, ", ") + ") VALUES ")
	for i, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", i, len(row), len(b.columns))
		}
		if i > 0 {
			st.raw(", ")
		}
		st.bindRow(row)
	}
	if b.suffix != "" {
		st.raw(" " + b.suffix)
	}
	return st.sql.String(), st.args, nil
}

func renderWhere(st *statement, conditions []Condition) {
	if len(conditions) == 0 {
		return
	}
	st.raw(" WHERE ")
	for i, c := range conditions {
		if i > 0 {
			st.raw(" AND ")
		}
		c.render(st)
	}
}
