package database

import (
	"strings"
)

// Tables known to the store.
const (
	TableUsers          = "users"
	TableSettings       = "settings"
	TableContacts       = "contacts"
	TableCircles        = "circles"
	TableContactsCircle = "contacts_circles"
	TableEvents         = "events"
)

// ownerColumn is the column every owned table carries.
const ownerColumn = "user_id"

// Cond is one predicate of a WHERE clause. Column names are always constants of the caller, never
// request input; values are always bound as arguments.
type Cond struct {
	expr string
	args []any
}

// Eq matches rows where column equals value.
func Eq(column string, value any) Cond {
	return Cond{expr: column + " = ?", args: []any{value}}
}

// Gte matches rows where column is greater than or equal to value.
func Gte(column string, value any) Cond {
	return Cond{expr: column + " >= ?", args: []any{value}}
}

// Lt matches rows where column is less than value.
func Lt(column string, value any) Cond {
	return Cond{expr: column + " < ?", args: []any{value}}
}

// In matches rows where column is one of values. An empty list matches nothing.
func In(column string, values []string) Cond {
	if len(values) == 0 {
		return Cond{expr: "1 = 0"}
	}
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return Cond{expr: column + " IN (?" + strings.Repeat(", ?", len(values)-1) + ")", args: args}
}

// Value is one column assignment of an INSERT or UPDATE.
type Value struct {
	Column string
	Arg    any
}

// Set assigns value to column.
func Set(column string, value any) Value {
	return Value{Column: column, Arg: value}
}

// Query describes a SELECT.
type Query struct {
	Table   string
	Columns string
	Where   []Cond
	OrderBy string
}

func (q Query) build(conds []Cond) (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(q.Columns)
	b.WriteString(" FROM ")
	b.WriteString(q.Table)
	args := writeWhere(&b, conds)
	if q.OrderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(q.OrderBy)
	}
	return b.String(), args
}

func writeWhere(b *strings.Builder, conds []Cond) []any {
	var args []any
	for i, c := range conds {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		b.WriteString(c.expr)
		args = append(args, c.args...)
	}
	return args
}

func buildInsert(table string, values []Value) (string, []any) {
	columns := make([]string, len(values))
	args := make([]any, len(values))
	for i, v := range values {
		columns[i] = v.Column
		args[i] = v.Arg
	}
	return "INSERT INTO " + table + " (" + strings.Join(columns, ", ") + ") VALUES (?" +
		strings.Repeat(", ?", len(values)-1) + ")", args
}

func buildUpsert(table string, values []Value, update []string) (string, []any) {
	query, args := buildInsert(table, values)
	assignments := make([]string, len(update))
	for i, column := range update {
		assignments[i] = column + " = VALUES(" + column + ")"
	}
	return query + " ON DUPLICATE KEY UPDATE " + strings.Join(assignments, ", "), args
}

func buildUpdate(table string, values []Value, conds []Cond) (string, []any) {
	var b strings.Builder
	b.WriteString("UPDATE ")
	b.WriteString(table)
	b.WriteString(" SET ")
	args := make([]any, 0, len(values))
	for i, v := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(v.Column)
		b.WriteString(" = ?")
		args = append(args, v.Arg)
	}
	args = append(args, writeWhere(&b, conds)...)
	return b.String(), args
}

func buildDelete(table string, conds []Cond) (string, []any) {
	var b strings.Builder
	b.WriteString("DELETE FROM ")
	b.WriteString(table)
	args := writeWhere(&b, conds)
	return b.String(), args
}
