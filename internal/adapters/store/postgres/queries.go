package postgres

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/todo-service/internal/domain/todo"
)

// todoColumns is the column list selected and returned by every statement.
// Its order must match scanTodo.
const todoColumns = `"id", "state", "description", "createdAt", "completedAt"`

const insertTodoSQL = `INSERT INTO todos ("id", "description", "state")
VALUES ($1, $2, 'INCOMPLETE')
RETURNING ` + todoColumns

const deleteTodoSQL = `DELETE FROM todos WHERE "id" = $1 RETURNING ` + todoColumns

// orderColumn maps an OrderBy to its quoted column name.
func orderColumn(o todo.OrderBy) string {
	switch o {
	case todo.OrderByDescription:
		return `"description"`
	case todo.OrderByCompletedAt:
		return `"completedAt"`
	default:
		return `"createdAt"`
	}
}

// buildListQuery returns the SELECT statement and its arguments for q.
// Ordering is ascending with no tie-break.
func buildListQuery(q todo.ListQuery) (string, []any) {
	q = q.Normalize()

	var (
		b    strings.Builder
		args []any
	)
	b.WriteString(`SELECT ` + todoColumns + ` FROM todos`)

	if state, ok := q.Filter.State(); ok {
		args = append(args, string(state))
		b.WriteString(` WHERE "state" = $1`)
	}

	b.WriteString(` ORDER BY ` + orderColumn(q.OrderBy) + ` ASC`)
	return b.String(), args
}

// buildUpdateQuery returns the UPDATE statement and its arguments for a
// validated, non-empty patch. Only present fields are assigned. When the state
// is present, completedAt keeps an existing completion time on COMPLETE and is
// cleared on INCOMPLETE.
func buildUpdateQuery(id uuid.UUID, p todo.Patch) (string, []any) {
	var (
		sets []string
		args []any
	)

	if p.Description != nil {
		args = append(args, *p.Description)
		sets = append(sets, `"description" = `+placeholder(len(args)))
	}
	if p.State != nil {
		args = append(args, string(*p.State))
		ph := placeholder(len(args)) + "::text"
		sets = append(sets,
			`"state" = `+ph,
			`"completedAt" = CASE WHEN `+ph+` = 'COMPLETE' THEN COALESCE("completedAt", now()) ELSE NULL END`,
		)
	}

	args = append(args, id)
	sql := `UPDATE todos SET ` + strings.Join(sets, ", ") +
		` WHERE "id" = ` + placeholder(len(args)) +
		` RETURNING ` + todoColumns
	return sql, args
}

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}
