package todo

import (
	"fmt"
	"strings"
)

// Filter restricts a listing to todos in a given state.
type Filter string

const (
	FilterAll        Filter = "ALL"
	FilterComplete   Filter = "COMPLETE"
	FilterIncomplete Filter = "INCOMPLETE"
)

// ParseFilter converts a query value to a Filter, ignoring case.
// An empty value yields FilterAll.
func ParseFilter(raw string) (Filter, error) {
	if raw == "" {
		return FilterAll, nil
	}
	switch f := Filter(strings.ToUpper(raw)); f {
	case FilterAll, FilterComplete, FilterIncomplete:
		return f, nil
	default:
		return "", fmt.Errorf("must be one of ALL, COMPLETE, INCOMPLETE; got %q", raw)
	}
}

// State returns the state the filter selects and false for FilterAll.
func (f Filter) State() (State, bool) {
	switch f {
	case FilterComplete:
		return StateComplete, true
	case FilterIncomplete:
		return StateIncomplete, true
	default:
		return "", false
	}
}

// OrderBy selects the sort key of a listing. Ordering is always ascending.
type OrderBy string

const (
	OrderByDescription OrderBy = "DESCRIPTION"
	OrderByCreatedAt   OrderBy = "CREATED_AT"
	OrderByCompletedAt OrderBy = "COMPLETED_AT"
)

// ParseOrderBy converts a query value to an OrderBy, ignoring case.
// An empty value yields OrderByCreatedAt.
func ParseOrderBy(raw string) (OrderBy, error) {
	if raw == "" {
		return OrderByCreatedAt, nil
	}
	switch o := OrderBy(strings.ToUpper(raw)); o {
	case OrderByDescription, OrderByCreatedAt, OrderByCompletedAt:
		return o, nil
	default:
		return "", fmt.Errorf("must be one of DESCRIPTION, CREATED_AT, COMPLETED_AT; got %q", raw)
	}
}

// ListQuery holds the validated listing intent.
// The zero value lists every todo ordered by creation time.
type ListQuery struct {
	Filter  Filter
	OrderBy OrderBy
}

// Normalize fills unset fields with their defaults.
func (q ListQuery) Normalize() ListQuery {
	if q.Filter == "" {
		q.Filter = FilterAll
	}
	if q.OrderBy == "" {
		q.OrderBy = OrderByCreatedAt
	}
	return q
}
