package repository

import (
	"context"
	"strings"

	"github.com/iliyamo/eventella/internal/model"
)

// EventQuery holds the catalog filters.  Zero values mean "no filter";
// MaxPrice is a pointer because 0 is a meaningful bound.
type EventQuery struct {
	Category string
	Location string
	MaxPrice *float64
	Q        string
}

// likeEscaper makes user input match literally inside LIKE patterns.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// Search returns events matching every set filter in insertion order.
// Category matches exactly: a value outside the enum, including a
// different letter case, matches nothing.
func (r *EventRepo) Search(ctx context.Context, q EventQuery) ([]model.Event, error) {
	where := []string{}
	args := []any{}

	if q.Category != "" {
		if !model.Category(q.Category).Valid() {
			return []model.Event{}, nil
		}
		// the column collation is case-insensitive
		where = append(where, "BINARY category = ?")
		args = append(args, q.Category)
	}
	if loc := strings.TrimSpace(q.Location); loc != "" {
		where = append(where, "LOWER(location) LIKE ?")
		args = append(args, containsPattern(loc))
	}
	if q.MaxPrice != nil {
		where = append(where, "price <= ?")
		args = append(args, *q.MaxPrice)
	}
	if text := strings.TrimSpace(q.Q); text != "" {
		p := containsPattern(text)
		where = append(where, `(LOWER(title) LIKE ?
			OR LOWER(description) LIKE ?
			OR LOWER(location) LIKE ?
			OR LOWER(COALESCE(artist, '')) LIKE ?
			OR LOWER(category) LIKE ?)`)
		args = append(args, p, p, p, p, p)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	sqlText := "SELECT " + eventColumns + " FROM events WHERE " + cond +
		" ORDER BY created_at ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
