package store

import (
	"context"
	"time"

	"gitlab.com/dirk.krummacker/personal-crm/internal/database"
	"gitlab.com/dirk.krummacker/personal-crm/internal/model"
)

const eventColumns = "id, title, description, location, url, starts_at"

// Events is the data access for the shared event calendar.
type Events struct {
	base
}

// List returns the upcoming events, soonest first, or the past events, latest first. Events that
// start today count as upcoming. Anonymous callers get no events.
func (s *Events) List(ctx context.Context, filter model.EventFilter) ([]model.Event, error) {
	h, ok := s.db.Session(ctx)
	if !ok {
		return []model.Event{}, nil
	}
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	q := database.Query{Table: database.TableEvents, Columns: eventColumns}
	if filter == model.EventsPast {
		q.Where = []database.Cond{database.Lt("starts_at", today)}
		q.OrderBy = "starts_at DESC"
	} else {
		q.Where = []database.Cond{database.Gte("starts_at", today)}
		q.OrderBy = "starts_at ASC"
	}

	events := []model.Event{}
	if err := h.SelectShared(ctx, &events, q); err != nil {
		return []model.Event{}, err
	}
	return events, nil
}
