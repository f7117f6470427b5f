package events

import (
	"context"
	"fmt"
	"slices"
)

var _ Repository = &Catalog{}

// Catalog is a read-only Repository over the events configured for the site.
type Catalog struct {
	events []Event
	byID   map[string]int
}

func NewCatalog(evts []Event) (*Catalog, error) {
	c := &Catalog{
		events: slices.Clone(evts),
		byID:   make(map[string]int, len(evts)),
	}

	for i, e := range c.events {
		if err := e.Validate(); err != nil {
			return nil, err
		}
		if _, ok := c.byID[e.ID]; ok {
			return nil, NewEventAlreadyExistsError(fmt.Sprintf("Event %q is configured twice", e.ID), nil)
		}
		c.byID[e.ID] = i
	}

	return c, nil
}

func (c *Catalog) GetEvent(ctx context.Context, id string) (Event, error) {
	i, ok := c.byID[id]
	if !ok {
		return Event{}, NewEventDoesNotExistsError(fmt.Sprintf("Event does not exist with ID %q", id), nil)
	}

	return c.events[i], nil
}

func (c *Catalog) GetEvents(ctx context.Context) ([]Event, error) {
	return slices.Clone(c.events), nil
}
