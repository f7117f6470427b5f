package events

import (
	"context"
	"fmt"
	"time"
	// Civil zones must resolve even on hosts without a zoneinfo database.
	_ "time/tzdata"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// Event describes one happening of the group. All of its date and time fields are
// wall-clock values in TimeZone.
type Event struct {
	ID        string `yaml:"id"`
	Title     string `yaml:"title"`
	Date      string `yaml:"date"`
	StartTime string `yaml:"startTime"`
	EndTime   string `yaml:"endTime"`
	TimeZone  string `yaml:"timeZone"`
	Location  string `yaml:"location"`
	Details   string `yaml:"details"`
}

type Repository interface {
	GetEvent(ctx context.Context, id string) (Event, error)
	GetEvents(ctx context.Context) ([]Event, error)
}

func (e Event) Zone() (*time.Location, error) {
	if e.TimeZone == "" {
		return nil, NewInvalidEventError(fmt.Sprintf("Event %q has no time zone", e.ID), nil)
	}

	loc, err := time.LoadLocation(e.TimeZone)
	if err != nil {
		return nil, NewInvalidEventError(fmt.Sprintf("Event %q has unknown time zone %q", e.ID, e.TimeZone), err)
	}

	return loc, nil
}

// Span returns the start and end instants of the event. An end time that is not after
// the start time belongs to the following day.
func (e Event) Span() (time.Time, time.Time, error) {
	loc, err := e.Zone()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	start, err := ParseCivil(e.Date, e.StartTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, NewInvalidEventError(fmt.Sprintf("Event %q has an invalid start", e.ID), err)
	}

	end, err := ParseCivil(e.Date, e.EndTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, NewInvalidEventError(fmt.Sprintf("Event %q has an invalid end", e.ID), err)
	}

	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}

	return start, end, nil
}

func (e Event) Validate() error {
	if e.ID == "" {
		return NewInvalidEventError("Event must have an id", nil)
	}
	if e.Title == "" {
		return NewInvalidEventError(fmt.Sprintf("Event %q must have a title", e.ID), nil)
	}

	_, _, err := e.Span()
	return err
}

// ParseCivil reads a calendar day (YYYY-MM-DD) and a wall-clock time (HH:MM) as a local
// time in loc.
func ParseCivil(date string, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		return time.Time{}, fmt.Errorf("no location given for %s %s", date, clock)
	}

	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}

	hm, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", clock, err)
	}

	return time.Date(day.Year(), day.Month(), day.Day(), hm.Hour(), hm.Minute(), 0, 0, loc), nil
}
