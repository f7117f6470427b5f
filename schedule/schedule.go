// Package schedule expands the weekly education plan of the group into concrete
// class sessions.
package schedule

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/munihsahne/site/events"
	"github.com/teambition/rrule-go"
)

// Definition is a weekly class between two calendar days. All fields are civil values in
// TimeZone.
type Definition struct {
	Title     string   `yaml:"title"`
	Weekday   string   `yaml:"weekday"`
	StartTime string   `yaml:"startTime"`
	EndTime   string   `yaml:"endTime"`
	From      string   `yaml:"from"`
	Until     string   `yaml:"until"`
	SkipDates []string `yaml:"skipDates"`
	Location  string   `yaml:"location"`
	TimeZone  string   `yaml:"timeZone"`
}

type Session struct {
	Date  string
	Start time.Time
	End   time.Time
}

type Expansion struct {
	Sessions []Session
	// Skipped lists the days the class would have met but does not.
	Skipped []string
}

var weekdays = map[string]rrule.Weekday{
	"monday":    rrule.MO,
	"tuesday":   rrule.TU,
	"wednesday": rrule.WE,
	"thursday":  rrule.TH,
	"friday":    rrule.FR,
	"saturday":  rrule.SA,
	"sunday":    rrule.SU,
}

func Expand(def Definition) (Expansion, error) {
	var result Expansion

	loc, err := time.LoadLocation(def.TimeZone)
	if err != nil {
		return result, fmt.Errorf("schedule: unknown time zone %q: %w", def.TimeZone, err)
	}

	weekday, ok := weekdays[strings.ToLower(def.Weekday)]
	if !ok {
		return result, fmt.Errorf("schedule: unknown weekday %q", def.Weekday)
	}

	first, err := events.ParseCivil(def.From, def.StartTime, loc)
	if err != nil {
		return result, fmt.Errorf("schedule: invalid start: %w", err)
	}
	firstEnd, err := events.ParseCivil(def.From, def.EndTime, loc)
	if err != nil {
		return result, fmt.Errorf("schedule: invalid end: %w", err)
	}
	if !firstEnd.After(first) {
		firstEnd = firstEnd.AddDate(0, 0, 1)
	}
	length := firstEnd.Sub(first)

	until, err := events.ParseCivil(def.Until, def.StartTime, loc)
	if err != nil {
		return result, fmt.Errorf("schedule: invalid until: %w", err)
	}
	if until.Before(first) {
		return result, fmt.Errorf("schedule: until %s is before from %s", def.Until, def.From)
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   first,
		Until:     until,
		Byweekday: []rrule.Weekday{weekday},
	})
	if err != nil {
		return result, fmt.Errorf("schedule: failed to build rule: %w", err)
	}

	regular := make(map[string]bool)
	for _, occ := range rule.All() {
		regular[occ.Format(events.DateLayout)] = true
	}

	var set rrule.Set
	set.RRule(rule)

	for _, day := range def.SkipDates {
		ex, err := events.ParseCivil(day, def.StartTime, loc)
		if err != nil {
			return result, fmt.Errorf("schedule: invalid skip date: %w", err)
		}
		set.ExDate(ex)

		if regular[day] {
			result.Skipped = append(result.Skipped, day)
		}
	}
	slices.Sort(result.Skipped)

	for _, occ := range set.All() {
		result.Sessions = append(result.Sessions, Session{
			Date:  occ.Format(events.DateLayout),
			Start: occ,
			End:   occ.Add(length),
		})
	}

	return result, nil
}

// Event turns a session into an event descriptor sharing the definition's title and
// location.
func (def Definition) Event(s Session) events.Event {
	return events.Event{
		ID:        "education-" + s.Date,
		Title:     def.Title,
		Date:      s.Date,
		StartTime: s.Start.Format(events.ClockLayout),
		EndTime:   s.End.Format(events.ClockLayout),
		TimeZone:  def.TimeZone,
		Location:  def.Location,
	}
}
