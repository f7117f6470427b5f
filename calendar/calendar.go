// Package calendar exports site events as iCalendar documents and as links to an
// external calendar web service.
package calendar

import (
	"fmt"
	"net/url"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/munihsahne/site/events"
	"github.com/munihsahne/site/schedule"
	"github.com/munihsahne/site/site"
)

const (
	// StampLayout is the fixed-width UTC form used for DTSTART/DTEND and calendar links.
	StampLayout = "20060102T150405Z"

	MIMEType = "text/calendar; charset=utf-8"

	googleCalendarRenderURL = "https://calendar.google.com/calendar/render"
)

// ToUTCStamp interprets date (YYYY-MM-DD) and clock (HH:MM) as civil time in loc and
// returns the instant as YYYYMMDDTHHMMSSZ.
func ToUTCStamp(date string, clock string, loc *time.Location) (string, error) {
	t, err := events.ParseCivil(date, clock, loc)
	if err != nil {
		return "", err
	}

	return stamp(t), nil
}

func stamp(t time.Time) string {
	return t.UTC().Format(StampLayout)
}

// BuildCalendarDocument renders a calendar holding the single given event. Apart from
// the UID the output is fully determined by its inputs.
func BuildCalendarDocument(org site.Org, event events.Event) (string, error) {
	start, end, err := event.Span()
	if err != nil {
		return "", err
	}

	cal := newCalendar(org)

	addEvent(cal, fmt.Sprintf("%s@%s", uuid.NewString(), org.UIDDomain), event, start, end)

	return cal.Serialize(ical.WithNewLineWindows), nil
}

// BuildScheduleDocument renders every class session as its own event. Session UIDs are
// stable so that subscribed calendars update in place.
func BuildScheduleDocument(org site.Org, def schedule.Definition, exp schedule.Expansion) string {
	cal := newCalendar(org)
	cal.SetXWRCalName(def.Title)
	cal.SetXWRTimezone(def.TimeZone)

	for _, s := range exp.Sessions {
		e := def.Event(s)
		addEvent(cal, fmt.Sprintf("%s@%s", e.ID, org.UIDDomain), e, s.Start, s.End)
	}

	return cal.Serialize(ical.WithNewLineWindows)
}

func newCalendar(org site.Org) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetProductId(org.ProductID)
	cal.SetCalscale("GREGORIAN")
	cal.SetMethod(ical.MethodPublish)

	return cal
}

func addEvent(cal *ical.Calendar, uid string, e events.Event, start time.Time, end time.Time) {
	vevent := cal.AddEvent(uid)
	// The stamp mirrors DTSTART so repeated exports of an unchanged event are identical.
	vevent.SetDtStampTime(start)
	vevent.SetStartAt(start)
	vevent.SetEndAt(end)
	vevent.SetSummary(e.Title)
	if e.Details != "" {
		vevent.SetDescription(e.Details)
	}
	if e.Location != "" {
		vevent.SetLocation(e.Location)
	}
}

// BuildExternalCalendarLink returns a Google Calendar link that opens a prefilled
// "add event" form.
func BuildExternalCalendarLink(event events.Event) (string, error) {
	start, end, err := event.Span()
	if err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set("action", "TEMPLATE")
	params.Set("text", event.Title)
	params.Set("dates", stamp(start)+"/"+stamp(end))
	params.Set("details", event.Details)
	params.Set("location", event.Location)
	params.Set("ctz", event.TimeZone)

	return googleCalendarRenderURL + "?" + params.Encode(), nil
}

// Filename is the download name of an event's calendar file.
func Filename(event events.Event) string {
	return event.ID + ".ics"
}
