package calendar

import (
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	goical "github.com/emersion/go-ical"
	"github.com/munihsahne/site/events"
	"github.com/munihsahne/site/schedule"
	"github.com/munihsahne/site/site"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var stampPattern = regexp.MustCompile(`^\d{8}T\d{6}Z$`)

func testOrg() site.Org {
	return site.Org{
		Name:      "Münih Sahne",
		Email:     "munihsahne@gmail.com",
		ProductID: "-//MunihSahne//TR",
		UIDDomain: "munihsahne",
	}
}

func testEvent() events.Event {
	return events.Event{
		ID:        "tanisma-toplantisi",
		Title:     "Tanışma",
		Date:      "2025-11-03",
		StartTime: "19:30",
		EndTime:   "22:00",
		TimeZone:  "Europe/Berlin",
		Location:  "Fat Cat",
		Details:   "İlk buluşma\nProva takvimi",
	}
}

func decode(t *testing.T, doc string) *goical.Calendar {
	t.Helper()

	cal, err := goical.NewDecoder(strings.NewReader(doc)).Decode()
	require.NoError(t, err)

	return cal
}

func TestToUTCStamp(t *testing.T) {
	t.Run("fixed utc+1 zone", func(t *testing.T) {
		got, err := ToUTCStamp("2025-11-03", "19:30", time.FixedZone("UTC+1", 60*60))
		require.NoError(t, err)

		assert.Equal(t, "20251103T183000Z", got)
	})

	t.Run("named zone in winter time", func(t *testing.T) {
		loc, err := time.LoadLocation("Europe/Berlin")
		require.NoError(t, err)

		got, err := ToUTCStamp("2025-11-03", "19:30", loc)
		require.NoError(t, err)

		assert.Equal(t, "20251103T183000Z", got)
	})

	t.Run("named zone in summer time", func(t *testing.T) {
		loc, err := time.LoadLocation("Europe/Berlin")
		require.NoError(t, err)

		got, err := ToUTCStamp("2025-07-01", "19:30", loc)
		require.NoError(t, err)

		assert.Equal(t, "20250701T173000Z", got)
	})

	t.Run("crosses into the previous utc day", func(t *testing.T) {
		got, err := ToUTCStamp("2026-01-01", "00:30", time.FixedZone("UTC+1", 60*60))
		require.NoError(t, err)

		assert.Equal(t, "20251231T233000Z", got)
	})

	t.Run("always sixteen characters", func(t *testing.T) {
		loc, err := time.LoadLocation("Europe/Berlin")
		require.NoError(t, err)

		for _, c := range []struct{ date, clock string }{
			{"2025-01-01", "00:00"},
			{"2025-03-30", "03:15"},
			{"2025-10-26", "02:30"},
			{"2099-12-31", "23:59"},
			{"0999-06-15", "12:00"},
		} {
			got, err := ToUTCStamp(c.date, c.clock, loc)
			require.NoError(t, err)
			assert.Len(t, got, 16)
			assert.Regexp(t, stampPattern, got)
		}
	})

	t.Run("malformed input", func(t *testing.T) {
		_, err := ToUTCStamp("2025-11-3", "19:30", time.UTC)
		assert.Error(t, err)
	})
}

func TestBuildCalendarDocument(t *testing.T) {
	t.Run("structure", func(t *testing.T) {
		doc, err := BuildCalendarDocument(testOrg(), testEvent())
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(doc, "BEGIN:VCALENDAR\r\n"))
		assert.True(t, strings.HasSuffix(doc, "END:VCALENDAR\r\n"))
		assert.Equal(t, 1, strings.Count(doc, "BEGIN:VEVENT"))
		assert.Equal(t, 1, strings.Count(doc, "END:VEVENT"))
		assert.Contains(t, doc, "VERSION:2.0")
		assert.Contains(t, doc, "PRODID:-//MunihSahne//TR")
		assert.Contains(t, doc, "METHOD:PUBLISH")
		assert.Contains(t, doc, "DTSTART:20251103T183000Z")
		assert.Contains(t, doc, "DTEND:20251103T210000Z")
		assert.Contains(t, doc, "DTSTAMP:20251103T183000Z")
	})

	t.Run("fields survive a round trip", func(t *testing.T) {
		doc, err := BuildCalendarDocument(testOrg(), testEvent())
		require.NoError(t, err)

		cal := decode(t, doc)
		evts := cal.Events()
		require.Len(t, evts, 1)
		ev := evts[0]

		summary, err := ev.Props.Text(goical.PropSummary)
		require.NoError(t, err)
		assert.Equal(t, "Tanışma", summary)

		description, err := ev.Props.Text(goical.PropDescription)
		require.NoError(t, err)
		assert.Equal(t, "İlk buluşma\nProva takvimi", description)

		location, err := ev.Props.Text(goical.PropLocation)
		require.NoError(t, err)
		assert.Equal(t, "Fat Cat", location)

		start, err := ev.DateTimeStart(time.UTC)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, time.November, 3, 18, 30, 0, 0, time.UTC), start.UTC())

		uid, err := ev.Props.Text(goical.PropUID)
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(uid, "@munihsahne"))
	})

	t.Run("every line ends with crlf", func(t *testing.T) {
		doc, err := BuildCalendarDocument(testOrg(), testEvent())
		require.NoError(t, err)

		assert.Equal(t, strings.Count(doc, "\n"), strings.Count(doc, "\r\n"))
		assert.Greater(t, strings.Count(doc, "\r\n"), 10)
	})

	t.Run("newlines in details are escaped", func(t *testing.T) {
		doc, err := BuildCalendarDocument(testOrg(), testEvent())
		require.NoError(t, err)

		assert.NotContains(t, doc, "İlk buluşma\nProva")
	})

	t.Run("only the uid differs between exports", func(t *testing.T) {
		first, err := BuildCalendarDocument(testOrg(), testEvent())
		require.NoError(t, err)
		second, err := BuildCalendarDocument(testOrg(), testEvent())
		require.NoError(t, err)

		uidLine := regexp.MustCompile(`UID:[^\r\n]*`)
		assert.NotEqual(t, first, second)
		assert.Equal(t, uidLine.ReplaceAllString(first, "UID:x"), uidLine.ReplaceAllString(second, "UID:x"))
	})

	t.Run("invalid event", func(t *testing.T) {
		e := testEvent()
		e.TimeZone = "Not/AZone"

		_, err := BuildCalendarDocument(testOrg(), e)
		assert.Error(t, err)
	})
}

func TestBuildExternalCalendarLink(t *testing.T) {
	t.Run("carries the event fields", func(t *testing.T) {
		link, err := BuildExternalCalendarLink(testEvent())
		require.NoError(t, err)

		u, err := url.Parse(link)
		require.NoError(t, err)

		assert.Equal(t, "calendar.google.com", u.Host)
		assert.Equal(t, "/calendar/render", u.Path)

		q := u.Query()
		assert.Equal(t, "TEMPLATE", q.Get("action"))
		assert.Equal(t, "Tanışma", q.Get("text"))
		assert.Equal(t, "20251103T183000Z/20251103T210000Z", q.Get("dates"))
		assert.Equal(t, "İlk buluşma\nProva takvimi", q.Get("details"))
		assert.Equal(t, "Fat Cat", q.Get("location"))
		assert.Equal(t, "Europe/Berlin", q.Get("ctz"))
	})

	t.Run("values are url encoded", func(t *testing.T) {
		e := testEvent()
		e.Location = "Fat Cat / Kellerstraße 8a, 81667 München"

		link, err := BuildExternalCalendarLink(e)
		require.NoError(t, err)

		assert.NotContains(t, link, " ")
		assert.NotContains(t, link, "\n")
	})

	t.Run("invalid event", func(t *testing.T) {
		e := testEvent()
		e.Date = ""

		_, err := BuildExternalCalendarLink(e)
		assert.Error(t, err)
	})
}

func TestBuildScheduleDocument(t *testing.T) {
	def := schedule.Definition{
		Title:     "Eğitim",
		Weekday:   "monday",
		StartTime: "19:30",
		EndTime:   "22:00",
		From:      "2025-11-01",
		Until:     "2025-12-31",
		SkipDates: []string{"2025-12-29"},
		Location:  "Fat Cat",
		TimeZone:  "Europe/Berlin",
	}
	exp, err := schedule.Expand(def)
	require.NoError(t, err)

	doc := BuildScheduleDocument(testOrg(), def, exp)

	assert.Equal(t, len(exp.Sessions), strings.Count(doc, "BEGIN:VEVENT"))
	assert.Contains(t, doc, "UID:education-2025-11-03@munihsahne")
	assert.NotContains(t, doc, "education-2025-12-29")

	assert.True(t, strings.HasSuffix(doc, "END:VCALENDAR\r\n"))
	assert.Equal(t, strings.Count(doc, "\n"), strings.Count(doc, "\r\n"))

	cal := decode(t, doc)
	assert.Len(t, cal.Events(), 8)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "tanisma-toplantisi.ics", Filename(testEvent()))
}
