package api

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/munihsahne/site/calendar"
	"github.com/munihsahne/site/events"
	"github.com/oapi-codegen/runtime/types"
)

func (a *API) getEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := a.getLoggerOrBaseLogger(ctx)

	evts, err := a.events.GetEvents(ctx)
	if err != nil {
		logger.Error("Failed to get events", slog.String("error", err.Error()))
		writeJSON(logger, w, http.StatusInternalServerError, Error{Message: "Internal server error", Code: InternalError})
		return
	}

	resp := EventsResponse{Data: make([]Event, 0, len(evts))}
	for _, e := range evts {
		apiEvent, err := eventToApiEvent(e)
		if err != nil {
			logger.Error("Failed to convert event", slog.String("event-id", e.ID), slog.String("error", err.Error()))
			writeJSON(logger, w, http.StatusInternalServerError, Error{Message: "Internal server error", Code: InternalError})
			return
		}
		resp.Data = append(resp.Data, apiEvent)
	}

	writeJSON(logger, w, http.StatusOK, resp)
}

func (a *API) getEvent(w http.ResponseWriter, r *http.Request) {
	logger := a.getLoggerOrBaseLogger(r.Context())

	event, ok := a.lookupEvent(w, r)
	if !ok {
		return
	}

	apiEvent, err := eventToApiEvent(event)
	if err != nil {
		logger.Error("Failed to convert event", slog.String("error", err.Error()))
		writeJSON(logger, w, http.StatusInternalServerError, Error{Message: "Internal server error", Code: InternalError})
		return
	}

	writeJSON(logger, w, http.StatusOK, apiEvent)
}

func (a *API) getEventCalendar(w http.ResponseWriter, r *http.Request) {
	logger := a.getLoggerOrBaseLogger(r.Context())

	event, ok := a.lookupEvent(w, r)
	if !ok {
		return
	}

	doc, err := calendar.BuildCalendarDocument(a.site.Org, event)
	if err != nil {
		logger.Error("Failed to build calendar document", slog.String("error", err.Error()))
		writeJSON(logger, w, http.StatusInternalServerError, Error{Message: "Failed to build calendar", Code: InternalError})
		return
	}

	writeCalendarDownload(w, calendar.Filename(event), doc)
}

func (a *API) getEventCalendarLink(w http.ResponseWriter, r *http.Request) {
	logger := a.getLoggerOrBaseLogger(r.Context())

	event, ok := a.lookupEvent(w, r)
	if !ok {
		return
	}

	link, err := calendar.BuildExternalCalendarLink(event)
	if err != nil {
		logger.Error("Failed to build calendar link", slog.String("error", err.Error()))
		writeJSON(logger, w, http.StatusInternalServerError, Error{Message: "Failed to build calendar link", Code: InternalError})
		return
	}

	http.Redirect(w, r, link, http.StatusFound)
}

// lookupEvent writes the error response itself when the event cannot be served.
func (a *API) lookupEvent(w http.ResponseWriter, r *http.Request) (events.Event, bool) {
	ctx := r.Context()
	logger := a.getLoggerOrBaseLogger(ctx)
	id := r.PathValue("eventId")

	event, err := a.events.GetEvent(ctx, id)
	if err != nil {
		var eventErr *events.Error
		if errors.As(err, &eventErr) && eventErr.Reason == events.REASON_EVENT_DOES_NOT_EXIST {
			writeJSON(logger, w, http.StatusNotFound, Error{Message: "Event not found", Code: NotFound})
			return events.Event{}, false
		}

		logger.Error("Failed to get event", slog.String("event-id", id), slog.String("error", err.Error()))
		writeJSON(logger, w, http.StatusInternalServerError, Error{Message: "Internal server error", Code: InternalError})
		return events.Event{}, false
	}

	return event, true
}

func eventToApiEvent(e events.Event) (Event, error) {
	day, err := time.Parse(events.DateLayout, e.Date)
	if err != nil {
		return Event{}, err
	}

	link, err := calendar.BuildExternalCalendarLink(e)
	if err != nil {
		return Event{}, err
	}

	return Event{
		Id:           e.ID,
		Title:        e.Title,
		Date:         types.Date{Time: day},
		StartTime:    e.StartTime,
		EndTime:      e.EndTime,
		TimeZone:     e.TimeZone,
		Location:     e.Location,
		Details:      e.Details,
		CalendarLink: link,
		IcsPath:      icsPath(e),
	}, nil
}

func icsPath(e events.Event) string {
	return "/api/events/" + e.ID + "/calendar.ics"
}

func writeCalendarDownload(w http.ResponseWriter, filename string, doc string) {
	w.Header().Set("Content-Type", calendar.MIMEType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(doc))
}
