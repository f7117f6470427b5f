package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/munihsahne/site/calendar"
	"github.com/munihsahne/site/events"
	"github.com/munihsahne/site/schedule"
	"github.com/oapi-codegen/runtime/types"
)

const educationFilename = "education.ics"

func (a *API) getEducationSchedule(w http.ResponseWriter, r *http.Request) {
	logger := a.getLoggerOrBaseLogger(r.Context())

	exp, ok := a.expandEducation(w, r)
	if !ok {
		return
	}

	def := a.site.Education
	resp := EducationSchedule{
		Title:    def.Title,
		Location: def.Location,
		TimeZone: def.TimeZone,
		Sessions: make([]Session, 0, len(exp.Sessions)),
		Skipped:  make([]types.Date, 0, len(exp.Skipped)),
	}

	for _, s := range exp.Sessions {
		day, err := time.Parse(events.DateLayout, s.Date)
		if err != nil {
			logger.Error("Session has invalid date", slog.String("date", s.Date), slog.String("error", err.Error()))
			writeJSON(logger, w, http.StatusInternalServerError, Error{Message: "Internal server error", Code: InternalError})
			return
		}
		resp.Sessions = append(resp.Sessions, Session{Date: types.Date{Time: day}, Start: s.Start, End: s.End})
	}

	for _, d := range exp.Skipped {
		day, err := time.Parse(events.DateLayout, d)
		if err != nil {
			logger.Error("Skipped date is invalid", slog.String("date", d), slog.String("error", err.Error()))
			writeJSON(logger, w, http.StatusInternalServerError, Error{Message: "Internal server error", Code: InternalError})
			return
		}
		resp.Skipped = append(resp.Skipped, types.Date{Time: day})
	}

	writeJSON(logger, w, http.StatusOK, resp)
}

func (a *API) getEducationCalendar(w http.ResponseWriter, r *http.Request) {
	exp, ok := a.expandEducation(w, r)
	if !ok {
		return
	}

	writeCalendarDownload(w, educationFilename, calendar.BuildScheduleDocument(a.site.Org, a.site.Education, exp))
}

func (a *API) expandEducation(w http.ResponseWriter, r *http.Request) (schedule.Expansion, bool) {
	logger := a.getLoggerOrBaseLogger(r.Context())

	if !a.site.HasEducation() {
		writeJSON(logger, w, http.StatusNotFound, Error{Message: "No education schedule", Code: NotFound})
		return schedule.Expansion{}, false
	}

	exp, err := schedule.Expand(a.site.Education)
	if err != nil {
		logger.Error("Failed to expand education schedule", slog.String("error", err.Error()))
		writeJSON(logger, w, http.StatusInternalServerError, Error{Message: "Internal server error", Code: InternalError})
		return schedule.Expansion{}, false
	}

	return exp, true
}
