package api

import (
	"log/slog"
	"net/http"

	"github.com/International-Combat-Archery-Alliance/email"
	"github.com/International-Combat-Archery-Alliance/middleware"
	"github.com/munihsahne/site/events"
	"github.com/munihsahne/site/registration"
	"github.com/munihsahne/site/site"
)

type Environment int

const (
	LOCAL Environment = iota
	PROD
)

type API struct {
	site        site.Site
	events      events.Repository
	provider    registration.ProviderSettings
	emailSender email.Sender
	logger      *slog.Logger
	env         Environment
}

func NewAPI(s site.Site, eventRepo events.Repository, provider registration.ProviderSettings, emailSender email.Sender, logger *slog.Logger, env Environment) *API {
	return &API{
		site:        s,
		events:      eventRepo,
		provider:    provider,
		emailSender: emailSender,
		logger:      logger,
		env:         env,
	}
}

// Handler wires the routes behind request validation, CORS, request ids, access
// logging and tracing.
func (a *API) Handler() (http.Handler, error) {
	swagger, err := GetSwagger()
	if err != nil {
		return nil, err
	}

	r := http.NewServeMux()

	r.HandleFunc("GET /health", a.getHealth)
	r.HandleFunc("GET /api/site", a.getSiteInfo)
	r.HandleFunc("POST "+joinPath, a.postJoin)
	r.HandleFunc("POST "+joinPath+"/mailto", a.postJoinMailto)
	r.HandleFunc("GET /api/events", a.getEvents)
	r.HandleFunc("GET /api/events/{eventId}", a.getEvent)
	r.HandleFunc("GET /api/events/{eventId}/calendar.ics", a.getEventCalendar)
	r.HandleFunc("GET /api/events/{eventId}/calendar-link", a.getEventCalendarLink)
	r.HandleFunc("GET /api/education/schedule", a.getEducationSchedule)
	r.HandleFunc("GET /api/education/calendar.ics", a.getEducationCalendar)

	h := middleware.UseMiddlewares(r,
		a.openapiValidateMiddleware(swagger),
		a.joinPayloadMiddleware(),
		a.corsMiddleware(),
		a.requestContextMiddleware(),
		middleware.AccessLogging(a.logger),
		middleware.OTELHandler,
	)

	return h, nil
}

func (a *API) getHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(a.getLoggerOrBaseLogger(r.Context()), w, http.StatusOK, map[string]string{"status": "ok"})
}
