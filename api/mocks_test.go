package api

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/International-Combat-Archery-Alliance/email"
	"github.com/munihsahne/site/events"
	"github.com/munihsahne/site/registration"
	"github.com/munihsahne/site/site"
	"github.com/stretchr/testify/require"
)

var noopLogger = slog.New(slog.DiscardHandler)

var _ email.Sender = &mockEmailSender{}

type mockEmailSender struct {
	SendEmailFunc func(ctx context.Context, e email.Email) error

	mu   sync.Mutex
	sent []email.Email
}

func (m *mockEmailSender) SendEmail(ctx context.Context, e email.Email) error {
	m.mu.Lock()
	m.sent = append(m.sent, e)
	m.mu.Unlock()

	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(ctx, e)
	}
	return nil
}

func (m *mockEmailSender) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

var _ events.Repository = &mockEventRepo{}

type mockEventRepo struct {
	GetEventFunc  func(ctx context.Context, id string) (events.Event, error)
	GetEventsFunc func(ctx context.Context) ([]events.Event, error)
}

func (m *mockEventRepo) GetEvent(ctx context.Context, id string) (events.Event, error) {
	return m.GetEventFunc(ctx, id)
}

func (m *mockEventRepo) GetEvents(ctx context.Context) ([]events.Event, error) {
	return m.GetEventsFunc(ctx)
}

func configuredProvider() registration.ProviderSettings {
	return registration.ProviderSettings{
		APIKey:      "AKIAEXAMPLE:secret",
		FromAddress: "noreply@munihsahne.de",
		ToAddress:   "munihsahne@gmail.com",
	}
}

func defaultSite(t *testing.T) site.Site {
	t.Helper()

	s, err := site.Default()
	require.NoError(t, err)
	return s
}

type testServerOpts struct {
	site     *site.Site
	repo     events.Repository
	provider registration.ProviderSettings
	sender   email.Sender
	env      Environment
	logger   *slog.Logger
}

func newTestHandler(t *testing.T, opts testServerOpts) http.Handler {
	t.Helper()

	s := defaultSite(t)
	if opts.site != nil {
		s = *opts.site
	}

	repo := opts.repo
	if repo == nil {
		catalog, err := events.NewCatalog(s.Events)
		require.NoError(t, err)
		repo = catalog
	}

	logger := opts.logger
	if logger == nil {
		logger = noopLogger
	}

	h, err := NewAPI(s, repo, opts.provider, opts.sender, logger, opts.env).Handler()
	require.NoError(t, err)
	return h
}

func doRequest(h http.Handler, method string, path string, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}
