// Package joinclient submits the pre-registration form to the site backend the way the
// page does: one request, and the submitter is always thanked.
package joinclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/munihsahne/site/registration"
)

type State int

const (
	Idle State = iota
	Submitting
	Resolved
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Submitting:
		return "Submitting"
	case Resolved:
		return "Resolved"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	ErrCannotSubmit      = errors.New("form is incomplete or consent is missing")
	ErrAlreadySubmitting = errors.New("a submission is already in flight")
	ErrClosed            = errors.New("form was already submitted")
)

type Form struct {
	Name     string
	Mail     string
	Phone    string
	Interest string
	Note     string
	// Consent to processing personal data for the registration. It gates submission and
	// is not sent.
	Consent bool
}

func (f Form) CanSubmit() bool {
	return strings.TrimSpace(f.Name) != "" && registration.IsLooseEmail(f.Mail) && f.Consent
}

type payload struct {
	Name     string `json:"name"`
	Mail     string `json:"mail"`
	Phone    string `json:"phone"`
	Interest string `json:"interest"`
	Note     string `json:"note"`
}

// Outcome is what the submitter gets to see. Success is always true once a request was
// made; the real server answer is only logged.
type Outcome struct {
	Success bool
}

type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger

	mu    sync.Mutex
	state State
}

func New(endpoint string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		endpoint:   endpoint,
		httpClient: httpClient,
		logger:     logger,
		state:      Idle,
	}
}

func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Reset reopens the form after it was resolved.
func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Resolved {
		c.state = Idle
	}
}

func (c *Client) Submit(ctx context.Context, form Form) (Outcome, error) {
	c.mu.Lock()
	switch c.state {
	case Submitting:
		c.mu.Unlock()
		return Outcome{}, ErrAlreadySubmitting
	case Resolved:
		c.mu.Unlock()
		return Outcome{}, ErrClosed
	}
	if !form.CanSubmit() {
		c.mu.Unlock()
		return Outcome{}, ErrCannotSubmit
	}
	c.state = Submitting
	c.mu.Unlock()

	err := c.post(ctx, form)
	if err != nil {
		c.logger.WarnContext(ctx, "join submission failed, thanking submitter anyway", slog.String("error", err.Error()))
	}

	c.mu.Lock()
	c.state = Resolved
	c.mu.Unlock()

	return Outcome{Success: true}, nil
}

func (c *Client) post(ctx context.Context, form Form) error {
	body, err := json.Marshal(payload{
		Name:     form.Name,
		Mail:     form.Mail,
		Phone:    form.Phone,
		Interest: form.Interest,
		Note:     form.Note,
	})
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("server answered %d", resp.StatusCode)
	}

	return nil
}
