package registration

import (
	"context"
	"regexp"
	"strings"

	"github.com/International-Combat-Archery-Alliance/email"
	"github.com/munihsahne/site/ptr"
	"github.com/munihsahne/site/site"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/munihsahne/site/registration"

// Loose on purpose: something, an @, something, a dot, something.
var mailPattern = regexp.MustCompile(`.+@.+\..+`)

// Request is one submission of the pre-registration form. It is never stored.
type Request struct {
	Name     string
	Mail     string
	Phone    string
	Interest string
	Note     string
}

type SubmissionResult struct {
	Accepted  bool
	Delivered bool
	ErrorKind *ErrorReason
}

// ProviderSettings are read once at start. Delivery happens only when all of them are
// present.
type ProviderSettings struct {
	APIKey      string
	FromAddress string
	ToAddress   string
}

func (s ProviderSettings) IsConfigured() bool {
	return s.APIKey != "" && s.FromAddress != "" && s.ToAddress != ""
}

func IsLooseEmail(s string) bool {
	return mailPattern.MatchString(s)
}

func (r Request) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return NewInvalidInputError("Name is required")
	}
	if r.Mail == "" {
		return NewInvalidInputError("Mail is required")
	}
	if !IsLooseEmail(r.Mail) {
		return NewInvalidInputError("Mail does not look like an email address")
	}

	return nil
}

// Submit validates the request and, if the provider is configured, sends exactly one
// notification to the organization with the submitter as reply-to. Submissions are not
// deduplicated.
func Submit(ctx context.Context, req Request, org site.Org, settings ProviderSettings, sender email.Sender) (SubmissionResult, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "registration.Submit")
	defer span.End()

	err := req.Validate()
	if err != nil {
		return failed(span, REASON_INVALID_INPUT, err)
	}

	if !settings.IsConfigured() || sender == nil {
		span.SetAttributes(attribute.Bool("registration.provider_configured", false))
		return SubmissionResult{Accepted: true}, nil
	}
	span.SetAttributes(attribute.Bool("registration.provider_configured", true))

	body, err := makeTextBody(req)
	if err != nil {
		return failed(span, REASON_FAILED_TO_COMPOSE, NewFailedToComposeError("Failed to render notification", err))
	}

	err = sender.SendEmail(ctx, email.Email{
		FromAddress:      settings.FromAddress,
		ToAddresses:      []string{settings.ToAddress},
		ReplyToAddresses: []string{req.Mail},
		Subject:          notificationSubject(org),
		TextBody:         body,
	})
	if err != nil {
		return failed(span, REASON_PROVIDER_ERROR, NewProviderError("Email provider rejected the notification", err))
	}

	span.SetAttributes(attribute.Bool("registration.delivered", true))

	return SubmissionResult{Accepted: true, Delivered: true}, nil
}

func failed(span trace.Span, reason ErrorReason, err error) (SubmissionResult, error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(reason))

	return SubmissionResult{ErrorKind: ptr.Of(reason)}, err
}
