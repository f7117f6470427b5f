package registration

import (
	"bytes"
	"embed"
	"fmt"
	"net/url"
	"strings"
	"text/template"

	"github.com/munihsahne/site/site"
)

//go:embed templates
var templates embed.FS

var notificationTemplate = template.Must(template.ParseFS(templates, "templates/notification.tmpl"))

func notificationSubject(org site.Org) string {
	return fmt.Sprintf("%s • Ön Kayıt", org.Name)
}

func makeTextBody(req Request) (string, error) {
	var buf bytes.Buffer
	err := notificationTemplate.Execute(&buf, req)
	if err != nil {
		return "", fmt.Errorf("failed to execute notification template: %w", err)
	}

	return strings.TrimRight(buf.String(), "\n"), nil
}

// MailtoLink prefills the submitter's own mail client with the same notification, for
// people who would rather write to the organization directly.
func MailtoLink(org site.Org, req Request) (string, error) {
	body, err := makeTextBody(req)
	if err != nil {
		return "", NewFailedToComposeError("Failed to render mailto body", err)
	}

	return fmt.Sprintf("mailto:%s?subject=%s&body=%s",
		org.Email,
		escapeComponent(notificationSubject(org)),
		escapeComponent(body),
	), nil
}

// escapeComponent percent-encodes like a URI component; mail clients do not read '+'
// as a space.
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
