package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/International-Combat-Archery-Alliance/email"
	"github.com/International-Combat-Archery-Alliance/email/awsses"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/munihsahne/site/api"
	"github.com/munihsahne/site/registration"
)

var _ email.Sender = &EmailLogger{}

// email.Sender that logs out the email contents for local dev
type EmailLogger struct {
	logger *slog.Logger
}

func (el *EmailLogger) SendEmail(ctx context.Context, e email.Email) error {
	el.logger.Info("email that would be sent", slog.Any("email", e))

	return nil
}

// APIKey is an SES access key pair, written as "<access-key-id>:<secret-access-key>".
type APIKey struct {
	AccessKeyID     string
	SecretAccessKey string
}

func ParseAPIKey(raw string) (APIKey, error) {
	id, secret, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok || id == "" || secret == "" {
		return APIKey{}, errors.New("api key must have the form <access-key-id>:<secret-access-key>")
	}

	return APIKey{
		AccessKeyID:     id,
		SecretAccessKey: secret,
	}, nil
}

func createProdAWSEmailSender(ctx context.Context, rawKey string) (*awsses.AWSSESSender, error) {
	key, err := ParseAPIKey(rawKey)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(getEmailRegion()),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(key.AccessKeyID, key.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get aws config: %w", err)
	}

	sesClient := sesv2.NewFromConfig(cfg)
	sender := awsses.NewAWSSESSender(sesClient)

	return sender, nil
}

// createEmailSender returns nil when there is nothing to deliver with.
func createEmailSender(ctx context.Context, logger *slog.Logger, env api.Environment, provider registration.ProviderSettings) (email.Sender, error) {
	if env == api.LOCAL {
		return &EmailLogger{logger: logger}, nil
	}

	if !provider.IsConfigured() {
		return nil, nil
	}

	return createProdAWSEmailSender(ctx, provider.APIKey)
}
