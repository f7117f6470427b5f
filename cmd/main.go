package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/munihsahne/site/api"
	"github.com/munihsahne/site/events"
	"github.com/munihsahne/site/registration"
	"github.com/munihsahne/site/site"
)

func main() {
	ctx := context.Background()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	env := getEnvironmentFromEnv()

	s, err := loadSite(getSiteSettingsFromEnv())
	if err != nil {
		logger.Error("failed to load site config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	catalog, err := events.NewCatalog(s.Events)
	if err != nil {
		logger.Error("failed to build event catalog", slog.String("error", err.Error()))
		os.Exit(1)
	}

	provider, err := getProviderSettingsFromEnv(ctx)
	if err != nil {
		logger.Error("failed to read email provider settings", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if !provider.IsConfigured() {
		logger.Warn("email provider is not configured, join submissions will not be delivered")
	}

	emailSender, err := createEmailSender(ctx, logger, env, provider)
	if err != nil {
		logger.Error("failed to create email sender", slog.String("error", err.Error()))
		os.Exit(1)
	}

	siteAPI := api.NewAPI(s, catalog, provider, emailSender, logger, env)

	h, err := siteAPI.Handler()
	if err != nil {
		logger.Error("failed to build handler", slog.String("error", err.Error()))
		os.Exit(1)
	}

	serverSettings := getServerSettingsFromEnv()
	server := &http.Server{
		Handler:           h,
		Addr:              net.JoinHostPort(serverSettings.Host, serverSettings.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting server", slog.String("addr", server.Addr))

	err = server.ListenAndServe()
	if err != nil {
		logger.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

type ServerSettings struct {
	Host string
	Port string
}

func getServerSettingsFromEnv() ServerSettings {
	return ServerSettings{
		Host: getEnvOrDefault("HOST", "0.0.0.0"),
		Port: getEnvOrDefault("PORT", "8080"),
	}
}

type SiteSettings struct {
	ConfigPath     string
	AllowedOrigins []string
}

func getSiteSettingsFromEnv() SiteSettings {
	return SiteSettings{
		ConfigPath:     getEnvOrDefault("SITE_CONFIG", ""),
		AllowedOrigins: splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "")),
	}
}

func loadSite(settings SiteSettings) (site.Site, error) {
	s, err := site.Load(settings.ConfigPath)
	if err != nil {
		return site.Site{}, err
	}

	if len(settings.AllowedOrigins) > 0 {
		s.AllowedOrigins = settings.AllowedOrigins
	}

	return s, nil
}

func getProviderSettingsFromEnv(ctx context.Context) (registration.ProviderSettings, error) {
	settings := registration.ProviderSettings{
		APIKey:      getEnvOrDefault("EMAIL_API_KEY", ""),
		FromAddress: getEnvOrDefault("EMAIL_FROM", ""),
		ToAddress:   getEnvOrDefault("EMAIL_TO", ""),
	}

	param := getEnvOrDefault("EMAIL_API_KEY_SSM_PARAM", "")
	if settings.APIKey == "" && param != "" {
		key, err := getEmailAPIKeyFromSSM(ctx, getEmailRegion(), param)
		if err != nil {
			return settings, fmt.Errorf("failed to load email api key: %w", err)
		}
		settings.APIKey = key
	}

	return settings, nil
}

func getEmailRegion() string {
	return getEnvOrDefault("EMAIL_REGION", "eu-central-1")
}

func getEnvironmentFromEnv() api.Environment {
	switch strings.ToUpper(getEnvOrDefault("ENVIRONMENT", "LOCAL")) {
	case "PROD":
		return api.PROD
	default:
		return api.LOCAL
	}
}

func splitList(raw string) []string {
	var out []string
	for _, v := range strings.Split(raw, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnvOrDefault(key string, defaultVal string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}

	return defaultVal
}
