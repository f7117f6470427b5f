package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/International-Combat-Archery-Alliance/middleware"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/google/uuid"
	oapimiddleware "github.com/oapi-codegen/nethttp-middleware"
)

const requestIdHeader = "X-Request-Id"

// Origins of the local dev servers for the site frontend.
var localOrigins = []string{"http://localhost:3000", "http://localhost:4173", "http://localhost:5173"}

func (a *API) requestContextMiddleware() middleware.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestId := uuid.New()

			ctx := ctxWithRequestId(r.Context(), requestId)
			ctx = middleware.CtxWithLogger(ctx, a.getLoggerOrBaseLogger(ctx).With(slog.String("request-id", requestId.String())))

			w.Header().Set(requestIdHeader, requestId.String())

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// joinPayloadMiddleware logs every join form body as received, before any validation.
func (a *API) joinPayloadMiddleware() middleware.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != joinPath || r.Body == nil {
				next.ServeHTTP(w, r)
				return
			}

			logger := a.getLoggerOrBaseLogger(r.Context())

			body, err := io.ReadAll(io.LimitReader(r.Body, maxJoinBodyBytes+1))
			r.Body.Close()
			if err != nil {
				logger.Warn("Failed to read join body", slog.String("error", err.Error()))
			}

			logger.Info("join form payload", slog.String("payload", string(body)))

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}

func (a *API) openapiValidateMiddleware(swagger *openapi3.T) middleware.MiddlewareFunc {
	return oapimiddleware.OapiRequestValidatorWithOptions(swagger, &oapimiddleware.Options{
		ErrorHandlerWithOpts: func(ctx context.Context, err error, w http.ResponseWriter, r *http.Request, opts oapimiddleware.ErrorHandlerOpts) {
			logger := a.getLoggerOrBaseLogger(ctx)
			logger.Warn("Request failed validation", slog.String("error", err.Error()), slog.String("path", r.URL.Path))

			var requestErr *openapi3filter.RequestError
			isRequestErr := errors.As(err, &requestErr) || opts.StatusCode == http.StatusBadRequest

			// The join form has its own response shape.
			if isRequestErr && strings.HasPrefix(r.URL.Path, joinPath) {
				writeJoinResponse(logger, w, http.StatusBadRequest, joinRejected(invalidInputKind))
				return
			}

			var e Error
			switch {
			case isRequestErr:
				e = Error{Message: err.Error(), Code: InputValidationError}
				opts.StatusCode = http.StatusBadRequest
			case opts.StatusCode == http.StatusNotFound:
				e = Error{Message: "Not found", Code: NotFound}
			case opts.StatusCode == http.StatusMethodNotAllowed:
				e = Error{Message: "Method not allowed", Code: MethodNotAllowed}
			default:
				e = Error{Message: err.Error(), Code: InternalError}
			}

			writeJSON(logger, w, opts.StatusCode, &e)
		},
	})
}

func (a *API) corsMiddleware() middleware.MiddlewareFunc {
	return middleware.CorsMiddleware(middleware.CorsConfig{
		LocalOrigins: localOrigins,
		ProdOrigins:  a.site.AllowedOrigins,
		IsProduction: a.env == PROD,
	})
}

func writeJSON(logger *slog.Logger, w http.ResponseWriter, statusCode int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		logger.Error("failed to marshal response", slog.String("error", err.Error()))
		statusCode = http.StatusInternalServerError
		body = []byte(`{"message": "failed to write response", "code": "InternalError"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(body)
}
