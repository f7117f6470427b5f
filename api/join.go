package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/munihsahne/site/ptr"
	"github.com/munihsahne/site/registration"
)

const (
	joinPath = "/api/join"

	maxJoinBodyBytes = 65536
)

var (
	invalidInputKind  = string(registration.REASON_INVALID_INPUT)
	providerErrorKind = string(registration.REASON_PROVIDER_ERROR)
)

func (a *API) postJoin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := a.getLoggerOrBaseLogger(ctx)

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("Join request panicked", slog.Any("panic", rec))
			writeJoinResponse(logger, w, http.StatusInternalServerError, JoinResponse{Ok: false})
		}
	}()

	var body JoinRequest
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJoinBodyBytes)).Decode(&body)
	if err != nil {
		logger.Warn("Invalid body for join", slog.String("error", err.Error()))
		writeJoinResponse(logger, w, http.StatusBadRequest, joinRejected(invalidInputKind))
		return
	}

	result, err := registration.Submit(ctx, apiJoinToRequest(body), a.site.Org, a.provider, a.emailSender)
	if err != nil {
		var registrationErr *registration.Error
		if errors.As(err, &registrationErr) {
			switch registrationErr.Reason {
			case registration.REASON_INVALID_INPUT:
				logger.Warn("Join input rejected", slog.String("error", err.Error()))
				writeJoinResponse(logger, w, http.StatusBadRequest, joinRejected(invalidInputKind))
				return
			case registration.REASON_PROVIDER_ERROR:
				logger.Error("Email provider failed to send join notification", slog.String("error", err.Error()))
				writeJoinResponse(logger, w, http.StatusBadGateway, joinRejected(providerErrorKind))
				return
			}
		}

		logger.Error("Failed to handle join", slog.String("error", err.Error()))
		writeJoinResponse(logger, w, http.StatusInternalServerError, JoinResponse{Ok: false})
		return
	}

	if !result.Delivered {
		logger.Warn("Join accepted without email, provider is not configured")
	}

	writeJoinResponse(logger, w, http.StatusOK, JoinResponse{Ok: true, Sent: ptr.Bool(result.Delivered)})
}

func (a *API) postJoinMailto(w http.ResponseWriter, r *http.Request) {
	logger := a.getLoggerOrBaseLogger(r.Context())

	var body JoinRequest
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJoinBodyBytes)).Decode(&body)
	if err != nil {
		logger.Warn("Invalid body for mailto", slog.String("error", err.Error()))
		writeJoinResponse(logger, w, http.StatusBadRequest, joinRejected(invalidInputKind))
		return
	}

	link, err := registration.MailtoLink(a.site.Org, apiJoinToRequest(body))
	if err != nil {
		logger.Error("Failed to build mailto link", slog.String("error", err.Error()))
		writeJSON(logger, w, http.StatusInternalServerError, Error{Message: "Failed to build link", Code: InternalError})
		return
	}

	writeJSON(logger, w, http.StatusOK, MailtoResponse{Url: link})
}

func joinRejected(kind string) JoinResponse {
	return JoinResponse{Ok: false, Error: ptr.String(kind)}
}

func writeJoinResponse(logger *slog.Logger, w http.ResponseWriter, statusCode int, resp JoinResponse) {
	writeJSON(logger, w, statusCode, resp)
}

func apiJoinToRequest(body JoinRequest) registration.Request {
	return registration.Request{
		Name:     body.Name,
		Mail:     body.Mail,
		Phone:    body.Phone,
		Interest: body.Interest,
		Note:     body.Note,
	}
}
