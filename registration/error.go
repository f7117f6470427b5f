package registration

import "fmt"

type ErrorReason string

const (
	REASON_INVALID_INPUT     ErrorReason = "INVALID_INPUT"
	REASON_PROVIDER_ERROR    ErrorReason = "PROVIDER_ERROR"
	REASON_FAILED_TO_COMPOSE ErrorReason = "FAILED_TO_COMPOSE"
)

type Error struct {
	Reason  ErrorReason
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s. Cause: %s", e.Reason, e.Message, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newRegistrationError(reason ErrorReason, message string, cause error) *Error {
	return &Error{
		Reason:  reason,
		Message: message,
		Cause:   cause,
	}
}

func NewInvalidInputError(message string) *Error {
	return newRegistrationError(REASON_INVALID_INPUT, message, nil)
}

func NewProviderError(message string, cause error) *Error {
	return newRegistrationError(REASON_PROVIDER_ERROR, message, cause)
}

func NewFailedToComposeError(message string, cause error) *Error {
	return newRegistrationError(REASON_FAILED_TO_COMPOSE, message, cause)
}
