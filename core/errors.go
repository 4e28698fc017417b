package core

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	RelayErrorBadInput        = "RELAY_BAD_INPUT"
	RelayErrorNoRow           = "RELAY_NO_ROW"
	RelayErrorMissingField    = "RELAY_MISSING_FIELD"
	RelayErrorDeliveryFailed  = "RELAY_DELIVERY_FAILED"
	RelayErrorExternalFailure = "RELAY_EXTERNAL_FAILURE"
	RelayErrorInternal        = "RELAY_INTERNAL_ERROR"
)

func relayErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureRelayErrorEnvelope(richErr)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "no row"), strings.Contains(msg, "row not available"):
		return newRelayError(err.Error(), goerrors.CategoryNotFound, RelayErrorNoRow)
	case strings.Contains(msg, "email"):
		return newRelayError(err.Error(), goerrors.CategoryValidation, RelayErrorMissingField)
	case strings.Contains(msg, "deliver"), strings.Contains(msg, "webhook"):
		return newRelayError(err.Error(), goerrors.CategoryExternal, RelayErrorDeliveryFailed)
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"):
		return newRelayError(err.Error(), goerrors.CategoryBadInput, RelayErrorBadInput)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureRelayErrorEnvelope(mapped)
}

func newRelayError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureRelayErrorEnvelope(
		goerrors.New(message, category).
			WithTextCode(textCode),
	)
}

func ensureRelayErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = relayHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultRelayTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultRelayTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return RelayErrorBadInput
	case goerrors.CategoryNotFound:
		return RelayErrorNoRow
	case goerrors.CategoryExternal:
		return RelayErrorExternalFailure
	case goerrors.CategoryOperation:
		return RelayErrorDeliveryFailed
	default:
		return RelayErrorInternal
	}
}

func relayHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
