package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"storefront/internal/admin"
	"storefront/internal/apiclient"
	"storefront/internal/schema"
)

const msgUnauthorized = "Unauthorized"

type messageBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageBody{Message: msg})
}

// writeError answers with the status matching err and its user-facing
// message.
func writeError(w http.ResponseWriter, err error) {
	status, msg := classify(err)
	writeMessage(w, status, msg)
}

func classify(err error) (int, string) {
	if errors.Is(err, admin.ErrUnauthorized) {
		return http.StatusUnauthorized, msgUnauthorized
	}

	if apiErr, ok := apiclient.AsError(err); ok {
		switch apiErr.Kind {
		case apiclient.KindValidation:
			return http.StatusBadRequest, apiErr.Message
		case apiclient.KindClient:
			if apiErr.Status >= 400 && apiErr.Status < 500 {
				return apiErr.Status, apiErr.Message
			}
			return http.StatusBadRequest, apiErr.Message
		case apiclient.KindServer:
			return http.StatusServiceUnavailable, apiErr.Message
		case apiclient.KindTransport, apiclient.KindInvalidResponse:
			return http.StatusBadGateway, apiErr.Message
		}
	}

	if ve, ok := schema.AsValidationError(err); ok {
		return http.StatusBadRequest, ve.Error()
	}

	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}
