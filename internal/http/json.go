// Package httpx provides the HTTP handlers and middleware for the ParkEase API.
package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/parkease/parkeased/internal/errors"
	"github.com/parkease/parkeased/internal/ports"
)

// DecodeJSON decodes JSON from the request body into the destination and handles errors.
// Returns true if successful, false if there was an error (error response already written).
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
		return false
	}

	return true
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// ErrorParams groups parameters for WriteError.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// WriteError writes a JSON error response using ErrorParams.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	WriteJSON(w, p.Code, map[string]string{"error": p.ErrCode, "message": p.Err.Error()})
}

// WriteAppError maps an application error to its HTTP status and writes the
// JSON error document. Unrecognized errors become 500s with a generic body
// so internals never leak to clients.
func WriteAppError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "internal",
			Err:     errors.New("internal server error"),
		})
		return
	}

	body := map[string]string{
		"error":   string(appErr.Code),
		"message": appErr.Message,
	}
	if appErr.Field != "" {
		body["field"] = appErr.Field
	}
	if appErr.ProviderCode != "" {
		body["provider_code"] = appErr.ProviderCode
	}
	WriteJSON(w, statusForAppError(appErr), body)
}

func statusForAppError(appErr *apperrors.AppError) int {
	switch appErr.Code {
	case apperrors.ErrCodeValidation:
		return http.StatusBadRequest
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeConflict:
		return http.StatusConflict
	case apperrors.ErrCodeForbidden:
		return http.StatusForbidden
	case apperrors.ErrCodeAuth:
		return statusForProviderCode(appErr.ProviderCode)
	case apperrors.ErrCodeProfileWrite, apperrors.ErrCodeProfileFetch:
		return http.StatusBadGateway
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// statusForProviderCode maps the identity provider's error vocabulary onto
// HTTP statuses: a taken email is a conflict, a bad credential is a 401,
// a weak password is the caller's mistake, anything else is the provider's.
func statusForProviderCode(code string) int {
	switch code {
	case ports.CodeEmailInUse:
		return http.StatusConflict
	case ports.CodeWeakPassword:
		return http.StatusBadRequest
	case ports.CodeInvalidCredential:
		return http.StatusUnauthorized
	case ports.CodeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusUnauthorized
	}
}
