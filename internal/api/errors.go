package api

import "net/http"

// apiError is a client-facing error response body.
type apiError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func errMalformed(message string, details map[string]any) (int, apiError) {
	return http.StatusBadRequest, apiError{Code: "MALFORMED", Message: message, Details: details}
}

func errConflict(message string) (int, apiError) {
	return http.StatusUnprocessableEntity, apiError{Code: "CONFLICT", Message: message}
}

func errNotFound(message string) (int, apiError) {
	return http.StatusNotFound, apiError{Code: "NOT_FOUND", Message: message}
}

func errInternal(message string) (int, apiError) {
	return http.StatusInternalServerError, apiError{Code: "INTERNAL", Message: message}
}
