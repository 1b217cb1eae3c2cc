package api

import (
	"net/http"

	"portintel/pkg/portintel"
)

// Response represents a successful API response with unified format.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse represents an error API response with structured information.
type ErrorResponse struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code,omitempty"`
}

// writeSuccess writes a successful response with data.
func writeSuccess(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Response{Code: 0, Data: data})
}

// writeSuccessWithMessage writes a successful response with data and message.
func writeSuccessWithMessage(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, Response{Code: 0, Message: message, Data: data})
}

// writeErrorResponse writes an error response with proper HTTP status and
// the business error code extracted from the error chain.
func writeErrorResponse(w http.ResponseWriter, err error) {
	code := portintel.CodeOf(err)
	status := mapErrorCodeToHTTPStatus(code)
	writeJSON(w, status, ErrorResponse{
		Code:      status,
		Message:   err.Error(),
		ErrorCode: string(code),
	})
}

// mapErrorCodeToHTTPStatus maps business error codes to HTTP status codes.
func mapErrorCodeToHTTPStatus(code portintel.ErrorCode) int {
	switch code {
	case portintel.ErrCodeInvalidInput, portintel.ErrCodeOversold:
		return http.StatusBadRequest
	case portintel.ErrCodeNotFound:
		return http.StatusNotFound
	case portintel.ErrCodeCalculation:
		return http.StatusUnprocessableEntity
	case portintel.ErrCodePriceUnavailable:
		return http.StatusBadGateway
	case portintel.ErrCodeStorage, portintel.ErrCodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
