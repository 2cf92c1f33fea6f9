package api

import (
	"net/http"

	"finbot/pkg/finbot"
)

// Response represents a successful API response with unified format.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse represents an error API response with structured information.
type ErrorResponse struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code,omitempty"`
}

// writeSuccess writes a successful response with data.
func writeSuccess(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, Response{
		Code: 0,
		Data: data,
	})
}

// writeErrorResponse writes an error response with proper HTTP status and error details.
func writeErrorResponse(w http.ResponseWriter, httpStatus int, err error) {
	response := ErrorResponse{
		Code:    httpStatus,
		Message: err.Error(),
	}

	if fbErr, ok := err.(*finbot.Error); ok {
		response.ErrorCode = string(fbErr.Code)
		httpStatus = mapErrorCodeToHTTPStatus(fbErr.Code)
		response.Code = httpStatus
	}

	writeJSON(w, httpStatus, response)
}

// mapErrorCodeToHTTPStatus maps business error codes to HTTP status codes.
func mapErrorCodeToHTTPStatus(code finbot.ErrorCode) int {
	switch code {
	case finbot.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case finbot.ErrCodeConfigMissing:
		return http.StatusServiceUnavailable
	case finbot.ErrCodeUpstream, finbot.ErrCodeDelivery:
		return http.StatusBadGateway
	case finbot.ErrCodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
