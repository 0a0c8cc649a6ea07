// Package response renders the JSON envelope every endpoint replies with.
package response

import "github.com/labstack/echo/v4"

// Envelope is the body of every API response. StatusCode mirrors the
// HTTP status. Error is only filled in development.
type Envelope struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data,omitempty"`
	Error      string `json:"error,omitempty"`
}

// JSON writes an envelope with the given status, message and optional data.
func JSON(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, Envelope{Message: message, StatusCode: code, Data: data})
}
